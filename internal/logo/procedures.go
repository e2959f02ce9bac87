// Completion: 100% - Registry, arity lookup and per-call substitution complete
package logo

import (
	"fmt"
	"strings"
)

// Procedure is a user-defined procedure. Params hold the formal names
// without the sigil, in binding order. Body is parsed but not resolved.
type Procedure struct {
	Name   string
	Params []string
	Body   []Statement
}

// Arity is the number of declared formals
func (p *Procedure) Arity() int { return len(p.Params) }

func (p *Procedure) String() string {
	var sb strings.Builder
	sb.WriteString(defineKeyword + " " + p.Name)
	for _, param := range p.Params {
		sb.WriteString(" " + paramSigil + param)
	}
	if len(p.Body) > 0 {
		sb.WriteString(" " + joinStatements(p.Body, " "))
	}
	sb.WriteString(" " + endKeyword)
	return sb.String()
}

// Procedures is the procedure registry
type Procedures struct {
	byName map[string]*Procedure
	order  []string // first definition order
}

func NewProcedures() *Procedures {
	return &Procedures{byName: make(map[string]*Procedure)}
}

// Push inserts or silently replaces a procedure
func (r *Procedures) Push(name string, body []Statement, params []string) {
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = &Procedure{Name: name, Params: params, Body: body}
}

// Lookup returns the registered procedure
func (r *Procedures) Lookup(name string) (*Procedure, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Arity returns the number of parameters of name
func (r *Procedures) Arity(name string) (int, error) {
	p, ok := r.byName[name]
	if !ok {
		return 0, UndefinedProcedureFault(name, 0)
	}
	return p.Arity(), nil
}

// Names lists the registered procedures in definition order
func (r *Procedures) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *Procedures) Len() int { return len(r.order) }

// Clone returns a registry with the same entries. Procedures are shared,
// they are never mutated.
func (r *Procedures) Clone() *Procedures {
	c := &Procedures{
		byName: make(map[string]*Procedure, len(r.byName)),
		order:  r.Names(),
	}
	for name, p := range r.byName {
		c.byName[name] = p
	}
	return c
}

// Instantiate binds args to the formals of name and returns the resolved
// body, ready to execute. Formals and args are zipped positionally: extra
// args are ignored and unmatched formals stay as parameter references.
// Parameter references that are not formals of name are left untouched.
func (r *Procedures) Instantiate(name string, args []float64) ([]Statement, error) {
	p, ok := r.byName[name]
	if !ok {
		return nil, UndefinedProcedureFault(name, 0)
	}

	bindings := make(map[string]float64, len(p.Params))
	for i, param := range p.Params {
		if i >= len(args) {
			break
		}
		bindings[param] = args[i]
	}

	body := make([]Statement, len(p.Body))
	for i, stmt := range p.Body {
		body[i] = substStatement(stmt, bindings)
	}

	resolved, err := Resolve(body, r)
	if err != nil {
		if f, ok := err.(*Fault); ok && f.Context.HelpText == "" {
			f.Context.HelpText = fmt.Sprintf("while calling procedure '%s'", name)
		}
		return nil, err
	}
	return resolved, nil
}

// substStatement deep-copies s, replacing bound parameter references
func substStatement(s Statement, bindings map[string]float64) Statement {
	switch n := s.(type) {
	case *ForwardStmt:
		return &ForwardStmt{Distance: substExpr(n.Distance, bindings)}
	case *BackStmt:
		return &BackStmt{Distance: substExpr(n.Distance, bindings)}
	case *RightStmt:
		return &RightStmt{Angle: substExpr(n.Angle, bindings)}
	case *LeftStmt:
		return &LeftStmt{Angle: substExpr(n.Angle, bindings)}
	case *RepeatStmt:
		return &RepeatStmt{Count: substExpr(n.Count, bindings), Body: substBlock(n.Body, bindings)}
	case *IfStmt:
		return &IfStmt{Cond: substCondition(n.Cond, bindings), Body: substBlock(n.Body, bindings)}
	case *Block:
		return substBlock(n, bindings)
	case *ExpressionStmt:
		return &ExpressionStmt{Expr: substExpr(n.Expr, bindings), Line: n.Line}
	case *CallStmt:
		args := make([]Expression, len(n.Args))
		for i, a := range n.Args {
			args[i] = substExpr(a, bindings)
		}
		return &CallStmt{Name: n.Name, Args: args, Line: n.Line}
	case *LabelStmt:
		return &LabelStmt{Name: n.Name, Line: n.Line}
	case *StopStmt:
		return &StopStmt{}
	}
	return s
}

func substBlock(b *Block, bindings map[string]float64) *Block {
	if b == nil {
		return nil
	}
	stmts := make([]Statement, len(b.Statements))
	for i, s := range b.Statements {
		stmts[i] = substStatement(s, bindings)
	}
	return &Block{Statements: stmts}
}

func substCondition(c Condition, bindings map[string]float64) Condition {
	switch n := c.(type) {
	case *CompareExpr:
		return &CompareExpr{
			Left:     substExpr(n.Left, bindings),
			Operator: n.Operator,
			Right:    substExpr(n.Right, bindings),
		}
	case *BoolCondition:
		return &BoolCondition{Value: n.Value}
	}
	return c
}

func substExpr(e Expression, bindings map[string]float64) Expression {
	switch n := e.(type) {
	case *NumberExpr:
		return &NumberExpr{Value: n.Value}
	case *ParamExpr:
		if v, ok := bindings[n.Name]; ok {
			return &NumberExpr{Value: v}
		}
		return &ParamExpr{Name: n.Name}
	case *BinaryExpr:
		return &BinaryExpr{
			Left:     substExpr(n.Left, bindings),
			Operator: n.Operator,
			Right:    substExpr(n.Right, bindings),
		}
	}
	return e
}
