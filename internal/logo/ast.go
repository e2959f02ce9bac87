// Completion: 100% - All AST nodes implemented
package logo

import (
	"fmt"
	"strings"
)

// AST Nodes
type Node interface {
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Condition is the gate of an if statement
type Condition interface {
	Node
	conditionNode()
}

// Expressions

type NumberExpr struct {
	Value float64
}

func (n *NumberExpr) String() string  { return fmt.Sprintf("%g", n.Value) }
func (n *NumberExpr) expressionNode() {}

// ParamExpr references a procedure parameter by name (without the sigil)
type ParamExpr struct {
	Name string
}

func (p *ParamExpr) String() string  { return paramSigil + p.Name }
func (p *ParamExpr) expressionNode() {}

type BinaryExpr struct {
	Left     Expression
	Operator string // one of * / + -
	Right    Expression
}

func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}
func (b *BinaryExpr) expressionNode() {}

// Conditions

type CompareExpr struct {
	Left     Expression
	Operator string // ">" or "<"
	Right    Expression
}

func (c *CompareExpr) String() string {
	return c.Left.String() + " " + c.Operator + " " + c.Right.String()
}
func (c *CompareExpr) conditionNode() {}

// BoolCondition is a reduced comparison. The parser never produces one.
type BoolCondition struct {
	Value bool
}

func (b *BoolCondition) String() string { return fmt.Sprintf("%t", b.Value) }
func (b *BoolCondition) conditionNode() {}

// Statements

type ForwardStmt struct {
	Distance Expression
}

func (f *ForwardStmt) String() string { return "forward " + f.Distance.String() }
func (f *ForwardStmt) statementNode() {}

type BackStmt struct {
	Distance Expression
}

func (b *BackStmt) String() string { return "back " + b.Distance.String() }
func (b *BackStmt) statementNode() {}

type RightStmt struct {
	Angle Expression
}

func (r *RightStmt) String() string { return "right " + r.Angle.String() }
func (r *RightStmt) statementNode() {}

type LeftStmt struct {
	Angle Expression
}

func (l *LeftStmt) String() string { return "left " + l.Angle.String() }
func (l *LeftStmt) statementNode() {}

type RepeatStmt struct {
	Count Expression
	Body  *Block
}

func (r *RepeatStmt) String() string {
	return "repeat " + r.Count.String() + " " + blockString(r.Body)
}
func (r *RepeatStmt) statementNode() {}

type IfStmt struct {
	Cond Condition
	Body *Block
}

func (i *IfStmt) String() string {
	return "if " + i.Cond.String() + " " + blockString(i.Body)
}
func (i *IfStmt) statementNode() {}

// Block is a bracketed statement sequence: a loop or if body, or a grouping
type Block struct {
	Statements []Statement
}

func (b *Block) String() string {
	if len(b.Statements) == 0 {
		return "[ ]"
	}
	return "[ " + joinStatements(b.Statements, " ") + " ]"
}
func (b *Block) statementNode() {}

func blockString(b *Block) string {
	if b == nil {
		return "<nil>"
	}
	return b.String()
}

// LabelStmt is a bare procedure name whose arguments are not yet bound.
// The resolver turns it into a CallStmt.
type LabelStmt struct {
	Name string
	Line int
}

func (l *LabelStmt) String() string { return l.Name }
func (l *LabelStmt) statementNode() {}

// CallStmt is a fully resolved procedure invocation
type CallStmt struct {
	Name string
	Args []Expression
	Line int
}

func (c *CallStmt) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Name + " " + strings.Join(args, " ")
}
func (c *CallStmt) statementNode() {}

// ExpressionStmt is an expression in statement position: a pending call argument
type ExpressionStmt struct {
	Expr Expression
	Line int
}

func (e *ExpressionStmt) String() string { return e.Expr.String() }
func (e *ExpressionStmt) statementNode() {}

type StopStmt struct{}

func (s *StopStmt) String() string { return "stop" }
func (s *StopStmt) statementNode() {}

func joinStatements(stmts []Statement, sep string) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = s.String()
	}
	return strings.Join(parts, sep)
}

// Program is a parsed and resolved program
type Program struct {
	Statements []Statement
	Procedures *Procedures
}

func (p *Program) String() string {
	var out strings.Builder
	for _, name := range p.Procedures.Names() {
		proc, _ := p.Procedures.Lookup(name)
		out.WriteString(proc.String())
		out.WriteString("\n")
	}
	for _, stmt := range p.Statements {
		out.WriteString(stmt.String())
		out.WriteString("\n")
	}
	return out.String()
}
