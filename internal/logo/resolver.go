// Completion: 100% - Call resolution complete, nested blocks handled
package logo

// resolver.go - second pass of the front end
//
// Resolve turns every LabelStmt into a CallStmt by taking the next
// arity(name) statements as arguments. Each argument must be an
// ExpressionStmt. Nested bodies are independent statement streams and are
// resolved on their own.

// Resolve returns a copy of stmts with every call bound. The input slice is
// not modified. Expressions are shared with the input.
func Resolve(stmts []Statement, procs *Procedures) ([]Statement, error) {
	out := make([]Statement, 0, len(stmts))
	for i := 0; i < len(stmts); i++ {
		switch s := stmts[i].(type) {
		case *LabelStmt:
			arity, err := procs.Arity(s.Name)
			if err != nil {
				return nil, UndefinedProcedureFault(s.Name, s.Line)
			}
			args := make([]Expression, 0, arity)
			for len(args) < arity {
				next := i + 1 + len(args)
				if next >= len(stmts) {
					return nil, InsufficientArgumentsFault(s.Name, arity, len(args), s.Line)
				}
				arg, ok := stmts[next].(*ExpressionStmt)
				if !ok {
					return nil, InsufficientArgumentsFault(s.Name, arity, len(args), s.Line)
				}
				args = append(args, arg.Expr)
			}
			i += arity
			out = append(out, &CallStmt{Name: s.Name, Args: args, Line: s.Line})

		case *RepeatStmt:
			body, err := resolveBlock(s.Body, procs)
			if err != nil {
				return nil, err
			}
			out = append(out, &RepeatStmt{Count: s.Count, Body: body})

		case *IfStmt:
			body, err := resolveBlock(s.Body, procs)
			if err != nil {
				return nil, err
			}
			out = append(out, &IfStmt{Cond: s.Cond, Body: body})

		case *Block:
			body, err := resolveBlock(s, procs)
			if err != nil {
				return nil, err
			}
			out = append(out, body)

		default:
			out = append(out, s)
		}
	}
	return out, nil
}

func resolveBlock(b *Block, procs *Procedures) (*Block, error) {
	if b == nil {
		return nil, nil
	}
	stmts, err := Resolve(b.Statements, procs)
	if err != nil {
		return nil, err
	}
	return &Block{Statements: stmts}, nil
}
