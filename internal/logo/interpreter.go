// Completion: 100% - One-shot runs and persistent sessions
package logo

// Run parses src and executes it against canvas with a fresh turtle
func Run(src string, canvas Canvas, opts ...Option) (*Turtle, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	t := NewTurtle(canvas, prog.Procedures, opts...)
	if err := t.Run(prog.Statements); err != nil {
		return t, attachSource(err, src)
	}
	return t, nil
}

// Interpreter keeps the registry and the turtle between evaluations, so
// procedures defined in one input can be called from the next.
type Interpreter struct {
	procs  *Procedures
	turtle *Turtle
}

func NewInterpreter(canvas Canvas, opts ...Option) *Interpreter {
	procs := NewProcedures()
	return &Interpreter{
		procs:  procs,
		turtle: NewTurtle(canvas, procs, opts...),
	}
}

// Eval parses src against the session registry and runs its statements.
// Definitions made before a fault stay registered.
func (in *Interpreter) Eval(src string) error {
	prog, err := ParseWith(in.procs, src)
	if err != nil {
		return err
	}
	in.turtle.depth = 0
	if err := in.turtle.Run(prog.Statements); err != nil {
		return attachSource(err, src)
	}
	return nil
}

// Check parses src against a copy of the session registry without
// running anything or changing the session.
func (in *Interpreter) Check(src string) (*Program, error) {
	return ParseWith(in.procs.Clone(), src)
}

func (in *Interpreter) Procedures() *Procedures { return in.procs }

func (in *Interpreter) Turtle() *Turtle { return in.turtle }

// Reset forgets all procedures and moves the turtle home
func (in *Interpreter) Reset() {
	*in.procs = *NewProcedures()
	in.turtle.Reset()
}
