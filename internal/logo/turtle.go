// Completion: 100% - Evaluator complete with scoped stop and recursion guard
package logo

import (
	"fmt"
	"io"
	"math"
)

// DefaultMaxDepth bounds nested procedure activations
const DefaultMaxDepth = 10000

const (
	startHeading = 270.0 // pointing up, y grows downwards
	maxRepeat    = math.MaxUint32
)

// Canvas receives one line per forward or back movement, in execution order
type Canvas interface {
	AddLine(x1, y1, x2, y2 float64)
}

// Segment is one traced line
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// Length returns the euclidean length of the segment
func (s Segment) Length() float64 {
	return math.Hypot(s.X2-s.X1, s.Y2-s.Y1)
}

// Drawing is a Canvas that records segments
type Drawing struct {
	Segments []Segment
}

func (d *Drawing) AddLine(x1, y1, x2, y2 float64) {
	d.Segments = append(d.Segments, Segment{x1, y1, x2, y2})
}

// Signal tells the enclosing scope whether to keep going
type Signal int

const (
	Continue Signal = iota
	Halt            // stop was executed; absorbed by the nearest call
)

func (s Signal) String() string {
	if s == Halt {
		return "halt"
	}
	return "continue"
}

// Turtle is the pen. It walks resolved statements and draws onto a canvas.
type Turtle struct {
	X, Y    float64
	Heading float64 // degrees, reduced mod 360 but may be negative

	canvas   Canvas
	procs    *Procedures
	depth    int
	maxDepth int
	trace    io.Writer
}

// Option configures a Turtle
type Option func(*Turtle)

// WithMaxDepth sets the recursion limit. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(t *Turtle) {
		if n > 0 {
			t.maxDepth = n
		}
	}
}

// WithTrace writes one line per procedure activation to w
func WithTrace(w io.Writer) Option {
	return func(t *Turtle) { t.trace = w }
}

// NewTurtle creates a turtle at the origin, heading up
func NewTurtle(canvas Canvas, procs *Procedures, opts ...Option) *Turtle {
	if procs == nil {
		procs = NewProcedures()
	}
	t := &Turtle{
		Heading:  startHeading,
		canvas:   canvas,
		procs:    procs,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Reset moves the turtle back to the origin, heading up
func (t *Turtle) Reset() {
	t.X, t.Y, t.Heading = 0, 0, startHeading
	t.depth = 0
}

// Run executes top-level statements in order. A stop at top level ends only
// the statement that executed it.
func (t *Turtle) Run(stmts []Statement) error {
	for _, stmt := range stmts {
		if _, err := t.Execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs one resolved statement
func (t *Turtle) Execute(stmt Statement) (Signal, error) {
	switch s := stmt.(type) {
	case *ForwardStmt:
		d, err := Eval(s.Distance)
		if err != nil {
			return Continue, err
		}
		t.move(d)

	case *BackStmt:
		d, err := Eval(s.Distance)
		if err != nil {
			return Continue, err
		}
		t.move(-d)

	case *RightStmt:
		a, err := Eval(s.Angle)
		if err != nil {
			return Continue, err
		}
		t.Heading = math.Mod(t.Heading+a, 360)

	case *LeftStmt:
		a, err := Eval(s.Angle)
		if err != nil {
			return Continue, err
		}
		t.Heading = math.Mod(t.Heading-a, 360)

	case *RepeatStmt:
		v, err := Eval(s.Count)
		if err != nil {
			return Continue, err
		}
		if s.Body == nil {
			return Continue, RuntimeFault(ErrNotBlock, "repeat body must be a block")
		}
		for n := repeatCount(v); n > 0; n-- {
			sig, err := t.runBlock(s.Body)
			if err != nil || sig == Halt {
				return sig, err
			}
		}

	case *IfStmt:
		cond, err := EvalCondition(s.Cond)
		if err != nil {
			return Continue, err
		}
		if s.Body == nil {
			return Continue, RuntimeFault(ErrNotBlock, "if body must be a block")
		}
		if cond.Value {
			return t.runBlock(s.Body)
		}

	case *Block:
		return t.runBlock(s)

	case *CallStmt:
		return Continue, t.call(s)

	case *StopStmt:
		return Halt, nil

	case *LabelStmt, *ExpressionStmt:
		f := RuntimeFault(ErrUnresolvedStatement, "unresolved statement '%s' reached execution", stmt)
		f.Line = statementLine(stmt)
		return Continue, f

	default:
		return Continue, RuntimeFault(ErrUnresolvedStatement, "unsupported statement %T", stmt)
	}
	return Continue, nil
}

func (t *Turtle) runBlock(b *Block) (Signal, error) {
	for _, stmt := range b.Statements {
		sig, err := t.Execute(stmt)
		if err != nil || sig == Halt {
			return sig, err
		}
	}
	return Continue, nil
}

// call evaluates the arguments in the caller's context, instantiates the
// body and runs it. A Halt inside the body ends this activation only.
func (t *Turtle) call(c *CallStmt) error {
	args := make([]float64, len(c.Args))
	for i, a := range c.Args {
		v, err := Eval(a)
		if err != nil {
			return err
		}
		args[i] = v
	}

	if t.depth >= t.maxDepth {
		f := RuntimeFault(ErrRecursionLimit, "recursion limit of %d exceeded calling '%s'", t.maxDepth, c.Name)
		f.Line = c.Line
		f.Token = c.Name
		f.Context.HelpText = "a recursive procedure needs an 'if ... [ stop ]' base case"
		return f
	}

	body, err := t.procs.Instantiate(c.Name, args)
	if err != nil {
		return err
	}
	if t.trace != nil {
		fmt.Fprintf(t.trace, "%*scall %s %v\n", t.depth*2, "", c.Name, args)
	}

	t.depth++
	defer func() { t.depth-- }()
	for _, stmt := range body {
		sig, err := t.Execute(stmt)
		if err != nil {
			return err
		}
		if sig == Halt {
			break
		}
	}
	return nil
}

func (t *Turtle) move(distance float64) {
	rad := t.Heading * math.Pi / 180
	nx := t.X + distance*math.Cos(rad)
	ny := t.Y + distance*math.Sin(rad)
	if t.canvas != nil {
		t.canvas.AddLine(t.X, t.Y, nx, ny)
	}
	t.X, t.Y = nx, ny
}

// repeatCount truncates v towards zero and saturates to [0, MaxUint32].
// NaN counts as zero.
func repeatCount(v float64) uint64 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= maxRepeat:
		return maxRepeat
	}
	return uint64(v)
}

func statementLine(stmt Statement) int {
	switch s := stmt.(type) {
	case *LabelStmt:
		return s.Line
	case *ExpressionStmt:
		return s.Line
	case *CallStmt:
		return s.Line
	}
	return 0
}
