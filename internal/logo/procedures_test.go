package logo

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProceduresPushAndLookup(t *testing.T) {
	r := NewProcedures()
	r.Push("b", nil, []string{"x"})
	r.Push("a", nil, nil)
	r.Push("b", nil, []string{"x", "y"})

	if got := r.Names(); !cmp.Equal(got, []string{"b", "a"}) {
		t.Errorf("Names() = %v, want [b a]", got)
	}
	if n, err := r.Arity("b"); err != nil || n != 2 {
		t.Errorf("Arity(b) = %d, %v; want 2", n, err)
	}
	if _, err := r.Arity("c"); !errors.Is(err, ErrUndefinedProcedure) {
		t.Errorf("Arity(c) error = %v, want ErrUndefinedProcedure", err)
	}
	if _, ok := r.Lookup("a"); !ok {
		t.Error("Lookup(a) failed")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

// Confidence that this function is working: 100%
func TestInstantiateSubstitutes(t *testing.T) {
	prog := mustParse(t, "to sq :len repeat 4 [ fd :len rt 90 ] end")

	got, err := prog.Procedures.Instantiate("sq", []float64{100})
	if err != nil {
		t.Fatal(err)
	}
	want := []Statement{
		&RepeatStmt{
			Count: &NumberExpr{Value: 4},
			Body: &Block{Statements: []Statement{
				&ForwardStmt{Distance: &NumberExpr{Value: 100}},
				&RightStmt{Angle: &NumberExpr{Value: 90}},
			}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Instantiate mismatch (-want +got):\n%s", diff)
	}

	// the registry entry keeps its parameter references
	proc, _ := prog.Procedures.Lookup("sq")
	fwd := proc.Body[0].(*RepeatStmt).Body.Statements[0].(*ForwardStmt)
	if _, ok := fwd.Distance.(*ParamExpr); !ok {
		t.Errorf("registry body was mutated: %v", proc.Body)
	}
}

func TestInstantiateIdempotent(t *testing.T) {
	prog := mustParse(t, "to tree :size if :size < 5 [ stop ] fd :size rt 30 tree :size * 0.5 lt 60 tree :size / 2 rt 30 bk :size end")

	first, err := prog.Procedures.Instantiate("tree", []float64{40})
	if err != nil {
		t.Fatal(err)
	}
	second, err := prog.Procedures.Instantiate("tree", []float64{40})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("two instantiations differ (-first +second):\n%s", diff)
	}
	// the nested self call is resolved with a substituted argument
	call, ok := first[3].(*CallStmt)
	if !ok {
		t.Fatalf("expected *CallStmt, got %T", first[3])
	}
	if got := call.Args[0].String(); got != "(40 * 0.5)" {
		t.Errorf("nested argument = %s, want (40 * 0.5)", got)
	}
}

func TestInstantiatePositionalZip(t *testing.T) {
	r := NewProcedures()
	body := []Statement{
		&ForwardStmt{Distance: &ParamExpr{Name: "a"}},
		&BackStmt{Distance: &ParamExpr{Name: "b"}},
		&RightStmt{Angle: &ParamExpr{Name: "other"}},
	}
	r.Push("p", body, []string{"a", "b"})

	// extra arguments are ignored
	got, err := r.Instantiate("p", []float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	want := []Statement{
		&ForwardStmt{Distance: &NumberExpr{Value: 1}},
		&BackStmt{Distance: &NumberExpr{Value: 2}},
		&RightStmt{Angle: &ParamExpr{Name: "other"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("extra args (-want +got):\n%s", diff)
	}

	// unmatched formals stay as references
	got, err = r.Instantiate("p", []float64{7})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got[1].(*BackStmt).Distance.(*ParamExpr); !ok {
		t.Errorf("unmatched formal should stay a parameter, got %v", got[1])
	}
}

func TestInstantiateUndefined(t *testing.T) {
	_, err := NewProcedures().Instantiate("nope", nil)
	if !errors.Is(err, ErrUndefinedProcedure) {
		t.Errorf("expected ErrUndefinedProcedure, got %v", err)
	}
}

func TestProceduresClone(t *testing.T) {
	r := NewProcedures()
	r.Push("a", nil, nil)
	c := r.Clone()
	c.Push("b", nil, nil)
	if _, ok := r.Lookup("b"); ok {
		t.Error("clone shares its map with the original")
	}
	if !cmp.Equal(c.Names(), []string{"a", "b"}) {
		t.Errorf("clone names = %v", c.Names())
	}
}
