// Completion: 100% - Fault taxonomy complete, clear and helpful messages
package logo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Stage tells which pass of the interpreter raised a fault
type Stage int

const (
	StageLexical Stage = iota
	StageParse
	StageResolve
	StageEval
)

func (s Stage) String() string {
	switch s {
	case StageLexical:
		return "lexical"
	case StageParse:
		return "parse"
	case StageResolve:
		return "resolve"
	case StageEval:
		return "runtime"
	default:
		return "unknown"
	}
}

// Fault kinds, usable with errors.Is
var (
	ErrUnmatchedBracket      = errors.New("unmatched bracket")
	ErrMalformedHeader       = errors.New("malformed procedure header")
	ErrExpectedValue         = errors.New("expected value")
	ErrExpectedBlock         = errors.New("expected block")
	ErrUnknownStatement      = errors.New("unknown statement")
	ErrInvalidComparison     = errors.New("invalid comparison operator")
	ErrUndefinedProcedure    = errors.New("undefined procedure")
	ErrInsufficientArguments = errors.New("insufficient arguments")
	ErrUnresolvedParam       = errors.New("unresolved parameter")
	ErrNotBlock              = errors.New("body is not a block")
	ErrUnresolvedStatement   = errors.New("unresolved statement reached execution")
	ErrRecursionLimit        = errors.New("recursion limit exceeded")
)

// FaultContext provides additional context for a fault
type FaultContext struct {
	SourceLine string // The actual line of source code
	Suggestion string // "did you mean 'x'?"
	HelpText   string // Explanatory help text
}

// Fault is a fatal interpreter error. Every fault aborts the run.
type Fault struct {
	Stage   Stage
	Kind    error
	Message string
	Line    int    // 1-based source line, 0 when unknown
	Token   string // offending token, if any
	Context FaultContext
}

func (f *Fault) Error() string {
	if f.Line > 0 {
		return fmt.Sprintf("%d: %s", f.Line, f.Message)
	}
	return f.Message
}

func (f *Fault) Unwrap() error { return f.Kind }

// Format returns a report with the source line, an underline and hints
func (f *Fault) Format(useColor bool) string {
	paint := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	red := paint(color.FgRed, color.Bold)
	blue := paint(color.FgBlue, color.Bold)
	green := paint(color.FgGreen, color.Bold)
	cyan := paint(color.FgCyan, color.Bold)

	var sb strings.Builder
	sb.WriteString(red(f.Stage.String() + " error:"))
	sb.WriteString(" ")
	sb.WriteString(f.Message)
	sb.WriteString("\n")

	if f.Line > 0 {
		sb.WriteString(blue(fmt.Sprintf("  --> line %d", f.Line)))
		sb.WriteString("\n")
	}

	if f.Context.SourceLine != "" && f.Line > 0 {
		lineNum := fmt.Sprintf("%d", f.Line)
		padding := strings.Repeat(" ", len(lineNum)+1)
		sb.WriteString(padding + "|\n")
		sb.WriteString(lineNum + " | " + f.Context.SourceLine + "\n")
		if col := tokenColumn(f.Context.SourceLine, f.Token); col >= 0 {
			sb.WriteString(padding + "| " + strings.Repeat(" ", col))
			sb.WriteString(red(strings.Repeat("^", max(len(f.Token), 1))))
			sb.WriteString("\n")
		}
	}

	if f.Context.Suggestion != "" {
		sb.WriteString(green("   help: "))
		sb.WriteString(f.Context.Suggestion)
		sb.WriteString("\n")
	}
	if f.Context.HelpText != "" {
		sb.WriteString(cyan("   note: "))
		sb.WriteString(f.Context.HelpText)
		sb.WriteString("\n")
	}
	return sb.String()
}

// tokenColumn finds where tok starts on line; -1 if it does not appear as a word
func tokenColumn(line, tok string) int {
	if tok == "" {
		return -1
	}
	for start := 0; start < len(line); {
		i := strings.Index(line[start:], tok)
		if i < 0 {
			return -1
		}
		i += start
		end := i + len(tok)
		before := i == 0 || isSeparator(line[i-1])
		after := end == len(line) || isSeparator(line[end])
		if before && after {
			return i
		}
		start = i + 1
	}
	return -1
}

func isSeparator(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '[', ']', '*', '/':
		return true
	}
	return false
}

// attachSource fills in the source line of a fault if it is still missing
func attachSource(err error, src string) error {
	var f *Fault
	if !errors.As(err, &f) || f.Line <= 0 || f.Context.SourceLine != "" {
		return err
	}
	lines := strings.Split(src, "\n")
	if f.Line <= len(lines) {
		f.Context.SourceLine = strings.TrimRight(lines[f.Line-1], "\r")
	}
	return err
}

// Helper functions for creating common faults

// SyntaxFault creates a parse-stage fault at tok
func SyntaxFault(kind error, tok Token, format string, args ...interface{}) *Fault {
	return &Fault{
		Stage:   StageParse,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Token:   tok.Text,
	}
}

// UnmatchedBracketFault reports a '[' without ']' or a stray ']'
func UnmatchedBracketFault(tok Token) *Fault {
	f := &Fault{
		Stage:   StageLexical,
		Kind:    ErrUnmatchedBracket,
		Message: fmt.Sprintf("unmatched '%s'", tok.Text),
		Line:    tok.Line,
		Token:   tok.Text,
	}
	if tok.Text == "[" {
		f.Context.HelpText = "every '[' needs a closing ']'"
	}
	return f
}

// ExpectedValueFault reports a missing operand
func ExpectedValueFault(tok Token, atEnd bool) *Fault {
	if atEnd {
		return &Fault{
			Stage:   StageParse,
			Kind:    ErrExpectedValue,
			Message: "expected value, got end of input",
			Line:    tok.Line,
		}
	}
	return SyntaxFault(ErrExpectedValue, tok, "expected value, got '%s'", tok.Text)
}

// UndefinedProcedureFault reports a call to an unknown procedure name
func UndefinedProcedureFault(name string, line int) *Fault {
	return &Fault{
		Stage:   StageResolve,
		Kind:    ErrUndefinedProcedure,
		Message: fmt.Sprintf("undefined procedure '%s'", name),
		Line:    line,
		Token:   name,
		Context: FaultContext{
			HelpText: "procedures must be defined with 'to ... end' before they are called",
		},
	}
}

// InsufficientArgumentsFault reports a call that could not collect its arguments
func InsufficientArgumentsFault(name string, arity, got, line int) *Fault {
	return &Fault{
		Stage:   StageResolve,
		Kind:    ErrInsufficientArguments,
		Message: fmt.Sprintf("insufficient arguments: '%s' expects %d, found %d", name, arity, got),
		Line:    line,
		Token:   name,
	}
}

// RuntimeFault creates an evaluation-stage fault
func RuntimeFault(kind error, format string, args ...interface{}) *Fault {
	return &Fault{
		Stage:   StageEval,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}
