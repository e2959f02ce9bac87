// Completion: 100% - Interactive session complete
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/xyproto/turtle/internal/logo"
)

const (
	promptMain = "turtle> "
	promptCont = "   ...> "
)

const replHelp = `Statements are run as soon as they are complete. Procedures stay
defined for the rest of the session.

    :help              Show this help
    :procs             List the defined procedures
    :state             Show the turtle position and the number of lines
    :save [file]       Write the drawing (.svg, .json or .yaml, default turtle.svg)
    :load <file>       Run a program file in this session
    :clear             Remove the drawing, keep the procedures
    :reset             Start over: no procedures, turtle at home, empty drawing
    :quit              Leave (Ctrl+D works too)
`

// replSession is the state behind the prompt
type replSession struct {
	cfg      *Config
	canvas   *SVGCanvas
	interp   *logo.Interpreter
	out      io.Writer
	errOut   io.Writer
	useColor bool
}

func newReplSession(ctx *CommandContext) *replSession {
	canvas := NewSVGCanvas(ctx.Config.ViewBox, ctx.Config.Stroke)
	return &replSession{
		cfg:      ctx.Config,
		canvas:   canvas,
		interp:   logo.NewInterpreter(canvas, ctx.Config.Options()...),
		out:      ctx.Stdout,
		errOut:   ctx.Stderr,
		useColor: ctx.UseColor,
	}
}

// eval runs code in the session and prints a short summary
func (s *replSession) eval(code string) {
	before := len(s.canvas.Segments)
	if err := s.interp.Eval(code); err != nil {
		fmt.Fprint(s.errOut, FormatError(err, s.useColor))
		return
	}
	if drawn := len(s.canvas.Segments) - before; drawn > 0 {
		fmt.Fprintf(s.out, "%d line(s) drawn\n", drawn)
	}
}

// command handles a line starting with ':'. It returns true to leave.
func (s *replSession) command(line string) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case ":help", ":h", ":?":
		fmt.Fprint(s.out, replHelp)

	case ":quit", ":exit", ":q":
		return true

	case ":procs":
		if s.interp.Procedures().Len() == 0 {
			fmt.Fprintln(s.out, "no procedures defined")
			return false
		}
		writeProcTable(s.out, s.interp.Procedures())

	case ":state":
		t := s.interp.Turtle()
		fmt.Fprintf(s.out, "position (%s, %s) heading %s, %d line(s), %d procedure(s)\n",
			formatCoord(t.X), formatCoord(t.Y), formatCoord(t.Heading),
			len(s.canvas.Segments), s.interp.Procedures().Len())

	case ":save":
		path := "turtle.svg"
		if len(fields) > 1 {
			path = fields[1]
		}
		if err := s.save(path); err != nil {
			fmt.Fprint(s.errOut, FormatError(err, s.useColor))
			return false
		}
		fmt.Fprintf(s.out, "saved %d line(s) to %s\n", len(s.canvas.Segments), path)

	case ":load":
		if len(fields) < 2 {
			fmt.Fprintln(s.errOut, "usage: :load <file>")
			return false
		}
		data, err := os.ReadFile(fields[1])
		if err != nil {
			fmt.Fprint(s.errOut, FormatError(err, s.useColor))
			return false
		}
		s.eval(string(data))

	case ":clear":
		s.canvas.Segments = nil

	case ":reset":
		s.interp.Reset()
		s.canvas.Segments = nil
		fmt.Fprintln(s.out, "session reset")

	default:
		fmt.Fprintf(s.errOut, "unknown command %s, type :help for help\n", fields[0])
	}
	return false
}

// save writes the drawing in the format given by the file extension
func (s *replSession) save(path string) error {
	format := FormatSVG
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	}
	r := &Rendering{Name: path, Canvas: s.canvas, Turtle: s.interp.Turtle()}
	doc, err := r.Encode(format)
	if err != nil {
		return err
	}
	return doc.SaveAs(path)
}

// complete offers keywords and procedure names for the word under the cursor
func (s *replSession) complete(line string) []string {
	start := strings.LastIndexAny(line, " [") + 1
	prefix := line[start:]
	if prefix == "" {
		return nil
	}
	words := logo.Keywords()
	words = append(words, s.interp.Procedures().Names()...)
	sort.Strings(words)

	var out []string
	for _, w := range words {
		if strings.HasPrefix(w, prefix) && w != prefix {
			out = append(out, line[:start]+w)
		}
	}
	return out
}

// cmdREPL runs the interactive session
func cmdREPL(ctx *CommandContext) error {
	session := newReplSession(ctx)
	fmt.Fprintf(ctx.Stdout, "%s, type :help for help\n", versionString)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(session.complete)

	// History is best-effort
	if ctx.Config.History != "" {
		if f, err := os.Open(ctx.Config.History); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	for {
		code, ok := readUntilComplete(ln, promptMain, promptCont)
		if !ok { // Ctrl+D
			fmt.Fprintln(ctx.Stdout)
			break
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if session.command(trimmed) {
				break
			}
			continue
		}
		session.eval(code)
	}

	if ctx.Config.History != "" {
		if f, err := os.Create(ctx.Config.History); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return nil
}

// readUntilComplete keeps reading lines while the input has an open '['
// or an unfinished procedure definition
func readUntilComplete(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the current input
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !logo.NeedsMore(src) {
			return src, true
		}
	}
}
