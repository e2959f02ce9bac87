// Completion: 100% - Subcommands complete
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/xyproto/turtle/internal/logo"
)

// cli.go - subcommands of the turtle command
//
// - turtle render <file>... (run programs, write SVG, JSON or YAML)
// - turtle check <file>... (parse and resolve only)
// - turtle ast <file> (print the resolved program)
// - turtle procs <file> (list procedures)
// - turtle repl (interactive session)
// - turtle watch <file> (render again on every change)
// - turtle <file.logo> (shorthand for render)

// CommandContext holds the execution context for a CLI command
type CommandContext struct {
	Args       []string
	Config     *Config
	OutputPath string // -o, "-" for stdout
	Format     string
	Watch      bool
	UseColor   bool
	Stdout     io.Writer
	Stderr     io.Writer
	Stdin      io.Reader
}

// NewCommandContext sets up a context writing to the process streams
func NewCommandContext(args []string, cfg *Config, outputPath string) *CommandContext {
	return &CommandContext{
		Args:       args,
		Config:     cfg,
		OutputPath: outputPath,
		Format:     cfg.Format,
		UseColor:   useColorFor(os.Stderr, cfg),
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Stdin:      os.Stdin,
	}
}

// RunCLI runs the subcommand named by the first argument
func RunCLI(ctx *CommandContext) error {
	args := ctx.Args
	if len(args) == 0 {
		return cmdHelp(ctx)
	}

	subcmd := args[0]
	switch subcmd {
	case "render":
		if len(args) < 2 {
			return fmt.Errorf("usage: turtle render <file>... [-o output] [-format svg|json|yaml]")
		}
		return cmdRender(ctx, args[1:])

	case "check":
		if len(args) < 2 {
			return fmt.Errorf("usage: turtle check <file>...")
		}
		return cmdCheck(ctx, args[1:])

	case "ast":
		if len(args) != 2 {
			return fmt.Errorf("usage: turtle ast <file>")
		}
		return cmdAST(ctx, args[1])

	case "procs":
		if len(args) != 2 {
			return fmt.Errorf("usage: turtle procs <file>")
		}
		return cmdProcs(ctx, args[1])

	case "repl":
		return cmdREPL(ctx)

	case "watch":
		if len(args) < 2 {
			return fmt.Errorf("usage: turtle watch <file> [-o output]")
		}
		ctx.Watch = true
		return cmdRender(ctx, args[1:])

	case "help", "--help", "-h":
		return cmdHelp(ctx)

	case "version", "--version", "-V":
		fmt.Fprintln(ctx.Stdout, versionString)
		return nil

	default:
		// Shorthand for render
		if isSourceFile(subcmd) || isGeometryFile(subcmd) {
			return cmdRender(ctx, args)
		}
		return fmt.Errorf("unknown command: %s\n\nRun 'turtle help' for usage information", subcmd)
	}
}

// parseRenderArgs picks -o, -format, -j and -watch out of the argument list
func parseRenderArgs(ctx *CommandContext, args []string) ([]string, error) {
	var inputs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		takeValue := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("flag %s needs a value", arg)
			}
			i++
			return args[i], nil
		}
		switch arg {
		case "-o", "--output":
			v, err := takeValue()
			if err != nil {
				return nil, err
			}
			ctx.OutputPath = v
		case "-format", "--format", "-f":
			v, err := takeValue()
			if err != nil {
				return nil, err
			}
			ctx.Format = strings.ToLower(v)
		case "-j", "--jobs":
			v, err := takeValue()
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid job count %q", v)
			}
			ctx.Config.Jobs = n
		case "-watch", "--watch", "-w":
			ctx.Watch = true
		default:
			if strings.HasPrefix(arg, "-") && arg != "-" {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
			inputs = append(inputs, arg)
		}
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input files specified")
	}
	if err := ValidateFormat(ctx.Format); err != nil {
		return nil, err
	}
	return inputs, nil
}

// cmdRender renders one or more files
// Confidence that this function is working: 90%
func cmdRender(ctx *CommandContext, args []string) error {
	inputs, err := parseRenderArgs(ctx, args)
	if err != nil {
		return err
	}
	for _, input := range inputs {
		if _, err := os.Stat(input); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", input)
		}
	}

	if ctx.Watch {
		if len(inputs) != 1 {
			return fmt.Errorf("watch mode takes exactly one file")
		}
		return watchAndRender(context.Background(), ctx, inputs[0])
	}

	if len(inputs) == 1 {
		if ctx.Config.Verbose {
			fmt.Fprintf(ctx.Stderr, "Rendering %s -> %s\n", inputs[0], describeOutput(ctx, inputs[0]))
		}
		return renderFile(inputs[0], ctx.OutputPath, ctx.Format, ctx.Config, ctx.Stdout)
	}

	if ctx.OutputPath == "-" {
		return fmt.Errorf("cannot write %d drawings to stdout", len(inputs))
	}
	if ctx.Config.Verbose {
		fmt.Fprintf(ctx.Stderr, "Rendering %d files with %d jobs\n", len(inputs), ctx.Config.Jobs)
	}
	if err := renderBatch(context.Background(), inputs, ctx.OutputPath, ctx.Format, ctx.Config); err != nil {
		// one report per failed input
		collector := NewErrorCollector()
		collector.Add(err)
		fmt.Fprint(ctx.Stderr, collector.Report(ctx.UseColor))
		return errReported
	}
	return nil
}

func describeOutput(ctx *CommandContext, input string) string {
	switch ctx.OutputPath {
	case "-":
		return "stdout"
	case "":
		return defaultOutputPath(input, ctx.Format)
	}
	return ctx.OutputPath
}

// parseFile reads and parses a program without running it
func parseFile(path string) (*logo.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, err := logo.Parse(string(data))
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	return prog, nil
}

// cmdCheck parses and resolves every file and reports all faults
func cmdCheck(ctx *CommandContext, files []string) error {
	collector := NewErrorCollector()
	for _, file := range files {
		prog, err := parseFile(file)
		if err != nil {
			collector.Add(err)
			continue
		}
		for _, v := range programStrayValues(prog) {
			fmt.Fprint(ctx.Stderr, FormatWarning(file, v.Line,
				fmt.Sprintf("value '%s' is not an argument of any call and fails when reached", v), ctx.UseColor))
		}
		fmt.Fprintf(ctx.Stdout, "%s: ok (%d procedures, %d statements)\n",
			file, prog.Procedures.Len(), len(prog.Statements))
	}
	if collector.HasErrors() {
		fmt.Fprint(ctx.Stderr, collector.Report(ctx.UseColor))
		return errReported
	}
	return nil
}

// programStrayValues finds values that no call consumes, at top level and
// in procedure bodies. Bodies that do not resolve on their own are skipped;
// they are only resolved for real when called.
func programStrayValues(prog *logo.Program) []*logo.ExpressionStmt {
	stray := strayValues(prog.Statements)
	for _, name := range prog.Procedures.Names() {
		p, _ := prog.Procedures.Lookup(name)
		body, err := logo.Resolve(p.Body, prog.Procedures)
		if err != nil {
			continue
		}
		stray = append(stray, strayValues(body)...)
	}
	return stray
}

func strayValues(stmts []logo.Statement) []*logo.ExpressionStmt {
	var out []*logo.ExpressionStmt
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *logo.ExpressionStmt:
			out = append(out, s)
		case *logo.RepeatStmt:
			if s.Body != nil {
				out = append(out, strayValues(s.Body.Statements)...)
			}
		case *logo.IfStmt:
			if s.Body != nil {
				out = append(out, strayValues(s.Body.Statements)...)
			}
		case *logo.Block:
			out = append(out, strayValues(s.Statements)...)
		}
	}
	return out
}

// cmdAST prints the resolved program. In verbose mode the statement tree
// is dumped in full.
func cmdAST(ctx *CommandContext, file string) error {
	prog, err := parseFile(file)
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Stdout, prog.String())
	if ctx.Config.Verbose {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Fdump(ctx.Stdout, prog.Statements)
	}
	return nil
}

// cmdProcs lists the procedures of a program as a table
func cmdProcs(ctx *CommandContext, file string) error {
	prog, err := parseFile(file)
	if err != nil {
		return err
	}
	writeProcTable(ctx.Stdout, prog.Procedures)
	return nil
}

func writeProcTable(w io.Writer, procs *logo.Procedures) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Parameters", "Arity", "Statements"})
	table.SetAutoWrapText(false)
	for _, name := range procs.Names() {
		p, _ := procs.Lookup(name)
		params := make([]string, len(p.Params))
		for i, param := range p.Params {
			params[i] = ":" + param
		}
		table.Append([]string{
			name,
			strings.Join(params, " "),
			strconv.Itoa(p.Arity()),
			strconv.Itoa(len(p.Body)),
		})
	}
	table.Render()
}

// cmdHelp shows help information
func cmdHelp(ctx *CommandContext) error {
	fmt.Fprintf(ctx.Stdout, `turtle - Logo turtle graphics interpreter (%s)

USAGE:
    turtle <command> [arguments]

COMMANDS:
    render <file>...      Run programs and write the drawings
    check <file>...       Parse and resolve programs, report faults
    ast <file>            Print the resolved program (-v dumps the tree)
    procs <file>          List the procedures of a program
    repl                  Start an interactive session
    watch <file>          Render again whenever the file changes
    help                  Show this help message
    version               Show version information

SHORTHAND:
    turtle <file.logo>    Same as 'turtle render <file.logo>'
    turtle -c "<code>"    Render inline code to stdout (or -o)

FLAGS:
    -o, --output <path>   Output file, "-" for stdout, a directory for several inputs
    -format <fmt>         Output format: svg, json or yaml (default: svg)
    -j <n>                Files rendered at the same time (default: 4)
    -depth <n>            Maximum procedure call depth (default: %d)
    -watch                Keep rendering on file changes
    -v, --verbose         Trace procedure calls and show progress
    -no-color             Plain diagnostics

ENVIRONMENT:
    TURTLE_VERBOSE, TURTLE_MAX_DEPTH, TURTLE_VIEWBOX ("-400 -400 800 800"),
    TURTLE_STROKE, TURTLE_FORMAT, TURTLE_JOBS, TURTLE_HISTORY, NO_COLOR

EXAMPLES:
    turtle -c "repeat 4 [ forward 100 right 90 ]" -o square.svg
    turtle render star.logo spiral.logo -o out/
    turtle render tree.logo -format yaml -o -

`, versionString, logo.DefaultMaxDepth)
	return nil
}
