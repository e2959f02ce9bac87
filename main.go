// Completion: 100% - Command line entry point complete
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// turtle runs Logo turtle graphics programs and writes the drawings as SVG

const versionString = "turtle 1.0.0"

// errReported means the failure has already been printed
var errReported = errors.New("errors reported")

// Global flag for controlling output verbosity
var VerboseMode bool

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// NOTE: Go's flag package stops parsing at the first non-flag argument.
	// Subcommands parse their own -o and -format flags after the file names.
	var outputFlag = flag.String("o", "", "output file (\"-\" for stdout)")
	var outputLongFlag = flag.String("output", "", "output file (\"-\" for stdout)")
	var formatFlag = flag.String("format", cfg.Format, "output format (svg, json, yaml)")
	var codeFlag = flag.String("c", "", "render Logo code from the command line")
	var verbose = flag.Bool("v", false, "verbose mode (trace procedure calls)")
	var verboseLong = flag.Bool("verbose", false, "verbose mode (trace procedure calls)")
	var versionShort = flag.Bool("V", false, "print version information and exit")
	var version = flag.Bool("version", false, "print version information and exit")
	var watchFlag = flag.Bool("watch", false, "watch mode: render again on file changes")
	var jobsFlag = flag.Int("j", cfg.Jobs, "number of files rendered at the same time")
	var depthFlag = flag.Int("depth", cfg.MaxDepth, "maximum procedure call depth")
	var noColorFlag = flag.Bool("no-color", false, "disable coloured diagnostics")
	flag.Parse()

	if *version || *versionShort {
		fmt.Println(versionString)
		os.Exit(0)
	}

	// Flags override the environment
	cfg.Verbose = cfg.Verbose || *verbose || *verboseLong
	cfg.NoColor = cfg.NoColor || *noColorFlag
	cfg.Format = strings.ToLower(*formatFlag)
	if *jobsFlag > 0 {
		cfg.Jobs = *jobsFlag
	}
	if *depthFlag > 0 {
		cfg.MaxDepth = *depthFlag
	}
	VerboseMode = cfg.Verbose

	if VerboseMode {
		fmt.Fprintf(os.Stderr, "----=[ %s ]=----\n", versionString)
	}

	outputPath := *outputFlag
	if outputPath == "" {
		outputPath = *outputLongFlag
	}

	ctx := NewCommandContext(flag.Args(), cfg, outputPath)
	ctx.Watch = *watchFlag

	switch {
	case *codeFlag != "":
		// Inline code goes to stdout unless -o is given
		if ctx.OutputPath == "" {
			ctx.OutputPath = "-"
		}
		err = runInline(ctx, *codeFlag)

	case len(ctx.Args) == 0:
		// No arguments: render the programs in the current directory, or show help
		var matches []string
		for _, ext := range sourceExts {
			found, _ := filepath.Glob("*" + ext)
			matches = append(matches, found...)
		}
		if len(matches) > 0 {
			ctx.Args = append([]string{"render"}, matches...)
		}
		err = RunCLI(ctx)

	default:
		err = RunCLI(ctx)
	}

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprint(os.Stderr, FormatError(err, ctx.UseColor))
		}
		os.Exit(1)
	}
}

// runInline renders code given with -c
func runInline(ctx *CommandContext, code string) error {
	if err := ValidateFormat(ctx.Format); err != nil {
		return err
	}
	r, err := RunSource("-c", code, ctx.Config)
	if err != nil {
		return err
	}
	doc, err := r.Encode(ctx.Format)
	if err != nil {
		return err
	}
	if ctx.OutputPath == "-" {
		_, err = doc.WriteTo(ctx.Stdout)
		return err
	}
	return doc.SaveAs(ctx.OutputPath)
}
