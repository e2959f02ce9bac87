// Completion: 100% - Diagnostics reporting complete
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/xyproto/turtle/internal/logo"
)

// useColorFor decides whether diagnostics written to f get colours
func useColorFor(f *os.File, cfg *Config) bool {
	if cfg != nil && cfg.NoColor {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ErrorCollector gathers the failures of several inputs so they can be
// reported together
type ErrorCollector struct {
	errors []error
}

func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{}
}

// Add records err. Joined errors are split into their parts.
func (ec *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			ec.Add(e)
		}
		return
	}
	ec.errors = append(ec.errors, err)
}

func (ec *ErrorCollector) HasErrors() bool { return len(ec.errors) > 0 }

func (ec *ErrorCollector) ErrorCount() int { return len(ec.errors) }

// Report formats every collected error followed by a count
func (ec *ErrorCollector) Report(useColor bool) string {
	var sb strings.Builder
	for i, err := range ec.errors {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(FormatError(err, useColor))
	}
	if len(ec.errors) > 1 {
		red := color.New(color.FgRed, color.Bold)
		if useColor {
			red.EnableColor()
		} else {
			red.DisableColor()
		}
		sb.WriteString("\n")
		sb.WriteString(red.Sprintf("%d error(s)", len(ec.errors)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatWarning renders a located warning like a compiler does
func FormatWarning(path string, line int, msg string, useColor bool) string {
	yellow := color.New(color.FgYellow, color.Bold)
	if useColor {
		yellow.EnableColor()
	} else {
		yellow.DisableColor()
	}
	return fmt.Sprintf("%s:%d: %s %s\n", path, line, yellow.Sprint("warning:"), msg)
}

// FormatError renders faults with their source context and anything else
// as a plain "Error:" line
func FormatError(err error, useColor bool) string {
	var f *logo.Fault
	if !errors.As(err, &f) {
		red := color.New(color.FgRed, color.Bold)
		if useColor {
			red.EnableColor()
		} else {
			red.DisableColor()
		}
		return red.Sprint("Error:") + " " + err.Error() + "\n"
	}

	report := f.Format(useColor)
	var se *SourceError
	if errors.As(err, &se) {
		// name the file on the location line
		if f.Line > 0 {
			report = strings.Replace(report, fmt.Sprintf("--> line %d", f.Line),
				fmt.Sprintf("--> %s:%d", se.Path, f.Line), 1)
		} else {
			report += fmt.Sprintf("  --> %s\n", se.Path)
		}
	}
	return report
}
