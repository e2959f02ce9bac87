// Completion: 100% - Single and batch rendering complete
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xyproto/turtle/internal/logo"
	"golang.org/x/sync/errgroup"
)

// sourceExts are the recognised program file extensions
var sourceExts = []string{".logo", ".lg", ".turtle"}

func isSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range sourceExts {
		if ext == e {
			return true
		}
	}
	return false
}

// SourceError ties a fault to the file it came from
type SourceError struct {
	Path string
	Err  error
}

// Error gives "path:line: message" for located faults, like a compiler
func (e *SourceError) Error() string {
	var f *logo.Fault
	if errors.As(e.Err, &f) && f.Line > 0 {
		return e.Path + ":" + e.Err.Error()
	}
	return e.Path + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error { return e.Err }

// Rendering is the result of running one program
type Rendering struct {
	Name   string
	Canvas *SVGCanvas
	Turtle *logo.Turtle // nil when the input was exported geometry
}

// RunSource runs a program against a fresh SVG canvas
func RunSource(name, src string, cfg *Config) (*Rendering, error) {
	canvas := NewSVGCanvas(cfg.ViewBox, cfg.Stroke)
	t, err := logo.Run(src, canvas, cfg.Options()...)
	if err != nil {
		return nil, err
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "%s: %d segments, turtle at (%g, %g) heading %g\n",
			name, len(canvas.Segments), t.X, t.Y, t.Heading)
	}
	return &Rendering{Name: name, Canvas: canvas, Turtle: t}, nil
}

// LoadRendering runs a program file, or loads an exported geometry file
func LoadRendering(path string, cfg *Config) (*Rendering, error) {
	if isGeometryFile(path) {
		g, err := LoadGeometry(path)
		if err != nil {
			return nil, err
		}
		canvas := NewSVGCanvas(cfg.ViewBox, cfg.Stroke)
		canvas.Segments = g.LogoSegments()
		return &Rendering{Name: path, Canvas: canvas}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := RunSource(path, string(data), cfg)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	return r, nil
}

// Encode writes the rendering in the given format
func (r *Rendering) Encode(format string) (*SafeBuffer, error) {
	if format == FormatSVG {
		return r.Canvas.Render(r.Name), nil
	}
	return EncodeGeometry(r.Name, NewGeometry(r.Name, r.Canvas.Segments, r.Turtle), format)
}

// defaultOutputPath swaps the extension of the input for the format's
func defaultOutputPath(input, format string) string {
	ext := formatExt(format)
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if base+ext == input {
		base += ".out"
	}
	return base + ext
}

// renderFile renders one input. An output of "-" means stdout.
func renderFile(input, output, format string, cfg *Config, stdout io.Writer) error {
	r, err := LoadRendering(input, cfg)
	if err != nil {
		return err
	}
	doc, err := r.Encode(format)
	if err != nil {
		return err
	}
	if output == "-" {
		_, err := doc.WriteTo(stdout)
		return err
	}
	if output == "" {
		output = defaultOutputPath(input, format)
	}
	if err := doc.SaveAs(output); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}

// renderBatch renders every input concurrently, at most cfg.Jobs at a time.
// Each input gets its own interpreter. When outDir is set, outputs are
// written there instead of next to the inputs. All failures are returned.
func renderBatch(ctx context.Context, inputs []string, outDir, format string, cfg *Config) error {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
	}

	errs := make([]error, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			output := defaultOutputPath(input, format)
			if outDir != "" {
				output = filepath.Join(outDir, filepath.Base(output))
			}
			errs[i] = renderFile(input, output, format, cfg, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}
