// Completion: 100% - JSON and YAML geometry export complete
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xyproto/turtle/internal/logo"
	"gopkg.in/yaml.v3"
)

// Geometry is the finished drawing of one program, as written to disk
type Geometry struct {
	Source   string        `json:"source,omitempty" yaml:"source,omitempty"`
	Turtle   turtleDisk    `json:"turtle" yaml:"turtle"`
	Bounds   *boundsDisk   `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Segments []segmentDisk `json:"segments" yaml:"segments"`
}

type turtleDisk struct {
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Heading float64 `json:"heading" yaml:"heading"`
}

type boundsDisk struct {
	MinX float64 `json:"min_x" yaml:"min_x"`
	MinY float64 `json:"min_y" yaml:"min_y"`
	MaxX float64 `json:"max_x" yaml:"max_x"`
	MaxY float64 `json:"max_y" yaml:"max_y"`
}

type segmentDisk struct {
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
	X2 float64 `json:"x2" yaml:"x2"`
	Y2 float64 `json:"y2" yaml:"y2"`
}

// NewGeometry captures the segments and the final turtle state.
// Coordinates are rounded like the SVG output; non-finite values become 0
// because neither JSON nor YAML readers agree on how to spell them.
func NewGeometry(source string, segments []logo.Segment, t *logo.Turtle) *Geometry {
	g := &Geometry{Source: source, Segments: make([]segmentDisk, 0, len(segments))}
	if t != nil {
		g.Turtle = turtleDisk{X: round6(t.X), Y: round6(t.Y), Heading: round6(t.Heading)}
	}
	for i, s := range segments {
		d := segmentDisk{X1: round6(s.X1), Y1: round6(s.Y1), X2: round6(s.X2), Y2: round6(s.Y2)}
		g.Segments = append(g.Segments, d)
		if i == 0 {
			g.Bounds = &boundsDisk{MinX: d.X1, MinY: d.Y1, MaxX: d.X1, MaxY: d.Y1}
		}
		g.Bounds.include(d.X1, d.Y1)
		g.Bounds.include(d.X2, d.Y2)
	}
	return g
}

func (b *boundsDisk) include(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
}

// LogoSegments converts the stored segments back
func (g *Geometry) LogoSegments() []logo.Segment {
	out := make([]logo.Segment, len(g.Segments))
	for i, s := range g.Segments {
		out[i] = logo.Segment{X1: s.X1, Y1: s.Y1, X2: s.X2, Y2: s.Y2}
	}
	return out
}

func round6(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}

// EncodeGeometry writes g as JSON or YAML into a committed buffer
func EncodeGeometry(name string, g *Geometry, format string) (*SafeBuffer, error) {
	out := NewSafeBuffer(name)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return nil, fmt.Errorf("geometry: marshal json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(g); err != nil {
			return nil, fmt.Errorf("geometry: marshal yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("geometry: encoder close: %w", err)
		}
	default:
		return nil, ValidateFormat(format)
	}
	out.Commit()
	return out, nil
}

// LoadGeometry reads a geometry file written by EncodeGeometry. The format
// follows the file extension.
func LoadGeometry(path string) (*Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var g Geometry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&g); err != nil {
			return nil, fmt.Errorf("geometry: parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&g); err != nil {
			return nil, fmt.Errorf("geometry: parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("geometry: %s is not a .json or .yaml file", path)
	}
	return &g, nil
}

// isGeometryFile reports whether path holds exported geometry rather than
// a program
func isGeometryFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// formatExt is the file extension for an output format
func formatExt(format string) string {
	if format == FormatYAML {
		return ".yaml"
	}
	return "." + format
}
