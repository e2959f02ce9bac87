// Completion: 100% - Environment configuration complete
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"
	"github.com/xyproto/turtle/internal/logo"
)

// Output formats
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const (
	defaultViewBox    = "-400 -400 800 800"
	defaultStroke     = "black"
	defaultHistoryRel = ".turtle_history"
)

// ViewBox is the visible area of an SVG drawing
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

func (v ViewBox) String() string {
	return fmt.Sprintf("%g %g %g %g", v.MinX, v.MinY, v.Width, v.Height)
}

// ParseViewBox parses "minx miny width height", separated by spaces or commas
func ParseViewBox(s string) (ViewBox, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	if len(fields) != 4 {
		return ViewBox{}, fmt.Errorf("invalid view box %q: want 4 numbers", s)
	}
	var nums [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ViewBox{}, fmt.Errorf("invalid view box %q: %v", s, err)
		}
		nums[i] = v
	}
	if nums[2] <= 0 || nums[3] <= 0 {
		return ViewBox{}, fmt.Errorf("invalid view box %q: width and height must be positive", s)
	}
	return ViewBox{nums[0], nums[1], nums[2], nums[3]}, nil
}

// Config holds the settings that can come from the environment.
// Command line flags override them.
type Config struct {
	Verbose  bool
	MaxDepth int
	ViewBox  ViewBox
	Stroke   string
	Format   string
	Jobs     int
	History  string // REPL history file, empty disables history
	NoColor  bool
}

// LoadConfig reads TURTLE_* variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Verbose:  env.Bool("TURTLE_VERBOSE"),
		MaxDepth: env.Int("TURTLE_MAX_DEPTH", logo.DefaultMaxDepth),
		Stroke:   env.Str("TURTLE_STROKE", defaultStroke),
		Format:   strings.ToLower(env.Str("TURTLE_FORMAT", FormatSVG)),
		Jobs:     env.Int("TURTLE_JOBS", 4),
		NoColor:  env.Has("NO_COLOR"),
	}

	vb, err := ParseViewBox(env.Str("TURTLE_VIEWBOX", defaultViewBox))
	if err != nil {
		return nil, fmt.Errorf("TURTLE_VIEWBOX: %w", err)
	}
	cfg.ViewBox = vb

	if err := ValidateFormat(cfg.Format); err != nil {
		return nil, fmt.Errorf("TURTLE_FORMAT: %w", err)
	}
	if cfg.MaxDepth < 1 {
		return nil, fmt.Errorf("TURTLE_MAX_DEPTH must be at least 1, got %d", cfg.MaxDepth)
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}

	if env.Has("TURTLE_HISTORY") {
		cfg.History = env.Str("TURTLE_HISTORY")
	} else if home, err := os.UserHomeDir(); err == nil {
		cfg.History = filepath.Join(home, defaultHistoryRel)
	}
	return cfg, nil
}

// ValidateFormat checks an output format name
func ValidateFormat(format string) error {
	switch format {
	case FormatSVG, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (supported: svg, json, yaml)", format)
}

// Options turns the config into interpreter options
func (c *Config) Options() []logo.Option {
	opts := []logo.Option{logo.WithMaxDepth(c.MaxDepth)}
	if c.Verbose {
		opts = append(opts, logo.WithTrace(os.Stderr))
	}
	return opts
}
