// Completion: 100% - SVG output complete
package main

import (
	"fmt"
	"html"
	"strconv"

	"github.com/xyproto/turtle/internal/logo"
)

// svg.go - writes traced segments as an SVG document
//
// The document is small and flat (one background rect, one group of
// lines), so it is written by hand like the other output formats.

const backgroundColor = "white"

// SVGCanvas records lines for an SVG document
type SVGCanvas struct {
	logo.Drawing
	ViewBox ViewBox
	Stroke  string
}

func NewSVGCanvas(vb ViewBox, stroke string) *SVGCanvas {
	if stroke == "" {
		stroke = defaultStroke
	}
	return &SVGCanvas{ViewBox: vb, Stroke: stroke}
}

// Render writes the SVG document into a committed buffer
func (c *SVGCanvas) Render(name string) *SafeBuffer {
	return renderSVG(name, c.Segments, c.ViewBox, c.Stroke)
}

// renderSVG lays out the background and one line element per segment.
// The background covers one and a half view boxes from the view box
// origin, which leaves a margin when the viewer pans.
func renderSVG(name string, segments []logo.Segment, vb ViewBox, stroke string) *SafeBuffer {
	out := NewSafeBuffer(name)
	fmt.Fprintf(out, `<svg viewBox="%s" xmlns="http://www.w3.org/2000/svg">`+"\n", vb)
	fmt.Fprintf(out, `<rect fill="%s" height="%s" width="%s" x="%s" y="%s"/>`+"\n",
		backgroundColor,
		formatCoord(vb.Height*1.5), formatCoord(vb.Width*1.5),
		formatCoord(vb.MinX), formatCoord(vb.MinY))
	out.WriteString("<g>\n")
	for _, s := range segments {
		fmt.Fprintf(out, `<line stroke="%s" x1="%s" x2="%s" y1="%s" y2="%s"/>`+"\n",
			html.EscapeString(stroke),
			formatCoord(s.X1), formatCoord(s.X2),
			formatCoord(s.Y1), formatCoord(s.Y2))
	}
	out.WriteString("</g>\n</svg>\n")
	out.Commit()
	return out
}

// formatCoord prints at most 6 decimals, without trailing zeros or "-0".
// NaN and infinities are written as 0, as in the geometry export.
func formatCoord(v float64) string {
	return strconv.FormatFloat(round6(v), 'f', -1, 64)
}
