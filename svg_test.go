package main

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xyproto/turtle/internal/logo"
)

func TestRenderSVGSquare(t *testing.T) {
	canvas := NewSVGCanvas(ViewBox{-400, -400, 800, 800}, "")
	_, err := logo.Run("repeat 4 [ forward 100 right 90 ]", canvas)
	require.NoError(t, err)

	doc := canvas.Render("square")
	require.True(t, doc.IsCommitted())
	svg := string(doc.Bytes())

	require.True(t, strings.HasPrefix(svg, `<svg viewBox="-400 -400 800 800" xmlns="http://www.w3.org/2000/svg">`))
	require.Contains(t, svg, `<rect fill="white" height="1200" width="1200" x="-400" y="-400"/>`)
	require.Contains(t, svg, `<line stroke="black" x1="0" x2="0" y1="0" y2="-100"/>`)
	require.Contains(t, svg, `<line stroke="black" x1="0" x2="100" y1="-100" y2="-100"/>`)
	require.Contains(t, svg, `<line stroke="black" x1="100" x2="100" y1="-100" y2="0"/>`)
	require.Contains(t, svg, `<line stroke="black" x1="100" x2="0" y1="0" y2="0"/>`)
	require.Equal(t, 4, strings.Count(svg, "<line "))
	require.True(t, strings.HasSuffix(svg, "</g>\n</svg>\n"))
}

func TestRenderSVGEmpty(t *testing.T) {
	doc := NewSVGCanvas(ViewBox{0, 0, 10, 20}, "blue").Render("empty")
	svg := string(doc.Bytes())
	require.Contains(t, svg, `<rect fill="white" height="30" width="15" x="0" y="0"/>`)
	require.NotContains(t, svg, "<line")
}

func TestRenderSVGEscapesStroke(t *testing.T) {
	canvas := NewSVGCanvas(ViewBox{-1, -1, 2, 2}, `red" onload="x`)
	canvas.AddLine(0, 0, 1, 1)
	svg := string(canvas.Render("x").Bytes())
	require.Contains(t, svg, `stroke="red&#34; onload=&#34;x"`)
}

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{-1e-12, "0"},
		{100, "100"},
		{-100, "-100"},
		{2.5, "2.5"},
		{0.1234567, "0.123457"},
		{1.0000004, "1"},
		{6.123233995736766e-15, "0"},
		{math.NaN(), "0"},
		{math.Inf(1), "0"},
		{math.Inf(-1), "0"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, formatCoord(tt.in), "formatCoord(%v)", tt.in)
	}
}

func TestRenderSVGNonFinite(t *testing.T) {
	canvas := NewSVGCanvas(ViewBox{-400, -400, 800, 800}, "")
	_, err := logo.Run("fd 10 fd 0 / 0", canvas)
	require.NoError(t, err)

	svg := string(canvas.Render("nan").Bytes())
	require.Equal(t, 2, strings.Count(svg, "<line "))
	require.NotContains(t, svg, "NaN")
	require.NotContains(t, svg, "Inf")
	require.Contains(t, svg, `<line stroke="black" x1="0" x2="0" y1="-10" y2="0"/>`)
}
