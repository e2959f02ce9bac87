package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSession() (*replSession, *bytes.Buffer, *bytes.Buffer) {
	ctx, stdout, stderr := newTestContext("repl")
	return newReplSession(ctx), stdout, stderr
}

// Confidence that this function is working: 90%
func TestReplSessionKeepsState(t *testing.T) {
	s, out, errOut := newTestSession()

	s.eval("fd 10")
	require.Equal(t, "1 line(s) drawn\n", out.String())

	out.Reset()
	require.False(t, s.command(":state"))
	require.Equal(t, "position (0, -10) heading 270, 1 line(s), 0 procedure(s)\n", out.String())

	out.Reset()
	s.eval("to sq :s\n fd :s\nend")
	require.Empty(t, out.String())
	s.eval("sq 5")
	require.Equal(t, "1 line(s) drawn\n", out.String())

	out.Reset()
	s.command(":procs")
	require.Contains(t, out.String(), "sq")
	require.Contains(t, out.String(), ":s")

	s.eval("fd")
	require.Contains(t, errOut.String(), "expected value")
	require.Len(t, s.canvas.Segments, 2)
}

func TestReplClearAndReset(t *testing.T) {
	s, out, _ := newTestSession()
	s.eval("to line fd 1 end line line")
	require.Len(t, s.canvas.Segments, 2)

	s.command(":clear")
	require.Empty(t, s.canvas.Segments)
	require.Equal(t, 1, s.interp.Procedures().Len())

	out.Reset()
	s.command(":reset")
	require.Equal(t, "session reset\n", out.String())
	require.Equal(t, 0, s.interp.Procedures().Len())
	require.Equal(t, 270.0, s.interp.Turtle().Heading)

	out.Reset()
	s.command(":procs")
	require.Equal(t, "no procedures defined\n", out.String())
}

func TestReplSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	s, out, errOut := newTestSession()

	program := writeProgram(t, dir, "two.logo", "fd 10 rt 90 fd 10\n")
	s.command(":load " + program)
	require.Equal(t, "2 line(s) drawn\n", out.String())

	out.Reset()
	target := filepath.Join(dir, "two.json")
	s.command(":save " + target)
	require.Equal(t, "saved 2 line(s) to "+target+"\n", out.String())

	g, err := LoadGeometry(target)
	require.NoError(t, err)
	require.Len(t, g.Segments, 2)
	require.Zero(t, g.Turtle.Heading)

	s.command(":load")
	require.Contains(t, errOut.String(), "usage: :load <file>")
	s.command(":load " + filepath.Join(dir, "missing.logo"))
	require.Contains(t, errOut.String(), "Error:")
}

func TestReplCommands(t *testing.T) {
	s, out, errOut := newTestSession()

	require.False(t, s.command(":help"))
	require.Contains(t, out.String(), ":save [file]")

	require.False(t, s.command(":bogus"))
	require.Contains(t, errOut.String(), "unknown command :bogus")

	for _, cmd := range []string{":quit", ":exit", ":q", ":QUIT"} {
		require.True(t, s.command(cmd), cmd)
	}
	require.False(t, s.command("   "))
}

func TestReplComplete(t *testing.T) {
	s, _, _ := newTestSession()
	s.eval("to square :n repeat 4 [ fd :n rt 90 ] end")

	require.Equal(t, []string{"square", "stop"}, s.complete("s"))
	require.Equal(t, []string{"repeat 2 [forward"}, s.complete("repeat 2 [fo"))
	require.Equal(t, []string{"fd 1 repeat"}, s.complete("fd 1 rep"))
	require.Nil(t, s.complete(""))
	require.Nil(t, s.complete("forward"))
	require.Nil(t, s.complete("fd 1 "))
}
