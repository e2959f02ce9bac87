package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xyproto/turtle/internal/logo"
)

func testConfig() *Config {
	return &Config{
		MaxDepth: logo.DefaultMaxDepth,
		ViewBox:  ViewBox{-400, -400, 800, 800},
		Stroke:   defaultStroke,
		Format:   FormatSVG,
		Jobs:     2,
		NoColor:  true,
	}
}

// newTestContext returns a context writing into buffers
func newTestContext(args ...string) (*CommandContext, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	cfg := testConfig()
	return &CommandContext{
		Args:   args,
		Config: cfg,
		Format: cfg.Format,
		Stdout: &stdout,
		Stderr: &stderr,
		Stdin:  strings.NewReader(""),
	}, &stdout, &stderr
}

func writeProgram(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

const squareProc = "to sq :s\n  repeat 4 [ fd :s rt 90 ]\nend\nsq 50\n"

func TestCLICheck(t *testing.T) {
	dir := t.TempDir()
	good := writeProgram(t, dir, "good.logo", squareProc)

	ctx, stdout, _ := newTestContext("check", good)
	require.NoError(t, RunCLI(ctx))
	require.Equal(t, good+": ok (1 procedures, 1 statements)\n", stdout.String())
}

// Confidence that this function is working: 90%
func TestCLICheckReportsEveryFile(t *testing.T) {
	dir := t.TempDir()
	good := writeProgram(t, dir, "good.logo", "fd 10")
	bad1 := writeProgram(t, dir, "bad1.logo", "fd 10\nrepeat 2 fd 1\n")
	bad2 := writeProgram(t, dir, "bad2.logo", "spin 3\n")

	ctx, stdout, stderr := newTestContext("check", bad1, good, bad2)
	err := RunCLI(ctx)
	require.ErrorIs(t, err, errReported)

	require.Contains(t, stdout.String(), good+": ok")
	report := stderr.String()
	require.Contains(t, report, "--> "+bad1+":2")
	require.Contains(t, report, "expected '[' after 'repeat', got 'fd'")
	require.Contains(t, report, bad2)
	require.Contains(t, report, "2 error(s)")
}

// Confidence that this function is working: 90%
func TestCLIRenderBatchReportsEveryFailure(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	bad1 := writeProgram(t, dir, "a.logo", "fd 10 ]\n")
	bad2 := writeProgram(t, dir, "b.logo", "spin\n")
	good := writeProgram(t, dir, "c.logo", "fd 10\n")

	ctx, _, stderr := newTestContext("render", bad1, bad2, good, "-o", outDir)
	err := RunCLI(ctx)
	require.ErrorIs(t, err, errReported)

	report := stderr.String()
	require.Contains(t, report, "--> "+bad1+":1")
	require.Contains(t, report, "--> "+bad2+":1")
	require.Contains(t, report, "2 error(s)")

	_, err = os.Stat(filepath.Join(outDir, "c.svg"))
	require.NoError(t, err)
}

func TestCLICheckWarnsAboutStrayValues(t *testing.T) {
	dir := t.TempDir()
	file := writeProgram(t, dir, "p.logo", "fd 10 20\nto sq :s\n  repeat 4 [ fd :s 5 rt 90 ]\nend\nsq 1\n")

	ctx, stdout, stderr := newTestContext("check", file)
	require.NoError(t, RunCLI(ctx))
	require.Contains(t, stdout.String(), file+": ok")
	require.Contains(t, stderr.String(), file+":1: warning: value '20'")
	require.Contains(t, stderr.String(), file+":3: warning: value '5'")
	require.Equal(t, 2, strings.Count(stderr.String(), "warning:"))

	clean := writeProgram(t, dir, "clean.logo", squareProc)
	ctx, _, stderr = newTestContext("check", clean)
	require.NoError(t, RunCLI(ctx))
	require.Empty(t, stderr.String())
}

func TestCLIProcs(t *testing.T) {
	dir := t.TempDir()
	file := writeProgram(t, dir, "p.logo", squareProc+"to zig :a :b\n fd :a rt :b\nend\n")

	ctx, stdout, _ := newTestContext("procs", file)
	require.NoError(t, RunCLI(ctx))
	out := stdout.String()
	require.Contains(t, out, "NAME")
	require.Contains(t, out, "sq")
	require.Contains(t, out, ":a :b")
	require.Less(t, strings.Index(out, "sq"), strings.Index(out, "zig"))
}

func TestCLIAST(t *testing.T) {
	dir := t.TempDir()
	file := writeProgram(t, dir, "p.logo", "repeat 3 [ fd 10 ]\n")

	ctx, stdout, _ := newTestContext("ast", file)
	require.NoError(t, RunCLI(ctx))
	require.Contains(t, stdout.String(), "repeat 3")
	require.Contains(t, stdout.String(), "forward 10")

	ctx, stdout, _ = newTestContext("ast", file)
	ctx.Config.Verbose = true
	require.NoError(t, RunCLI(ctx))
	require.Contains(t, stdout.String(), "RepeatStmt")
}

func TestCLIRenderToStdout(t *testing.T) {
	dir := t.TempDir()
	file := writeProgram(t, dir, "line.logo", "fd 10\n")

	ctx, stdout, _ := newTestContext(file, "-o", "-")
	require.NoError(t, RunCLI(ctx))
	require.Contains(t, stdout.String(), `<line stroke="black" x1="0" x2="0" y1="0" y2="-10"/>`)

	ctx, stdout, _ = newTestContext("render", file, "-o", "-", "-format", "json")
	require.NoError(t, RunCLI(ctx))
	require.Contains(t, stdout.String(), `"y2": -10`)
}

func TestCLIRenderDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	file := writeProgram(t, dir, "line.logo", "fd 10\n")

	ctx, _, _ := newTestContext("render", file, "-f", "yaml")
	require.NoError(t, RunCLI(ctx))
	data, err := os.ReadFile(filepath.Join(dir, "line.yaml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "y2: -10")
}

func TestCLIErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeProgram(t, dir, "a.logo", "fd 1")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"bogus"}, "unknown command: bogus"},
		{[]string{"render"}, "usage: turtle render"},
		{[]string{"ast"}, "usage: turtle ast"},
		{[]string{"render", file, "-format", "png"}, "unknown output format"},
		{[]string{"render", file, "-j", "0"}, "invalid job count"},
		{[]string{"render", file, "-o"}, "needs a value"},
		{[]string{"render", file, "-x"}, "unknown flag: -x"},
		{[]string{"render", filepath.Join(dir, "missing.logo")}, "file not found"},
		{[]string{"render", file, file, "-o", "-"}, "cannot write 2 drawings to stdout"},
		{[]string{"watch", file, file}, "exactly one file"},
	}
	for _, tt := range tests {
		ctx, _, _ := newTestContext(tt.args...)
		err := RunCLI(ctx)
		require.ErrorContains(t, err, tt.want, strings.Join(tt.args, " "))
	}
}

func TestCLIVersionAndHelp(t *testing.T) {
	ctx, stdout, _ := newTestContext("version")
	require.NoError(t, RunCLI(ctx))
	require.Equal(t, versionString+"\n", stdout.String())

	ctx, stdout, _ = newTestContext()
	require.NoError(t, RunCLI(ctx))
	require.Contains(t, stdout.String(), "USAGE:")
	require.Contains(t, stdout.String(), "10000")
}

func TestRunInline(t *testing.T) {
	ctx, stdout, _ := newTestContext()
	ctx.OutputPath = "-"
	require.NoError(t, runInline(ctx, "fd 5 rt 90 fd 5"))
	require.Equal(t, 2, strings.Count(stdout.String(), "<line "))

	ctx, _, _ = newTestContext()
	ctx.OutputPath = "-"
	err := runInline(ctx, "fd")
	require.ErrorIs(t, err, logo.ErrExpectedValue)
}
