package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xyproto/turtle/internal/logo"
)

func TestErrorCollector(t *testing.T) {
	ec := NewErrorCollector()
	require.False(t, ec.HasErrors())

	ec.Add(nil)
	ec.Add(errors.New("one"))
	ec.Add(errors.Join(errors.New("two"), errors.New("three")))

	require.Equal(t, 3, ec.ErrorCount())
	require.True(t, ec.HasErrors())

	report := ec.Report(false)
	require.Equal(t, "Error: one\n\nError: two\n\nError: three\n\n3 error(s)\n", report)
}

func TestErrorCollectorSingleHasNoCount(t *testing.T) {
	ec := NewErrorCollector()
	ec.Add(errors.New("only"))
	require.Equal(t, "Error: only\n", ec.Report(false))
}

func TestFormatErrorPlain(t *testing.T) {
	require.Equal(t, "Error: boom\n", FormatError(errors.New("boom"), false))
	require.Equal(t, "Error: wrapped: boom\n", FormatError(fmt.Errorf("wrapped: %w", errors.New("boom")), false))
}

func TestFormatErrorNamesTheFile(t *testing.T) {
	_, err := logo.Run("fd 10\nrepeat 2 fd 1\n", &logo.Drawing{})
	require.Error(t, err)

	report := FormatError(&SourceError{Path: "shapes/bad.logo", Err: err}, false)
	require.Contains(t, report, "--> shapes/bad.logo:2")
	require.NotContains(t, report, "--> line 2")
	require.Contains(t, report, "2 | repeat 2 fd 1")

	// Without a line the path goes on its own location line
	unlocated := &logo.Fault{Stage: logo.StageEval, Kind: logo.ErrRecursionLimit, Message: "too deep"}
	report = FormatError(&SourceError{Path: "deep.logo", Err: unlocated}, false)
	require.True(t, strings.HasSuffix(report, "  --> deep.logo\n"), report)
}

func TestFormatWarning(t *testing.T) {
	require.Equal(t, "a.logo:3: warning: unused\n", FormatWarning("a.logo", 3, "unused", false))
}
