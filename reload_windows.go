//go:build windows
// +build windows

package main

import "context"

func setupReloadSignal(ctx context.Context, reload func()) {
	// Windows doesn't support SIGUSR1, so we skip signal-based reload
}

func reloadHint() string { return "" }
