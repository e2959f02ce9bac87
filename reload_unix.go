// Completion: 100% - Platform-specific module complete
//go:build !windows
// +build !windows

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// setupReloadSignal calls reload on every SIGUSR1 until ctx is done
func setupReloadSignal(ctx context.Context, reload func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGUSR1)
	go func() {
		defer signal.Stop(sigChan)
		for {
			select {
			case <-sigChan:
				reload()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func reloadHint() string {
	return fmt.Sprintf(", or run 'kill -USR1 %d' to render again", os.Getpid())
}
