// Completion: 100% - Watch mode complete
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"
)

// debounceDelay lets an editor finish saving before the file is read
const debounceDelay = 300 * time.Millisecond

// debouncer calls fn once per path after events for that path stop coming
type debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
	fn     func(string)
}

func newDebouncer(delay time.Duration, fn func(string)) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer), fn: fn}
}

func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, exists := d.timers[path]; exists {
		timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() { d.fire(path, timer) })
	d.timers[path] = timer
}

// fire runs fn for path unless timer was replaced by a later trigger after
// it had already expired
func (d *debouncer) fire(path string, timer *time.Timer) {
	d.mu.Lock()
	if d.timers[path] != timer {
		d.mu.Unlock()
		return
	}
	delete(d.timers, path)
	d.mu.Unlock()
	d.fn(path)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, timer := range d.timers {
		timer.Stop()
		delete(d.timers, path)
	}
}

// watchAndRender renders input, then renders it again on every change
// until ctx is cancelled or the process is interrupted
func watchAndRender(ctx context.Context, cc *CommandContext, input string) error {
	absPath, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	output := cc.OutputPath
	if output == "" {
		output = defaultOutputPath(absPath, cc.Format)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintf(cc.Stderr, "Watching %s\n", absPath)
	fmt.Fprintf(cc.Stderr, "Press Ctrl+C to stop%s\n", reloadHint())

	var mu sync.Mutex // one render at a time
	render := func(trigger string) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Fprintf(cc.Stderr, "[%s] %s\n", time.Now().Format("15:04:05"), trigger)
		if err := renderFile(absPath, output, cc.Format, cc.Config, cc.Stdout); err != nil {
			fmt.Fprint(cc.Stderr, FormatError(err, cc.UseColor))
			return
		}
		if output != "-" {
			fmt.Fprintf(cc.Stderr, "-> %s\n", output)
		}
	}

	render("Initial render")
	setupReloadSignal(ctx, func() { render("Manual reload") })

	watcher, err := NewFileWatcher(func(path string) {
		render("File changed: " + filepath.Base(path))
	})
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.AddFile(absPath); err != nil {
		return fmt.Errorf("failed to watch file: %w", err)
	}
	return watcher.Watch(ctx)
}
