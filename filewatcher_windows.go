//go:build windows
// +build windows

package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const pollInterval = 250 * time.Millisecond

// FileWatcher polls modification times
type FileWatcher struct {
	watchMap map[string]time.Time
	mu       sync.Mutex
	debounce *debouncer
}

func NewFileWatcher(onChange func(string)) (*FileWatcher, error) {
	return &FileWatcher{
		watchMap: make(map[string]time.Time),
		debounce: newDebouncer(debounceDelay, onChange),
	}, nil
}

func (fw *FileWatcher) AddFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	var modTime time.Time
	if info, err := os.Stat(absPath); err == nil {
		modTime = info.ModTime()
	}

	fw.mu.Lock()
	fw.watchMap[absPath] = modTime
	fw.mu.Unlock()

	return nil
}

// Watch blocks until ctx is cancelled
func (fw *FileWatcher) Watch(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fw.checkFiles()
		case <-ctx.Done():
			fw.debounce.stop()
			return nil
		}
	}
}

func (fw *FileWatcher) checkFiles() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for path, lastMod := range fw.watchMap {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(lastMod) {
			fw.watchMap[path] = info.ModTime()
			fw.debounce.trigger(path)
		}
	}
}

func (fw *FileWatcher) Close() error {
	fw.debounce.stop()
	return nil
}
