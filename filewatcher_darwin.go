// Completion: 100% - Platform-specific module complete
//go:build darwin
// +build darwin

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

const vnodeFlags = unix.NOTE_WRITE | unix.NOTE_ATTRIB | unix.NOTE_RENAME | unix.NOTE_DELETE

// FileWatcher reports changed files through kqueue
type FileWatcher struct {
	kq       int
	watchMap map[int]string
	mu       sync.Mutex
	debounce *debouncer
}

func NewFileWatcher(onChange func(string)) (*FileWatcher, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, fmt.Errorf("kqueue failed: %v", err)
	}

	return &FileWatcher{
		kq:       kq,
		watchMap: make(map[int]string),
		debounce: newDebouncer(debounceDelay, onChange),
	}, nil
}

func (fw *FileWatcher) AddFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	fd, err := unix.Open(absPath, unix.O_RDONLY|unix.O_EVTONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", absPath, err)
	}

	event := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: unix.EVFILT_VNODE,
		Flags:  unix.EV_ADD | unix.EV_CLEAR,
		Fflags: vnodeFlags,
	}

	if _, err := unix.Kevent(fw.kq, []unix.Kevent_t{event}, nil, nil); err != nil {
		unix.Close(fd)
		return fmt.Errorf("failed to add kevent for %s: %v", absPath, err)
	}

	fw.mu.Lock()
	fw.watchMap[fd] = absPath
	fw.mu.Unlock()

	return nil
}

// rewatch opens the file again after it was replaced by a rename
func (fw *FileWatcher) rewatch(fd int, path string) {
	fw.mu.Lock()
	delete(fw.watchMap, fd)
	fw.mu.Unlock()
	unix.Close(fd)

	for i := 0; i < 20; i++ {
		if err := fw.AddFile(path); err == nil {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "Stopped watching %s: file is gone\n", path)
	}
}

// Watch blocks until ctx is cancelled
func (fw *FileWatcher) Watch(ctx context.Context) error {
	events := make([]unix.Kevent_t, 10)
	timeout := unix.NsecToTimespec(int64(200 * time.Millisecond))

	for {
		select {
		case <-ctx.Done():
			fw.debounce.stop()
			return nil
		default:
		}

		n, err := unix.Kevent(fw.kq, nil, events, &timeout)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("kevent failed: %v", err)
		}

		for i := 0; i < n; i++ {
			event := events[i]
			fd := int(event.Ident)

			fw.mu.Lock()
			path := fw.watchMap[fd]
			fw.mu.Unlock()
			if path == "" {
				continue
			}

			if event.Fflags&(unix.NOTE_RENAME|unix.NOTE_DELETE) != 0 {
				fw.rewatch(fd, path)
			}
			fw.debounce.trigger(path)
		}
	}
}

func (fw *FileWatcher) Close() error {
	fw.debounce.stop()

	fw.mu.Lock()
	defer fw.mu.Unlock()

	for fd := range fw.watchMap {
		unix.Close(fd)
	}

	return unix.Close(fw.kq)
}
