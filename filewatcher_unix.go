// Completion: 100% - Platform-specific module complete
//go:build linux
// +build linux

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const inotifyMask = unix.IN_MODIFY | unix.IN_CLOSE_WRITE | unix.IN_ATTRIB | unix.IN_MOVE_SELF | unix.IN_DELETE_SELF

// FileWatcher reports changed files through inotify
type FileWatcher struct {
	fd       int
	watchMap map[int]string
	mu       sync.Mutex
	debounce *debouncer
}

func NewFileWatcher(onChange func(string)) (*FileWatcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify_init failed: %v", err)
	}

	return &FileWatcher{
		fd:       fd,
		watchMap: make(map[int]string),
		debounce: newDebouncer(debounceDelay, onChange),
	}, nil
}

func (fw *FileWatcher) AddFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	wd, err := unix.InotifyAddWatch(fw.fd, absPath, inotifyMask)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %v", absPath, err)
	}

	fw.mu.Lock()
	fw.watchMap[wd] = absPath
	fw.mu.Unlock()

	return nil
}

// rewatch follows a file that an editor replaced by renaming a new one
// over it. The new file may take a moment to appear.
func (fw *FileWatcher) rewatch(wd int, path string) {
	fw.mu.Lock()
	delete(fw.watchMap, wd)
	fw.mu.Unlock()

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
	buf := make([]byte, (unix.SizeofInotifyEvent+unix.NAME_MAX+1)*16)
	pollFds := []unix.PollFd{{Fd: int32(fw.fd), Events: unix.POLLIN}}

	for {
		select {
		case <-ctx.Done():
			fw.debounce.stop()
			return nil
		default:
		}

		ready, err := unix.Poll(pollFds, 200)
		if err != nil && err != unix.EINTR {
			return fmt.Errorf("poll failed: %v", err)
		}
		if ready <= 0 {
			continue
		}

		n, err := unix.Read(fw.fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			if VerboseMode {
				fmt.Fprintf(os.Stderr, "Error reading inotify events: %v\n", err)
			}
			continue
		}

		offset := 0
		for offset+unix.SizeofInotifyEvent <= n {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			offset += unix.SizeofInotifyEvent + int(event.Len)

			wd := int(event.Wd)
			fw.mu.Lock()
			path := fw.watchMap[wd]
			fw.mu.Unlock()
			if path == "" {
				continue
			}

			if event.Mask&(unix.IN_MOVE_SELF|unix.IN_DELETE_SELF) != 0 {
				unix.InotifyRmWatch(fw.fd, uint32(wd))
				fw.rewatch(wd, path)
			}
			if event.Mask&inotifyMask != 0 {
				fw.debounce.trigger(path)
			}
		}
	}
}

func (fw *FileWatcher) Close() error {
	fw.debounce.stop()
	return unix.Close(fw.fd)
}
