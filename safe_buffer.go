// Completion: 100% - Module complete
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SafeBuffer collects one output document. Once committed it can be saved
// or copied, but not written to again, so a half-written drawing never
// reaches the disk.
type SafeBuffer struct {
	buf       bytes.Buffer
	committed bool   // True once Commit() is called
	name      string // For diagnostics
}

// NewSafeBuffer creates a new SafeBuffer with a name for diagnostics
func NewSafeBuffer(name string) *SafeBuffer {
	return &SafeBuffer{name: name}
}

// Write appends bytes to the buffer. Panics if buffer is committed.
func (sb *SafeBuffer) Write(p []byte) (n int, err error) {
	if sb.committed {
		panic(fmt.Sprintf("SafeBuffer(%s): cannot write to committed buffer", sb.name))
	}
	return sb.buf.Write(p)
}

// WriteString appends s. Panics if buffer is committed.
func (sb *SafeBuffer) WriteString(s string) (n int, err error) {
	return sb.Write([]byte(s))
}

// Bytes returns the buffer contents
func (sb *SafeBuffer) Bytes() []byte {
	return sb.buf.Bytes()
}

func (sb *SafeBuffer) Len() int {
	return sb.buf.Len()
}

// Commit marks the document as complete
func (sb *SafeBuffer) Commit() {
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "SafeBuffer(%s): committed with %d bytes\n", sb.name, sb.buf.Len())
	}
	sb.committed = true
}

func (sb *SafeBuffer) IsCommitted() bool {
	return sb.committed
}

// Reset clears the buffer and uncommits it
func (sb *SafeBuffer) Reset() {
	sb.buf.Reset()
	sb.committed = false
}

// WriteTo copies a committed document to w
func (sb *SafeBuffer) WriteTo(w io.Writer) (int64, error) {
	if !sb.committed {
		return 0, fmt.Errorf("SafeBuffer(%s): must be committed before it is written out", sb.name)
	}
	n, err := w.Write(sb.buf.Bytes())
	return int64(n), err
}

// SaveAs writes a committed document to path. The data goes to a temporary
// file in the same directory first and is renamed into place, so a watcher
// or a viewer never sees a partial file.
func (sb *SafeBuffer) SaveAs(path string) error {
	if !sb.committed {
		return fmt.Errorf("SafeBuffer(%s): must be committed before saving", sb.name)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(sb.buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "-> Wrote %s (%d bytes)\n", path, sb.buf.Len())
	}
	return nil
}
