package main

import (
	"bufio"
	"io"
	"sync"
)

// lockedWriter is a buffered writer which may be written by the cpu
// goroutine and flushed by the main goroutine.
type lockedWriter struct {
	mu sync.Mutex
	w  *bufio.Writer
}

func newLockedWriter(w io.Writer, size int) *lockedWriter {
	return &lockedWriter{w: bufio.NewWriterSize(w, size)}
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// Flush writes out any buffered data.
func (lw *lockedWriter) Flush() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Flush()
}
