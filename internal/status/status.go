// Package status prints a single, repeatedly overwritten status line to
// stdout, mirroring the original client's \r-based progress indicator for
// reconnect countdowns and the active controller id.
package status

import (
	"fmt"
	"sync"
)

// Line is a terminal line that gets rewritten in place.
type Line struct {
	mu      sync.Mutex
	written bool
}

// Printf rewrites the line with the given message.
func (l *Line) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Printf("\r"+format, args...)
	l.written = true
}

// Clear erases the line if anything was written to it.
func (l *Line) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.written {
		fmt.Print("\r\033[K")
		l.written = false
	}
}
