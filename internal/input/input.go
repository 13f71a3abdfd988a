// Package input replays remote pointer commands on the local desktop.
package input

import "errors"

// Button identifies a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// ErrNotSupported is returned by platform handlers that have no injection
// backend wired up yet.
var ErrNotSupported = errors.New("input: injection not supported on this platform")

// Handler replays the command set carried by the inbound command channel:
// absolute moves, press/release per button, double-click per button, and
// vertical scroll. There is no keyboard surface — the wire protocol never
// carries key events.
type Handler interface {
	// Move sets the absolute cursor position.
	Move(x, y int) error
	// Press presses the given button down at the current position.
	Press(button Button) error
	// Release releases the given button.
	Release(button Button) error
	// DoubleClick performs a press-release-press-release sequence at x, y.
	DoubleClick(x, y int, button Button) error
	// Scroll scrolls vertically by delta notches.
	Scroll(delta int) error
	// CursorPosition returns the current absolute cursor position, used by
	// the capture loop's cursor compositor.
	CursorPosition() (x, y int, err error)
}

// New returns the platform-specific input handler.
func New() Handler {
	return newPlatformHandler()
}
