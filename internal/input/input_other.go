//go:build !windows

package input

// otherHandler is a stand-in for platforms without a wired injection
// backend yet. darwin (CGEventCreateMouseEvent via cgo) and linux (XTest)
// are real, known integration points but are not implemented here; see
// the design notes for why this pass stayed Windows-only.
type otherHandler struct{}

func newPlatformHandler() Handler {
	return &otherHandler{}
}

func (h *otherHandler) Move(x, y int) error                       { return ErrNotSupported }
func (h *otherHandler) Press(button Button) error                 { return ErrNotSupported }
func (h *otherHandler) Release(button Button) error                { return ErrNotSupported }
func (h *otherHandler) DoubleClick(x, y int, button Button) error  { return ErrNotSupported }
func (h *otherHandler) Scroll(delta int) error                     { return ErrNotSupported }
func (h *otherHandler) CursorPosition() (int, int, error)          { return 0, 0, ErrNotSupported }
