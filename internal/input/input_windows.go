//go:build windows

package input

import (
	"fmt"
	"log/slog"
	"sync"
	"syscall"
	"unsafe"
)

var (
	user32           = syscall.NewLazyDLL("user32.dll")
	procSendInput    = user32.NewProc("SendInput")
	procSetCursorPos = user32.NewProc("SetCursorPos")
	procGetCursorPos = user32.NewProc("GetCursorPos")
)

const (
	inputMouse = 0

	mouseeventfMove       = 0x0001
	mouseeventfLeftDown   = 0x0002
	mouseeventfLeftUp     = 0x0004
	mouseeventfRightDown  = 0x0008
	mouseeventfRightUp    = 0x0010
	mouseeventfMiddleDown = 0x0020
	mouseeventfMiddleUp   = 0x0040
	mouseeventfWheel      = 0x0800
)

type mouseInput struct {
	dx, dy      int32
	mouseData   uint32
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type winInput struct {
	inputType uint32
	padding   [4]byte
	mi        mouseInput
}

type point struct {
	x, y int32
}

// windowsHandler replays input via user32's SendInput/SetCursorPos and
// reads the pointer position via GetCursorPos.
type windowsHandler struct {
	mu sync.Mutex
}

func newPlatformHandler() Handler {
	return &windowsHandler{}
}

func (h *windowsHandler) Move(x, y int) error {
	ret, _, _ := procSetCursorPos.Call(uintptr(x), uintptr(y))
	if ret == 0 {
		return fmt.Errorf("SetCursorPos failed")
	}
	return nil
}

func (h *windowsHandler) send(flags uint32, data uint32) error {
	inp := winInput{inputType: inputMouse}
	inp.mi.dwFlags = flags
	inp.mi.mouseData = data

	ret, _, _ := procSendInput.Call(1, uintptr(unsafe.Pointer(&inp)), unsafe.Sizeof(inp))
	if ret == 0 {
		slog.Debug("SendInput failed", "flags", flags)
		return fmt.Errorf("SendInput failed for flags 0x%x", flags)
	}
	return nil
}

func buttonFlags(button Button) (down, up uint32) {
	switch button {
	case ButtonRight:
		return mouseeventfRightDown, mouseeventfRightUp
	case ButtonMiddle:
		return mouseeventfMiddleDown, mouseeventfMiddleUp
	default:
		return mouseeventfLeftDown, mouseeventfLeftUp
	}
}

func (h *windowsHandler) Press(button Button) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	down, _ := buttonFlags(button)
	return h.send(down, 0)
}

func (h *windowsHandler) Release(button Button) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, up := buttonFlags(button)
	return h.send(up, 0)
}

func (h *windowsHandler) DoubleClick(x, y int, button Button) error {
	if err := h.Move(x, y); err != nil {
		return err
	}
	if err := h.Press(button); err != nil {
		return err
	}
	if err := h.Release(button); err != nil {
		return err
	}
	if err := h.Press(button); err != nil {
		return err
	}
	return h.Release(button)
}

func (h *windowsHandler) Scroll(delta int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	// Windows WHEEL_DELTA is 120 per notch; the wire protocol's delta is
	// already expressed in notches.
	return h.send(mouseeventfWheel, uint32(int32(delta*120)))
}

func (h *windowsHandler) CursorPosition() (int, int, error) {
	var p point
	ret, _, _ := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	if ret == 0 {
		return 0, 0, fmt.Errorf("GetCursorPos failed")
	}
	return int(p.x), int(p.y), nil
}
