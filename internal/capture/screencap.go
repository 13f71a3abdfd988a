package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ScreenCapturer grabs the current contents of a display. The default
// implementation wraps github.com/kbinani/screenshot; Loop depends only
// on this interface, so any other implementation can stand in for it.
type ScreenCapturer interface {
	// Capture returns the full primary-display image.
	Capture() (*image.RGBA, error)
	// Bounds returns the primary display's rectangle.
	Bounds() image.Rectangle
}

// primaryCapturer captures display index 0 via screenshot.CaptureRect,
// recovering from the occasional platform panic the library itself
// documents (e.g. a display that disconnects mid-capture).
type primaryCapturer struct {
	bounds image.Rectangle
}

// NewScreenCapturer returns a ScreenCapturer bound to the primary display.
func NewScreenCapturer() (ScreenCapturer, error) {
	if screenshot.NumActiveDisplays() < 1 {
		return nil, fmt.Errorf("capture: no active displays found")
	}
	return &primaryCapturer{bounds: screenshot.GetDisplayBounds(0)}, nil
}

func (c *primaryCapturer) Bounds() image.Rectangle {
	return c.bounds
}

func (c *primaryCapturer) Capture() (img *image.RGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("capture: recovered from panic: %v", r)
		}
	}()
	return screenshot.CaptureRect(c.bounds)
}
