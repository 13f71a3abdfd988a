package capture

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/deskcatcher/agent/internal/input"
	"github.com/deskcatcher/agent/internal/resources"
)

// nativeCursorSize is the pixel size the bundled cursor bitmap is authored
// at. A loaded icon of any other size is rescaled to it once, at load
// time; the captured frame's scale is not consulted.
const nativeCursorSize = 32

// CursorCompositor overlays the local pointer bitmap onto a captured
// frame at the current cursor position, matching the original client's
// addCurser behavior: skip entirely if the icon would fall outside the
// frame's bounds.
type CursorCompositor struct {
	icon   *image.NRGBA
	cursor input.Handler
}

// NewCursorCompositor loads the bundled cursor icon and binds it to the
// input handler used to read the current pointer position.
func NewCursorCompositor(cursor input.Handler) (*CursorCompositor, error) {
	path, err := resources.Find(resources.CursorIcon)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cursor: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("cursor: decode %s: %w", path, err)
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		converted := image.NewNRGBA(img.Bounds())
		draw.Draw(converted, converted.Bounds(), img, img.Bounds().Min, draw.Src)
		nrgba = converted
	}

	nrgba = normalizeCursorScale(nrgba)

	return &CursorCompositor{icon: nrgba, cursor: cursor}, nil
}

// normalizeCursorScale resizes the icon to nativeCursorSize if the bundled
// asset was swapped for a differently-scaled one, so the overlay always
// lands at the size callers expect regardless of source DPI.
func normalizeCursorScale(icon *image.NRGBA) *image.NRGBA {
	b := icon.Bounds()
	if b.Dx() == nativeCursorSize && b.Dy() == nativeCursorSize {
		return icon
	}
	scaled := image.NewNRGBA(image.Rect(0, 0, nativeCursorSize, nativeCursorSize))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), icon, b, xdraw.Over, nil)
	return scaled
}

// Composite alpha-blends the cursor icon onto frame at the handler's
// current position. Out-of-bounds placement is silently skipped, mirroring
// the original client.
func (c *CursorCompositor) Composite(frame *image.RGBA) {
	x, y, err := c.cursor.CursorPosition()
	if err != nil {
		return
	}

	iconBounds := c.icon.Bounds()
	w, h := iconBounds.Dx(), iconBounds.Dy()
	frameBounds := frame.Bounds()

	if x < frameBounds.Min.X || y < frameBounds.Min.Y ||
		x+w > frameBounds.Max.X || y+h > frameBounds.Max.Y {
		return
	}

	dstRect := image.Rect(x, y, x+w, y+h)
	draw.Draw(frame, dstRect, c.icon, iconBounds.Min, draw.Over)
}
