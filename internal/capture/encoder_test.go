package capture

import (
	"image"
	"testing"
)

func solidFrame(w, h int, r, g, b byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(x, y)
			img.Pix[off+0] = r
			img.Pix[off+1] = g
			img.Pix[off+2] = b
			img.Pix[off+3] = 255
		}
	}
	return img
}

func TestEncodeFirstFrameIsKeyframe(t *testing.T) {
	enc := NewDeltaEncoder()
	defer enc.Close()

	frame := solidFrame(64, 48, 10, 20, 30)
	result, err := enc.Encode(frame)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !result.IsKeyframe {
		t.Fatal("expected the first encode to produce a keyframe")
	}
	if result.Width != 64 || result.Height != 48 {
		t.Fatalf("dims mismatch: got %dx%d", result.Width, result.Height)
	}
	if len(result.Slices) != 1 {
		t.Fatalf("expected exactly one slice for a keyframe, got %d", len(result.Slices))
	}
}

func TestEncodeIdenticalSecondFrameProducesEmptyDelta(t *testing.T) {
	enc := NewDeltaEncoder()
	defer enc.Close()

	frame := solidFrame(64, 48, 10, 20, 30)
	if _, err := enc.Encode(frame); err != nil {
		t.Fatalf("Encode (keyframe): %v", err)
	}

	second, err := enc.Encode(frame)
	if err != nil {
		t.Fatalf("Encode (delta): %v", err)
	}
	if second.IsKeyframe {
		t.Fatal("expected the second, unchanged frame to produce a delta, not a keyframe")
	}
	if len(second.Slices) != 0 {
		t.Fatalf("expected no dirty slices for an unchanged frame, got %d", len(second.Slices))
	}
}
