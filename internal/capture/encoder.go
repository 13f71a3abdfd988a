package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"time"

	"gocv.io/x/gocv"

	"github.com/deskcatcher/agent/internal/protocol"
)

const (
	// diffThreshold is the pixel-intensity cutoff above which a grayscale
	// difference counts as "changed", matching the original client's
	// cv2.threshold(diff, 30, 255, cv2.THRESH_BINARY) call.
	diffThreshold = 30
	// maxDirtyContours above this count, a frame is considered too
	// fragmented to ship as discrete slices and is degraded to a keyframe.
	maxDirtyContours = 3000
	// maxDirtyCoverage is the fraction of the frame's pixel volume above
	// which dirty regions are considered to cover "basically everything",
	// also triggering a keyframe.
	maxDirtyCoverage = 0.90
	// keyframeInterval is the maximum time between forced keyframes.
	keyframeInterval = time.Second
)

// DeltaEncoder converts successive captured frames into either a
// full-frame keyframe packet or a set of dirty-region delta slices. It
// keeps the previous frame's grayscale Mat to diff against and is not
// safe for concurrent use — it is owned by a single capture loop.
type DeltaEncoder struct {
	prevGray       gocv.Mat
	hasPrev        bool
	lastKeyframeAt time.Time
}

// NewDeltaEncoder returns an encoder with no prior frame, so its first
// Encode call always produces a keyframe.
func NewDeltaEncoder() *DeltaEncoder {
	return &DeltaEncoder{prevGray: gocv.NewMat()}
}

// Close releases the encoder's retained Mat.
func (e *DeltaEncoder) Close() error {
	return e.prevGray.Close()
}

// Result is the outcome of one Encode call: either a keyframe (Slices has
// exactly one entry covering the whole frame at 0,0) or a set of dirty
// regions.
type Result struct {
	IsKeyframe bool
	Width      int
	Height     int
	Slices     []protocol.Slice
}

// Encode diffs frame against the previously encoded frame and returns
// either a keyframe or delta result, per the degradation rules: a
// keyframe is forced when there is no previous frame, more than a second
// has elapsed since the last keyframe, the dirty region count exceeds
// maxDirtyContours, or the dirty coverage exceeds maxDirtyCoverage.
func (e *DeltaEncoder) Encode(frame *image.RGBA) (Result, error) {
	bounds := frame.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	gray, err := toGray(frame)
	if err != nil {
		return Result{}, fmt.Errorf("capture: convert to grayscale: %w", err)
	}
	defer gray.Close()

	needsKeyframe := !e.hasPrev || time.Since(e.lastKeyframeAt) >= keyframeInterval
	if !needsKeyframe {
		slices, coverage, contourErr := e.diff(frame, gray, width, height)
		if contourErr != nil {
			return Result{}, contourErr
		}
		if len(slices) > maxDirtyContours || coverage > maxDirtyCoverage {
			needsKeyframe = true
		} else {
			e.adoptGray(gray)
			return Result{Width: width, Height: height, Slices: slices}, nil
		}
	}

	body, err := encodePNG(frame)
	if err != nil {
		return Result{}, fmt.Errorf("capture: encode keyframe: %w", err)
	}
	e.adoptGray(gray)
	e.lastKeyframeAt = time.Now()
	return Result{
		IsKeyframe: true,
		Width:      width,
		Height:     height,
		Slices:     []protocol.Slice{{Width: width, Height: height, Body: body}},
	}, nil
}

// adoptGray stores a clone of gray as the new previous-frame reference;
// gray itself remains owned (and later closed) by the caller.
func (e *DeltaEncoder) adoptGray(gray gocv.Mat) {
	e.prevGray.Close()
	e.prevGray = gray.Clone()
	e.hasPrev = true
}

func (e *DeltaEncoder) diff(frame *image.RGBA, gray gocv.Mat, width, height int) ([]protocol.Slice, float64, error) {
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(gray, e.prevGray, &diff)

	thresholded := gocv.NewMat()
	defer thresholded.Close()
	gocv.Threshold(diff, &thresholded, diffThreshold, 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(thresholded, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var slices []protocol.Slice
	var dirtyPixels int64

	for i := 0; i < contours.Size(); i++ {
		rect := gocv.BoundingRect(contours.At(i))
		rect = rect.Intersect(image.Rect(0, 0, width, height))
		if rect.Empty() {
			continue
		}

		body, err := encodeSlicePNG(frame, rect)
		if err != nil {
			return nil, 0, fmt.Errorf("capture: encode slice: %w", err)
		}

		slices = append(slices, protocol.Slice{
			X:      rect.Min.X,
			Y:      rect.Min.Y,
			Width:  rect.Dx(),
			Height: rect.Dy(),
			Body:   body,
		})
		dirtyPixels += int64(rect.Dx()) * int64(rect.Dy())
	}

	coverage := float64(dirtyPixels) / float64(width*height)
	return slices, coverage, nil
}

// toGray converts a captured RGBA frame to an 8-bit single-channel Mat.
func toGray(frame *image.RGBA) (gocv.Mat, error) {
	bounds := frame.Bounds()
	rgba, err := gocv.NewMatFromBytes(bounds.Dy(), bounds.Dx(), gocv.MatTypeCV8UC4, frame.Pix)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer rgba.Close()

	gray := gocv.NewMat()
	gocv.CvtColor(rgba, &gray, gocv.ColorRGBAToGray)
	return gray, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeSlicePNG(frame *image.RGBA, rect image.Rectangle) ([]byte, error) {
	sub := frame.SubImage(rect)
	return encodePNG(sub)
}
