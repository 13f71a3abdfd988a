package capture

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/deskcatcher/agent/internal/logging"
	"github.com/deskcatcher/agent/internal/protocol"
	"github.com/deskcatcher/agent/internal/session"
)

var log = logging.L("capture")

// Loop captures the primary display, composites the cursor, runs it
// through the delta encoder, and writes the resulting packet to the
// frame-upload connection. While the streaming gate is closed it idles
// at idleInterval instead of capturing.
type Loop struct {
	capturer     ScreenCapturer
	encoder      *DeltaEncoder
	cursor       *CursorCompositor
	gate         *session.Gate
	idleInterval time.Duration
}

// NewLoop returns a capture Loop. cursor may be nil if no cursor overlay
// is available (compositing is then skipped).
func NewLoop(capturer ScreenCapturer, encoder *DeltaEncoder, cursor *CursorCompositor, gate *session.Gate, idleInterval time.Duration) *Loop {
	return &Loop{
		capturer:     capturer,
		encoder:      encoder,
		cursor:       cursor,
		gate:         gate,
		idleInterval: idleInterval,
	}
}

// Run captures and sends frames until ctx is done or conn errors.
func (l *Loop) Run(ctx context.Context, conn net.Conn, id protocol.SessionID) error {
	if conn == nil {
		return fmt.Errorf("capture: nil connection")
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !l.gate.IsOpen() {
			time.Sleep(l.idleInterval)
			continue
		}

		if err := l.captureAndSend(conn, id); err != nil {
			return fmt.Errorf("capture: %w", err)
		}
	}
}

func (l *Loop) captureAndSend(conn net.Conn, id protocol.SessionID) error {
	frame, err := l.capturer.Capture()
	if err != nil {
		return fmt.Errorf("capture frame: %w", err)
	}

	if l.cursor != nil {
		l.cursor.Composite(frame)
	}

	result, err := l.encoder.Encode(frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	if result.IsKeyframe {
		return protocol.EncodeKeyframe(conn, id, result.Width, result.Height, result.Slices[0].Body)
	}
	if len(result.Slices) == 0 {
		return nil
	}
	log.Debug("sending delta frame", "slices", len(result.Slices))
	return protocol.EncodeDelta(conn, id, result.Slices)
}
