// Package protocol implements the wire framing for the three channels:
// the keyframe/delta frame-upload packets and the inbound command packet.
// All multi-byte integers are big-endian 32-bit.
package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// SessionIDSize is the length, in bytes, of the session identifier issued
// at login and carried in every subsequent frame packet.
const SessionIDSize = 16

// SessionID is the 16-byte identifier handed back by the auth channel.
type SessionID [SessionIDSize]byte

// String renders the id as a standard UUID for logging; the wire format
// itself carries it as opaque bytes.
func (id SessionID) String() string {
	return uuid.UUID(id).String()
}

// Slice describes one dirty rectangle's encoded image body and its
// position within the captured frame.
type Slice struct {
	X, Y   int
	Width  int
	Height int
	Body   []byte // PNG-encoded pixels for this rectangle
}

// EncodeKeyframe writes a full-frame packet: slice_count is always 0 and
// x, y are always 0, signaling to the server that body covers the whole
// captured rectangle.
func EncodeKeyframe(w io.Writer, id SessionID, width, height int, body []byte) error {
	var buf bytes.Buffer
	buf.Write(id[:])
	writeUint32(&buf, 0) // slice_count
	writeUint32(&buf, uint32(len(body)))
	writeUint32(&buf, uint32(height))
	writeUint32(&buf, uint32(width))
	writeUint32(&buf, 0) // x
	writeUint32(&buf, 0) // y
	buf.Write(body)

	_, err := w.Write(buf.Bytes())
	return err
}

// EncodeDelta writes a dirty-region packet: a descriptor per slice
// followed by the concatenation of all slice bodies, in the same order.
// slices must be non-empty: a slice_count of 0 is reserved on the wire to
// mean "this is a keyframe" (see DecodeFrame), so there is no legal delta
// encoding of "nothing changed" — callers must skip the write entirely in
// that case instead of calling EncodeDelta.
func EncodeDelta(w io.Writer, id SessionID, slices []Slice) error {
	if len(slices) == 0 {
		return fmt.Errorf("encode delta: no slices to send")
	}

	var buf bytes.Buffer
	buf.Write(id[:])
	writeUint32(&buf, uint32(len(slices)))

	for _, s := range slices {
		writeUint32(&buf, uint32(len(s.Body)))
		writeUint32(&buf, uint32(s.Height))
		writeUint32(&buf, uint32(s.Width))
		writeUint32(&buf, uint32(s.X))
		writeUint32(&buf, uint32(s.Y))
	}
	for _, s := range slices {
		buf.Write(s.Body)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// DecodedFrame is the parsed form of either packet shape, used by tests
// and by any future inspection tooling; the server is the only real
// consumer of the wire bytes, but round-tripping through this type keeps
// the encoder honest.
type DecodedFrame struct {
	ID     SessionID
	Slices []Slice // len == 1 with X==Y==0 for a keyframe
}

// DecodeFrame parses either packet shape from r. A slice_count of 0
// indicates a keyframe; the single slice's body_size/h/w are read as the
// first (and only) descriptor and x/y are forced to 0.
func DecodeFrame(r io.Reader) (*DecodedFrame, error) {
	var id SessionID
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return nil, fmt.Errorf("read session id: %w", err)
	}

	count, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read slice count: %w", err)
	}

	if count == 0 {
		bodySize, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("read keyframe body size: %w", err)
		}
		height, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("read keyframe height: %w", err)
		}
		width, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("read keyframe width: %w", err)
		}
		if _, err := readUint32(r); err != nil { // x, always 0
			return nil, fmt.Errorf("read keyframe x: %w", err)
		}
		if _, err := readUint32(r); err != nil { // y, always 0
			return nil, fmt.Errorf("read keyframe y: %w", err)
		}
		body := make([]byte, bodySize)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("read keyframe body: %w", err)
		}
		return &DecodedFrame{
			ID:     id,
			Slices: []Slice{{Width: int(width), Height: int(height), Body: body}},
		}, nil
	}

	descs := make([]Slice, count)
	for i := range descs {
		bodySize, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("read slice %d body size: %w", i, err)
		}
		height, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("read slice %d height: %w", i, err)
		}
		width, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("read slice %d width: %w", i, err)
		}
		x, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("read slice %d x: %w", i, err)
		}
		y, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("read slice %d y: %w", i, err)
		}
		descs[i] = Slice{X: int(x), Y: int(y), Width: int(width), Height: int(height), Body: make([]byte, bodySize)}
	}
	for i := range descs {
		if _, err := io.ReadFull(r, descs[i].Body); err != nil {
			return nil, fmt.Errorf("read slice %d body: %w", i, err)
		}
	}

	return &DecodedFrame{ID: id, Slices: descs}, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}
