package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// CommandHeaderSize is the fixed-size header preceding every command body:
// controller_id(16) || cmd_type(4) || body_size(4).
const CommandHeaderSize = SessionIDSize + 4 + 4

// CommandType enumerates the inbound command dispatch table. The values
// are fixed by the wire protocol and must not be renumbered.
type CommandType uint32

const (
	CommandMove          CommandType = 1
	CommandPressLeft     CommandType = 2
	CommandPressRight    CommandType = 3
	CommandPressMiddle   CommandType = 4
	CommandReleaseLeft   CommandType = 5
	CommandReleaseRight  CommandType = 6
	CommandReleaseMiddle CommandType = 7
	CommandDoubleLeft    CommandType = 8
	CommandDoubleRight   CommandType = 9
	CommandDoubleMiddle  CommandType = 10
	CommandScroll        CommandType = 11
	CommandStreamOn      CommandType = 20
	CommandStreamOff     CommandType = 21
)

// ScrollNotches is the fixed scroll amount carried by CommandScroll; the
// protocol does not transmit a variable delta.
const ScrollNotches = 5

// Command is a decoded inbound command: the controlling client's id, its
// type, and the position carried by mouse commands (zero for the two gate
// commands, which have no body).
type Command struct {
	ControllerID SessionID
	Type         CommandType
	X, Y         int
}

// DecodeCommand reads one CommandHeaderSize header plus its body from r.
// Unknown command types are returned as-is — the caller decides whether
// to log and ignore them, per the dispatch table's open-ended design.
func DecodeCommand(r io.Reader) (*Command, error) {
	var header [CommandHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read command header: %w", err)
	}

	var id SessionID
	copy(id[:], header[:SessionIDSize])
	cmdType := CommandType(binary.BigEndian.Uint32(header[SessionIDSize : SessionIDSize+4]))
	bodySize := binary.BigEndian.Uint32(header[SessionIDSize+4 : SessionIDSize+8])

	body := make([]byte, bodySize)
	if bodySize > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("read command body: %w", err)
		}
	}

	cmd := &Command{ControllerID: id, Type: cmdType}
	if len(body) >= 8 {
		cmd.X = int(binary.BigEndian.Uint32(body[0:4]))
		cmd.Y = int(binary.BigEndian.Uint32(body[4:8]))
	}
	return cmd, nil
}

// EncodeCommand writes a command packet; used by tests and by any tool
// simulating a controller.
func EncodeCommand(w io.Writer, id SessionID, cmdType CommandType, x, y int, withBody bool) error {
	var header [CommandHeaderSize]byte
	copy(header[:SessionIDSize], id[:])
	binary.BigEndian.PutUint32(header[SessionIDSize:SessionIDSize+4], uint32(cmdType))

	var body []byte
	if withBody {
		body = make([]byte, 8)
		binary.BigEndian.PutUint32(body[0:4], uint32(x))
		binary.BigEndian.PutUint32(body[4:8], uint32(y))
	}
	binary.BigEndian.PutUint32(header[SessionIDSize+4:SessionIDSize+8], uint32(len(body)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return err
		}
	}
	return nil
}
