package protocol

import (
	"bytes"
	"testing"
)

func TestCommandRoundTripWithBody(t *testing.T) {
	id := testID()

	var buf bytes.Buffer
	if err := EncodeCommand(&buf, id, CommandMove, 100, 200, true); err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	cmd, err := DecodeCommand(&buf)
	if err != nil {
		t.Fatalf("DecodeCommand: %v", err)
	}
	if cmd.ControllerID != id {
		t.Fatalf("controller id mismatch")
	}
	if cmd.Type != CommandMove {
		t.Fatalf("type mismatch: got %v want %v", cmd.Type, CommandMove)
	}
	if cmd.X != 100 || cmd.Y != 200 {
		t.Fatalf("position mismatch: got (%d,%d) want (100,200)", cmd.X, cmd.Y)
	}
}

func TestCommandRoundTripNoBody(t *testing.T) {
	id := testID()

	var buf bytes.Buffer
	if err := EncodeCommand(&buf, id, CommandStreamOn, 0, 0, false); err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	cmd, err := DecodeCommand(&buf)
	if err != nil {
		t.Fatalf("DecodeCommand: %v", err)
	}
	if cmd.Type != CommandStreamOn {
		t.Fatalf("type mismatch: got %v want %v", cmd.Type, CommandStreamOn)
	}
	if cmd.X != 0 || cmd.Y != 0 {
		t.Fatalf("expected zero position for a bodyless command, got (%d,%d)", cmd.X, cmd.Y)
	}
}

func TestDecodeCommandUnknownTypePassesThrough(t *testing.T) {
	id := testID()

	var buf bytes.Buffer
	if err := EncodeCommand(&buf, id, CommandType(99), 1, 2, true); err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	cmd, err := DecodeCommand(&buf)
	if err != nil {
		t.Fatalf("DecodeCommand: %v", err)
	}
	if cmd.Type != CommandType(99) {
		t.Fatalf("expected unknown type to pass through, got %v", cmd.Type)
	}
}

func TestDecodeCommandTruncatedHeader(t *testing.T) {
	_, err := DecodeCommand(bytes.NewReader([]byte{1, 2, 3}))
	if err == nil {
		t.Fatal("expected an error for a truncated command header")
	}
}
