package command

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/deskcatcher/agent/internal/input"
	"github.com/deskcatcher/agent/internal/protocol"
	"github.com/deskcatcher/agent/internal/session"
)

type call struct {
	name   string
	x, y   int
	button input.Button
	delta  int
}

type fakeHandler struct {
	calls []call
}

func (f *fakeHandler) Move(x, y int) error {
	f.calls = append(f.calls, call{name: "move", x: x, y: y})
	return nil
}
func (f *fakeHandler) Press(button input.Button) error {
	f.calls = append(f.calls, call{name: "press", button: button})
	return nil
}
func (f *fakeHandler) Release(button input.Button) error {
	f.calls = append(f.calls, call{name: "release", button: button})
	return nil
}
func (f *fakeHandler) DoubleClick(x, y int, button input.Button) error {
	f.calls = append(f.calls, call{name: "double", x: x, y: y, button: button})
	return nil
}
func (f *fakeHandler) Scroll(delta int) error {
	f.calls = append(f.calls, call{name: "scroll", delta: delta})
	return nil
}
func (f *fakeHandler) CursorPosition() (int, int, error) { return 0, 0, nil }

func TestLoopDispatchesMoveAndPress(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	handler := &fakeHandler{}
	gate := session.NewGate(false)
	loop := New(gate, handler, nil)

	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { done <- loop.Run(ctx, server) }()

	var id protocol.SessionID
	if err := protocol.EncodeCommand(client, id, protocol.CommandMove, 5, 6, true); err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	if err := protocol.EncodeCommand(client, id, protocol.CommandPressLeft, 5, 6, true); err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	if err := protocol.EncodeCommand(client, id, protocol.CommandStreamOn, 0, 0, false); err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if len(handler.calls) < 3 {
		t.Fatalf("expected at least 3 calls, got %d: %+v", len(handler.calls), handler.calls)
	}
	if handler.calls[0].name != "move" || handler.calls[0].x != 5 || handler.calls[0].y != 6 {
		t.Fatalf("unexpected first call: %+v", handler.calls[0])
	}
	if !gate.IsOpen() {
		t.Fatal("expected gate to be open after CommandStreamOn")
	}
}

func TestLoopScrollMovesBeforeScrolling(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	handler := &fakeHandler{}
	gate := session.NewGate(false)
	loop := New(gate, handler, nil)

	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { done <- loop.Run(ctx, server) }()

	var id protocol.SessionID
	if err := protocol.EncodeCommand(client, id, protocol.CommandScroll, 12, 34, true); err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if len(handler.calls) != 2 {
		t.Fatalf("expected move then scroll, got %+v", handler.calls)
	}
	if handler.calls[0].name != "move" || handler.calls[0].x != 12 || handler.calls[0].y != 34 {
		t.Fatalf("expected scroll to position the cursor first, got %+v", handler.calls[0])
	}
	if handler.calls[1].name != "scroll" || handler.calls[1].delta != protocol.ScrollNotches {
		t.Fatalf("expected a scroll call for %d notches, got %+v", protocol.ScrollNotches, handler.calls[1])
	}
}

func TestLoopNilConnReturnsError(t *testing.T) {
	loop := New(session.NewGate(false), &fakeHandler{}, nil)
	if err := loop.Run(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a nil connection")
	}
}
