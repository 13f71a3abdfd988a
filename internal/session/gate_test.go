package session

import "testing"

func TestGateDefaultsClosed(t *testing.T) {
	g := NewGate(false)
	if g.IsOpen() {
		t.Fatal("expected gate to start closed")
	}
}

func TestGateOpenClose(t *testing.T) {
	g := NewGate(false)
	g.Open()
	if !g.IsOpen() {
		t.Fatal("expected gate to be open after Open()")
	}
	g.Close()
	if g.IsOpen() {
		t.Fatal("expected gate to be closed after Close()")
	}
}
