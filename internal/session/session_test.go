package session

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/deskcatcher/agent/internal/config"
)

// fakeServer listens on three loopback ports and performs the minimal
// handshake the real collection server performs: a session id on login,
// reading the session id the client sends on the frame/command channels,
// and a 1-byte ack on the command channel.
type fakeServer struct {
	t        *testing.T
	authLn   net.Listener
	frameLn  net.Listener
	cmdLn    net.Listener
	sentID   [16]byte
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	s := &fakeServer{t: t}
	s.authLn = mustListen(t)
	s.frameLn = mustListen(t)
	s.cmdLn = mustListen(t)
	for i := range s.sentID {
		s.sentID[i] = byte(i + 1)
	}

	go s.acceptAuth()
	go s.acceptFrame()
	go s.acceptCommand()

	return s
}

func mustListen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	return ln
}

func (s *fakeServer) port(ln net.Listener) int {
	return ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeServer) acceptAuth() {
	conn, err := s.authLn.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	buf := make([]byte, usernameFieldSize+passwordFieldSize)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return
	}
	conn.Write(s.sentID[:])
}

func (s *fakeServer) acceptFrame() {
	conn, err := s.frameLn.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	buf := make([]byte, 16)
	io.ReadFull(conn, buf)
}

func (s *fakeServer) acceptCommand() {
	conn, err := s.cmdLn.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	buf := make([]byte, 16)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return
	}
	conn.Write([]byte{1})
}

func (s *fakeServer) close() {
	s.authLn.Close()
	s.frameLn.Close()
	s.cmdLn.Close()
}

func TestManagerConnectEstablishesSession(t *testing.T) {
	srv := newFakeServer(t)
	defer srv.close()

	cfg := config.Default()
	cfg.ServerHost = "127.0.0.1"
	cfg.AuthPort = srv.port(srv.authLn)
	cfg.FramePort = srv.port(srv.frameLn)
	cfg.CommandPort = srv.port(srv.cmdLn)

	m := New(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := m.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer m.Shutdown()

	if m.ID() != srv.sentID {
		t.Fatalf("ID() = %v, want %v", m.ID(), srv.sentID)
	}
	if m.FrameConn() == nil {
		t.Fatal("expected a non-nil frame connection")
	}
	if m.CommandConn() == nil {
		t.Fatal("expected a non-nil command connection")
	}
}

func TestManagerShutdownClosesDone(t *testing.T) {
	m := New(config.Default())
	m.Shutdown()
	select {
	case <-m.Done():
	default:
		t.Fatal("expected Done() to be closed after Shutdown()")
	}
	// Calling Shutdown twice must not panic.
	m.Shutdown()
}
