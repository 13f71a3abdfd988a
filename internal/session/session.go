// Package session owns the three TCP channels to the collection server —
// authentication, frame upload, and inbound commands — and coordinates
// the single-flight reconnection policy shared by the capture and command
// loops.
package session

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/deskcatcher/agent/internal/config"
	"github.com/deskcatcher/agent/internal/logging"
	"github.com/deskcatcher/agent/internal/protocol"
	"github.com/deskcatcher/agent/internal/status"
)

const (
	usernameFieldSize = 10
	passwordFieldSize = 20
)

var log = logging.L("session")

// Manager owns the live connections and the session identifier issued by
// the auth channel at login.
type Manager struct {
	cfg *config.Config

	mu        sync.RWMutex
	id        protocol.SessionID
	frameConn net.Conn
	cmdConn   net.Conn

	Gate *Gate

	// StatusLine is the single rewritten terminal line shared with the
	// command loop, which prints the active controller id to it.
	StatusLine *status.Line

	reconnecting sync.Mutex
	busy         bool

	shutdownOnce sync.Once
	done         chan struct{}
}

// New returns a Manager that is not yet connected. Call Connect (or
// Reconnect) before using FrameConn/CommandConn.
func New(cfg *config.Config) *Manager {
	return &Manager{
		cfg:        cfg,
		Gate:       NewGate(false),
		StatusLine: &status.Line{},
		done:       make(chan struct{}),
	}
}

// Done is closed exactly once, when Shutdown is called.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Shutdown closes all connections and signals Done. Safe to call more
// than once and from multiple goroutines.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		close(m.done)
		m.mu.Lock()
		defer m.mu.Unlock()
		closeIfSet(m.frameConn)
		closeIfSet(m.cmdConn)
	})
}

func closeIfSet(c net.Conn) {
	if c != nil {
		c.Close()
	}
}

// ID returns the current session identifier.
func (m *Manager) ID() protocol.SessionID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.id
}

// FrameConn returns the frame-upload connection for the capture loop.
func (m *Manager) FrameConn() net.Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frameConn
}

// CommandConn returns the inbound command connection for the command loop.
func (m *Manager) CommandConn() net.Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cmdConn
}

// Connect performs the full login handshake and opens the frame and
// command channels. On any failure it closes whatever it already opened.
func (m *Manager) Connect(ctx context.Context) error {
	id, err := m.login(ctx)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	dialer := net.Dialer{}
	frameConn, err := dialer.DialContext(ctx, "tcp", m.cfg.FrameAddr())
	if err != nil {
		return fmt.Errorf("dial frame channel: %w", err)
	}
	if _, err := frameConn.Write(id[:]); err != nil {
		frameConn.Close()
		return fmt.Errorf("send session id on frame channel: %w", err)
	}

	cmdConn, err := dialer.DialContext(ctx, "tcp", m.cfg.CommandAddr())
	if err != nil {
		frameConn.Close()
		return fmt.Errorf("dial command channel: %w", err)
	}
	if _, err := cmdConn.Write(id[:]); err != nil {
		frameConn.Close()
		cmdConn.Close()
		return fmt.Errorf("send session id on command channel: %w", err)
	}
	ack := make([]byte, 1)
	if _, err := io.ReadFull(cmdConn, ack); err != nil {
		frameConn.Close()
		cmdConn.Close()
		return fmt.Errorf("read command channel ack: %w", err)
	}

	m.mu.Lock()
	m.id = id
	m.frameConn = frameConn
	m.cmdConn = cmdConn
	m.mu.Unlock()

	log.Info("session established", logging.KeySessionID, id)
	return nil
}

// login dials the auth channel, sends the fixed-width credential fields,
// reads back the 16-byte session id, and closes the channel: it is
// transient, used only for the handshake, per the original client's
// login() (which closes its socket immediately after reading the id).
func (m *Manager) login(ctx context.Context) (protocol.SessionID, error) {
	var id protocol.SessionID

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", m.cfg.AuthAddr())
	if err != nil {
		return id, fmt.Errorf("dial auth channel: %w", err)
	}
	defer conn.Close()

	var payload [usernameFieldSize + passwordFieldSize]byte
	copy(payload[:usernameFieldSize], m.cfg.Username)
	copy(payload[usernameFieldSize:], m.cfg.Password)

	if _, err := conn.Write(payload[:]); err != nil {
		return id, fmt.Errorf("send credentials: %w", err)
	}

	if _, err := io.ReadFull(conn, id[:]); err != nil {
		return id, fmt.Errorf("read session id: %w", err)
	}

	return id, nil
}

// Reconnect re-establishes all three channels. Concurrent callers share a
// single in-flight attempt: if a reconnect is already running, later
// callers return immediately without starting a second one.
func (m *Manager) Reconnect(ctx context.Context) error {
	if !m.tryAcquire() {
		return nil
	}
	defer m.release()

	m.mu.Lock()
	closeIfSet(m.frameConn)
	closeIfSet(m.cmdConn)
	m.frameConn, m.cmdConn = nil, nil
	m.mu.Unlock()

	backoff := time.Duration(m.cfg.ReconnectBackoffSeconds) * time.Second

	for {
		select {
		case <-m.done:
			return fmt.Errorf("reconnect: shutting down")
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := m.Connect(ctx); err == nil {
			m.StatusLine.Clear()
			return nil
		} else {
			log.Warn("reconnect attempt failed", logging.KeyError, err)
		}

		if !m.countdown(ctx, backoff) {
			return fmt.Errorf("reconnect: shutting down")
		}
	}
}

func (m *Manager) countdown(ctx context.Context, backoff time.Duration) bool {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	remaining := backoff
	for remaining > 0 {
		m.StatusLine.Printf("connection failed, retrying in %d seconds...", int(remaining.Seconds()))
		select {
		case <-m.done:
			return false
		case <-ctx.Done():
			return false
		case <-ticker.C:
			remaining -= time.Second
		}
	}
	return true
}

func (m *Manager) tryAcquire() bool {
	m.reconnecting.Lock()
	defer m.reconnecting.Unlock()
	if m.busy {
		return false
	}
	m.busy = true
	return true
}

func (m *Manager) release() {
	m.reconnecting.Lock()
	m.busy = false
	m.reconnecting.Unlock()
}
