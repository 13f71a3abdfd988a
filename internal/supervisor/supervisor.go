// Package supervisor runs the capture and command loops as two
// independent tasks, each reconnecting through the session manager on
// failure and honoring a shared shutdown signal.
package supervisor

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/deskcatcher/agent/internal/logging"
	"github.com/deskcatcher/agent/internal/protocol"
	"github.com/deskcatcher/agent/internal/session"
)

var log = logging.L("supervisor")

// quietPeriod is the pause after a failed task's reconnect request, before
// the task runs again, so a task that keeps failing doesn't spin in a hot
// reconnect loop.
const quietPeriod = 3 * time.Second

// FrameLoop is the subset of capture.Loop's interface the supervisor
// drives.
type FrameLoop interface {
	Run(ctx context.Context, conn net.Conn, id protocol.SessionID) error
}

// CommandLoop is the subset of command.Loop's interface the supervisor
// drives.
type CommandLoop interface {
	Run(ctx context.Context, conn net.Conn) error
}

// Supervisor owns the two long-running tasks.
type Supervisor struct {
	mgr     *session.Manager
	capture FrameLoop
	command CommandLoop
}

// New returns a Supervisor. The session manager must already have an
// established connection (via Manager.Connect) before Run is called.
func New(mgr *session.Manager, capture FrameLoop, command CommandLoop) *Supervisor {
	return &Supervisor{mgr: mgr, capture: capture, command: command}
}

// Run blocks until ctx is done or the session manager shuts down, running
// both tasks concurrently.
func (s *Supervisor) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		s.runTask(ctx, "capture", func(ctx context.Context) error {
			return s.capture.Run(ctx, s.mgr.FrameConn(), s.mgr.ID())
		})
	}()

	go func() {
		defer wg.Done()
		s.runTask(ctx, "command", func(ctx context.Context) error {
			return s.command.Run(ctx, s.mgr.CommandConn())
		})
	}()

	wg.Wait()
	return ctx.Err()
}

// runTask retries fn until ctx is done or the session is shutting down,
// reconnecting the session through the quiet period between attempts.
func (s *Supervisor) runTask(ctx context.Context, name string, fn func(context.Context) error) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.mgr.Done():
			return
		default:
		}

		if err := fn(ctx); err != nil {
			log.Warn("task failed", "task", name, logging.KeyError, err)
		}

		if err := s.mgr.Reconnect(ctx); err != nil {
			log.Warn("reconnect failed", "task", name, logging.KeyError, err)
		}

		select {
		case <-ctx.Done():
			return
		case <-s.mgr.Done():
			return
		case <-time.After(quietPeriod):
		}
	}
}
