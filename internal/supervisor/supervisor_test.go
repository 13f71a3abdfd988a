package supervisor

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deskcatcher/agent/internal/config"
	"github.com/deskcatcher/agent/internal/protocol"
	"github.com/deskcatcher/agent/internal/session"
)

type fakeFrameLoop struct {
	runs atomic.Int32
}

func (f *fakeFrameLoop) Run(ctx context.Context, conn net.Conn, id protocol.SessionID) error {
	f.runs.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

type fakeCommandLoop struct {
	runs atomic.Int32
}

func (f *fakeCommandLoop) Run(ctx context.Context, conn net.Conn) error {
	f.runs.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func TestSupervisorRunsBothTasksAndRespectsCancel(t *testing.T) {
	mgr := session.New(config.Default())
	frame := &fakeFrameLoop{}
	cmd := &fakeCommandLoop{}
	sup := New(mgr, frame, cmd)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sup.Run(ctx)

	if frame.runs.Load() == 0 {
		t.Fatal("expected the capture task to have run at least once")
	}
	if cmd.runs.Load() == 0 {
		t.Fatal("expected the command task to have run at least once")
	}
}

func TestSupervisorStopsOnManagerShutdown(t *testing.T) {
	mgr := session.New(config.Default())
	frame := &fakeFrameLoop{}
	cmd := &fakeCommandLoop{}
	sup := New(mgr, frame, cmd)

	mgr.Shutdown()

	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Run to return promptly after the manager shut down")
	}
}
