// Package command reads the inbound command channel and replays each
// command on the local input subsystem.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/deskcatcher/agent/internal/input"
	"github.com/deskcatcher/agent/internal/logging"
	"github.com/deskcatcher/agent/internal/protocol"
	"github.com/deskcatcher/agent/internal/session"
	"github.com/deskcatcher/agent/internal/status"
)

var log = logging.L("command")

// Loop reads protocol.Command packets off a connection and dispatches
// them to an input.Handler, toggling the streaming gate on the two gate
// commands.
type Loop struct {
	gate       *session.Gate
	handler    input.Handler
	statusLine *status.Line
}

// New returns a command Loop bound to the given gate, input handler, and
// the shared status line it reports the active controller id on.
func New(gate *session.Gate, handler input.Handler, statusLine *status.Line) *Loop {
	return &Loop{gate: gate, handler: handler, statusLine: statusLine}
}

// Run reads and dispatches commands from conn until it errors, ctx is
// done, or conn is closed. It returns the error that ended the loop; a
// nil conn is treated as a caller bug, not a retryable condition.
func (l *Loop) Run(ctx context.Context, conn net.Conn) error {
	if conn == nil {
		return fmt.Errorf("command: nil connection")
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		cmd, err := protocol.DecodeCommand(conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return err
			}
			return fmt.Errorf("decode command: %w", err)
		}

		if err := l.dispatch(cmd); err != nil {
			log.Warn("dispatch failed", "type", cmd.Type, logging.KeyError, err)
		}
	}
}

func (l *Loop) dispatch(cmd *protocol.Command) error {
	log.Debug("received command",
		logging.KeyControllerID, cmd.ControllerID,
		logging.KeyCommandType, cmd.Type)
	if l.statusLine != nil {
		l.statusLine.Printf("controller %s active", cmd.ControllerID)
	}

	switch cmd.Type {
	case protocol.CommandMove:
		return l.handler.Move(cmd.X, cmd.Y)
	case protocol.CommandPressLeft:
		return l.pressAt(cmd, input.ButtonLeft)
	case protocol.CommandPressRight:
		return l.pressAt(cmd, input.ButtonRight)
	case protocol.CommandPressMiddle:
		return l.pressAt(cmd, input.ButtonMiddle)
	case protocol.CommandReleaseLeft:
		return l.releaseAt(cmd, input.ButtonLeft)
	case protocol.CommandReleaseRight:
		return l.releaseAt(cmd, input.ButtonRight)
	case protocol.CommandReleaseMiddle:
		return l.releaseAt(cmd, input.ButtonMiddle)
	case protocol.CommandDoubleLeft:
		return l.handler.DoubleClick(cmd.X, cmd.Y, input.ButtonLeft)
	case protocol.CommandDoubleRight:
		return l.handler.DoubleClick(cmd.X, cmd.Y, input.ButtonRight)
	case protocol.CommandDoubleMiddle:
		return l.handler.DoubleClick(cmd.X, cmd.Y, input.ButtonMiddle)
	case protocol.CommandScroll:
		if err := l.handler.Move(cmd.X, cmd.Y); err != nil {
			return err
		}
		return l.handler.Scroll(protocol.ScrollNotches)
	case protocol.CommandStreamOn:
		l.gate.Open()
		return nil
	case protocol.CommandStreamOff:
		l.gate.Close()
		return nil
	default:
		log.Warn("unknown command type, ignoring", "type", cmd.Type)
		return nil
	}
}

func (l *Loop) pressAt(cmd *protocol.Command, button input.Button) error {
	if err := l.handler.Move(cmd.X, cmd.Y); err != nil {
		return err
	}
	return l.handler.Press(button)
}

func (l *Loop) releaseAt(cmd *protocol.Command, button input.Button) error {
	if err := l.handler.Move(cmd.X, cmd.Y); err != nil {
		return err
	}
	return l.handler.Release(button)
}
