package session

import "sync/atomic"

// Gate is a boolean streaming on/off switch toggled by the inbound
// CommandStreamOn/CommandStreamOff commands. While unset, the capture
// loop idles instead of encoding and sending frames.
type Gate struct {
	set atomic.Bool
}

// NewGate returns a gate in the given initial state.
func NewGate(initiallySet bool) *Gate {
	g := &Gate{}
	g.set.Store(initiallySet)
	return g
}

func (g *Gate) Open()         { g.set.Store(true) }
func (g *Gate) Close()        { g.set.Store(false) }
func (g *Gate) IsOpen() bool  { return g.set.Load() }
