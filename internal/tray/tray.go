// Package tray presents a minimal system tray icon with a single Exit
// action. It is an out-of-scope external collaborator: the default
// implementation logs rather than rendering a real icon, matching how
// thin the teacher's own tray integration was.
package tray

import "github.com/deskcatcher/agent/internal/logging"

var log = logging.L("tray")

// Status is the tray icon's current connection state, shown in its
// tooltip by a real implementation.
type Status struct {
	Tooltip string
	// Connected reflects whether the session is currently logged in.
	Connected bool
}

// Presence manages the tray icon and its single menu action.
type Presence interface {
	// Update refreshes the icon's tooltip/status.
	Update(status Status) error
	// OnAction registers the callback invoked when "Exit" is chosen.
	OnAction(callback func())
	// Close tears down the tray icon.
	Close() error
}

// New returns the platform-specific tray presence.
func New() Presence {
	return newPlatformPresence()
}
