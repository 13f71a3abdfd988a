//go:build linux

package tray

// linuxPresence logs tray updates rather than rendering a real icon. A
// production implementation would use StatusNotifierItem over D-Bus.
type linuxPresence struct {
	onAction func()
}

func newPlatformPresence() Presence {
	return &linuxPresence{}
}

func (p *linuxPresence) Update(status Status) error {
	log.Debug("tray update", "tooltip", status.Tooltip, "connected", status.Connected)
	return nil
}

func (p *linuxPresence) OnAction(callback func()) {
	p.onAction = callback
}

func (p *linuxPresence) Close() error {
	return nil
}
