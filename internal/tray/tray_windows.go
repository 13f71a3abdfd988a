//go:build windows

package tray

// windowsPresence logs tray updates rather than rendering a real icon. A
// production implementation would call Shell_NotifyIcon.
type windowsPresence struct {
	onAction func()
}

func newPlatformPresence() Presence {
	return &windowsPresence{}
}

func (p *windowsPresence) Update(status Status) error {
	log.Debug("tray update", "tooltip", status.Tooltip, "connected", status.Connected)
	return nil
}

func (p *windowsPresence) OnAction(callback func()) {
	p.onAction = callback
}

func (p *windowsPresence) Close() error {
	return nil
}
