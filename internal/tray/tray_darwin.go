//go:build darwin

package tray

// darwinPresence logs tray updates rather than rendering a real icon. A
// production implementation would use NSStatusItem via cgo/ObjC.
type darwinPresence struct {
	onAction func()
}

func newPlatformPresence() Presence {
	return &darwinPresence{}
}

func (p *darwinPresence) Update(status Status) error {
	log.Debug("tray update", "tooltip", status.Tooltip, "connected", status.Connected)
	return nil
}

func (p *darwinPresence) OnAction(callback func()) {
	p.onAction = callback
}

func (p *darwinPresence) Close() error {
	return nil
}
