// Package resources locates the client's bundled image assets.
package resources

import (
	"fmt"
	"os"
	"path/filepath"
)

// searchDirs mirrors the original client's fallback order: the working
// directory first, then the PyInstaller-style bundle directory that the
// original shipped with.
var searchDirs = []string{".", "./_internal/icon"}

// Find returns the path to name, trying each search directory in order.
func Find(name string) (string, error) {
	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("resources: %q not found in %v", name, searchDirs)
}

// CursorIcon is the bundled cursor overlay image, alpha-composited onto
// captured frames.
const CursorIcon = "curser_point.png"

// TrayIcon is the bundled system tray icon.
const TrayIcon = "computer.png"
