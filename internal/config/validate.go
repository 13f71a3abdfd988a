package config

import (
	"fmt"
	"net"
	"strings"
	"unicode"
)

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks the config for invalid values and returns all errors
// found. Dangerous zero-values that would break dialing or cause panics
// are clamped to safe defaults; the clamp itself is reported as an error
// so the caller can log it.
func (c *Config) Validate() []error {
	var errs []error

	if c.ServerHost != "" {
		if host, _, err := net.SplitHostPort(c.ServerHost); err == nil {
			errs = append(errs, fmt.Errorf("server_host %q includes a port; use server_host=%q (the ports are fixed)", c.ServerHost, host))
		}
	}

	for _, r := range c.Password {
		if unicode.IsControl(r) {
			errs = append(errs, fmt.Errorf("password contains control characters"))
			break
		}
	}

	if c.AuthPort == c.FramePort || c.AuthPort == c.CommandPort || c.FramePort == c.CommandPort {
		errs = append(errs, fmt.Errorf("auth_port, frame_port and command_port must be distinct"))
	}

	// Clamp the reconnect backoff to a sane range to prevent a busy-loop
	// reconnect storm or an unreasonably long hang.
	if c.ReconnectBackoffSeconds < 1 {
		errs = append(errs, fmt.Errorf("reconnect_backoff_seconds %d is below minimum 1, clamping", c.ReconnectBackoffSeconds))
		c.ReconnectBackoffSeconds = 1
	} else if c.ReconnectBackoffSeconds > 300 {
		errs = append(errs, fmt.Errorf("reconnect_backoff_seconds %d exceeds maximum 300, clamping", c.ReconnectBackoffSeconds))
		c.ReconnectBackoffSeconds = 300
	}

	if c.IdleCaptureIntervalSeconds < 1 {
		errs = append(errs, fmt.Errorf("idle_capture_interval_seconds %d is below minimum 1, clamping", c.IdleCaptureIntervalSeconds))
		c.IdleCaptureIntervalSeconds = 1
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Errorf("log_level %q is not valid (use debug, info, warn, error)", c.LogLevel))
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format %q is not valid (use text or json)", c.LogFormat))
	}

	return errs
}
