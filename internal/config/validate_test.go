package config

import (
	"strings"
	"testing"
)

func TestValidateLowBackoffClamping(t *testing.T) {
	cfg := Default()
	cfg.ReconnectBackoffSeconds = 0
	errs := cfg.Validate()
	if len(errs) == 0 {
		t.Fatal("expected a warning for the clamped backoff")
	}
	if cfg.ReconnectBackoffSeconds != 1 {
		t.Fatalf("ReconnectBackoffSeconds = %d, want 1 (clamped)", cfg.ReconnectBackoffSeconds)
	}
}

func TestValidateHighBackoffClamping(t *testing.T) {
	cfg := Default()
	cfg.ReconnectBackoffSeconds = 9999
	cfg.Validate()
	if cfg.ReconnectBackoffSeconds != 300 {
		t.Fatalf("ReconnectBackoffSeconds = %d, want 300 (clamped)", cfg.ReconnectBackoffSeconds)
	}
}

func TestValidateIdleIntervalClamping(t *testing.T) {
	cfg := Default()
	cfg.IdleCaptureIntervalSeconds = 0
	cfg.Validate()
	if cfg.IdleCaptureIntervalSeconds != 1 {
		t.Fatalf("IdleCaptureIntervalSeconds = %d, want 1", cfg.IdleCaptureIntervalSeconds)
	}
}

func TestValidateDuplicatePortsIsError(t *testing.T) {
	cfg := Default()
	cfg.CommandPort = cfg.AuthPort
	errs := cfg.Validate()
	found := false
	for _, err := range errs {
		if strings.Contains(err.Error(), "must be distinct") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an error about duplicate ports")
	}
}

func TestValidateUnknownLogLevelIsError(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"
	errs := cfg.Validate()
	if len(errs) == 0 {
		t.Fatal("expected an error for unknown log level")
	}
}

func TestValidateControlCharsInPassword(t *testing.T) {
	cfg := Default()
	cfg.Password = "pass\x00word"
	errs := cfg.Validate()
	found := false
	for _, err := range errs {
		if strings.Contains(err.Error(), "control characters") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an error about control characters in password")
	}
}

func TestValidDefaultConfigHasNoErrors(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("default config has errors: %v", errs)
	}
}
