package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds the settings needed to run the remote-desktop client.
// The three server ports (auth, frame upload, command inbound) are fixed
// by the wire protocol and are not configurable; only the host changes.
type Config struct {
	ServerHost string `mapstructure:"server_host"`

	AuthPort    int `mapstructure:"auth_port"`
	FramePort   int `mapstructure:"frame_port"`
	CommandPort int `mapstructure:"command_port"`

	// LegacyCommandPort (9100) existed in the original client but was
	// never connected to; recognized only so old config files don't fail
	// to parse, and warned about once at load time.
	LegacyCommandPort int `mapstructure:"legacy_command_port"`

	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`

	// ReconnectBackoffSeconds is the countdown shown and waited between
	// failed reconnection attempts.
	ReconnectBackoffSeconds int `mapstructure:"reconnect_backoff_seconds"`
	// IdleCaptureIntervalSeconds controls the capture loop's poll cadence
	// while the streaming gate is unset.
	IdleCaptureIntervalSeconds int `mapstructure:"idle_capture_interval_seconds"`

	TrayEnabled bool `mapstructure:"tray_enabled"`
}

func Default() *Config {
	return &Config{
		ServerHost:                 "127.0.0.1",
		AuthPort:                   8888,
		FramePort:                  9000,
		CommandPort:                9101,
		LegacyCommandPort:          9100,
		LogLevel:                   "info",
		LogFormat:                  "text",
		LogMaxSizeMB:               50,
		LogMaxBackups:              3,
		ReconnectBackoffSeconds:    5,
		IdleCaptureIntervalSeconds: 1,
		TrayEnabled:                true,
	}
}

func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deskcatcher")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("DESKCATCHER")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// The three ports are fixed by the wire protocol; values for them in a
	// config file or the environment are ignored.
	def := Default()
	cfg.AuthPort, cfg.FramePort, cfg.CommandPort = def.AuthPort, def.FramePort, def.CommandPort

	if cfg.LogFile != "" && !filepath.IsAbs(cfg.LogFile) {
		cfg.LogFile = filepath.Join(GetDataDir(), cfg.LogFile)
	}

	if viper.IsSet("legacy_command_port") {
		slog.Warn("legacy_command_port is set but unused; the client never connects it", "value", cfg.LegacyCommandPort)
	}

	errs := cfg.Validate()
	for _, err := range errs {
		slog.Warn("config validation", "error", err)
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	return SaveTo(cfg, "")
}

func SaveTo(cfg *Config, cfgFile string) error {
	viper.Set("server_host", cfg.ServerHost)
	viper.Set("auth_port", cfg.AuthPort)
	viper.Set("frame_port", cfg.FramePort)
	viper.Set("command_port", cfg.CommandPort)
	viper.Set("username", cfg.Username)
	viper.Set("password", cfg.Password)
	viper.Set("log_level", cfg.LogLevel)
	viper.Set("log_format", cfg.LogFormat)
	viper.Set("log_file", cfg.LogFile)

	var cfgPath string
	if cfgFile != "" {
		cfgPath = cfgFile
		dir := filepath.Dir(cfgPath)
		if dir != "." {
			if err := os.MkdirAll(dir, 0700); err != nil {
				return err
			}
		}
	} else {
		cfgPath = filepath.Join(configDir(), "deskcatcher.yaml")
		if err := os.MkdirAll(configDir(), 0700); err != nil {
			return err
		}
	}

	if err := viper.WriteConfigAs(cfgPath); err != nil {
		return err
	}

	// Restrict config file to owner-only access (it may carry credentials).
	return os.Chmod(cfgPath, 0600)
}

// GetDataDir returns the platform-specific data directory for the client.
// Load anchors a relative log_file to it so relative paths in a config
// file don't depend on the process's working directory.
func GetDataDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("ProgramData"), "DeskCatcher", "data")
	case "darwin":
		return "/Library/Application Support/DeskCatcher/data"
	default:
		return "/var/lib/deskcatcher"
	}
}

func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("ProgramData"), "DeskCatcher")
	case "darwin":
		return "/Library/Application Support/DeskCatcher"
	default:
		return "/etc/deskcatcher"
	}
}

// AuthAddr returns the dial address for the authentication channel.
func (c *Config) AuthAddr() string { return fmt.Sprintf("%s:%d", c.ServerHost, c.AuthPort) }

// FrameAddr returns the dial address for the frame-upload channel.
func (c *Config) FrameAddr() string { return fmt.Sprintf("%s:%d", c.ServerHost, c.FramePort) }

// CommandAddr returns the dial address for the inbound command channel.
func (c *Config) CommandAddr() string { return fmt.Sprintf("%s:%d", c.ServerHost, c.CommandPort) }
