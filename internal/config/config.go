package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	appDir         = "wifiapplet"
	configFileName = "config.yml"
	debugLogFile   = "wifiapplet-debug.log"
)

type (
	// Config -.
	Config struct {
		NetworkManager `yaml:"network_manager"`
		Log            `yaml:"log"`
		UI             `yaml:"ui"`
		Settings       `yaml:"settings"`
	}

	// NetworkManager -.
	NetworkManager struct {
		Binary string `yaml:"binary" env:"WIFIAPPLET_NMCLI"`
	}

	// Log -.
	Log struct {
		Level string `yaml:"level" env:"WIFIAPPLET_LOG_LEVEL"`
		File  string `yaml:"file" env:"WIFIAPPLET_LOG_FILE"`
	}

	// UI -.
	UI struct {
		// RescanDelay is how long to wait after switching the radio on before scanning.
		RescanDelay time.Duration `yaml:"rescan_delay" env:"WIFIAPPLET_RESCAN_DELAY"`
	}

	// Settings lists the commands tried, in order, to open the full network settings.
	Settings struct {
		Launchers []string `yaml:"launchers" env:"WIFIAPPLET_SETTINGS" env-separator:";"`
	}
)

var validLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		NetworkManager: NetworkManager{
			Binary: "nmcli",
		},
		Log: Log{
			Level: "info",
			File:  filepath.Join(os.TempDir(), debugLogFile),
		},
		UI: UI{
			RescanDelay: 180 * time.Millisecond,
		},
		Settings: Settings{
			Launchers: []string{
				"ferru-control-center network wifi",
				"ferru-control-center wifi",
				"ferru-control-center network",
				"gnome-control-center wifi",
				"gnome-control-center network",
				"nm-connection-editor",
			},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/wifiapplet/config.yml, or "" when no
// user config directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDir, configFileName)
}

// Load reads path on top of the defaults and then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		err := cleanenv.ReadConfig(path, cfg)
		var pathErr *os.PathError
		switch {
		case err == nil:
		case errors.As(err, &pathErr) && errors.Is(pathErr.Err, os.ErrNotExist):
			if err := cleanenv.ReadEnv(cfg); err != nil {
				return nil, fmt.Errorf("failed to read environment: %w", err)
			}
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that the rest of the program relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.NetworkManager.Binary) == "" {
		return errors.New("network_manager.binary cannot be empty")
	}
	if c.UI.RescanDelay < 0 {
		return fmt.Errorf("ui.rescan_delay cannot be negative (got %s)", c.UI.RescanDelay)
	}
	level := strings.ToLower(c.Log.Level)
	for _, l := range validLevels {
		if level == l {
			return nil
		}
	}
	return fmt.Errorf("unknown log level %q", c.Log.Level)
}

// LauncherCommands splits each configured launcher into program and arguments,
// dropping blank entries.
func (s Settings) LauncherCommands() [][]string {
	var cmds [][]string
	for _, l := range s.Launchers {
		if fields := strings.Fields(l); len(fields) > 0 {
			cmds = append(cmds, fields)
		}
	}
	return cmds
}
