// Package config loads runtime settings from an optional TOML file with
// environment variable overrides. Precedence: defaults, then file, then env.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const configFileName = "questlog.toml"

type Config struct {
	DBPath               string `toml:"db_path"`
	TickSeconds          int    `toml:"tick_seconds"`
	TickWindowMinutes    int    `toml:"tick_window_minutes"`
	SchedulerBuffer      int    `toml:"scheduler_buffer"`
	DesktopNotifications bool   `toml:"desktop_notifications"`
}

func Default() Config {
	return Config{
		DBPath:               defaultDBPath(),
		TickSeconds:          60,
		TickWindowMinutes:    5,
		SchedulerBuffer:      64,
		DesktopNotifications: false,
	}
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickSeconds) * time.Second
}

func (c Config) TickWindow() time.Duration {
	return time.Duration(c.TickWindowMinutes) * time.Minute
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("config: db_path is required")
	}
	if c.TickSeconds <= 0 {
		return fmt.Errorf("config: tick_seconds must be positive, got %d", c.TickSeconds)
	}
	if c.TickWindowMinutes <= 0 {
		return fmt.Errorf("config: tick_window_minutes must be positive, got %d", c.TickWindowMinutes)
	}
	if c.SchedulerBuffer <= 0 {
		return fmt.Errorf("config: scheduler_buffer must be positive, got %d", c.SchedulerBuffer)
	}
	return nil
}

// Load merges the defaults with the TOML file at path (missing file is not
// an error) and then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg = FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath is $XDG_CONFIG_HOME/questlog/questlog.toml, falling back to
// ~/.config.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "questlog", configFileName)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "questlog.db"
	}
	return filepath.Join(home, ".local", "share", "questlog", "questlog.db")
}

func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("QUESTLOG_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v, ok := getEnvInt("QUESTLOG_TICK_SECONDS"); ok && v > 0 {
		cfg.TickSeconds = v
	}
	if v, ok := getEnvInt("QUESTLOG_TICK_WINDOW_MINUTES"); ok && v > 0 {
		cfg.TickWindowMinutes = v
	}
	if v, ok := getEnvInt("QUESTLOG_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvBool("QUESTLOG_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
