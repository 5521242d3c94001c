package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type NotificationsConfig struct {
	Desktop bool `yaml:"desktop"`
}

type LoggingConfig struct {
	Path        string `yaml:"path"`
	Development bool   `yaml:"development"`
}

type SchedulerConfig struct {
	Buffer int `yaml:"buffer"`
}

func Default() Config {
	return Config{
		Database:      DatabaseConfig{Path: "lockin.db"},
		Notifications: NotificationsConfig{Desktop: true},
		Logging:       LoggingConfig{Path: "lockin.log"},
		Scheduler:     SchedulerConfig{Buffer: 64},
	}
}

// Load reads the YAML config at path, falling back to defaults when the file
// does not exist, then applies LOCKIN_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return FromEnv(cfg), nil
}

func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("LOCKIN_DB_PATH")); v != "" {
		cfg.Database.Path = v
	}
	if v, ok := getEnvBool("LOCKIN_DESKTOP_NOTIFICATIONS"); ok {
		cfg.Notifications.Desktop = v
	}
	if v := strings.TrimSpace(os.Getenv("LOCKIN_LOG_PATH")); v != "" {
		cfg.Logging.Path = v
	}
	if v, ok := getEnvBool("LOCKIN_LOG_DEVELOPMENT"); ok {
		cfg.Logging.Development = v
	}
	if v, ok := getEnvInt("LOCKIN_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.Scheduler.Buffer = v
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
