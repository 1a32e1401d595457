package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tasklist-cli/internal/model"
)

const defaultNotifyInterval = 60 * time.Second

type GlobalConfig struct {
	// DataDir holds the sqlite database (or JSON files for the file backend).
	DataDir string `json:"dataDir,omitempty"`

	// Backend is one of sqlite|file|redis|memory.
	Backend string `json:"backend,omitempty"`

	RedisAddr   string `json:"redisAddr,omitempty"`
	RedisPrefix string `json:"redisPrefix,omitempty"`

	// Categories replaces the built-in category set when non-empty.
	Categories []string `json:"categories,omitempty"`

	NotifyIntervalSeconds int `json:"notifyIntervalSeconds,omitempty"`
}

// ConfigKeys lists the keys accepted by (*GlobalConfig).Set.
var ConfigKeys = []string{"dataDir", "backend", "redisAddr", "redisPrefix", "categories", "notifyIntervalSeconds"}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.tasklist).
	if v := strings.TrimSpace(os.Getenv("TASKLIST_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tasklist"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Best-effort safety net: keep a copy of the previous config.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// Set assigns a single config key from its string form.
// Categories are comma-separated; an empty value restores the default.
func (c *GlobalConfig) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "dataDir":
		c.DataDir = value
	case "backend":
		if value == "" {
			c.Backend = ""
			return nil
		}
		b, err := ParseBackend(value)
		if err != nil {
			return err
		}
		c.Backend = string(b)
	case "redisAddr":
		c.RedisAddr = value
	case "redisPrefix":
		c.RedisPrefix = value
	case "categories":
		c.Categories = nil
		for _, part := range strings.Split(value, ",") {
			if p := strings.TrimSpace(part); p != "" {
				c.Categories = append(c.Categories, p)
			}
		}
	case "notifyIntervalSeconds":
		if value == "" {
			c.NotifyIntervalSeconds = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("notifyIntervalSeconds must be a positive integer, got %q", value)
		}
		c.NotifyIntervalSeconds = n
	default:
		return fmt.Errorf("unknown config key: %s (expected one of %s)", key, strings.Join(ConfigKeys, ", "))
	}
	return nil
}

func (c *GlobalConfig) CategoriesOrDefault() []string {
	if c == nil || len(c.Categories) == 0 {
		return append([]string(nil), model.DefaultCategories...)
	}
	return append([]string(nil), c.Categories...)
}

func (c *GlobalConfig) NotifyInterval() time.Duration {
	if c == nil || c.NotifyIntervalSeconds <= 0 {
		return defaultNotifyInterval
	}
	return time.Duration(c.NotifyIntervalSeconds) * time.Second
}
