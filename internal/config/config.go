// Package config loads paneldeck settings from TOML and environment
// variables. Every key has a default; a missing config file is not an
// error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig
	Layout  LayoutConfig
	Input   InputConfig
	Log     LogConfig
	Panels  []PanelConfig
	Feeds   []FeedConfig
}

// StorageConfig holds sqlite settings.
type StorageConfig struct {
	Path string // empty keeps state in memory for the session
}

// LayoutConfig holds board shape settings.
type LayoutConfig struct {
	Columns      int
	HistoryLimit int `mapstructure:"history_limit"`
}

// InputConfig holds gesture tuning.
type InputConfig struct {
	LongPressMS int `mapstructure:"long_press_ms"`
	TouchSlop   int `mapstructure:"touch_slop"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Path  string
	Level string
}

// PanelConfig describes one widget on the board.
type PanelConfig struct {
	ID     string
	Title  string
	Column int
	Feed   string // name of the feed driving this panel's content, optional
}

// FeedConfig describes a JSONL status file a panel can tail.
type FeedConfig struct {
	Name  string
	Path  string
	Field string // numeric field rendered as a sparkline, optional
}

// Load reads configuration from file and env. Env var overrides use prefix
// PANELDECK_ (e.g. PANELDECK_LAYOUT_COLUMNS=4).
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "paneldeck")
	v.SetDefault("storage.path", filepath.Join(dataDir, "paneldeck.db"))
	v.SetDefault("layout.columns", 3)
	v.SetDefault("layout.history_limit", 50)
	v.SetDefault("input.long_press_ms", 300)
	v.SetDefault("input.touch_slop", 10)
	v.SetDefault("log.path", filepath.Join(dataDir, "paneldeck.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("panels", defaultPanels())

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PANELDECK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "paneldeck"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PANELDECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.normalize(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// defaultPanels is the out-of-the-box dashboard.
func defaultPanels() []map[string]interface{} {
	return []map[string]interface{}{
		{"id": "git-status", "title": "Git Status", "column": 0},
		{"id": "build-log", "title": "Build Log", "column": 0},
		{"id": "test-results", "title": "Test Results", "column": 1},
		{"id": "service-health", "title": "Service Health", "column": 1},
		{"id": "deploy-queue", "title": "Deploy Queue", "column": 2},
	}
}

// normalize generates IDs for panels declared without one and rejects
// configs no engine could host.
func (c *Config) normalize() error {
	if c.Layout.Columns < 1 {
		return fmt.Errorf("layout.columns: need at least 1, got %d", c.Layout.Columns)
	}

	feeds := make(map[string]bool, len(c.Feeds))
	for _, f := range c.Feeds {
		if f.Name == "" || f.Path == "" {
			return fmt.Errorf("feed needs both name and path, got name=%q path=%q", f.Name, f.Path)
		}
		if feeds[f.Name] {
			return fmt.Errorf("duplicate feed name %q", f.Name)
		}
		feeds[f.Name] = true
	}

	seen := make(map[string]bool, len(c.Panels))
	for i := range c.Panels {
		p := &c.Panels[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.Title == "" {
			p.Title = p.ID
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate panel id %q", p.ID)
		}
		seen[p.ID] = true
		if p.Feed != "" && !feeds[p.Feed] {
			return fmt.Errorf("panel %q references unknown feed %q", p.ID, p.Feed)
		}
	}
	return nil
}
