package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/inkwell/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger logger.Config `toml:"logger"`
	Editor EditorConfig  `toml:"editor"`
}

// EditorConfig holds editing-session and host settings.
type EditorConfig struct {
	Debounce         time.Duration `toml:"debounce"`      // quiet window before typing becomes an undo entry
	HistoryLimit     int           `toml:"history_limit"` // undo entries kept, 0 for unlimited
	Placeholder      string        `toml:"placeholder"`   // keeps empty blocks focusable
	SystemClipboard  bool          `toml:"system_clipboard"`
	Autosave         bool          `toml:"autosave"`
	AutosaveInterval time.Duration `toml:"autosave_interval"`
	Theme            string        `toml:"theme"` // theme name or path, "" for the built-in one
	StatusBarHeight  int           `toml:"status_bar_height"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel: "info",
		},
		Editor: EditorConfig{
			Debounce:         DefaultDebounce,
			HistoryLimit:     DefaultHistoryLimit,
			Placeholder:      DefaultPlaceholder,
			SystemClipboard:  SystemClipboard,
			AutosaveInterval: DefaultAutosaveInterval,
			StatusBarHeight:  StatusBarHeight,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/inkwell/config.toml (or the platform
// equivalent), or "" when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ConfigDirName, DefaultConfigFileName)
}

// loadFromFile decodes filePath over cfg. A missing file is not an error.
// Keys the file does not mention keep the values already in cfg.
func loadFromFile(filePath string, cfg *Config) ([]string, error) {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}
	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	var unknown []string
	for _, key := range metadata.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return unknown, nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.Debounce <= 0 {
		c.Editor.Debounce = defaults.Editor.Debounce
	}
	if c.Editor.HistoryLimit < 0 {
		c.Editor.HistoryLimit = defaults.Editor.HistoryLimit
	}
	if c.Editor.Placeholder == "" {
		c.Editor.Placeholder = defaults.Editor.Placeholder
	}
	if c.Editor.AutosaveInterval < MinAutosaveInterval {
		c.Editor.AutosaveInterval = defaults.Editor.AutosaveInterval
	}
	if c.Editor.StatusBarHeight <= 0 {
		c.Editor.StatusBarHeight = defaults.Editor.StatusBarHeight
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
}

// Load builds a configuration from defaults, the file at configFilePath (or
// DefaultPath when empty) and the flags that were set, then validates it.
// Unrecognized file keys are returned so the caller can warn once logging
// is up.
func Load(configFilePath string, flags *Flags) (*Config, []string, error) {
	cfg := NewDefaultConfig()

	path := configFilePath
	if path == "" {
		path = DefaultPath()
	}
	var unknown []string
	var err error
	if path != "" {
		unknown, err = loadFromFile(path, cfg)
		if err != nil {
			cfg = NewDefaultConfig()
		}
	}
	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, unknown, err
}

// LoadConfig runs Load once and keeps the result for Get. It should be
// called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, []string, error) {
	var unknown []string
	loadOnce.Do(func() {
		loadedConfig, unknown, loadErr = Load(configFilePath, flags)
	})
	return loadedConfig, unknown, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
