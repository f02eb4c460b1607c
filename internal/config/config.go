// Package config handles configuration loading, validation, and management for interact.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"interact/internal/logging"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete configuration: ambient settings plus the
// gesture declarations.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// Input adapter configuration.
	Input InputConfig `toml:"input" json:"input" yaml:"input"`

	// Journal configuration for session recording.
	Journal JournalConfig `toml:"journal" json:"journal" yaml:"journal"`

	// Gestures are matched in declaration order.
	Gestures []GestureConfig `toml:"gestures" json:"gestures" yaml:"gestures"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is "stdout", "stderr", "file" or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file used when Output is "file" or "both".
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// InputConfig controls how raw input is turned into events.
type InputConfig struct {
	// ScrollScale multiplies every scroll delta before it reaches the
	// shared state.
	ScrollScale float64 `toml:"scroll_scale" json:"scroll_scale" yaml:"scroll_scale"`

	// KeyRepeat delivers auto-repeated presses of a held key. When false,
	// a press of a key that is already down is dropped.
	KeyRepeat bool `toml:"key_repeat" json:"key_repeat" yaml:"key_repeat"`
}

// JournalConfig holds session journal configuration.
type JournalConfig struct {
	// Enabled turns on recording of events and gesture completions.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// GestureConfig declares one gesture.
type GestureConfig struct {
	// Name identifies the gesture in logs and the journal. Unique.
	Name string `toml:"name" json:"name" yaml:"name"`

	// Pattern is the gesture in pattern syntax.
	Pattern string `toml:"pattern" json:"pattern" yaml:"pattern"`

	// Action, if set, runs when the whole gesture completes.
	Action string `toml:"action,omitempty" json:"action,omitempty" yaml:"action,omitempty"`
}

// DefaultConfig returns a configuration with sensible defaults and the
// paint gesture set.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "stderr",
			FilePath: filepath.Join(PlatformLogDir(), "interact.log"),
		},
		Input: InputConfig{
			ScrollScale: 1.0,
			KeyRepeat:   true,
		},
		Journal: JournalConfig{
			Enabled: false,
			Path:    filepath.Join(InteractDir(), "journal.db"),
		},
		Gestures: DefaultGestures(),
	}
}

// DefaultGestures returns the paint gesture set.
func DefaultGestures() []GestureConfig {
	return []GestureConfig{
		{Name: "quit", Pattern: "q", Action: "quit"},
		{Name: "line", Pattern: "chord(l[begin_line], move[update_line]*)"},
		{Name: "circle", Pattern: "chord(c[begin_circle], move[update_circle]*)"},
		{Name: "clear", Pattern: "keys(backspace backspace)", Action: "clear"},
		{Name: "hue", Pattern: "keys(b d[hue]*)"},
		{Name: "value", Pattern: "chord(i, (scroll[value_scroll] | up[value_up] | down[value_down])*)"},
		{Name: "saturation", Pattern: "chord(s, (scroll[saturation_scroll] | up[saturation_up] | down[saturation_down])*)"},
		{Name: "pan", Pattern: "keys(mouse.left[pan_begin] until(move[pan], mouse.left.up))"},
		{Name: "width", Pattern: "keys((0[digit_0] | 1[digit_1] | 2[digit_2] | 3[digit_3] | 4[digit_4] | 5[digit_5] | 6[digit_6] | 7[digit_7] | 8[digit_8] | 9[digit_9]) t[line_width])[reset_number]"},
	}
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(PlatformConfigDir(), "config.toml")
}

// InteractDir returns the base data directory.
// Uses platform-specific paths or the INTERACT_DATA_DIR environment override.
func InteractDir() string {
	if envDir := os.Getenv("INTERACT_DATA_DIR"); envDir != "" {
		return envDir
	}
	return PlatformDataDir()
}

// Load reads configuration from the specified path, applies environment
// overrides and validates the result.
// If the file doesn't exist, returns the default configuration.
// Supports TOML, JSON, and YAML formats based on file extension.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	return readConfig(path)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// EnsureDirectories creates the directories for the log file and journal.
func (c *Config) EnsureDirectories() error {
	var dirs []string
	if c.Logging.Output == "file" || c.Logging.Output == "both" {
		dirs = append(dirs, filepath.Dir(c.Logging.FilePath))
	}
	if c.Journal.Enabled {
		dirs = append(dirs, filepath.Dir(c.Journal.Path))
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables are prefixed with INTERACT_.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("INTERACT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("INTERACT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("INTERACT_JOURNAL_PATH"); v != "" {
		c.Journal.Path = v
		c.Journal.Enabled = true
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Gestures = append([]GestureConfig(nil), c.Gestures...)
	return &clone
}

// Gesture returns the gesture declared under name.
func (c *Config) Gesture(name string) (GestureConfig, bool) {
	for _, g := range c.Gestures {
		if g.Name == name {
			return g, true
		}
	}
	return GestureConfig{}, false
}

// LoggerConfig converts the logging section into a logging.Config.
func (l LoggingConfig) LoggerConfig() (*logging.Config, error) {
	cfg := logging.DefaultConfig()

	level, err := logging.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(l.Format)
	if err != nil {
		return nil, err
	}

	cfg.Level = level
	cfg.Format = format
	if l.Output != "" {
		cfg.Output = l.Output
	}
	if l.FilePath != "" {
		cfg.FilePath = l.FilePath
	}
	return cfg, nil
}
