// Package config loads and saves the per-user JSON settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/faratech/htop-win/model"
)

// ErrInvalid reports a config file that exists but cannot be parsed.
var ErrInvalid = errors.New("invalid config file")

const (
	appDir   = "htop-win"
	fileName = "config.json"

	minRefreshMs = 50
)

// ConfigPath returns the default location of the config file.
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

func defaultConfig() *Config {
	return &Config{
		RefreshRateMs:         1500,
		ColorScheme:           "Default",
		ShowKernelThreads:     true,
		ShowUserThreads:       true,
		HighlightRunning:      true,
		HighlightLargeNumbers: true,
		HighlightNewProcesses: true,
		HighlightDurationMs:   3000,
		CPUMeterMode:          MeterBar,
		MemoryMeterMode:       MeterBar,
		VisibleColumns:        model.ColumnNames(model.DefaultColumns()),
		MouseEnabled:          true,
		ConfirmKill:           true,
	}
}

// Default returns a fresh default configuration.
func Default() *Config {
	return defaultConfig()
}

// LoadConfig reads path. A missing file yields the defaults; a malformed one
// yields the defaults together with an error wrapping ErrInvalid. Missing
// keys keep their defaults and unknown keys are ignored.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return defaultConfig(), fmt.Errorf("%w %s: %v", ErrInvalid, path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// SaveConfig writes cfg pretty-printed with sorted keys, creating the
// directory if needed.
func SaveConfig(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Marshal renders cfg in canonical form.
func Marshal(cfg *Config) ([]byte, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	// Round-trip through a map: encoding/json writes map keys sorted.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append(data, '\n'), nil
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	def := defaultConfig()
	if c.RefreshRateMs < minRefreshMs {
		c.RefreshRateMs = def.RefreshRateMs
	}
	if c.HighlightDurationMs < 0 {
		c.HighlightDurationMs = def.HighlightDurationMs
	}
	if !slices.Contains(ColorSchemes, c.ColorScheme) {
		c.ColorScheme = def.ColorScheme
	}
	if !c.CPUMeterMode.valid() {
		c.CPUMeterMode = MeterBar
	}
	if !c.MemoryMeterMode.valid() {
		c.MemoryMeterMode = MeterBar
	}
	cols := model.ParseColumns(c.VisibleColumns)
	if len(cols) == 0 {
		cols = model.DefaultColumns()
	}
	c.VisibleColumns = model.ColumnNames(cols)
}

// Columns returns the visible columns in display order.
func (c *Config) Columns() []model.Column {
	cols := model.ParseColumns(c.VisibleColumns)
	if len(cols) == 0 {
		return model.DefaultColumns()
	}
	return cols
}

// SetColumns stores cols in display order.
func (c *Config) SetColumns(cols []model.Column) {
	c.VisibleColumns = model.ColumnNames(cols)
}

// NextRefreshRate returns the setup-dialog value following the current one.
func (c *Config) NextRefreshRate() int {
	for _, r := range RefreshRates {
		if r > c.RefreshRateMs {
			return r
		}
	}
	return RefreshRates[0]
}

// NextColorScheme returns the scheme after the current one.
func (c *Config) NextColorScheme() string {
	i := slices.Index(ColorSchemes, c.ColorScheme)
	return ColorSchemes[(i+1)%len(ColorSchemes)]
}
