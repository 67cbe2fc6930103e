package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faratech/htop-win/model"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 1500, cfg.RefreshRateMs)
	assert.True(t, cfg.ConfirmKill)
	assert.Equal(t, model.DefaultColumns(), cfg.Columns())
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cfg, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialAndUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{
  "refresh_rate_ms": 500,
  "cpu_meter_mode": "Graph",
  "memory_meter_mode": "Sideways",
  "color_scheme": "Nord",
  "visible_columns": ["pid", "cpu%", "bogus", "Command", "PID"],
  "some_future_key": 1
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.RefreshRateMs)
	assert.Equal(t, MeterGraph, cfg.CPUMeterMode)
	assert.Equal(t, MeterBar, cfg.MemoryMeterMode)
	assert.Equal(t, "Nord", cfg.ColorScheme)
	assert.Equal(t, []string{"PID", "CPU%", "Command"}, cfg.VisibleColumns)
	assert.True(t, cfg.ShowKernelThreads, "missing keys keep defaults")
}

func TestSaveLoadSaveIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "config.json")
	second := filepath.Join(dir, "b", "config.json")

	cfg := Default()
	cfg.TreeViewDefault = true
	cfg.ColorScheme = "Midnight"
	cfg.MemoryMeterMode = MeterText
	cfg.SetColumns([]model.Column{model.ColCommand, model.ColPID})
	require.NoError(t, SaveConfig(first, cfg))

	loaded, err := LoadConfig(first)
	require.NoError(t, err)
	require.NoError(t, SaveConfig(second, loaded))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Contains(t, string(a), "{\n  \"color_scheme\": \"Midnight\",\n  \"confirm_kill\": true,")
}

func TestMeterModeCycle(t *testing.T) {
	m := MeterBar
	var seen []MeterMode
	for range 4 {
		m = m.Next()
		seen = append(seen, m)
	}
	assert.Equal(t, []MeterMode{MeterText, MeterGraph, MeterHidden, MeterBar}, seen)
}

func TestCycles(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 2000, cfg.NextRefreshRate())
	cfg.RefreshRateMs = 5000
	assert.Equal(t, 100, cfg.NextRefreshRate())

	assert.Equal(t, "Monochrome", cfg.NextColorScheme())
	cfg.ColorScheme = "Nord"
	assert.Equal(t, "Default", cfg.NextColorScheme())
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, SaveConfig(path, Default()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rate atomic.Int64
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) { rate.Store(int64(c.RefreshRateMs)) })
	}()

	cfg := Default()
	cfg.RefreshRateMs = 250
	require.Eventually(t, func() bool {
		// Rewrite until the watcher has registered and seen an event.
		_ = SaveConfig(path, cfg)
		return rate.Load() == 250
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
