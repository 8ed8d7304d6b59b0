package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 1200*time.Millisecond, cfg.ScanCooldown)
	assert.Equal(t, "camera", cfg.ScanCapability)
	assert.Equal(t, 0.7, cfg.CaptureQuality)
	assert.Equal(t, "android", cfg.Platform)
	assert.Equal(t, 720*time.Hour, cfg.UpcomingWindow)
	assert.Equal(t, "Created with Mappo Toolkit.", cfg.EventNotes)
	assert.False(t, cfg.CalendarStrictWritable)
	assert.NotNil(t, cfg.CalendarLocation)
	assert.Empty(t, cfg.BridgeURL)
	assert.Empty(t, cfg.DBDSN)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MAPPO_SCAN_COOLDOWN", "2s")
	t.Setenv("MAPPO_PLATFORM", "iOS")
	t.Setenv("MAPPO_CALENDAR_TIMEZONE", "UTC")
	t.Setenv("MAPPO_CALENDAR_STRICT_WRITABLE", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.ScanCooldown)
	assert.Equal(t, "ios", cfg.Platform)
	assert.Equal(t, time.UTC, cfg.CalendarLocation)
	assert.True(t, cfg.CalendarStrictWritable)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mappo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\nscan_capability: scanner\ncapture_quality: 0.5\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "scanner", cfg.ScanCapability)
	assert.Equal(t, 0.5, cfg.CaptureQuality)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	base, err := Load("")
	require.NoError(t, err)

	cases := map[string]func(c *Config){
		"cooldown below floor": func(c *Config) { c.ScanCooldown = 500 * time.Millisecond },
		"unknown capability":   func(c *Config) { c.ScanCapability = "microphone" },
		"quality zero":         func(c *Config) { c.CaptureQuality = 0 },
		"quality above one":    func(c *Config) { c.CaptureQuality = 1.5 },
		"unknown platform":     func(c *Config) { c.Platform = "symbian" },
		"empty addr":           func(c *Config) { c.Addr = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
