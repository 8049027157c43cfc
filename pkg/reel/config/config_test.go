package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPath, cfg.Scan.DefaultPath)
	assert.Equal(t, DefaultMaxConcurrency, cfg.Scan.MaxConcurrency)
	assert.Equal(t, DefaultBatchSize, cfg.Scan.BatchSize)
	assert.Equal(t, DefaultExclusions, cfg.Scan.Exclude)

	assert.False(t, cfg.Hash.Enabled)
	assert.Equal(t, DefaultHashThreshold, cfg.Hash.Threshold)
	assert.Equal(t, DefaultHashSampleSize, cfg.Hash.SampleSize)

	assert.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, cfg.Playback.Validate())
	assert.NotEmpty(t, cfg.Playback.SkipBuckets)
}

func TestLoadFromFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "reel")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	content := `
scan:
  max_concurrency: 32
  batch_size: 8
  exclude:
    - ".git"
    - "render-cache"
hash:
  enabled: true
  threshold: 64KiB
logging:
  level: debug
playback:
  order: shuffle
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Scan.MaxConcurrency)
	assert.Equal(t, 8, cfg.Scan.BatchSize)
	assert.Equal(t, []string{".git", "render-cache"}, cfg.Scan.Exclude)
	assert.True(t, cfg.Hash.Enabled)
	assert.Equal(t, "64KiB", cfg.Hash.Threshold)
	assert.Equal(t, DefaultHashSampleSize, cfg.Hash.SampleSize, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "reel")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("scan: [unclosed"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("REEL_SCAN_MAX_CONCURRENCY", "16")
	t.Setenv("REEL_HASH_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Scan.MaxConcurrency)
	assert.True(t, cfg.Hash.Enabled)
}

func TestSetDefaultsCoversComponents(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	components := v.GetStringMapString("logging.components")
	for _, name := range []string{"scanner", "hashing", "output"} {
		assert.Contains(t, components, name)
	}
}

func TestDir(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(configHome, "reel"), dir)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/media", filepath.Join(home, "media")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
