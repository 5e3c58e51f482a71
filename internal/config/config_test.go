package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "polarkb", cfg.Name)
	assert.True(t, cfg.Strict)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kbctl.yaml")

	cfg := Default()
	cfg.Sources = []string{"a.yaml", "b.yaml"}
	cfg.Strict = false
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Sources, loaded.Sources)
	assert.False(t, loaded.Strict)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Run("verbose env var enables logging", func(t *testing.T) {
		t.Setenv("POLARKB_VERBOSE", "true")
		t.Setenv("POLARKB_STRICT", "")

		cfg := Default()
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Logging.Verbose)
	})

	t.Run("strict env var can disable a file-set strict flag", func(t *testing.T) {
		t.Setenv("POLARKB_STRICT", "false")
		t.Setenv("POLARKB_VERBOSE", "")

		cfg := Default()
		cfg.Strict = true
		cfg.applyEnvOverrides()

		assert.False(t, cfg.Strict)
	})
}
