package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and default filling.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing apps dir.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Missing signing key.
	cfg = &Config{
		AppsDir: "apps",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Defaults fill in the rest.
	cfg = &Config{
		AppsDir:    "apps",
		SigningKey: "apps.0.sec",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, "apksigner", cfg.ApksignerPath)
	require.Equal(t, "aapt2", cfg.Aapt2Path)
	require.Equal(t, "signify", cfg.SignifyPath)
	require.Positive(t, cfg.Workers)
	require.Equal(t, "info", cfg.LogLevel)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		AppsDir:    filepath.Join(dir, "apps"),
		SigningKey: filepath.Join(dir, "apps.0.sec"),
		Workers:    2,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.AppsDir, loaded.AppsDir)
	require.Equal(t, cfg.SigningKey, loaded.SigningKey)
	require.Equal(t, 2, loaded.Workers)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestDefault verifies the default configuration is valid.
func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.Equal(t, DefaultAppsDir, cfg.AppsDir)
	require.Equal(t, DefaultSigningKey, cfg.SigningKey)
	require.NoError(t, Validate(cfg))
}
