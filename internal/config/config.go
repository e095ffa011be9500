package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by repository generator runs.
type Config struct {
	// AppsDir is the repository root containing the packages/ tree and
	// receiving the emitted metadata files.
	AppsDir string `yaml:"apps_dir"`
	// SigningKey is the path to the signify secret key used to sign the manifest.
	SigningKey string `yaml:"signing_key"`
	// ApksignerPath is the apksigner executable used for certificate extraction.
	ApksignerPath string `yaml:"apksigner_path"`
	// Aapt2Path is the aapt2 executable used for badging extraction.
	Aapt2Path string `yaml:"aapt2_path"`
	// SignifyPath is the signify executable used to sign the manifest.
	SignifyPath string `yaml:"signify_path"`
	// Workers bounds how many packages are processed concurrently.
	Workers int `yaml:"workers"`
	// LogLevel is the minimum level for log output (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for generator settings.
	DefaultConfigFilename = "repo-generator.yaml"

	// DefaultAppsDir is the default repository root.
	DefaultAppsDir = "apps"

	// DefaultSigningKey is the default signify secret key path.
	DefaultSigningKey = "apps.0.sec"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAppsDirRequired is returned when the repository root is missing.
	errAppsDirRequired = errors.New("apps directory must be provided")
	// errSigningKeyRequired is returned when the signing key path is missing.
	errSigningKeyRequired = errors.New("signing key must be provided")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills in defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.AppsDir == "" {
		return errAppsDirRequired
	}

	if cfg.SigningKey == "" {
		return errSigningKeyRequired
	}

	if cfg.ApksignerPath == "" {
		cfg.ApksignerPath = "apksigner"
	}

	if cfg.Aapt2Path == "" {
		cfg.Aapt2Path = "aapt2"
	}

	if cfg.SignifyPath == "" {
		cfg.SignifyPath = "signify"
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return nil
}

// Default returns a configuration populated with default values.
func Default() *Config {
	cfg := &Config{
		AppsDir:    DefaultAppsDir,
		SigningKey: DefaultSigningKey,
	}

	// Validate never fails once the required fields are set.
	_ = Validate(cfg)

	return cfg
}
