package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/FlightfulOS/apps-repository/internal/apk"
	"github.com/FlightfulOS/apps-repository/internal/config"
	"github.com/FlightfulOS/apps-repository/internal/hashcache"
	"github.com/FlightfulOS/apps-repository/internal/logger"
	"github.com/FlightfulOS/apps-repository/internal/metadata"
	"github.com/FlightfulOS/apps-repository/internal/signify"
)

// Options contains inputs for the generator entry point.
type Options struct {
	// ConfigPath is an optional path to the settings file
	// (defaults to repo-generator.yaml).
	ConfigPath string
	// AppsDir overrides the repository root from the settings file.
	AppsDir string
	// SigningKey overrides the signify secret key from the settings file.
	SigningKey string
	// Workers overrides the package concurrency limit from the settings file.
	Workers int
	// LogLevel overrides the minimum log level from the settings file.
	LogLevel string
}

// generator runs the scan-validate-emit pipeline. It is unexported—callers
// should use Run, which encapsulates setup and configuration handling.
type generator struct {
	// cfg holds the effective settings for this run.
	cfg *config.Config
	// tool invokes apksigner and aapt2.
	tool *apk.Tool
	// cache memoizes artifact content digests in sidecar files.
	cache *hashcache.Cache
	// signer produces the detached manifest signature.
	signer *signify.Signer
}

// Run executes the repository generation workflow.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "repo-generator")

	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	if err := config.Save(opts.ConfigPath, cfg); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	gen := &generator{
		cfg:    cfg,
		tool:   apk.NewTool(cfg.ApksignerPath, cfg.Aapt2Path),
		cache:  hashcache.New(),
		signer: signify.NewSigner(cfg.SignifyPath, cfg.SigningKey),
	}

	if err := gen.Run(ctx); err != nil {
		return fmt.Errorf("generator failed: %w", err)
	}

	logger.Info(ctx, "Repository metadata generated successfully")

	return nil
}

// Run scans the repository, validates every package and emits the signed
// manifest. Nothing is emitted unless the full scan validated.
func (g *generator) Run(ctx context.Context) error {
	// The manifest carries the time the scan started, not when it finished.
	startTime := time.Now().UTC().Unix()

	packages, err := g.buildPackages(ctx)
	if err != nil {
		return err
	}

	manifest := &metadata.Manifest{
		Time:     startTime,
		Packages: packages,
	}

	return g.writeManifest(ctx, manifest)
}

// resolveConfig loads settings from the config path when present, applies
// command line overrides and validates the result.
func resolveConfig(opts *Options) (*config.Config, error) {
	cfg := config.Default()

	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)

		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
			// First run: keep defaults, the settings file is written below.
		default:
			return nil, err
		}
	}

	if opts.AppsDir != "" {
		cfg.AppsDir = opts.AppsDir
	}

	if opts.SigningKey != "" {
		cfg.SigningKey = opts.SigningKey
	}

	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
