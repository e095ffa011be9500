package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/FlightfulOS/apps-repository/internal/config"
	"github.com/FlightfulOS/apps-repository/internal/service/generator"
	"github.com/FlightfulOS/apps-repository/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// appsDir overrides the repository root from the settings file.
	appsDir string

	// signingKey overrides the signify secret key from the settings file.
	signingKey string

	// workers overrides the package concurrency limit.
	workers int

	// logLevel sets the minimum level for log output.
	logLevel string

	// rootCmd represents the base command for generating repository metadata.
	rootCmd = &cobra.Command{
		Use:   "repo-generator",
		Short: "Generate signed repository metadata from the packages tree",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &generator.Options{
				ConfigPath: configPath,
				AppsDir:    appsDir,
				SigningKey: signingKey,
				Workers:    workers,
				LogLevel:   logLevel,
			}

			return generator.Run(ctx, options)
		},
	}
)

// Execute runs the repo-generator CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&appsDir, "apps-dir", "a", "", "repository root containing the packages tree")
	rootCmd.Flags().StringVarP(&signingKey, "signing-key", "k", "", "path to the signify secret key")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of packages processed concurrently")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "minimum log level (debug, info, warn, error)")
}
