package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FlightfulOS/apps-repository/internal/logger"
	"github.com/FlightfulOS/apps-repository/internal/metadata"
)

const (
	// manifestPrefix is the basename shared by the emitted metadata files.
	manifestPrefix = "metadata.1"

	// signatureSuffix is appended to the canonical manifest name for the
	// detached signature file.
	signatureSuffix = ".0.sig"

	// outputPermissions is the file mode for emitted metadata files.
	outputPermissions = 0o644
)

// writeManifest serializes the manifest canonically, signs it and emits the
// three output files: the canonical JSON, the detached signature, and the
// .sjson copy with the signature payload appended as a trailing line.
func (g *generator) writeManifest(ctx context.Context, manifest *metadata.Manifest) error {
	canonical, err := manifest.Canonical()
	if err != nil {
		return fmt.Errorf("serialize manifest: %w", err)
	}

	jsonPath := filepath.Join(g.cfg.AppsDir, manifestPrefix+".json")
	sigPath := jsonPath + signatureSuffix
	sjsonPath := filepath.Join(g.cfg.AppsDir, manifestPrefix+".sjson")

	if err := os.WriteFile(jsonPath, canonical, outputPermissions); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	payload, err := g.signer.Sign(ctx, jsonPath, sigPath)
	if err != nil {
		return fmt.Errorf("sign manifest: %w", err)
	}

	// The .sjson form keeps the canonical bytes untouched so clients can
	// strip the trailing signature line and parse the rest as-is.
	signed := make([]byte, 0, len(canonical)+len(payload)+2)
	signed = append(signed, canonical...)
	signed = append(signed, '\n')
	signed = append(signed, payload...)
	signed = append(signed, '\n')

	if err := os.WriteFile(sjsonPath, signed, outputPermissions); err != nil {
		return fmt.Errorf("write signed manifest: %w", err)
	}

	logger.InfoKV(ctx, "Emitted repository metadata",
		"manifest", jsonPath,
		"signature", sigPath,
		"signed_manifest", sjsonPath,
		"packages", len(manifest.Packages))

	return nil
}
