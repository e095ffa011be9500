package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FlightfulOS/apps-repository/internal/logger"
	"github.com/FlightfulOS/apps-repository/internal/metadata"
)

const (
	// primaryArtifactName is the mandatory base APK of every version.
	primaryArtifactName = "base.apk"

	// apkSuffix selects artifact files within a version directory.
	apkSuffix = ".apk"

	// Pre-compressed companion suffixes produced ahead of time by the
	// compression step.
	gzSuffix = ".gz"
	brSuffix = ".br"
)

// buildVariant produces one validated variant from a version directory.
// Every check here is fatal: a variant either passes all signature,
// badging and compression consistency rules or the whole run aborts.
func (g *generator) buildVariant(
	ctx context.Context,
	pkgName, dir string,
	versionCode int64,
	pkg *metadata.Package,
) (*metadata.Variant, error) {
	primaryPath := filepath.Join(dir, primaryArtifactName)
	if _, err := os.Stat(primaryPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingPrimaryArtifactError{Dir: dir}
		}

		return nil, fmt.Errorf("stat primary artifact: %w", err)
	}

	primarySignature, err := g.tool.Signature(ctx, primaryPath)
	if err != nil {
		return nil, err
	}

	if !pkg.TrustsSignature(primarySignature) {
		return nil, &UntrustedSignatureError{Path: primaryPath, Digest: primarySignature}
	}

	badging, err := g.tool.Badging(ctx, primaryPath)
	if err != nil {
		return nil, err
	}

	if badging.PackageName != pkgName {
		return nil, &PackageNameMismatchError{
			Path:     primaryPath,
			Declared: badging.PackageName,
			Expected: pkgName,
		}
	}

	if badging.VersionCode != 0 && badging.VersionCode != versionCode {
		return nil, &VersionCodeMismatchError{
			Path:     primaryPath,
			Declared: badging.VersionCode,
			Expected: versionCode,
		}
	}

	variant := &metadata.Variant{
		VersionCode: versionCode,
		VersionName: badging.VersionName,
		Label:       badging.Label,
		MinSDK:      badging.MinSDK,
		ABIs:        badging.ABIs,
	}

	// The minimum platform version must come from the APK itself;
	// an override cannot substitute for it.
	if variant.MinSDK == 0 {
		return nil, &MissingFieldError{Path: primaryPath, Field: "sdkVersion"}
	}

	props, err := loadProps(dir, versionPropsName)
	if err != nil {
		return nil, err
	}

	channel, err := applyOverrides(variant, props)
	if err != nil {
		return nil, err
	}

	if channel == "" {
		return nil, &MissingFieldError{
			Path:  filepath.Join(dir, versionPropsName+propsExtension),
			Field: "channel",
		}
	}

	variant.Channel, err = metadata.ParseChannel(channel)
	if err != nil {
		return nil, err
	}

	logVariantSummary(ctx, variant)

	if err := g.collectArtifacts(ctx, variant, pkgName, dir, primarySignature); err != nil {
		return nil, err
	}

	return variant, nil
}

// collectArtifacts walks every APK of the version directory in sorted name
// order, checks its compressed companions are in sync, obtains its content
// digest through the cache and appends the resulting artifact entries.
func (g *generator) collectArtifacts(
	ctx context.Context,
	variant *metadata.Variant,
	pkgName, dir, primarySignature string,
) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read version directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), apkSuffix) {
			continue
		}

		apkPath := filepath.Join(dir, entry.Name())

		apkInfo, err := os.Stat(apkPath)
		if err != nil {
			return fmt.Errorf("stat artifact: %w", err)
		}

		gzSize, err := companionSize(apkPath, apkPath+gzSuffix, apkInfo.ModTime())
		if err != nil {
			return err
		}

		brSize, err := companionSize(apkPath, apkPath+brSuffix, apkInfo.ModTime())
		if err != nil {
			return err
		}

		// First-contact validation rides on the cache-miss path: once a
		// sidecar digest exists, the artifact is treated as immutable and
		// the cross-checks are skipped on later runs.
		digest, err := g.cache.Digest(ctx, apkPath, func(ctx context.Context) error {
			logger.Infof(ctx, "processing %s", apkPath)

			return g.validateArtifact(ctx, apkPath, pkgName, primarySignature, variant.VersionCode)
		})
		if err != nil {
			return err
		}

		variant.Artifacts = append(variant.Artifacts, metadata.ArtifactEntry{
			Name:   entry.Name(),
			SHA256: digest,
			Size:   apkInfo.Size(),
			GzSize: gzSize,
			BrSize: brSize,
		})
	}

	return nil
}

// validateArtifact enforces the cross-artifact consistency rules before an
// APK is first trusted into the manifest: its signature must equal the
// primary's, and its declared identity must match the variant.
func (g *generator) validateArtifact(
	ctx context.Context,
	apkPath, pkgName, primarySignature string,
	versionCode int64,
) error {
	signature, err := g.tool.Signature(ctx, apkPath)
	if err != nil {
		return err
	}

	// All APK splits must share the primary artifact's signature.
	if signature != primarySignature {
		return &SignatureMismatchError{
			Path:    apkPath,
			Digest:  signature,
			Primary: primarySignature,
		}
	}

	badging, err := g.tool.Badging(ctx, apkPath)
	if err != nil {
		return err
	}

	if badging.PackageName != pkgName {
		return &PackageNameMismatchError{
			Path:     apkPath,
			Declared: badging.PackageName,
			Expected: pkgName,
		}
	}

	// All APK splits must share the variant's version code.
	if badging.VersionCode != versionCode {
		return &VersionCodeMismatchError{
			Path:     apkPath,
			Declared: badging.VersionCode,
			Expected: versionCode,
		}
	}

	return nil
}

// companionSize checks a pre-compressed companion exists and was produced
// from the current APK, then returns its size.
func companionSize(apkPath, companionPath string, apkModTime time.Time) (int64, error) {
	info, err := os.Stat(companionPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, &StaleCompressionError{Artifact: apkPath, Companion: companionPath}
		}

		return 0, fmt.Errorf("stat compressed companion: %w", err)
	}

	if !info.ModTime().Equal(apkModTime) {
		return 0, &StaleCompressionError{Artifact: apkPath, Companion: companionPath}
	}

	return info.Size(), nil
}

// logVariantSummary mirrors the per-version progress output operators rely on.
func logVariantSummary(ctx context.Context, variant *metadata.Variant) {
	var summary strings.Builder

	fmt.Fprintf(&summary, "channel: %s, minSdk: %d", variant.Channel, variant.MinSDK)

	if variant.MaxSDK != 0 {
		fmt.Fprintf(&summary, ", maxSdk: %d", variant.MaxSDK)
	}

	if variant.ABIs != nil {
		fmt.Fprintf(&summary, "\nabis: %s", strings.Join(variant.ABIs, ", "))
	}

	if variant.StaticDeps != nil {
		fmt.Fprintf(&summary, "\nstaticDeps: %s", strings.Join(variant.StaticDeps, ", "))
	}

	if variant.Deps != nil {
		fmt.Fprintf(&summary, "\ndeps: %s", strings.Join(variant.Deps, ", "))
	}

	logger.Info(ctx, summary.String())
}
