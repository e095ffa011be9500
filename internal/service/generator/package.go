package generator

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/FlightfulOS/apps-repository/internal/logger"
	"github.com/FlightfulOS/apps-repository/internal/metadata"
)

const (
	// packagesDirName is the subdirectory of the repository root holding
	// one directory per package.
	packagesDirName = "packages"

	// iconFilename marks a package as shipping a webp icon.
	iconFilename = "icon.webp"
)

// buildPackages aggregates every package directory into its manifest record.
// Packages are independent, so they are processed by a bounded worker pool;
// any failure cancels the remaining work and aborts the run.
func (g *generator) buildPackages(ctx context.Context) (map[string]*metadata.Package, error) {
	packagesDir := filepath.Join(g.cfg.AppsDir, packagesDirName)

	entries, err := os.ReadDir(packagesDir)
	if err != nil {
		return nil, fmt.Errorf("read packages directory: %w", err)
	}

	var names []string

	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	results := make([]*metadata.Package, len(names))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)

	for i, name := range names {
		i, name := i, name
		eg.Go(func() error {
			pkg, err := g.buildPackage(ctx, filepath.Join(packagesDir, name), name)
			if err != nil {
				return fmt.Errorf("package %s: %w", name, err)
			}

			results[i] = pkg

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	packages := make(map[string]*metadata.Package, len(names))
	for i, name := range names {
		packages[name] = results[i]
	}

	return packages, nil
}

// buildPackage loads a package's common properties and processes its version
// directories in ascending numeric order. Variants on the old channel are
// validated like any other but withheld from the emitted variant mapping.
func (g *generator) buildPackage(ctx context.Context, dir, name string) (*metadata.Package, error) {
	props, err := loadProps(dir, commonPropsName)
	if err != nil {
		return nil, err
	}

	signatures, err := signaturesFromProps(dir, props)
	if err != nil {
		return nil, err
	}

	pkg := &metadata.Package{
		Signatures: signatures,
		Extra:      props,
		Variants:   make(map[string]*metadata.Variant),
	}

	if _, err := os.Stat(filepath.Join(dir, iconFilename)); err == nil {
		pkg.IconType = "webp"
	}

	versions, err := versionDirs(dir)
	if err != nil {
		return nil, err
	}

	for _, version := range versions {
		logger.Infof(ctx, "processing %s/%s", name, version.name)

		variant, err := g.buildVariant(ctx, name, filepath.Join(dir, version.name), version.code, pkg)
		if err != nil {
			return nil, err
		}

		// Old-channel variants stay on disk for in-flight downloads but are
		// never advertised as current.
		if !variant.Channel.Published() {
			continue
		}

		pkg.Variants[version.name] = variant
	}

	return pkg, nil
}

// versionDir pairs a version directory name with its parsed version code.
type versionDir struct {
	name string
	code int64
}

// versionDirs lists the version subdirectories of a package in ascending
// version-code order. Every subdirectory name must be a base-10 integer.
func versionDirs(dir string) ([]versionDir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read package directory: %w", err)
	}

	var versions []versionDir

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		code, err := strconv.ParseInt(entry.Name(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("version directory %s is not a version code: %w",
				filepath.Join(dir, entry.Name()), err)
		}

		versions = append(versions, versionDir{name: entry.Name(), code: code})
	}

	slices.SortFunc(versions, func(a, b versionDir) int {
		return cmp.Compare(a.code, b.code)
	})

	return versions, nil
}
