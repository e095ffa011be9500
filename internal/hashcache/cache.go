package hashcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/singleflight"
)

const (
	// Suffix is the sidecar file extension holding a precomputed digest.
	Suffix = ".sha256"

	// sidecarPermissions is the file mode for newly written sidecars.
	sidecarPermissions = 0o644
)

// Cache memoizes APK content digests in sidecar files next to the artifacts.
// A sidecar, once written, is trusted unconditionally: artifacts are
// immutable after publication, so a cached digest is never recomputed or
// revalidated.
type Cache struct {
	// group collapses concurrent digest requests for the same path so the
	// read-or-compute-then-persist sequence runs at most once per artifact.
	group singleflight.Group
}

// New creates an empty cache.
func New() *Cache {
	return new(Cache)
}

// Digest returns the SHA-256 hex digest of the artifact at path. When a
// sidecar exists its contents are returned without reading the artifact.
// Otherwise onCompute, if non-nil, runs first — the variant builder hooks
// first-contact signature and version-code validation here — then the
// artifact is streamed through SHA-256 and the digest persisted.
func (c *Cache) Digest(ctx context.Context, path string, onCompute func(context.Context) error) (string, error) {
	digest, err, _ := c.group.Do(path, func() (any, error) {
		sidecar := path + Suffix

		contents, err := os.ReadFile(sidecar)
		if err == nil {
			return strings.TrimSpace(string(contents)), nil
		}

		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read digest sidecar %s: %w", sidecar, err)
		}

		if onCompute != nil {
			if err := onCompute(ctx); err != nil {
				return nil, err
			}
		}

		computed, err := hashFile(path)
		if err != nil {
			return nil, err
		}

		if err := os.WriteFile(sidecar, []byte(computed), sidecarPermissions); err != nil {
			return nil, fmt.Errorf("write digest sidecar %s: %w", sidecar, err)
		}

		return computed, nil
	})
	if err != nil {
		return "", err
	}

	return digest.(string), nil
}

// hashFile streams the file's full contents through SHA-256.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}

	// Best-effort cleanup.
	defer func() {
		_ = f.Close()
	}()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("hash artifact %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
