package hashcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDigestComputesAndPersists hashes an artifact on first contact and
// writes the sidecar.
func TestDigestComputesAndPersists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "base.apk")
	contents := []byte("apk contents")

	require.NoError(t, os.WriteFile(path, contents, 0o644))

	sum := sha256.Sum256(contents)
	want := hex.EncodeToString(sum[:])

	var hookCalls atomic.Int32

	cache := New()

	digest, err := cache.Digest(context.Background(), path, func(context.Context) error {
		hookCalls.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, want, digest)
	require.Equal(t, int32(1), hookCalls.Load())

	sidecar, err := os.ReadFile(path + Suffix)
	require.NoError(t, err)
	require.Equal(t, want, string(sidecar))
}

// TestDigestTrustsSidecar returns the sidecar value regardless of the
// artifact's actual content and never invokes the validation hook.
func TestDigestTrustsSidecar(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "base.apk")

	require.NoError(t, os.WriteFile(path, []byte("changed after publication"), 0o644))
	require.NoError(t, os.WriteFile(path+Suffix, []byte("cafe"), 0o644))

	cache := New()

	digest, err := cache.Digest(context.Background(), path, func(context.Context) error {
		t.Fatal("validation hook must not run on a sidecar hit")
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "cafe", digest)
}

// TestDigestHookFailureAborts propagates hook errors and writes no sidecar.
func TestDigestHookFailureAborts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "base.apk")

	require.NoError(t, os.WriteFile(path, []byte("apk"), 0o644))

	wantErr := errors.New("signature mismatch")
	cache := New()

	_, err := cache.Digest(context.Background(), path, func(context.Context) error {
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	_, err = os.Stat(path + Suffix)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestDigestConcurrentSinglePath lets many goroutines race on one artifact
// and expects at most one computation.
func TestDigestConcurrentSinglePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "base.apk")

	require.NoError(t, os.WriteFile(path, []byte("apk"), 0o644))

	var (
		hookCalls atomic.Int32
		wg        sync.WaitGroup
	)

	cache := New()

	const goroutines = 16

	digests := make([]string, goroutines)

	for i := 0; i < goroutines; i++ {
		i := i
		wg.Add(1)

		go func() {
			defer wg.Done()

			digest, err := cache.Digest(context.Background(), path, func(context.Context) error {
				hookCalls.Add(1)
				return nil
			})
			require.NoError(t, err)

			digests[i] = digest
		}()
	}

	wg.Wait()

	require.Equal(t, int32(1), hookCalls.Load())

	for _, digest := range digests {
		require.Equal(t, digests[0], digest)
	}
}
