// Package hashcache computes and memoizes APK content digests. Each artifact
// gets a .sha256 sidecar written next to it on first contact; subsequent runs
// trust the sidecar and skip re-hashing, which keeps repeated repository
// scans cheap. The first computation doubles as the gating step before an
// artifact is trusted into the manifest, so callers can hook validation into
// the cache-miss path.
package hashcache
