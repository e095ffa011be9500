// Package apk wraps the external Android tooling consumed by the generator:
// apksigner for signing certificate extraction and aapt2 for badging
// metadata. Both are invoked as opaque subprocesses; only their textual
// output contracts are interpreted here.
package apk
