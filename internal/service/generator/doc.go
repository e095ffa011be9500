// Package generator implements the repository metadata pipeline: it scans
// the packages tree, validates that every APK of a version shares one
// trusted signing identity and consistent badging metadata, aggregates
// per-version variants into per-package histories with channel-aware
// retention, and emits the signed metadata.1 manifest files.
//
// Validation is fail-fast: the first inconsistency aborts the run and no
// manifest is written, so every published manifest is fully validated.
package generator
