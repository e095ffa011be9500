package metadata

import (
	"encoding/json"
	"slices"
)

// Package aggregates the common properties and the published variant history
// of one application package.
type Package struct {
	// Signatures is the set of trusted signing certificate digests
	// (lowercase hex). Every variant's signature must be a member.
	Signatures []string
	// IconType names the icon file format served for this package,
	// empty when the package ships no icon.
	IconType string
	// Extra carries additional common-props keys, emitted verbatim.
	Extra map[string]any
	// Variants maps the version directory name to its published variant.
	// Old-channel variants are validated but never present here.
	Variants map[string]*Variant
}

// TrustsSignature reports whether the digest is in the trusted signature set.
func (p *Package) TrustsSignature(digest string) bool {
	return slices.Contains(p.Signatures, digest)
}

// MarshalJSON emits the package's common properties merged with its variant
// mapping, keeping the trusted signature set and icon type alongside.
func (p *Package) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(p.Extra)+3)

	for key, value := range p.Extra {
		doc[key] = value
	}

	doc["signatures"] = p.Signatures
	doc["variants"] = p.Variants

	if p.IconType != "" {
		doc["iconType"] = p.IconType
	}

	return json.Marshal(doc)
}

// Manifest is the complete signed repository document: a generation timestamp
// plus every published package. It is rebuilt from scratch on each run.
type Manifest struct {
	// Time is the Unix timestamp taken at manifest build start.
	Time int64 `json:"time"`
	// Packages maps the package name to its record.
	Packages map[string]*Package `json:"packages"`
}

// Canonical serializes the manifest deterministically: compact output with
// lexicographically sorted keys, suitable as reproducible signing input.
func (m *Manifest) Canonical() ([]byte, error) {
	doc := map[string]any{
		"time":     m.Time,
		"packages": m.Packages,
	}

	return json.Marshal(doc)
}
