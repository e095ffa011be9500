package metadata

import "encoding/json"

// ArtifactEntry records one APK file of a variant together with its content
// digest and sizes. A variant holds one ordered slice of entries; the wire
// format's parallel arrays are projections of it, so they cannot drift out of
// index alignment.
type ArtifactEntry struct {
	// Name is the APK file name within the version directory.
	Name string
	// SHA256 is the lowercase hex content digest of the APK.
	SHA256 string
	// Size is the raw APK size in bytes.
	Size int64
	// GzSize is the size of the pre-compressed gzip companion.
	GzSize int64
	// BrSize is the size of the pre-compressed brotli companion.
	BrSize int64
}

// Variant is the full validated record for one package version.
type Variant struct {
	// VersionCode is the integer version identifier, equal to the version
	// directory name.
	VersionCode int64
	// VersionName is the human-readable version from the primary APK badging.
	VersionName string
	// Label is the application display label, when the badging declares one.
	Label string
	// MinSDK is the minimum supported platform version. Mandatory.
	MinSDK int64
	// MaxSDK is the maximum supported platform version, zero when unset.
	MaxSDK int64
	// Channel is the release track this variant is published on.
	Channel Channel
	// ABIs lists the native-code architecture, at most one entry.
	ABIs []string
	// StaticDeps lists statically pinned dependency packages.
	StaticDeps []string
	// Deps lists dynamically resolved dependency packages.
	Deps []string
	// Artifacts holds the base APK and its splits in sorted name order.
	Artifacts []ArtifactEntry
	// Extra carries override keys outside the typed schema, emitted verbatim.
	Extra map[string]any
}

// MarshalJSON emits the variant in the wire format consumed by clients:
// typed fields plus parallel apks/apkHashes/apkSizes/apkGzSizes/apkBrSizes
// arrays derived from Artifacts. Map-based marshaling keeps key order
// canonical (lexicographic).
func (v *Variant) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(v.Extra)+16)

	for key, value := range v.Extra {
		doc[key] = value
	}

	apks := make([]string, len(v.Artifacts))
	hashes := make([]string, len(v.Artifacts))
	sizes := make([]int64, len(v.Artifacts))
	gzSizes := make([]int64, len(v.Artifacts))
	brSizes := make([]int64, len(v.Artifacts))

	for i, a := range v.Artifacts {
		apks[i] = a.Name
		hashes[i] = a.SHA256
		sizes[i] = a.Size
		gzSizes[i] = a.GzSize
		brSizes[i] = a.BrSize
	}

	doc["versionCode"] = v.VersionCode
	doc["versionName"] = v.VersionName
	doc["minSdk"] = v.MinSDK
	doc["channel"] = v.Channel
	doc["apks"] = apks
	doc["apkHashes"] = hashes
	doc["apkSizes"] = sizes
	doc["apkGzSizes"] = gzSizes
	doc["apkBrSizes"] = brSizes

	if v.Label != "" {
		doc["label"] = v.Label
	}

	if v.MaxSDK != 0 {
		doc["maxSdk"] = v.MaxSDK
	}

	if v.ABIs != nil {
		doc["abis"] = v.ABIs
	}

	if v.StaticDeps != nil {
		doc["staticDeps"] = v.StaticDeps
	}

	if v.Deps != nil {
		doc["deps"] = v.Deps
	}

	return json.Marshal(doc)
}
