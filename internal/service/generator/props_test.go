package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FlightfulOS/apps-repository/internal/metadata"
)

// TestLoadPropsMissingFile yields an empty property set.
func TestLoadPropsMissingFile(t *testing.T) {
	t.Parallel()

	props, err := loadProps(t.TempDir(), versionPropsName)
	require.NoError(t, err)
	require.Empty(t, props)
}

// TestLoadProps parses TOML key/value pairs.
func TestLoadProps(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	contents := "channel = \"stable\"\nmaxSdk = 34\nabis = [\"arm64-v8a\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "props.toml"), []byte(contents), 0o644))

	props, err := loadProps(dir, versionPropsName)
	require.NoError(t, err)
	require.Equal(t, "stable", props["channel"])
	require.Equal(t, int64(34), props["maxSdk"])
}

// TestApplyOverrides routes typed keys into fields and the rest into Extra,
// with overrides winning over extracted values.
func TestApplyOverrides(t *testing.T) {
	t.Parallel()

	variant := &metadata.Variant{
		VersionCode: 7,
		VersionName: "extracted",
		MinSDK:      21,
	}

	channel, err := applyOverrides(variant, map[string]any{
		"channel":     "beta",
		"versionName": "overridden",
		"maxSdk":      int64(34),
		"deps":        []any{"org.example.lib"},
		"custom":      "value",
	})
	require.NoError(t, err)
	require.Equal(t, "beta", channel)
	require.Equal(t, "overridden", variant.VersionName)
	require.Equal(t, int64(34), variant.MaxSDK)
	require.Equal(t, []string{"org.example.lib"}, variant.Deps)
	require.Equal(t, "value", variant.Extra["custom"])

	// Untouched extracted fields survive.
	require.Equal(t, int64(21), variant.MinSDK)
}

// TestApplyOverridesBadTypes rejects values of the wrong shape.
func TestApplyOverridesBadTypes(t *testing.T) {
	t.Parallel()

	_, err := applyOverrides(new(metadata.Variant), map[string]any{"maxSdk": "not a number"})
	require.Error(t, err)

	_, err = applyOverrides(new(metadata.Variant), map[string]any{"deps": "not an array"})
	require.Error(t, err)
}

// TestSignaturesFromProps normalizes digests and requires the key.
func TestSignaturesFromProps(t *testing.T) {
	t.Parallel()

	props := map[string]any{
		"signatures": []any{"AB12", "cd34"},
		"other":      "kept",
	}

	signatures, err := signaturesFromProps("pkg", props)
	require.NoError(t, err)
	require.Equal(t, []string{"ab12", "cd34"}, signatures)

	// The signatures key is consumed, other common props remain.
	require.NotContains(t, props, "signatures")
	require.Contains(t, props, "other")

	_, err = signaturesFromProps("pkg", map[string]any{})
	require.Error(t, err)

	var missingField *MissingFieldError

	require.ErrorAs(t, err, &missingField)
	require.Equal(t, "signatures", missingField.Field)
}

// TestVersionDirs sorts numerically and rejects non-numeric directories.
func TestVersionDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"10", "2", "7"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
	}

	// Files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "common-props.toml"), []byte(""), 0o644))

	versions, err := versionDirs(dir)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	require.Equal(t, int64(2), versions[0].code)
	require.Equal(t, int64(7), versions[1].code)
	require.Equal(t, int64(10), versions[2].code)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "not-a-version"), 0o755))

	_, err = versionDirs(dir)
	require.Error(t, err)
}
