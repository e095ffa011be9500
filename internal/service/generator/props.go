package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/FlightfulOS/apps-repository/internal/metadata"
)

const (
	// commonPropsName is the package-level property file (without extension).
	commonPropsName = "common-props"
	// versionPropsName is the version-level override file (without extension).
	versionPropsName = "props"
	// propsExtension is the property file format extension.
	propsExtension = ".toml"
)

// loadProps reads <dir>/<name>.toml into a key/value map.
// A missing file yields an empty map.
func loadProps(dir, name string) (map[string]any, error) {
	path := filepath.Join(dir, name+propsExtension)

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]any{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read props: %w", err)
	}

	props := make(map[string]any)
	if err := toml.Unmarshal(contents, &props); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return props, nil
}

// applyOverrides layers version-level property overrides on top of the
// fields extracted from the primary APK. A present override key wins over
// the extracted value; keys outside the typed schema land in Extra and are
// emitted verbatim. The channel value is returned raw for validation by the
// caller.
func applyOverrides(variant *metadata.Variant, props map[string]any) (string, error) {
	var channel string

	for key, value := range props {
		var err error

		switch key {
		case "channel":
			channel, err = stringValue(key, value)
		case "versionName":
			variant.VersionName, err = stringValue(key, value)
		case "label":
			variant.Label, err = stringValue(key, value)
		case "minSdk":
			variant.MinSDK, err = intValue(key, value)
		case "maxSdk":
			variant.MaxSDK, err = intValue(key, value)
		case "abis":
			variant.ABIs, err = stringSliceValue(key, value)
		case "staticDeps":
			variant.StaticDeps, err = stringSliceValue(key, value)
		case "deps":
			variant.Deps, err = stringSliceValue(key, value)
		default:
			if variant.Extra == nil {
				variant.Extra = make(map[string]any)
			}

			variant.Extra[key] = value
		}

		if err != nil {
			return "", err
		}
	}

	return channel, nil
}

// signaturesFromProps extracts and normalizes the trusted signature set from
// a package's common properties, removing the key from the map.
func signaturesFromProps(dir string, props map[string]any) ([]string, error) {
	raw, ok := props["signatures"]
	if !ok {
		return nil, &MissingFieldError{
			Path:  filepath.Join(dir, commonPropsName+propsExtension),
			Field: "signatures",
		}
	}

	delete(props, "signatures")

	signatures, err := stringSliceValue("signatures", raw)
	if err != nil {
		return nil, err
	}

	for i, s := range signatures {
		signatures[i] = strings.ToLower(s)
	}

	return signatures, nil
}

// stringValue coerces a TOML property value to a string.
func stringValue(key string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("property %q: expected string, got %T", key, value)
	}

	return s, nil
}

// intValue coerces a TOML property value to an integer.
func intValue(key string, value any) (int64, error) {
	n, ok := value.(int64)
	if !ok {
		return 0, fmt.Errorf("property %q: expected integer, got %T", key, value)
	}

	return n, nil
}

// stringSliceValue coerces a TOML array property value to a string slice.
func stringSliceValue(key string, value any) ([]string, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("property %q: expected array of strings, got %T", key, value)
	}

	result := make([]string, len(items))

	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("property %q: expected array of strings, got %T element", key, item)
		}

		result[i] = s
	}

	return result, nil
}
