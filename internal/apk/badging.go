package apk

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Badging holds the structured metadata dumped from an APK by aapt2.
type Badging struct {
	// PackageName is the declared application ID.
	PackageName string
	// VersionCode is the declared integer version, zero when absent.
	VersionCode int64
	// VersionName is the declared human-readable version.
	VersionName string
	// Label is the application display label, empty when not declared.
	Label string
	// MinSDK is the declared minimum platform version, zero when absent.
	MinSDK int64
	// ABIs holds the declared native-code architecture. At most one entry;
	// multi-ABI artifacts are rejected during parsing.
	ABIs []string
}

// supportedABIs is the fixed set of architectures the repository serves.
var supportedABIs = map[string]struct{}{
	"arm64-v8a":   {},
	"x86_64":      {},
	"armeabi-v7a": {},
	"x86":         {},
}

// errUnsupportedABI is returned for native-code declarations outside supportedABIs.
var errUnsupportedABI = errors.New("unsupported native-code abi")

// Badging dumps and parses the badging metadata of the APK at path.
func (t *Tool) Badging(ctx context.Context, path string) (*Badging, error) {
	output, err := t.run(ctx, t.aapt2, "dump", "badging", path)
	if err != nil {
		return nil, err
	}

	return parseBadging(path, output)
}

// parseBadging interprets aapt2 badging output as shell-token lines.
// The first line carries package name and version fields, subsequent lines
// carry label, minimum platform version and native-code declarations.
func parseBadging(path string, output []byte) (*Badging, error) {
	lines := strings.Split(string(output), "\n")

	badging := new(Badging)
	if err := parseBadgingHeader(badging, lines[0]); err != nil {
		return nil, fmt.Errorf("parse badging of %s: %w", path, err)
	}

	for _, line := range lines[1:] {
		if err := parseBadgingLine(badging, path, line); err != nil {
			return nil, err
		}
	}

	return badging, nil
}

// parseBadgingHeader extracts key=value fields from the first badging line.
func parseBadgingHeader(badging *Badging, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return err
	}

	for _, token := range tokens {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}

		switch key {
		case "name":
			badging.PackageName = value
		case "versionName":
			badging.VersionName = value
		case "versionCode":
			code, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("version code %q: %w", value, err)
			}

			badging.VersionCode = code
		}
	}

	return nil
}

// parseBadgingLine extracts zero or one field from a non-header badging line.
func parseBadgingLine(badging *Badging, path, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse badging of %s: %w", path, err)
	}

	if len(tokens) == 0 {
		return nil
	}

	first := tokens[0]

	switch {
	case strings.HasPrefix(first, "application-label:"):
		badging.Label = strings.SplitN(first, ":", 2)[1]
	case strings.HasPrefix(first, "sdkVersion:"):
		value := strings.SplitN(first, ":", 2)[1]

		minSDK, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("minimum sdk version %q in %s: %w", value, path, err)
		}

		badging.MinSDK = minSDK
	case strings.HasPrefix(first, "native-code"):
		// Single-ABI artifacts only: a second declaration, or several ABIs
		// on one line, cannot be represented and must not be guessed at.
		if badging.ABIs != nil || len(tokens) > 2 {
			return &MultipleArchitectureError{Path: path}
		}

		if len(tokens) < 2 {
			return nil
		}

		abi := tokens[1]
		if _, ok := supportedABIs[abi]; !ok {
			return fmt.Errorf("%w: %q in %s", errUnsupportedABI, abi, path)
		}

		badging.ABIs = []string{abi}
	}

	return nil
}
