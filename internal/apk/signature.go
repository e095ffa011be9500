package apk

import (
	"context"
	"regexp"
	"strings"
)

// signerLinePattern matches the certificate digest lines printed by apksigner.
var signerLinePattern = regexp.MustCompile(`^Signer #[0-9]+ certificate SHA-256 digest: ([0-9a-fA-F]+)\s*$`)

// Signature extracts the signing certificate digest of the APK at path.
// An APK with no signer fails with MissingSignatureError; an APK with more
// than one signer fails with MultiSignerError, because a multi-signer APK
// cannot be matched unambiguously against a trusted signature set.
func (t *Tool) Signature(ctx context.Context, path string) (string, error) {
	output, err := t.run(ctx, t.apksigner, "verify", "--print-certs", "--verbose", path)
	if err != nil {
		return "", err
	}

	return parseSignature(path, output)
}

// parseSignature scans apksigner certificate listing output for exactly one
// signer digest and returns it in lowercase hex.
func parseSignature(path string, output []byte) (string, error) {
	var digest string

	for _, line := range strings.Split(string(output), "\n") {
		match := signerLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		if digest != "" {
			return "", &MultiSignerError{Path: path}
		}

		digest = strings.ToLower(match[1])
	}

	if digest == "" {
		return "", &MissingSignatureError{Path: path}
	}

	return digest, nil
}
