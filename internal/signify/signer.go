// Package signify wraps the signify signing tool. The generator uses it to
// produce a detached signature over the canonical manifest and to recover the
// signature payload line appended to the .sjson output.
package signify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// signatureLineCount is the expected layout of a signify signature file:
// a comment line followed by the base64 signature payload.
const signatureLineCount = 2

// errMalformedSignature is returned when the signature file doesn't have the
// expected comment-plus-payload layout.
var errMalformedSignature = errors.New("malformed signature file")

// Signer signs documents with a signify secret key.
type Signer struct {
	// signify is the signify executable path.
	signify string
	// key is the secret key path passed to signify.
	key string
}

// NewSigner creates a Signer using the provided executable and key paths.
func NewSigner(signifyPath, keyPath string) *Signer {
	return &Signer{
		signify: signifyPath,
		key:     keyPath,
	}
}

// Sign produces a detached signature file over messagePath at sigPath and
// returns the signature payload, the second line of the signature file.
func (s *Signer) Sign(ctx context.Context, messagePath, sigPath string) (string, error) {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, s.signify, "-S", "-s", s.key, "-m", messagePath, "-x", sigPath)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("signify exited with status %d: %s",
				exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}

		return "", fmt.Errorf("run signify: %w", err)
	}

	contents, err := os.ReadFile(sigPath)
	if err != nil {
		return "", fmt.Errorf("read signature file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(contents), "\n"), "\n")
	if len(lines) < signatureLineCount {
		return "", fmt.Errorf("%w: %s", errMalformedSignature, sigPath)
	}

	return lines[1], nil
}
