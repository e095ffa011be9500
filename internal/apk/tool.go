package apk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Tool invokes the Android SDK command line tools used for metadata
// extraction. Invocations are blocking; failures are never retried because
// they indicate malformed input, not transient conditions.
type Tool struct {
	// apksigner is the executable used for certificate extraction.
	apksigner string
	// aapt2 is the executable used for badging extraction.
	aapt2 string
}

// NewTool creates a Tool using the provided executable paths.
func NewTool(apksignerPath, aapt2Path string) *Tool {
	return &Tool{
		apksigner: apksignerPath,
		aapt2:     aapt2Path,
	}
}

// run executes the named tool and returns its stdout. A non-zero exit status
// is reported together with the captured stderr tail.
func (t *Tool) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s exited with status %d: %s",
				name, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}

		return nil, fmt.Errorf("run %s: %w", name, err)
	}

	return stdout.Bytes(), nil
}
