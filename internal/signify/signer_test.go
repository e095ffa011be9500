package signify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubSignify writes a fake signify executable producing a two-line
// signature file at the -x argument.
func stubSignify(t *testing.T, payload string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "signify")
	script := "#!/bin/sh\n" +
		"# args: -S -s <key> -m <message> -x <sig>\n" +
		"printf 'untrusted comment: verify with apps.0.pub\\n" + payload + "\\n' > \"$7\"\n"

	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return path
}

// TestSignReturnsPayloadLine signs a document and expects the second line of
// the signature file back.
func TestSignReturnsPayloadLine(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	message := filepath.Join(dir, "metadata.1.json")
	sig := message + ".0.sig"

	require.NoError(t, os.WriteFile(message, []byte(`{"time":0}`), 0o644))

	signer := NewSigner(stubSignify(t, "SIGDATA"), filepath.Join(dir, "apps.0.sec"))

	payload, err := signer.Sign(context.Background(), message, sig)
	require.NoError(t, err)
	require.Equal(t, "SIGDATA", payload)

	// The detached signature file stays on disk.
	contents, err := os.ReadFile(sig)
	require.NoError(t, err)
	require.Equal(t, "untrusted comment: verify with apps.0.pub\nSIGDATA\n", string(contents))
}

// TestSignInvocationArguments pins the flag layout passed to the tool: the
// signature path must follow -x, after the key and message pairs.
func TestSignInvocationArguments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tool := filepath.Join(dir, "signify")
	argsFile := filepath.Join(dir, "args")
	message := filepath.Join(dir, "metadata.1.json")
	sig := message + ".0.sig"
	key := filepath.Join(dir, "apps.0.sec")

	script := "#!/bin/sh\n" +
		"printf '%s\\n' \"$@\" > \"" + argsFile + "\"\n" +
		"printf 'untrusted comment: verify with apps.0.pub\\nSIGDATA\\n' > \"$7\"\n"
	require.NoError(t, os.WriteFile(tool, []byte(script), 0o755))
	require.NoError(t, os.WriteFile(message, []byte(`{"time":0}`), 0o644))

	_, err := NewSigner(tool, key).Sign(context.Background(), message, sig)
	require.NoError(t, err)

	recorded, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t,
		[]string{"-S", "-s", key, "-m", message, "-x", sig},
		strings.Split(strings.TrimSuffix(string(recorded), "\n"), "\n"))
}

// TestSignToolFailure surfaces a failing signify invocation.
func TestSignToolFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tool := filepath.Join(dir, "signify")

	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\necho 'no such key' >&2\nexit 1\n"), 0o755))

	signer := NewSigner(tool, filepath.Join(dir, "missing.sec"))

	_, err := signer.Sign(context.Background(), filepath.Join(dir, "m"), filepath.Join(dir, "m.sig"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no such key")
}

// TestSignMalformedSignatureFile rejects a signature file without a payload line.
func TestSignMalformedSignatureFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tool := filepath.Join(dir, "signify")

	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\nprintf 'only one line\\n' > \"$7\"\n"), 0o755))

	signer := NewSigner(tool, filepath.Join(dir, "apps.0.sec"))

	_, err := signer.Sign(context.Background(), filepath.Join(dir, "m"), filepath.Join(dir, "m.sig"))
	require.ErrorIs(t, err, errMalformedSignature)
}
