package apk

import "fmt"

// MissingSignatureError reports an APK whose certificate listing contains no
// signer digest.
type MissingSignatureError struct {
	// Path is the APK the signature was expected in.
	Path string
}

func (e *MissingSignatureError) Error() string {
	return fmt.Sprintf("didn't find signature of %s", e.Path)
}

// MultiSignerError reports an APK signed by more than one identity.
// Such APKs are intentionally unsupported.
type MultiSignerError struct {
	// Path is the APK with multiple signers.
	Path string
}

func (e *MultiSignerError) Error() string {
	return fmt.Sprintf("%s has more than one signer", e.Path)
}

// MultipleArchitectureError reports an APK declaring more than one
// native-code architecture.
type MultipleArchitectureError struct {
	// Path is the APK with multiple architecture declarations.
	Path string
}

func (e *MultipleArchitectureError) Error() string {
	return fmt.Sprintf("%s declares more than one native-code architecture", e.Path)
}
