package generator

import "fmt"

// MissingPrimaryArtifactError reports a version directory without a base APK.
type MissingPrimaryArtifactError struct {
	// Dir is the version directory missing its primary artifact.
	Dir string
}

func (e *MissingPrimaryArtifactError) Error() string {
	return fmt.Sprintf("no base.apk in %s", e.Dir)
}

// UntrustedSignatureError reports a primary artifact whose signing
// certificate digest is not in the package's trusted signature set.
type UntrustedSignatureError struct {
	// Path is the offending APK.
	Path string
	// Digest is the untrusted certificate digest.
	Digest string
}

func (e *UntrustedSignatureError) Error() string {
	return fmt.Sprintf("unknown signature of %s, SHA-256: %s", e.Path, e.Digest)
}

// SignatureMismatchError reports a split APK signed by a different identity
// than the variant's primary artifact.
type SignatureMismatchError struct {
	// Path is the offending split APK.
	Path string
	// Digest is the split's certificate digest.
	Digest string
	// Primary is the primary artifact's certificate digest.
	Primary string
}

func (e *SignatureMismatchError) Error() string {
	return fmt.Sprintf("signature mismatch, apk: %s", e.Path)
}

// MissingFieldError reports an absent mandatory metadata field.
type MissingFieldError struct {
	// Path is the file the field was expected in.
	Path string
	// Field is the missing field name.
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is missing mandatory field %q", e.Path, e.Field)
}

// VersionCodeMismatchError reports an APK whose declared version code
// differs from the variant's.
type VersionCodeMismatchError struct {
	// Path is the offending APK.
	Path string
	// Declared is the version code from the APK badging, zero when absent.
	Declared int64
	// Expected is the variant's version code.
	Expected int64
}

func (e *VersionCodeMismatchError) Error() string {
	return fmt.Sprintf("version code mismatch in %s: declared %d, expected %d", e.Path, e.Declared, e.Expected)
}

// PackageNameMismatchError reports an APK declaring a different application
// ID than the package directory it lives in.
type PackageNameMismatchError struct {
	// Path is the offending APK.
	Path string
	// Declared is the application ID from the APK badging.
	Declared string
	// Expected is the package directory name.
	Expected string
}

func (e *PackageNameMismatchError) Error() string {
	return fmt.Sprintf("package name mismatch in %s: declared %q, expected %q", e.Path, e.Declared, e.Expected)
}

// StaleCompressionError reports a pre-compressed companion whose
// modification time doesn't match its source APK, meaning the external
// compression step hasn't run since the APK changed.
type StaleCompressionError struct {
	// Artifact is the source APK.
	Artifact string
	// Companion is the out-of-sync compressed file.
	Companion string
}

func (e *StaleCompressionError) Error() string {
	return fmt.Sprintf("stale compressed companion %s for %s", e.Companion, e.Artifact)
}
