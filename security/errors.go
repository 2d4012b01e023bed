package security

import "fmt"

// SignatureMismatchError reports that Verify ran but the signature did not
// match (spec.md §7 "signature-mismatch — verification returned false").
type SignatureMismatchError string

func (e SignatureMismatchError) Error() string { return "signature-mismatch: " + string(e) }

func errSignatureMismatch(format string, args ...any) error {
	return SignatureMismatchError(fmt.Sprintf(format, args...))
}

// UnsupportedAlgorithmError reports a SignatureType the verifier does not
// implement (spec.md §7 "unsupported-algorithm").
type UnsupportedAlgorithmError string

func (e UnsupportedAlgorithmError) Error() string { return "unsupported-algorithm: " + string(e) }

func errUnsupportedAlgorithm(format string, args ...any) error {
	return UnsupportedAlgorithmError(fmt.Sprintf(format, args...))
}
