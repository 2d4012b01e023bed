package validator

import "fmt"

// CertFetchFailedError reports that a direct certificate interest
// exhausted its retry budget without success (spec.md §7
// "cert-fetch-failed").
type CertFetchFailedError string

func (e CertFetchFailedError) Error() string { return "cert-fetch-failed: " + string(e) }

func errCertFetchFailed(format string, args ...any) error {
	return CertFetchFailedError(fmt.Sprintf(format, args...))
}

// BundleFetchFailedError reports that deriving or walking the
// certificate bundle failed in a way that a direct-fetch fallback could
// not recover from (spec.md §7 "bundle-fetch-failed").
type BundleFetchFailedError string

func (e BundleFetchFailedError) Error() string { return "bundle-fetch-failed: " + string(e) }

func errBundleFetchFailed(format string, args ...any) error {
	return BundleFetchFailedError(fmt.Sprintf(format, args...))
}

// PolicyRejectedError reports that a certificate was fetched and
// verified but the configured Policy refused to extend trust to it, that
// the chain exceeded its depth cap, or that a packet carries no key
// locator to follow (spec.md §7 "policy-rejected").
type PolicyRejectedError string

func (e PolicyRejectedError) Error() string { return "policy-rejected: " + string(e) }

func errPolicyRejected(format string, args ...any) error {
	return PolicyRejectedError(fmt.Sprintf(format, args...))
}
