// Package validator implements the bundle-aware validator of spec.md
// §4.4: for a target Data, derive a bundle name, fetch segment 0, walk
// segments, ingest certificates into the cache, and continue per-step
// validation using the cache; fall back to direct certificate interests
// on nack/timeout. Grounded on original_source/src/security/validator.cpp,
// restructured into one named method per step (checkKeyBundle,
// fetchFirstBundleSegment, fetchNextBundleSegment, onBundleData,
// fetchCertificateDirect), each passing its continuation callbacks to the
// next, instead of the original's several-deep nested callback binds. The
// continuation is not modeled as a tagged state value, and no single
// dispatcher handles incoming events.
package validator

import (
	"github.com/named-data/certbundle/ndn"
)

// DefaultNRetries is the per-validation-step retry budget (spec.md §6).
const DefaultNRetries = 3

// Request is the consumer-side per-pending-signer-lookup record (spec.md
// §3 "ValidationRequest"): the interest to express for the missing
// certificate, its retry budget, continuation callbacks, and the
// recursion depth.
type Request struct {
	Interest    *ndn.Interest
	NRetries    int
	NSteps      int
	OnValidated func(*ndn.Data)
	OnFailed    func(err error)
}
