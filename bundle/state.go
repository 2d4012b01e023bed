// Package bundle implements the producer side of the certificate-bundle
// optimization (spec.md §4.3 "Bundle Producer"): traversing a signing-key
// chain and packaging the collected certificates into size-bounded,
// signed segments. Grounded on original_source/src/util/bundle-helper.cpp
// and bundle-state.cpp, restructured from shared_ptr-observed C++ state
// into a Go value owned by a single caller.
package bundle

import (
	"github.com/named-data/certbundle/ndn"
)

// MaxNDNPacketSize is the MTU ceiling a bundle segment's Content must stay
// under (spec.md §4.3 step 3, ndn-cxx's MAX_NDN_PACKET_SIZE).
const MaxNDNPacketSize = 8800

// DefaultMaxBundleSize is the producer chain-depth cap (spec.md §6).
const DefaultMaxBundleSize = 25

// State is the producer-side per-in-flight-bundle record (spec.md §3
// "BundleState"). A State is a value owned by exactly one caller (the
// producer driving beginBundleCreation/refreshBundle/getBundle) — there is
// no shared_ptr/weak-handle indirection here because nothing but that
// caller ever observes it concurrently (spec.md §9 "no cyclic
// references... replace shared_from_this with value-passing").
type State struct {
	SigningKeyName Name

	certificateChain []*ndn.Certificate
	seen             map[string]struct{} // cycle guard, spec.md §4.3 hasSeenCertificateName
	bundleSegments   []*ndn.Data
}

// Name is an alias kept local to this package's doc comments; it is the
// same type as ndn.Name.
type Name = ndn.Name

// NewState creates the bundle-producer state rooted at signingKeyName.
func NewState(signingKeyName Name) *State {
	return &State{
		SigningKeyName: signingKeyName.Clone(),
		seen:           make(map[string]struct{}),
	}
}

// Depth reports how many certificates have been collected so far
// (original_source's BundleState::getDepth).
func (s *State) Depth() int { return len(s.certificateChain) }

// HasSeenCertificateName both tests and inserts, returning true if
// certName had already been recorded — the cycle/revisit guard of
// spec.md §4.3 ("hasSeenCertificateName both tests and inserts; set
// insertion returns 'was new?'"). Monotonic for the life of the state
// (spec.md §8 invariant).
func (s *State) HasSeenCertificateName(certName Name) bool {
	key := certName.String()
	if _, ok := s.seen[key]; ok {
		return true
	}
	s.seen[key] = struct{}{}
	return false
}

// AddCertificate appends cert to the discovery-ordered chain.
func (s *State) AddCertificate(cert *ndn.Certificate) {
	s.certificateChain = append(s.certificateChain, cert)
}

// CertificateChain returns the accumulated chain in discovery (leaf-most
// first) order.
func (s *State) CertificateChain() []*ndn.Certificate {
	return s.certificateChain
}

// BundleSegments returns the segments produced by the most recent
// GetBundle call.
func (s *State) BundleSegments() []*ndn.Data {
	return s.bundleSegments
}
