package validator

import (
	"github.com/named-data/certbundle/ndn"
)

// Policy decides whether a certificate terminates the chain of trust,
// independent of whether its own signature verifies (signature
// verification is the validator's job; Policy only judges identity).
// Grounded on original_source/src/security/validator-config's split
// between signature checking and a separate trust-anchor test.
type Policy interface {
	// IsTrustAnchor reports whether cert may terminate a chain without
	// validating whatever signed cert itself.
	IsTrustAnchor(cert *ndn.Certificate) bool
}

// TrustAnchorPolicy trusts an explicit, configured set of certificates,
// matched by key name (spec.md §4.4 "a policy names the certificates
// that terminate a chain").
type TrustAnchorPolicy struct {
	anchors map[string]*ndn.Certificate
}

// NewTrustAnchorPolicy builds a policy trusting exactly the given
// certificates.
func NewTrustAnchorPolicy(anchors ...*ndn.Certificate) *TrustAnchorPolicy {
	p := &TrustAnchorPolicy{anchors: make(map[string]*ndn.Certificate)}
	for _, a := range anchors {
		p.AddAnchor(a)
	}
	return p
}

// AddAnchor registers cert as a trust anchor, keyed by its key name so a
// reissued (re-versioned) anchor certificate still matches.
func (p *TrustAnchorPolicy) AddAnchor(cert *ndn.Certificate) {
	p.anchors[cert.KeyName().String()] = cert
}

// IsTrustAnchor reports whether cert's key name matches a registered
// anchor. Matching by key name rather than by full certificate bytes
// means a re-issued (re-versioned) anchor certificate under the same key
// still terminates the chain. Being self-signed alone proves nothing
// about who to trust: only a configured anchor does.
func (p *TrustAnchorPolicy) IsTrustAnchor(cert *ndn.Certificate) bool {
	_, ok := p.anchors[cert.KeyName().String()]
	return ok
}
