// Package security implements the signing, verification, and caching
// collaborators spec.md §1 treats as external black boxes for the
// underlying crypto primitives but which the bundle producer and
// validator still need concrete interfaces to call (spec.md §6
// "Signature algorithms").
package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"

	"github.com/named-data/certbundle/ndn"
)

// Signer produces a Signature over a Data packet's signed portion. Modeled
// on the teacher's ndn.Signer interface (std/ndn/security.go).
type Signer interface {
	Type() ndn.SigType
	KeyName() ndn.Name
	Sign(signedPortion []byte) ([]byte, error)
}

// SignData computes and attaches s's signature to d, then encodes it.
func SignData(d *ndn.Data, s Signer) ([]byte, error) {
	d.Signature.Info = ndn.SignatureInfo{SigType: s.Type()}
	if kn := s.KeyName(); kn != nil {
		d.Signature.Info.KeyLocator = &ndn.KeyLocator{Name: kn}
	}
	// SignedPortion reads d.Signature.Info, so it must be set first; the
	// SignatureValue block isn't part of the covered region.
	covered := d.SignedPortion()
	val, err := s.Sign(covered)
	if err != nil {
		return nil, err
	}
	d.Signature.Value = val
	return d.Encode()
}

// sha256Signer implements DigestSha256 (spec.md §4.3 "each bundle segment
// is signed with SHA-256 digest — integrity only").
type sha256Signer struct{}

// NewSha256Signer returns the digest-only signer used for bundle segments.
func NewSha256Signer() Signer { return sha256Signer{} }

func (sha256Signer) Type() ndn.SigType   { return ndn.SignatureDigestSha256 }
func (sha256Signer) KeyName() ndn.Name   { return nil }
func (sha256Signer) Sign(buf []byte) ([]byte, error) {
	sum := sha256.Sum256(buf)
	return sum[:], nil
}

// RsaSigner implements SignatureSha256WithRsa (PKCS#1 v1.5, spec.md §6).
type RsaSigner struct {
	Key  *rsa.PrivateKey
	Name ndn.Name
}

func NewRsaSigner(name ndn.Name, key *rsa.PrivateKey) Signer {
	return &RsaSigner{Key: key, Name: name}
}

func (s *RsaSigner) Type() ndn.SigType { return ndn.SignatureSha256WithRsa }
func (s *RsaSigner) KeyName() ndn.Name { return s.Name }

func (s *RsaSigner) Sign(buf []byte) ([]byte, error) {
	digest := sha256.Sum256(buf)
	return rsa.SignPKCS1v15(rand.Reader, s.Key, crypto.SHA256, digest[:])
}

// EcdsaSigner implements SignatureSha256WithEcdsa over secp256r1 or
// secp384r1 (spec.md §6). Sign produces ASN.1 DER, the wire format the
// spec's verifier accepts before converting to P1363 internally.
type EcdsaSigner struct {
	Key  *ecdsa.PrivateKey
	Name ndn.Name
}

func NewEcdsaSigner(name ndn.Name, key *ecdsa.PrivateKey) Signer {
	return &EcdsaSigner{Key: key, Name: name}
}

func (s *EcdsaSigner) Type() ndn.SigType { return ndn.SignatureSha256WithEcdsa }
func (s *EcdsaSigner) KeyName() ndn.Name { return s.Name }

func (s *EcdsaSigner) Sign(buf []byte) ([]byte, error) {
	digest := sha256.Sum256(buf)
	return ecdsa.SignASN1(rand.Reader, s.Key, digest[:])
}
