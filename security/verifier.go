package security

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"math/big"

	"github.com/named-data/certbundle/ndn"
)

// ecdsaDERSignature mirrors the ASN.1 SEQUENCE { r INTEGER, s INTEGER }
// that ecdsa.SignASN1 produces and that the wire carries (spec.md §6
// "signatures converted from DER to P1363 before verification").
type ecdsaDERSignature struct {
	R, S *big.Int
}

// derToP1363 parses a DER-encoded ECDSA signature into its raw (r, s)
// components, the P1363 representation crypto/ecdsa.Verify expects.
func derToP1363(der []byte) (r, s *big.Int, err error) {
	var sig ecdsaDERSignature
	if _, err := asn1.Unmarshal(der, &sig); err != nil {
		return nil, nil, ndn.ErrCodec("ecdsa signature: bad DER encoding: %v", err)
	}
	return sig.R, sig.S, nil
}

// Verify checks d's signature against pubKeyDER (an X.509 SubjectPublicKeyInfo
// encoding, as produced by a certificate's Content per spec.md §3). It
// returns (true, nil) on success, (false, SignatureMismatchError) when the
// algorithm is supported but verification fails, and a plain error for
// unsupported algorithms or malformed keys.
func Verify(d *ndn.Data, pubKeyDER []byte) (bool, error) {
	covered := d.SignedPortion()

	switch d.Signature.Info.SigType {
	case ndn.SignatureDigestSha256:
		sum := sha256.Sum256(covered)
		if !bytes.Equal(sum[:], d.Signature.Value) {
			return false, errSignatureMismatch("digest mismatch for %s", d.Name)
		}
		return true, nil

	case ndn.SignatureSha256WithRsa:
		pub, err := parseRsaPublicKey(pubKeyDER)
		if err != nil {
			return false, err
		}
		digest := sha256.Sum256(covered)
		if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], d.Signature.Value); err != nil {
			return false, errSignatureMismatch("rsa verify failed for %s: %v", d.Name, err)
		}
		return true, nil

	case ndn.SignatureSha256WithEcdsa:
		pub, err := parseEcdsaPublicKey(pubKeyDER)
		if err != nil {
			return false, err
		}
		r, s, err := derToP1363(d.Signature.Value)
		if err != nil {
			return false, err
		}
		digest := sha256.Sum256(covered)
		if !ecdsa.Verify(pub, digest[:], r, s) {
			return false, errSignatureMismatch("ecdsa verify failed for %s", d.Name)
		}
		return true, nil

	default:
		return false, errUnsupportedAlgorithm("sigtype %s on %s", d.Signature.Info.SigType, d.Name)
	}
}

func parseRsaPublicKey(der []byte) (*rsa.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, ndn.ErrCodec("rsa public key: %v", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, ndn.ErrCodec("rsa public key: wrong key type")
	}
	return rsaPub, nil
}

func parseEcdsaPublicKey(der []byte) (*ecdsa.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, ndn.ErrCodec("ecdsa public key: %v", err)
	}
	ecPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, ndn.ErrCodec("ecdsa public key: wrong key type")
	}
	return ecPub, nil
}
