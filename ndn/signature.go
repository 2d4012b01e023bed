package ndn

import "github.com/named-data/certbundle/tlv"

// SigType enumerates the signature algorithms spec.md §6 requires.
type SigType uint64

const (
	SignatureDigestSha256     SigType = 0
	SignatureSha256WithRsa    SigType = 1
	SignatureSha256WithEcdsa  SigType = 3
)

func (t SigType) String() string {
	switch t {
	case SignatureDigestSha256:
		return "DigestSha256"
	case SignatureSha256WithRsa:
		return "SignatureSha256WithRsa"
	case SignatureSha256WithEcdsa:
		return "SignatureSha256WithEcdsa"
	default:
		return "Unknown"
	}
}

// TLV type numbers for the SignatureInfo/SignatureValue/KeyLocator fields.
const (
	TypeSignatureInfo  tlv.VarNum = 0x16
	TypeSignatureValue tlv.VarNum = 0x17
	TypeSignatureType  tlv.VarNum = 0x1b
	TypeKeyLocator     tlv.VarNum = 0x1c
	TypeKeyDigest      tlv.VarNum = 0x1d
	TypeName           tlv.VarNum = 0x07
)

// KeyLocator names the certificate that signed a packet (spec.md §3
// "KeyLocator"). Only the Name variant participates in chain walking; a
// digest-only locator carries no name to recurse on.
type KeyLocator struct {
	Name   Name   // nil if unset
	Digest []byte // nil if unset
}

// IsName reports whether this is a name-based KeyLocator.
func (k KeyLocator) IsName() bool { return len(k.Name) > 0 }

func (k KeyLocator) wireEncode() *tlv.Block {
	b := tlv.NewEmptyBlock(TypeKeyLocator)
	if k.IsName() {
		b.Append(k.Name.wireEncode())
	} else if k.Digest != nil {
		b.Append(tlv.NewBlock(TypeKeyDigest, k.Digest))
	}
	return b
}

func decodeKeyLocator(b *tlv.Block) (KeyLocator, error) {
	var kl KeyLocator
	if nameBlock := b.Find(TypeName); nameBlock != nil {
		n, err := decodeName(nameBlock)
		if err != nil {
			return kl, err
		}
		kl.Name = n
	} else if d := b.Find(TypeKeyDigest); d != nil {
		kl.Digest = append([]byte(nil), d.Value()...)
	}
	return kl, nil
}

// SignatureInfo carries the signature type and (optionally) the key
// locator naming the signer's certificate.
type SignatureInfo struct {
	SigType    SigType
	KeyLocator *KeyLocator
}

func (si SignatureInfo) wireEncode() *tlv.Block {
	b := tlv.NewEmptyBlock(TypeSignatureInfo)
	b.Append(tlv.NewBlock(TypeSignatureType, tlv.Nat(si.SigType).Bytes()))
	if si.KeyLocator != nil {
		b.Append(si.KeyLocator.wireEncode())
	}
	return b
}

func decodeSignatureInfo(b *tlv.Block) (*SignatureInfo, error) {
	typBlock := b.Find(TypeSignatureType)
	if typBlock == nil {
		return nil, ErrCodec("signature-info: missing SignatureType")
	}
	n, err := tlv.ParseNat(typBlock.Value())
	if err != nil {
		return nil, ErrCodec("signature-info: bad SignatureType: %v", err)
	}
	si := &SignatureInfo{SigType: SigType(n)}
	if klBlock := b.Find(TypeKeyLocator); klBlock != nil {
		kl, err := decodeKeyLocator(klBlock)
		if err != nil {
			return nil, err
		}
		si.KeyLocator = &kl
	}
	return si, nil
}

// Signature bundles the decoded SignatureInfo with its SignatureValue.
type Signature struct {
	Info  SignatureInfo
	Value []byte
}

// KeyName returns the name-based key locator, or nil if absent or
// digest-only.
func (s Signature) KeyName() Name {
	if s.Info.KeyLocator == nil || !s.Info.KeyLocator.IsName() {
		return nil
	}
	return s.Info.KeyLocator.Name
}
