package ndn

import (
	"crypto/sha256"

	"github.com/named-data/certbundle/tlv"
)

// TLV type number for the Data packet (spec.md §6).
const TypeData tlv.VarNum = 0x06
const TypeContent tlv.VarNum = 0x15

// Data is a named, signed content object (spec.md §3 "Data"). Certificates
// and bundle segments are both Data packets distinguished only by naming
// convention and MetaInfo/Signature contents.
type Data struct {
	Name      Name
	MetaInfo  MetaInfo
	Content   []byte
	Signature Signature

	wire   []byte // full signed encoding, set by Encode or DecodeData
	digest []byte // memoized sha256 of wire, for ImplicitSha256Digest
}

// NewData builds an unsigned Data packet; call Sign before Encode.
func NewData(name Name, content []byte) *Data {
	return &Data{
		Name:    name.Clone(),
		Content: content,
	}
}

// SignedPortion returns the bytes covered by the signature: Name, MetaInfo,
// Content, and SignatureInfo, in wire order, matching ndn-cxx's
// "signed portion" definition.
func (d *Data) SignedPortion() []byte {
	var buf []byte
	buf = append(buf, d.Name.wireEncode().Wire()...)
	buf = append(buf, d.MetaInfo.wireEncode().Wire()...)
	buf = append(buf, tlv.NewBlock(TypeContent, d.Content).Wire()...)
	buf = append(buf, d.Signature.Info.wireEncode().Wire()...)
	return buf
}

// Encode assembles the full wire encoding from Name/MetaInfo/Content plus
// an already-populated Signature (Info and Value). Sign data first with a
// Signer from the security package, which fills in Signature before this
// is called.
func (d *Data) Encode() ([]byte, error) {
	if len(d.Name) == 0 {
		return nil, ErrCodec("data: name is required")
	}
	if d.Signature.Value == nil {
		return nil, ErrCodec("data: must be signed before encoding")
	}

	outer := tlv.NewEmptyBlock(TypeData)
	outer.Append(d.Name.wireEncode())
	outer.Append(d.MetaInfo.wireEncode())
	outer.Append(tlv.NewBlock(TypeContent, d.Content))
	outer.Append(d.Signature.Info.wireEncode())
	outer.Append(tlv.NewBlock(TypeSignatureValue, d.Signature.Value))

	d.wire = outer.Wire()
	d.digest = nil
	return d.wire, nil
}

// FullName returns Name with an appended ImplicitSha256DigestComponent
// computed over the full signed wire encoding (spec.md §3 "FullName").
// Encode must have been called first.
func (d *Data) FullName() (Name, error) {
	if d.wire == nil {
		return nil, ErrStateInvalid("data: FullName requires Encode to have run first")
	}
	if d.digest == nil {
		sum := sha256.Sum256(d.wire)
		d.digest = sum[:]
	}
	return d.Name.Append(NewImplicitDigestComponent(d.digest)), nil
}

// DecodeData parses a Data packet from its full TLV wire encoding.
func DecodeData(buf []byte) (*Data, error) {
	outer, rest, err := tlv.Decode(buf)
	if err != nil {
		return nil, ErrCodec("data: %v", err)
	}
	if len(rest) != 0 {
		return nil, ErrCodec("data: trailing bytes after TLV")
	}
	if outer.Type() != TypeData {
		return nil, ErrCodec("data: unexpected outer type %d", outer.Type())
	}

	d := &Data{}

	nameBlock := outer.Find(TypeName)
	if nameBlock == nil {
		return nil, ErrCodec("data: missing required Name")
	}
	name, err := decodeName(nameBlock)
	if err != nil {
		return nil, err
	}
	d.Name = name

	if miBlock := outer.Find(TypeMetaInfo); miBlock != nil {
		mi, err := decodeMetaInfo(miBlock)
		if err != nil {
			return nil, err
		}
		d.MetaInfo = mi
	}

	if cBlock := outer.Find(TypeContent); cBlock != nil {
		d.Content = append([]byte(nil), cBlock.Value()...)
	}

	siBlock := outer.Find(TypeSignatureInfo)
	if siBlock == nil {
		return nil, ErrCodec("data: missing required SignatureInfo")
	}
	si, err := decodeSignatureInfo(siBlock)
	if err != nil {
		return nil, err
	}
	d.Signature.Info = *si

	svBlock := outer.Find(TypeSignatureValue)
	if svBlock == nil {
		return nil, ErrCodec("data: missing required SignatureValue")
	}
	d.Signature.Value = append([]byte(nil), svBlock.Value()...)

	d.wire = append([]byte(nil), buf...)
	return d, nil
}

// DecodeDataStream decodes a concatenation of back-to-back Data TLVs, as
// found in a bundle segment's Content (spec.md §4.4 "parse each element of
// Content as a TLV-encoded certificate"). Each element's own declared
// length delimits it, so no separators are needed.
func DecodeDataStream(buf []byte) ([]*Data, error) {
	var out []*Data
	for len(buf) > 0 {
		block, rest, err := tlv.Decode(buf)
		if err != nil {
			return nil, ErrCodec("data stream: %v", err)
		}
		d, err := DecodeData(block.Wire())
		if err != nil {
			return nil, err
		}
		out = append(out, d)
		buf = rest
	}
	return out, nil
}
