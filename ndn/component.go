// Package ndn implements the Name/Interest/Data/Certificate data model and
// wire codec described in spec.md §3-4, restricted to the fields the
// certificate-bundle path uses. The TLV type numbers below are the
// classic NDN-TLV assignments (ndn-cxx / NDN packet spec), not the newer
// simplified 2022 packet format, because spec.md's Interest carries
// Selectors/Scope and a non-zero default Lifetime that the 2022 format
// dropped. See DESIGN.md for the rationale.
package ndn

import (
	"bytes"
	"strconv"

	"github.com/named-data/certbundle/tlv"
)

// Component type numbers (classic NDN-TLV).
const (
	TypeImplicitSha256DigestComponent tlv.VarNum = 0x01
	TypeGenericComponent              tlv.VarNum = 0x08
	TypeSegmentComponent              tlv.VarNum = 0x32
	TypeVersionComponent              tlv.VarNum = 0x36
)

// BundleComponentLiteral is the reserved literal component appended by
// bundle-name derivation (spec.md §3 "Bundle name").
const BundleComponentLiteral = "BUNDLE"

// Component is a single, typed, opaque-byte-string name component.
type Component struct {
	Typ tlv.VarNum
	Val []byte
}

// NewGenericComponent builds a GenericComponent from a string.
func NewGenericComponent(s string) Component {
	return Component{Typ: TypeGenericComponent, Val: []byte(s)}
}

// NewSegmentComponent builds a SegmentComponent for segment number seg.
func NewSegmentComponent(seg uint64) Component {
	return Component{Typ: TypeSegmentComponent, Val: tlv.Nat(seg).Bytes()}
}

// NewVersionComponent builds a VersionComponent.
func NewVersionComponent(v uint64) Component {
	return Component{Typ: TypeVersionComponent, Val: tlv.Nat(v).Bytes()}
}

// NewImplicitDigestComponent wraps a 32-byte SHA-256 digest.
func NewImplicitDigestComponent(digest []byte) Component {
	return Component{Typ: TypeImplicitSha256DigestComponent, Val: digest}
}

// IsSegment reports whether c is a SegmentComponent.
func (c Component) IsSegment() bool { return c.Typ == TypeSegmentComponent }

// IsVersion reports whether c is a VersionComponent.
func (c Component) IsVersion() bool { return c.Typ == TypeVersionComponent }

// IsImplicitDigest reports whether c is an ImplicitSha256DigestComponent.
func (c Component) IsImplicitDigest() bool { return c.Typ == TypeImplicitSha256DigestComponent }

// IsBundleLiteral reports whether c is the reserved "BUNDLE" component.
func (c Component) IsBundleLiteral() bool {
	return c.Typ == TypeGenericComponent && string(c.Val) == BundleComponentLiteral
}

// NumberVal interprets the component value as a TLV natural number
// (segment/version components store their number this way).
func (c Component) NumberVal() uint64 {
	n, err := tlv.ParseNat(c.Val)
	if err != nil {
		return 0
	}
	return uint64(n)
}

// Equal reports whether two components have the same type and value.
func (c Component) Equal(o Component) bool {
	return c.Typ == o.Typ && bytes.Equal(c.Val, o.Val)
}

// Compare implements total lexicographic order: first by TLV-encoded
// length, then by type, then by value bytes (NDN canonical order).
func (c Component) Compare(o Component) int {
	if d := len(c.Val) - len(o.Val); d != 0 {
		if d < 0 {
			return -1
		}
		return 1
	}
	if c.Typ != o.Typ {
		if c.Typ < o.Typ {
			return -1
		}
		return 1
	}
	return bytes.Compare(c.Val, o.Val)
}

// String renders the component in URI-like form (type=value for non-
// generic types, or the raw string for generic components when printable).
func (c Component) String() string {
	switch c.Typ {
	case TypeGenericComponent:
		return string(c.Val)
	case TypeSegmentComponent:
		return "seg=" + strconv.FormatUint(c.NumberVal(), 10)
	case TypeVersionComponent:
		return "v=" + strconv.FormatUint(c.NumberVal(), 10)
	case TypeImplicitSha256DigestComponent:
		return "sha256digest=" + hexString(c.Val)
	default:
		return strconv.FormatUint(uint64(c.Typ), 10) + "=" + hexString(c.Val)
	}
}

func hexString(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, x := range b {
		out[i*2] = hexDigits[x>>4]
		out[i*2+1] = hexDigits[x&0xf]
	}
	return string(out)
}

// Clone returns a deep copy of the component.
func (c Component) Clone() Component {
	return Component{Typ: c.Typ, Val: append([]byte(nil), c.Val...)}
}

// wireEncode returns the TLV encoding of the component (Type-Length-Value).
func (c Component) wireEncode() []byte {
	return tlv.NewBlock(c.Typ, c.Val).Wire()
}
