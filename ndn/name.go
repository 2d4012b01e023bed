package ndn

import (
	"strings"

	"github.com/named-data/certbundle/tlv"
)

// Name is an ordered sequence of Components (spec.md §3 "Name").
type Name []Component

// NewName builds a Name from generic string components, for tests and CLI
// convenience (e.g. NewName("a", "b")).
func NewName(parts ...string) Name {
	n := make(Name, len(parts))
	for i, p := range parts {
		n[i] = NewGenericComponent(p)
	}
	return n
}

// String renders the name in URI form.
func (n Name) String() string {
	if len(n) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, c := range n {
		sb.WriteByte('/')
		sb.WriteString(c.String())
	}
	return sb.String()
}

// Clone returns a deep copy of the name.
func (n Name) Clone() Name {
	out := make(Name, len(n))
	for i, c := range n {
		out[i] = c.Clone()
	}
	return out
}

// Append returns a new Name with components appended (does not mutate n).
func (n Name) Append(comps ...Component) Name {
	out := make(Name, len(n)+len(comps))
	copy(out, n)
	copy(out[len(n):], comps)
	return out
}

// Prefix returns the first i components. Negative i removes |i| components
// from the end (mirrors the teacher's enc.Name.Prefix semantics).
func (n Name) Prefix(i int) Name {
	if i < 0 {
		i = len(n) + i
	}
	if i <= 0 {
		return Name{}
	}
	if i >= len(n) {
		return n
	}
	return n[:i]
}

// At returns the ith component (negative indexes from the end), or the
// zero Component if out of range.
func (n Name) At(i int) Component {
	if i < 0 {
		i += len(n)
	}
	if i < 0 || i >= len(n) {
		return Component{}
	}
	return n[i]
}

// Equal reports whether two names have the same components in order.
func (n Name) Equal(o Name) bool {
	if len(n) != len(o) {
		return false
	}
	for i := range n {
		if !n[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// IsPrefixOf reports whether n is a prefix of o.
func (n Name) IsPrefixOf(o Name) bool {
	if len(n) > len(o) {
		return false
	}
	for i := range n {
		if !n[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Compare implements the total lexicographic order over the tuple of
// components required by spec.md §3: shorter-prefix-first, then
// component-wise Component.Compare.
func (n Name) Compare(o Name) int {
	for i := 0; i < len(n) && i < len(o); i++ {
		if c := n[i].Compare(o[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(n) < len(o):
		return -1
	case len(n) > len(o):
		return 1
	default:
		return 0
	}
}

// EncodingLength returns the encoded size of the name's components,
// excluding the outer Name TLV type/length header.
func (n Name) EncodingLength() int {
	total := 0
	for _, c := range n {
		l := tlv.VarNum(len(c.Val))
		total += c.Typ.EncodingLength() + l.EncodingLength() + len(c.Val)
	}
	return total
}

// wireEncode returns the Name as a child TLV block (Type = TypeName).
func (n Name) wireEncode() *tlv.Block {
	b := tlv.NewEmptyBlock(TypeName)
	for _, c := range n {
		b.Append(tlv.NewBlock(c.Typ, c.Val))
	}
	return b
}

func decodeName(b *tlv.Block) (Name, error) {
	if b.Type() != TypeName {
		return nil, ErrCodec("name: unexpected outer type")
	}
	subs := b.Subelements()
	out := make(Name, len(subs))
	for i, s := range subs {
		out[i] = Component{Typ: s.Type(), Val: append([]byte(nil), s.Value()...)}
	}
	return out, nil
}

// DeriveBundleName computes the stable bundle name for an arbitrary data
// name, per spec.md §3 "Bundle name derivation":
//  1. strip a trailing (segment, implicit-digest) pair,
//  2. else strip a trailing implicit-digest,
//  3. else strip a trailing segment,
//  4. append the literal "BUNDLE" component.
//
// This is idempotent under "append segment" and "append implicit-digest"
// (spec.md §8 invariant), and returns (nil, ErrNaming) if the input
// collapses to the empty name (spec.md §4.4 "bad-derived-name").
func DeriveBundleName(dataName Name) (Name, error) {
	stripped := dataName
	switch {
	case len(stripped) >= 2 && stripped.At(-1).IsImplicitDigest() && stripped.At(-2).IsSegment():
		stripped = stripped.Prefix(-2)
	case len(stripped) >= 1 && stripped.At(-1).IsImplicitDigest():
		stripped = stripped.Prefix(-1)
	case len(stripped) >= 1 && stripped.At(-1).IsSegment():
		stripped = stripped.Prefix(-1)
	}

	if len(stripped) == 0 {
		return nil, ErrNaming("bad-derived-name: input collapses to the empty name")
	}

	return stripped.Append(NewGenericComponent(BundleComponentLiteral)), nil
}
