package ndn

import "github.com/named-data/certbundle/tlv"

// Classic NDN-TLV type numbers for the Selectors and its children
// (spec.md §6 "Exact numeric type codes follow the NDN packet
// specification; the implementation MUST preserve them bit-for-bit").
const (
	TypeSelectors            tlv.VarNum = 0x09
	TypeMinSuffixComponents  tlv.VarNum = 0x0d
	TypeMaxSuffixComponents  tlv.VarNum = 0x0e
	TypeExclude              tlv.VarNum = 0x10
	TypeChildSelector        tlv.VarNum = 0x11
	TypeMustBeFresh          tlv.VarNum = 0x12
	TypeAny                  tlv.VarNum = 0x13
)

// ChildSelector values (spec.md §3: "childSelector ∈ {0 leftmost, 1
// rightmost}").
const (
	ChildSelectorLeftmost  = 0
	ChildSelectorRightmost = 1
)

// ExcludeItem is one entry of an Exclude filter in wire order: either a
// specific excluded Component, or the "Any" wildcard. The certificate-
// bundle path only needs a boolean membership test (spec.md §4.2 "the
// first suffix component is not in the exclude range set"), so ranges are
// modeled as the flat sequence the wire carries rather than resolved into
// interval objects; Any wildcards adjacent to a component widen the match
// to "everything on that side" when testing membership.
type ExcludeItem struct {
	Any  bool
	Comp Component
}

// Exclude is an ordered set of excluded components/wildcards.
type Exclude []ExcludeItem

// MatchesAny reports whether c is excluded: either named exactly, or
// covered by an Any wildcard paired with a bounding component on either
// side of it in the sequence.
func (e Exclude) MatchesAny(c Component) bool {
	for i, item := range e {
		if item.Any {
			// Any without any component is "exclude everything".
			if len(e) == 1 {
				return true
			}
			// Any paired with a following component excludes everything
			// up to and including that component.
			if i+1 < len(e) && !e[i+1].Any && c.Compare(e[i+1].Comp) <= 0 {
				return true
			}
			// Any paired with a preceding component excludes everything
			// from that component onward.
			if i > 0 && !e[i-1].Any && c.Compare(e[i-1].Comp) >= 0 {
				return true
			}
			continue
		}
		if item.Comp.Equal(c) {
			return true
		}
	}
	return false
}

// Selectors carries the optional Interest constraints of spec.md §3.
// The zero value is "all defaults": MinSuffixComponents/MaxSuffixComponents
// unset, Exclude empty, ChildSelector=leftmost, MustBeFresh=false.
type Selectors struct {
	MinSuffixComponents *int
	MaxSuffixComponents *int
	Exclude             Exclude
	ChildSelector        int
	MustBeFresh          bool
}

// IsDefault reports whether every field holds its default value, in which
// case spec.md §4.1 requires the Selectors TLV be omitted entirely from
// the wire.
func (s Selectors) IsDefault() bool {
	return s.MinSuffixComponents == nil &&
		s.MaxSuffixComponents == nil &&
		len(s.Exclude) == 0 &&
		s.ChildSelector == ChildSelectorLeftmost &&
		!s.MustBeFresh
}

func (s Selectors) wireEncode() *tlv.Block {
	b := tlv.NewEmptyBlock(TypeSelectors)
	if s.MinSuffixComponents != nil {
		b.Append(tlv.NewBlock(TypeMinSuffixComponents, tlv.Nat(*s.MinSuffixComponents).Bytes()))
	}
	if s.MaxSuffixComponents != nil {
		b.Append(tlv.NewBlock(TypeMaxSuffixComponents, tlv.Nat(*s.MaxSuffixComponents).Bytes()))
	}
	if len(s.Exclude) > 0 {
		ex := tlv.NewEmptyBlock(TypeExclude)
		for _, item := range s.Exclude {
			if item.Any {
				ex.Append(tlv.NewEmptyBlock(TypeAny))
			} else {
				ex.Append(tlv.NewBlock(item.Comp.Typ, item.Comp.Val))
			}
		}
		b.Append(ex)
	}
	if s.ChildSelector != ChildSelectorLeftmost {
		b.Append(tlv.NewBlock(TypeChildSelector, tlv.Nat(s.ChildSelector).Bytes()))
	}
	if s.MustBeFresh {
		b.Append(tlv.NewEmptyBlock(TypeMustBeFresh))
	}
	return b
}

func decodeSelectors(b *tlv.Block) (Selectors, error) {
	var s Selectors
	for _, c := range b.Subelements() {
		switch c.Type() {
		case TypeMinSuffixComponents:
			n, err := tlv.ParseNat(c.Value())
			if err != nil {
				return s, ErrCodec("selectors: bad MinSuffixComponents: %v", err)
			}
			v := int(n)
			s.MinSuffixComponents = &v
		case TypeMaxSuffixComponents:
			n, err := tlv.ParseNat(c.Value())
			if err != nil {
				return s, ErrCodec("selectors: bad MaxSuffixComponents: %v", err)
			}
			v := int(n)
			s.MaxSuffixComponents = &v
		case TypeExclude:
			ex, err := decodeExclude(c)
			if err != nil {
				return s, err
			}
			s.Exclude = ex
		case TypeChildSelector:
			n, err := tlv.ParseNat(c.Value())
			if err != nil {
				return s, ErrCodec("selectors: bad ChildSelector: %v", err)
			}
			s.ChildSelector = int(n)
		case TypeMustBeFresh:
			s.MustBeFresh = true
		}
	}
	return s, nil
}

func decodeExclude(b *tlv.Block) (Exclude, error) {
	subs := b.Subelements()
	out := make(Exclude, len(subs))
	for i, s := range subs {
		if s.Type() == TypeAny {
			out[i] = ExcludeItem{Any: true}
		} else {
			out[i] = ExcludeItem{Comp: Component{Typ: s.Type(), Val: append([]byte(nil), s.Value()...)}}
		}
	}
	return out, nil
}
