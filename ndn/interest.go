package ndn

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	"github.com/named-data/certbundle/tlv"
)

// TLV type numbers for the Interest packet and its top-level fields
// (spec.md §6).
const (
	TypeInterest        tlv.VarNum = 0x05
	TypeNonce           tlv.VarNum = 0x0a
	TypeScope           tlv.VarNum = 0x0b
	TypeInterestLifetime tlv.VarNum = 0x0c
)

// DefaultInterestLifetime is the lifetime assumed when none is set, and the
// value whose encoding is omitted from the wire (spec.md §3, §4.1).
const DefaultInterestLifetime = 4000 * time.Millisecond

// ScopeUnset is the sentinel value meaning "Scope absent" (spec.md §3:
// "scope ∈ {−1, 0, 1, 2} (−1 = unset)").
const ScopeUnset = -1

// Interest is a request addressed to a Name (spec.md §3 "Interest").
type Interest struct {
	Name      Name
	Selectors Selectors
	Nonce     uint32
	Scope     int // ScopeUnset (-1) if absent
	Lifetime  time.Duration

	wire []byte // memoized encoding; nil if stale
}

// NewInterest builds an Interest with a freshly generated nonce and the
// default lifetime/scope, matching the teacher's NewInterest constructors
// (e.g. named-data-YaNFD's ndn.NewInterest).
func NewInterest(name Name) *Interest {
	i := &Interest{
		Name:     name.Clone(),
		Scope:    ScopeUnset,
		Lifetime: DefaultInterestLifetime,
	}
	i.ResetNonce()
	return i
}

// ResetNonce regenerates the nonce and invalidates the memoized wire.
// spec.md §3 invariant: "a freshly cloned interest for retry must carry a
// new random nonce".
func (i *Interest) ResetNonce() {
	var buf [4]byte
	_, _ = rand.Read(buf[:])
	i.Nonce = binary.BigEndian.Uint32(buf[:])
	i.wire = nil
}

// CloneForRetry returns a copy of i with a new nonce and every other
// field preserved, per spec.md §3's retry invariant. The Name is
// deep-copied; Selectors is copied by value, so its pointer and slice
// fields are shared with i.
func (i *Interest) CloneForRetry() *Interest {
	clone := &Interest{
		Name:      i.Name.Clone(),
		Selectors: i.Selectors,
		Scope:     i.Scope,
		Lifetime:  i.Lifetime,
	}
	clone.ResetNonce()
	return clone
}

// SetName replaces the name and invalidates the memo.
func (i *Interest) SetName(n Name) {
	i.Name = n
	i.wire = nil
}

// SetMustBeFresh sets the MustBeFresh selector and invalidates the memo.
func (i *Interest) SetMustBeFresh(v bool) {
	i.Selectors.MustBeFresh = v
	i.wire = nil
}

// SetChildSelector sets the ChildSelector and invalidates the memo.
func (i *Interest) SetChildSelector(v int) {
	i.Selectors.ChildSelector = v
	i.wire = nil
}

// SetLifetime sets the Lifetime and invalidates the memo.
func (i *Interest) SetLifetime(d time.Duration) {
	i.Lifetime = d
	i.wire = nil
}

// HasWire reports whether a memoized encoding is currently cached.
func (i *Interest) HasWire() bool {
	return i.wire != nil
}

// Encode returns the TLV wire encoding of the interest, computing and
// memoizing it if the memo was invalidated by a setter since the last
// call (spec.md §4.1 "wireEncode memoizes the resulting byte block; any
// mutating setter must invalidate the memo").
func (i *Interest) Encode() ([]byte, error) {
	if i.wire != nil {
		return i.wire, nil
	}
	if len(i.Name) == 0 {
		return nil, ErrCodec("interest: name is required")
	}

	outer := tlv.NewEmptyBlock(TypeInterest)
	outer.Append(i.Name.wireEncode())

	if !i.Selectors.IsDefault() {
		outer.Append(i.Selectors.wireEncode())
	}

	// Nonce is always present on the wire.
	var nonceBuf [4]byte
	binary.BigEndian.PutUint32(nonceBuf[:], i.Nonce)
	outer.Append(tlv.NewBlock(TypeNonce, nonceBuf[:]))

	if i.Scope >= 0 {
		outer.Append(tlv.NewBlock(TypeScope, tlv.Nat(i.Scope).Bytes()))
	}

	if i.Lifetime >= 0 && i.Lifetime != DefaultInterestLifetime {
		ms := uint64(i.Lifetime / time.Millisecond)
		outer.Append(tlv.NewBlock(TypeInterestLifetime, tlv.Nat(ms).Bytes()))
	}

	i.wire = outer.Wire()
	return i.wire, nil
}

// DecodeInterest parses an Interest from its full TLV wire encoding.
// A missing Nonce is normalized to 0 (spec.md §4.1: "on decode, a missing
// nonce is normalized to 0 and re-assigned on next send" — the caller
// should call ResetNonce before re-expressing a decoded interest).
func DecodeInterest(buf []byte) (*Interest, error) {
	outer, rest, err := tlv.Decode(buf)
	if err != nil {
		return nil, ErrCodec("interest: %v", err)
	}
	if len(rest) != 0 {
		return nil, ErrCodec("interest: trailing bytes after TLV")
	}
	if outer.Type() != TypeInterest {
		return nil, ErrCodec("interest: unexpected outer type %d", outer.Type())
	}

	i := &Interest{
		Scope:    ScopeUnset,
		Lifetime: DefaultInterestLifetime,
	}

	nameBlock := outer.Find(TypeName)
	if nameBlock == nil {
		return nil, ErrCodec("interest: missing required Name")
	}
	name, err := decodeName(nameBlock)
	if err != nil {
		return nil, err
	}
	i.Name = name

	if selBlock := outer.Find(TypeSelectors); selBlock != nil {
		sel, err := decodeSelectors(selBlock)
		if err != nil {
			return nil, err
		}
		i.Selectors = sel
	}

	if nonceBlock := outer.Find(TypeNonce); nonceBlock != nil {
		if len(nonceBlock.Value()) != 4 {
			return nil, ErrCodec("interest: Nonce must be 4 bytes")
		}
		i.Nonce = binary.BigEndian.Uint32(nonceBlock.Value())
	}

	if scopeBlock := outer.Find(TypeScope); scopeBlock != nil {
		n, err := tlv.ParseNat(scopeBlock.Value())
		if err != nil {
			return nil, ErrCodec("interest: bad Scope: %v", err)
		}
		i.Scope = int(n)
	}

	if lifeBlock := outer.Find(TypeInterestLifetime); lifeBlock != nil {
		n, err := tlv.ParseNat(lifeBlock.Value())
		if err != nil {
			return nil, ErrCodec("interest: bad InterestLifetime: %v", err)
		}
		i.Lifetime = time.Duration(n) * time.Millisecond
	}

	i.wire = append([]byte(nil), buf...)
	return i, nil
}
