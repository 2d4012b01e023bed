package ndn

import "github.com/named-data/certbundle/tlv"

// TypeNack is a minimal negative-acknowledgment frame: spec.md treats the
// Face abstraction as delivering "a Data, a Nack, or a timeout event per
// outstanding interest" without mandating a wire representation (the NDN
// NDNLPv2 Nack header is explicitly transport-layer plumbing, a Non-goal
// per spec.md §1). This wraps just enough — the nacked name and a reason
// string — for the engine's retry/fallback state machine to observe nacks
// on the wire in tests and simulated transports.
const TypeNack tlv.VarNum = 0x64
const typeNackReason tlv.VarNum = 0x65

// Nack carries the name of the interest that could not be satisfied and a
// human-readable reason (spec.md glossary "Nack").
type Nack struct {
	Name   Name
	Reason string
}

// Encode returns the TLV wire encoding of the Nack.
func (n Nack) Encode() []byte {
	b := tlv.NewEmptyBlock(TypeNack)
	b.Append(n.Name.wireEncode())
	b.Append(tlv.NewBlock(typeNackReason, []byte(n.Reason)))
	return b.Wire()
}

// DecodeNack parses a Nack frame, returning (nil, false) if buf is not a
// Nack frame (a different outer TLV type) rather than erroring, so
// callers can probe a frame's type cheaply.
func DecodeNack(buf []byte) (*Nack, bool) {
	outer, rest, err := tlv.Decode(buf)
	if err != nil || len(rest) != 0 || outer.Type() != TypeNack {
		return nil, false
	}
	nameBlock := outer.Find(TypeName)
	if nameBlock == nil {
		return nil, false
	}
	name, err := decodeName(nameBlock)
	if err != nil {
		return nil, false
	}
	reason := ""
	if rb := outer.Find(typeNackReason); rb != nil {
		reason = string(rb.Value())
	}
	return &Nack{Name: name, Reason: reason}, true
}
