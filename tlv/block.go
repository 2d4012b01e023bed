package tlv

import "fmt"

// Block is a generic decoded TLV element: a type, a value, and (once
// Parse is called) the value reinterpreted as a sequence of child Blocks.
// It mirrors the pack's Block-style decoders (named-data-YaNFD's ndn/tlv
// package): children are located by walking Subelements() and switching
// on Type(), never by position, so that optional fields can be absent
// without disturbing decode of the fields that follow.
type Block struct {
	typ  VarNum
	val  []byte
	subs []*Block
	wire []byte // memoized encoding, nil if stale
}

// NewBlock creates a Block wrapping an opaque value.
func NewBlock(typ VarNum, val []byte) *Block {
	return &Block{typ: typ, val: val}
}

// NewEmptyBlock creates a zero-length Block of the given type (used for
// boolean-presence TLVs such as MustBeFresh).
func NewEmptyBlock(typ VarNum) *Block {
	return &Block{typ: typ, val: []byte{}}
}

// Type returns the TLV type of the block.
func (b *Block) Type() VarNum { return b.typ }

// Value returns the raw value bytes of the block.
func (b *Block) Value() []byte { return b.val }

// SetValue replaces the value and invalidates the memoized wire and any
// previously parsed subelements.
func (b *Block) SetValue(val []byte) {
	b.val = val
	b.subs = nil
	b.wire = nil
}

// Append appends a child block's wire encoding to this block's value,
// invalidating the memo. Used by encoders building a composite TLV.
func (b *Block) Append(child *Block) {
	b.val = append(b.val, child.Wire()...)
	b.subs = append(b.subs, child)
	b.wire = nil
}

// Parse decodes the value bytes into child Blocks. Idempotent; safe to
// call multiple times (e.g. after SetValue invalidated the cache).
func (b *Block) Parse() error {
	if b.subs != nil {
		return nil
	}
	subs, _, err := decodeAll(b.val)
	if err != nil {
		return err
	}
	b.subs = subs
	return nil
}

// Subelements returns the parsed child blocks. Parse must have been called
// (Decode calls it automatically for the outer block).
func (b *Block) Subelements() []*Block {
	return b.subs
}

// Wire returns the full Type-Length-Value encoding of the block, computing
// and memoizing it if necessary.
func (b *Block) Wire() []byte {
	if b.wire != nil {
		return b.wire
	}
	lenNum := VarNum(len(b.val))
	out := make([]byte, b.typ.EncodingLength()+lenNum.EncodingLength()+len(b.val))
	pos := b.typ.EncodeInto(out)
	pos += lenNum.EncodeInto(out[pos:])
	copy(out[pos:], b.val)
	b.wire = out
	return out
}

// DeepCopy returns an independent copy of the block (and its value bytes).
func (b *Block) DeepCopy() *Block {
	cp := &Block{typ: b.typ, val: append([]byte(nil), b.val...)}
	return cp
}

// Decode parses a single outer TLV element from buf. The returned block has
// already been Parse()d so Subelements() is immediately usable. rest holds
// any trailing bytes beyond the decoded element.
func Decode(buf []byte) (block *Block, rest []byte, err error) {
	typ, tsz, ok := ParseVarNum(buf)
	if !ok {
		return nil, nil, ErrFormat{Msg: "truncated TLV type"}
	}
	buf = buf[tsz:]
	ln, lsz, ok := ParseVarNum(buf)
	if !ok {
		return nil, nil, ErrFormat{Msg: "truncated TLV length"}
	}
	buf = buf[lsz:]
	if uint64(len(buf)) < uint64(ln) {
		return nil, nil, ErrFormat{Msg: fmt.Sprintf("TLV value overruns declared length (want %d, have %d)", ln, len(buf))}
	}
	val := buf[:ln]
	b := &Block{typ: typ, val: val}
	if err := b.Parse(); err != nil {
		return nil, nil, err
	}
	return b, buf[ln:], nil
}

// decodeAll decodes a sequence of sibling TLV elements that fill buf
// exactly, used to parse the children of a composite block.
func decodeAll(buf []byte) ([]*Block, []byte, error) {
	var out []*Block
	for len(buf) > 0 {
		b, rest, err := Decode(buf)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, b)
		buf = rest
	}
	return out, buf, nil
}

// Find returns the first direct child with the given type, or nil.
func (b *Block) Find(typ VarNum) *Block {
	for _, s := range b.subs {
		if s.typ == typ {
			return s
		}
	}
	return nil
}
