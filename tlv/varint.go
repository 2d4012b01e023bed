// Package tlv implements the NDN TLV varint and type-length-value framing
// primitives. This is treated as a black-box collaborator by the rest of
// the module (spec.md §1 "Out of scope ... TLV primitive codec"); it is
// implemented here only because something concrete has to exist to compile
// against.
package tlv

import "encoding/binary"

// Buffer is a contiguous run of bytes.
type Buffer []byte

// Wire is a (possibly non-contiguous) sequence of Buffers.
type Wire []Buffer

// Join concatenates a Wire into a single contiguous Buffer.
func (w Wire) Join() []byte {
	switch len(w) {
	case 0:
		return []byte{}
	case 1:
		return w[0]
	}
	n := 0
	for _, b := range w {
		n += len(b)
	}
	out := make([]byte, n)
	pos := 0
	for _, b := range w {
		pos += copy(out[pos:], b)
	}
	return out
}

// Length returns the total byte length of a Wire.
func (w Wire) Length() int {
	n := 0
	for _, b := range w {
		n += len(b)
	}
	return n
}

// VarNum is an NDN TLV variable-length number (used for both Type and
// Length fields).
type VarNum uint64

// EncodingLength returns the number of bytes needed to encode v.
func (v VarNum) EncodingLength() int {
	switch x := uint64(v); {
	case x <= 0xfc:
		return 1
	case x <= 0xffff:
		return 3
	case x <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// EncodeInto writes v into buf (which must be at least EncodingLength()
// bytes) and returns the number of bytes written.
func (v VarNum) EncodeInto(buf []byte) int {
	switch x := uint64(v); {
	case x <= 0xfc:
		buf[0] = byte(x)
		return 1
	case x <= 0xffff:
		buf[0] = 0xfd
		binary.BigEndian.PutUint16(buf[1:], uint16(x))
		return 3
	case x <= 0xffffffff:
		buf[0] = 0xfe
		binary.BigEndian.PutUint32(buf[1:], uint32(x))
		return 5
	default:
		buf[0] = 0xff
		binary.BigEndian.PutUint64(buf[1:], uint64(x))
		return 9
	}
}

// Bytes returns the encoded form of v as a freshly allocated slice.
func (v VarNum) Bytes() []byte {
	buf := make([]byte, v.EncodingLength())
	v.EncodeInto(buf)
	return buf
}

// ParseVarNum parses a VarNum from the front of buf, returning the value and
// the number of bytes consumed. buf must have at least 1 byte.
func ParseVarNum(buf []byte) (val VarNum, size int, ok bool) {
	if len(buf) == 0 {
		return 0, 0, false
	}
	switch x := buf[0]; {
	case x <= 0xfc:
		return VarNum(x), 1, true
	case x == 0xfd:
		if len(buf) < 3 {
			return 0, 0, false
		}
		return VarNum(binary.BigEndian.Uint16(buf[1:3])), 3, true
	case x == 0xfe:
		if len(buf) < 5 {
			return 0, 0, false
		}
		return VarNum(binary.BigEndian.Uint32(buf[1:5])), 5, true
	default:
		if len(buf) < 9 {
			return 0, 0, false
		}
		return VarNum(binary.BigEndian.Uint64(buf[1:9])), 9, true
	}
}

// Nat is a TLV non-negative integer value (encoded big-endian, shortest
// form of 1/2/4/8 bytes).
type Nat uint64

// EncodingLength returns the number of bytes needed to encode v.
func (v Nat) EncodingLength() int {
	switch x := uint64(v); {
	case x <= 0xff:
		return 1
	case x <= 0xffff:
		return 2
	case x <= 0xffffffff:
		return 4
	default:
		return 8
	}
}

// Bytes returns the big-endian encoding of v using the shortest form.
func (v Nat) Bytes() []byte {
	buf := make([]byte, v.EncodingLength())
	switch len(buf) {
	case 1:
		buf[0] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.BigEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.BigEndian.PutUint64(buf, uint64(v))
	}
	return buf
}

// ParseNat parses a Nat from a buffer whose length must be 1, 2, 4 or 8.
func ParseNat(buf []byte) (Nat, error) {
	switch len(buf) {
	case 1:
		return Nat(buf[0]), nil
	case 2:
		return Nat(binary.BigEndian.Uint16(buf)), nil
	case 4:
		return Nat(binary.BigEndian.Uint32(buf)), nil
	case 8:
		return Nat(binary.BigEndian.Uint64(buf)), nil
	default:
		return 0, ErrFormat{Msg: "natural number length is not 1, 2, 4 or 8"}
	}
}

// ErrFormat reports a malformed TLV primitive.
type ErrFormat struct {
	Msg string
}

func (e ErrFormat) Error() string {
	return e.Msg
}
