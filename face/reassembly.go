package face

import (
	"github.com/named-data/certbundle/tlv"
)

// MaxReassemblyBuffer bounds the partial-frame reassembly buffer (spec.md
// §5 "a bounded reassembly buffer (9000 bytes)").
const MaxReassemblyBuffer = 9000

// FrameOverflowError reports that the reassembly buffer filled without
// ever yielding a complete TLV (spec.md §5 "closed with frame-overflow").
type FrameOverflowError struct{}

func (FrameOverflowError) Error() string { return "frame-overflow: reassembly buffer exceeded" }

// reassembler accumulates bytes from a stream transport and extracts
// complete outer TLV frames, retaining any incomplete tail (grounded on
// the teacher's ReadTlvStream in std/utils/io/stream_read.go, adapted to
// a fixed-size bound instead of an elastic 8x-MTU buffer).
type reassembler struct {
	buf []byte
}

// Feed appends newBytes and returns every complete TLV frame found. It
// returns FrameOverflowError (alongside any frames already extracted) if
// the incomplete tail left in the buffer after extraction exceeds
// MaxReassemblyBuffer.
func (r *reassembler) Feed(newBytes []byte) ([][]byte, error) {
	r.buf = append(r.buf, newBytes...)

	var frames [][]byte
	for {
		typ, szT, ok1 := tlv.ParseVarNum(r.buf)
		if !ok1 {
			break
		}
		length, szL, ok2 := tlv.ParseVarNum(r.buf[szT:])
		if !ok2 {
			break
		}
		headerLen := szT + szL
		total := headerLen + int(length)
		if total > len(r.buf) {
			break
		}
		_ = typ
		frames = append(frames, append([]byte(nil), r.buf[:total]...))
		r.buf = r.buf[total:]
	}

	if len(r.buf) > MaxReassemblyBuffer {
		return frames, FrameOverflowError{}
	}
	return frames, nil
}
