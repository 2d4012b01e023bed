package ndn

import (
	"time"

	"github.com/named-data/certbundle/tlv"
)

// TLV type numbers for MetaInfo and its children (spec.md §6).
const (
	TypeMetaInfo        tlv.VarNum = 0x14
	TypeContentType     tlv.VarNum = 0x18
	TypeFreshnessPeriod tlv.VarNum = 0x19
	TypeFinalBlockId    tlv.VarNum = 0x1a
)

// ContentType enumerates the Data ContentType field.
type ContentType uint64

const (
	ContentTypeBlob ContentType = 0
	ContentTypeLink ContentType = 1
	ContentTypeKey  ContentType = 2
	ContentTypeNack ContentType = 3
)

// MetaInfo carries the Data packet's auxiliary fields relevant to bundle
// segmentation and caching (spec.md §3 "MetaInfo"): the content type, the
// freshness period governing cache eviction, and the FinalBlockId marking
// the last segment of a multi-segment object.
type MetaInfo struct {
	ContentType      ContentType
	FreshnessPeriod  time.Duration // 0 if unset
	FinalBlockId     *Component    // nil if unset
}

func (m MetaInfo) wireEncode() *tlv.Block {
	b := tlv.NewEmptyBlock(TypeMetaInfo)
	if m.ContentType != ContentTypeBlob {
		b.Append(tlv.NewBlock(TypeContentType, tlv.Nat(m.ContentType).Bytes()))
	}
	if m.FreshnessPeriod > 0 {
		ms := uint64(m.FreshnessPeriod / time.Millisecond)
		b.Append(tlv.NewBlock(TypeFreshnessPeriod, tlv.Nat(ms).Bytes()))
	}
	if m.FinalBlockId != nil {
		fb := tlv.NewEmptyBlock(TypeFinalBlockId)
		fb.Append(tlv.NewBlock(m.FinalBlockId.Typ, m.FinalBlockId.Val))
		b.Append(fb)
	}
	return b
}

func decodeMetaInfo(b *tlv.Block) (MetaInfo, error) {
	var m MetaInfo
	if ctBlock := b.Find(TypeContentType); ctBlock != nil {
		n, err := tlv.ParseNat(ctBlock.Value())
		if err != nil {
			return m, ErrCodec("metainfo: bad ContentType: %v", err)
		}
		m.ContentType = ContentType(n)
	}
	if fpBlock := b.Find(TypeFreshnessPeriod); fpBlock != nil {
		n, err := tlv.ParseNat(fpBlock.Value())
		if err != nil {
			return m, ErrCodec("metainfo: bad FreshnessPeriod: %v", err)
		}
		m.FreshnessPeriod = time.Duration(n) * time.Millisecond
	}
	if fbBlock := b.Find(TypeFinalBlockId); fbBlock != nil {
		subs := fbBlock.Subelements()
		if len(subs) != 1 {
			return m, ErrCodec("metainfo: FinalBlockId must wrap exactly one component")
		}
		c := Component{Typ: subs[0].Type(), Val: append([]byte(nil), subs[0].Value()...)}
		m.FinalBlockId = &c
	}
	return m, nil
}
