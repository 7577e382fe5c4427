package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"corpussearch/blacklab/internal/postings"
)

// CodecTag selects how one document's token stream is packed into .tokens
// (§4.1 "Tokens encoding").
type CodecTag int8

const (
	TagAllTokensTheSame CodecTag = 0
	TagValuePerToken    CodecTag = 1
)

// Width is the codec_param sub-parameter of TagValuePerToken: the number of
// bytes used per stored term id, chosen as the smallest width that holds
// the maximum term id occurring in the document (§4.1).
type Width int8

const (
	WidthByte      Width = 1
	WidthShort     Width = 2
	WidthThreeByte Width = 3
	WidthInt       Width = 4
)

// sentinelFor returns the all-ones value reserved to mean NO_TERM when a
// document has at least one gap and is packed at the given width; it is
// the one value never assigned to a real dense term id as long as maxTermID
// is strictly less than it, which WidthFor below guarantees.
func sentinelFor(width Width) int64 {
	if width == WidthInt {
		return -1 // full 32-bit two's complement round trip
	}
	return int64(1)<<(8*uint(width)) - 1
}

// WidthFor returns the smallest Width that can represent maxTermID and,
// when hasGap is true, still leaves the width's all-ones value free to use
// as the NO_TERM sentinel (§3 I4).
func WidthFor(maxTermID postings.TermID, hasGap bool) Width {
	fits := func(w Width) bool {
		if w == WidthInt {
			return true
		}
		limit := int64(1) << (8 * uint(w))
		if hasGap {
			limit-- // reserve the all-ones sentinel
		}
		return int64(maxTermID) < limit
	}
	switch {
	case fits(WidthByte):
		return WidthByte
	case fits(WidthShort):
		return WidthShort
	case fits(WidthThreeByte):
		return WidthThreeByte
	default:
		return WidthInt
	}
}

// TokensIndexEntry is one fixed-stride record of .tokensindex (§6.2).
type TokensIndexEntry struct {
	Offset int64
	Length int32
	Tag    CodecTag
	Param  int8 // Width, when Tag == TagValuePerToken
}

const TokensIndexEntrySize = 8 + 4 + 1 + 1

func WriteTokensIndexEntry(w io.Writer, e TokensIndexEntry) error {
	if err := binary.Write(w, binary.BigEndian, e.Offset); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, e.Length); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int8(e.Tag)); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, e.Param)
}

func ReadTokensIndexEntry(r io.Reader) (TokensIndexEntry, error) {
	var e TokensIndexEntry
	var tag int8
	if err := binary.Read(r, binary.BigEndian, &e.Offset); err != nil {
		return e, err
	}
	if err := binary.Read(r, binary.BigEndian, &e.Length); err != nil {
		return e, err
	}
	if err := binary.Read(r, binary.BigEndian, &tag); err != nil {
		return e, err
	}
	e.Tag = CodecTag(tag)
	if err := binary.Read(r, binary.BigEndian, &e.Param); err != nil {
		return e, err
	}
	return e, nil
}

// ChooseCodec performs the §4.1 step-4 "single linear scan" over a
// complete doc-length-sized token array (with NO_TERM gaps) to decide
// between ALL_TOKENS_THE_SAME and the cheapest VALUE_PER_TOKEN width.
func ChooseCodec(tokens []postings.TermID) (CodecTag, Width) {
	if len(tokens) == 0 {
		return TagAllTokensTheSame, WidthByte
	}
	allSame := true
	hasGap := false
	var maxID postings.TermID = 0
	first := tokens[0]
	for _, t := range tokens {
		if t != first {
			allSame = false
		}
		if t == postings.NoTerm {
			hasGap = true
			continue
		}
		if t > maxID {
			maxID = t
		}
	}
	if allSame && !hasGap {
		return TagAllTokensTheSame, WidthByte
	}
	return TagValuePerToken, WidthFor(maxID, hasGap)
}

// EncodeDoc packs tokens (length == doc_length, with postings.NoTerm at
// gaps per I4) into the payload bytes written to .tokens for the chosen
// codec.
func EncodeDoc(tokens []postings.TermID, tag CodecTag, width Width) ([]byte, error) {
	if tag == TagAllTokensTheSame {
		buf := make([]byte, 4)
		var v int32 = -1
		if len(tokens) > 0 {
			v = int32(tokens[0])
		}
		binary.BigEndian.PutUint32(buf, uint32(v))
		return buf, nil
	}
	buf := make([]byte, int(width)*len(tokens))
	for i, t := range tokens {
		off := i * int(width)
		v := int64(t)
		if t == postings.NoTerm {
			v = sentinelFor(width)
		}
		putWidth(buf[off:off+int(width)], v, width)
	}
	return buf, nil
}

// DecodeDoc reads a [start, end) slice of a document's token stream out of
// an encoded payload, per §4.2: clamp to [0, length), then either fill
// with the single ALL_TOKENS_THE_SAME value or decode the width-appropriate
// stream.
func DecodeDoc(payload []byte, entry TokensIndexEntry, start, end int) ([]postings.TermID, error) {
	length := int(entry.Length)
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if end < start {
		end = start
	}
	out := make([]postings.TermID, end-start)
	if entry.Tag == TagAllTokensTheSame {
		if len(out) == 0 {
			return out, nil
		}
		if len(payload) < 4 {
			return nil, fmt.Errorf("codec: truncated ALL_TOKENS_THE_SAME payload")
		}
		v := postings.TermID(int32(binary.BigEndian.Uint32(payload)))
		for i := range out {
			out[i] = v
		}
		return out, nil
	}
	width := Width(entry.Param)
	need := (end - start) * int(width)
	off := start * int(width)
	if off+need > len(payload) {
		return nil, fmt.Errorf("codec: truncated VALUE_PER_TOKEN payload")
	}
	for i := 0; i < end-start; i++ {
		raw := getWidth(payload[off+i*int(width):off+(i+1)*int(width)], width)
		if raw == sentinelFor(width) {
			out[i] = postings.NoTerm
		} else {
			out[i] = postings.TermID(int32(raw))
		}
	}
	return out, nil
}

func putWidth(dst []byte, v int64, width Width) {
	switch width {
	case WidthByte:
		dst[0] = byte(uint64(v))
	case WidthShort:
		binary.BigEndian.PutUint16(dst, uint16(uint64(v)))
	case WidthThreeByte:
		u := uint64(v)
		dst[0] = byte(u >> 16)
		dst[1] = byte(u >> 8)
		dst[2] = byte(u)
	case WidthInt:
		binary.BigEndian.PutUint32(dst, uint32(int32(v)))
	}
}

func getWidth(src []byte, width Width) int64 {
	switch width {
	case WidthByte:
		return int64(src[0])
	case WidthShort:
		return int64(binary.BigEndian.Uint16(src))
	case WidthThreeByte:
		return int64(src[0])<<16 | int64(src[1])<<8 | int64(src[2])
	case WidthInt:
		return int64(int32(binary.BigEndian.Uint32(src)))
	}
	return 0
}
