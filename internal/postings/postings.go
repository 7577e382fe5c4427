// Package postings defines the narrow interface (§6.3) through which the
// core consumes an external inverted index: a "postings/terms enumerator"
// contract. The core never implements a general inverted index; it only
// asks one of these for what it needs.
package postings

// DocID is a segment-local document id (§3 "segment doc id").
type DocID int32

// NoMoreDocs is the sentinel DocID returned once an enumerator is exhausted.
const NoMoreDocs DocID = -1

// TermID is a segment-local dense term id (§3, I1).
type TermID int32

// NoTerm is the sentinel stored at token positions with no primary value
// (§3 I4, "gap").
const NoTerm TermID = -1

// FieldsEnumerator lists the annotated fields present in one segment.
type FieldsEnumerator interface {
	// FieldsInSegment returns every field name the delegate postings format
	// knows about for this segment, forward-index-eligible or not. The
	// codec does not call it: SegmentWriter.WriteField writes the one field
	// its caller names.
	FieldsInSegment() ([]string, error)
	// MaxDocInSegment returns one past the largest valid segment doc id.
	MaxDocInSegment() (int32, error)
}

// TermsEnum enumerates a field's term dictionary in term-sorted order, the
// same order the segment codec writer walks it in (§4.1 step 1).
type TermsEnum interface {
	// Next advances to the next term, returning false when exhausted.
	Next() bool
	// Term returns the current term's byte string. Valid only after a call
	// to Next that returned true.
	Term() []byte
	// DocFreq returns the number of documents in which the current term
	// occurs at least once.
	DocFreq() (int, error)
	// Postings returns a PostingsEnum for the current term.
	Postings() (PostingsEnum, error)
}

// PostingsEnum enumerates the documents and positions of one term.
type PostingsEnum interface {
	// NextDoc advances to the next document containing the term, or returns
	// NoMoreDocs when exhausted.
	NextDoc() (DocID, error)
	// Freq returns the number of occurrences of the term within the
	// current document.
	Freq() (int, error)
	// NextPosition advances to the next occurrence's position within the
	// current document.
	NextPosition() (int, error)
	// Payload returns the raw payload bytes stored at the current
	// position, or nil if none. The payload protocol is decoded by the
	// Payload helper below, not by the enumerator itself.
	Payload() ([]byte, error)
}

// Payload is the decoded form of a position's payload bytes (§6.3
// "Payload protocol"): a leading indicator byte followed, for tag-span
// primary values, by the variable-length end position of the tag.
type Payload struct {
	Primary bool
	HasEnd  bool
	End     int
}

const primaryBit = 0x01
const hasEndBit = 0x02

// DecodePayload parses the indicator byte and, if present, the
// variable-length end-position integer that follows it. An empty input
// decodes to the zero Payload (not primary, no end).
func DecodePayload(b []byte) (Payload, error) {
	if len(b) == 0 {
		return Payload{}, nil
	}
	indicator := b[0]
	p := Payload{
		Primary: indicator&primaryBit != 0,
		HasEnd:  indicator&hasEndBit != 0,
	}
	if !p.HasEnd {
		return p, nil
	}
	end, _, err := decodeVarint(b[1:])
	if err != nil {
		return Payload{}, err
	}
	p.End = end
	return p, nil
}

// EncodePayload is the writer-side counterpart of DecodePayload.
func EncodePayload(p Payload) []byte {
	var indicator byte
	if p.Primary {
		indicator |= primaryBit
	}
	if p.HasEnd {
		indicator |= hasEndBit
	}
	out := []byte{indicator}
	if p.HasEnd {
		out = append(out, encodeVarint(p.End)...)
	}
	return out
}

func encodeVarint(v int) []byte {
	var out []byte
	u := uint64(v)
	for {
		b := byte(u & 0x7f)
		u >>= 7
		if u != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

func decodeVarint(b []byte) (int, int, error) {
	var result uint64
	var shift uint
	for i, byteVal := range b {
		result |= uint64(byteVal&0x7f) << shift
		if byteVal&0x80 == 0 {
			return int(result), i + 1, nil
		}
		shift += 7
	}
	return 0, 0, errTruncatedVarint
}

var errTruncatedVarint = errVarint("truncated varint")

type errVarint string

func (e errVarint) Error() string { return string(e) }
