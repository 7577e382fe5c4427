package codec

import (
	"corpussearch/blacklab/internal/postings"
)

// FieldReader is the §4.1 "Read surface" for one (segment, field): random
// access to the term dictionary and to any document's token stream.
type FieldReader struct {
	field       Field
	terms       *Terms
	termOrder   TermOrder
	tokensIndex []TokensIndexEntry
	tokens      []byte // the full .tokens byte range backing this field
}

// NewFieldReader assembles a FieldReader from already-read extension-file
// sections. Callers (segment open, §9 "two-phase init") slice .terms,
// .termindex, .termorder and .tokensindex down to this field's byte range
// using the offsets recorded in its Field record, then decode each
// section once.
func NewFieldReader(field Field, termsData []byte, termIndex []int64, termOrder TermOrder, tokensIndex []TokensIndexEntry, tokensData []byte) *FieldReader {
	// Term offsets in .termindex are absolute (into the whole-segment
	// .terms stream); rebase them to termsData's local origin so Terms.Get
	// can index directly.
	base := int64(0)
	if len(termIndex) > 0 {
		base = termIndex[0]
	}
	local := make([]int64, len(termIndex))
	for i, o := range termIndex {
		local[i] = o - base
	}
	return &FieldReader{
		field:       field,
		terms:       NewTerms(termsData, local),
		termOrder:   termOrder,
		tokensIndex: tokensIndex,
		tokens:      tokensData,
	}
}

// Terms returns the field's term dictionary (iteration, total term count).
func (r *FieldReader) Terms() *Terms { return r.terms }

// SortPos returns the sort position of termID under the requested
// sensitivity (§4.1 read surface "sort_pos").
func (r *FieldReader) SortPos(termID postings.TermID, insensitive bool) int32 {
	return r.termOrder.SortPos(termID, insensitive)
}

// DocTokens returns the token ids at [start, end) for doc, in O(end-start)
// (§4.1 read surface "doc_tokens").
func (r *FieldReader) DocTokens(doc postings.DocID, start, end int) ([]postings.TermID, error) {
	entry := r.tokensIndex[doc]
	payload := r.tokens[entry.Offset : entry.Offset+int64(payloadLen(entry))]
	return DecodeDoc(payload, entry, start, end)
}

// DocLength returns the recorded length of doc's token stream.
func (r *FieldReader) DocLength(doc postings.DocID) int {
	return int(r.tokensIndex[doc].Length)
}

func payloadLen(e TokensIndexEntry) int64 {
	if e.Length == 0 {
		return 0
	}
	if e.Tag == TagAllTokensTheSame {
		return 4
	}
	return int64(e.Length) * int64(e.Param)
}
