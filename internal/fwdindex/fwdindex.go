// Package fwdindex implements the forward-index reader (§4.2): random
// access, per (segment, field), from a document id and a position range to
// the term ids stored there.
package fwdindex

import (
	"corpussearch/blacklab/internal/codec"
	"corpussearch/blacklab/internal/postings"
)

// Index is the thread-safe parent a segment opens once: the already
// decoded `.tokensindex`/`.tokens` sections for one field, immutable after
// construction (§5 "Shared resources").
type Index struct {
	reader *codec.FieldReader
}

// New wraps an already-assembled FieldReader as a forward index.
func New(reader *codec.FieldReader) *Index {
	return &Index{reader: reader}
}

// NewReader clones a per-thread view. The view holds no mutable state of
// its own today — decoding is stateless — but the method exists so
// callers never share an Index's internals directly, and so a future
// per-thread decode buffer has somewhere to live without changing the
// call sites (§4.2 "Readers are per-thread views cloned from a
// thread-safe parent; no shared mutable state").
func (idx *Index) NewReader() *Reader {
	return &Reader{reader: idx.reader}
}

// Reader is a per-thread view over an Index.
type Reader struct {
	reader *codec.FieldReader
}

// DocLength returns doc's recorded token count.
func (r *Reader) DocLength(doc postings.DocID) int {
	return r.reader.DocLength(doc)
}

// Slice implements §4.2's four-step read: look up the per-doc tokens-index
// entry, clamp the requested range to the document's actual length, and
// decode — delegating the tag-specific fan-out (ALL_TOKENS_THE_SAME vs a
// width-specific VALUE_PER_TOKEN stream) to the codec package, which
// already knows the on-disk encoding.
func (r *Reader) Slice(doc postings.DocID, start, end int) ([]postings.TermID, error) {
	length := r.reader.DocLength(doc)
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if end < start {
		end = start
	}
	return r.reader.DocTokens(doc, start, end)
}

// TermAt returns the single term id at position pos in doc, the common
// case driving NFA matching (§4.5) one position at a time.
func (r *Reader) TermAt(doc postings.DocID, pos int) (postings.TermID, error) {
	ids, err := r.Slice(doc, pos, pos+1)
	if err != nil {
		return postings.NoTerm, err
	}
	if len(ids) == 0 {
		return postings.NoTerm, nil
	}
	return ids[0], nil
}

// SortPos delegates to the underlying field's term order (§4.1 read
// surface), exposed here so span-query nodes that only hold a forward
// index reference still reach sort positions without going back through
// the codec package.
func (r *Reader) SortPos(termID postings.TermID, insensitive bool) int32 {
	return r.reader.SortPos(termID, insensitive)
}

// Terms returns the field's term dictionary.
func (r *Reader) Terms() *codec.Terms {
	return r.reader.Terms()
}
