package codec

import (
	"encoding/binary"
	"io"

	"corpussearch/blacklab/internal/postings"
)

// WriteTerms writes the concatenated, length-prefixed term strings of
// .terms, in term-id order, and returns the byte offset (64-bit, per the
// §9 Open Question on >2 GB term data) of each term's start — the payload
// of .termindex.
func WriteTerms(w io.Writer, terms [][]byte) ([]int64, error) {
	offsets := make([]int64, len(terms))
	var pos int64
	for i, t := range terms {
		offsets[i] = pos
		if err := writeString(w, string(t)); err != nil {
			return nil, err
		}
		pos += 4 + int64(len(t))
	}
	return offsets, nil
}

// WriteTermIndex writes the .termindex body: n_terms x int64 offsets.
func WriteTermIndex(w io.Writer, offsets []int64) error {
	for _, off := range offsets {
		if err := binary.Write(w, binary.BigEndian, off); err != nil {
			return err
		}
	}
	return nil
}

// ReadTermIndex reads back n offsets.
func ReadTermIndex(r io.Reader, n int) ([]int64, error) {
	offsets := make([]int64, n)
	if err := binary.Read(r, binary.BigEndian, &offsets); err != nil {
		return nil, err
	}
	return offsets, nil
}

// Terms is the read surface over one field's term dictionary (§4.1 "Read
// surface"): random access by id, and full iteration.
type Terms struct {
	data    []byte // the full .terms byte range for this field
	offsets []int64
}

func NewTerms(data []byte, offsets []int64) *Terms {
	return &Terms{data: data, offsets: offsets}
}

// Count returns the number of terms (N_seg, I1).
func (t *Terms) Count() int { return len(t.offsets) }

// Get returns the term string for id, reading the length prefix at its
// recorded offset.
func (t *Terms) Get(id postings.TermID) []byte {
	off := t.offsets[id]
	n := binary.BigEndian.Uint32(t.data[off : off+4])
	return t.data[off+4 : off+4+int64(n)]
}

// All iterates every term in id order, calling fn(id, term) for each.
func (t *Terms) All(fn func(id postings.TermID, term []byte)) {
	for i := range t.offsets {
		fn(postings.TermID(i), t.Get(postings.TermID(i)))
	}
}
