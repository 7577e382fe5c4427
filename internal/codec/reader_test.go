package codec

import (
	"bytes"
	"testing"

	"corpussearch/blacklab/internal/postings"
)

// TestFieldReaderDocTokensOnTrailingEmptyDoc is the read-back half of
// TestEmptyDocWritesNoPayloadBytes: the last document in a field can have
// length zero and its TokensIndexEntry.Offset then lands exactly at the end
// of the field's .tokens byte range, since no payload bytes were appended
// for it. DocTokens must not slice past that range.
func TestFieldReaderDocTokensOnTrailingEmptyDoc(t *testing.T) {
	terms := &fakeTermsEnum{
		terms:    [][]byte{[]byte("a")},
		postings: [][]fakePosting{{{doc: 0, pos: 0, primary: true}}},
	}
	var termsBuf, termIndexBuf, termOrderBuf, tokensBuf, tokensIndexBuf bytes.Buffer
	sw := NewSegmentWriter(SegmentFiles{
		Terms: &termsBuf, TermIndex: &termIndexBuf, TermOrder: &termOrderBuf,
		Tokens: &tokensBuf, TokensIndex: &tokensIndexBuf,
	}, Collators{Sensitive: byteExact, Insensitive: byteLower})

	// numDocs=2: doc 0 has one token, doc 1 (trailing) has none.
	field, err := sw.WriteField("word", terms, 2)
	if err != nil {
		t.Fatal(err)
	}

	tokensIndexData := tokensIndexBuf.Bytes()
	var entries []TokensIndexEntry
	r := bytes.NewReader(tokensIndexData)
	for r.Len() >= TokensIndexEntrySize {
		e, err := ReadTokensIndexEntry(r)
		if err != nil {
			t.Fatal(err)
		}
		entries = append(entries, e)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d tokensindex entries, want 2", len(entries))
	}
	if entries[1].Length != 0 {
		t.Fatalf("trailing doc Length = %d, want 0", entries[1].Length)
	}
	if int(entries[1].Offset) != tokensBuf.Len() {
		t.Fatalf("trailing empty doc Offset = %d, want %d (end of .tokens)", entries[1].Offset, tokensBuf.Len())
	}

	fr := NewFieldReader(field, nil, nil, TermOrder{}, entries, tokensBuf.Bytes())

	got, err := fr.DocTokens(postings.DocID(1), 0, 0)
	if err != nil {
		t.Fatalf("DocTokens on trailing empty doc: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d tokens for an empty doc, want 0", len(got))
	}
}
