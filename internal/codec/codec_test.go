package codec

import (
	"bytes"
	"testing"

	"corpussearch/blacklab/internal/postings"
)

// fakePosting is one (doc, position, primary) triple for the in-memory
// postings fixtures below.
type fakePosting struct {
	doc     postings.DocID
	pos     int
	primary bool
}

type fakeTermsEnum struct {
	terms    [][]byte
	postings [][]fakePosting // postings[i] belongs to terms[i]
	idx      int
}

func (f *fakeTermsEnum) Next() bool {
	f.idx++
	return f.idx <= len(f.terms)
}
func (f *fakeTermsEnum) Term() []byte { return f.terms[f.idx-1] }
func (f *fakeTermsEnum) DocFreq() (int, error) {
	seen := map[postings.DocID]bool{}
	for _, p := range f.postings[f.idx-1] {
		seen[p.doc] = true
	}
	return len(seen), nil
}
func (f *fakeTermsEnum) Postings() (postings.PostingsEnum, error) {
	byDoc := map[postings.DocID][]fakePosting{}
	var docOrder []postings.DocID
	for _, p := range f.postings[f.idx-1] {
		if _, ok := byDoc[p.doc]; !ok {
			docOrder = append(docOrder, p.doc)
		}
		byDoc[p.doc] = append(byDoc[p.doc], p)
	}
	return &fakePostingsEnum{docOrder: docOrder, byDoc: byDoc, docCursor: -1}, nil
}

type fakePostingsEnum struct {
	docOrder  []postings.DocID
	byDoc     map[postings.DocID][]fakePosting
	docCursor int
	posCursor int
}

func (f *fakePostingsEnum) NextDoc() (postings.DocID, error) {
	f.docCursor++
	f.posCursor = -1
	if f.docCursor >= len(f.docOrder) {
		return postings.NoMoreDocs, nil
	}
	return f.docOrder[f.docCursor], nil
}
func (f *fakePostingsEnum) Freq() (int, error) {
	return len(f.byDoc[f.docOrder[f.docCursor]]), nil
}
func (f *fakePostingsEnum) NextPosition() (int, error) {
	f.posCursor++
	return f.byDoc[f.docOrder[f.docCursor]][f.posCursor].pos, nil
}
func (f *fakePostingsEnum) Payload() ([]byte, error) {
	p := f.byDoc[f.docOrder[f.docCursor]][f.posCursor]
	return postings.EncodePayload(postings.Payload{Primary: p.primary}), nil
}

func byteLower(a, b []byte) int { return bytes.Compare(bytes.ToLower(a), bytes.ToLower(b)) }
func byteExact(a, b []byte) int { return bytes.Compare(a, b) }

// TestS1SingleDocByteWidth is the §8 S1 scenario: one field, one doc,
// tokens [3,1,3,2], expecting a VALUE_PER_TOKEN/BYTE encoding that reads
// back byte for byte.
func TestS1SingleDocByteWidth(t *testing.T) {
	// Four terms so that term id 3 exists; only term ids [3,1,3,2] occur
	// as primary values at positions [0,1,2,3].
	terms := &fakeTermsEnum{
		terms: [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")},
		postings: [][]fakePosting{
			{}, // term 0 unused in this doc
			{{doc: 0, pos: 1, primary: true}},
			{{doc: 0, pos: 3, primary: true}},
			{{doc: 0, pos: 0, primary: true}, {doc: 0, pos: 2, primary: true}},
		},
	}

	var termsBuf, termIndexBuf, termOrderBuf, tokensBuf, tokensIndexBuf bytes.Buffer
	sw := NewSegmentWriter(SegmentFiles{
		Terms:       &termsBuf,
		TermIndex:   &termIndexBuf,
		TermOrder:   &termOrderBuf,
		Tokens:      &tokensBuf,
		TokensIndex: &tokensIndexBuf,
	}, Collators{Sensitive: byteExact, Insensitive: byteLower})

	field, err := sw.WriteField("word", terms, 1)
	if err != nil {
		t.Fatal(err)
	}
	if field.NumTerms != 4 {
		t.Fatalf("NumTerms = %d, want 4", field.NumTerms)
	}

	entry, err := ReadTokensIndexEntry(bytes.NewReader(tokensIndexBuf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if entry.Offset != 0 || entry.Length != 4 || entry.Tag != TagValuePerToken || Width(entry.Param) != WidthByte {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	want := []byte{3, 1, 3, 2}
	if !bytes.Equal(tokensBuf.Bytes(), want) {
		t.Fatalf("tokens payload = %v, want %v", tokensBuf.Bytes(), want)
	}

	got, err := DecodeDoc(tokensBuf.Bytes(), entry, 0, 4)
	if err != nil {
		t.Fatal(err)
	}
	gotInts := make([]int, len(got))
	for i, g := range got {
		gotInts[i] = int(g)
	}
	wantInts := []int{3, 1, 3, 2}
	for i := range wantInts {
		if gotInts[i] != wantInts[i] {
			t.Fatalf("DecodeDoc = %v, want %v", gotInts, wantInts)
		}
	}
}

// TestS2AllTokensTheSame is the §8 S2 scenario: 1000 positions, all term
// id 7.
func TestS2AllTokensTheSame(t *testing.T) {
	var postingsList []fakePosting
	for i := 0; i < 1000; i++ {
		postingsList = append(postingsList, fakePosting{doc: 0, pos: i, primary: true})
	}
	terms := &fakeTermsEnum{
		terms:    [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d"), []byte("e"), []byte("f"), []byte("g"), []byte("seven")},
		postings: [][]fakePosting{{}, {}, {}, {}, {}, {}, {}, postingsList},
	}

	var termsBuf, termIndexBuf, termOrderBuf, tokensBuf, tokensIndexBuf bytes.Buffer
	sw := NewSegmentWriter(SegmentFiles{
		Terms: &termsBuf, TermIndex: &termIndexBuf, TermOrder: &termOrderBuf,
		Tokens: &tokensBuf, TokensIndex: &tokensIndexBuf,
	}, Collators{Sensitive: byteExact, Insensitive: byteLower})

	if _, err := sw.WriteField("word", terms, 1); err != nil {
		t.Fatal(err)
	}

	entry, err := ReadTokensIndexEntry(bytes.NewReader(tokensIndexBuf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if entry.Tag != TagAllTokensTheSame {
		t.Fatalf("Tag = %v, want TagAllTokensTheSame", entry.Tag)
	}
	if len(tokensBuf.Bytes()) != 4 {
		t.Fatalf("payload length = %d, want 4", len(tokensBuf.Bytes()))
	}

	got, err := DecodeDoc(tokensBuf.Bytes(), entry, 0, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1000 {
		t.Fatalf("got %d positions, want 1000", len(got))
	}
	for i, g := range got {
		if g != 7 {
			t.Fatalf("position %d = %d, want 7", i, g)
		}
	}
}

// TestEmptyDocWritesNoPayloadBytes checks §4.1's "a doc of length zero
// writes no payload bytes".
func TestEmptyDocWritesNoPayloadBytes(t *testing.T) {
	terms := &fakeTermsEnum{terms: [][]byte{[]byte("a")}, postings: [][]fakePosting{{}}}
	var termsBuf, termIndexBuf, termOrderBuf, tokensBuf, tokensIndexBuf bytes.Buffer
	sw := NewSegmentWriter(SegmentFiles{
		Terms: &termsBuf, TermIndex: &termIndexBuf, TermOrder: &termOrderBuf,
		Tokens: &tokensBuf, TokensIndex: &tokensIndexBuf,
	}, Collators{Sensitive: byteExact, Insensitive: byteLower})

	if _, err := sw.WriteField("word", terms, 1); err != nil {
		t.Fatal(err)
	}
	if tokensBuf.Len() != 0 {
		t.Fatalf("expected zero tokens bytes, got %d", tokensBuf.Len())
	}
	entry, err := ReadTokensIndexEntry(bytes.NewReader(tokensIndexBuf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if entry.Length != 0 {
		t.Fatalf("Length = %d, want 0", entry.Length)
	}
}

// TestTermOrderCollapsesCaseEqualTerms is the §8 T2/Q3-flavored check:
// "The" and "the" collate equal insensitively and must share a sort
// position, each still being its own valid representative.
func TestTermOrderCollapsesCaseEqualTerms(t *testing.T) {
	terms := [][]byte{[]byte("The"), []byte("cat"), []byte("the")}
	to := BuildTermOrder(terms, byteExact, byteLower)

	posThe := to.TermID2InsensitivePos[0]
	posLowerThe := to.TermID2InsensitivePos[2]
	posCat := to.TermID2InsensitivePos[1]
	if posThe != posLowerThe {
		t.Fatalf("The and the should share insensitive sort position: %d != %d", posThe, posLowerThe)
	}
	if posThe == posCat {
		t.Fatalf("The/the should not share a position with cat")
	}
	if to.TermID2InsensitivePos[to.InsensitivePos2TermID[posThe]] != posThe {
		t.Fatalf("Q3 representative law violated")
	}
}

// TestWidthForReservesSentinel checks that a document containing a gap
// never collides NO_TERM with a real term id at the chosen width.
func TestWidthForReservesSentinel(t *testing.T) {
	if w := WidthFor(255, true); w != WidthShort {
		t.Fatalf("WidthFor(255, hasGap=true) = %v, want WidthShort (byte's 0xFF is needed for the sentinel)", w)
	}
	if w := WidthFor(255, false); w != WidthByte {
		t.Fatalf("WidthFor(255, hasGap=false) = %v, want WidthByte", w)
	}
}
