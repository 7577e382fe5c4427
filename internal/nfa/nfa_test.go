package nfa

import (
	"bytes"
	"testing"

	"golang.org/x/text/language"

	"corpussearch/blacklab/internal/codec"
	"corpussearch/blacklab/internal/collate"
	"corpussearch/blacklab/internal/fwdindex"
	"corpussearch/blacklab/internal/globalterms"
	"corpussearch/blacklab/internal/morphology"
	"corpussearch/blacklab/internal/postings"
)

type fakePosting struct {
	doc     postings.DocID
	pos     int
	primary bool
}

type fakeTermsEnum struct {
	terms    [][]byte
	postings [][]fakePosting
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

// buildFixture writes one doc containing tokenStream (each a distinct term,
// one occurrence, in position order) and returns a forward-index reader
// plus a global terms reader over that single segment.
func buildFixture(t *testing.T, tokenStream []string) (*fwdindex.Reader, *globalterms.Reader) {
	t.Helper()
	termBytes := make([][]byte, len(tokenStream))
	postingsPerTerm := make([][]fakePosting, len(tokenStream))
	for i, tok := range tokenStream {
		termBytes[i] = []byte(tok)
		postingsPerTerm[i] = []fakePosting{{doc: 0, pos: i, primary: true}}
	}
	terms := &fakeTermsEnum{terms: termBytes, postings: postingsPerTerm}

	var termsBuf, termIndexBuf, termOrderBuf, tokensBuf, tokensIndexBuf bytes.Buffer
	sw := codec.NewSegmentWriter(codec.SegmentFiles{
		Terms: &termsBuf, TermIndex: &termIndexBuf, TermOrder: &termOrderBuf,
		Tokens: &tokensBuf, TokensIndex: &tokensIndexBuf,
	}, codec.Collators{Sensitive: byteExact, Insensitive: byteLower})

	field, err := sw.WriteField("word", terms, 1)
	if err != nil {
		t.Fatal(err)
	}
	termIndex, err := codec.ReadTermIndex(bytes.NewReader(termIndexBuf.Bytes()), int(field.NumTerms))
	if err != nil {
		t.Fatal(err)
	}
	termOrder, err := codec.ReadTermOrder(bytes.NewReader(termOrderBuf.Bytes()), int(field.NumTerms))
	if err != nil {
		t.Fatal(err)
	}
	entry, err := codec.ReadTokensIndexEntry(bytes.NewReader(tokensIndexBuf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	fr := codec.NewFieldReader(field, termsBuf.Bytes(), termIndex, termOrder, []codec.TokensIndexEntry{entry}, tokensBuf.Bytes())
	reader := fwdindex.New(fr).NewReader()

	positions := make([]int32, len(tokenStream))
	for i := range positions {
		positions[i] = int32(i)
	}
	col := collate.New(language.English)
	gt := globalterms.Build([]globalterms.SegmentTerms{{
		Terms:                termBytes,
		SensitivePositions:   positions,
		InsensitivePositions: positions,
	}}, col)
	return reader, gt
}

func TestLiteralTokenMatchesSinglePosition(t *testing.T) {
	reader, gt := buildFixture(t, []string{"cat", "sat", "mat"})
	prog := Compile(LiteralExpr(gt, []byte("sat")))
	m := NewMatcher(prog, reader, gt, 0, Forward)

	end, matched, err := m.MatchAt(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !matched || end != 2 {
		t.Fatalf("got (end=%d, matched=%v), want (2, true)", end, matched)
	}

	_, matched, err = m.MatchAt(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if matched {
		t.Fatalf("expected no match at position 0 for term \"sat\"")
	}
}

func TestConcatMatchesAdjacentTokens(t *testing.T) {
	reader, gt := buildFixture(t, []string{"the", "cat", "sat", "down"})
	prog := Compile(Concat{Operands: []Expr{
		LiteralExpr(gt, []byte("cat")),
		LiteralExpr(gt, []byte("sat")),
	}})
	m := NewMatcher(prog, reader, gt, 0, Forward)

	end, matched, err := m.MatchAt(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !matched || end != 3 {
		t.Fatalf("got (end=%d, matched=%v), want (3, true)", end, matched)
	}
}

func TestAltMatchesEitherBranch(t *testing.T) {
	reader, gt := buildFixture(t, []string{"cat", "dog"})
	prog := Compile(Alt{Operands: []Expr{
		LiteralExpr(gt, []byte("cat")),
		LiteralExpr(gt, []byte("dog")),
	}})
	m := NewMatcher(prog, reader, gt, 0, Forward)

	if _, matched, err := m.MatchAt(0, 0); err != nil || !matched {
		t.Fatalf("expected match at position 0, err=%v matched=%v", err, matched)
	}
	if _, matched, err := m.MatchAt(0, 1); err != nil || !matched {
		t.Fatalf("expected match at position 1, err=%v matched=%v", err, matched)
	}
}

func TestBoundedRepeatRequiresMinimumOccurrences(t *testing.T) {
	reader, gt := buildFixture(t, []string{"la", "la", "la", "end"})
	prog := Compile(Concat{Operands: []Expr{
		Repeat{Operand: LiteralExpr(gt, []byte("la")), Min: 2, Max: 3},
		LiteralExpr(gt, []byte("end")),
	}})
	m := NewMatcher(prog, reader, gt, 0, Forward)

	end, matched, err := m.MatchAt(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !matched || end != 4 {
		t.Fatalf("got (end=%d, matched=%v), want (4, true)", end, matched)
	}
}

func TestUnboundedRepeatMatchesRun(t *testing.T) {
	reader, gt := buildFixture(t, []string{"a", "a", "a", "b"})
	prog := Compile(Concat{Operands: []Expr{
		Repeat{Operand: LiteralExpr(gt, []byte("a")), Min: 1, Max: -1},
		LiteralExpr(gt, []byte("b")),
	}})
	m := NewMatcher(prog, reader, gt, 0, Forward)

	end, matched, err := m.MatchAt(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !matched || end != 4 {
		t.Fatalf("got (end=%d, matched=%v), want (4, true)", end, matched)
	}
}

func TestBackwardDirectionWalksTowardsStart(t *testing.T) {
	reader, gt := buildFixture(t, []string{"begin", "middle", "target"})
	prog := Compile(LiteralExpr(gt, []byte("middle")))
	m := NewMatcher(prog, reader, gt, 0, Backward)

	end, matched, err := m.MatchAt(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !matched || end != 0 {
		t.Fatalf("got (end=%d, matched=%v), want (0, true)", end, matched)
	}
}

func TestStemmedEqualityPredicateMatchesInflectedForm(t *testing.T) {
	reader, gt := buildFixture(t, []string{"the", "cats", "ran"})
	pred := ExpandPredicate(gt, func(term []byte) bool {
		ok, err := morphology.StemEquals(term, "cat", "english")
		return err == nil && ok
	})
	prog := Compile(Token{Predicate: pred})
	m := NewMatcher(prog, reader, gt, 0, Forward)

	end, matched, err := m.MatchAt(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !matched || end != 2 {
		t.Fatalf("got (end=%d, matched=%v), want (2, true)", end, matched)
	}
}
