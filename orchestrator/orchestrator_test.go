package orchestrator

import (
	"context"
	"testing"

	"corpussearch/blacklab/internal/postings"
	"corpussearch/blacklab/internal/spans"
)

// fakeSegment is a minimal single-term Segment used to drive Run across
// more than one shard without a real codec-backed index.
type fakeSegment struct {
	term string
	docs map[postings.DocID][]int
}

func (f *fakeSegment) Postings(field string, term []byte) (postings.PostingsEnum, error) {
	if string(term) != f.term {
		return nil, nil
	}
	var docOrder []postings.DocID
	for d := range f.docs {
		docOrder = append(docOrder, d)
	}
	for i := 0; i < len(docOrder); i++ {
		for j := i + 1; j < len(docOrder); j++ {
			if docOrder[j] < docOrder[i] {
				docOrder[i], docOrder[j] = docOrder[j], docOrder[i]
			}
		}
	}
	return &fakePostingsEnum{docOrder: docOrder, byDoc: f.docs, docCursor: -1}, nil
}

func (f *fakeSegment) DocFreq(field string, term []byte) (int, error) { return len(f.docs), nil }
func (f *fakeSegment) DocLength(field string, doc postings.DocID) (int, error) {
	return len(f.docs[doc]), nil
}

type fakePostingsEnum struct {
	docOrder  []postings.DocID
	byDoc     map[postings.DocID][]int
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
	return f.byDoc[f.docOrder[f.docCursor]][f.posCursor], nil
}
func (f *fakePostingsEnum) Payload() ([]byte, error) {
	return postings.EncodePayload(postings.Payload{Primary: true}), nil
}

func TestRunMergesHitsAcrossShards(t *testing.T) {
	shards := []Shard{
		{ID: "seg-0", Seg: &fakeSegment{term: "cat", docs: map[postings.DocID][]int{0: {1, 4}}}},
		{ID: "seg-1", Seg: &fakeSegment{term: "cat", docs: map[postings.DocID][]int{0: {2}}}},
	}
	hits, err := Run(context.Background(), spans.NewTerm("word", []byte("cat")), shards)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 3 {
		t.Fatalf("got %d hits, want 3: %+v", len(hits), hits)
	}
	bySegment := map[string]int{}
	for _, h := range hits {
		bySegment[h.SegmentID]++
	}
	if bySegment["seg-0"] != 2 || bySegment["seg-1"] != 1 {
		t.Fatalf("got %+v, want seg-0:2 seg-1:1", bySegment)
	}
}

func TestRunPropagatesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	shards := []Shard{
		{ID: "seg-0", Seg: &fakeSegment{term: "cat", docs: map[postings.DocID][]int{0: {1}}}},
	}
	_, err := Run(ctx, spans.NewTerm("word", []byte("cat")), shards)
	if err == nil {
		t.Fatalf("expected an error from a pre-cancelled context")
	}
}
