package globalterms

import (
	"testing"

	"corpussearch/blacklab/internal/collate"
	"golang.org/x/text/language"
)

// TestUnionDeduplicatesSharedTerms checks the §4.3 step 2 union: the same
// term string appearing in two segments gets exactly one global id.
func TestUnionDeduplicatesSharedTerms(t *testing.T) {
	segs := []SegmentTerms{
		{
			Terms:                [][]byte{[]byte("cat"), []byte("dog")},
			SensitivePositions:   []int32{0, 1},
			InsensitivePositions: []int32{0, 1},
		},
		{
			Terms:                [][]byte{[]byte("dog"), []byte("emu")},
			SensitivePositions:   []int32{0, 1},
			InsensitivePositions: []int32{0, 1},
		},
	}
	col := collate.New(language.English)
	r := Build(segs, col)

	if r.NumTerms() != 3 {
		t.Fatalf("NumTerms = %d, want 3", r.NumTerms())
	}
	dogFromSeg0 := r.SegmentToGlobal(0, 1)
	dogFromSeg1 := r.SegmentToGlobal(1, 0)
	if dogFromSeg0 != dogFromSeg1 {
		t.Fatalf("dog should unify to one global id, got %d and %d", dogFromSeg0, dogFromSeg1)
	}
}

// TestSharedSegmentPositionsDeterminOrder exercises the cheap comparator
// path of §4.3 step 3: two terms that co-occur in a segment are ordered by
// that segment's own sort position rather than recollated.
func TestSharedSegmentPositionsDeterminOrder(t *testing.T) {
	segs := []SegmentTerms{
		{
			Terms:                [][]byte{[]byte("zeta"), []byte("alpha")},
			SensitivePositions:   []int32{1, 0},
			InsensitivePositions: []int32{1, 0},
		},
	}
	col := collate.New(language.English)
	r := Build(segs, col)

	zeta, _ := r.Lookup([]byte("zeta"))
	alpha, _ := r.Lookup([]byte("alpha"))
	if r.SortPos(alpha, collate.CaseSensitive) >= r.SortPos(zeta, collate.CaseSensitive) {
		t.Fatalf("alpha should sort before zeta per the segment's own order")
	}
}

// TestCaseEqualTermsGroupTogether checks §4.3 step 5: terms from different
// segments that only collate equal (never co-occurring in a shared
// segment) still end up in the same insensitive group.
func TestCaseEqualTermsGroupTogether(t *testing.T) {
	segs := []SegmentTerms{
		{
			Terms:                [][]byte{[]byte("The")},
			SensitivePositions:   []int32{0},
			InsensitivePositions: []int32{0},
		},
		{
			Terms:                [][]byte{[]byte("the")},
			SensitivePositions:   []int32{0},
			InsensitivePositions: []int32{0},
		},
	}
	col := collate.New(language.English)
	r := Build(segs, col)

	upper, _ := r.Lookup([]byte("The"))
	lower, _ := r.Lookup([]byte("the"))
	group := r.IndexOfGroup(upper)
	found := false
	for _, id := range group {
		if id == lower {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected The's group to contain the, got %v", group)
	}
}
