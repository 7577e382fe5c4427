package codec

import (
	"encoding/binary"
	"io"
	"sort"

	"corpussearch/blacklab/internal/postings"
)

// TermOrder holds, for one field, the four parallel int32 arrays of
// .termorder (§4.1 "Term-order layout"): two inversion-table pairs, one
// per sensitivity.
type TermOrder struct {
	TermID2InsensitivePos []int32
	InsensitivePos2TermID []int32
	TermID2SensitivePos   []int32
	SensitivePos2TermID   []int32
}

// Comparator compares two term byte strings under one sensitivity. It
// returns <0, 0, >0 like bytes.Compare, and must be a total order that
// collapses collation-equal strings to 0 (§4.1, I3).
type Comparator func(a, b []byte) int

// BuildTermOrder computes both sort orders for a field's terms, following
// §4.1 step 5: sort stably by the comparator, then assign sort positions
// so that collation-equal adjacent terms share a position (the "pos == i
// iff i == 0 or collator(...) != 0" rule).
func BuildTermOrder(terms [][]byte, sensitive, insensitive Comparator) TermOrder {
	n := len(terms)
	to := TermOrder{
		TermID2InsensitivePos: make([]int32, n),
		InsensitivePos2TermID: make([]int32, n),
		TermID2SensitivePos:   make([]int32, n),
		SensitivePos2TermID:   make([]int32, n),
	}
	buildOne(terms, sensitive, to.TermID2SensitivePos, to.SensitivePos2TermID)
	buildOne(terms, insensitive, to.TermID2InsensitivePos, to.InsensitivePos2TermID)
	return to
}

// buildOne implements §4.1 step 5 for one sensitivity: order is a stable
// sort of term ids by cmp; pos2TermID[i] = order[i] for every i, and
// termID2Pos[order[i]] is the index of the start of order[i]'s
// collation-equal run. This satisfies the spec's law directly: pos == i
// iff i == 0 or cmp(terms[order[i-1]], terms[order[i]]) != 0, and gives
// every collation-equivalence class a representative i (Q3) at its run's
// start index, since termID2Pos[pos2TermID[runStart]] == runStart by
// construction.
func buildOne(terms [][]byte, cmp Comparator, termID2Pos, pos2TermID []int32) {
	n := len(terms)
	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return cmp(terms[order[i]], terms[order[j]]) < 0
	})
	copy(pos2TermID, order)
	pos := int32(0)
	for i, termID := range order {
		if i > 0 && cmp(terms[order[i-1]], terms[termID]) != 0 {
			pos = int32(i)
		}
		termID2Pos[termID] = pos
	}
}

// WriteTermOrder writes the four arrays, in the order mandated by §4.1:
// termID2InsensitivePos, insensitivePos2TermID, termID2SensitivePos,
// sensitivePos2TermID.
func WriteTermOrder(w io.Writer, to TermOrder) error {
	for _, arr := range [][]int32{
		to.TermID2InsensitivePos,
		to.InsensitivePos2TermID,
		to.TermID2SensitivePos,
		to.SensitivePos2TermID,
	} {
		if err := binary.Write(w, binary.BigEndian, arr); err != nil {
			return err
		}
	}
	return nil
}

// ReadTermOrder reads back the four n-length arrays written by
// WriteTermOrder.
func ReadTermOrder(r io.Reader, n int) (TermOrder, error) {
	var to TermOrder
	arrays := []*[]int32{
		&to.TermID2InsensitivePos,
		&to.InsensitivePos2TermID,
		&to.TermID2SensitivePos,
		&to.SensitivePos2TermID,
	}
	for _, a := range arrays {
		*a = make([]int32, n)
		if err := binary.Read(r, binary.BigEndian, *a); err != nil {
			return to, err
		}
	}
	return to, nil
}

// SortPos returns the sort position of id under the requested sensitivity.
func (to TermOrder) SortPos(id postings.TermID, insensitive bool) int32 {
	if insensitive {
		return to.TermID2InsensitivePos[id]
	}
	return to.TermID2SensitivePos[id]
}
