// Package globalterms implements the global terms service (§4.3): a
// union of per-segment term dictionaries into a single, stably numbered
// term space, with one sort order per sensitivity computed mostly from
// cheap per-segment agreement rather than re-collating every pair.
package globalterms

import (
	"sort"

	"corpussearch/blacklab/internal/collate"
	"corpussearch/blacklab/internal/postings"
)

// GlobalID is a term id assigned by the global terms service. Stable for
// the lifetime of one reader instance; never persisted (§3).
type GlobalID int32

// SegmentTerms is the minimal per-segment view the service needs: every
// term string, plus that term's sort position under both sensitivities in
// its own segment.
type SegmentTerms struct {
	Terms               [][]byte
	SensitivePositions  []int32 // parallel to Terms, by segment term id
	InsensitivePositions []int32
}

// segmentOccurrence records, for one global term, where it sits in one
// particular segment's own sort order — the cheap comparator path of §4.3
// step 3.
type segmentOccurrence struct {
	segment        int
	localID        postings.TermID
	sensitivePos   int32
	insensitivePos int32
}

// Reader is the frozen, queryable result of Build: term<->id maps and
// both global sort orders.
type Reader struct {
	terms   [][]byte
	termID  map[string]GlobalID
	seg2glob [][]GlobalID // per segment, local term id -> global id

	sortPosSensitive   []int32
	sortPosInsensitive []int32
	sensitivePos2ID    []GlobalID
	insensitivePos2ID  []GlobalID

	// groups[p] lists every global id sharing insensitive sort position p
	// (§4.3 step 5, "group index").
	groups map[int32][]GlobalID
}

// Build unions segs and computes both global sort orders using col as the
// fallback collator for terms that never co-occur in a common segment.
func Build(segs []SegmentTerms, col *collate.Collator) *Reader {
	terms := [][]byte{}
	termID := map[string]GlobalID{}
	occurrences := map[GlobalID][]segmentOccurrence{}
	seg2glob := make([][]GlobalID, len(segs))

	for s, seg := range segs {
		seg2glob[s] = make([]GlobalID, len(seg.Terms))
		for local, term := range seg.Terms {
			key := string(term)
			id, ok := termID[key]
			if !ok {
				id = GlobalID(len(terms))
				termID[key] = id
				terms = append(terms, term)
			}
			seg2glob[s][local] = id
			occurrences[id] = append(occurrences[id], segmentOccurrence{
				segment:        s,
				localID:        postings.TermID(local),
				sensitivePos:   seg.SensitivePositions[local],
				insensitivePos: seg.InsensitivePositions[local],
			})
		}
	}

	r := &Reader{
		terms:    terms,
		termID:   termID,
		seg2glob: seg2glob,
	}

	r.sortPosSensitive, r.sensitivePos2ID = sortGlobalTerms(terms, occurrences, col, collate.CaseSensitive, func(o segmentOccurrence) int32 { return o.sensitivePos })
	r.sortPosInsensitive, r.insensitivePos2ID = sortGlobalTerms(terms, occurrences, col, collate.CaseInsensitive, func(o segmentOccurrence) int32 { return o.insensitivePos })

	r.groups = map[int32][]GlobalID{}
	for id, pos := range r.sortPosInsensitive {
		r.groups[pos] = append(r.groups[pos], GlobalID(id))
	}
	return r
}

// sortGlobalTerms implements §4.3 steps 3-4: a comparator that prefers a
// shared-segment sort-position comparison over collation, a stable sort by
// that comparator, and the collapse of collation-equal runs into shared
// sort positions.
func sortGlobalTerms(terms [][]byte, occurrences map[GlobalID][]segmentOccurrence, col *collate.Collator, sensitivity collate.Sensitivity, posOf func(segmentOccurrence) int32) ([]int32, []GlobalID) {
	n := len(terms)
	order := make([]GlobalID, n)
	for i := range order {
		order[i] = GlobalID(i)
	}

	// Index occurrences by segment for O(1) "do these two terms share a
	// segment" lookups during comparison.
	bySeg := make([]map[GlobalID]segmentOccurrence, 0)
	segIndex := map[int]int{}
	for id, occs := range occurrences {
		for _, o := range occs {
			idx, ok := segIndex[o.segment]
			if !ok {
				idx = len(bySeg)
				segIndex[o.segment] = idx
				bySeg = append(bySeg, map[GlobalID]segmentOccurrence{})
			}
			bySeg[idx][id] = o
		}
	}

	// Collation keys are cached only for the duration of this sort —
	// never retained afterwards (§9 "Collation keys cache ... discarded
	// after build").
	keyCache := map[GlobalID][]byte{}
	keyOf := func(id GlobalID) []byte {
		if k, ok := keyCache[id]; ok {
			return k
		}
		k := col.Key(terms[id], sensitivity)
		keyCache[id] = k
		return k
	}

	less := func(a, b GlobalID) bool {
		for _, segOcc := range bySeg {
			oa, aok := segOcc[a]
			ob, bok := segOcc[b]
			if aok && bok {
				return posOf(oa) < posOf(ob)
			}
		}
		return string(keyOf(a)) < string(keyOf(b))
	}
	equalUnderCollation := func(a, b GlobalID) bool {
		for _, segOcc := range bySeg {
			oa, aok := segOcc[a]
			ob, bok := segOcc[b]
			if aok && bok {
				return posOf(oa) == posOf(ob)
			}
		}
		return string(keyOf(a)) == string(keyOf(b))
	}

	sort.SliceStable(order, func(i, j int) bool { return less(order[i], order[j]) })

	sortPos := make([]int32, n)
	pos2ID := make([]GlobalID, n)
	copy(pos2ID, order)
	pos := int32(0)
	for i, id := range order {
		if i > 0 && !equalUnderCollation(order[i-1], id) {
			pos = int32(i)
		}
		sortPos[id] = pos
	}
	return sortPos, pos2ID
}

// GlobalToSegment returns the segment-local term id for id within segment
// seg, or (0, false) if the term does not occur in that segment at all.
func (r *Reader) GlobalToSegment(seg int, id GlobalID) (postings.TermID, bool) {
	for local, g := range r.seg2glob[seg] {
		if g == id {
			return postings.TermID(local), true
		}
	}
	return 0, false
}

// SegmentToGlobal is the §3/T3 operation: maps a segment-local term id to
// its global id.
func (r *Reader) SegmentToGlobal(seg int, local postings.TermID) GlobalID {
	return r.seg2glob[seg][local]
}

// TermOf returns the byte string for a global id.
func (r *Reader) TermOf(id GlobalID) []byte { return r.terms[id] }

// Lookup returns the global id for a term string, if the union contains it.
func (r *Reader) Lookup(term []byte) (GlobalID, bool) {
	id, ok := r.termID[string(term)]
	return id, ok
}

// SortPos returns id's sort position under the requested sensitivity.
func (r *Reader) SortPos(id GlobalID, sensitivity collate.Sensitivity) int32 {
	if sensitivity == collate.CaseInsensitive {
		return r.sortPosInsensitive[id]
	}
	return r.sortPosSensitive[id]
}

// IndexOfGroup returns every global id sharing id's insensitive sort
// position (§4.3 step 5).
func (r *Reader) IndexOfGroup(id GlobalID) []GlobalID {
	return r.groups[r.sortPosInsensitive[id]]
}

// NumTerms returns the size of the global term space.
func (r *Reader) NumTerms() int { return len(r.terms) }
