package spans

import "corpussearch/blacklab/internal/postings"

// SequenceNode is the concatenation A · B of §4.4: for each hit a of A,
// yield (a.doc, a.start, b.end) for every hit b of B with b.doc == a.doc
// and b.start == a.end. Implemented as a bucketed join keyed by (doc,
// pos), buffering one doc of B's hits at a time — the natural
// generalization of the teacher's single-cursor phrase match
// (searcher.go's isPhraseMatch, which only checks adjacency of two
// tokens) to arbitrary-width children.
type SequenceNode struct {
	baseNode
	A, B Node
}

func NewSequence(a, b Node) *SequenceNode { return &SequenceNode{A: a, B: b} }

func (n *SequenceNode) Rewrite() (Node, error) {
	a, err := n.A.Rewrite()
	if err != nil {
		return nil, err
	}
	b, err := n.B.Rewrite()
	if err != nil {
		return nil, err
	}
	return &SequenceNode{A: a, B: b}, nil
}

func (n *SequenceNode) HitsStartPointSorted() bool { return n.A.HitsStartPointSorted() }
func (n *SequenceNode) HitsHaveUniqueStart() bool {
	return n.A.HitsHaveUniqueStart() && n.B.HitsHaveUniqueStart()
}

func (n *SequenceNode) ReverseMatchingCost(seg Segment) uint64 {
	return n.A.ReverseMatchingCost(seg) + n.B.ReverseMatchingCost(seg)
}

func (n *SequenceNode) SpansForSegment(seg Segment) (Spans, error) {
	aIt, err := n.A.SpansForSegment(seg)
	if err != nil {
		return nil, err
	}
	bIt, err := n.B.SpansForSegment(seg)
	if err != nil {
		return nil, err
	}
	return &sequenceSpans{aIt: aIt, bIt: bIt}, nil
}

type seqHit struct{ start, end int }

type sequenceSpans struct {
	aIt Spans
	bIt Spans

	doc postings.DocID

	// bucket maps a B hit's start position to its end position(s), for
	// the current doc only (§4.4 "bucketed join keyed by (doc, pos)").
	bucket map[int][]int

	aHits   []seqHit // every A hit in the current doc, buffered once
	aIdx    int
	bEndIdx int
	cur     seqHit
}

func (s *sequenceSpans) loadDoc(doc postings.DocID) error {
	s.doc = doc
	s.bucket = map[int][]int{}
	for {
		start, err := s.bIt.NextStartPosition()
		if err != nil {
			return err
		}
		if start == NoMorePositions {
			break
		}
		s.bucket[start] = append(s.bucket[start], s.bIt.End())
	}
	s.aHits = nil
	for {
		start, err := s.aIt.NextStartPosition()
		if err != nil {
			return err
		}
		if start == NoMorePositions {
			break
		}
		s.aHits = append(s.aHits, seqHit{start: start, end: s.aIt.End()})
	}
	s.aIdx = 0
	s.bEndIdx = 0
	return nil
}

// advanceToNextHit moves (aIdx, bEndIdx) to the next valid join result
// and returns its start, or NoMorePositions once the join is exhausted
// for the current doc. It mutates the cursor, so callers that only want
// to know "is there at least one hit" without consuming it should use
// hasAnyHit instead.
func (s *sequenceSpans) advanceToNextHit() (int, error) {
	for s.aIdx < len(s.aHits) {
		h := s.aHits[s.aIdx]
		ends := s.bucket[h.end]
		if s.bEndIdx < len(ends) {
			s.cur = seqHit{start: h.start, end: ends[s.bEndIdx]}
			s.bEndIdx++
			return s.cur.start, nil
		}
		s.aIdx++
		s.bEndIdx = 0
	}
	s.cur = seqHit{NoMorePositions, NoMorePositions}
	return NoMorePositions, nil
}

// hasAnyHit reports whether the current doc's buffered A/B hits join at
// all, without consuming any of them, so NextDoc can skip docs where A
// and B never actually concatenate without losing the first real hit.
func (s *sequenceSpans) hasAnyHit() bool {
	for _, h := range s.aHits {
		if len(s.bucket[h.end]) > 0 {
			return true
		}
	}
	return false
}

func (s *sequenceSpans) NextDoc() (postings.DocID, error) {
	da, err := s.aIt.NextDoc()
	if err != nil {
		return postings.NoMoreDocs, err
	}
	return s.settleOnDoc(da)
}

func (s *sequenceSpans) Advance(target postings.DocID) (postings.DocID, error) {
	da, err := s.aIt.Advance(target)
	if err != nil {
		return postings.NoMoreDocs, err
	}
	return s.settleOnDoc(da)
}

// settleOnDoc evaluates the join starting at da, the doc aIt is already
// sitting on (via NextDoc or Advance), walking aIt further only when da
// itself doesn't pan out. Calling aIt.NextDoc() again here — instead of
// checking da first — would skip past the very doc the caller just
// advanced to.
func (s *sequenceSpans) settleOnDoc(da postings.DocID) (postings.DocID, error) {
	for {
		if da == postings.NoMoreDocs {
			s.doc = postings.NoMoreDocs
			return postings.NoMoreDocs, nil
		}
		db, err := s.bIt.Advance(da)
		if err != nil {
			return postings.NoMoreDocs, err
		}
		if db == da {
			if err := s.loadDoc(da); err != nil {
				return postings.NoMoreDocs, err
			}
			if s.hasAnyHit() {
				return da, nil
			}
			// this doc's A/B hits never actually concatenate
		}
		da, err = s.aIt.NextDoc()
		if err != nil {
			return postings.NoMoreDocs, err
		}
	}
}

func (s *sequenceSpans) NextStartPosition() (int, error) {
	return s.advanceToNextHit()
}

func (s *sequenceSpans) AdvanceStartPosition(target int) (int, error) {
	for {
		pos, err := s.advanceToNextHit()
		if err != nil || pos == NoMorePositions || pos >= target {
			return pos, err
		}
	}
}

func (s *sequenceSpans) DocID() postings.DocID { return s.doc }
func (s *sequenceSpans) Start() int            { return s.cur.start }
func (s *sequenceSpans) End() int              { return s.cur.end }
func (s *sequenceSpans) Width() int            { return s.cur.end - s.cur.start }
func (s *sequenceSpans) GetCapturedGroups(buf []CaptureSlot) {
	s.aIt.GetCapturedGroups(buf)
	s.bIt.GetCapturedGroups(buf)
}
