package spans

import "corpussearch/blacklab/internal/postings"

// ContainmentRelation selects which of the four positional relations of
// §4.4's "Containment / positional filter" node a ContainmentNode tests.
type ContainmentRelation int

const (
	Containing ContainmentRelation = iota
	Within
	StartingAt
	EndingAt
)

// ContainmentNode restricts A's hits to those in the given relation to
// some hit of B, in the same doc.
type ContainmentNode struct {
	baseNode
	A, B     Node
	Relation ContainmentRelation
}

func NewContainment(a, b Node, rel ContainmentRelation) *ContainmentNode {
	return &ContainmentNode{A: a, B: b, Relation: rel}
}

func (n *ContainmentNode) Rewrite() (Node, error) {
	a, err := n.A.Rewrite()
	if err != nil {
		return nil, err
	}
	b, err := n.B.Rewrite()
	if err != nil {
		return nil, err
	}
	return &ContainmentNode{A: a, B: b, Relation: n.Relation}, nil
}

func (n *ContainmentNode) HitsStartPointSorted() bool { return n.A.HitsStartPointSorted() }
func (n *ContainmentNode) HitsHaveUniqueStart() bool  { return n.A.HitsHaveUniqueStart() }
func (n *ContainmentNode) ReverseMatchingCost(seg Segment) uint64 {
	return n.A.ReverseMatchingCost(seg)
}

func related(rel ContainmentRelation, a, b seqHit) bool {
	switch rel {
	case Containing:
		return a.start <= b.start && a.end >= b.end
	case Within:
		return b.start <= a.start && b.end >= a.end
	case StartingAt:
		return a.start == b.start
	case EndingAt:
		return a.end == b.end
	}
	return false
}

func (n *ContainmentNode) SpansForSegment(seg Segment) (Spans, error) {
	a, err := n.A.SpansForSegment(seg)
	if err != nil {
		return nil, err
	}
	b, err := n.B.SpansForSegment(seg)
	if err != nil {
		return nil, err
	}
	return &containmentSpans{a: a, b: b, rel: n.Relation}, nil
}

type containmentSpans struct {
	a, b Spans
	rel  ContainmentRelation
	doc  postings.DocID
	bBuf []seqHit
	cur  seqHit
}

func (s *containmentSpans) loadB() error {
	s.bBuf = nil
	for {
		start, err := s.b.NextStartPosition()
		if err != nil {
			return err
		}
		if start == NoMorePositions {
			return nil
		}
		s.bBuf = append(s.bBuf, seqHit{start: start, end: s.b.End()})
	}
}

func (s *containmentSpans) matches(h seqHit) bool {
	for _, bh := range s.bBuf {
		if related(s.rel, h, bh) {
			return true
		}
	}
	return false
}

func (s *containmentSpans) NextDoc() (postings.DocID, error) {
	da, err := s.a.NextDoc()
	if err != nil {
		return postings.NoMoreDocs, err
	}
	return s.settleOnDoc(da)
}

func (s *containmentSpans) Advance(target postings.DocID) (postings.DocID, error) {
	da, err := s.a.Advance(target)
	if err != nil {
		return postings.NoMoreDocs, err
	}
	return s.settleOnDoc(da)
}

// settleOnDoc evaluates da, the doc a is already sitting on (via NextDoc
// or Advance), before ever asking a to move again — re-calling
// a.NextDoc() unconditionally here would skip past the doc the caller
// just advanced to.
func (s *containmentSpans) settleOnDoc(da postings.DocID) (postings.DocID, error) {
	for {
		if da == postings.NoMoreDocs {
			s.doc = postings.NoMoreDocs
			return postings.NoMoreDocs, nil
		}
		db, err := s.b.Advance(da)
		if err != nil {
			return postings.NoMoreDocs, err
		}
		if db == da {
			if err := s.loadB(); err != nil {
				return postings.NoMoreDocs, err
			}
			s.doc = da
			return da, nil
		}
		da, err = s.a.NextDoc()
		if err != nil {
			return postings.NoMoreDocs, err
		}
	}
}

func (s *containmentSpans) NextStartPosition() (int, error) {
	for {
		start, err := s.a.NextStartPosition()
		if err != nil || start == NoMorePositions {
			s.cur = seqHit{NoMorePositions, NoMorePositions}
			return NoMorePositions, err
		}
		h := seqHit{start: start, end: s.a.End()}
		if s.matches(h) {
			s.cur = h
			return h.start, nil
		}
	}
}

func (s *containmentSpans) AdvanceStartPosition(target int) (int, error) {
	for {
		pos, err := s.NextStartPosition()
		if err != nil || pos == NoMorePositions || pos >= target {
			return pos, err
		}
	}
}

func (s *containmentSpans) DocID() postings.DocID { return s.doc }
func (s *containmentSpans) Start() int            { return s.cur.start }
func (s *containmentSpans) End() int              { return s.cur.end }
func (s *containmentSpans) Width() int            { return s.cur.end - s.cur.start }
func (s *containmentSpans) GetCapturedGroups(buf []CaptureSlot) {
	s.a.GetCapturedGroups(buf)
}
