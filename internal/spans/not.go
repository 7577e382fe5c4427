package spans

import "corpussearch/blacklab/internal/postings"

// NotNode is the complement of §4.4's node catalogue: every length-1
// position in a doc's token universe not covered by a hit of Child,
// scoped to the given field (needed to know each doc's length).
type NotNode struct {
	baseNode
	Child Node
	Field string
}

func NewNot(child Node, field string) *NotNode { return &NotNode{Child: child, Field: field} }

func (n *NotNode) Rewrite() (Node, error) {
	c, err := n.Child.Rewrite()
	if err != nil {
		return nil, err
	}
	return &NotNode{Child: c, Field: n.Field}, nil
}

func (n *NotNode) HitsAllSameLength() bool           { return true }
func (n *NotNode) HitsLengthMin() int                { return 1 }
func (n *NotNode) HitsLengthMax() int                { return 1 }
func (n *NotNode) HitsStartPointSorted() bool        { return true }
func (n *NotNode) HitsHaveUniqueStart() bool         { return true }
func (n *NotNode) HitsAreUnique() bool               { return true }
func (n *NotNode) ReverseMatchingCost(seg Segment) uint64 {
	return 1<<32 - n.Child.ReverseMatchingCost(seg)
}

func (n *NotNode) SpansForSegment(seg Segment) (Spans, error) {
	child, err := n.Child.SpansForSegment(seg)
	if err != nil {
		return nil, err
	}
	return &notSpans{child: child, field: n.Field, seg: seg, doc: -1}, nil
}

// notSpans walks every position of the current doc, buffering the
// child's covered positions once per doc and skipping them.
type notSpans struct {
	child Spans
	field string
	seg   Segment

	doc     postings.DocID
	docLen  int
	covered map[int]bool
	pos     int
}

func (s *notSpans) loadDoc(doc postings.DocID) error {
	length, err := s.seg.DocLength(s.field, doc)
	if err != nil {
		return err
	}
	s.docLen = length
	s.covered = map[int]bool{}
	childDoc, err := s.child.Advance(doc)
	if err != nil {
		return err
	}
	if childDoc == doc {
		for {
			start, err := s.child.NextStartPosition()
			if err != nil {
				return err
			}
			if start == NoMorePositions {
				break
			}
			for p := start; p < s.child.End(); p++ {
				s.covered[p] = true
			}
		}
	}
	s.pos = -1
	return nil
}

// NextDoc steps to the current doc id plus one and loads it, without
// consulting a list of the segment's docs: it has no upper bound and does
// not return NoMoreDocs on its own. Callers drive NotNode's NextDoc/Advance
// against a known universe (e.g. via Advance from an enclosing AND's other
// clause). Nothing in this package reports an unguarded Not as a
// QueryError.
func (s *notSpans) NextDoc() (postings.DocID, error) {
	s.doc++
	if err := s.loadDoc(s.doc); err != nil {
		return postings.NoMoreDocs, err
	}
	return s.doc, nil
}

func (s *notSpans) Advance(target postings.DocID) (postings.DocID, error) {
	s.doc = target
	if err := s.loadDoc(s.doc); err != nil {
		return postings.NoMoreDocs, err
	}
	return s.doc, nil
}

func (s *notSpans) NextStartPosition() (int, error) {
	for {
		s.pos++
		if s.pos >= s.docLen {
			return NoMorePositions, nil
		}
		if !s.covered[s.pos] {
			return s.pos, nil
		}
	}
}

func (s *notSpans) AdvanceStartPosition(target int) (int, error) {
	if target > s.pos {
		s.pos = target - 1
	}
	return s.NextStartPosition()
}

func (s *notSpans) DocID() postings.DocID { return s.doc }
func (s *notSpans) Start() int            { return s.pos }
func (s *notSpans) End() int              { return s.pos + 1 }
func (s *notSpans) Width() int            { return 1 }
func (s *notSpans) GetCapturedGroups(buf []CaptureSlot) {}

// FilterByDocsetNode intersects Child's hits with a doc id set, a second
// iterator whose cursor synchronizes with Child's on advance (§4.4
// "Filter-by-docset").
type FilterByDocsetNode struct {
	baseNode
	Child  Node
	Docset []postings.DocID // sorted, ascending
}

func NewFilterByDocset(child Node, docset []postings.DocID) *FilterByDocsetNode {
	return &FilterByDocsetNode{Child: child, Docset: docset}
}

func (n *FilterByDocsetNode) Rewrite() (Node, error) {
	c, err := n.Child.Rewrite()
	if err != nil {
		return nil, err
	}
	return &FilterByDocsetNode{Child: c, Docset: n.Docset}, nil
}

func (n *FilterByDocsetNode) HitsStartPointSorted() bool { return n.Child.HitsStartPointSorted() }
func (n *FilterByDocsetNode) HitsHaveUniqueStart() bool  { return n.Child.HitsHaveUniqueStart() }
func (n *FilterByDocsetNode) ReverseMatchingCost(seg Segment) uint64 {
	return n.Child.ReverseMatchingCost(seg)
}

func (n *FilterByDocsetNode) SpansForSegment(seg Segment) (Spans, error) {
	child, err := n.Child.SpansForSegment(seg)
	if err != nil {
		return nil, err
	}
	return &filterDocsetSpans{child: child, docset: n.Docset}, nil
}

type filterDocsetSpans struct {
	child  Spans
	docset []postings.DocID
	idx    int
	doc    postings.DocID
}

func (s *filterDocsetSpans) NextDoc() (postings.DocID, error) {
	cd, err := s.child.NextDoc()
	if err != nil {
		return postings.NoMoreDocs, err
	}
	return s.syncTo(cd)
}

func (s *filterDocsetSpans) syncTo(cd postings.DocID) (postings.DocID, error) {
	for {
		if cd == postings.NoMoreDocs {
			s.doc = postings.NoMoreDocs
			return postings.NoMoreDocs, nil
		}
		for s.idx < len(s.docset) && s.docset[s.idx] < cd {
			s.idx++
		}
		if s.idx >= len(s.docset) {
			s.doc = postings.NoMoreDocs
			return postings.NoMoreDocs, nil
		}
		if s.docset[s.idx] == cd {
			s.doc = cd
			return cd, nil
		}
		target := s.docset[s.idx]
		var err error
		cd, err = s.child.Advance(target)
		if err != nil {
			return postings.NoMoreDocs, err
		}
	}
}

func (s *filterDocsetSpans) Advance(target postings.DocID) (postings.DocID, error) {
	cd, err := s.child.Advance(target)
	if err != nil {
		return postings.NoMoreDocs, err
	}
	return s.syncTo(cd)
}

func (s *filterDocsetSpans) NextStartPosition() (int, error)     { return s.child.NextStartPosition() }
func (s *filterDocsetSpans) AdvanceStartPosition(t int) (int, error) { return s.child.AdvanceStartPosition(t) }
func (s *filterDocsetSpans) DocID() postings.DocID               { return s.doc }
func (s *filterDocsetSpans) Start() int                          { return s.child.Start() }
func (s *filterDocsetSpans) End() int                            { return s.child.End() }
func (s *filterDocsetSpans) Width() int                          { return s.child.Width() }
func (s *filterDocsetSpans) GetCapturedGroups(buf []CaptureSlot) { s.child.GetCapturedGroups(buf) }
