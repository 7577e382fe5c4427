package spans

import (
	"sort"

	"corpussearch/blacklab/internal/postings"
)

// Endpoint selects which coordinate SortedNode buffers and sorts by.
type Endpoint int

const (
	ByStart Endpoint = iota
	ByEnd
)

// SortedNode buffers one doc's hits at a time, sorts by the requested
// endpoint, and optionally deduplicates (§4.4 node catalogue "Sorted").
// The rewriter only wraps a child in this when the child's own predicates
// don't already satisfy the required order/uniqueness (rule 5).
type SortedNode struct {
	baseNode
	Child    Node
	Endpoint Endpoint
	Dedupe   bool
}

func NewSorted(child Node, endpoint Endpoint, dedupe bool) *SortedNode {
	return &SortedNode{Child: child, Endpoint: endpoint, Dedupe: dedupe}
}

func (n *SortedNode) Rewrite() (Node, error) {
	c, err := n.Child.Rewrite()
	if err != nil {
		return nil, err
	}
	alreadySorted := (n.Endpoint == ByStart && c.HitsStartPointSorted()) ||
		(n.Endpoint == ByEnd && c.HitsEndPointSorted())
	if alreadySorted && (!n.Dedupe || c.HitsAreUnique()) {
		return c, nil
	}
	if alreadySorted {
		return &UniqueNode{Child: c}, nil
	}
	return &SortedNode{Child: c, Endpoint: n.Endpoint, Dedupe: n.Dedupe}, nil
}

func (n *SortedNode) HitsStartPointSorted() bool { return n.Endpoint == ByStart }
func (n *SortedNode) HitsEndPointSorted() bool   { return n.Endpoint == ByEnd }
func (n *SortedNode) HitsAreUnique() bool        { return n.Dedupe || n.Child.HitsAreUnique() }

func (n *SortedNode) ReverseMatchingCost(seg Segment) uint64 { return n.Child.ReverseMatchingCost(seg) }

func (n *SortedNode) SpansForSegment(seg Segment) (Spans, error) {
	child, err := n.Child.SpansForSegment(seg)
	if err != nil {
		return nil, err
	}
	return &sortedSpans{child: child, endpoint: n.Endpoint, dedupe: n.Dedupe}, nil
}

type sortedSpans struct {
	child    Spans
	endpoint Endpoint
	dedupe   bool

	doc  postings.DocID
	hits []seqHit
	idx  int
}

func (s *sortedSpans) loadDoc() error {
	s.hits = nil
	for {
		start, err := s.child.NextStartPosition()
		if err != nil {
			return err
		}
		if start == NoMorePositions {
			break
		}
		s.hits = append(s.hits, seqHit{start: start, end: s.child.End()})
	}
	if s.endpoint == ByStart {
		sort.Slice(s.hits, func(i, j int) bool {
			return s.hits[i].start < s.hits[j].start || (s.hits[i].start == s.hits[j].start && s.hits[i].end < s.hits[j].end)
		})
	} else {
		sort.Slice(s.hits, func(i, j int) bool {
			return s.hits[i].end < s.hits[j].end || (s.hits[i].end == s.hits[j].end && s.hits[i].start < s.hits[j].start)
		})
	}
	if s.dedupe {
		out := s.hits[:0]
		for i, h := range s.hits {
			if i == 0 || h != s.hits[i-1] {
				out = append(out, h)
			}
		}
		s.hits = out
	}
	s.idx = 0
	return nil
}

func (s *sortedSpans) NextDoc() (postings.DocID, error) {
	doc, err := s.child.NextDoc()
	if err != nil {
		return postings.NoMoreDocs, err
	}
	s.doc = doc
	if doc == postings.NoMoreDocs {
		return doc, nil
	}
	return doc, s.loadDoc()
}

func (s *sortedSpans) Advance(target postings.DocID) (postings.DocID, error) {
	doc, err := s.child.Advance(target)
	if err != nil {
		return postings.NoMoreDocs, err
	}
	s.doc = doc
	if doc == postings.NoMoreDocs {
		return doc, nil
	}
	return doc, s.loadDoc()
}

func (s *sortedSpans) NextStartPosition() (int, error) {
	if s.idx >= len(s.hits) {
		return NoMorePositions, nil
	}
	h := s.hits[s.idx]
	s.idx++
	return h.start, nil
}

func (s *sortedSpans) AdvanceStartPosition(target int) (int, error) {
	for s.idx < len(s.hits) {
		h := s.hits[s.idx]
		s.idx++
		if h.start >= target {
			return h.start, nil
		}
	}
	return NoMorePositions, nil
}

func (s *sortedSpans) DocID() postings.DocID { return s.doc }
func (s *sortedSpans) Start() int {
	if s.idx == 0 || s.idx > len(s.hits) {
		return NoMorePositions
	}
	return s.hits[s.idx-1].start
}
func (s *sortedSpans) End() int {
	if s.idx == 0 || s.idx > len(s.hits) {
		return NoMorePositions
	}
	return s.hits[s.idx-1].end
}
func (s *sortedSpans) Width() int { return s.End() - s.Start() }
func (s *sortedSpans) GetCapturedGroups(buf []CaptureSlot) {
	s.child.GetCapturedGroups(buf)
}

// UniqueNode is the streaming dedupe of §4.4's node catalogue: adjacent
// equal hits collapse into one. Only adjacent duplicates are removed;
// UniqueNode.Rewrite wraps any child whose hits are not already unique,
// whatever its order, and SortedNode.Rewrite wraps a child already sorted
// by the requested endpoint.
type UniqueNode struct {
	baseNode
	Child Node
}

func (n *UniqueNode) Rewrite() (Node, error) {
	c, err := n.Child.Rewrite()
	if err != nil {
		return nil, err
	}
	if c.HitsAreUnique() {
		return c, nil
	}
	return &UniqueNode{Child: c}, nil
}

func (n *UniqueNode) HitsStartPointSorted() bool             { return n.Child.HitsStartPointSorted() }
func (n *UniqueNode) HitsAreUnique() bool                    { return true }
func (n *UniqueNode) ReverseMatchingCost(seg Segment) uint64 { return n.Child.ReverseMatchingCost(seg) }

func (n *UniqueNode) SpansForSegment(seg Segment) (Spans, error) {
	child, err := n.Child.SpansForSegment(seg)
	if err != nil {
		return nil, err
	}
	return &uniqueSpans{child: child, lastEnd: NoMorePositions}, nil
}

type uniqueSpans struct {
	child             Spans
	lastStart, lastEnd int
	doc               postings.DocID
	hasLast           bool
}

func (s *uniqueSpans) NextDoc() (postings.DocID, error) {
	s.hasLast = false
	doc, err := s.child.NextDoc()
	s.doc = doc
	return doc, err
}

func (s *uniqueSpans) Advance(target postings.DocID) (postings.DocID, error) {
	s.hasLast = false
	doc, err := s.child.Advance(target)
	s.doc = doc
	return doc, err
}

func (s *uniqueSpans) NextStartPosition() (int, error) {
	for {
		pos, err := s.child.NextStartPosition()
		if err != nil || pos == NoMorePositions {
			return pos, err
		}
		if s.hasLast && pos == s.lastStart && s.child.End() == s.lastEnd {
			continue
		}
		s.hasLast = true
		s.lastStart, s.lastEnd = pos, s.child.End()
		return pos, nil
	}
}

func (s *uniqueSpans) AdvanceStartPosition(target int) (int, error) {
	for {
		pos, err := s.NextStartPosition()
		if err != nil || pos == NoMorePositions || pos >= target {
			return pos, err
		}
	}
}

func (s *uniqueSpans) DocID() postings.DocID { return s.doc }
func (s *uniqueSpans) Start() int            { return s.lastStart }
func (s *uniqueSpans) End() int              { return s.lastEnd }
func (s *uniqueSpans) Width() int            { return s.lastEnd - s.lastStart }
func (s *uniqueSpans) GetCapturedGroups(buf []CaptureSlot) {
	s.child.GetCapturedGroups(buf)
}
