package spans

import (
	"corpussearch/blacklab/internal/postings"
)

// TermNode matches the postings of a single (field, term) (§4.4 node
// catalogue "Term"): start-point-sorted, unique, every hit length 1.
type TermNode struct {
	baseNode
	Field string
	Term  []byte
}

func NewTerm(field string, term []byte) *TermNode {
	return &TermNode{Field: field, Term: term}
}

func (n *TermNode) Rewrite() (Node, error) { return n, nil }

func (n *TermNode) HitsAllSameLength() bool    { return true }
func (n *TermNode) HitsLengthMin() int         { return 1 }
func (n *TermNode) HitsLengthMax() int         { return 1 }
func (n *TermNode) HitsStartPointSorted() bool { return true }
func (n *TermNode) HitsEndPointSorted() bool   { return true }
func (n *TermNode) HitsHaveUniqueStart() bool  { return true }
func (n *TermNode) HitsHaveUniqueEnd() bool    { return true }
func (n *TermNode) HitsAreUnique() bool        { return true }

func (n *TermNode) ReverseMatchingCost(seg Segment) uint64 {
	df, err := seg.DocFreq(n.Field, n.Term)
	if err != nil || df < 0 {
		return 1 << 32 // unknown: treat as expensive
	}
	return uint64(df)
}

func (n *TermNode) SpansForSegment(seg Segment) (Spans, error) {
	pe, err := seg.Postings(n.Field, n.Term)
	if err != nil {
		return nil, err
	}
	if pe == nil {
		return &emptySpans{}, nil
	}
	return &termSpans{pe: pe}, nil
}

// termSpans drives a single PostingsEnum directly: each (doc, position)
// it yields is a length-1 hit.
type termSpans struct {
	pe       postings.PostingsEnum
	doc      postings.DocID
	start    int
	freqLeft int
	started  bool
}

func (s *termSpans) NextDoc() (postings.DocID, error) {
	doc, err := s.pe.NextDoc()
	if err != nil {
		return postings.NoMoreDocs, err
	}
	s.doc = doc
	s.start = NoMorePositions
	if doc == postings.NoMoreDocs {
		return doc, nil
	}
	freq, err := s.pe.Freq()
	if err != nil {
		return postings.NoMoreDocs, err
	}
	s.freqLeft = freq
	return doc, nil
}

func (s *termSpans) NextStartPosition() (int, error) {
	if s.freqLeft <= 0 {
		s.start = NoMorePositions
		return NoMorePositions, nil
	}
	pos, err := s.pe.NextPosition()
	if err != nil {
		return NoMorePositions, err
	}
	s.freqLeft--
	s.start = pos
	return pos, nil
}

func (s *termSpans) Advance(target postings.DocID) (postings.DocID, error) {
	for {
		doc, err := s.NextDoc()
		if err != nil || doc == postings.NoMoreDocs || doc >= target {
			return doc, err
		}
	}
}

func (s *termSpans) AdvanceStartPosition(target int) (int, error) {
	for {
		pos, err := s.NextStartPosition()
		if err != nil || pos == NoMorePositions || pos >= target {
			return pos, err
		}
	}
}

func (s *termSpans) DocID() postings.DocID { return s.doc }
func (s *termSpans) Start() int            { return s.start }
func (s *termSpans) End() int              { return s.start + 1 }
func (s *termSpans) Width() int            { return 1 }
func (s *termSpans) GetCapturedGroups(buf []CaptureSlot) {}

// emptySpans never yields a hit; used when a term does not occur in a
// segment at all.
type emptySpans struct{}

func (emptySpans) NextDoc() (postings.DocID, error)              { return postings.NoMoreDocs, nil }
func (emptySpans) NextStartPosition() (int, error)                { return NoMorePositions, nil }
func (emptySpans) Advance(postings.DocID) (postings.DocID, error) { return postings.NoMoreDocs, nil }
func (emptySpans) AdvanceStartPosition(int) (int, error)          { return NoMorePositions, nil }
func (emptySpans) DocID() postings.DocID                          { return postings.NoMoreDocs }
func (emptySpans) Start() int                                     { return NoMorePositions }
func (emptySpans) End() int                                       { return NoMorePositions }
func (emptySpans) Width() int                                     { return 0 }
func (emptySpans) GetCapturedGroups(buf []CaptureSlot)            {}
