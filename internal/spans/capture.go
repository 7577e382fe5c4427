package spans

import "corpussearch/blacklab/internal/postings"

// CaptureNode attaches a named capture slot to a child (§4.4 "Capture
// groups"): each hit the child yields also records (start, end) into the
// caller's slot buffer at index Slot.
type CaptureNode struct {
	baseNode
	Child Node
	Slot  int
}

func NewCapture(child Node, slot int) *CaptureNode { return &CaptureNode{Child: child, Slot: slot} }

func (n *CaptureNode) Rewrite() (Node, error) {
	c, err := n.Child.Rewrite()
	if err != nil {
		return nil, err
	}
	return &CaptureNode{Child: c, Slot: n.Slot}, nil
}

func (n *CaptureNode) MatchesEmptySequence() bool        { return n.Child.MatchesEmptySequence() }
func (n *CaptureNode) HitsAllSameLength() bool           { return n.Child.HitsAllSameLength() }
func (n *CaptureNode) HitsLengthMin() int                { return n.Child.HitsLengthMin() }
func (n *CaptureNode) HitsLengthMax() int                { return n.Child.HitsLengthMax() }
func (n *CaptureNode) HitsStartPointSorted() bool        { return n.Child.HitsStartPointSorted() }
func (n *CaptureNode) HitsEndPointSorted() bool          { return n.Child.HitsEndPointSorted() }
func (n *CaptureNode) HitsHaveUniqueStart() bool         { return n.Child.HitsHaveUniqueStart() }
func (n *CaptureNode) HitsHaveUniqueEnd() bool           { return n.Child.HitsHaveUniqueEnd() }
func (n *CaptureNode) HitsAreUnique() bool               { return n.Child.HitsAreUnique() }
func (n *CaptureNode) ReverseMatchingCost(seg Segment) uint64 { return n.Child.ReverseMatchingCost(seg) }

func (n *CaptureNode) SpansForSegment(seg Segment) (Spans, error) {
	child, err := n.Child.SpansForSegment(seg)
	if err != nil {
		return nil, err
	}
	return &captureSpans{child: child, slot: n.Slot}, nil
}

// captureSpans delegates every cursor operation to its child and, on
// GetCapturedGroups, writes its own (start, end) into buf[slot] before
// propagating the call down to any nested captures (composite nodes
// delegate the same way — see boolean.go/sequence.go's
// GetCapturedGroups implementations).
type captureSpans struct {
	child Spans
	slot  int
}

func (s *captureSpans) NextDoc() (postings.DocID, error)              { return s.child.NextDoc() }
func (s *captureSpans) NextStartPosition() (int, error)               { return s.child.NextStartPosition() }
func (s *captureSpans) Advance(target postings.DocID) (postings.DocID, error) {
	return s.child.Advance(target)
}
func (s *captureSpans) AdvanceStartPosition(target int) (int, error) {
	return s.child.AdvanceStartPosition(target)
}
func (s *captureSpans) DocID() postings.DocID { return s.child.DocID() }
func (s *captureSpans) Start() int            { return s.child.Start() }
func (s *captureSpans) End() int              { return s.child.End() }
func (s *captureSpans) Width() int            { return s.child.Width() }

func (s *captureSpans) GetCapturedGroups(buf []CaptureSlot) {
	if s.slot >= 0 && s.slot < len(buf) {
		buf[s.slot] = CaptureSlot{Start: s.child.Start(), End: s.child.End()}
	}
	s.child.GetCapturedGroups(buf)
}
