package spans

import "corpussearch/blacklab/internal/postings"

// TagSpansNode reconstructs (start, end) spans from tokens whose payload
// carries an encoded end position (§4.4 "TagSpans", §6.3 "Payload
// protocol"): inline XML start tags. StartTag is a Node over the tag's
// start-token term (e.g. Term("starttag", "<s>")); the end offset comes
// straight from the payload decoded by internal/postings.DecodePayload,
// already exposed through PostingsEnum.Payload by the adapter. Empty
// tags (end == start) are valid hits, not skipped (§8 S6).
type TagSpansNode struct {
	baseNode
	StartTag Node
}

func NewTagSpans(startTag Node) *TagSpansNode { return &TagSpansNode{StartTag: startTag} }

func (n *TagSpansNode) Rewrite() (Node, error) {
	c, err := n.StartTag.Rewrite()
	if err != nil {
		return nil, err
	}
	return &TagSpansNode{StartTag: c}, nil
}

func (n *TagSpansNode) HitsStartPointSorted() bool { return n.StartTag.HitsStartPointSorted() }
func (n *TagSpansNode) HitsHaveUniqueStart() bool  { return n.StartTag.HitsHaveUniqueStart() }
func (n *TagSpansNode) ReverseMatchingCost(seg Segment) uint64 {
	return n.StartTag.ReverseMatchingCost(seg)
}

func (n *TagSpansNode) SpansForSegment(seg Segment) (Spans, error) {
	child, err := n.StartTag.SpansForSegment(seg)
	if err != nil {
		return nil, err
	}
	ts, ok := child.(*termSpans)
	if !ok {
		// Only a direct Term node carries a decodable payload; a rewritten
		// or composite child has already lost that association.
		return child, nil
	}
	return &tagSpans{term: ts}, nil
}

// tagSpans wraps a termSpans, substituting each hit's end position with
// the one decoded from the term's own postings payload rather than
// start+1.
type tagSpans struct {
	term *termSpans
	end  int
}

func (s *tagSpans) NextDoc() (postings.DocID, error) { return s.term.NextDoc() }
func (s *tagSpans) Advance(target postings.DocID) (postings.DocID, error) {
	return s.term.Advance(target)
}

func (s *tagSpans) NextStartPosition() (int, error) {
	pos, err := s.term.NextStartPosition()
	if err != nil || pos == NoMorePositions {
		return pos, err
	}
	payloadBytes, err := s.term.pe.Payload()
	if err != nil {
		return NoMorePositions, err
	}
	payload, err := postings.DecodePayload(payloadBytes)
	if err != nil {
		return NoMorePositions, err
	}
	if payload.HasEnd {
		s.end = payload.End
	} else {
		s.end = pos // no encoded end: treat as an empty-width tag (§8 S6)
	}
	return pos, nil
}

func (s *tagSpans) AdvanceStartPosition(target int) (int, error) {
	for {
		pos, err := s.NextStartPosition()
		if err != nil || pos == NoMorePositions || pos >= target {
			return pos, err
		}
	}
}

func (s *tagSpans) DocID() postings.DocID { return s.term.DocID() }
func (s *tagSpans) Start() int            { return s.term.Start() }
func (s *tagSpans) End() int              { return s.end }
func (s *tagSpans) Width() int            { return s.end - s.term.Start() }
func (s *tagSpans) GetCapturedGroups(buf []CaptureSlot) {}
