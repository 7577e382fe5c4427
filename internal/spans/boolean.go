package spans

import "corpussearch/blacklab/internal/postings"

// AndNode is the exact-span conjunction of §4.4's node catalogue: hits
// that appear in every child with identical (doc, start, end). Each round
// advances every child that is behind the furthest-ahead child; no child
// is picked as the driver by its cost estimate. This follows the teacher's
// cursor-merge idiom of tracking one cursor per clause and moving only the
// cursors holding back the join (searcher.go's getMinDocumentIDCursor /
// incrementAllCursors, generalized from doc ids to full (doc, start, end)
// triples).
type AndNode struct {
	baseNode
	Children []Node
}

func NewAnd(children ...Node) *AndNode { return &AndNode{Children: children} }

func (n *AndNode) Rewrite() (Node, error) {
	flat, err := rewriteChildren(n.Children)
	if err != nil {
		return nil, err
	}
	flat = flattenAnd(flat)
	if len(flat) == 1 {
		return flat[0], nil
	}
	return &AndNode{Children: flat}, nil
}

func flattenAnd(nodes []Node) []Node {
	var out []Node
	for _, c := range nodes {
		if inner, ok := c.(*AndNode); ok {
			out = append(out, inner.Children...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

func (n *AndNode) HitsStartPointSorted() bool {
	for _, c := range n.Children {
		if c.HitsStartPointSorted() {
			return true
		}
	}
	return false
}
func (n *AndNode) HitsHaveUniqueStart() bool {
	for _, c := range n.Children {
		if c.HitsHaveUniqueStart() {
			return true
		}
	}
	return false
}
func (n *AndNode) HitsAreUnique() bool { return n.HitsHaveUniqueStart() }

func (n *AndNode) ReverseMatchingCost(seg Segment) uint64 {
	min := uint64(1) << 62
	for _, c := range n.Children {
		if cost := c.ReverseMatchingCost(seg); cost < min {
			min = cost
		}
	}
	return min
}

func (n *AndNode) SpansForSegment(seg Segment) (Spans, error) {
	children := make([]Spans, len(n.Children))
	for i, c := range n.Children {
		sp, err := c.SpansForSegment(seg)
		if err != nil {
			return nil, err
		}
		children[i] = sp
	}
	return &andSpans{children: children}, nil
}

type andSpans struct {
	children []Spans
	doc      postings.DocID
	start    int
	end      int
}

// nextMatchingDoc repeatedly advances every child behind the furthest-ahead
// one until
// every child sits on the same doc id, mirroring the teacher's
// getMinDocumentIDCursor loop over N postings lists instead of 2.
func (s *andSpans) nextMatchingDoc() (postings.DocID, error) {
	for {
		for _, c := range s.children {
			if c.DocID() == postings.NoMoreDocs {
				s.doc = postings.NoMoreDocs
				return postings.NoMoreDocs, nil
			}
		}
		maxDoc := postings.NoMoreDocs
		for _, c := range s.children {
			if c.DocID() > maxDoc {
				maxDoc = c.DocID()
			}
		}
		allEqual := true
		for _, c := range s.children {
			if c.DocID() != maxDoc || maxDoc == postings.NoMoreDocs {
				allEqual = false
				break
			}
		}
		if allEqual {
			s.doc = maxDoc
			return maxDoc, nil
		}
		for i, c := range s.children {
			if c.DocID() < maxDoc {
				d, err := c.Advance(maxDoc)
				if err != nil {
					return postings.NoMoreDocs, err
				}
				if d == postings.NoMoreDocs {
					s.doc = postings.NoMoreDocs
					return postings.NoMoreDocs, nil
				}
				_ = i
			}
		}
	}
}

func (s *andSpans) NextDoc() (postings.DocID, error) {
	for _, c := range s.children {
		if _, err := c.NextDoc(); err != nil {
			return postings.NoMoreDocs, err
		}
	}
	return s.nextMatchingDoc()
}

func (s *andSpans) Advance(target postings.DocID) (postings.DocID, error) {
	for _, c := range s.children {
		if _, err := c.Advance(target); err != nil {
			return postings.NoMoreDocs, err
		}
	}
	return s.nextMatchingDoc()
}

// NextStartPosition advances every child's start position and returns the
// next fully-agreeing (start, end) triple within the current doc.
func (s *andSpans) NextStartPosition() (int, error) {
	for _, c := range s.children {
		if _, err := c.NextStartPosition(); err != nil {
			return NoMorePositions, err
		}
	}
	return s.nextMatchingPosition()
}

func (s *andSpans) nextMatchingPosition() (int, error) {
	for {
		maxStart := -1
		for _, c := range s.children {
			if c.Start() == NoMorePositions {
				s.start, s.end = NoMorePositions, NoMorePositions
				return NoMorePositions, nil
			}
			if c.Start() > maxStart {
				maxStart = c.Start()
			}
		}
		allMatch := true
		for _, c := range s.children {
			if c.Start() != maxStart || c.End() != s.children[0].End() {
				allMatch = false
				break
			}
		}
		if allMatch {
			s.start, s.end = maxStart, s.children[0].End()
			return s.start, nil
		}

		advanced := false
		for _, c := range s.children {
			if c.Start() < maxStart {
				if _, err := c.AdvanceStartPosition(maxStart); err != nil {
					return NoMorePositions, err
				}
				advanced = true
			}
		}
		if advanced {
			continue
		}

		// Every child already sits at maxStart but their End() values
		// disagree, so no amount of advancing starts will resolve this
		// position: move the child with the smallest End() to its next
		// hit to break the tie, otherwise nothing here would ever change.
		minIdx := 0
		for i, c := range s.children {
			if c.End() < s.children[minIdx].End() {
				minIdx = i
			}
		}
		if _, err := s.children[minIdx].NextStartPosition(); err != nil {
			return NoMorePositions, err
		}
	}
}

func (s *andSpans) AdvanceStartPosition(target int) (int, error) {
	for _, c := range s.children {
		if _, err := c.AdvanceStartPosition(target); err != nil {
			return NoMorePositions, err
		}
	}
	return s.nextMatchingPosition()
}

func (s *andSpans) DocID() postings.DocID { return s.doc }
func (s *andSpans) Start() int            { return s.start }
func (s *andSpans) End() int              { return s.end }
func (s *andSpans) Width() int            { return s.end - s.start }
func (s *andSpans) GetCapturedGroups(buf []CaptureSlot) {
	for _, c := range s.children {
		c.GetCapturedGroups(buf)
	}
}

// OrNode is the disjunction of §4.4: a k-way merge by (doc, start, end),
// preserving start-point-sort order when every child is already sorted.
type OrNode struct {
	baseNode
	Children []Node
}

func NewOr(children ...Node) *OrNode { return &OrNode{Children: children} }

func (n *OrNode) Rewrite() (Node, error) {
	flat, err := rewriteChildren(n.Children)
	if err != nil {
		return nil, err
	}
	var out []Node
	for _, c := range flat {
		if inner, ok := c.(*OrNode); ok {
			out = append(out, inner.Children...)
		} else {
			out = append(out, c)
		}
	}
	if len(out) == 1 {
		return out[0], nil
	}
	return &OrNode{Children: out}, nil
}

func (n *OrNode) HitsStartPointSorted() bool {
	for _, c := range n.Children {
		if !c.HitsStartPointSorted() {
			return false
		}
	}
	return true
}

func (n *OrNode) ReverseMatchingCost(seg Segment) uint64 {
	var sum uint64
	for _, c := range n.Children {
		sum += c.ReverseMatchingCost(seg)
	}
	return sum
}

// notStarted marks a child as never having had NextDoc called on it yet,
// distinct from postings.NoMoreDocs ("exhausted").
const notStarted = postings.DocID(-2)

func (n *OrNode) SpansForSegment(seg Segment) (Spans, error) {
	children := make([]Spans, len(n.Children))
	docs := make([]postings.DocID, len(children))
	primed := make([]bool, len(children))
	for i, c := range n.Children {
		sp, err := c.SpansForSegment(seg)
		if err != nil {
			return nil, err
		}
		children[i] = sp
		docs[i] = notStarted
	}
	return &orSpans{children: children, docs: docs, primed: primed, doc: notStarted}, nil
}

type orSpans struct {
	children []Spans
	docs     []postings.DocID // each child's current doc, or notStarted/NoMoreDocs
	primed   []bool           // whether the child has a pending start position for s.doc
	doc      postings.DocID
	active   int // index of the child whose current position we're yielding
	start    int
	end      int
}

func (s *orSpans) NextDoc() (postings.DocID, error) {
	minDoc := postings.NoMoreDocs
	for i, c := range s.children {
		if s.docs[i] == notStarted || s.docs[i] == s.doc {
			d, err := c.NextDoc()
			if err != nil {
				return postings.NoMoreDocs, err
			}
			s.docs[i] = d
		}
		s.primed[i] = false
		if s.docs[i] != postings.NoMoreDocs && (minDoc == postings.NoMoreDocs || s.docs[i] < minDoc) {
			minDoc = s.docs[i]
		}
	}
	s.doc = minDoc
	s.start, s.end = NoMorePositions, NoMorePositions
	return minDoc, nil
}

func (s *orSpans) Advance(target postings.DocID) (postings.DocID, error) {
	minDoc := postings.NoMoreDocs
	for i, c := range s.children {
		if s.docs[i] == notStarted || s.docs[i] < target {
			d, err := c.Advance(target)
			if err != nil {
				return postings.NoMoreDocs, err
			}
			s.docs[i] = d
		}
		s.primed[i] = false
		if s.docs[i] != postings.NoMoreDocs && (minDoc == postings.NoMoreDocs || s.docs[i] < minDoc) {
			minDoc = s.docs[i]
		}
	}
	s.doc = minDoc
	s.start, s.end = NoMorePositions, NoMorePositions
	return minDoc, nil
}

// primeOnDoc ensures every child currently on s.doc has a pending start
// position loaded, so their (start, end) values are comparable.
func (s *orSpans) primeOnDoc() error {
	for i, c := range s.children {
		if s.docs[i] != s.doc || s.primed[i] {
			continue
		}
		pos, err := c.NextStartPosition()
		if err != nil {
			return err
		}
		s.primed[i] = pos != NoMorePositions
	}
	return nil
}

// NextStartPosition merges the current doc's positions across every
// child currently sitting on s.doc, in ascending (start, end) order.
func (s *orSpans) NextStartPosition() (int, error) {
	if err := s.primeOnDoc(); err != nil {
		return NoMorePositions, err
	}
	bestIdx := -1
	bestStart, bestEnd := -1, -1
	for i, c := range s.children {
		if s.docs[i] != s.doc || !s.primed[i] {
			continue
		}
		if bestIdx == -1 || c.Start() < bestStart || (c.Start() == bestStart && c.End() < bestEnd) {
			bestIdx, bestStart, bestEnd = i, c.Start(), c.End()
		}
	}
	if bestIdx == -1 {
		s.start, s.end = NoMorePositions, NoMorePositions
		return NoMorePositions, nil
	}
	s.active, s.start, s.end = bestIdx, bestStart, bestEnd
	s.primed[bestIdx] = false // consumed; next primeOnDoc call will refill it
	return s.start, nil
}

func (s *orSpans) AdvanceStartPosition(target int) (int, error) {
	if err := s.primeOnDoc(); err != nil {
		return NoMorePositions, err
	}
	for i, c := range s.children {
		if s.docs[i] == s.doc && s.primed[i] && c.Start() < target {
			pos, err := c.AdvanceStartPosition(target)
			if err != nil {
				return NoMorePositions, err
			}
			s.primed[i] = pos != NoMorePositions
		}
	}
	return s.NextStartPosition()
}

func (s *orSpans) DocID() postings.DocID { return s.doc }
func (s *orSpans) Start() int            { return s.start }
func (s *orSpans) End() int              { return s.end }
func (s *orSpans) Width() int            { return s.end - s.start }
func (s *orSpans) GetCapturedGroups(buf []CaptureSlot) {
	if s.active >= 0 && s.active < len(s.children) {
		s.children[s.active].GetCapturedGroups(buf)
	}
}

func rewriteChildren(children []Node) ([]Node, error) {
	out := make([]Node, len(children))
	for i, c := range children {
		r, err := c.Rewrite()
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
