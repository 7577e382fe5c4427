package spans

import (
	"log"

	"corpussearch/blacklab/internal/postings"
)

// RepetitionNode is A{min,max} (§4.4 node catalogue "Repetition"). When
// bounded it rewrites to a sequence chain (rule-book item in §4.4's
// rewriter rules); when max is unbounded (-1) it falls back to a lazy,
// per-doc memoized expansion so an unbounded repetition never has to
// materialize every possible length up front.
type RepetitionNode struct {
	baseNode
	Child    Node
	Min, Max int // Max == -1 means unbounded
}

func NewRepetition(child Node, min, max int) *RepetitionNode {
	return &RepetitionNode{Child: child, Min: min, Max: max}
}

func (n *RepetitionNode) Rewrite() (Node, error) {
	c, err := n.Child.Rewrite()
	if err != nil {
		return nil, err
	}
	if n.Max >= n.Min && n.Max >= 0 {
		return buildSequenceChain(c, n.Min, n.Max), nil
	}
	return &RepetitionNode{Child: c, Min: n.Min, Max: n.Max}, nil
}

// buildSequenceChain expands a bounded repetition into OR(Sequence(child
// repeated k times)) for every k in [min, max], per §4.4 rewriter rule 3's
// family of "turn a bounded construct into sequence/OR" rewrites.
func buildSequenceChain(child Node, min, max int) Node {
	var alts []Node
	for k := min; k <= max; k++ {
		if k == 0 {
			alts = append(alts, &emptyMatchNode{})
			continue
		}
		var seq Node = child
		for i := 1; i < k; i++ {
			seq = NewSequence(seq, child)
		}
		alts = append(alts, seq)
	}
	if len(alts) == 1 {
		return alts[0]
	}
	return NewOr(alts...)
}

func (n *RepetitionNode) ReverseMatchingCost(seg Segment) uint64 {
	return n.Child.ReverseMatchingCost(seg) * uint64(n.Max-n.Min+1)
}

// SpansForSegment only needs to handle the unbounded case: Rewrite always
// replaces a bounded repetition with a sequence chain before this is
// called in practice, but a direct caller that skips rewriting still gets
// a correct, if unmemoized per-call, lazy expansion.
func (n *RepetitionNode) SpansForSegment(seg Segment) (Spans, error) {
	child, err := n.Child.SpansForSegment(seg)
	if err != nil {
		return nil, err
	}
	return &repetitionSpans{child: child, min: n.Min, max: n.Max}, nil
}

// maxUnboundedRepetitionLength bounds how many occurrences an unbounded
// A{min,} expansion will chase within one doc before giving up; a
// pathological doc (a token repeated thousands of times matching A) would
// otherwise expand memory and time without limit.
const maxUnboundedRepetitionLength = 64

type repetitionSpans struct {
	child    Spans
	min, max int
	doc      postings.DocID
	hits     []seqHit // memoized per-doc expansion
	idx      int
}

// expand computes, for the current doc, every hit reachable by
// concatenating 1..max occurrences of child starting at each of child's
// start positions, memoized per doc so repeated calls within the same
// document don't redo the work (§4.4 "lazy expansion with memoization
// per doc").
func (s *repetitionSpans) expand() error {
	var base []seqHit
	for {
		start, err := s.child.NextStartPosition()
		if err != nil {
			return err
		}
		if start == NoMorePositions {
			break
		}
		base = append(base, seqHit{start: start, end: s.child.End()})
	}
	byStart := map[int][]int{}
	for _, h := range base {
		byStart[h.start] = append(byStart[h.start], h.end)
	}

	var hits []seqHit
	if s.min == 0 {
		for _, h := range base {
			hits = append(hits, seqHit{start: h.start, end: h.start})
		}
	}
	frontier := map[seqHit]bool{}
	for _, h := range base {
		frontier[h] = true
	}
	for k := 1; s.max < 0 || k <= s.max; k++ {
		if k > s.min-1 {
			for h := range frontier {
				hits = append(hits, h)
			}
		}
		next := map[seqHit]bool{}
		progressed := false
		for h := range frontier {
			for _, end := range byStart[h.end] {
				next[seqHit{start: h.start, end: end}] = true
				progressed = true
			}
		}
		frontier = next
		if !progressed || len(frontier) == 0 {
			break
		}
		if s.max < 0 && k >= maxUnboundedRepetitionLength {
			log.Printf("spans: unbounded repetition truncated at %d occurrences in doc %d", maxUnboundedRepetitionLength, s.doc)
			break
		}
	}
	s.hits = hits
	s.idx = 0
	return nil
}

func (s *repetitionSpans) NextDoc() (postings.DocID, error) {
	doc, err := s.child.NextDoc()
	s.doc = doc
	if err != nil || doc == postings.NoMoreDocs {
		return doc, err
	}
	return doc, s.expand()
}

func (s *repetitionSpans) Advance(target postings.DocID) (postings.DocID, error) {
	doc, err := s.child.Advance(target)
	s.doc = doc
	if err != nil || doc == postings.NoMoreDocs {
		return doc, err
	}
	return doc, s.expand()
}

func (s *repetitionSpans) NextStartPosition() (int, error) {
	if s.idx >= len(s.hits) {
		return NoMorePositions, nil
	}
	h := s.hits[s.idx]
	s.idx++
	return h.start, nil
}

func (s *repetitionSpans) AdvanceStartPosition(target int) (int, error) {
	for s.idx < len(s.hits) {
		h := s.hits[s.idx]
		s.idx++
		if h.start >= target {
			return h.start, nil
		}
	}
	return NoMorePositions, nil
}

func (s *repetitionSpans) DocID() postings.DocID { return s.doc }
func (s *repetitionSpans) Start() int {
	if s.idx == 0 || s.idx > len(s.hits) {
		return NoMorePositions
	}
	return s.hits[s.idx-1].start
}
func (s *repetitionSpans) End() int {
	if s.idx == 0 || s.idx > len(s.hits) {
		return NoMorePositions
	}
	return s.hits[s.idx-1].end
}
func (s *repetitionSpans) Width() int { return s.End() - s.Start() }
func (s *repetitionSpans) GetCapturedGroups(buf []CaptureSlot) {}

// emptyMatchNode matches the empty sequence at every position — the k==0
// alternative of a repetition's lower bound.
type emptyMatchNode struct{ baseNode }

func (n *emptyMatchNode) Rewrite() (Node, error)            { return n, nil }
func (n *emptyMatchNode) MatchesEmptySequence() bool        { return true }
func (n *emptyMatchNode) HitsAllSameLength() bool           { return true }
func (n *emptyMatchNode) HitsLengthMin() int                { return 0 }
func (n *emptyMatchNode) HitsLengthMax() int                { return 0 }
func (n *emptyMatchNode) ReverseMatchingCost(Segment) uint64 { return 0 }
// SpansForSegment yields no hits standalone; matching the empty sequence
// only makes sense anchored to a neighbour's position, which is how
// buildSequenceChain uses it (as one OR branch alongside the non-empty
// alternatives, never queried on its own at the top of a query tree).
func (n *emptyMatchNode) SpansForSegment(seg Segment) (Spans, error) {
	return &emptySpans{}, nil
}
