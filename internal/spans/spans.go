// Package spans implements the span-query engine (§4.4): a tree of nodes,
// each able to rewrite itself and to produce a lazy Spans iterator over
// one segment. Every composite node owns a flat slice of children rather
// than a deep class hierarchy, following §9's "avoid deep inheritance
// chains by making compositional nodes own a flat vector of children."
package spans

import (
	"corpussearch/blacklab/internal/postings"
)

// NoMorePositions is the sentinel returned by NextStartPosition and
// AdvanceStartPosition once a doc's positions are exhausted.
const NoMorePositions = -1

// NoMoreDocs re-exports the postings package's sentinel so callers of
// this package never need to import postings just to compare against it.
const NoMoreDocs = postings.NoMoreDocs

// CaptureSlot holds one named capture group's (start, end) for the
// current hit of whatever Spans produced it.
type CaptureSlot struct {
	Start, End int
}

// Spans is the lazy cursor contract of §4.4 "Spans iterator contract."
// All methods are single-threaded, cooperative: no internal locking, no
// implicit buffering beyond what a node's own semantics require (§5).
type Spans interface {
	// NextDoc advances to the next doc containing at least one hit.
	NextDoc() (postings.DocID, error)
	// NextStartPosition advances within the current doc.
	NextStartPosition() (int, error)
	// Advance skips forward to the first doc >= target.
	Advance(target postings.DocID) (postings.DocID, error)
	// AdvanceStartPosition skips forward to the first start >= target.
	AdvanceStartPosition(target int) (int, error)
	// DocID, Start, End, Width are valid only between successful advances.
	DocID() postings.DocID
	Start() int
	End() int
	Width() int
	// GetCapturedGroups materializes any capture slots set by ancestor
	// nodes into buf, indexed by slot number.
	GetCapturedGroups(buf []CaptureSlot)
}

// Node is one element of a span-query tree (§4.4).
type Node interface {
	// Rewrite returns a semantically equivalent, possibly different and
	// more efficient node. Implementations that have nothing to rewrite
	// return themselves unchanged.
	Rewrite() (Node, error)

	MatchesEmptySequence() bool
	HitsAllSameLength() bool
	HitsLengthMin() int
	HitsLengthMax() int
	HitsStartPointSorted() bool
	HitsEndPointSorted() bool
	HitsHaveUniqueStart() bool
	HitsHaveUniqueEnd() bool
	HitsAreUnique() bool

	// ReverseMatchingCost estimates the cost of using this node to drive
	// a join, lower meaning cheaper (§4.4 node catalogue, "Term").
	ReverseMatchingCost(seg Segment) uint64

	// SpansForSegment produces the Spans iterator for one segment.
	SpansForSegment(seg Segment) (Spans, error)
}

// Segment is everything a node needs from one segment to produce its
// Spans iterator and estimate its cost: postings access for Term nodes,
// and doc-length lookups for nodes (Not, Repetition) that need to know a
// document's token universe.
type Segment interface {
	// Postings returns the postings for (field, term), or nil if the term
	// does not occur in this segment at all.
	Postings(field string, term []byte) (postings.PostingsEnum, error)
	// DocFreq estimates the document frequency of (field, term), used by
	// Term.ReverseMatchingCost; segments that cannot estimate cheaply may
	// return -1, treated as "unknown, assume expensive."
	DocFreq(field string, term []byte) (int, error)
	// DocLength returns a document's token count for the given field.
	DocLength(field string, doc postings.DocID) (int, error)
}

// baseNode supplies the predicate defaults most leaf nodes share; node
// types embed it and override only what differs (§9's "flat vector of
// children, tag by type switch" is the composite-node analogue of this
// for shared defaults).
type baseNode struct{}

func (baseNode) MatchesEmptySequence() bool { return false }
func (baseNode) HitsAllSameLength() bool    { return false }
func (baseNode) HitsLengthMin() int         { return 0 }
func (baseNode) HitsLengthMax() int         { return -1 } // unbounded
func (baseNode) HitsStartPointSorted() bool { return false }
func (baseNode) HitsEndPointSorted() bool   { return false }
func (baseNode) HitsHaveUniqueStart() bool  { return false }
func (baseNode) HitsHaveUniqueEnd() bool    { return false }
func (baseNode) HitsAreUnique() bool        { return false }
