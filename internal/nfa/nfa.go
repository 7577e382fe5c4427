// Package nfa implements the forward-index NFA matcher (§4.5): compiled
// query subtrees whose alphabet is term ids, evaluated position-by-
// position against the forward index.
package nfa

import (
	"corpussearch/blacklab/internal/fwdindex"
	"corpussearch/blacklab/internal/globalterms"
	"corpussearch/blacklab/internal/postings"
)

// StateID indexes into an NFA's flat state table.
type StateID int

// Direction selects which way matching walks positions: Forward (+1) for
// ordinary left-to-right matching, Backward (-1) for "left-of-hit"
// evaluation.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// StateKind tags the token, split and accept state shapes of §4.5's "NFA
// states," plus an epsilon passthrough state.
type StateKind int

const (
	KindToken StateKind = iota
	KindSplit
	KindEpsilon
	KindAccept
)

// Predicate tests whether a global term id matches a token state, once
// expanded at compile time to the concrete set of ids it accepts.
type Predicate struct {
	// Accepts is the compile-time-expanded set of term ids this predicate
	// matches (§4.5 "Predicates are expanded once at compile time to a
	// set of global term ids via the terms service").
	Accepts map[globalterms.GlobalID]bool
}

func (p Predicate) Matches(id globalterms.GlobalID) bool { return p.Accepts[id] }

// State is one node of the NFA's flat state table.
type State struct {
	Kind StateKind

	// KindToken and KindEpsilon fields. KindEpsilon is an unconditional,
	// single-outgoing-edge passthrough — the join point after an
	// alternation or the exit of a repetition loop, kept distinct from
	// KindSplit (which always has two live edges) so a node patched
	// exactly once never leaves a dangling edge.
	Predicate Predicate
	Next      StateID

	// KindSplit fields: a non-deterministic fork. Preferred marks which
	// of the two outgoing edges is favored for longest-match semantics.
	Out1, Out2 StateID
	Preferred  int // 1 or 2

	// KindAccept has no further fields; reaching it ends the walk.
}

// Program is the pure-data compiled NFA: a flat state table plus the
// start state. It holds no per-segment locks and no mutable fields — it
// is built once (globally, via expansion against the global terms
// service) and then shared read-only across every segment and goroutine
// that matches against it (§4.5 "The NFA is pure data").
type Program struct {
	States []State
	Start  StateID
}

// ExpandLiteral builds a Predicate that matches every global term id
// whose string equals literal (byte-exact), the literal-predicate half
// of §4.5's token state family.
func ExpandLiteral(terms *globalterms.Reader, literal []byte) Predicate {
	accepts := map[globalterms.GlobalID]bool{}
	if id, ok := terms.Lookup(literal); ok {
		accepts[id] = true
	}
	return Predicate{Accepts: accepts}
}

// ExpandPredicate builds a Predicate from an arbitrary per-term test
// (e.g. a compiled regex match, or morphology.StemEquals), applied once
// to every term in the global term space — the general form of §4.5's
// "expanded once at compile time."
func ExpandPredicate(terms *globalterms.Reader, test func(term []byte) bool) Predicate {
	accepts := map[globalterms.GlobalID]bool{}
	for id := 0; id < terms.NumTerms(); id++ {
		gid := globalterms.GlobalID(id)
		if test(terms.TermOf(gid)) {
			accepts[gid] = true
		}
	}
	return Predicate{Accepts: accepts}
}

// activeSet is the set of NFA states alive at one position during a
// walk, kept as a per-thread local — never shared across matches, and
// never a package-level or goroutine-local cache (§9's note that the
// source's thread-local is a GC-runtime artifact we do not carry over;
// here it is simply a stack-allocated local like the matcher's other
// per-thread scratch).
type activeSet map[StateID]bool

// addState follows KindSplit edges eagerly (standard Thompson-NFA
// epsilon-closure), so activeSet never holds a split state directly.
func (p *Program) addState(set activeSet, id StateID, seen map[StateID]bool) {
	if seen[id] {
		return
	}
	seen[id] = true
	switch p.States[id].Kind {
	case KindSplit:
		s := p.States[id]
		p.addState(set, s.Out1, seen)
		p.addState(set, s.Out2, seen)
	case KindEpsilon:
		p.addState(set, p.States[id].Next, seen)
	default:
		set[id] = true
	}
}

// Matcher walks one Program against one segment's forward index in a
// configured direction, starting at a given position.
type Matcher struct {
	program   *Program
	reader    *fwdindex.Reader
	terms     *globalterms.Reader
	segmentID int
	direction Direction
}

func NewMatcher(program *Program, reader *fwdindex.Reader, terms *globalterms.Reader, segmentID int, direction Direction) *Matcher {
	return &Matcher{program: program, reader: reader, terms: terms, segmentID: segmentID, direction: direction}
}

// MatchAt walks the NFA starting at position pos in doc, stepping by
// m.direction each position, until either an accept state is active
// (success) or the active set empties / the doc boundary is reached
// (failure). Returns the end position (exclusive, in walk direction) on
// success.
func (m *Matcher) MatchAt(doc postings.DocID, pos int) (end int, matched bool, err error) {
	docLen := m.reader.DocLength(doc)

	current := activeSet{}
	m.program.addState(current, m.program.Start, map[StateID]bool{})
	if m.hasAccept(current) {
		return pos, true, nil
	}

	for pos >= 0 && pos < docLen {
		localTermID, err := m.reader.TermAt(doc, pos)
		if err != nil {
			return 0, false, err
		}
		globalID := m.terms.SegmentToGlobal(m.segmentID, localTermID)

		next := activeSet{}
		seen := map[StateID]bool{}
		for id := range current {
			s := m.program.States[id]
			if s.Kind == KindToken && s.Predicate.Matches(globalID) {
				m.program.addState(next, s.Next, seen)
			}
		}
		current = next
		pos += int(m.direction)
		if m.hasAccept(current) {
			return pos, true, nil
		}
		if len(current) == 0 {
			return 0, false, nil
		}
	}
	return 0, false, nil
}

func (m *Matcher) hasAccept(set activeSet) bool {
	for id := range set {
		if m.program.States[id].Kind == KindAccept {
			return true
		}
	}
	return false
}
