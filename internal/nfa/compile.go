package nfa

import "corpussearch/blacklab/internal/globalterms"

// Expr is the small regular-expression-shaped AST that gets compiled to
// an NFA Program: literal/predicate tokens, concatenation, alternation,
// and bounded/unbounded repetition. Callers build an Expr directly;
// internal/spans does not mark any subtree as NFA-eligible and never
// hands a query to this package.
type Expr interface {
	compile(c *compiler) (start, end StateID)
}

// Token matches any global term id accepted by Predicate.
type Token struct {
	Predicate Predicate
}

// Concat matches its operands one after another (A then B then...).
type Concat struct {
	Operands []Expr
}

// Alt matches any one of its operands, preferring the first (Go regexp's
// leftmost-alternative-wins convention) for longest/greedy-match ties.
type Alt struct {
	Operands []Expr
}

// Repeat matches its operand between Min and Max times inclusive; Max ==
// -1 means unbounded. Greedy: prefers matching one more repetition over
// stopping, mirroring §4.4's Repetition node.
type Repeat struct {
	Operand  Expr
	Min, Max int
}

type compiler struct {
	states []State
}

func (c *compiler) add(s State) StateID {
	c.states = append(c.states, s)
	return StateID(len(c.states) - 1)
}

// patch sets a not-yet-connected state's outgoing edge(s) to target. Every
// end returned by compile() is either a KindToken (one edge) or a
// KindEpsilon join/placeholder (one edge); real two-edge KindSplit nodes
// have both edges wired directly by their creator and are never patch()'d.
func (c *compiler) patch(id StateID, target StateID) {
	s := &c.states[id]
	switch s.Kind {
	case KindToken, KindEpsilon:
		s.Next = target
	}
}

func (c *compiler) epsilon() StateID {
	return c.add(State{Kind: KindEpsilon, Next: -1})
}

func (t Token) compile(c *compiler) (StateID, StateID) {
	id := c.add(State{Kind: KindToken, Predicate: t.Predicate, Next: -1})
	return id, id
}

func (cat Concat) compile(c *compiler) (StateID, StateID) {
	if len(cat.Operands) == 0 {
		id := c.epsilon()
		return id, id
	}
	firstStart, prevEnd := cat.Operands[0].compile(c)
	for _, op := range cat.Operands[1:] {
		start, end := op.compile(c)
		c.patch(prevEnd, start)
		prevEnd = end
	}
	return firstStart, prevEnd
}

func (a Alt) compile(c *compiler) (StateID, StateID) {
	// A chain of binary splits, so Preferred always resolves against
	// exactly two candidates at a time regardless of operand count.
	starts := make([]StateID, len(a.Operands))
	ends := make([]StateID, len(a.Operands))
	for i, op := range a.Operands {
		starts[i], ends[i] = op.compile(c)
	}
	joinID := c.epsilon()
	for _, e := range ends {
		c.patch(e, joinID)
	}
	splitID := starts[len(starts)-1]
	for i := len(starts) - 2; i >= 0; i-- {
		splitID = c.add(State{Kind: KindSplit, Out1: starts[i], Out2: splitID, Preferred: 1})
	}
	return splitID, joinID
}

func (r Repeat) compile(c *compiler) (StateID, StateID) {
	if r.Max == -1 {
		return r.compileUnbounded(c)
	}
	var ops []Expr
	for i := 0; i < r.Min; i++ {
		ops = append(ops, r.Operand)
	}
	for i := r.Min; i < r.Max; i++ {
		// An optional occurrence: match the operand or nothing. Expressed
		// as Alt{operand, epsilon} rather than Repeat{0,1} to avoid
		// recompiling this same bounded branch recursively.
		ops = append(ops, Alt{Operands: []Expr{r.Operand, Concat{}}})
	}
	if len(ops) == 0 {
		id := c.epsilon()
		return id, id
	}
	return Concat{Operands: ops}.compile(c)
}

// compileUnbounded builds Min mandatory copies of the operand followed by
// the classic Thompson loop (split(body, out), body loops back to the
// split) for the unbounded remainder. Min == 0 collapses to just the loop.
func (r Repeat) compileUnbounded(c *compiler) (StateID, StateID) {
	splitID := c.add(State{Kind: KindSplit, Out1: -1, Out2: -1, Preferred: 1})
	bodyStart, bodyEnd := r.Operand.compile(c)
	// splitID is a real two-edge split (loop back in vs. exit), wired
	// directly rather than through patch(), which only ever resolves the
	// single outgoing edge of a Token or Epsilon end.
	c.states[splitID].Out1 = bodyStart
	c.patch(bodyEnd, splitID)
	outID := c.epsilon()
	c.states[splitID].Out2 = outID

	if r.Min == 0 {
		return splitID, outID
	}
	var mandatory []Expr
	for i := 0; i < r.Min; i++ {
		mandatory = append(mandatory, r.Operand)
	}
	firstStart, prevEnd := mandatory[0].compile(c)
	for _, op := range mandatory[1:] {
		start, end := op.compile(c)
		c.patch(prevEnd, start)
		prevEnd = end
	}
	c.patch(prevEnd, splitID)
	return firstStart, outID
}

// Compile turns an Expr into a Program, terminating every accepting path
// in a KindAccept state.
func Compile(e Expr) *Program {
	c := &compiler{}
	start, end := e.compile(c)
	acceptID := c.add(State{Kind: KindAccept})
	c.patch(end, acceptID)
	return &Program{States: c.states, Start: start}
}

// LiteralExpr builds a Token matching literal exactly via the global
// terms service, the common case for compiling a plain word query into
// NFA form.
func LiteralExpr(terms *globalterms.Reader, literal []byte) Expr {
	return Token{Predicate: ExpandLiteral(terms, literal)}
}
