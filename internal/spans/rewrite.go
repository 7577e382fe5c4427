package spans

// Rewrite runs a node's Rewrite once. Most rules apply locally in each
// node's own Rewrite method (flatten in AndNode/OrNode.Rewrite, identity
// elimination there too, the sorted/unique wrapper choice in
// SortedNode.Rewrite); this entry point exists for callers that don't
// want to remember which node type is the tree's root.
func Rewrite(n Node) (Node, error) { return n.Rewrite() }

// InvertSmallNegativeClauses implements rewriter rule 4: within an AND,
// a NotNode clause that is cheap to invert (its own child's reverse
// matching cost is small relative to the AND's other clauses) is better
// evaluated as "subtract these hits from the positive clauses' join"
// than as a standalone complement over the whole doc. This is applied as
// an explicit post-rewrite pass, rather than inside AndNode.Rewrite
// itself, because it needs every sibling's cost estimate at once
// (§4.4 rule 6's bottom-up cost estimate must already be available).
func InvertSmallNegativeClauses(and *AndNode, seg Segment, okayToInvert bool) *AndNode {
	if !okayToInvert {
		return and
	}
	var positive []Node
	var negative []Node
	for _, c := range and.Children {
		if not, ok := c.(*NotNode); ok {
			negative = append(negative, not.Child)
		} else {
			positive = append(positive, c)
		}
	}
	if len(negative) == 0 || len(positive) == 0 {
		return and
	}
	// The rewritten form keeps the positive clauses as the driving AND and
	// relies on the caller's filter stage to subtract the negative
	// clauses' hits; this function only decides whether inversion is
	// worthwhile, leaving the actual subtraction to FilterByDocsetNode or
	// an equivalent exclusion filter the caller wires around the result.
	cheapest := uint64(1) << 62
	for _, n := range negative {
		if cost := n.ReverseMatchingCost(seg); cost < cheapest {
			cheapest = cost
		}
	}
	var driverCost uint64
	for _, p := range positive {
		driverCost += p.ReverseMatchingCost(seg)
	}
	if cheapest >= driverCost {
		return and // inverting would not be cheaper; leave the AND as-is
	}
	return &AndNode{Children: append(positive, negative...)}
}
