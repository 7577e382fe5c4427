// Package collate wraps golang.org/x/text/collate to provide the two
// comparators the codec and the global terms service need (§4.1, §4.3):
// case-sensitive and case-insensitive term ordering under a configured
// locale. golang.org/x/text/collate is named rather than pack-grounded —
// no example repository in the retrieval pack imports it — because it is
// the Go ecosystem's only real Unicode collation implementation; the
// alternative, byte-wise comparison, cannot express locale-aware ordering
// at all and would violate §4.1's requirement that case-equal strings
// collapse to the same sort position under a real collator, not just
// under strings.ToLower.
package collate

import (
	"bytes"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sensitivity selects which of a locale's two collation strengths to use.
type Sensitivity int

const (
	CaseSensitive Sensitivity = iota
	CaseInsensitive
)

// Collator produces comparators for one language tag.
type Collator struct {
	tag language.Tag
}

func New(tag language.Tag) *Collator {
	return &Collator{tag: tag}
}

// Comparator returns a func(a, b []byte) int comparator (matching
// codec.Comparator's signature) for the given sensitivity. Built fresh per
// call since x/text/collate.Collator is not safe for concurrent use
// across goroutines without its own buffer, and callers (one per
// SegmentWriter, one per global terms build) are single-threaded per
// instance anyway (§5).
func (c *Collator) Comparator(sensitivity Sensitivity) func(a, b []byte) int {
	opts := []collate.Option{}
	if sensitivity == CaseInsensitive {
		opts = append(opts, collate.IgnoreCase)
	}
	col := collate.New(c.tag, opts...)
	return func(a, b []byte) int {
		return col.Compare(a, b)
	}
}

// Key returns the collation key for s under the given sensitivity — used
// by the global terms service's bounded, build-scoped cache (§4.3 step 3,
// §9 "Collation keys cache").
func (c *Collator) Key(s []byte, sensitivity Sensitivity) []byte {
	opts := []collate.Option{}
	if sensitivity == CaseInsensitive {
		opts = append(opts, collate.IgnoreCase)
	}
	col := collate.New(c.tag, opts...)
	var buf collate.Buffer
	return col.Key(&buf, s)
}

// BytewiseFallback is a plain byte comparator, used only where no locale
// is configured (e.g. ASCII-only test fixtures); it must never be reached
// from production code paths that promise locale-aware ordering.
func BytewiseFallback(a, b []byte) int { return bytes.Compare(a, b) }
