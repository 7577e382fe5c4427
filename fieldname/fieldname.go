// Package fieldname parses and builds the Lucene-compatible composite field
// identifiers described in §6.4: a base field, an optional annotation, an
// optional sensitivity tag, and an optional bookkeeping subfield, joined by
// '%', '@' and '#' respectively.
package fieldname

import "strings"

const (
	AnnotationSeparator = '%'
	SensitivitySeparator = '@'
	BookkeepingSeparator = '#'
)

// BookkeepingKind enumerates the recognized bookkeeping subfields.
type BookkeepingKind string

const (
	BookkeepingNone        BookkeepingKind = ""
	BookkeepingContentStore BookkeepingKind = "cs"
	BookkeepingForwardIndex BookkeepingKind = "fi"
	BookkeepingTokenLength  BookkeepingKind = "length_tokens"
)

// Name is a parsed composite field identifier. Base is always present;
// Annotation, Sensitivity and Bookkeeping are empty when absent.
type Name struct {
	Base         string
	Annotation   string
	Sensitivity  string
	Bookkeeping  BookkeepingKind
}

// Parse splits a composite field identifier such as "contents%word@i" or
// "contents%word#length_tokens" into its constituent parts. It does not
// validate that Base is a legal XML element name; sanitizing raw field
// names is the indexer's job (§6.4), not the core's.
func Parse(composite string) Name {
	s := composite
	var n Name

	if i := strings.IndexByte(s, BookkeepingSeparator); i >= 0 {
		n.Bookkeeping = BookkeepingKind(s[i+1:])
		s = s[:i]
	}
	if i := strings.IndexByte(s, SensitivitySeparator); i >= 0 {
		n.Sensitivity = s[i+1:]
		s = s[:i]
	}
	if i := strings.IndexByte(s, AnnotationSeparator); i >= 0 {
		n.Annotation = s[i+1:]
		s = s[:i]
	}
	n.Base = s
	return n
}

// String reassembles the composite identifier. String(Parse(x)) == x for
// any well-formed x.
func (n Name) String() string {
	var b strings.Builder
	b.WriteString(n.Base)
	if n.Annotation != "" {
		b.WriteByte(AnnotationSeparator)
		b.WriteString(n.Annotation)
	}
	if n.Sensitivity != "" {
		b.WriteByte(SensitivitySeparator)
		b.WriteString(n.Sensitivity)
	}
	if n.Bookkeeping != BookkeepingNone {
		b.WriteByte(BookkeepingSeparator)
		b.WriteString(string(n.Bookkeeping))
	}
	return b.String()
}

// IsAnnotated reports whether the name carries an annotation component.
func (n Name) IsAnnotated() bool { return n.Annotation != "" }

// WithSensitivity returns a copy of n with its sensitivity tag replaced.
func (n Name) WithSensitivity(sensitivity string) Name {
	n.Sensitivity = sensitivity
	return n
}

// WithBookkeeping returns a copy of n with its bookkeeping subfield replaced
// and its sensitivity tag cleared.
func (n Name) WithBookkeeping(kind BookkeepingKind) Name {
	n.Bookkeeping = kind
	n.Sensitivity = ""
	return n
}
