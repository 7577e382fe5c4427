package collate

import (
	"testing"

	"golang.org/x/text/language"
)

func TestCaseInsensitiveCollatesEqual(t *testing.T) {
	c := New(language.English)
	cmp := c.Comparator(CaseInsensitive)
	if cmp([]byte("The"), []byte("the")) != 0 {
		t.Fatalf("expected The == the under case-insensitive collation")
	}
}

func TestCaseSensitiveOrdersDeterministically(t *testing.T) {
	c := New(language.English)
	cmp := c.Comparator(CaseSensitive)
	if cmp([]byte("The"), []byte("The")) != 0 {
		t.Fatalf("expected identical strings to compare equal")
	}
}

func TestKeyOrderingMatchesCompare(t *testing.T) {
	c := New(language.English)
	a := c.Key([]byte("apple"), CaseSensitive)
	b := c.Key([]byte("banana"), CaseSensitive)
	if string(a) >= string(b) {
		t.Fatalf("expected key(apple) < key(banana)")
	}
}
