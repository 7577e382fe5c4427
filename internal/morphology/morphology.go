// Package morphology supplies the stemmed-equality predicate that §4.5's
// forward-index NFA matcher supplements the spec's literal/regex token
// predicates with: a token state that matches any term whose
// Porter-stemmed English form equals a configured stem. Built on
// github.com/kljensen/snowball, inherited directly from the teacher's
// own stemmer filter and given a new home here instead of a char/token
// filter, since tokenization itself sits outside the engine's core.
package morphology

import (
	"strings"

	"github.com/kljensen/snowball"
)

// Stem reduces word to its Porter-stemmed form under the given language
// (e.g. "english"), lower-casing first since the snowball stemmer
// expects lowercase input.
func Stem(word, language string) (string, error) {
	return snowball.Stem(strings.ToLower(word), language, true)
}

// StemEquals reports whether term's stem matches targetStem exactly,
// the predicate a stemmed-equality NFA token state evaluates once per
// candidate term during compile-time expansion to global term ids.
func StemEquals(term []byte, targetStem, language string) (bool, error) {
	stem, err := Stem(string(term), language)
	if err != nil {
		return false, err
	}
	return stem == targetStem, nil
}
