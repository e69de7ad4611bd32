// Package collation orders user-visible strings (post file names, tag names)
// the way a Simplified Chinese reader expects.
package collation

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var tag = language.MustParse("zh-Hans")

// Sorter compares strings with zh-Hans collation. Strings the collator
// considers equal are ordered bytewise so the result is total.
// A Sorter is not safe for concurrent use.
type Sorter struct {
	c *collate.Collator
}

// New returns a Sorter for zh-Hans.
func New() *Sorter {
	return &Sorter{c: collate.New(tag)}
}

// Compare returns -1, 0 or +1.
func (s *Sorter) Compare(a, b string) int {
	if r := s.c.CompareString(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

// Strings sorts ss in place.
func (s *Sorter) Strings(ss []string) {
	slices.SortStableFunc(ss, s.Compare)
}

// Sort sorts ss in place with a fresh Sorter.
func Sort(ss []string) {
	New().Strings(ss)
}
