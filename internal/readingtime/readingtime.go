// Package readingtime estimates how long a mixed Chinese/English post takes
// to read.
package readingtime

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

const (
	cjkPerMinute   = 300
	wordsPerMinute = 200
)

var (
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	displayMathRe = regexp.MustCompile(`(?s)\$\$.*?\$\$`)
	inlineMathRe  = regexp.MustCompile(`\$[^$]+\$`)
)

// isCJK reports whether r is a CJK unified ideograph (basic block or
// extension A).
func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF)
}

// Estimate returns the reading time of text in whole minutes, never less
// than one. HTML tags and math spans are ignored; CJK characters count at
// 300 per minute and other whitespace-separated words at 200 per minute.
func Estimate(text string) int {
	clean := htmlTagRe.ReplaceAllString(text, "")
	clean = displayMathRe.ReplaceAllString(clean, "")
	clean = inlineMathRe.ReplaceAllString(clean, "")

	cjk := 0
	rest := strings.Map(func(r rune) rune {
		if isCJK(r) {
			cjk++
			return ' '
		}
		return r
	}, clean)
	words := len(strings.FieldsFunc(rest, unicode.IsSpace))

	minutes := float64(cjk)/cjkPerMinute + float64(words)/wordsPerMinute
	return max(1, int(math.Round(minutes)))
}
