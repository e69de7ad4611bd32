package templates

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes &, <, >, " and ' for use in element content and quoted
// attribute values.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// PathSegment percent-encodes s for use as a single URL path segment.
func PathSegment(s string) string {
	return url.PathEscape(s)
}

// PostHref is the index-relative link to a post page.
func PostHref(slug string) string {
	return "posts/" + PathSegment(slug) + ".html"
}

var dateRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)

func splitDate(date string) (year string, month, day int, ok bool) {
	m := dateRe.FindStringSubmatch(strings.TrimSpace(date))
	if m == nil {
		return "", 0, 0, false
	}
	month, _ = strconv.Atoi(m[2])
	day, _ = strconv.Atoi(m[3])
	return m[1], month, day, true
}

// NormalizeDate zero-pads a YYYY-M-D date to YYYY-MM-DD. Any other input
// reports false.
func NormalizeDate(date string) (string, bool) {
	y, m, d, ok := splitDate(date)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s-%02d-%02d", y, m, d), true
}

// FormatDateLong renders a date as "YYYY 年 M 月 D 日", or "" when the date
// is absent or not in YYYY-M-D form.
func FormatDateLong(date string) string {
	y, m, d, ok := splitDate(date)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s 年 %d 月 %d 日", y, m, d)
}

// FormatDateShort renders a date as "YYYY.MM.DD", or "" when the date is
// absent or not in YYYY-M-D form.
func FormatDateShort(date string) string {
	y, m, d, ok := splitDate(date)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s.%02d.%02d", y, m, d)
}

// DedupeTags drops blank and repeated tags, keeping first-seen order.
func DedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// NormalizeTags dedupes tags and substitutes the single uncategorized
// sentinel for an empty list.
func NormalizeTags(tags []string, uncategorized string) []string {
	out := DedupeTags(tags)
	if len(out) == 0 {
		return []string{uncategorized}
	}
	return out
}

// fill replaces each {key} placeholder in tmpl.
func fill(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, 2*len(values))
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// primaryLang returns the base language of a BCP 47 tag ("zh-CN" -> "zh").
func primaryLang(lang string) string {
	t, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(lang))
	}
	base, _ := t.Base()
	return base.String()
}
