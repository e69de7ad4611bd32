package site

import (
	"slices"
	"strings"
	"time"
)

// Post is the summary of one rendered post. Date is YYYY-MM-DD or empty.
type Post struct {
	Slug        string   `json:"slug" yaml:"slug"`
	Title       string   `json:"title" yaml:"title"`
	Date        string   `json:"date,omitempty" yaml:"date,omitempty"`
	Tags        []string `json:"tags" yaml:"tags"`
	ReadingTime int      `json:"readingTime" yaml:"readingTime"`
}

// Result is the outcome of a successful build.
type Result struct {
	BuildID  string
	Posts    []Post
	Duration time.Duration
}

// DurationMs returns the build duration in milliseconds.
func (r *Result) DurationMs() float64 {
	return float64(r.Duration.Microseconds()) / 1000
}

// SortPosts orders posts newest first, dated before undated. The sort is
// stable, so posts with equal dates keep their incoming (file name) order.
func SortPosts(posts []Post) {
	slices.SortStableFunc(posts, comparePosts)
}

func comparePosts(a, b Post) int {
	switch {
	case a.Date == "" && b.Date == "":
		return 0
	case a.Date == "":
		return 1
	case b.Date == "":
		return -1
	default:
		return strings.Compare(b.Date, a.Date)
	}
}
