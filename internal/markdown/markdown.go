// Package markdown converts post bodies to HTML fragments.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts a Markdown body (frontmatter already removed) to an HTML
// fragment.
type Renderer interface {
	Render(src string) (string, error)
}

// Options selects the Markdown extensions enabled on top of CommonMark.
type Options struct {
	Tables        bool
	Strikethrough bool
	TaskLists     bool
	Linkify       bool
	Math          bool
	// CJK suppresses the soft-break space between lines of Chinese text.
	CJK bool
}

// DefaultOptions enables the GFM set plus math and CJK line handling.
func DefaultOptions() Options {
	return Options{
		Tables:        true,
		Strikethrough: true,
		TaskLists:     true,
		Linkify:       true,
		Math:          true,
		CJK:           true,
	}
}

// GoldmarkRenderer is the goldmark-backed Renderer.
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a renderer for opts. Raw HTML inside Markdown is omitted
// from the output.
func NewRenderer(opts Options) *GoldmarkRenderer {
	var exts []goldmark.Extender
	if opts.Tables {
		exts = append(exts, extension.Table)
	}
	if opts.Strikethrough {
		exts = append(exts, extension.Strikethrough)
	}
	if opts.TaskLists {
		exts = append(exts, extension.TaskList)
	}
	if opts.Linkify {
		exts = append(exts, extension.Linkify)
	}
	if opts.CJK {
		exts = append(exts, extension.CJK)
	}
	if opts.Math {
		exts = append(exts, Math)
	}
	return &GoldmarkRenderer{md: goldmark.New(goldmark.WithExtensions(exts...))}
}

// Render implements Renderer.
func (r *GoldmarkRenderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var leadingH1Re = regexp.MustCompile(`^#\s+`)

// StripLeadingH1 removes the first non-blank line when it is a level-one ATX
// heading, together with the blank lines that follow it. Line endings are
// normalized to LF; everything else is returned unchanged.
func StripLeadingH1(md string) string {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	md = strings.ReplaceAll(md, "\r", "\n")
	lines := strings.Split(md, "\n")

	i := skipBlank(lines, 0)
	if i < len(lines) && leadingH1Re.MatchString(lines[i]) {
		return strings.Join(lines[skipBlank(lines, i+1):], "\n")
	}
	return md
}

func skipBlank(lines []string, i int) int {
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return i
}
