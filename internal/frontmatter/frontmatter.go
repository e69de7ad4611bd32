// Package frontmatter splits a post source into its key/value header block and
// Markdown body.
//
// The header format is a deliberately small subset of YAML: one `key: value`
// pair per line, plus an inline `[a, b]` list for the tags key. Parsing never
// fails; anything that is not understood is ignored.
package frontmatter

import (
	"slices"
	"strings"
)

const (
	delimiter = "---\n"
	closeSeq  = "\n---\n"

	keyTitle = "title"
	keyDate  = "date"
	keyTags  = "tags"
)

// FrontMatter is the parsed header of a post.
//
// Fields holds every scalar key (trimmed) except tags. Tags is only meaningful
// when HasTags is true.
type FrontMatter struct {
	Fields  map[string]string
	Tags    []string
	HasTags bool
}

// Get returns the trimmed value stored for key.
func (fm FrontMatter) Get(key string) (string, bool) {
	v, ok := fm.Fields[key]
	return v, ok
}

// Title returns the title field, or "" when absent.
func (fm FrontMatter) Title() string { return fm.Fields[keyTitle] }

// Date returns the raw date field, or "" when absent.
func (fm FrontMatter) Date() string { return fm.Fields[keyDate] }

// Document is the result of Parse.
type Document struct {
	Meta FrontMatter
	Body string
	// Block is the raw header text between the delimiters, including its
	// trailing newline. Empty when there is no header or the header is empty.
	Block          string
	HasFrontmatter bool
}

// String reassembles the normalized source the document was parsed from.
func (d Document) String() string {
	if !d.HasFrontmatter {
		return d.Body
	}
	return delimiter + d.Block + delimiter + d.Body
}

// Normalize converts CRLF and lone CR line endings to LF.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// Parse separates the header block from the body.
//
// A document without a leading "---\n", or whose header is never closed by a
// "---" line, has empty metadata and the whole normalized text as body.
func Parse(text string) Document {
	normalized := Normalize(text)
	noHeader := Document{Meta: emptyMeta(), Body: normalized}

	if !strings.HasPrefix(normalized, delimiter) {
		return noHeader
	}
	rest := normalized[len(delimiter):]

	if strings.HasPrefix(rest, delimiter) {
		return Document{
			Meta:           emptyMeta(),
			Body:           rest[len(delimiter):],
			HasFrontmatter: true,
		}
	}

	idx := strings.Index(rest, closeSeq)
	if idx < 0 {
		return noHeader
	}

	block := rest[:idx+1]
	return Document{
		Meta:           parseBlock(rest[:idx]),
		Body:           rest[idx+len(closeSeq):],
		Block:          block,
		HasFrontmatter: true,
	}
}

func emptyMeta() FrontMatter {
	return FrontMatter{Fields: map[string]string{}}
}

func parseBlock(block string) FrontMatter {
	fm := emptyMeta()
	for line := range strings.SplitSeq(block, "\n") {
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		val = strings.TrimSpace(val)

		if key == keyTags {
			fm.Tags = parseTags(val)
			fm.HasTags = true
			continue
		}
		fm.Fields[key] = val
	}
	return fm
}

func parseTags(val string) []string {
	if val == "[]" {
		return []string{}
	}
	if len(val) > 2 && strings.HasPrefix(val, "[") && strings.HasSuffix(val, "]") {
		tags := []string{}
		for part := range strings.SplitSeq(val[1:len(val)-1], ",") {
			if t := strings.TrimSpace(part); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	}
	if val == "" {
		return []string{}
	}
	return []string{val}
}

// Format renders a header block for a new post: title, date and tags first,
// then any remaining fields in key order. The result ends with the closing
// delimiter line.
func Format(fm FrontMatter) string {
	var b strings.Builder
	b.WriteString(delimiter)
	writeField := func(key, val string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(val)
		b.WriteString("\n")
	}

	if title, ok := fm.Fields[keyTitle]; ok {
		writeField(keyTitle, title)
	}
	if date, ok := fm.Fields[keyDate]; ok {
		writeField(keyDate, date)
	}
	if fm.HasTags {
		writeField(keyTags, "["+strings.Join(fm.Tags, ", ")+"]")
	}

	keys := make([]string, 0, len(fm.Fields))
	for k := range fm.Fields {
		if k != keyTitle && k != keyDate && k != keyTags {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		writeField(k, fm.Fields[k])
	}

	b.WriteString(delimiter)
	return b.String()
}
