package site

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/venlacy0/venblog/internal/collation"
	"github.com/venlacy0/venblog/internal/foundation/errors"
	"github.com/venlacy0/venblog/internal/frontmatter"
	"github.com/venlacy0/venblog/internal/markdown"
	"github.com/venlacy0/venblog/internal/readingtime"
	"github.com/venlacy0/venblog/internal/templates"
)

// PostsDir is the source directory below the site root.
const PostsDir = "posts"

const sourceExt = ".md"

// IsSource reports whether name is a post source file name.
func IsSource(name string) bool {
	return len(name) > len(sourceExt) && strings.EqualFold(filepath.Ext(name), sourceExt)
}

// SlugOf strips the source extension from a post file name.
func SlugOf(name string) string {
	if !strings.EqualFold(filepath.Ext(name), sourceExt) {
		return name
	}
	return name[:len(name)-len(sourceExt)]
}

// scanSources lists the post source file names in dir, collated. exists is
// false when dir does not exist.
func scanSources(dir string) (names []string, exists bool, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, true, errors.SourceScanError("cannot read posts directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	for _, e := range entries {
		if e.Type().IsRegular() && IsSource(e.Name()) {
			names = append(names, e.Name())
		}
	}
	collation.Sort(names)
	return names, true, nil
}

// Source is a parsed, unrendered post.
type Source struct {
	Post     Post
	Path     string
	Document frontmatter.Document
}

// parseSource derives the post summary from a source file's content.
func parseSource(name, raw string) (Post, frontmatter.Document, string) {
	doc := frontmatter.Parse(raw)
	slug := SlugOf(name)

	title := doc.Meta.Title()
	if title == "" {
		title = slug
	}
	date, _ := templates.NormalizeDate(doc.Meta.Date())
	cleaned := markdown.StripLeadingH1(doc.Body)

	post := Post{
		Slug:        slug,
		Title:       title,
		Date:        date,
		Tags:        templates.DedupeTags(doc.Meta.Tags),
		ReadingTime: readingtime.Estimate(cleaned),
	}
	return post, doc, cleaned
}

// Collect scans and parses every post in postsDir without rendering or
// writing anything. Sources are returned in build order. A missing
// directory yields no sources.
func Collect(postsDir string) ([]Source, error) {
	names, _, err := scanSources(postsDir)
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(names))
	for _, name := range names {
		path := filepath.Join(postsDir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.SourceScanError("cannot read post").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		post, doc, _ := parseSource(name, string(raw))
		sources = append(sources, Source{Post: post, Path: path, Document: doc})
	}

	slices.SortStableFunc(sources, func(a, b Source) int {
		return comparePosts(a.Post, b.Post)
	})
	return sources, nil
}
