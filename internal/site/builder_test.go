package site

import (
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/venlacy0/venblog/internal/config"
	"github.com/venlacy0/venblog/internal/eventstore"
	"github.com/venlacy0/venblog/internal/foundation/errors"
	"github.com/venlacy0/venblog/internal/markdown"
	"github.com/venlacy0/venblog/internal/metrics"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSite(t *testing.T, posts map[string]string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, PostsDir), 0o755))
	for name, content := range posts {
		require.NoError(t, os.WriteFile(filepath.Join(root, PostsDir, name), []byte(content), 0o644))
	}
	return root
}

func newBuilder(root string) *Builder {
	return &Builder{Root: root, Config: config.Defaults(), Logger: quietLogger()}
}

func countElements(t *testing.T, page, tag string) int {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)
	n := 0
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			n++
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return n
}

func slugs(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func TestBuild_HelloPost(t *testing.T) {
	root := newSite(t, map[string]string{
		"hello.md": "---\ntitle: Hello\ndate: 2024-01-02\ntags: [a]\n---\n# Hello\n\nWorld\n",
	})

	res, err := newBuilder(root).Build(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, res.BuildID)
	require.GreaterOrEqual(t, res.DurationMs(), 0.0)
	require.Equal(t, []Post{{Slug: "hello", Title: "Hello", Date: "2024-01-02", Tags: []string{"a"}, ReadingTime: 1}}, res.Posts)

	page, err := os.ReadFile(filepath.Join(root, PostsDir, "hello.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), "<p>World</p>")
	require.Equal(t, 1, countElements(t, string(page), "h1"), "leading heading must not be duplicated")

	index, err := os.ReadFile(filepath.Join(root, IndexFile))
	require.NoError(t, err)
	require.Contains(t, string(index), `href="posts/hello.html"`)
}

func TestBuild_MissingPostsDir(t *testing.T) {
	root := t.TempDir()

	res, err := newBuilder(root).Build(t.Context())
	require.NoError(t, err)
	require.Empty(t, res.Posts)
	require.NoFileExists(t, filepath.Join(root, IndexFile))
}

func TestBuild_EmptyPostsDir(t *testing.T) {
	root := newSite(t, map[string]string{"notes.txt": "not a post"})

	res, err := newBuilder(root).Build(t.Context())
	require.NoError(t, err)
	require.NotNil(t, res.Posts)
	require.Empty(t, res.Posts)

	index, err := os.ReadFile(filepath.Join(root, IndexFile))
	require.NoError(t, err)
	require.NotContains(t, string(index), "posts/")
}

func TestBuild_LastPostRemovedRefreshesIndex(t *testing.T) {
	root := newSite(t, map[string]string{"only.md": "---\ntitle: Only\n---\nBody\n"})
	b := newBuilder(root)

	_, err := b.Build(t.Context())
	require.NoError(t, err)
	index, err := os.ReadFile(filepath.Join(root, IndexFile))
	require.NoError(t, err)
	require.Contains(t, string(index), `href="posts/only.html"`)

	require.NoError(t, os.Remove(filepath.Join(root, PostsDir, "only.md")))
	res, err := b.Build(t.Context())
	require.NoError(t, err)
	require.Empty(t, res.Posts)

	index, err = os.ReadFile(filepath.Join(root, IndexFile))
	require.NoError(t, err)
	require.NotContains(t, string(index), "only.html")
}

func TestBuild_MathPageLoadsTypesetter(t *testing.T) {
	root := newSite(t, map[string]string{
		"math.md": "Euler $e^{i\\pi}+1=0$ and broken $\\frac{$ here.\n\n$$\n\\int_0^1 x\\,dx\n$$\n\nAfter **math**.\n",
	})

	_, err := newBuilder(root).Build(t.Context())
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(root, PostsDir, "math.html"))
	require.NoError(t, err)
	page := string(raw)
	require.Contains(t, page, `<span class="math math-inline">\(e^{i\pi}+1=0\)</span>`)
	require.Contains(t, page, `<span class="math math-inline">\(\frac{\)</span>`)
	require.Contains(t, page, `<div class="math math-display">\[\int_0^1 x\,dx\]</div>`)
	require.Contains(t, page, "<p>After <strong>math</strong>.</p>")
	require.Contains(t, page, `href="`+config.KatexStylesheet+`"`)
	require.Contains(t, page, `<script src="`+config.KatexScript+`" defer></script>`)
	require.Contains(t, page, `<script src="../math.js" defer></script>`)
}

func TestBuild_Ordering(t *testing.T) {
	root := newSite(t, map[string]string{
		"a.md": "---\ndate: 2024-01-01\n---\nA",
		"b.md": "---\ntitle: B\n---\nB",
		"c.md": "---\ndate: 2024-6-1\n---\nC",
		"d.md": "---\ndate: 2024-01-01\n---\nD",
		"e.md": "---\ndate: someday\n---\nE",
	})

	res, err := newBuilder(root).Build(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"c", "a", "d", "b", "e"}, slugs(res.Posts))
	require.Equal(t, "2024-06-01", res.Posts[0].Date)
	require.Empty(t, res.Posts[4].Date)
	require.Equal(t, "a", res.Posts[1].Title)
}

func TestBuild_UppercaseExtensionAndSubdirsIgnored(t *testing.T) {
	root := newSite(t, map[string]string{"Loud.MD": "text"})
	require.NoError(t, os.MkdirAll(filepath.Join(root, PostsDir, "dir.md"), 0o755))

	res, err := newBuilder(root).Build(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"Loud"}, slugs(res.Posts))
	require.FileExists(t, filepath.Join(root, PostsDir, "Loud.html"))
}

type failingRenderer struct {
	inner  markdown.Renderer
	failOn string
}

func (f failingRenderer) Render(src string) (string, error) {
	if strings.Contains(src, f.failOn) {
		return "", stderrors.New("converter exploded")
	}
	return f.inner.Render(src)
}

func TestBuild_RenderFailureAbortsWithoutRollback(t *testing.T) {
	root := newSite(t, map[string]string{
		"a.md": "first",
		"b.md": "BOOM",
		"c.md": "third",
	})
	b := newBuilder(root)
	b.Renderer = failingRenderer{inner: markdown.NewRenderer(markdown.DefaultOptions()), failOn: "BOOM"}

	res, err := b.Build(t.Context())
	require.Nil(t, res)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryRender))
	require.ErrorContains(t, err, "converter exploded")

	require.FileExists(t, filepath.Join(root, PostsDir, "a.html"))
	require.NoFileExists(t, filepath.Join(root, PostsDir, "c.html"))
	require.NoFileExists(t, filepath.Join(root, IndexFile))
}

func TestBuild_WriteFailure(t *testing.T) {
	root := newSite(t, map[string]string{"x.md": "body"})
	require.NoError(t, os.MkdirAll(filepath.Join(root, PostsDir, "x.html"), 0o755))

	_, err := newBuilder(root).Build(t.Context())
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryWrite))
}

func TestBuild_ScanFailure(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, PostsDir), []byte("not a dir"), 0o644))

	_, err := newBuilder(root).Build(t.Context())
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryScan))
}

type stageRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	stages   []string
	outcomes []metrics.BuildOutcomeLabel
	posts    int
}

func (r *stageRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stage)
}

func (r *stageRecorder) IncBuildOutcome(outcome metrics.BuildOutcomeLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *stageRecorder) SetPostsRendered(n int) { r.posts = n }

func TestBuild_RecordsStages(t *testing.T) {
	root := newSite(t, map[string]string{"a.md": "x", "b.md": "y"})
	rec := &stageRecorder{}
	b := newBuilder(root)
	b.Recorder = rec

	_, err := b.Build(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{string(StageScanning), string(StageRendering), string(StageIndex)}, rec.stages)
	require.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeSuccess}, rec.outcomes)
	require.Equal(t, 2, rec.posts)
}

func TestBuild_Deterministic(t *testing.T) {
	root := newSite(t, map[string]string{
		"one.md": "---\ntitle: One\ntags: [x, y]\n---\nbody",
		"two.md": "---\ntitle: Two\ndate: 2020-02-02\n---\nbody",
	})

	_, err := newBuilder(root).Build(t.Context())
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(root, IndexFile))
	require.NoError(t, err)

	_, err = newBuilder(root).Build(t.Context())
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(root, IndexFile))
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

func TestBuild_AppendsHistory(t *testing.T) {
	store, err := eventstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	root := newSite(t, map[string]string{"a.md": "x", "b.md": "BOOM"})
	b := newBuilder(root)
	b.History = store

	b.Renderer = failingRenderer{inner: markdown.NewRenderer(markdown.DefaultOptions()), failOn: "BOOM"}
	_, err = b.Build(t.Context())
	require.Error(t, err)

	b.Renderer = nil
	res, err := b.Build(t.Context())
	require.NoError(t, err)

	recent, err := store.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	ok, err := store.Get(t.Context(), res.BuildID)
	require.NoError(t, err)
	require.Equal(t, eventstore.OutcomeSuccess, ok.Outcome)
	require.Equal(t, 2, ok.Posts)

	var failed eventstore.BuildRecord
	for _, r := range recent {
		if r.BuildID != res.BuildID {
			failed = r
		}
	}
	require.Equal(t, eventstore.OutcomeFailed, failed.Outcome)
	require.Equal(t, string(StageRendering), failed.Stage)
	require.Contains(t, failed.Error, "converter exploded")
}
