package templates

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/venlacy0/venblog/internal/config"
)

func parseDoc(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && slices.Contains(strings.Fields(a.Val), class) {
			return true
		}
	}
	return false
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func byClass(root *html.Node, class string) []*html.Node {
	return findAll(root, func(n *html.Node) bool { return hasClass(n, class) })
}

func byTag(root *html.Node, tag string) []*html.Node {
	return findAll(root, func(n *html.Node) bool { return n.Data == tag })
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestRenderPost_Hello(t *testing.T) {
	out, err := RenderPost(PostPage{
		Slug:        "hello",
		Title:       "Hello",
		Date:        "2024-01-02",
		Tags:        []string{"a"},
		ReadingTime: 1,
		BodyHTML:    "<p>World</p>\n",
	}, config.Defaults())
	require.NoError(t, err)

	doc := parseDoc(t, out)
	require.Equal(t, "Hello · Venlacy's Blog", textOf(byTag(doc, "title")[0]))
	require.Equal(t, "Hello", textOf(byClass(doc, "post__title")[0]))
	require.Equal(t, "2024 年 1 月 2 日", textOf(byClass(doc, "post__date")[0]))
	require.Equal(t, "2024-01-02", attr(byClass(doc, "post__date")[0], "datetime"))
	require.Equal(t, "1 分钟阅读", textOf(byClass(doc, "post__reading-time")[0]))
	require.Len(t, byClass(doc, "post__tag"), 1)
	require.Equal(t, "World", textOf(byClass(doc, "post__content")[0]))
	require.Contains(t, out, "<p>World</p>")

	links := byTag(doc, "link")
	require.Len(t, links, 2)
	require.Equal(t, "../styles.css", attr(links[0], "href"))
	require.Equal(t, config.KatexStylesheet, attr(links[1], "href"))
	require.Equal(t, "../index.html", attr(byClass(doc, "post__back")[0], "href"))

	var scripts []string
	for _, s := range byTag(doc, "script") {
		scripts = append(scripts, attr(s, "src"))
	}
	require.Equal(t, []string{config.KatexScript, "../math.js", "../theme.js", "../i18n.js", "../post.js"}, scripts)
}

func TestRenderPost_RelativeMathAssets(t *testing.T) {
	cfg := config.Defaults()
	cfg.Assets.MathStylesheet = "/vendor/katex/katex.min.css"
	cfg.Assets.MathScripts = []string{"//cdn.example.com/katex.js", "vendor/katex/katex.min.js"}
	cfg.Assets.PostScripts = nil

	out, err := RenderPost(PostPage{Slug: "x"}, cfg)
	require.NoError(t, err)

	doc := parseDoc(t, out)
	require.Equal(t, "../vendor/katex/katex.min.css", attr(byTag(doc, "link")[1], "href"))
	var scripts []string
	for _, s := range byTag(doc, "script") {
		scripts = append(scripts, attr(s, "src"))
	}
	require.Equal(t, []string{"//cdn.example.com/katex.js", "../vendor/katex/katex.min.js"}, scripts)
}

func TestRenderPost_OptionalFieldsOmitted(t *testing.T) {
	out, err := RenderPost(PostPage{Slug: "untitled", BodyHTML: ""}, config.Defaults())
	require.NoError(t, err)

	doc := parseDoc(t, out)
	require.Equal(t, "untitled", textOf(byClass(doc, "post__title")[0]))
	require.Empty(t, byClass(doc, "post__date"))
	require.Empty(t, byClass(doc, "post__reading-time"))
	require.Empty(t, byClass(doc, "post__tags"))
	require.Len(t, byClass(doc, "post__meta"), 1)
}

func TestRenderPost_InvalidDateOmitted(t *testing.T) {
	out, err := RenderPost(PostPage{Slug: "x", Date: "yesterday"}, config.Defaults())
	require.NoError(t, err)
	require.Empty(t, byClass(parseDoc(t, out), "post__date"))
}

func TestRenderPost_EscapesFieldsButNotBody(t *testing.T) {
	cfg := config.Defaults()
	cfg.Site.Title = `Tom's "Blog"`
	out, err := RenderPost(PostPage{
		Slug:     "x",
		Title:    `<script>alert('x')</script> & co`,
		Tags:     []string{"<b>", "a&b"},
		BodyHTML: "<p>fish &amp; chips</p>",
	}, cfg)
	require.NoError(t, err)

	require.NotContains(t, out, "<script>alert")
	require.Contains(t, out, "&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt; &amp; co")
	require.Contains(t, out, "Tom&#39;s &quot;Blog&quot;")
	require.Contains(t, out, "<p>fish &amp; chips</p>")
	require.NotContains(t, out, "&amp;amp;")

	doc := parseDoc(t, out)
	require.Equal(t, `<script>alert('x')</script> & co`, textOf(byClass(doc, "post__title")[0]))
	tags := byClass(doc, "post__tag")
	require.Len(t, tags, 2)
	require.Equal(t, "<b>", textOf(tags[0]))
	require.Equal(t, "a&b", textOf(tags[1]))
}

func TestRenderIndex_ZeroPosts(t *testing.T) {
	out, err := RenderIndex(nil, config.Defaults())
	require.NoError(t, err)

	doc := parseDoc(t, out)
	require.Len(t, byClass(doc, "hero"), 1)
	require.Equal(t, "thoughts, craft & code", textOf(byClass(doc, "hero__tagline")[0]))
	require.Empty(t, byClass(doc, "archive"))
	require.Empty(t, byClass(doc, "showcase"))
	require.Contains(t, out, "thoughts, craft &amp; code")
}

func TestRenderIndex_ArchiveAndShowcase(t *testing.T) {
	posts := []IndexPost{
		{Slug: "new post", Title: "New", Date: "2024-03-05", Tags: []string{"go", "web", "go"}, ReadingTime: 4},
		{Slug: "old", Title: "Old", Date: "2023-12-31", Tags: []string{"go"}, ReadingTime: 1},
		{Slug: "draft", Title: "", ReadingTime: 2},
	}
	out, err := RenderIndex(posts, config.Defaults())
	require.NoError(t, err)
	doc := parseDoc(t, out)

	cards := byClass(doc, "archive-card")
	require.Len(t, cards, 3)
	require.Equal(t, "posts/new%20post.html", attr(cards[0], "href"))
	require.Equal(t, "draft", textOf(byClass(cards[2], "archive-card__title")[0]))

	var tags []string
	require.NoError(t, json.Unmarshal([]byte(attr(cards[0], "data-tags")), &tags))
	require.Equal(t, []string{"go", "web"}, tags)
	require.NoError(t, json.Unmarshal([]byte(attr(cards[2], "data-tags")), &tags))
	require.Equal(t, []string{"未分类"}, tags)
	require.Equal(t, "2024.03.05", textOf(byClass(cards[0], "archive-card__date")[0]))
	require.Empty(t, byClass(cards[2], "archive-card__date"))

	counts := map[string]string{}
	for _, b := range byClass(doc, "archive-tag") {
		counts[textOf(byClass(b, "archive-tag__name")[0])] = textOf(byClass(b, "archive-tag__count")[0])
	}
	require.Equal(t, map[string]string{"全部": "3", "go": "2", "web": "1", "未分类": "1"}, counts)
	first := byClass(doc, "archive-tag")[0]
	require.Equal(t, "全部", textOf(byClass(first, "archive-tag__name")[0]))
	require.True(t, hasClass(first, "is-active"))

	require.Equal(t, "全部 · 共 3 篇", textOf(byClass(doc, "archive__status")[0]))

	tabs := byClass(doc, "showcase__tab")
	require.Len(t, tabs, 3)
	require.Equal(t, "true", attr(tabs[0], "aria-selected"))
	require.Equal(t, "false", attr(tabs[1], "aria-selected"))
	require.Equal(t, "未标注日期", textOf(byClass(tabs[2], "showcase__tab-date")[0]))

	panels := byClass(doc, "showcase__panel")
	require.Equal(t, "01 / 03", textOf(byClass(panels[0], "showcase__panel-index")[0]))
	values := byClass(panels[0], "showcase__fact-value")
	require.Equal(t, "2024.03.05", textOf(values[0]))
	require.Equal(t, "4 分钟", textOf(values[1]))
	require.Equal(t, "go · web", textOf(values[2]))
	require.Equal(t, "第 1 / 3 篇", textOf(byClass(doc, "showcase__status")[0]))
}

func TestRenderIndex_ShowcaseShowsAtMostThreeTags(t *testing.T) {
	out, err := RenderIndex([]IndexPost{{Slug: "a", Tags: []string{"1", "2", "3", "4"}}}, config.Defaults())
	require.NoError(t, err)
	values := byClass(parseDoc(t, out), "showcase__fact-value")
	require.Equal(t, "1 · 2 · 3", textOf(values[2]))
}

func TestRenderIndex_EnglishStatus(t *testing.T) {
	cfg := config.Defaults()
	cfg.Site.Lang = "en-US"
	cfg.Archive.AllTag = "all"

	out, err := RenderIndex([]IndexPost{{Slug: "a"}}, cfg)
	require.NoError(t, err)
	require.Equal(t, "Showing all · 1 article", textOf(byClass(parseDoc(t, out), "archive__status")[0]))
}

func TestStatusLine(t *testing.T) {
	noun := config.Noun{One: "post", Other: "posts"}
	require.Equal(t, "go: 2 posts", StatusLine("{tag}: {count} {noun}", noun, "go", 2))
	require.Equal(t, "go: 1 post", StatusLine("{tag}: {count} {noun}", noun, "go", 1))
}
