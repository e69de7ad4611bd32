// Package templates renders post pages and the index/archive page.
//
// Every string taken from posts or configuration is escaped at the point it
// is interpolated. The rendered Markdown body is inserted verbatim.
package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/venlacy0/venblog/internal/collation"
	"github.com/venlacy0/venblog/internal/config"
)

//go:embed layouts/*.tmpl
var layoutFS embed.FS

var layouts = template.Must(
	template.New("layouts").
		Funcs(template.FuncMap{"esc": EscapeHTML}).
		Option("missingkey=error").
		ParseFS(layoutFS, "layouts/*.tmpl"),
)

// PostPage carries the fields of one rendered post page.
type PostPage struct {
	Slug  string
	Title string
	// Date is YYYY-MM-DD or empty.
	Date        string
	Tags        []string
	ReadingTime int
	BodyHTML    string
}

// IndexPost is one entry of the index page, already in display order.
type IndexPost struct {
	Slug        string
	Title       string
	Date        string
	Tags        []string
	ReadingTime int
}

type postView struct {
	Lang           string
	DocTitle       string
	Description    string
	Stylesheet     string
	MathStylesheet string
	Scripts        []string
	Buttons        config.ButtonsSection
	ArticleLabel   string
	Title          string
	Date           string
	DateTime       string
	ReadingTime    string
	Tags           []string
	Body           string
	EndMark        string
}

// RenderPost renders a complete post page. Asset links are relative to the
// posts/ directory.
func RenderPost(p PostPage, cfg config.SiteConfig) (string, error) {
	title := p.Title
	if title == "" {
		title = p.Slug
	}

	view := postView{
		Lang:         cfg.Site.Lang,
		DocTitle:     title + cfg.Site.TitleSeparator + cfg.Site.Title,
		Description:  cfg.Site.PostDescription,
		Stylesheet:   fromPosts(cfg.Assets.Stylesheet),
		Buttons:      cfg.Buttons,
		ArticleLabel: cfg.Post.Label,
		Title:        title,
		Date:         FormatDateLong(p.Date),
		Tags:         DedupeTags(p.Tags),
		Body:         p.BodyHTML,
		EndMark:      cfg.Post.EndMark,
	}
	if view.Date != "" {
		view.DateTime, _ = NormalizeDate(p.Date)
	}
	if cfg.Assets.MathStylesheet != "" {
		view.MathStylesheet = fromPosts(cfg.Assets.MathStylesheet)
	}
	if p.ReadingTime > 0 {
		view.ReadingTime = fill(cfg.Post.ReadingTime, map[string]string{"minutes": strconv.Itoa(p.ReadingTime)})
	}
	for _, s := range cfg.Assets.MathScripts {
		view.Scripts = append(view.Scripts, fromPosts(s))
	}
	for _, s := range cfg.Assets.PostScripts {
		view.Scripts = append(view.Scripts, fromPosts(s))
	}

	return execute("post.html.tmpl", view)
}

type indexView struct {
	Lang        string
	Title       string
	Description string
	Stylesheet  string
	Scripts     []string
	Hero        config.HeroSection
	Buttons     config.ButtonsSection
	Showcase    *showcaseView
	Archive     *archiveView
}

type showcaseView struct {
	Cfg    config.ShowcaseSection
	Total  string
	Status string
	Items  []showcaseItem
}

type showcaseItem struct {
	Index   int
	Num     string
	Href    string
	Title   string
	Date    string
	Reading string
	Tags    string
	Active  bool
}

type archiveView struct {
	Label          string
	Heading        string
	SidebarTitle   string
	Status         string
	StatusTemplate string
	Noun           config.Noun
	Tags           []tagCount
	Cards          []archiveCard
}

type tagCount struct {
	Name  string
	Count int
	All   bool
}

type archiveCard struct {
	Href     string
	Title    string
	Date     string
	DateTime string
	Tags     []string
	TagsJSON string
}

// RenderIndex renders the index page for posts in the order given. With no
// posts only the hero section is rendered.
func RenderIndex(posts []IndexPost, cfg config.SiteConfig) (string, error) {
	view := indexView{
		Lang:        cfg.Site.Lang,
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		Stylesheet:  cfg.Assets.Stylesheet,
		Scripts:     cfg.Assets.IndexScripts,
		Hero:        cfg.Hero,
		Buttons:     cfg.Buttons,
	}
	if len(posts) > 0 {
		view.Showcase = buildShowcase(posts, cfg)
		archive, err := buildArchive(posts, cfg)
		if err != nil {
			return "", err
		}
		view.Archive = archive
	}
	return execute("index.html.tmpl", view)
}

func buildShowcase(posts []IndexPost, cfg config.SiteConfig) *showcaseView {
	sc := &showcaseView{
		Cfg:   cfg.Showcase,
		Total: pad2(len(posts)),
		Status: fill(EscapeHTML(cfg.Showcase.Status), map[string]string{
			"current": "<span data-showcase-current>1</span>",
			"total":   "<span data-showcase-total>" + strconv.Itoa(len(posts)) + "</span>",
		}),
		Items: make([]showcaseItem, 0, len(posts)),
	}
	for i, p := range posts {
		date := FormatDateShort(p.Date)
		if date == "" {
			date = cfg.Archive.Undated
		}
		tags := NormalizeTags(p.Tags, cfg.Archive.Uncategorized)
		if len(tags) > 3 {
			tags = tags[:3]
		}
		sc.Items = append(sc.Items, showcaseItem{
			Index:   i,
			Num:     pad2(i + 1),
			Href:    PostHref(p.Slug),
			Title:   displayTitle(p),
			Date:    date,
			Reading: fill(cfg.Showcase.ReadingTime, map[string]string{"minutes": strconv.Itoa(max(1, p.ReadingTime))}),
			Tags:    strings.Join(tags, " · "),
			Active:  i == 0,
		})
	}
	return sc
}

func buildArchive(posts []IndexPost, cfg config.SiteConfig) (*archiveView, error) {
	counts := make(map[string]int)
	var names []string
	cards := make([]archiveCard, 0, len(posts))

	for _, p := range posts {
		tags := NormalizeTags(p.Tags, cfg.Archive.Uncategorized)
		for _, t := range tags {
			if counts[t] == 0 {
				names = append(names, t)
			}
			counts[t]++
		}

		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return nil, fmt.Errorf("encode tags of %s: %w", p.Slug, err)
		}
		card := archiveCard{
			Href:     PostHref(p.Slug),
			Title:    displayTitle(p),
			Date:     FormatDateShort(p.Date),
			Tags:     tags,
			TagsJSON: string(tagsJSON),
		}
		if card.Date != "" {
			card.DateTime, _ = NormalizeDate(p.Date)
		}
		cards = append(cards, card)
	}

	collation.Sort(names)
	sidebar := make([]tagCount, 0, len(names)+1)
	sidebar = append(sidebar, tagCount{Name: cfg.Archive.AllTag, Count: len(posts), All: true})
	for _, n := range names {
		sidebar = append(sidebar, tagCount{Name: n, Count: counts[n]})
	}

	statusTmpl, noun := statusFor(cfg)
	return &archiveView{
		Label:          cfg.Archive.Label,
		Heading:        cfg.Archive.Heading,
		SidebarTitle:   cfg.Archive.SidebarTitle,
		Status:         StatusLine(statusTmpl, noun, cfg.Archive.AllTag, len(posts)),
		StatusTemplate: statusTmpl,
		Noun:           noun,
		Tags:           sidebar,
		Cards:          cards,
	}, nil
}

// StatusLine fills an archive status template for count matching posts.
func StatusLine(tmpl string, noun config.Noun, tag string, count int) string {
	word := noun.Other
	if count == 1 {
		word = noun.One
	}
	return fill(tmpl, map[string]string{
		"tag":   tag,
		"count": strconv.Itoa(count),
		"noun":  word,
	})
}

// statusFor picks the status template and noun for the site language,
// falling back to Chinese and then to any configured language.
func statusFor(cfg config.SiteConfig) (string, config.Noun) {
	lang := primaryLang(cfg.Site.Lang)
	for _, candidate := range []string{lang, "zh"} {
		if tmpl, ok := cfg.Archive.Status[candidate]; ok {
			return tmpl, cfg.Archive.Noun[candidate]
		}
	}
	keys := make([]string, 0, len(cfg.Archive.Status))
	for k := range cfg.Archive.Status {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "", config.Noun{}
	}
	collation.Sort(keys)
	return cfg.Archive.Status[keys[0]], cfg.Archive.Noun[keys[0]]
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := layouts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func displayTitle(p IndexPost) string {
	if p.Title == "" {
		return p.Slug
	}
	return p.Title
}

func fromPosts(asset string) string {
	if isAbsoluteURL(asset) {
		return asset
	}
	return "../" + strings.TrimPrefix(asset, "/")
}

func isAbsoluteURL(asset string) bool {
	return strings.HasPrefix(asset, "//") || strings.Contains(asset, "://")
}

func pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}
