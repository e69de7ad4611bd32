package config

// DefaultFileName is the config file looked up at the site root.
const DefaultFileName = "venblog.config.json"

// KaTeX assets used for math typesetting on post pages. math.js renders
// every .math element with error recovery enabled.
const (
	KatexVersion    = "0.16.28"
	KatexStylesheet = "https://cdn.jsdelivr.net/npm/katex@" + KatexVersion + "/dist/katex.min.css"
	KatexScript     = "https://cdn.jsdelivr.net/npm/katex@" + KatexVersion + "/dist/katex.min.js"
	MathScript      = "math.js"
)

// Defaults returns the built-in configuration.
func Defaults() SiteConfig {
	return SiteConfig{
		Site: SiteSection{
			Lang:            "zh-CN",
			Title:           "Venlacy's Blog",
			TitleSeparator:  " · ",
			Description:     "Venlacy's Blog. Motion-driven editorial blog experience.",
			PostDescription: "Venlacy's Blog post.",
		},
		Hero: HeroSection{
			Label:   "首页",
			Issue:   "Issue 001",
			Title:   "Venlacy's Blog",
			Tagline: "thoughts, craft & code",
		},
		Buttons: ButtonsSection{
			Back:        "返回",
			BackLabel:   "返回首页",
			ReadMore:    "阅读全文",
			ThemeToggle: "切换主题",
			LangToggle:  "En",
			Previous:    "查看上一篇",
			Next:        "查看下一篇",
		},
		Showcase: ShowcaseSection{
			Label:         "叙事时间轴",
			Kicker:        "Narrative Timeline",
			Heading:       "中间叙事展示",
			Summary:       "从最新文章开始，按时间线浏览每篇内容并直接进入全文。",
			TimelineLabel: "文章时间轴",
			Lead:          "沿着时间轴阅读这篇文章，查看完整正文与上下文。",
			DateLabel:     "发布日期",
			ReadingLabel:  "预计阅读",
			TagsLabel:     "文章标签",
			ReadingTime:   "{minutes} 分钟",
			Status:        "第 {current} / {total} 篇",
		},
		Archive: ArchiveSection{
			Label:         "文章归档",
			Heading:       "Archive",
			SidebarTitle:  "标签",
			AllTag:        "全部",
			Uncategorized: "未分类",
			Undated:       "未标注日期",
			Status: map[string]string{
				"zh": "{tag} · 共 {count} {noun}",
				"en": "Showing {tag} · {count} {noun}",
			},
			Noun: map[string]Noun{
				"zh": {One: "篇", Other: "篇"},
				"en": {One: "article", Other: "articles"},
			},
		},
		Post: PostSection{
			Label:       "博客文章",
			ReadingTime: "{minutes} 分钟阅读",
			EndMark:     "fin",
		},
		Assets: AssetsSection{
			Stylesheet:     "styles.css",
			MathStylesheet: KatexStylesheet,
			MathScripts:    []string{KatexScript, MathScript},
			IndexScripts:   []string{"theme.js", "i18n.js", "main.js"},
			PostScripts:    []string{"theme.js", "i18n.js", "post.js"},
		},
	}
}
