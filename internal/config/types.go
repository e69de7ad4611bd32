// Package config loads the site configuration that drives page chrome: site
// metadata, hero copy, button labels, archive and post strings, and the asset
// paths linked from generated pages.
package config

// SiteConfig is the merged site configuration. It is loaded once per build
// and must not be modified while a build is running.
type SiteConfig struct {
	Site     SiteSection     `json:"site" yaml:"site"`
	Hero     HeroSection     `json:"hero" yaml:"hero"`
	Buttons  ButtonsSection  `json:"buttons" yaml:"buttons"`
	Showcase ShowcaseSection `json:"showcase" yaml:"showcase"`
	Archive  ArchiveSection  `json:"archive" yaml:"archive"`
	Post     PostSection     `json:"post" yaml:"post"`
	Assets   AssetsSection   `json:"assets" yaml:"assets"`
}

// SiteSection holds document-level metadata.
type SiteSection struct {
	Lang            string `json:"lang" yaml:"lang"`
	Title           string `json:"title" yaml:"title"`
	TitleSeparator  string `json:"titleSeparator" yaml:"titleSeparator"`
	Description     string `json:"description" yaml:"description"`
	PostDescription string `json:"postDescription" yaml:"postDescription"`
}

// HeroSection is the copy shown at the top of the index page.
type HeroSection struct {
	Label   string `json:"label" yaml:"label"`
	Issue   string `json:"issue" yaml:"issue"`
	Title   string `json:"title" yaml:"title"`
	Tagline string `json:"tagline" yaml:"tagline"`
}

// ButtonsSection holds button and link labels.
type ButtonsSection struct {
	Back        string `json:"back" yaml:"back"`
	BackLabel   string `json:"backLabel" yaml:"backLabel"`
	ReadMore    string `json:"readMore" yaml:"readMore"`
	ThemeToggle string `json:"themeToggle" yaml:"themeToggle"`
	LangToggle  string `json:"langToggle" yaml:"langToggle"`
	Previous    string `json:"previous" yaml:"previous"`
	Next        string `json:"next" yaml:"next"`
}

// ShowcaseSection is the narrative timeline on the index page.
type ShowcaseSection struct {
	Label         string `json:"label" yaml:"label"`
	Kicker        string `json:"kicker" yaml:"kicker"`
	Heading       string `json:"heading" yaml:"heading"`
	Summary       string `json:"summary" yaml:"summary"`
	TimelineLabel string `json:"timelineLabel" yaml:"timelineLabel"`
	Lead          string `json:"lead" yaml:"lead"`
	DateLabel     string `json:"dateLabel" yaml:"dateLabel"`
	ReadingLabel  string `json:"readingLabel" yaml:"readingLabel"`
	TagsLabel     string `json:"tagsLabel" yaml:"tagsLabel"`

	// ReadingTime renders the panel reading estimate; {minutes} is replaced.
	ReadingTime string `json:"readingTime" yaml:"readingTime"`
	// Status renders the position line; {current} and {total} are replaced.
	Status string `json:"status" yaml:"status"`
}

// ArchiveSection holds strings for the archive grid and tag sidebar.
type ArchiveSection struct {
	Label         string `json:"label" yaml:"label"`
	Heading       string `json:"heading" yaml:"heading"`
	SidebarTitle  string `json:"sidebarTitle" yaml:"sidebarTitle"`
	AllTag        string `json:"allTag" yaml:"allTag"`
	Uncategorized string `json:"uncategorized" yaml:"uncategorized"`
	Undated       string `json:"undated" yaml:"undated"`

	// Status maps a language code to a template with {tag}, {count} and
	// {noun} placeholders.
	Status map[string]string `json:"status" yaml:"status"`
	// Noun maps a language code to the singular and plural post noun.
	Noun map[string]Noun `json:"noun" yaml:"noun"`
}

// Noun is a countable noun in one language.
type Noun struct {
	One   string `json:"one" yaml:"one"`
	Other string `json:"other" yaml:"other"`
}

// PostSection holds strings for the post page.
type PostSection struct {
	Label string `json:"label" yaml:"label"`

	// ReadingTime renders the meta line reading estimate; {minutes} is replaced.
	ReadingTime string `json:"readingTime" yaml:"readingTime"`
	EndMark     string `json:"endMark" yaml:"endMark"`
}

// AssetsSection lists site-root relative assets linked from every page.
type AssetsSection struct {
	Stylesheet     string   `json:"stylesheet" yaml:"stylesheet"`
	MathStylesheet string   `json:"mathStylesheet" yaml:"mathStylesheet"`
	MathScripts    []string `json:"mathScripts" yaml:"mathScripts"`
	IndexScripts   []string `json:"indexScripts" yaml:"indexScripts"`
	PostScripts    []string `json:"postScripts" yaml:"postScripts"`
}
