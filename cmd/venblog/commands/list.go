package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/inful/mdfp"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/venlacy0/venblog/internal/site"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	Format string `short:"f" help:"Output format" enum:"table,json,yaml" default:"table"`
	JSON   bool   `help:"Shorthand for --format=json"`
}

// listEntry is one post in machine-readable list output.
type listEntry struct {
	site.Post   `yaml:",inline"`
	File        string `json:"file" yaml:"file"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

func (l *ListCmd) Run(g *Global, cli *CLI) error {
	sources, err := site.Collect(filepath.Join(cli.Root, site.PostsDir))
	if err != nil {
		return err
	}
	entries := make([]listEntry, len(sources))
	for i, src := range sources {
		entries[i] = listEntry{
			Post:        src.Post,
			File:        relTo(cli.Root, src.Path),
			Fingerprint: mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(src.Document.Block, "\n"), src.Document.Body),
		}
	}

	format := l.Format
	if l.JSON {
		format = "json"
	}
	out := g.out()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeTable(out, entries)
	}
}

func writeTable(w io.Writer, entries []listEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No posts")
		return err
	}
	rows := [][]string{{"DATE", "TITLE", "TAGS", "MIN", "FILE"}}
	for _, e := range entries {
		date := e.Date
		if date == "" {
			date = "-"
		}
		rows = append(rows, []string{date, e.Title, strings.Join(e.Tags, ", "), strconv.Itoa(e.ReadingTime), e.File})
	}
	return writeColumns(w, rows)
}

// writeColumns pads cells by display width so CJK text lines up.
func writeColumns(w io.Writer, rows [][]string) error {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for _, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
