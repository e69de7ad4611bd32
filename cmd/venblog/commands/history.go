package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/venlacy0/venblog/internal/eventstore"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit  int    `short:"n" help:"Number of builds to show (0 for all)" default:"20"`
	Format string `short:"f" help:"Output format" enum:"table,json,yaml" default:"table"`
}

func (h *HistoryCmd) Run(g *Global, cli *CLI) error {
	store, err := eventstore.NewSQLiteStore(eventstore.DefaultPath(cli.Root))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}

	out := g.out()
	switch h.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No builds recorded")
		return err
	}
	rows := [][]string{{"STARTED", "OUTCOME", "POSTS", "DURATION", "BUILD", "ERROR"}}
	for _, r := range records {
		rows = append(rows, []string{
			r.StartedAt.Local().Format(time.DateTime),
			string(r.Outcome),
			strconv.Itoa(r.Posts),
			r.Duration.Round(time.Millisecond).String(),
			shortID(r.BuildID),
			r.Error,
		})
	}
	return writeColumns(out, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
