package commands

import (
	"fmt"
	"time"

	"github.com/venlacy0/venblog/internal/scaffold"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir string `arg:"" optional:"" help:"Directory to initialize (default: --root)" type:"path"`
}

func (i *InitCmd) Run(g *Global, cli *CLI) error {
	dir := i.Dir
	if dir == "" {
		dir = cli.Root
	}
	res, err := scaffold.Init(dir, time.Now())
	if err != nil {
		return err
	}
	logger := g.logger()
	for _, p := range res.Skipped {
		logger.Info("Skipped existing file", "path", p)
	}
	for _, p := range res.Created {
		logger.Debug("Created file", "path", p)
	}

	out := g.out()
	_, _ = fmt.Fprintf(out, "Initialized venblog site in %s (%d files created, %d skipped)\n", res.Root, len(res.Created), len(res.Skipped))
	_, _ = fmt.Fprintln(out, "Next steps:")
	if i.Dir != "" {
		_, _ = fmt.Fprintf(out, "  cd %s\n", res.Root)
	}
	_, _ = fmt.Fprintln(out, "  venblog build          build the site")
	_, _ = fmt.Fprintln(out, "  venblog serve          start the preview server")
	_, _ = fmt.Fprintln(out, "  venblog new \"Title\"    create a post")
	return nil
}
