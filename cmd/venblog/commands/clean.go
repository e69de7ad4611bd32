package commands

import (
	"fmt"

	"github.com/venlacy0/venblog/internal/site"
)

// CleanCmd implements the 'clean' command.
type CleanCmd struct{}

func (c *CleanCmd) Run(g *Global, cli *CLI) error {
	if err := requireDir(cli.Root); err != nil {
		return err
	}
	removed, err := site.Clean(cli.Root)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		_, _ = fmt.Fprintln(g.out(), "Nothing to clean")
		return nil
	}
	for _, p := range removed {
		_, _ = fmt.Fprintf(g.out(), "removed %s\n", p)
	}
	return nil
}
