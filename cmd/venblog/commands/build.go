package commands

import (
	"context"
	"fmt"

	"github.com/venlacy0/venblog/internal/logfields"
	"github.com/venlacy0/venblog/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Clean     bool `help:"Remove generated pages before building"`
	NoHistory bool `name:"no-history" help:"Do not record the build in .venblog/history.db"`
}

func (b *BuildCmd) Run(g *Global, cli *CLI) error {
	logger := g.logger()
	if err := requireDir(cli.Root); err != nil {
		return err
	}
	// Fail on a malformed config before touching any output.
	if _, err := cli.loadConfig(); err != nil {
		return err
	}

	if b.Clean {
		removed, err := site.Clean(cli.Root)
		if err != nil {
			return err
		}
		logger.Info("Cleaned generated files", "removed", len(removed))
	}

	history := openHistoryUnless(b.NoHistory, cli.Root, logger)
	defer closeHistory(history)

	res, err := buildOnce(context.Background(), cli, logger, nil, history)
	if err != nil {
		return err
	}
	if len(res.Posts) == 0 {
		logger.Info("No posts to build")
		return nil
	}
	logger.Info("Build complete",
		logfields.BuildID(res.BuildID),
		logfields.Posts(len(res.Posts)),
		logfields.DurationMS(res.DurationMs()))
	_, _ = fmt.Fprintf(g.out(), "Built %d posts in %.0fms\n", len(res.Posts), res.DurationMs())
	return nil
}
