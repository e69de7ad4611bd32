package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/venlacy0/venblog/internal/deploy"
)

// DeployCmd implements the 'deploy' command.
type DeployCmd struct {
	Message string `short:"m" help:"Commit message (default: deploy: YYYY-MM-DD)"`
	Remote  string `help:"Git remote to push to" default:"origin"`
	Token   string `help:"Token for HTTPS remotes" env:"VENBLOG_GIT_TOKEN"`
}

func (d *DeployCmd) Run(g *Global, cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := g.logger()
	if err := requireDir(cli.Root); err != nil {
		return err
	}
	if _, err := cli.loadConfig(); err != nil {
		return err
	}

	history := openHistory(cli.Root, logger)
	defer closeHistory(history)

	res, err := deploy.Run(ctx, deploy.Options{
		Root:    cli.Root,
		Remote:  d.Remote,
		Message: d.Message,
		Token:   d.Token,
		Logger:  logger,
		Build: func(ctx context.Context) error {
			_, err := buildOnce(ctx, cli, logger, nil, history)
			return err
		},
	})
	if err != nil {
		return err
	}
	if res.Clean {
		_, _ = fmt.Fprintln(g.out(), "Nothing to deploy")
		return nil
	}
	_, _ = fmt.Fprintf(g.out(), "Deployed %s (%s)\n", res.Commit[:7], res.Message)
	return nil
}
