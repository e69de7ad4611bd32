package commands

import (
	"fmt"
	"time"

	"github.com/venlacy0/venblog/internal/scaffold"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Title string `arg:"" help:"Post title; also used as the file name"`
	Tags  string `short:"t" help:"Comma separated tags"`
	Date  string `short:"d" help:"Post date as YYYY-MM-DD (default: today)"`
}

func (n *NewCmd) Run(g *Global, cli *CLI) error {
	path, err := scaffold.NewPost(cli.Root, n.Title, scaffold.NewPostOptions{
		Tags: scaffold.SplitTags(n.Tags),
		Date: n.Date,
		Now:  time.Now(),
	})
	if err != nil {
		return err
	}
	g.logger().Info("Created post", "path", relTo(cli.Root, path))
	_, _ = fmt.Fprintln(g.out(), relTo(cli.Root, path))
	return nil
}
