package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/venlacy0/venblog/cmd/venblog/commands"
	ferrors "github.com/venlacy0/venblog/internal/foundation/errors"
	"github.com/venlacy0/venblog/internal/version"
)

func main() {
	// .env supplies VENBLOG_* defaults; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Ignoring unreadable .env file", "error", err)
	}

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("venblog"),
		kong.Description("A small static blog generator: Markdown posts in, HTML pages out."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	globals := &commands.Global{Logger: slog.Default(), Out: os.Stdout}
	if err := parser.Run(globals, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
