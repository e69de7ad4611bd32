// Package commands implements the venblog command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/venlacy0/venblog/internal/config"
	"github.com/venlacy0/venblog/internal/eventstore"
	"github.com/venlacy0/venblog/internal/foundation/errors"
	"github.com/venlacy0/venblog/internal/metrics"
	"github.com/venlacy0/venblog/internal/site"
)

// Global carries shared state into command Run methods.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI is the root command and its global flags.
type CLI struct {
	Root    string           `short:"C" help:"Site root directory" default:"." env:"VENBLOG_ROOT" type:"path"`
	Config  string           `short:"c" help:"Site config file (default: venblog.config.json, then venblog.config.yaml)" env:"VENBLOG_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging" env:"VENBLOG_VERBOSE"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Render every post and the index page"`
	Serve   ServeCmd   `cmd:"" help:"Build, serve locally and rebuild on changes"`
	Clean   CleanCmd   `cmd:"" help:"Remove generated pages"`
	List    ListCmd    `cmd:"" help:"List posts in build order"`
	New     NewCmd     `cmd:"" help:"Create a new post"`
	Init    InitCmd    `cmd:"" help:"Scaffold a new blog"`
	Deploy  DeployCmd  `cmd:"" help:"Build, commit and push the site"`
	History HistoryCmd `cmd:"" help:"Show recent builds"`
	Info    VersionCmd `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// configPath returns the site config file path for the CLI flags.
func (c *CLI) configPath() string {
	return config.Resolve(c.Root, c.Config)
}

// loadConfig loads the site config. It must run before any file under the
// site root is written.
func (c *CLI) loadConfig() (config.SiteConfig, error) {
	return config.Load(c.configPath())
}

// openHistory opens the build history store. History is optional: failures
// are logged and a nil store is returned.
func openHistory(root string, logger *slog.Logger) eventstore.Store {
	store, err := eventstore.NewSQLiteStore(eventstore.DefaultPath(root))
	if err != nil {
		logger.Warn("Build history unavailable", "error", err)
		return nil
	}
	return store
}

func closeHistory(store eventstore.Store) {
	if store != nil {
		_ = store.Close()
	}
}

// buildOnce loads config and runs one build.
func buildOnce(ctx context.Context, cli *CLI, logger *slog.Logger, rec metrics.Recorder, history eventstore.Store) (*site.Result, error) {
	cfg, err := cli.loadConfig()
	if err != nil {
		return nil, err
	}
	b := &site.Builder{
		Root:     cli.Root,
		Config:   cfg,
		Recorder: rec,
		Logger:   logger,
		History:  history,
	}
	return b.Build(ctx)
}

func requireDir(root string) error {
	fi, err := os.Stat(root)
	if err != nil {
		return errors.FileSystemError("site root not found").WithCause(err).WithContext("path", root).Build()
	}
	if !fi.IsDir() {
		return errors.ValidationError("site root is not a directory").WithContext("path", root).Build()
	}
	return nil
}

func relTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func openHistoryUnless(disabled bool, root string, logger *slog.Logger) eventstore.Store {
	if disabled {
		return nil
	}
	return openHistory(root, logger)
}
