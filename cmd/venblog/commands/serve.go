package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/venlacy0/venblog/internal/devserver"
	"github.com/venlacy0/venblog/internal/foundation/errors"
	"github.com/venlacy0/venblog/internal/logfields"
	"github.com/venlacy0/venblog/internal/metrics"
	"github.com/venlacy0/venblog/internal/rebuild"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Host    string        `help:"Address to bind" default:"127.0.0.1" env:"VENBLOG_HOST"`
	Port    int           `short:"p" help:"Port to listen on" default:"5173" env:"VENBLOG_PORT"`
	Open    bool          `help:"Open the site in a browser once listening"`
	NoBuild bool          `name:"no-build" help:"Skip the initial build"`
	Settle  time.Duration `help:"Quiet period after the last change before rebuilding" default:"200ms"`
	Poll    time.Duration `help:"Also rebuild on this interval (0 disables polling)" default:"0s"`
	Metrics bool          `help:"Expose Prometheus metrics at /__metrics"`
}

func (s *ServeCmd) Run(g *Global, cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.run(ctx, g, cli, nil)
}

// run serves until ctx is done. ready, when non-nil, receives the server
// URL once it is listening.
func (s *ServeCmd) run(ctx context.Context, g *Global, cli *CLI, ready chan<- string) error {
	logger := g.logger()
	if err := requireDir(cli.Root); err != nil {
		return err
	}
	if s.Poll < 0 {
		return errors.ValidationError("poll interval must not be negative").WithContext("poll", s.Poll.String()).Build()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		reg      *prom.Registry
	)
	if s.Metrics {
		reg = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	history := openHistory(cli.Root, logger)
	defer closeHistory(history)

	build := func(ctx context.Context) error {
		res, err := buildOnce(ctx, cli, logger, recorder, history)
		if err != nil {
			return err
		}
		logger.Info("Site rebuilt", logfields.Posts(len(res.Posts)), logfields.DurationMS(res.DurationMs()))
		return nil
	}

	if !s.NoBuild {
		if err := build(ctx); err != nil {
			logger.Error("Initial build failed; serving previous output", logfields.Error(err))
		}
	}

	opts := devserver.Options{Root: cli.Root, Host: s.Host, Port: s.Port, Logger: logger, Recorder: recorder}
	if reg != nil {
		opts.Metrics = metrics.HTTPHandler(reg)
	}
	srv, err := devserver.New(opts)
	if err != nil {
		return err
	}

	coord := rebuild.NewCoordinator(build, rebuild.WithLogger(logger), rebuild.WithRecorder(recorder))
	defer coord.Wait()

	if s.Poll > 0 {
		ticker, err := rebuild.StartTicker(ctx, s.Poll, func(ctx context.Context, reason string) {
			coord.Trigger(ctx, reason)
		})
		if err != nil {
			return err
		}
		defer func() { _ = ticker.Stop() }()
	}

	ln, err := srv.Listen()
	if err != nil {
		return err
	}
	defer func() { _ = ln.Close() }()
	url := devserver.URL(ln)
	logger.Info("Serving site", logfields.URL(url), logfields.Path(cli.Root))

	watcher := rebuild.NewWatcher(cli.Root, func(ctx context.Context, reason string) {
		coord.Trigger(ctx, reason)
	},
		rebuild.WithSettle(s.Settle),
		rebuild.WithGlobalFiles(filepath.Base(cli.configPath())),
		rebuild.WithWatchLogger(logger),
	)
	watchErr := make(chan error, 1)
	go func() { watchErr <- watcher.Run(ctx) }()

	if s.Open {
		if err := devserver.OpenBrowser(ctx, url); err != nil {
			logger.Warn("Could not open browser", logfields.Error(err))
		}
	}
	if ready != nil {
		ready <- url
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx, ln) }()

	select {
	case err := <-watchErr:
		if err != nil {
			logger.Warn("File watching disabled", logfields.Error(err))
		}
		return <-serveErr
	case err := <-serveErr:
		return err
	}
}
