package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	ferrors "github.com/venlacy0/venblog/internal/foundation/errors"
	"github.com/venlacy0/venblog/internal/metrics"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 5173

	// MetricsPath serves Prometheus metrics when a metrics handler is configured.
	MetricsPath = "/__metrics"

	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Root     string
	Host     string
	Port     int
	Logger   *slog.Logger
	Recorder metrics.Recorder
	// Metrics, when set, is mounted at MetricsPath.
	Metrics http.Handler
}

// Server is the local preview HTTP server.
type Server struct {
	root    string
	addr    string
	logger  *slog.Logger
	handler http.Handler
}

// New validates opts and builds a Server.
func New(opts Options) (*Server, error) {
	if opts.Root == "" {
		return nil, ferrors.ValidationError("site root is required").Build()
	}
	if opts.Port < 0 || opts.Port > 65535 {
		return nil, ferrors.ValidationError("port out of range").WithContext("port", opts.Port).Build()
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, ferrors.FileSystemError("failed to resolve site root").WithCause(err).Build()
	}
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}

	var h http.Handler = staticHandler{root: root}
	if opts.Metrics != nil {
		h = withMetrics(h, opts.Metrics)
	}
	return &Server{
		root:    root,
		addr:    net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		logger:  opts.Logger,
		handler: chain(opts.Logger, opts.Recorder, h),
	}, nil
}

// withMetrics routes MetricsPath to m. A ServeMux is not used because it
// redirects unclean paths before the static handler can reject them.
func withMetrics(static, m http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == MetricsPath {
			m.ServeHTTP(w, r)
			return
		}
		static.ServeHTTP(w, r)
	})
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Listen binds the configured address.
func (s *Server) Listen() (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", s.addr)
	if err != nil {
		return nil, ferrors.ServerError("failed to bind preview server").
			WithCause(err).
			WithContext("addr", s.addr).
			Build()
	}
	return ln, nil
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 10 * time.Second, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second, IdleTimeout: 120 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ferrors.ServerError("preview server stopped").WithCause(err).Build()
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("preview server shutdown: %w", err)
		}
		return nil
	}
}

// URL returns the browsable address of a listener.
func URL(ln net.Listener) string {
	return "http://" + ln.Addr().String() + "/"
}
