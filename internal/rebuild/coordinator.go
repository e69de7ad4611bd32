// Package rebuild serializes and coalesces site rebuilds during development.
//
// A Coordinator runs at most one build at a time. Requests that arrive while
// a build is running set a single pending flag, so any burst of changes
// during a build causes exactly one follow-up build once it finishes.
package rebuild

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/venlacy0/venblog/internal/logfields"
	"github.com/venlacy0/venblog/internal/metrics"
)

// BuildFunc performs one full build.
type BuildFunc func(ctx context.Context) error

// State is the coordinator's build state.
type State int

const (
	StateIdle State = iota
	StateBuilding
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuilding:
		return "building"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is a point-in-time view of a Coordinator.
type Snapshot struct {
	State         State
	Pending       bool
	BuildsStarted int
	Coalesced     int
	LastError     error
}

// Coordinator serializes builds and coalesces rebuild requests.
type Coordinator struct {
	build    BuildFunc
	logger   *slog.Logger
	recorder metrics.Recorder

	mu        sync.Mutex
	state     State
	pending   bool
	started   int
	coalesced int
	lastErr   error
	idle      chan struct{} // closed while idle
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Coordinator) {
		if r != nil {
			c.recorder = r
		}
	}
}

// NewCoordinator returns an idle coordinator running build.
func NewCoordinator(build BuildFunc, opts ...Option) *Coordinator {
	idle := make(chan struct{})
	close(idle)
	c := &Coordinator{
		build:    build,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		idle:     idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Trigger requests a rebuild. When idle it starts a build in a new goroutine
// and returns true. When a build is running it marks a rerun as pending and
// returns false; any number of such calls collapse into one rerun.
//
// ctx bounds the whole build loop: once it is done, a pending rerun is
// dropped instead of started.
func (c *Coordinator) Trigger(ctx context.Context, reason string) bool {
	c.mu.Lock()
	if c.state == StateBuilding {
		c.pending = true
		c.coalesced++
		c.mu.Unlock()
		c.recorder.IncRebuildTrigger(true)
		c.logger.LogAttrs(ctx, slog.LevelDebug, "Build running; rebuild queued", logfields.Reason(reason))
		return false
	}
	c.state = StateBuilding
	c.idle = make(chan struct{})
	c.mu.Unlock()

	c.recorder.IncRebuildTrigger(false)
	go c.loop(ctx, reason)
	return true
}

func (c *Coordinator) loop(ctx context.Context, reason string) {
	for {
		c.runOnce(ctx, reason)

		c.mu.Lock()
		if c.pending && ctx.Err() == nil {
			c.pending = false
			c.mu.Unlock()
			reason = "changes during previous build"
			continue
		}
		c.pending = false
		c.state = StateIdle
		close(c.idle)
		c.mu.Unlock()
		return
	}
}

func (c *Coordinator) runOnce(ctx context.Context, reason string) {
	c.mu.Lock()
	c.started++
	c.mu.Unlock()

	c.logger.LogAttrs(ctx, slog.LevelInfo, "Rebuilding site", logfields.Reason(reason))
	start := time.Now()
	err := c.safeBuild(ctx)

	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()

	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "Rebuild failed", logfields.Error(err), logfields.Duration(time.Since(start)))
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "Rebuild finished", logfields.Duration(time.Since(start)))
}

func (c *Coordinator) safeBuild(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("build panicked: %v", r)
		}
	}()
	return c.build(ctx)
}

// Wait blocks until no build is running or pending.
func (c *Coordinator) Wait() {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()
	<-idle
}

// Snapshot returns the current state and counters.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:         c.state,
		Pending:       c.pending,
		BuildsStarted: c.started,
		Coalesced:     c.coalesced,
		LastError:     c.lastErr,
	}
}
