package rebuild

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Ticker requests a rebuild on a fixed interval, for filesystems where
// change notifications are unreliable.
type Ticker struct {
	scheduler gocron.Scheduler
}

// StartTicker schedules trigger every interval until Stop is called or ctx
// is done.
func StartTicker(ctx context.Context, interval time.Duration, trigger TriggerFunc) (*Ticker, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval must be > 0, got %s", interval)
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if ctx.Err() == nil {
				trigger(ctx, "poll")
			}
		}),
		gocron.WithName("venblog-poll"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to schedule poll job: %w", err)
	}
	s.Start()
	slog.Info("Polling for changes", "interval", interval.String())
	return &Ticker{scheduler: s}, nil
}

// Stop shuts the scheduler down.
func (t *Ticker) Stop() error {
	if t == nil {
		return nil
	}
	return t.scheduler.Shutdown()
}
