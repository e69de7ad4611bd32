// Package eventstore keeps a local history of builds in SQLite.
package eventstore

import (
	"context"
	"time"
)

// Outcome is the final result of a build.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// BuildRecord describes one finished build.
type BuildRecord struct {
	BuildID   string        `json:"buildId" yaml:"buildId"`
	StartedAt time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration  time.Duration `json:"durationNs" yaml:"durationNs"`
	Posts     int           `json:"posts" yaml:"posts"`
	Outcome   Outcome       `json:"outcome" yaml:"outcome"`
	// Stage is the stage the build was in when it failed.
	Stage string `json:"stage,omitempty" yaml:"stage,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Store persists build records.
type Store interface {
	// Append adds a finished build.
	Append(ctx context.Context, rec BuildRecord) error

	// Get returns the record for buildID.
	Get(ctx context.Context, buildID string) (BuildRecord, error)

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]BuildRecord, error)

	// Close closes the store and releases resources.
	Close() error
}
