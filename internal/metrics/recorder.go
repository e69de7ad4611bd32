package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFatal   ResultLabel = "fatal"
)

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess BuildOutcomeLabel = "success"
	BuildOutcomeFailed  BuildOutcomeLabel = "failed"
)

// Recorder defines observability hooks for builds, rebuild coordination and
// the dev server.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetPostsRendered(n int)
	// IncRebuildTrigger counts rebuild requests; coalesced requests were
	// folded into a pending rerun instead of starting a build.
	IncRebuildTrigger(coalesced bool)
	ObserveHTTPRequest(method string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel) {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel) {}
func (NoopRecorder) SetPostsRendered(int) {}
func (NoopRecorder) IncRebuildTrigger(bool) {}
func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration) {}
