package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("scanning", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("scanning", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.SetPostsRendered(3)
	pr.IncRebuildTrigger(true)
	pr.ObserveHTTPRequest("GET", 200, time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	require.True(t, names["venblog_stage_duration_seconds"])
	require.True(t, names["venblog_posts_rendered"])
	require.True(t, names["venblog_rebuild_triggers_total"])
	require.True(t, names["venblog_devserver_request_duration_seconds"])
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.ObserveStageDuration("x", time.Second)
		pr.ObserveBuildDuration(time.Second)
		pr.IncStageResult("x", ResultFatal)
		pr.IncBuildOutcome(BuildOutcomeFailed)
		pr.SetPostsRendered(1)
		pr.IncRebuildTrigger(false)
		pr.ObserveHTTPRequest("GET", 404, time.Second)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).SetPostsRendered(7)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/__metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "venblog_posts_rendered 7")
}
