// Package metrics provides build, rebuild and dev-server metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics are
// collected only when a caller injects a real implementation:
//
//	reg := prometheus.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	builder := &site.Builder{Root: root, Recorder: recorder}
//	mux.Handle("/__metrics", metrics.HTTPHandler(reg))
//
// All PrometheusRecorder methods are safe on a nil receiver.
package metrics
