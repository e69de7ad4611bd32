package devserver

import (
	"io"
	"log/slog"

	"github.com/venlacy0/venblog/internal/metrics"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func noopRecorder() metrics.Recorder { return metrics.NoopRecorder{} }
