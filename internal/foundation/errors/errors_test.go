package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "venblog.config.json").
			Build()

		require.Equal(t, CategoryConfig, err.Category())
		require.Equal(t, SeverityFatal, err.Severity())
		require.Equal(t, "invalid configuration", err.Message())

		file, exists := err.Context().GetString("file")
		require.True(t, exists)
		require.Equal(t, "venblog.config.json", file)
		require.Equal(t, "[config] invalid configuration file=venblog.config.json", err.Error())
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		inner := PostRenderError("markdown conversion failed").WithContext("slug", "hello").Build()
		wrapped := fmt.Errorf("build: %w", inner)

		require.True(t, IsClassified(wrapped))
		require.True(t, HasCategory(wrapped, CategoryRender))
		require.Equal(t, CategoryRender, GetCategory(wrapped))
		require.Equal(t, SeverityFatal, GetSeverity(wrapped))
		require.True(t, inner.IsFatal())
	})

	t.Run("Unclassified defaults", func(t *testing.T) {
		plain := stderrors.New("plain")
		require.False(t, IsClassified(plain))
		require.Equal(t, CategoryInternal, GetCategory(plain))
		require.Equal(t, SeverityError, GetSeverity(plain))
	})

	t.Run("Sentinel matching", func(t *testing.T) {
		sentinel := StoreError("history store unavailable").Build()
		err := StoreError("history store unavailable").WithContext("path", "x.db").Build()
		require.ErrorIs(t, err, sentinel)
		require.NotErrorIs(t, GitError("history store unavailable").Build(), sentinel)
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Wrap keeps cause", func(t *testing.T) {
		original := stderrors.New("permission denied")
		err := WrapError(original, CategoryWrite, "cannot write output file").
			WithContext("path", "index.html").
			Build()

		require.ErrorIs(t, err, original)
		require.Equal(t, "[write] cannot write output file path=index.html: permission denied", err.Error())
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
		}{
			{"ConfigParseError", ConfigParseError("test"), CategoryConfig, SeverityFatal},
			{"SourceScanError", SourceScanError("test"), CategoryScan, SeverityFatal},
			{"PostRenderError", PostRenderError("test"), CategoryRender, SeverityFatal},
			{"WriteError", WriteError("test"), CategoryWrite, SeverityFatal},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError},
			{"GitError", GitError("test"), CategoryGit, SeverityError},
			{"StoreError", StoreError("test"), CategoryStore, SeverityError},
			{"ServerError", ServerError("test"), CategoryServer, SeverityFatal},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				require.Equal(t, tt.category, err.Category())
				require.Equal(t, tt.severity, err.Severity())
			})
		}
	})

	t.Run("Warning severity", func(t *testing.T) {
		require.Equal(t, SeverityWarning, FileSystemError("x").Warning().Build().Severity())
	})
}

func TestErrorContextMerge(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", "value2").Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	v1, _ := merged.GetString("key1")
	v2, _ := merged.GetString("key2")
	shared, _ := merged.GetString("shared")
	require.Equal(t, "value1", v1)
	require.Equal(t, "value2", v2)
	require.Equal(t, "overridden", shared)

	var nilCtx ErrorContext
	_, ok := nilCtx.Get("missing")
	require.False(t, ok)
}
