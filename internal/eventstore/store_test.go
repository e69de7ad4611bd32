package eventstore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "github.com/venlacy0/venblog/internal/foundation/errors"
)

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_AppendAndGet(t *testing.T) {
	store := newMemoryStore(t)
	started := time.UnixMilli(1_700_000_000_123)

	rec := BuildRecord{
		BuildID:   "build-1",
		StartedAt: started,
		Duration:  1500 * time.Millisecond,
		Posts:     3,
		Outcome:   OutcomeSuccess,
	}
	require.NoError(t, store.Append(t.Context(), rec))

	got, err := store.Get(t.Context(), "build-1")
	require.NoError(t, err)
	require.Equal(t, "build-1", got.BuildID)
	require.True(t, got.StartedAt.Equal(started))
	require.Equal(t, 1500*time.Millisecond, got.Duration)
	require.Equal(t, 3, got.Posts)
	require.Equal(t, OutcomeSuccess, got.Outcome)
	require.Empty(t, got.Stage)
	require.Empty(t, got.Error)
}

func TestStore_FailedBuildKeepsStageAndError(t *testing.T) {
	store := newMemoryStore(t)
	require.NoError(t, store.Append(t.Context(), BuildRecord{
		BuildID:   "bad",
		StartedAt: time.Now(),
		Outcome:   OutcomeFailed,
		Stage:     "rendering_posts",
		Error:     "[render] markdown conversion failed",
	}))

	got, err := store.Get(t.Context(), "bad")
	require.NoError(t, err)
	require.Equal(t, OutcomeFailed, got.Outcome)
	require.Equal(t, "rendering_posts", got.Stage)
	require.Contains(t, got.Error, "markdown conversion failed")
}

func TestStore_RecentNewestFirst(t *testing.T) {
	store := newMemoryStore(t)
	base := time.UnixMilli(1_700_000_000_000)
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Append(t.Context(), BuildRecord{
			BuildID:   id,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Outcome:   OutcomeSuccess,
		}))
	}

	recent, err := store.Recent(t.Context(), 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "d", recent[0].BuildID)
	require.Equal(t, "c", recent[1].BuildID)

	all, err := store.Recent(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
}

func TestStore_Errors(t *testing.T) {
	store := newMemoryStore(t)

	_, err := store.Get(t.Context(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryStore))

	require.ErrorIs(t, store.Append(t.Context(), BuildRecord{}), ErrAppendFailed)

	rec := BuildRecord{BuildID: "dup", StartedAt: time.Now(), Outcome: OutcomeSuccess}
	require.NoError(t, store.Append(t.Context(), rec))
	err = store.Append(t.Context(), rec)
	require.True(t, errors.Is(err, ErrAppendFailed))
}

func TestStore_PersistsToFile(t *testing.T) {
	root := t.TempDir()
	path := DefaultPath(root)
	require.Equal(t, filepath.Join(root, ".venblog", "history.db"), path)

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(t.Context(), BuildRecord{BuildID: "x", StartedAt: time.Now(), Outcome: OutcomeSuccess}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	recent, err := reopened.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}
