package eventstore

import (
	"github.com/venlacy0/venblog/internal/foundation/errors"
)

var (
	// ErrDatabaseOpenFailed indicates the SQLite database could not be opened.
	ErrDatabaseOpenFailed = errors.StoreError("could not open build history database").Build()

	// ErrInitializeSchemaFailed indicates the database schema could not be initialized.
	ErrInitializeSchemaFailed = errors.StoreError("failed to initialize build history schema").Build()

	// ErrAppendFailed indicates appending a build record failed.
	ErrAppendFailed = errors.StoreError("failed to append build record").Build()

	// ErrQueryFailed indicates querying build records failed.
	ErrQueryFailed = errors.StoreError("failed to query build history").Build()

	// ErrNotFound indicates no record exists for a build id.
	ErrNotFound = errors.StoreError("build not found").Build()
)
