// Package store persists merged contacts and batch-run records to a
// structured store. Two backends exist: SQLite (default, local file) and
// Postgres. Uniqueness is enforced on email, with empty-email rows exempt:
// the upstream tool's literal insert-or-replace keyed on email would
// collapse every no-email contact into one row, which is a bug we do not
// reproduce.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/manasnilorout-blv/decode-contacts/internal/model"
)

// ContactStats aggregates the counts the report command displays.
type ContactStats struct {
	Total     int `json:"total"`
	WithEmail int `json:"with_email"`
	WithPhone int `json:"with_phone"`
	WithBoth  int `json:"with_both"`
}

// Store is the persistence interface for the dedupe pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context) (*model.Run, error)
	CompleteRun(ctx context.Context, run *model.Run) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	// Contacts. ReplaceContacts swaps in the full batch output: every run
	// is a complete recompute, so prior rows are cleared first.
	ReplaceContacts(ctx context.Context, contacts []*model.Candidate) (int64, error)
	Stats(ctx context.Context) (*ContactStats, error)
	SampleContacts(ctx context.Context, limit int) ([]model.Candidate, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q (valid: sqlite, postgres)", driver)
	}
}
