package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/manasnilorout-blv/decode-contacts/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS contacts (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	linkedin_name  TEXT NOT NULL DEFAULT 'N/A',
	phonebook_name TEXT NOT NULL DEFAULT 'N/A',
	email_name     TEXT NOT NULL DEFAULT 'N/A',
	email          TEXT NOT NULL DEFAULT '',
	phone          TEXT NOT NULL DEFAULT '',
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

-- Empty-email rows are exempt from uniqueness.
CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email) WHERE email <> '';
CREATE INDEX IF NOT EXISTS idx_contacts_phone ON contacts(phone);

CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	status      TEXT NOT NULL DEFAULT 'running',
	raw_count   INTEGER NOT NULL DEFAULT 0,
	candidates  INTEGER NOT NULL DEFAULT 0,
	merged      INTEGER NOT NULL DEFAULT 0,
	final       INTEGER NOT NULL DEFAULT 0,
	error       TEXT,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.New().String(),
		Status:    model.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, started_at) VALUES (?, ?, ?)`,
		run.ID, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return run, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, run *model.Run) error {
	now := time.Now().UTC()
	run.FinishedAt = &now

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, raw_count = ?, candidates = ?, merged = ?, final = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(run.Status), run.RawCount, run.Candidates, run.Merged, run.Final,
		nullable(run.Error), now, run.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", run.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", run.ID)
	}
	return nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, raw_count, candidates, merged, final, COALESCE(error, ''), started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var (
			r        model.Run
			status   string
			finished sql.NullTime
		)
		if err := rows.Scan(&r.ID, &status, &r.RawCount, &r.Candidates, &r.Merged, &r.Final, &r.Error, &r.StartedAt, &finished); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		r.Status = model.RunStatus(status)
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate runs")
	}
	return runs, nil
}

func (s *SQLiteStore) ReplaceContacts(ctx context.Context, contacts []*model.Candidate) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return 0, eris.Wrap(err, "sqlite: clear contacts")
	}

	// Emailed rows upsert on the partial unique index; empty-email rows
	// insert unconditionally. On conflict only missing slots are filled,
	// so the first row to claim an email keeps its names.
	const upsertSQL = `
INSERT INTO contacts (linkedin_name, phonebook_name, email_name, email, phone)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (email) WHERE email <> '' DO UPDATE SET
	linkedin_name  = CASE WHEN contacts.linkedin_name = 'N/A' THEN excluded.linkedin_name ELSE contacts.linkedin_name END,
	phonebook_name = CASE WHEN contacts.phonebook_name = 'N/A' THEN excluded.phonebook_name ELSE contacts.phonebook_name END,
	email_name     = CASE WHEN contacts.email_name = 'N/A' THEN excluded.email_name ELSE contacts.email_name END,
	phone          = CASE WHEN contacts.phone = '' THEN excluded.phone ELSE contacts.phone END`

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close() //nolint:errcheck

	var written int64
	for _, c := range contacts {
		if _, err := stmt.ExecContext(ctx, c.LinkedInName, c.PhoneBookName, c.EmailName, c.Email, c.Phone); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert contact %q", c.ComparisonName())
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit contacts")
	}
	return written, nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (*ContactStats, error) {
	var st ContactStats
	err := s.db.QueryRowContext(ctx, `
SELECT
	COUNT(*),
	COUNT(CASE WHEN email <> '' THEN 1 END),
	COUNT(CASE WHEN phone <> '' THEN 1 END),
	COUNT(CASE WHEN email <> '' AND phone <> '' THEN 1 END)
FROM contacts`).Scan(&st.Total, &st.WithEmail, &st.WithPhone, &st.WithBoth)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: stats")
	}
	return &st, nil
}

func (s *SQLiteStore) SampleContacts(ctx context.Context, limit int) ([]model.Candidate, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT linkedin_name, phonebook_name, email_name, email, phone FROM contacts ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: sample contacts")
	}
	defer rows.Close()

	var out []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.LinkedInName, &c.PhoneBookName, &c.EmailName, &c.Email, &c.Phone); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan contact")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate contacts")
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
