package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/manasnilorout-blv/decode-contacts/internal/db"
	"github.com/manasnilorout-blv/decode-contacts/internal/model"
)

// PostgresStore implements Store using a pgx connection pool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS contacts (
	id             BIGSERIAL PRIMARY KEY,
	linkedin_name  TEXT NOT NULL DEFAULT 'N/A',
	phonebook_name TEXT NOT NULL DEFAULT 'N/A',
	email_name     TEXT NOT NULL DEFAULT 'N/A',
	email          TEXT NOT NULL DEFAULT '',
	phone          TEXT NOT NULL DEFAULT '',
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

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
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.New().String(),
		Status:    model.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, status, started_at) VALUES ($1, $2, $3)`,
		run.ID, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return run, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, run *model.Run) error {
	now := time.Now().UTC()
	run.FinishedAt = &now

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, raw_count = $2, candidates = $3, merged = $4, final = $5, error = NULLIF($6, ''), finished_at = $7 WHERE id = $8`,
		string(run.Status), run.RawCount, run.Candidates, run.Merged, run.Final,
		run.Error, now, run.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", run.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", run.ID)
	}
	return nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, status, raw_count, candidates, merged, final, COALESCE(error, ''), started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var (
			r        model.Run
			status   string
			finished *time.Time
		)
		if err := rows.Scan(&r.ID, &status, &r.RawCount, &r.Candidates, &r.Merged, &r.Final, &r.Error, &r.StartedAt, &finished); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		r.Status = model.RunStatus(status)
		r.FinishedAt = finished
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate runs")
	}
	return runs, nil
}

var contactColumns = []string{"linkedin_name", "phonebook_name", "email_name", "email", "phone"}

func (s *PostgresStore) ReplaceContacts(ctx context.Context, contacts []*model.Candidate) (int64, error) {
	if _, err := s.pool.Exec(ctx, `TRUNCATE TABLE contacts RESTART IDENTITY`); err != nil {
		return 0, eris.Wrap(err, "postgres: clear contacts")
	}

	var emailed, unkeyed [][]any
	for _, c := range contacts {
		row := []any{c.LinkedInName, c.PhoneBookName, c.EmailName, c.Email, c.Phone}
		if c.Email != "" {
			emailed = append(emailed, row)
		} else {
			unkeyed = append(unkeyed, row)
		}
	}

	var written int64
	// On conflict only missing slots are filled, so the first row to
	// claim an email keeps its names.
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "contacts",
		Columns:      contactColumns,
		ConflictKeys: []string{"email"},
		ConflictPred: "email <> ''",
		UpdateSet: []string{
			`linkedin_name = CASE WHEN contacts.linkedin_name = 'N/A' THEN EXCLUDED.linkedin_name ELSE contacts.linkedin_name END`,
			`phonebook_name = CASE WHEN contacts.phonebook_name = 'N/A' THEN EXCLUDED.phonebook_name ELSE contacts.phonebook_name END`,
			`email_name = CASE WHEN contacts.email_name = 'N/A' THEN EXCLUDED.email_name ELSE contacts.email_name END`,
			`phone = CASE WHEN contacts.phone = '' THEN EXCLUDED.phone ELSE contacts.phone END`,
		},
	}, emailed)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert emailed contacts")
	}
	written += n

	n, err = db.CopyFrom(ctx, s.pool, "contacts", contactColumns, unkeyed)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: insert unkeyed contacts")
	}
	written += n

	return written, nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*ContactStats, error) {
	var st ContactStats
	err := s.pool.QueryRow(ctx, `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE email <> ''),
	COUNT(*) FILTER (WHERE phone <> ''),
	COUNT(*) FILTER (WHERE email <> '' AND phone <> '')
FROM contacts`).Scan(&st.Total, &st.WithEmail, &st.WithPhone, &st.WithBoth)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: stats")
	}
	return &st, nil
}

func (s *PostgresStore) SampleContacts(ctx context.Context, limit int) ([]model.Candidate, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT linkedin_name, phonebook_name, email_name, email, phone FROM contacts ORDER BY id LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: sample contacts")
	}
	defer rows.Close()

	var out []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.LinkedInName, &c.PhoneBookName, &c.EmailName, &c.Email, &c.Phone); err != nil {
			return nil, eris.Wrap(err, "postgres: scan contact")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate contacts")
	}
	return out, nil
}
