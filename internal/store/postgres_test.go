package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manasnilorout-blv/decode-contacts/internal/model"
)

func newTestPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{pool: mock}, mock
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newTestPostgresStore(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS contacts`).WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateRun(t *testing.T) {
	s, mock := newTestPostgresStore(t)
	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), "running", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompleteRun(t *testing.T) {
	s, mock := newTestPostgresStore(t)
	run := &model.Run{
		ID:         "run-1",
		Status:     model.RunStatusComplete,
		RawCount:   40,
		Candidates: 25,
		Merged:     3,
		Final:      22,
		StartedAt:  time.Now().UTC(),
	}
	mock.ExpectExec(`UPDATE runs SET`).
		WithArgs("complete", 40, 25, 3, 22, "", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.CompleteRun(context.Background(), run))
	require.NotNil(t, run.FinishedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompleteRunUnknownID(t *testing.T) {
	s, mock := newTestPostgresStore(t)
	mock.ExpectExec(`UPDATE runs SET`).
		WithArgs("failed", 0, 0, 0, 0, "boom", pgxmock.AnyArg(), "nope").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	run := &model.Run{ID: "nope", Status: model.RunStatusFailed, Error: "boom"}
	err := s.CompleteRun(context.Background(), run)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReplaceContacts(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectExec(`TRUNCATE TABLE contacts`).WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))

	// Emailed rows route through the temp-table upsert.
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_contacts"}, contactColumns).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "contacts" .* ON CONFLICT .* DO UPDATE SET`).WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	// Empty-email rows go straight through COPY.
	mock.ExpectCopyFrom(pgx.Identifier{"contacts"}, contactColumns).WillReturnResult(1)

	n, err := s.ReplaceContacts(context.Background(), []*model.Candidate{
		candidate("Jane Doe", model.NotAvailable, model.NotAvailable, "jane@example.com", "9876543210"),
		candidate(model.NotAvailable, model.NotAvailable, "Bob", "bob@example.com", ""),
		candidate(model.NotAvailable, "Carol", model.NotAvailable, "", "9123456789"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReplaceContactsEmpty(t *testing.T) {
	s, mock := newTestPostgresStore(t)
	mock.ExpectExec(`TRUNCATE TABLE contacts`).WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))

	n, err := s.ReplaceContacts(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStats(t *testing.T) {
	s, mock := newTestPostgresStore(t)
	mock.ExpectQuery(`SELECT`).WillReturnRows(
		pgxmock.NewRows([]string{"total", "with_email", "with_phone", "with_both"}).AddRow(5, 3, 4, 2),
	)

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 3, st.WithEmail)
	assert.Equal(t, 4, st.WithPhone)
	assert.Equal(t, 2, st.WithBoth)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSampleContacts(t *testing.T) {
	s, mock := newTestPostgresStore(t)
	mock.ExpectQuery(`SELECT linkedin_name`).
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows(contactColumns).
			AddRow("Jane Doe", "N/A", "N/A", "jane@example.com", "9876543210").
			AddRow("N/A", "Bob Smith", "N/A", "", "9123456789"))

	got, err := s.SampleContacts(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Jane Doe", got[0].LinkedInName)
	assert.Equal(t, "Bob Smith", got[1].PhoneBookName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListRuns(t *testing.T) {
	s, mock := newTestPostgresStore(t)
	started := time.Now().UTC()
	finished := started.Add(2 * time.Second)
	mock.ExpectQuery(`SELECT id, status`).
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "status", "raw_count", "candidates", "merged", "final", "error", "started_at", "finished_at"}).
			AddRow("run-2", "complete", 40, 25, 3, 22, "", started, &finished).
			AddRow("run-1", "failed", 10, 0, 0, 0, "merge conservation violated", started.Add(-time.Hour), nil))

	runs, err := s.ListRuns(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	assert.Equal(t, 22, runs[0].Final)
	assert.NotNil(t, runs[0].FinishedAt)
	assert.Equal(t, "merge conservation violated", runs[1].Error)
	assert.Nil(t, runs[1].FinishedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
