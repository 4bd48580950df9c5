package pg

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minutes/internal/app/model"
)

func newMockDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresDBWithConn(db), mock
}

func TestInsertReturnsGeneratedID(t *testing.T) {
	pdb, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO transcriptions`).
		WithArgs("planning.mp3", "transcript text", "[]", nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	row := &model.Transcription{
		Filename:   "planning.mp3",
		Transcript: "transcript text",
		Speakers:   "[]",
	}
	id, err := pdb.Insert(context.Background(), row)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, int64(7), row.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	pdb, mock := newMockDB(t)

	created := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, filename, transcript, speakers, summary, created_at FROM transcriptions`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "filename", "transcript", "speakers", "summary", "created_at"}).
			AddRow(int64(3), "sync.mp3", "text", "[]", nil, created))

	got, err := pdb.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "sync.mp3", got.Filename)
	assert.Empty(t, got.Summary, "NULL summary maps to empty string")
	assert.Equal(t, created, got.CreatedAt)
}

func TestGetByIDMissing(t *testing.T) {
	pdb, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT id, filename, transcript, speakers, summary, created_at FROM transcriptions`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := pdb.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListAppliesLimit(t *testing.T) {
	pdb, mock := newMockDB(t)

	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "filename", "transcript", "speakers", "summary", "created_at"}).
			AddRow(int64(2), "b.mp3", "", "[]", nil, time.Now()).
			AddRow(int64(1), "a.mp3", "", "[]", "done", time.Now()))

	rows, err := pdb.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b.mp3", rows[0].Filename)
	assert.Equal(t, "done", rows[1].Summary)
}

func TestUpdateSummary(t *testing.T) {
	pdb, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE transcriptions SET summary`).
		WithArgs("the summary", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, pdb.UpdateSummary(context.Background(), 5, "the summary"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSummaryNoRow(t *testing.T) {
	pdb, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE transcriptions SET summary`).
		WithArgs("the summary", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := pdb.UpdateSummary(context.Background(), 99, "the summary")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
