package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"minutes/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS transcriptions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT,
	transcript TEXT,
	speakers TEXT,
	summary TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_transcriptions_filename ON transcriptions (filename);
`

// SQLiteDB is the default TranscriptionDAO backed by a file database.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (creating if needed) the database at dbFilePath and
// ensures the schema exists.
func NewSQLiteDB(dbFilePath string) (*SQLiteDB, error) {
	if dir := filepath.Dir(dbFilePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

func (sdb *SQLiteDB) Close() error {
	return sdb.db.Close()
}

func (sdb *SQLiteDB) Insert(ctx context.Context, t *model.Transcription) (int64, error) {
	insertSQL := `INSERT INTO transcriptions (filename, transcript, speakers, summary, created_at) VALUES (?, ?, ?, ?, ?);`
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := sdb.db.ExecContext(ctx, insertSQL, t.Filename, t.Transcript, t.Speakers, nullable(t.Summary), createdAt)
	if err != nil {
		return 0, fmt.Errorf("insert failed: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert id: %w", err)
	}
	t.ID = id
	t.CreatedAt = createdAt
	return id, nil
}

func (sdb *SQLiteDB) GetByID(ctx context.Context, id int64) (*model.Transcription, error) {
	query := `SELECT id, filename, transcript, speakers, summary, created_at FROM transcriptions WHERE id = ?`
	return scanOne(sdb.db.QueryRowContext(ctx, query, id))
}

func (sdb *SQLiteDB) List(ctx context.Context, limit int) ([]model.Transcription, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, filename, transcript, speakers, summary, created_at
		FROM transcriptions
		ORDER BY created_at DESC, id DESC
		LIMIT ?;`
	rows, err := sdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	transcriptions := make([]model.Transcription, 0)
	for rows.Next() {
		var t model.Transcription
		var summary sql.NullString
		if err := rows.Scan(&t.ID, &t.Filename, &t.Transcript, &t.Speakers, &summary, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		t.Summary = summary.String
		transcriptions = append(transcriptions, t)
	}
	return transcriptions, rows.Err()
}

func (sdb *SQLiteDB) UpdateSummary(ctx context.Context, id int64, summary string) error {
	res, err := sdb.db.ExecContext(ctx, `UPDATE transcriptions SET summary = ? WHERE id = ?`, summary, id)
	if err != nil {
		return fmt.Errorf("update summary failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanOne(row *sql.Row) (*model.Transcription, error) {
	var t model.Transcription
	var summary sql.NullString
	if err := row.Scan(&t.ID, &t.Filename, &t.Transcript, &t.Speakers, &summary, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Summary = summary.String
	return &t, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
