package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"minutes/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS transcriptions (
	id SERIAL PRIMARY KEY,
	filename TEXT,
	transcript TEXT,
	speakers TEXT,
	summary TEXT,
	created_at TIMESTAMPTZ DEFAULT now()
);`

// PostgresDB is the TranscriptionDAO for deployments with a shared database.
type PostgresDB struct {
	db *sql.DB
}

// NewPostgresDB connects with the given DSN and ensures the schema exists.
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &PostgresDB{db: db}, nil
}

// NewPostgresDBWithConn wraps an existing connection, for tests.
func NewPostgresDBWithConn(db *sql.DB) *PostgresDB {
	return &PostgresDB{db: db}
}

func (pdb *PostgresDB) Close() error {
	return pdb.db.Close()
}

func (pdb *PostgresDB) Insert(ctx context.Context, t *model.Transcription) (int64, error) {
	insertSQL := `INSERT INTO transcriptions (filename, transcript, speakers, summary, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;`
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	var summary any
	if t.Summary != "" {
		summary = t.Summary
	}
	var id int64
	err := pdb.db.QueryRowContext(ctx, insertSQL, t.Filename, t.Transcript, t.Speakers, summary, createdAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert failed: %w", err)
	}
	t.ID = id
	t.CreatedAt = createdAt
	return id, nil
}

func (pdb *PostgresDB) GetByID(ctx context.Context, id int64) (*model.Transcription, error) {
	query := `SELECT id, filename, transcript, speakers, summary, created_at FROM transcriptions WHERE id = $1`
	var t model.Transcription
	var summary sql.NullString
	err := pdb.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Filename, &t.Transcript, &t.Speakers, &summary, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Summary = summary.String
	return &t, nil
}

func (pdb *PostgresDB) List(ctx context.Context, limit int) ([]model.Transcription, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, filename, transcript, speakers, summary, created_at
		FROM transcriptions
		ORDER BY created_at DESC, id DESC
		LIMIT $1;`
	rows, err := pdb.db.QueryContext(ctx, query, limit)
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

func (pdb *PostgresDB) UpdateSummary(ctx context.Context, id int64, summary string) error {
	res, err := pdb.db.ExecContext(ctx, `UPDATE transcriptions SET summary = $1 WHERE id = $2`, summary, id)
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
