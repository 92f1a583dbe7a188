package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteCredentialsRepo implements CredentialsRepo using a SQLite database.
// A single row under id 'default' holds the current token.
type SQLiteCredentialsRepo struct {
	db *sql.DB
}

// NewSQLiteCredentialsRepo creates a new SQLiteCredentialsRepo.
func NewSQLiteCredentialsRepo(db *sql.DB) *SQLiteCredentialsRepo {
	return &SQLiteCredentialsRepo{db: db}
}

func (r *SQLiteCredentialsRepo) SaveToken(ctx context.Context, token string) error {
	query := `INSERT INTO credentials (id, token, updated_at) VALUES ('default', ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, token, nowUTC())
	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

func (r *SQLiteCredentialsRepo) Token(ctx context.Context) (string, error) {
	var token string
	err := r.db.QueryRowContext(ctx,
		`SELECT token FROM credentials WHERE id = 'default'`).Scan(&token)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("token: %w", ErrNotFound)
		}
		return "", fmt.Errorf("loading token: %w", err)
	}
	if token == "" {
		return "", fmt.Errorf("token: %w", ErrNotFound)
	}
	return token, nil
}

func (r *SQLiteCredentialsRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = 'default'`)
	if err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	return nil
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
