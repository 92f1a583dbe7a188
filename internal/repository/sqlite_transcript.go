package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/strive/internal/domain"
)

// SQLiteTranscriptRepo implements TranscriptRepo using a SQLite database.
type SQLiteTranscriptRepo struct {
	db *sql.DB
}

// NewSQLiteTranscriptRepo creates a new SQLiteTranscriptRepo.
func NewSQLiteTranscriptRepo(db *sql.DB) *SQLiteTranscriptRepo {
	return &SQLiteTranscriptRepo{db: db}
}

func (r *SQLiteTranscriptRepo) Append(ctx context.Context, m *domain.Message) error {
	query := `INSERT INTO transcript_messages (id, role, content, created_at)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		string(m.Role),
		m.Content,
		m.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting transcript message: %w", err)
	}
	return nil
}

func (r *SQLiteTranscriptRepo) List(ctx context.Context) ([]*domain.Message, error) {
	// created_at only has second precision, so rowid breaks the tie in
	// insertion order for adjacent turns.
	query := `SELECT id, role, content, created_at
		FROM transcript_messages ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing transcript messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var m domain.Message
		var role, createdAtStr string
		if err := rows.Scan(&m.ID, &role, &m.Content, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning transcript row: %w", err)
		}
		m.Role = domain.Role(role)
		m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transcript messages: %w", err)
	}
	return messages, nil
}

func (r *SQLiteTranscriptRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transcript_messages`)
	if err != nil {
		return fmt.Errorf("clearing transcript: %w", err)
	}
	return nil
}
