package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a file-backed journal so note/delete follow-ups survive a
// process restart.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and migrates) a journal database at the given DSN.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS last_records (
		user_id TEXT PRIMARY KEY,
		debit_id TEXT NOT NULL,
		credit_id TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal database: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) SetLast(ctx context.Context, userID string, pair Pair) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO last_records (user_id, debit_id, credit_id, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(user_id) DO UPDATE SET
		   debit_id = excluded.debit_id,
		   credit_id = excluded.credit_id,
		   updated_at = CURRENT_TIMESTAMP`,
		userID, pair.DebitID, pair.CreditID)
	return err
}

func (s *SQLite) Last(ctx context.Context, userID string) (Pair, error) {
	var pair Pair
	err := s.db.QueryRowContext(ctx,
		`SELECT debit_id, credit_id FROM last_records WHERE user_id = ?`,
		userID).Scan(&pair.DebitID, &pair.CreditID)
	if errors.Is(err, sql.ErrNoRows) {
		return Pair{}, ErrNoRecords
	}
	if err != nil {
		return Pair{}, fmt.Errorf("failed to read journal: %w", err)
	}
	return pair, nil
}

func (s *SQLite) Clear(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM last_records WHERE user_id = ?`, userID)
	return err
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
