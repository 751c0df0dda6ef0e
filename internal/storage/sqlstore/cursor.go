// Package sqlstore persists the cursor in a single-row SQL table. It works
// with PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"video_notifier/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS cursor_state (
		id           INTEGER PRIMARY KEY CHECK (id = 1),
		channel_id   TEXT NOT NULL,
		last_item_id TEXT NOT NULL DEFAULT '',
		updated_at   TIMESTAMP NOT NULL
	)`

type CursorStore struct {
	db *sqlx.DB
}

func NewCursorStore(db *sqlx.DB) *CursorStore {
	return &CursorStore{db: db}
}

// Migrate creates the cursor table if it does not exist.
func (s *CursorStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create cursor_state: %w", err)
	}
	return nil
}

func (s *CursorStore) Load(ctx context.Context) (domain.Cursor, error) {
	var cursor domain.Cursor
	query := `
		SELECT channel_id, last_item_id
		FROM cursor_state
		WHERE id = 1`

	err := s.db.GetContext(ctx, &cursor, query)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cursor{}, domain.ErrCursorNotFound
	}
	if err != nil {
		return domain.Cursor{}, fmt.Errorf("load cursor: %w", err)
	}
	return cursor, nil
}

func (s *CursorStore) Store(ctx context.Context, cursor domain.Cursor) error {
	query := s.db.Rebind(`
		INSERT INTO cursor_state (id, channel_id, last_item_id, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			channel_id = EXCLUDED.channel_id,
			last_item_id = EXCLUDED.last_item_id,
			updated_at = EXCLUDED.updated_at`)

	_, err := s.db.ExecContext(ctx, query,
		cursor.ChannelID,
		cursor.LastItemID,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("store cursor: %w", err)
	}
	return nil
}
