// Package storage selects and opens the cursor store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"video_notifier/internal/config"
	"video_notifier/internal/domain"
	"video_notifier/internal/storage/file"
	"video_notifier/internal/storage/sqlstore"
)

// CursorStore loads the cursor at startup and stores it at shutdown.
type CursorStore interface {
	Load(ctx context.Context) (domain.Cursor, error)
	Store(ctx context.Context, cursor domain.Cursor) error
}

// Open returns the store for cfg.Driver and a function releasing its
// resources.
func Open(ctx context.Context, cfg config.StorageConfig) (CursorStore, func() error, error) {
	switch cfg.Driver {
	case "file":
		return file.NewCursorStore(cfg.Path), func() error { return nil }, nil
	case "postgres", "sqlite":
		db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.ConnString())
		if err != nil {
			return nil, nil, fmt.Errorf("connect to %s: %w", cfg.Driver, err)
		}
		store := sqlstore.NewCursorStore(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// LoadOrSeed loads the cursor. A store without state starts from
// {seedChannel, ""} when a seed is configured; otherwise that is an error
// like any other load failure.
func LoadOrSeed(ctx context.Context, store CursorStore, seedChannel string, logger *slog.Logger) (domain.Cursor, error) {
	cursor, err := store.Load(ctx)
	if err == nil {
		return cursor, nil
	}
	if errors.Is(err, domain.ErrCursorNotFound) && seedChannel != "" {
		logger.Info("no stored cursor, starting from configured channel", "channel_id", seedChannel)
		return domain.Cursor{ChannelID: seedChannel}, nil
	}
	return domain.Cursor{}, fmt.Errorf("load cursor: %w", err)
}
