// Package file persists the cursor as a small JSON document.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"video_notifier/internal/domain"
)

// CursorStore reads and writes {"channel": ..., "last_id": ...} at path.
type CursorStore struct {
	path string
}

func NewCursorStore(path string) *CursorStore {
	return &CursorStore{path: path}
}

func (s *CursorStore) Load(_ context.Context) (domain.Cursor, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Cursor{}, fmt.Errorf("%s: %w", s.path, domain.ErrCursorNotFound)
	}
	if err != nil {
		return domain.Cursor{}, fmt.Errorf("read cursor: %w", err)
	}

	var cursor domain.Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return domain.Cursor{}, fmt.Errorf("parse cursor %s: %w", s.path, err)
	}
	if cursor.ChannelID == "" {
		return domain.Cursor{}, fmt.Errorf("parse cursor %s: missing channel", s.path)
	}
	return cursor, nil
}

// Store replaces the file atomically: the document is written to a temp
// file in the same directory, synced, then renamed over the target.
func (s *CursorStore) Store(_ context.Context, cursor domain.Cursor) error {
	data, err := json.Marshal(cursor)
	if err != nil {
		return fmt.Errorf("marshal cursor: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cursor-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
