package domain

import "errors"

// Cursor is the persisted position of the watcher: the channel and the
// last item a notification was sent for. LastItemID may be empty.
type Cursor struct {
	ChannelID  string `json:"channel" db:"channel_id"`
	LastItemID string `json:"last_id" db:"last_item_id"`
}

// ErrCursorNotFound is returned by cursor stores that hold no state yet.
var ErrCursorNotFound = errors.New("cursor not found")
