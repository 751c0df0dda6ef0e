package notifier

import (
	"context"
	"errors"

	"video_notifier/internal/domain"
)

// Notifier is anything that can deliver an item notification.
type Notifier interface {
	Notify(ctx context.Context, item domain.Item) error
}

// Multi fans a notification out to every notifier. All are attempted;
// their errors are joined.
type Multi struct {
	notifiers []Notifier
}

func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Notify(ctx context.Context, item domain.Item) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, item); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
