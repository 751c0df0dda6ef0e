// Package item assembles notification items from upstream metadata.
package item

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"video_notifier/internal/domain"
)

// ErrEmptyID is returned when an item is requested without an identifier.
var ErrEmptyID = errors.New("empty item id")

// MetadataProvider fetches the raw description of an item.
type MetadataProvider interface {
	FetchMetadata(ctx context.Context, itemID string) (domain.Metadata, error)
}

// Builder turns item identifiers into Items.
type Builder struct {
	provider  MetadataProvider
	durations *DurationParser
	links     *LinkExtractor
	logger    *slog.Logger
}

func NewBuilder(provider MetadataProvider, links *LinkExtractor, logger *slog.Logger) *Builder {
	return &Builder{
		provider:  provider,
		durations: NewDurationParser(),
		links:     links,
		logger:    logger,
	}
}

// Build fetches metadata for itemID and assembles the Item. Only a failed
// fetch is an error; a bad duration or a missing link degrade the fields.
func (b *Builder) Build(ctx context.Context, itemID string) (domain.Item, error) {
	if itemID == "" {
		return domain.Item{}, ErrEmptyID
	}

	meta, err := b.provider.FetchMetadata(ctx, itemID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("fetch metadata for %s: %w", itemID, err)
	}

	seconds, err := b.durations.Parse(meta.DurationCode)
	if err != nil {
		b.logger.Warn("using zero duration", "item_id", itemID, "error", err)
	}

	link, ok := b.links.Extract(meta.Description)
	if !ok {
		b.logger.Debug("no link in description", "item_id", itemID)
	}

	return domain.Item{
		ID:              itemID,
		Title:           meta.Title,
		Link:            link,
		DurationSeconds: seconds,
	}, nil
}
