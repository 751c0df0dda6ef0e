package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"video_notifier/internal/domain"
)

// ChannelResolver resolves the newest upload of a channel.
type ChannelResolver interface {
	LatestItemID(ctx context.Context, channelID string) (string, error)
}

type MetadataProvider interface {
	FetchMetadata(ctx context.Context, itemID string) (domain.Metadata, error)
}

type Notifier interface {
	Notify(ctx context.Context, item domain.Item) error
}
