// Package youtube resolves channel uploads and video metadata.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"video_notifier/internal/domain"
)

// ErrNotFound is returned when a lookup yields no items.
var ErrNotFound = errors.New("not found upstream")

// Config holds YouTube Data API client configuration.
type Config struct {
	APIKey            string
	Endpoint          string
	Timeout           time.Duration
	RequestsPerSecond float64
	// Transport overrides the base round tripper, mainly for tests.
	Transport http.RoundTripper
}

// Client talks to the YouTube Data API v3. It implements both the channel
// resolver (channel → uploads playlist → newest entry) and the metadata
// provider.
type Client struct {
	service *yt.Service
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key required")
	}

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &transport.APIKey{Key: cfg.APIKey, Transport: cfg.Transport},
	}
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	service, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		service: service,
		limiter: rate.NewLimiter(limit, 3),
		logger:  logger.With("source", "youtube_api"),
	}, nil
}

// LatestItemID returns the id of the newest upload of channelID.
func (c *Client) LatestItemID(ctx context.Context, channelID string) (string, error) {
	playlistID, err := c.uploadsPlaylist(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("channel %s: %w", channelID, err)
	}

	itemID, err := c.newestEntry(ctx, playlistID)
	if err != nil {
		return "", fmt.Errorf("playlist %s: %w", playlistID, err)
	}

	c.logger.Debug("resolved latest item",
		"channel_id", channelID,
		"playlist_id", playlistID,
		"item_id", itemID,
	)
	return itemID, nil
}

// FetchMetadata returns title, duration code and description of itemID.
func (c *Client) FetchMetadata(ctx context.Context, itemID string) (domain.Metadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Metadata{}, fmt.Errorf("rate limit: %w", err)
	}

	resp, err := c.service.Videos.List([]string{"snippet", "contentDetails"}).
		Id(itemID).
		Context(ctx).
		Do()
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("list videos: %w", err)
	}
	if len(resp.Items) == 0 {
		return domain.Metadata{}, fmt.Errorf("video %s: %w", itemID, ErrNotFound)
	}

	video := resp.Items[0]
	var meta domain.Metadata
	if video.Snippet != nil {
		meta.Title = video.Snippet.Title
		meta.Description = video.Snippet.Description
	}
	if video.ContentDetails != nil {
		meta.DurationCode = video.ContentDetails.Duration
	}
	return meta, nil
}

func (c *Client) uploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	resp, err := c.service.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("list channels: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", ErrNotFound
	}

	details := resp.Items[0].ContentDetails
	if details == nil || details.RelatedPlaylists == nil || details.RelatedPlaylists.Uploads == "" {
		return "", fmt.Errorf("uploads playlist: %w", ErrNotFound)
	}
	return details.RelatedPlaylists.Uploads, nil
}

func (c *Client) newestEntry(ctx context.Context, playlistID string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	resp, err := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("list playlist items: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil || resp.Items[0].ContentDetails.VideoId == "" {
		return "", ErrNotFound
	}
	return resp.Items[0].ContentDetails.VideoId, nil
}
