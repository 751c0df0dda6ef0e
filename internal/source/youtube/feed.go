package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// FeedResolver finds the newest upload through the channel's public Atom
// feed. It costs no API quota.
type FeedResolver struct {
	parser  *gofeed.Parser
	feedURL string
	timeout time.Duration
}

func NewFeedResolver(feedURL string, timeout time.Duration) *FeedResolver {
	parser := gofeed.NewParser()
	parser.UserAgent = "VideoNotifier/1.0"
	return &FeedResolver{
		parser:  parser,
		feedURL: feedURL,
		timeout: timeout,
	}
}

// LatestItemID returns the id of the most recently published entry.
func (f *FeedResolver) LatestItemID(ctx context.Context, channelID string) (string, error) {
	u, err := url.Parse(f.feedURL)
	if err != nil {
		return "", fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("channel_id", channelID)
	u.RawQuery = q.Encode()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	feed, err := f.parser.ParseURLWithContext(u.String(), ctx)
	if err != nil {
		return "", fmt.Errorf("fetch feed for %s: %w", channelID, err)
	}

	var newest *gofeed.Item
	for _, entry := range feed.Items {
		if newest == nil || publishedAfter(entry, newest) {
			newest = entry
		}
	}
	if newest == nil {
		return "", fmt.Errorf("feed for %s: %w", channelID, ErrNotFound)
	}

	id := entryVideoID(newest)
	if id == "" {
		return "", fmt.Errorf("feed entry without video id: %w", ErrNotFound)
	}
	return id, nil
}

func publishedAfter(a, b *gofeed.Item) bool {
	if a.PublishedParsed == nil || b.PublishedParsed == nil {
		return false
	}
	return a.PublishedParsed.After(*b.PublishedParsed)
}

// entryVideoID reads <yt:videoId>, falling back to the "yt:video:" id.
func entryVideoID(entry *gofeed.Item) string {
	if values := entry.Extensions["yt"]["videoId"]; len(values) > 0 && values[0].Value != "" {
		return values[0].Value
	}
	if id, ok := strings.CutPrefix(entry.GUID, "yt:video:"); ok {
		return id
	}
	return ""
}
