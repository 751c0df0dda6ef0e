package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"video_notifier/internal/config"
	"video_notifier/internal/domain"
	"video_notifier/internal/item"
)

// Poller runs single poll cycles: fetch the newest upload, decide whether
// it is worth a notification, notify. It owns the cursor and the last
// notified item; both must only be touched from the goroutine that drives
// it.
type Poller struct {
	resolver ChannelResolver
	items    *item.Builder
	notifier Notifier
	logger   *slog.Logger
	config   config.PollConfig
	denylist []string

	cursor   domain.Cursor
	previous domain.Item
}

func NewPoller(
	resolver ChannelResolver,
	metadata MetadataProvider,
	notifier Notifier,
	links *item.LinkExtractor,
	cursor domain.Cursor,
	logger *slog.Logger,
	cfg config.PollConfig,
) *Poller {
	logger = logger.With("channel_id", cursor.ChannelID)

	denylist := make([]string, 0, len(cfg.Denylist))
	for _, word := range cfg.Denylist {
		if word = strings.ToLower(word); word != "" {
			denylist = append(denylist, word)
		}
	}

	return &Poller{
		resolver: resolver,
		items:    item.NewBuilder(metadata, links, logger),
		notifier: notifier,
		logger:   logger,
		config:   cfg,
		denylist: denylist,
		cursor:   cursor,
		previous: domain.Item{ID: cursor.LastItemID},
	}
}

// Cursor returns the current in-memory cursor.
func (p *Poller) Cursor() domain.Cursor {
	return p.cursor
}

// Prime rebuilds the last notified item from the cursor so that a restart
// does not notify for it again. If the item cannot be fetched, only its id
// is kept, which is all the comparison needs.
func (p *Poller) Prime(ctx context.Context) {
	if p.cursor.LastItemID == "" {
		return
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	prev, err := p.items.Build(ctx, p.cursor.LastItemID)
	if err != nil {
		p.logger.Warn("could not rebuild last notified item",
			"item_id", p.cursor.LastItemID,
			"error", err,
		)
		return
	}
	p.previous = prev
	p.logger.Info("primed from cursor", "item_id", prev.ID, "title", prev.Title)
}

// Cycle performs one Fetching → Deciding → Notifying pass. Upstream
// failures forfeit the cycle and leave all state untouched.
func (p *Poller) Cycle(ctx context.Context) domain.CycleResult {
	start := time.Now()

	result := p.cycle(ctx)
	result.Duration = time.Since(start)

	if result.Err != nil {
		return result
	}

	p.logger.Info("cycle completed",
		"outcome", result.Outcome,
		"item_id", result.ItemID,
		"duration", result.Duration,
	)
	return result
}

func (p *Poller) cycle(ctx context.Context) domain.CycleResult {
	fetchCtx, cancel := p.withTimeout(ctx)
	defer cancel()

	latestID, err := p.resolver.LatestItemID(fetchCtx, p.cursor.ChannelID)
	if err != nil {
		return domain.CycleResult{
			Outcome: domain.OutcomeFailed,
			Err:     fmt.Errorf("resolve latest item: %w", err),
		}
	}

	latest, err := p.items.Build(fetchCtx, latestID)
	if err != nil {
		return domain.CycleResult{
			Outcome: domain.OutcomeFailed,
			ItemID:  latestID,
			Err:     fmt.Errorf("build item: %w", err),
		}
	}

	if latest.ID == p.previous.ID {
		return domain.CycleResult{Outcome: domain.OutcomeUnchanged, ItemID: latest.ID}
	}
	if word, ok := p.denied(latest.Title); ok {
		p.logger.Debug("item filtered", "item_id", latest.ID, "title", latest.Title, "match", word)
		return domain.CycleResult{Outcome: domain.OutcomeFiltered, ItemID: latest.ID}
	}

	// Delivery is best-effort and at most once: state advances even when
	// the send fails.
	if err := p.notifier.Notify(ctx, latest); err != nil {
		p.logger.Warn("notification failed", "item_id", latest.ID, "error", err)
	}

	p.previous = latest
	p.cursor.LastItemID = latest.ID

	return domain.CycleResult{Outcome: domain.OutcomeNotified, ItemID: latest.ID}
}

func (p *Poller) denied(title string) (string, bool) {
	lower := strings.ToLower(title)
	for _, word := range p.denylist {
		if strings.Contains(lower, word) {
			return word, true
		}
	}
	return "", false
}

func (p *Poller) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.config.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.config.FetchTimeout)
}
