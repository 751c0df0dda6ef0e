package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"video_notifier/internal/config"
	"video_notifier/internal/domain"
	"video_notifier/internal/item"
	"video_notifier/internal/notifier"
	"video_notifier/internal/publisher"
	"video_notifier/internal/scheduler"
	"video_notifier/internal/service"
	"video_notifier/internal/shutdown"
	"video_notifier/internal/source/youtube"
	"video_notifier/internal/storage"
)

const persistTimeout = 10 * time.Second

func main() {
	// Setup logger
	logger := setupLogger("info")

	configPath := os.Getenv("NOTIFIER_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Secrets are resolved before anything else runs
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("notifier failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	stop := shutdown.New()
	uninstall := shutdown.Notify(stop, func(sig os.Signal) {
		logger.Info("received shutdown signal", "signal", sig)
	}, syscall.SIGINT, syscall.SIGTERM)
	defer uninstall()

	store, closeStore, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open cursor store: %w", err)
	}
	defer closeStore()

	cursor, err := storage.LoadOrSeed(ctx, store, cfg.ChannelID, logger)
	if err != nil {
		return err
	}
	logger.Info("loaded cursor",
		"driver", cfg.Storage.Driver,
		"channel_id", cursor.ChannelID,
		"last_item_id", cursor.LastItemID,
	)

	api, err := youtube.NewClient(ctx, youtube.Config{
		APIKey:            cfg.YouTube.APIKey,
		Endpoint:          cfg.YouTube.Endpoint,
		Timeout:           cfg.YouTube.Timeout,
		RequestsPerSecond: cfg.YouTube.RequestsPerSecond,
	}, logger)
	if err != nil {
		return err
	}

	var resolver service.ChannelResolver = api
	if cfg.YouTube.Resolver == "feed" {
		resolver = youtube.NewFeedResolver(cfg.YouTube.FeedURL, cfg.YouTube.Timeout)
	}

	notifiers, closeNotifiers, err := setupNotifiers(cfg, logger)
	if err != nil {
		return err
	}
	defer closeNotifiers()

	poller := service.NewPoller(
		resolver,
		api,
		notifiers,
		item.NewLinkExtractor(cfg.YouTube.LinkHosts),
		cursor,
		logger,
		cfg.Poll,
	)
	sched := scheduler.NewScheduler(poller, cfg.Poll.Interval, stop, logger)

	logger.Info("starting video notifier",
		"resolver", cfg.YouTube.Resolver,
		"interval", cfg.Poll.Interval,
		"denylist", cfg.Poll.Denylist,
	)

	done := make(chan domain.Cursor, 1)
	go func() {
		poller.Prime(ctx)
		sched.Run(ctx)
		done <- poller.Cursor()
	}()
	sdNotify(logger, daemon.SdNotifyReady)

	final := <-done
	sdNotify(logger, daemon.SdNotifyStopping)

	// Persistence on exit is best-effort
	storeCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	if err := store.Store(storeCtx, final); err != nil {
		logger.Error("failed to persist cursor", "error", err, "last_item_id", final.LastItemID)
		return nil
	}
	logger.Info("cursor persisted", "channel_id", final.ChannelID, "last_item_id", final.LastItemID)
	return nil
}

func setupNotifiers(cfg *config.Config, logger *slog.Logger) (*notifier.Multi, func(), error) {
	email, err := notifier.NewEmail(notifier.EmailConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		To:       cfg.Mail.To,
		Subject:  cfg.Mail.Subject,
		Timeout:  cfg.Mail.Timeout,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.RabbitMQ.URL == "" {
		return notifier.NewMulti(email), func() {}, nil
	}

	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	return notifier.NewMulti(email, rabbitMQ), func() { rabbitMQ.Close() }, nil
}

func sdNotify(logger *slog.Logger, state string) {
	if _, err := daemon.SdNotify(false, state); err != nil {
		logger.Warn("systemd notify failed", "state", state, "error", err)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
