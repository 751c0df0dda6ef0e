package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"video_notifier/internal/config"
	"video_notifier/internal/domain"
	"video_notifier/internal/item"
	"video_notifier/internal/service"
	"video_notifier/internal/service/mocks"
	"video_notifier/internal/shutdown"
)

func TestLoop_EndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockChannelResolver(ctrl)
	metadata := mocks.NewMockMetadataProvider(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	stop := shutdown.New()

	metadata.EXPECT().FetchMetadata(gomock.Any(), "V1").Return(domain.Metadata{Title: "Old Puzzle"}, nil)
	resolver.EXPECT().LatestItemID(gomock.Any(), "C1").Return("V2", nil)
	metadata.EXPECT().FetchMetadata(gomock.Any(), "V2").Return(domain.Metadata{
		Title:        "New Puzzle",
		DurationCode: "PT37M45S",
		Description:  "Today's puzzle https://tinyurl.com/Abc123 - good luck!",
	}, nil)

	var message string
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, it domain.Item) error {
			message = it.Message()
			stop.Set()
			return nil
		},
	)

	poller := service.NewPoller(resolver, metadata, notifier,
		item.NewLinkExtractor(nil),
		domain.Cursor{ChannelID: "C1", LastItemID: "V1"},
		discardLogger(),
		config.PollConfig{FetchTimeout: time.Second, Denylist: []string{"wordle", "crossword"}},
	)
	sched := NewScheduler(poller, time.Hour, stop, discardLogger())

	done := make(chan domain.Cursor, 1)
	go func() {
		poller.Prime(context.Background())
		sched.Run(context.Background())
		done <- poller.Cursor()
	}()

	select {
	case final := <-done:
		assert.Equal(t, domain.Cursor{ChannelID: "C1", LastItemID: "V2"}, final)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	require.Equal(t,
		"The latest video New Puzzle (https://www.youtube.com/watch?v=V2) for https://tinyurl.com/Abc123 took 0:37:45.",
		message,
	)
}

func TestLoop_StoppedBeforeFetchMakesNoCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	stop := shutdown.New()
	stop.Set()

	start := domain.Cursor{ChannelID: "C1", LastItemID: "V1"}
	poller := service.NewPoller(
		mocks.NewMockChannelResolver(ctrl),
		mocks.NewMockMetadataProvider(ctrl),
		mocks.NewMockNotifier(ctrl),
		item.NewLinkExtractor(nil),
		start,
		discardLogger(),
		config.PollConfig{},
	)

	NewScheduler(poller, time.Hour, stop, discardLogger()).Run(context.Background())

	assert.Equal(t, start, poller.Cursor())
}
