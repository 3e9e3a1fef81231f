package app

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/ShakerZed/bjjfanaticsdb/internal/domain"
)

func waitSignal(t *testing.T, ch <-chan struct{}, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal(msg)
	}
}

func TestPoller_ImmediatePassThenTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	passes := make(chan struct{}, 10)
	feed := &mockFeedSource{
		newCommentsFn: func(context.Context, string, int) ([]domain.FeedItem, error) {
			passes <- struct{}{}
			return nil, nil
		},
	}
	cfg := testConfig()
	cfg.DedupMode = domain.DedupNone
	svc := NewService(catalogWith("Uchi Mata"), &mockMentionRepo{}, feed, clock, cfg)
	poller := NewPoller(svc, time.Minute, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	waitSignal(t, passes, "expected immediate pass on start")

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute)
	waitSignal(t, passes, "expected pass after first tick")

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute)
	waitSignal(t, passes, "expected pass after second tick")

	cancel()
	waitSignal(t, done, "poller did not stop on context cancel")
}

func TestPoller_KeepsRunningAfterPassFailure(t *testing.T) {
	clock := clockwork.NewFakeClock()
	passes := make(chan struct{}, 10)
	catalog := &mockCatalogRepo{
		listNamesFn: func(context.Context) ([]string, error) {
			passes <- struct{}{}
			return nil, domain.ErrCatalogUnavailable
		},
	}
	svc := NewService(catalog, &mockMentionRepo{}, &mockFeedSource{}, clock, testConfig())
	poller := NewPoller(svc, time.Minute, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	waitSignal(t, passes, "expected immediate pass on start")

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute)
	waitSignal(t, passes, "expected pass after tick despite earlier failure")

	cancel()
	waitSignal(t, done, "poller did not stop on context cancel")
}
