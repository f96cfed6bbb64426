package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

type blockingPublisher struct {
	mu       sync.Mutex
	got      []string
	unblock  chan struct{}
	blocking bool
}

func (p *blockingPublisher) Publish(ctx context.Context, topic string, payload any) error {
	if p.blocking {
		<-p.unblock
	}
	p.mu.Lock()
	p.got = append(p.got, topic)
	p.mu.Unlock()
	return nil
}

func (p *blockingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.got)
}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *countingMetrics) ObserveEvent(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = map[string]int{}
	}
	m.outcomes[outcome]++
}

func (m *countingMetrics) get(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}

func TestNotifier_DrainsOnClose(t *testing.T) {
	pub := &blockingPublisher{}
	metrics := &countingMetrics{}
	n := app.NewNotifier(pub, 16, 2, zerolog.Nop(), metrics)

	for i := 0; i < 10; i++ {
		require.NoError(t, n.Publish(context.Background(), domain.TopicBookingEvents, i))
	}
	n.Close()

	require.Equal(t, 10, pub.count())
	require.Equal(t, 10, metrics.get("queued"))
	require.Equal(t, 10, metrics.get("published"))
	require.Zero(t, metrics.get("dropped"))
}

func TestNotifier_FullQueueDropsWithoutBlocking(t *testing.T) {
	pub := &blockingPublisher{blocking: true, unblock: make(chan struct{})}
	metrics := &countingMetrics{}
	// Queue of 1, single worker: once the pipeline is saturated every
	// further publish must be dropped, not waited on.
	n := app.NewNotifier(pub, 1, 1, zerolog.Nop(), metrics)

	start := time.Now()
	for i := 0; i < 20; i++ {
		require.NoError(t, n.Publish(context.Background(), domain.TopicBookingEvents, i))
	}
	require.Less(t, time.Since(start), time.Second, "Publish must not block on a stuck sink")
	require.Greater(t, metrics.get("dropped"), 0)

	close(pub.unblock)
	n.Close()
	require.Equal(t, metrics.get("queued"), pub.count())
}

func TestNotifier_PublishAfterCloseIsSafe(t *testing.T) {
	pub := &blockingPublisher{}
	n := app.NewNotifier(pub, 4, 1, zerolog.Nop(), nil)
	n.Close()

	require.NoError(t, n.Publish(context.Background(), domain.TopicBookingEvents, "late"))
	require.Zero(t, pub.count())
}
