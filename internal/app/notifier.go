package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/domain"
)

// EventMetrics receives one observation per event outcome
// (queued, dropped, published, failed).
type EventMetrics interface {
	ObserveEvent(outcome string)
}

type nopEventMetrics struct{}

func (nopEventMetrics) ObserveEvent(string) {}

type envelope struct {
	topic   string
	payload any
}

// Notifier decouples request handling from the broker: Publish enqueues
// without blocking and a bounded worker pool drains the queue to the sink.
// When the queue is full the event is dropped and counted; callers never
// wait on the broker.
type Notifier struct {
	sink    domain.EventPublisher
	queue   chan envelope
	sem     *semaphore.Weighted
	log     zerolog.Logger
	metrics EventMetrics

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewNotifier(sink domain.EventPublisher, queueSize, workers int, log zerolog.Logger, m EventMetrics) *Notifier {
	if queueSize < 1 {
		queueSize = 256
	}
	if workers < 1 {
		workers = 4
	}
	if m == nil {
		m = nopEventMetrics{}
	}
	n := &Notifier{
		sink:    sink,
		queue:   make(chan envelope, queueSize),
		sem:     semaphore.NewWeighted(int64(workers)),
		log:     log,
		metrics: m,
		done:    make(chan struct{}),
	}
	go n.dispatch()
	return n
}

// Publish never blocks. A full queue drops the event: the write that
// triggered it is already committed and stays authoritative.
func (n *Notifier) Publish(_ context.Context, topic string, payload any) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		n.metrics.ObserveEvent("dropped")
		n.log.Warn().Str("topic", topic).Msg("event dropped: notifier closed")
		return nil
	}
	select {
	case n.queue <- envelope{topic: topic, payload: payload}:
		n.metrics.ObserveEvent("queued")
		return nil
	default:
		n.metrics.ObserveEvent("dropped")
		n.log.Warn().Str("topic", topic).Msg("event dropped: queue full")
		return nil
	}
}

func (n *Notifier) dispatch() {
	defer close(n.done)
	for env := range n.queue {
		if err := n.sem.Acquire(context.Background(), 1); err != nil {
			return
		}
		n.wg.Add(1)
		go func(env envelope) {
			defer n.wg.Done()
			defer n.sem.Release(1)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := n.sink.Publish(ctx, env.topic, env.payload); err != nil {
				n.metrics.ObserveEvent("failed")
				n.log.Error().Err(err).Str("topic", env.topic).Msg("event publish failed")
				return
			}
			n.metrics.ObserveEvent("published")
		}(env)
	}
}

// Close drains events already queued, then waits for in-flight publishes.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	<-n.done
	n.wg.Wait()
}
