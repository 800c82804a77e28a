package events

import (
	"context"
	"sync"

	"seatrota/pkg/logger"
)

const DefaultAsyncBuffer = 1024

// AsyncPublisher queues events for a single background sender so callers
// never wait on the broker. When the queue is full the event is dropped and
// logged.
type AsyncPublisher struct {
	inner  Publisher
	queue  chan queuedEvent
	done   chan struct{}
	log    *logger.Logger
	mu     sync.RWMutex
	closed bool
}

type queuedEvent struct {
	ctx   context.Context
	event Event
}

func NewAsyncPublisher(inner Publisher, buffer int, log *logger.Logger) *AsyncPublisher {
	if buffer <= 0 {
		buffer = DefaultAsyncBuffer
	}
	p := &AsyncPublisher{
		inner: inner,
		queue: make(chan queuedEvent, buffer),
		done:  make(chan struct{}),
		log:   log,
	}
	go p.run()
	return p
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for q := range p.queue {
		p.inner.Publish(q.ctx, q.event)
	}
}

// Publish keeps the values of ctx (request id) but not its deadline.
func (p *AsyncPublisher) Publish(ctx context.Context, event Event) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.log.Warn("Event dropped, publisher closed", "event_type", event.Type, "key", event.Key)
		return
	}

	select {
	case p.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		p.log.Warn("Event dropped, publish queue full", "event_type", event.Type, "key", event.Key)
	}
}

// Close stops accepting events and waits for the queue to drain or ctx to
// expire, whichever comes first.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		p.log.Warn("Publish queue not drained before shutdown", "pending", len(p.queue))
		return ctx.Err()
	}
}
