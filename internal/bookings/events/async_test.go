package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"seatrota/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingPublisher struct {
	release chan struct{}
	mu      sync.Mutex
	got     []Event
	ctxErrs []error
}

func (b *blockingPublisher) Publish(ctx context.Context, event Event) {
	<-b.release
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, event)
	b.ctxErrs = append(b.ctxErrs, ctx.Err())
}

func (b *blockingPublisher) events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.got...)
}

func TestAsyncPublisher_DoesNotBlockCaller(t *testing.T) {
	inner := &blockingPublisher{release: make(chan struct{})}
	p := NewAsyncPublisher(inner, 4, logger.Discard())

	reqCtx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	for i := 0; i < 4; i++ {
		p.Publish(reqCtx, Event{Type: TypeBookingCreated, Key: "2026-03-05"})
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	cancel()

	close(inner.release)
	require.NoError(t, p.Close(context.Background()))

	assert.Len(t, inner.events(), 4)
	for _, err := range inner.ctxErrs {
		assert.NoError(t, err, "queued events outlive the request context")
	}
}

func TestAsyncPublisher_DropsWhenFull(t *testing.T) {
	inner := &blockingPublisher{release: make(chan struct{})}
	p := NewAsyncPublisher(inner, 1, logger.Discard())

	// One event is held by the sender, one fills the queue, the rest drop.
	for i := 0; i < 5; i++ {
		p.Publish(context.Background(), Event{Type: TypeBookingReleased})
		time.Sleep(5 * time.Millisecond)
	}

	close(inner.release)
	require.NoError(t, p.Close(context.Background()))
	assert.Len(t, inner.events(), 2)
}

func TestAsyncPublisher_CloseHonoursDeadline(t *testing.T) {
	inner := &blockingPublisher{release: make(chan struct{})}
	p := NewAsyncPublisher(inner, 2, logger.Discard())
	p.Publish(context.Background(), Event{Type: TypeBookingCreated})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Close(ctx), context.DeadlineExceeded)

	p.Publish(context.Background(), Event{Type: TypeBookingCreated})
	close(inner.release)
	assert.Eventually(t, func() bool { return len(inner.events()) == 1 }, time.Second, 5*time.Millisecond,
		"events published after Close are dropped")
}
