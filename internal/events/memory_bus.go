package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// MemoryBus is a single-process Bus used when Redis is not configured.
type MemoryBus struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *RequestEvent]struct{}
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subscribers: make(map[string]map[chan *RequestEvent]struct{})}
}

func (b *MemoryBus) Publish(_ context.Context, event *RequestEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, channel := range event.Channels() {
		for subscriber := range b.subscribers[channel] {
			select {
			case subscriber <- event:
			default:
				log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("subscriber queue full, dropping event")
			}
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, channel string) (<-chan *RequestEvent, error) {
	ch := make(chan *RequestEvent, subscriberQueueSize)

	b.mu.Lock()
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *RequestEvent]struct{})
	}
	b.subscribers[channel][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subscribers[channel], ch)
		if len(b.subscribers[channel]) == 0 {
			delete(b.subscribers, channel)
		}
		b.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

func (b *MemoryBus) Close() error {
	return nil
}
