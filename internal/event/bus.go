package event

import (
	"context"
	"sync"

	"github.com/sandevgo/chatminder/internal/core"
	"github.com/sandevgo/chatminder/pkg/log"
)

type Type string

const (
	MessageCreated Type = "message.created"
	MessageUpdated Type = "message.updated"
)

// MessageEvent describes one change to a chat message document. For
// updates, Before holds the pre-change snapshot.
type MessageEvent struct {
	Type    Type
	Before  core.ChatMessage
	Message core.ChatMessage
}

// Bus fans message-change events out to subscribers in-process.
// Delivery is best-effort: a subscriber whose buffer is full misses the
// event, and nothing deduplicates redelivered events. Handlers have to
// tolerate both, same as they would behind any at-least-once trigger.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan MessageEvent
	closed bool
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(buffer int) <-chan MessageEvent {
	ch := make(chan MessageEvent, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, ch)
	return ch
}

func (b *Bus) Publish(ctx context.Context, ev MessageEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			log.FromCtx(ctx).Warn().
				Str("type", string(ev.Type)).
				Str("message_id", ev.Message.ID).
				Msg("subscriber buffer full, event dropped")
		}
	}
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
