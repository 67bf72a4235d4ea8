// Package notify is a fire-and-forget channel for user-visible toasts.
// Publishers never block: a subscriber that falls behind loses messages.
package notify

import (
	"sync"

	"github.com/rs/xid"

	"github.com/dmitrijs2005/visionaq/internal/client/models"
)

// Bus fans notifications out to subscribers.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan models.Notification
	next   int
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan models.Notification)}
}

// Publish assigns an ID when n has none and offers n to every subscriber.
func (b *Bus) Publish(n models.Notification) {
	if n.ID == "" {
		n.ID = xid.New().String()
	}
	if n.Kind == "" {
		n.Kind = models.NotificationInfo
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Subscribe returns a channel with the given buffer and a cancel func that
// closes it. Cancel is safe to call more than once.
func (b *Bus) Subscribe(buffer int) (<-chan models.Notification, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan models.Notification, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.next++
	id := b.next
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// Close closes every subscriber channel. Later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
