package session

import (
	"sync"

	"github.com/google/uuid"
)

const defaultBuffer = 16

// Broker fans out [Change] events to subscribers.
//
// Delivery never blocks: a subscriber whose buffer is full misses the event.
// Subscribers re-read the store on every change, so a dropped duplicate is harmless.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]chan Change
	buffer int
	closed bool
}

// NewBroker creates a [Broker] whose subscriber channels hold buffer events.
// A non-positive buffer uses a default.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Broker{subs: make(map[string]chan Change), buffer: buffer}
}

// Subscribe registers a subscriber. The returned function unsubscribes and closes the channel.
func (b *Broker) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, b.buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := uuid.NewString()
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers c to every subscriber with room in its buffer.
func (b *Broker) Publish(c Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close ends all subscriptions. Later subscriptions receive a closed channel.
func (b *Broker) Close() {
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
