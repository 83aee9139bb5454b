package schedule

import (
	"sort"
	"sync"
	"time"
)

// Event announces that a schedule flag changed.
// Previous is nil for the first observed value.
type Event struct {
	Path     string    `json:"path"`
	Active   bool      `json:"active"`
	Previous *bool     `json:"previous,omitempty"`
	At       time.Time `json:"at"`
}

// Broadcaster is a one-to-many change notifier. Delivery is synchronous on
// the publishing goroutine, in subscription order.
type Broadcaster struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]func(Event)
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uint64]func(Event))}
}

// Subscribe registers fn and returns its unsubscribe function.
func (b *Broadcaster) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers ev to every current subscriber.
func (b *Broadcaster) Publish(ev Event) {
	b.mu.RLock()
	ids := make([]uint64, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len returns the number of subscribers.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
