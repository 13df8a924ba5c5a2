// Package events is the in-process change feed: the mutation flow publishes
// quote ids, open pages subscribe (via the SSE endpoint) and re-render.
package events

import "sync"

// Change identifies a quote whose data (or whose products) changed.
type Change struct {
	QuoteID string `json:"quoteId"`
}

// Bus fans out changes to subscribers. Slow subscribers are skipped rather
// than blocking a write; a missed event only costs a page refresh.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Change
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Change)}
}

// Subscribe returns a channel of changes and a cancel func that must be
// called when the consumer goes away.
func (b *Bus) Subscribe() (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Change, 8)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (b *Bus) Publish(c Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
