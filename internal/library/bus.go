package library

import "sync"

// Event is a "content changed" broadcast. Source tags the mutating
// view; URL optionally carries the link that was just added.
type Event struct {
	Source string
	URL    string
}

// Bus is the process-wide invalidation channel. It is created once and
// passed by reference to every controller that mutates or observes the
// library; mutators publish after their own local update, and every
// open view's loop reloads independently on receipt.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener and returns its channel plus a cancel
// function. The channel is buffered; a slow listener misses extra
// events rather than blocking publishers, which is fine because every
// event means the same thing: reload.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, 8)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish broadcasts an event to all current subscribers without
// blocking. No ordering guarantee is made between the publisher's own
// reload and the subscribers' reloads.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
