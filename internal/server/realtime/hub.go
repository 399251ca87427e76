// Package realtime fans out "entries changed" signals to the streams
// watching a user's mood list.
//
// A signal carries no payload: subscribers re-read the full list, so a
// burst of changes collapses into one pending signal per subscriber.
package realtime

import "sync"

type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*subscription]struct{}
}

type subscription struct {
	ch chan struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*subscription]struct{})}
}

// Subscribe registers interest in userID. The returned cancel must be called
// once the subscriber stops reading; it is safe to call more than once.
func (h *Hub) Subscribe(userID string) (<-chan struct{}, func()) {
	s := &subscription{ch: make(chan struct{}, 1)}

	h.mu.Lock()
	set, ok := h.subs[userID]
	if !ok {
		set = make(map[*subscription]struct{})
		h.subs[userID] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[userID], s)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
		})
	}
}

// Notify wakes every subscriber of userID without blocking.
func (h *Hub) Notify(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[userID] {
		select {
		case s.ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}
