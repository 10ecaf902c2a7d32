package core

import (
	"sync"

	"check-please/internal/notifications/domain/dto"
)

// Watchers fans incoming status updates out to per-order subscribers. The UI
// layer registers a watcher for the order it is tracking and drops it when
// the customer navigates away.
type Watchers struct {
	mu       sync.Mutex
	watchers map[string][]chan dto.StatusUpdateMessage
}

func NewWatchers() *Watchers {
	return &Watchers{
		watchers: make(map[string][]chan dto.StatusUpdateMessage),
	}
}

// Watch subscribes to updates for one order number. The returned cancel func
// must be called when the watcher is done.
func (w *Watchers) Watch(orderNumber string) (<-chan dto.StatusUpdateMessage, func()) {
	ch := make(chan dto.StatusUpdateMessage, 8)

	w.mu.Lock()
	w.watchers[orderNumber] = append(w.watchers[orderNumber], ch)
	w.mu.Unlock()

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		subs := w.watchers[orderNumber]
		for i, sub := range subs {
			if sub == ch {
				w.watchers[orderNumber] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(w.watchers[orderNumber]) == 0 {
			delete(w.watchers, orderNumber)
		}
	}
	return ch, cancel
}

// Notify delivers an update to every watcher of its order. Slow watchers are
// skipped rather than blocking the consume loop.
func (w *Watchers) Notify(msg dto.StatusUpdateMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.watchers[msg.OrderNumber] {
		select {
		case ch <- msg:
		default:
		}
	}
}
