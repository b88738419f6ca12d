// Package realtime fans successful check-ins out to live dashboard
// subscribers, one topic per event. Delivery is best-effort: a subscriber
// that falls behind loses updates and is expected to resynchronize from the
// stats endpoint on reconnect.
package realtime

import (
	"log"
	"sync"

	"github.com/campusflow/ticketing/internal/dto"
)

const subscriptionBuffer = 16

type Subscription struct {
	EventID string
	C       chan dto.CheckInEvent
}

type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe joins the given event's topic. The caller owns the returned
// subscription and must Unsubscribe when done watching.
func (h *Hub) Subscribe(eventID string) *Subscription {
	sub := &Subscription{
		EventID: eventID,
		C:       make(chan dto.CheckInEvent, subscriptionBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[eventID] == nil {
		h.subs[eventID] = make(map[*Subscription]struct{})
	}
	h.subs[eventID][sub] = struct{}{}
	return sub
}

// Unsubscribe leaves the topic and closes the subscription channel. Safe to
// call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[sub.EventID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.EventID)
	}
	close(sub.C)
}

// NotifyCheckIn delivers one check-in to every subscriber currently joined
// to the event's topic. Subscribers on other topics see nothing. A full
// subscriber buffer drops the message rather than blocking redemption.
func (h *Hub) NotifyCheckIn(eventID string, evt dto.CheckInEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[eventID] {
		select {
		case sub.C <- evt:
		default:
			log.Printf("[Realtime] dropping check-in %s for slow subscriber on event %s", evt.ID, eventID)
		}
	}
	return nil
}

// SubscriberCount reports how many clients are watching an event.
func (h *Hub) SubscriberCount(eventID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[eventID])
}
