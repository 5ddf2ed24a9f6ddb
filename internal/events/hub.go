// Package events is an in-process fan-out of entity mutations. Handlers
// publish after a successful write; websocket subscribers receive the events
// for their own tenant. Delivery is fire-and-forget — a slow subscriber is
// dropped rather than allowed to back-pressure the request path.
package events

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event describes one committed mutation.
type Event struct {
	Entity string    `json:"entity"`
	Action string    `json:"action"`
	ID     uuid.UUID `json:"id"`
	// OwnerID routes the event; subscribers only ever see their own
	// tenant's mutations, mirroring the store's ownership isolation.
	OwnerID uuid.UUID `json:"-"`
}

// Mutation actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

const subscriberBuffer = 16

type Hub struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]map[chan Event]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[uuid.UUID]map[chan Event]struct{}),
		logger: logger,
	}
}

// Subscribe registers a listener for one owner's events. The returned cancel
// must be called when the listener goes away; it closes the channel.
func (h *Hub) Subscribe(ownerID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[ownerID] == nil {
		h.subs[ownerID] = make(map[chan Event]struct{})
	}
	h.subs[ownerID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[ownerID]; ok {
			if _, still := set[ch]; still {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, ownerID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers e to every subscriber of its owner. Full buffers are
// skipped; the subscriber that fell behind misses the event and catches up
// on its next full fetch.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[e.OwnerID] {
		select {
		case ch <- e:
		default:
			h.logger.Debug("event dropped for slow subscriber",
				zap.String("entity", e.Entity),
				zap.String("action", e.Action),
			)
		}
	}
}
