package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is the wire form of a challenge notification, the equivalent of the
// contract events the original UI subscribed to for toasts and refetches.
type Event struct {
	Type             string         `json:"type"`
	ChallengeAddress string         `json:"challenge_address"`
	Actor            string         `json:"actor"`
	Payload          map[string]any `json:"payload,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Hub fans events out to websocket subscribers. Slow subscribers drop
// events rather than block the publisher; the durable log lives in the
// challenge_events table.
type Hub struct {
	Logger *zap.Logger
	Buf    int

	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewHub(buf int, logger *zap.Logger) *Hub {
	if buf <= 0 {
		buf = 64
	}
	return &Hub{
		Logger: logger,
		Buf:    buf,
		subs:   make(map[chan Event]struct{}),
	}
}

func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.Buf)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
			if h.Logger != nil {
				h.Logger.Debug("event dropped for slow subscriber",
					zap.String("type", evt.Type),
					zap.String("challenge", evt.ChallengeAddress),
				)
			}
		}
	}
}

func (h *Hub) SubscriberCount() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
