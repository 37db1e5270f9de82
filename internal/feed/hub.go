// Package feed pushes complaint events to connected dashboards. A single
// Hub goroutine owns the client set; events reach it either directly or
// through the Redis channel shared by every API instance.
package feed

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/metrics"
	"complaintdesk/backend/internal/models"
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Hub struct {
	mu      sync.RWMutex
	clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventsCh     chan models.ComplaintEvent

	done chan struct{}
	log  *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventsCh:     make(chan models.ComplaintEvent, 64),
		done:         make(chan struct{}),
		log:          log,
	}
}

// Run dispatches until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		for id, c := range h.clients {
			c.Close()
			delete(h.clients, id)
		}
		h.mu.Unlock()
		metrics.FeedClients.Set(0)
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.RegisterCh:
			h.mu.Lock()
			h.clients[c.GetClientID()] = c
			h.mu.Unlock()
			metrics.FeedClients.Inc()
			h.log.Debug("feed client registered",
				zap.String("client_id", c.GetClientID()),
				zap.String("role", string(c.GetViewer().Role)),
			)
		case c := <-h.UnregisterCh:
			h.remove(c.GetClientID())
		case ev := <-h.EventsCh:
			h.deliver(ev)
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} { return h.done }

// ClientCount reports the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Unregister asks the hub to drop c. It does not block after the hub has stopped.
func (h *Hub) Unregister(c Client) {
	select {
	case h.UnregisterCh <- c:
	case <-h.done:
	}
}

// NotifyComplaintEvent queues an event for delivery. It is used when no
// Redis channel relays events.
func (h *Hub) NotifyComplaintEvent(ctx context.Context, event models.ComplaintEvent) error {
	select {
	case h.EventsCh <- event:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListenRedis relays events published on the shared channel into the hub
// until ctx is cancelled or the subscription closes.
func (h *Hub) ListenRedis(ctx context.Context, ps *redis.PubSub) {
	defer ps.Close()
	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev models.ComplaintEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				h.log.Warn("dropping malformed complaint event", zap.Error(err))
				continue
			}
			if err := h.NotifyComplaintEvent(ctx, ev); err != nil {
				return
			}
		}
	}
}

// deliver sends ev to every client allowed to see the complaint. A client
// whose buffer is full is dropped.
func (h *Hub) deliver(ev models.ComplaintEvent) {
	h.mu.RLock()
	var slow []string
	for id, c := range h.clients {
		ok, err := analysis.CanSee(c.GetViewer(), ev.UserID, ev.AssignedToAgencyID)
		if err != nil || !ok {
			continue
		}
		select {
		case c.GetSendChannel() <- ev:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.log.Warn("dropping slow feed client", zap.String("client_id", id))
		h.remove(id)
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	c.Close()
	metrics.FeedClients.Dec()
}
