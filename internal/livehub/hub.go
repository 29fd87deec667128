// Package livehub pushes notifications to connected browsers.
//
// Every API instance runs one Hub. The dispatcher publishes each stored
// notification to Redis; every hub receives it through a pattern
// subscription and forwards it to the sockets its user has open on that
// instance.
package livehub

import (
	"alumnihub/backend/internal/logging"
	"alumnihub/backend/internal/storage"
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Subscriber opens the Redis subscription the hub listens on.
type Subscriber interface {
	SubscribeNotifications(ctx context.Context) *redis.PubSub
}

type delivery struct {
	userID  string
	payload []byte
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[Client]struct{}

	registerCh   chan Client
	unregisterCh chan Client
	deliverCh    chan delivery
	done         chan struct{}

	sub Subscriber
	log *logging.Logger
}

// NewHub creates a hub. sub may be nil, in which case only Deliver feeds it.
func NewHub(sub Subscriber, log *logging.Logger) *Hub {
	return &Hub{
		clients:      make(map[string]map[Client]struct{}),
		registerCh:   make(chan Client),
		unregisterCh: make(chan Client),
		deliverCh:    make(chan delivery, 64),
		done:         make(chan struct{}),
		sub:          sub,
		log:          log.With("component", "livehub"),
	}
}

// Register adds c to the hub. It returns false once the hub has stopped.
func (h *Hub) Register(c Client) bool {
	select {
	case h.registerCh <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c and closes it.
func (h *Hub) Unregister(c Client) {
	select {
	case h.unregisterCh <- c:
	case <-h.done:
	}
}

// Deliver forwards payload to every connection of userID on this instance.
func (h *Hub) Deliver(userID string, payload []byte) {
	select {
	case h.deliverCh <- delivery{userID: userID, payload: payload}:
	case <-h.done:
	}
}

// ClientCount returns how many connections userID has open.
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Run serves the hub until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	if h.sub != nil {
		ps := h.sub.SubscribeNotifications(ctx)
		defer ps.Close()
		go h.listen(ctx, ps.Channel())
	}

	h.log.Info("live hub started")
	for {
		select {
		case c := <-h.registerCh:
			h.add(c)
		case c := <-h.unregisterCh:
			h.remove(c)
		case d := <-h.deliverCh:
			h.fanOut(d)
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			h.log.Info("live hub stopped")
			return
		}
	}
}

func (h *Hub) listen(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			userID, ok := storage.UserFromChannel(msg.Channel)
			if !ok {
				h.log.Warn("unexpected pubsub channel", "channel", msg.Channel)
				continue
			}
			h.Deliver(userID, []byte(msg.Payload))
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) add(c Client) {
	h.mu.Lock()
	set, ok := h.clients[c.UserID()]
	if !ok {
		set = make(map[Client]struct{})
		h.clients[c.UserID()] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("client registered", "user_id", c.UserID())
}

func (h *Hub) remove(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.UserID()]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID())
	}
	c.Close()
}

func (h *Hub) fanOut(d delivery) {
	h.mu.RLock()
	var slow []Client
	for c := range h.clients[d.userID] {
		select {
		case c.SendChannel() <- d.payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("dropping slow client", "user_id", d.userID)
		h.remove(c)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.clients {
		for c := range set {
			c.Close()
		}
		delete(h.clients, userID)
	}
}
