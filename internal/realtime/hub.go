// Package realtime tracks live websocket connections and their group
// subscriptions, and fans published messages out to them. Connection state
// is process-lifetime only; nothing here is persisted.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/gommon/log"
	"github.com/samber/lo"

	"chatrelay/internal/boot"
	"chatrelay/internal/model"
)

// Hub is the registry of live clients. All methods are safe for concurrent
// use from independent connection lifecycles.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	wg      sync.WaitGroup

	sendBuffer   int
	maxFrameSize int64
	rateBurst    int
	rateInterval time.Duration
}

func NewHub(config *boot.Config) *Hub {
	return &Hub{
		clients:      make(map[string]*Client),
		sendBuffer:   config.Realtime.SendBufferSize,
		maxFrameSize: config.Realtime.MaxFrameSize,
		rateBurst:    config.Realtime.RateBurst,
		rateInterval: config.Realtime.RateInterval,
	}
}

// Register allocates an id for a newly accepted connection, queues the
// connection ack frame and starts the read/write pumps. Inbound message
// frames are handed to the publisher.
func (h *Hub) Register(conn *websocket.Conn, publisher Publisher) *Client {
	client := newClient(conn, h, publisher)
	h.add(client)

	client.queue(connectionAck(client.id, time.Now()))

	if conn != nil {
		h.wg.Add(2)
		go func() {
			defer h.wg.Done()
			client.writePump()
		}()
		go func() {
			defer h.wg.Done()
			client.readPump()
		}()
	}
	return client
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	count := len(h.clients)
	h.mu.Unlock()
	log.Infof("client %s connected from %s, %d total", client.id, client.addr, count)
}

// Subscribe transitions the client to SUBSCRIBED and records its group and
// identity. Re-subscribing overwrites both. An unknown id is a silent
// no-op: the connection may already have closed.
func (h *Hub) Subscribe(id, group, identity string) {
	h.mu.RLock()
	client, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return
	}
	client.setSubscription(group, identity)
	log.Infof("client %s subscribed to group %q", id, group)
}

// Unregister removes the client and closes its send channel. Idempotent.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	client, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	client.setClosed()
	// The channel is closed only here, after removal from the map, so no
	// sender can still reach it through the registry.
	close(client.send)
	log.Infof("client %s disconnected, %d total", id, count)
}

// MembersOf returns a point-in-time snapshot of the live, subscribed
// clients of the group.
func (h *Hub) MembersOf(group string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]*Client, 0)
	for _, client := range h.clients {
		if client.isSubscribedTo(group) {
			members = append(members, client)
		}
	}
	return members
}

// Broadcast pushes the payload to every live subscriber of the group. A
// recipient whose send buffer is full is dropped and disconnected rather
// than allowed to stall its siblings.
func (h *Hub) Broadcast(group string, payload []byte) {
	var failed []*Client
	for _, client := range h.MembersOf(group) {
		if !h.safeSend(client, payload) {
			failed = append(failed, client)
		}
	}

	for _, client := range failed {
		log.Warnf("client %s dropped: send buffer full", client.id)
		h.Unregister(client.id)
		if client.conn != nil {
			client.conn.Close()
		}
	}
}

// safeSend queues the payload without blocking. The registry lock is held
// across the membership check and the send so the channel cannot be closed
// in between.
func (h *Hub) safeSend(client *Client, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[client.id]; !ok {
		return false
	}
	select {
	case client.send <- payload:
		return true
	default:
		return false
	}
}

// Stats reports the live connection count and the distinct subscribed group
// names, for diagnostics.
func (h *Hub) Stats() (int, []string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	groups := make([]string, 0)
	for _, client := range h.clients {
		if group, ok := client.subscription(); ok {
			groups = append(groups, group)
		}
	}
	return len(h.clients), lo.Uniq(groups)
}

// Shutdown closes every client connection and waits for the pumps to
// finish, or until the timeout elapses.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if client.conn != nil {
			client.conn.Close()
		}
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Infof("hub shutdown complete, closed %d connections", len(clients))
		return nil
	case <-time.After(timeout):
		log.Warnf("hub shutdown timed out")
		return context.DeadlineExceeded
	}
}

// Publisher turns an inbound message intent into a durable, fanned-out
// message.
type Publisher interface {
	Publish(intent *model.MessageIntent) (*model.Message, error)
}
