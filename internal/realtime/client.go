package realtime

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/gommon/log"

	"chatrelay/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// ClientState tracks a connection through its lifecycle.
type ClientState int

const (
	StateConnected ClientState = iota
	StateSubscribed
	StateClosed
)

// Client is one live websocket connection. It is owned by the hub for its
// lifetime and never persisted.
type Client struct {
	id        string
	addr      string
	conn      *websocket.Conn
	hub       *Hub
	publisher Publisher
	send      chan []byte
	limiter   *rateLimiter

	mu       sync.Mutex
	state    ClientState
	group    string
	identity string
}

func newClient(conn *websocket.Conn, hub *Hub, publisher Publisher) *Client {
	addr := ""
	if conn != nil {
		addr = conn.RemoteAddr().String()
		conn.SetReadLimit(hub.maxFrameSize)
	}
	return &Client{
		id:        model.CreateID(),
		addr:      addr,
		conn:      conn,
		hub:       hub,
		publisher: publisher,
		send:      make(chan []byte, hub.sendBuffer),
		limiter:   newRateLimiter(hub.rateBurst, hub.rateInterval),
		state:     StateConnected,
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) State() ClientState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Identity returns the optional wallet/sender identifier recorded at
// subscribe time.
func (c *Client) Identity() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

func (c *Client) setSubscription(group, identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return
	}
	c.state = StateSubscribed
	c.group = group
	c.identity = identity
}

func (c *Client) setClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateClosed
}

func (c *Client) isSubscribedTo(group string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateSubscribed && c.group == group
}

func (c *Client) subscription() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.group, c.state == StateSubscribed
}

// queue hands a payload to the write pump without blocking. Used for
// server-initiated frames; fan-out goes through the hub's safeSend.
func (c *Client) queue(payload []byte) {
	select {
	case c.send <- payload:
	default:
		log.Warnf("client %s: dropping server frame, send buffer full", c.id)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c.id)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				log.Warnf("client %s: read error: %v", c.id, err)
			}
			return
		}

		if c.limiter != nil && !c.limiter.allow() {
			log.Warnf("client %s: rate limit exceeded, frame discarded", c.id)
			continue
		}

		c.handleFrame(raw)
	}
}

// handleFrame dispatches one inbound frame by type. A malformed or unknown
// frame is dropped and logged; it never terminates the session.
func (c *Client) handleFrame(raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		log.Warnf("client %s: dropping malformed frame: %v", c.id, err)
		return
	}

	switch frame.Type {
	case FrameTypeSubscribe:
		if strings.TrimSpace(frame.Group) == "" {
			log.Warnf("client %s: dropping subscribe with empty group", c.id)
			return
		}
		c.hub.Subscribe(c.id, frame.Group, frame.WalletAddress)

	case FrameTypeMessage:
		intent := &model.MessageIntent{
			Group:    frame.Group,
			Text:     frame.Text,
			Sender:   frame.Sender,
			SenderID: frame.SenderID,
		}
		if _, err := c.publisher.Publish(intent); err != nil {
			log.Errorf("client %s: publish failed: %v", c.id, err)
		}

	default:
		log.Warnf("client %s: dropping frame with unknown type %q", c.id, frame.Type)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
