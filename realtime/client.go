// realtime/client.go - Per-Connection Session State
package realtime

import (
	"context"
	"log"
	"sync"
	"time"

	"nhooyr.io/websocket"
)

const (
	// writeWait bounds a single write so one slow peer cannot stall
	// fan-out to others.
	writeWait = 10 * time.Second
	// pingPeriod keeps idle connections alive.
	pingPeriod = 15 * time.Second

	sendBufferSize = 256
)

// Message is the framing for everything on the wire, both directions.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Conn abstracts the underlying websocket so the hub and pumps can be
// exercised without a network socket.
type Conn interface {
	Read(ctx context.Context) (Message, error)
	Write(ctx context.Context, msg Message) error
	Ping(ctx context.Context) error
	Close(code websocket.StatusCode, reason string) error
}

// Client binds one authenticated connection to a user identity plus the
// group topics it subscribed to. Ephemeral: destroyed on disconnect.
type Client struct {
	ID     string
	UserID uint
	Email  string
	Name   string

	conn Conn
	send chan Message

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	subs map[uint]struct{}

	closeOnce sync.Once
}

// NewClient wraps a connection for the given identity. The context bounds
// the connection's lifetime; cancelling it stops both pumps.
func NewClient(ctx context.Context, id string, userID uint, email, name string, conn Conn) *Client {
	clientCtx, cancel := context.WithCancel(ctx)
	return &Client{
		ID:     id,
		UserID: userID,
		Email:  email,
		Name:   name,
		conn:   conn,
		send:   make(chan Message, sendBufferSize),
		ctx:    clientCtx,
		cancel: cancel,
		subs:   make(map[uint]struct{}),
	}
}

// trySend queues a message without blocking. A full buffer means the peer
// is not draining; the caller treats that as a failed delivery.
func (c *Client) trySend(msg Message) bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		log.Printf("⚠️ Send buffer full for user %d (session %s), dropping message type %s", c.UserID, c.ID, msg.Type)
		return false
	}
}

// writePump drains the send queue onto the socket. Runs in its own
// goroutine; exits on write error, ping failure, or context cancel. The
// hub unregisters the client on exit.
func (c *Client) writePump(hub *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		hub.Unregister(c)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Write(writeCtx, msg)
			cancel()

			if err != nil {
				log.Printf("❌ Write failed for user %d (session %s): %v", c.UserID, c.ID, err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()

			if err != nil {
				log.Printf("❌ Ping failed for user %d (session %s): %v", c.UserID, c.ID, err)
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
	})
}

func (c *Client) addSubscription(groupID uint) {
	c.mu.Lock()
	c.subs[groupID] = struct{}{}
	c.mu.Unlock()
}

func (c *Client) removeSubscription(groupID uint) {
	c.mu.Lock()
	delete(c.subs, groupID)
	c.mu.Unlock()
}

func (c *Client) subscriptions() []uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]uint, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	return ids
}
