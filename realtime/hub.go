// realtime/hub.go - Live Connection Registry
package realtime

import (
	"log"
	"sync"
)

// shardCount bounds lock contention: unrelated users/groups land on
// different shards with high probability.
const shardCount = 16

type connShard struct {
	mu    sync.RWMutex
	conns map[uint]map[*Client]struct{}
}

// Hub maps user ids and group topics to live client connections. It is an
// injected, lifecycle-scoped component: construct one per process (or per
// test) rather than sharing static state.
type Hub struct {
	users  [shardCount]*connShard
	groups [shardCount]*connShard
}

func NewHub() *Hub {
	h := &Hub{}
	for i := 0; i < shardCount; i++ {
		h.users[i] = &connShard{conns: make(map[uint]map[*Client]struct{})}
		h.groups[i] = &connShard{conns: make(map[uint]map[*Client]struct{})}
	}
	return h
}

func (h *Hub) userShard(userID uint) *connShard {
	return h.users[userID%shardCount]
}

func (h *Hub) groupShard(groupID uint) *connShard {
	return h.groups[groupID%shardCount]
}

// Register adds a live connection for a user. A user may hold any number
// of simultaneous connections (multiple devices).
func (h *Hub) Register(c *Client) {
	shard := h.userShard(c.UserID)
	shard.mu.Lock()
	if shard.conns[c.UserID] == nil {
		shard.conns[c.UserID] = make(map[*Client]struct{})
	}
	shard.conns[c.UserID][c] = struct{}{}
	shard.mu.Unlock()

	log.Printf("🔌 Connection registered: user %d (session %s)", c.UserID, c.ID)
}

// Unregister removes a connection and all its group subscriptions.
// Idempotent: unregistering an already-removed connection is a no-op.
func (h *Hub) Unregister(c *Client) {
	shard := h.userShard(c.UserID)
	shard.mu.Lock()
	if set, ok := shard.conns[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(shard.conns, c.UserID)
		}
	}
	shard.mu.Unlock()

	for _, groupID := range c.subscriptions() {
		h.unsubscribe(c, groupID)
	}
	c.close()
}

// Subscribe adds the connection to a group's chat topic.
func (h *Hub) Subscribe(c *Client, groupID uint) {
	shard := h.groupShard(groupID)
	shard.mu.Lock()
	if shard.conns[groupID] == nil {
		shard.conns[groupID] = make(map[*Client]struct{})
	}
	shard.conns[groupID][c] = struct{}{}
	shard.mu.Unlock()

	c.addSubscription(groupID)
}

// Unsubscribe removes the connection from a group's chat topic.
func (h *Hub) Unsubscribe(c *Client, groupID uint) {
	h.unsubscribe(c, groupID)
	c.removeSubscription(groupID)
}

func (h *Hub) unsubscribe(c *Client, groupID uint) {
	shard := h.groupShard(groupID)
	shard.mu.Lock()
	if set, ok := shard.conns[groupID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(shard.conns, groupID)
		}
	}
	shard.mu.Unlock()
}

// SendToUser pushes a payload to every live connection of a user and
// returns the number of deliveries attempted. 0 means the user is
// offline, which is the expected case, not an error.
func (h *Hub) SendToUser(userID uint, payload interface{}) int {
	shard := h.userShard(userID)
	shard.mu.RLock()
	clients := make([]*Client, 0, len(shard.conns[userID]))
	for c := range shard.conns[userID] {
		clients = append(clients, c)
	}
	shard.mu.RUnlock()

	delivered := 0
	for _, c := range clients {
		if c.trySend(Message{Type: "notification", Payload: payload}) {
			delivered++
		} else {
			// Backed-up connection: drop it rather than stall others.
			h.Unregister(c)
		}
	}
	return delivered
}

// SendToGroupTopic fans a message out to every connection subscribed to
// the group's chat topic. A failing connection is unregistered without
// aborting delivery to the rest.
func (h *Hub) SendToGroupTopic(groupID uint, msg Message) {
	shard := h.groupShard(groupID)
	shard.mu.RLock()
	clients := make([]*Client, 0, len(shard.conns[groupID]))
	for c := range shard.conns[groupID] {
		clients = append(clients, c)
	}
	shard.mu.RUnlock()

	for _, c := range clients {
		if !c.trySend(msg) {
			h.Unregister(c)
		}
	}
}

// ConnectionsForUser returns how many live connections a user has.
func (h *Hub) ConnectionsForUser(userID uint) int {
	shard := h.userShard(userID)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	return len(shard.conns[userID])
}

// TopicSubscribers returns how many connections are subscribed to a group
// topic.
func (h *Hub) TopicSubscribers(groupID uint) int {
	shard := h.groupShard(groupID)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	return len(shard.conns[groupID])
}
