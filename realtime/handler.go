// realtime/handler.go - WebSocket Endpoint
package realtime

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"studyhub/middleware"
	"studyhub/utils"
)

const (
	groupTopicPrefix   = "/topic/group/"
	chatSendPrefix     = "/app/chat/"
	notificationsQueue = "/queue/notifications"
)

// Handler upgrades authenticated HTTP requests to WebSocket sessions and
// drives the per-connection read loop. It is a pure net/http handler so
// the WebSocket listener can run on its own port.
type Handler struct {
	hub   *Hub
	relay *ChatRelay
}

func NewHandler(hub *Hub, relay *ChatRelay) *Handler {
	return &Handler{hub: hub, relay: relay}
}

// ServeHTTP authenticates the handshake, upgrades, and runs the session.
// Authentication failures are refused with 401 before any upgrade, so an
// unauthenticated client never holds a socket.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tokenString := handshakeToken(r)
	if tokenString == "" {
		_ = utils.JSONError(w, http.StatusUnauthorized, "missing token")
		return
	}

	identity, reason, ok := middleware.ValidateToken(tokenString)
	if !ok {
		log.Printf("❌ WebSocket handshake rejected: %s", reason)
		_ = utils.JSONError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // TODO: restrict origins once the frontend host is fixed
	})
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed for user %d: %v", identity.UserID, err)
		return
	}

	clientCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := NewClient(clientCtx, uuid.NewString(), identity.UserID, identity.Email, identity.Name, jsonConn{conn})
	h.hub.Register(client)

	log.Printf("🔌 WebSocket connected: user %d (%s), client %s", identity.UserID, identity.Email, client.ID)

	client.trySend(Message{Type: "connected", Payload: map[string]interface{}{
		"client_id": client.ID,
		"user_id":   identity.UserID,
	}})

	go client.writePump(h.hub)

	h.readPump(client, identity)

	h.hub.Unregister(client)
	log.Printf("🔌 WebSocket disconnected: user %d, client %s", identity.UserID, client.ID)
}

// handshakeToken pulls the JWT from the Authorization header, falling
// back to the token query parameter for browser WebSocket clients that
// cannot set headers.
func handshakeToken(r *http.Request) string {
	if token := middleware.BearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}

// readPump consumes inbound frames until the connection drops. Malformed
// frames answer with an error message; only read failures end the loop.
func (h *Handler) readPump(client *Client, identity middleware.Identity) {
	for {
		msg, err := client.conn.Read(client.ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				log.Printf("WebSocket read ended for client %s: %v", client.ID, err)
			}
			return
		}

		h.dispatch(client, identity, msg)
	}
}

func (h *Handler) dispatch(client *Client, identity middleware.Identity, msg Message) {
	switch msg.Type {
	case "subscribe":
		h.handleSubscribe(client, msg.Payload)
	case "unsubscribe":
		h.handleUnsubscribe(client, msg.Payload)
	case "send":
		h.handleSend(client, identity, msg.Payload)
	case "ping":
		client.trySend(Message{Type: "pong", Payload: map[string]interface{}{}})
	default:
		client.trySend(errorMessage("unknown message type: " + msg.Type))
	}
}

func (h *Handler) handleSubscribe(client *Client, payload interface{}) {
	destination := payloadString(payload, "destination")

	// The notification queue needs no registration: delivery is keyed on
	// the authenticated user, not on a subscription.
	if destination == notificationsQueue {
		client.trySend(Message{Type: "subscribed", Payload: map[string]interface{}{
			"destination": destination,
		}})
		return
	}

	groupID, ok := groupIDFromDestination(destination, groupTopicPrefix)
	if !ok {
		client.trySend(errorMessage("invalid destination: " + destination))
		return
	}

	h.hub.Subscribe(client, groupID)
	client.trySend(Message{Type: "subscribed", Payload: map[string]interface{}{
		"destination": destination,
		"group_id":    groupID,
	}})
}

func (h *Handler) handleUnsubscribe(client *Client, payload interface{}) {
	destination := payloadString(payload, "destination")
	if destination == notificationsQueue {
		return
	}

	groupID, ok := groupIDFromDestination(destination, groupTopicPrefix)
	if !ok {
		client.trySend(errorMessage("invalid destination: " + destination))
		return
	}

	h.hub.Unsubscribe(client, groupID)
}

func (h *Handler) handleSend(client *Client, identity middleware.Identity, payload interface{}) {
	destination := payloadString(payload, "destination")
	groupID, ok := groupIDFromDestination(destination, chatSendPrefix)
	if !ok {
		client.trySend(errorMessage("invalid destination: " + destination))
		return
	}

	inbound := InboundChat{
		Content: payloadString(payload, "content"),
		Type:    payloadString(payload, "type"),
	}

	if _, err := h.relay.Relay(groupID, identity, inbound); err != nil {
		client.trySend(errorMessage(err.Error()))
	}
}

// groupIDFromDestination parses destinations like /topic/group/42 and
// /app/chat/42 into a group ID.
func groupIDFromDestination(destination, prefix string) (uint, bool) {
	if !strings.HasPrefix(destination, prefix) {
		return 0, false
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(destination, prefix), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func payloadString(payload interface{}, key string) string {
	data, ok := payload.(map[string]interface{})
	if !ok {
		return ""
	}
	value, _ := data[key].(string)
	return value
}

func errorMessage(detail string) Message {
	return Message{Type: "error", Payload: map[string]interface{}{"error": detail}}
}

// jsonConn adapts a nhooyr connection to the Conn interface with JSON
// framing.
type jsonConn struct {
	ws *websocket.Conn
}

func (c jsonConn) Read(ctx context.Context) (Message, error) {
	var msg Message
	err := wsjson.Read(ctx, c.ws, &msg)
	return msg, err
}

func (c jsonConn) Write(ctx context.Context, msg Message) error {
	return wsjson.Write(ctx, c.ws, msg)
}

func (c jsonConn) Ping(ctx context.Context) error {
	return c.ws.Ping(ctx)
}

func (c jsonConn) Close(code websocket.StatusCode, reason string) error {
	return c.ws.Close(code, reason)
}
