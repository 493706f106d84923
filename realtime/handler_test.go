package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"studyhub/models"
)

const testSecret = "test-secret-0123456789-0123456789-ok"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newWSServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)

	db := newTestDB(t)
	hub := NewHub()
	server := httptest.NewServer(NewHandler(hub, NewChatRelay(db, hub)))
	t.Cleanup(server.Close)
	return server, hub
}

func TestHandshakeRejectsMissingToken(t *testing.T) {
	server, hub := newWSServer(t)

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, hub.ConnectionsForUser(1))
}

func TestHandshakeRejectsGarbageToken(t *testing.T) {
	server, hub := newWSServer(t)

	resp, err := http.Get(server.URL + "?token=not-a-jwt")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, hub.ConnectionsForUser(1))
}

func TestHandshakeRejectsExpiredToken(t *testing.T) {
	server, hub := newWSServer(t)

	expired := signToken(t, jwt.MapClaims{
		"user_id": 1,
		"email":   "old@example.com",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	resp, err := http.Get(server.URL + "?token=" + expired)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, hub.ConnectionsForUser(1))
}

func TestAuthenticatedSessionSubscribeAndChat(t *testing.T) {
	server, hub := newWSServer(t)

	token := signToken(t, jwt.MapClaims{
		"user_id": 42,
		"email":   "live@example.com",
		"name":    "Live User",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, server.URL+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var msg Message
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, "connected", msg.Type)
	assert.Equal(t, 1, hub.ConnectionsForUser(42))

	require.NoError(t, wsjson.Write(ctx, conn, Message{
		Type:    "subscribe",
		Payload: map[string]interface{}{"destination": "/topic/group/7"},
	}))
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, "subscribed", msg.Type)

	require.NoError(t, wsjson.Write(ctx, conn, Message{
		Type: "send",
		Payload: map[string]interface{}{
			"destination": "/app/chat/7",
			"content":     "hello over the wire",
		},
	}))

	// Being subscribed to the topic, the sender receives its own message.
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, "chat", msg.Type)
	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hello over the wire", payload["content"])
	assert.Equal(t, string(models.MessageTypeChat), payload["type"])
}

func TestPingAnswersPong(t *testing.T) {
	server, _ := newWSServer(t)

	token := signToken(t, jwt.MapClaims{
		"user_id": 8,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, server.URL+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var msg Message
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	require.Equal(t, "connected", msg.Type)

	require.NoError(t, wsjson.Write(ctx, conn, Message{Type: "ping"}))
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, "pong", msg.Type)
}

func TestInvalidDestinationAnswersError(t *testing.T) {
	server, _ := newWSServer(t)

	token := signToken(t, jwt.MapClaims{
		"user_id": 9,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, server.URL+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var msg Message
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	require.Equal(t, "connected", msg.Type)

	require.NoError(t, wsjson.Write(ctx, conn, Message{
		Type:    "subscribe",
		Payload: map[string]interface{}{"destination": "/topic/elsewhere"},
	}))
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, "error", msg.Type)
}
