// realtime/chat.go - Group Chat Relay
package realtime

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"studyhub/middleware"
	"studyhub/models"
)

// ErrInvalidChatMessage marks a malformed inbound chat payload; the
// message is neither persisted nor fanned out.
var ErrInvalidChatMessage = errors.New("invalid chat message")

// InboundChat is the client-supplied part of a chat message. Everything
// else (sender, timestamp) is stamped server-side.
type InboundChat struct {
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

// ChatRelay persists inbound group chat and fans it out to the group's
// topic subscribers. Persistence happens before fan-out, so a client
// reconnecting right after a message can always find it in history.
type ChatRelay struct {
	db  *gorm.DB
	hub *Hub
}

func NewChatRelay(db *gorm.DB, hub *Hub) *ChatRelay {
	return &ChatRelay{db: db, hub: hub}
}

// Relay stamps, stores, and broadcasts one chat message. A missing sender
// identity is a logged no-op: the transport already refused
// unauthenticated connections, so there is no caller to report to.
// Fan-out failure never rolls back the stored message.
func (r *ChatRelay) Relay(groupID uint, sender middleware.Identity, in InboundChat) (*models.ChatMessage, error) {
	if sender.UserID == 0 {
		log.Printf("⚠️ Chat relay dropped message for group %d: no sender identity", groupID)
		return nil, nil
	}
	if groupID == 0 {
		return nil, fmt.Errorf("%w: missing group id", ErrInvalidChatMessage)
	}
	if in.Content == "" {
		return nil, fmt.Errorf("%w: empty content", ErrInvalidChatMessage)
	}

	messageType := models.MessageTypeChat
	if in.Type != "" && models.ValidMessageType(in.Type) {
		messageType = in.Type
	}

	message := &models.ChatMessage{
		GroupID:    groupID,
		SenderID:   sender.UserID,
		SenderName: r.displayName(sender),
		Content:    in.Content,
		Type:       messageType,
		Timestamp:  time.Now(),
	}

	if err := r.db.Create(message).Error; err != nil {
		return nil, fmt.Errorf("store chat message: %w", err)
	}

	r.hub.SendToGroupTopic(groupID, Message{
		Type: "chat",
		Payload: map[string]interface{}{
			"group_id":    message.GroupID,
			"sender_id":   message.SenderID,
			"sender_name": message.SenderName,
			"content":     message.Content,
			"type":        message.Type,
			"timestamp":   message.Timestamp,
		},
	})

	return message, nil
}

// displayName resolves the sender's profile name, falling back to the
// identity itself. A missing profile never blocks the relay.
func (r *ChatRelay) displayName(sender middleware.Identity) string {
	var user models.User
	if err := r.db.Select("name").First(&user, sender.UserID).Error; err == nil && user.Name != "" {
		return user.Name
	}
	if sender.Name != "" {
		return sender.Name
	}
	return sender.Email
}

// History returns a group's chat messages in timestamp order, capped at
// limit (a non-positive limit means the default of 100).
func (r *ChatRelay) History(groupID uint, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var messages []models.ChatMessage
	err := r.db.Where("group_id = ?", groupID).
		Order("timestamp ASC, id ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
