// models/chat.go
package models

import "time"

// Chat message types. CHAT is the default; JOIN/LEAVE are presence markers
// a client may set explicitly.
const (
	MessageTypeChat  = "CHAT"
	MessageTypeJoin  = "JOIN"
	MessageTypeLeave = "LEAVE"
)

// ValidMessageType reports whether t is an accepted chat message type.
func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeChat, MessageTypeJoin, MessageTypeLeave:
		return true
	}
	return false
}

// ChatMessage is an append-only group chat record, ordered by Timestamp
// ascending within a group.
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GroupID    uint      `gorm:"not null;index" json:"group_id"`
	SenderID   uint      `gorm:"not null" json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `gorm:"type:text" json:"content"`
	Type       string    `gorm:"size:20;default:'CHAT'" json:"type"`
	Timestamp  time.Time `gorm:"index" json:"timestamp"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
