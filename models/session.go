// models/session.go
package models

import "time"

// StudySession is a scheduled meeting inside a group.
type StudySession struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GroupID     uint      `gorm:"not null;index" json:"group_id"`
	Topic       string    `gorm:"not null;size:200" json:"topic"`
	Description string    `gorm:"type:text" json:"description"`
	StartTime   time.Time `gorm:"index" json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    string    `gorm:"size:200" json:"location"`
	CreatedBy   uint      `gorm:"not null;index" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Participants []SessionParticipant `gorm:"foreignKey:SessionID" json:"participants,omitempty"`
}

// SessionParticipant links a user to a session they joined.
type SessionParticipant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;uniqueIndex:idx_session_participant" json:"session_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_session_participant" json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

func (SessionParticipant) TableName() string {
	return "session_participants"
}
