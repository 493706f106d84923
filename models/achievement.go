// models/achievement.go
package models

import "time"

// ActionType enumerates the user behaviors tracked for achievements.
type ActionType string

const (
	ActionSessionCreated ActionType = "SESSION_CREATED"
	ActionGroupCreated   ActionType = "GROUP_CREATED"
	ActionSessionJoined  ActionType = "SESSION_JOINED"
	ActionFileUploaded   ActionType = "FILE_UPLOADED"
)

// ActionTypes lists every tracked action, in catalog seeding order.
var ActionTypes = []ActionType{
	ActionSessionCreated,
	ActionGroupCreated,
	ActionSessionJoined,
	ActionFileUploaded,
}

// Valid reports whether t is one of the tracked action types.
func (t ActionType) Valid() bool {
	switch t {
	case ActionSessionCreated, ActionGroupCreated, ActionSessionJoined, ActionFileUploaded:
		return true
	}
	return false
}

// Achievement is a catalog definition: crossing Threshold on ActionType
// earns it. Immutable after seeding; at most one definition per
// (action_type, threshold) pair.
type Achievement struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ActionType  ActionType `gorm:"not null;size:50;uniqueIndex:idx_achievements_action_threshold" json:"action_type"`
	Threshold   int        `gorm:"not null;uniqueIndex:idx_achievements_action_threshold" json:"threshold"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `gorm:"not null" json:"description"`
	Icon        string     `json:"icon"`

	CreatedAt time.Time `json:"created_at"`
}

// UserAchievement links a user to an earned achievement. The unique index
// on (user_id, achievement_id) is the idempotency anchor for awarding.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`

	// Relationships
	User        User        `gorm:"foreignKey:UserID" json:"-"`
	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (Achievement) TableName() string {
	return "achievements"
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
