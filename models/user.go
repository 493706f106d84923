// models/user.go
package models

import (
	"time"
)

type User struct {
	ID                   uint   `gorm:"primaryKey" json:"id"`
	Name                 string `gorm:"not null" json:"name"`
	Email                string `gorm:"uniqueIndex;not null" json:"email"`
	Password             string `gorm:"not null" json:"-"`
	NotificationsEnabled bool   `gorm:"default:true" json:"notifications_enabled"`
	ProfilePictureURL    string `json:"profile_picture_url"`
	StudyInterests       string `gorm:"type:text" json:"study_interests"` // JSON-encoded string array

	// Action counters, one per tracked action type. Mutated only by
	// CounterService.Increment; never decremented.
	SessionsCreatedCount int `gorm:"default:0" json:"sessions_created_count"`
	GroupsCreatedCount   int `gorm:"default:0" json:"groups_created_count"`
	SessionsJoinedCount  int `gorm:"default:0" json:"sessions_joined_count"`
	FilesUploadedCount   int `gorm:"default:0" json:"files_uploaded_count"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`

	// Relationships
	Achievements []UserAchievement `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
}

func (User) TableName() string {
	return "users"
}
