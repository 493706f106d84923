// models/group.go
package models

import "time"

// StudyGroup is the membership aggregate. Sessions, chat and file sharing
// all hang off a group.
type StudyGroup struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;size:100" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Members []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

// GroupMember links a user to a group; one row per membership.
type GroupMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	GroupID  uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"group_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (StudyGroup) TableName() string {
	return "study_groups"
}

func (GroupMember) TableName() string {
	return "group_members"
}
