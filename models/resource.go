// models/resource.go
package models

import "time"

// StudyResource records metadata for a file shared in a group. Binary
// content lives in an external store keyed by StorageKey.
type StudyResource struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GroupID     uint      `gorm:"not null;index" json:"group_id"`
	FileName    string    `gorm:"not null;size:255" json:"file_name"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	Size        int64     `gorm:"default:0" json:"size"`
	StorageKey  string    `gorm:"size:255" json:"storage_key"`
	UploadedBy  uint      `gorm:"not null;index" json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func (StudyResource) TableName() string {
	return "study_resources"
}
