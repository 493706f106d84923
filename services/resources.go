// services/resources.go - Study Resource Metadata
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studyhub/models"
)

// maxResourceSize caps declared upload sizes at 50 MB.
const maxResourceSize = 50 << 20

// ResourceService tracks file metadata for study groups. The bytes
// themselves live in object storage under StorageKey; this service only
// owns the catalog rows.
type ResourceService struct {
	db            *gorm.DB
	groups        *GroupService
	notifications *NotificationService
}

func NewResourceService(db *gorm.DB, groups *GroupService, notifications *NotificationService) *ResourceService {
	return &ResourceService{db: db, groups: groups, notifications: notifications}
}

// Record registers an uploaded file for a group. Only members may
// upload. Other members get a notification; notification failures do
// not fail the upload.
func (s *ResourceService) Record(userID, groupID uint, fileName, contentType string, size int64) (*models.StudyResource, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if size < 0 || size > maxResourceSize {
		return nil, fmt.Errorf("%w: invalid file size", ErrValidation)
	}

	group, err := s.groups.GetGroup(groupID)
	if err != nil {
		return nil, err
	}

	if !s.groups.IsMember(groupID, userID) {
		return nil, fmt.Errorf("%w: only group members can upload resources", ErrForbidden)
	}

	resource := &models.StudyResource{
		GroupID:     groupID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		StorageKey:  fmt.Sprintf("groups/%d/%s/%s", groupID, uuid.NewString(), fileName),
		UploadedBy:  userID,
		UploadedAt:  time.Now(),
	}

	if err := s.db.Create(resource).Error; err != nil {
		return nil, fmt.Errorf("record resource: %w", err)
	}

	memberIDs, err := s.groups.MemberIDs(groupID)
	if err != nil {
		log.Printf("⚠️ Could not load members of group %d for resource notification: %v", groupID, err)
		return resource, nil
	}

	message := fmt.Sprintf("A new file '%s' was shared in your group: %s", fileName, group.Name)
	for _, memberID := range memberIDs {
		if memberID == userID {
			continue
		}
		if err := s.notifications.Notify(memberID, message); err != nil {
			log.Printf("⚠️ Resource notification failed for user %d: %v", memberID, err)
		}
	}

	return resource, nil
}

// ListByGroup returns a group's resources, newest first. Member-only.
func (s *ResourceService) ListByGroup(groupID, userID uint) ([]models.StudyResource, error) {
	if !s.groups.IsMember(groupID, userID) {
		return nil, fmt.Errorf("%w: only group members can list resources", ErrForbidden)
	}

	var resources []models.StudyResource
	err := s.db.Where("group_id = ?", groupID).
		Order("uploaded_at DESC").
		Find(&resources).Error
	return resources, err
}

// Delete removes a resource row. Allowed for the uploader or the group
// owner.
func (s *ResourceService) Delete(resourceID, userID uint) error {
	var resource models.StudyResource
	if err := s.db.First(&resource, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: resource %d", ErrNotFound, resourceID)
		}
		return err
	}

	if resource.UploadedBy != userID {
		group, err := s.groups.GetGroup(resource.GroupID)
		if err != nil {
			return err
		}
		if group.OwnerID != userID {
			return fmt.Errorf("%w: only the uploader or group owner can delete a resource", ErrForbidden)
		}
	}

	return s.db.Delete(&models.StudyResource{}, resourceID).Error
}
