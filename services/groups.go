// services/groups.go - Study Group Business Logic
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"studyhub/models"
)

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// CreateGroup creates a group with the creator as its first member.
func (s *GroupService) CreateGroup(name, description string, ownerID uint) (*models.StudyGroup, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrValidation)
	}

	group := &models.StudyGroup{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}

		member := &models.GroupMember{
			GroupID:  group.ID,
			UserID:   ownerID,
			JoinedAt: time.Now(),
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// GetGroup retrieves a group with members preloaded.
func (s *GroupService) GetGroup(groupID uint) (*models.StudyGroup, error) {
	var group models.StudyGroup
	err := s.db.Preload("Members").Preload("Members.User").First(&group, groupID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: group %d", ErrNotFound, groupID)
		}
		return nil, err
	}
	return &group, nil
}

// ListGroups returns every group.
func (s *GroupService) ListGroups() ([]models.StudyGroup, error) {
	var groups []models.StudyGroup
	err := s.db.Order("created_at DESC").Find(&groups).Error
	return groups, err
}

// UpdateGroup updates name/description; only the owner may update.
func (s *GroupService) UpdateGroup(groupID, callerID uint, name, description string) (*models.StudyGroup, error) {
	group, err := s.GetGroup(groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != callerID {
		return nil, fmt.Errorf("%w: only the owner can update the group", ErrForbidden)
	}

	if name != "" {
		group.Name = name
	}
	group.Description = description

	if err := s.db.Save(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes a group and its memberships; only the owner may delete.
func (s *GroupService) DeleteGroup(groupID, callerID uint) error {
	group, err := s.GetGroup(groupID)
	if err != nil {
		return err
	}
	if group.OwnerID != callerID {
		return fmt.Errorf("%w: only the owner can delete the group", ErrForbidden)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.StudyGroup{}, groupID).Error
	})
}

// Join adds a user to a group. Joining a group twice is a no-op.
func (s *GroupService) Join(groupID, userID uint) error {
	if _, err := s.GetGroup(groupID); err != nil {
		return err
	}
	if s.IsMember(groupID, userID) {
		return nil
	}

	member := &models.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	return s.db.Create(member).Error
}

// Leave removes a user's membership. The owner cannot leave their own group.
func (s *GroupService) Leave(groupID, userID uint) error {
	group, err := s.GetGroup(groupID)
	if err != nil {
		return err
	}
	if group.OwnerID == userID {
		return fmt.Errorf("%w: the owner cannot leave the group", ErrForbidden)
	}

	return s.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{}).Error
}

// IsMember reports whether the user belongs to the group.
func (s *GroupService) IsMember(groupID, userID uint) bool {
	var count int64
	s.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count)
	return count > 0
}

// MemberIDs returns the user ids of every member of the group.
func (s *GroupService) MemberIDs(groupID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids).Error
	return ids, err
}
