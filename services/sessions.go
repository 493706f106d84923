// services/sessions.go - Study Session Business Logic
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"studyhub/models"
)

type SessionService struct {
	db            *gorm.DB
	groups        *GroupService
	notifications *NotificationService
}

func NewSessionService(db *gorm.DB, groups *GroupService, notifications *NotificationService) *SessionService {
	return &SessionService{db: db, groups: groups, notifications: notifications}
}

// CreateSession schedules a session in a group. The creator must be a
// member; every group member is notified of the new session.
func (s *SessionService) CreateSession(session *models.StudySession, creatorID uint) (*models.StudySession, error) {
	if session.GroupID == 0 {
		return nil, fmt.Errorf("%w: group id is required", ErrValidation)
	}
	if session.Topic == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrValidation)
	}
	if !s.groups.IsMember(session.GroupID, creatorID) {
		return nil, fmt.Errorf("%w: must be a group member to create a session", ErrForbidden)
	}

	session.CreatedBy = creatorID
	if err := s.db.Create(session).Error; err != nil {
		return nil, err
	}

	// Notification failures never undo the created session.
	group, err := s.groups.GetGroup(session.GroupID)
	if err != nil {
		log.Printf("⚠️ Session %d created but group lookup for notification failed: %v", session.ID, err)
		return session, nil
	}
	memberIDs, err := s.groups.MemberIDs(session.GroupID)
	if err != nil {
		log.Printf("⚠️ Session %d created but member lookup for notification failed: %v", session.ID, err)
		return session, nil
	}
	message := "A new study session '" + session.Topic + "' has been created in your group: " + group.Name
	s.notifications.NotifyAll(memberIDs, message)

	return session, nil
}

// SessionsByGroup lists a group's sessions, soonest first.
func (s *SessionService) SessionsByGroup(groupID uint) ([]models.StudySession, error) {
	var sessions []models.StudySession
	err := s.db.Preload("Participants").
		Where("group_id = ?", groupID).
		Order("start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

// GetSession retrieves a single session.
func (s *SessionService) GetSession(sessionID uint) (*models.StudySession, error) {
	var session models.StudySession
	err := s.db.Preload("Participants").First(&session, sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
		}
		return nil, err
	}
	return &session, nil
}

// UpdateSession updates schedule fields; only the creator may update.
func (s *SessionService) UpdateSession(sessionID, callerID uint, updated *models.StudySession) (*models.StudySession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.CreatedBy != callerID {
		return nil, fmt.Errorf("%w: only the creator can update this session", ErrForbidden)
	}

	session.Topic = updated.Topic
	session.Description = updated.Description
	session.StartTime = updated.StartTime
	session.EndTime = updated.EndTime
	session.Location = updated.Location

	if err := s.db.Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session; only the creator may delete.
func (s *SessionService) DeleteSession(sessionID, callerID uint) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	if session.CreatedBy != callerID {
		return fmt.Errorf("%w: only the creator can delete this session", ErrForbidden)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.SessionParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.StudySession{}, sessionID).Error
	})
}

// Join adds the user as a participant. The user must belong to the
// session's parent group. Joining twice is a no-op and reports false.
func (s *SessionService) Join(sessionID, userID uint) (joined bool, err error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return false, err
	}
	if !s.groups.IsMember(session.GroupID, userID) {
		return false, fmt.Errorf("%w: not a member of the session's parent group", ErrForbidden)
	}

	var count int64
	s.db.Model(&models.SessionParticipant{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Count(&count)
	if count > 0 {
		return false, nil
	}

	participant := &models.SessionParticipant{
		SessionID: sessionID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	}
	if err := s.db.Create(participant).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Leave removes the user from the session's participants.
func (s *SessionService) Leave(sessionID, userID uint) error {
	if _, err := s.GetSession(sessionID); err != nil {
		return err
	}
	return s.db.Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&models.SessionParticipant{}).Error
}
