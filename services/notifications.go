// services/notifications.go - Notification Dispatch
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"studyhub/models"
)

// Pusher is the live-delivery side of notification dispatch, satisfied by
// realtime.Hub. SendToUser returns the number of connections the payload
// was handed to; 0 means the user is offline, which is not an error.
type Pusher interface {
	SendToUser(userID uint, payload interface{}) int
}

// NotificationPayload is the wire shape pushed over a live connection.
type NotificationPayload struct {
	ID        uint      `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationService persists inbox records and best-effort pushes them
// to live connections. The persisted row is the durable contract; the push
// is a latency optimization that never fails the dispatch.
type NotificationService struct {
	db  *gorm.DB
	hub Pusher
}

func NewNotificationService(db *gorm.DB, hub Pusher) *NotificationService {
	return &NotificationService{db: db, hub: hub}
}

// Notify persists an unread notification for the recipient, then attempts
// a live push. Returns an error only if the persist fails.
func (s *NotificationService) Notify(userID uint, message string) error {
	notification := models.Notification{
		UserID:    userID,
		Message:   message,
		Read:      false,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("save notification for user %d: %w", userID, err)
	}

	s.push(userID, notification)
	return nil
}

// NotifyAll dispatches the same message to many recipients. A persistence
// failure for one recipient is logged and does not block the others.
func (s *NotificationService) NotifyAll(userIDs []uint, message string) {
	for _, userID := range userIDs {
		if err := s.Notify(userID, message); err != nil {
			log.Printf("⚠️ Failed to notify user %d: %v", userID, err)
		}
	}
}

func (s *NotificationService) push(userID uint, n models.Notification) {
	if s.hub == nil {
		return
	}
	// Best-effort: 0 deliveries means the user is offline and will pick
	// the record up from the inbox.
	s.hub.SendToUser(userID, NotificationPayload{
		ID:        n.ID,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	})
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// UnreadCount returns how many unread notifications the user has.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead transitions one of the user's notifications to read. Marking
// an already-read notification is a no-op. An unknown id, or an id that
// belongs to another user, is ErrNotFound.
func (s *NotificationService) MarkRead(notificationID, userID uint) error {
	var notification models.Notification
	if err := s.db.First(&notification, notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: notification %d", ErrNotFound, notificationID)
		}
		return err
	}

	if notification.UserID != userID {
		return fmt.Errorf("%w: notification %d", ErrNotFound, notificationID)
	}

	if notification.Read {
		return nil
	}

	return s.db.Model(&notification).Update("read", true).Error
}
