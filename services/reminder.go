// services/reminder.go - Upcoming Session Reminders
package services

import (
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"studyhub/models"
)

const (
	reminderInterval = time.Minute
	reminderLead     = 30 * time.Minute
)

// ReminderService periodically notifies participants of sessions starting
// within the next 30 minutes, once per session per process lifetime.
type ReminderService struct {
	db            *gorm.DB
	notifications *NotificationService

	mu       sync.Mutex
	notified map[uint]bool

	stop chan struct{}
	done chan struct{}
}

func NewReminderService(db *gorm.DB, notifications *NotificationService) *ReminderService {
	return &ReminderService{
		db:            db,
		notifications: notifications,
		notified:      make(map[uint]bool),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the background reminder loop.
func (s *ReminderService) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(reminderInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.notifyUpcomingSessions()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop shuts the reminder loop down and waits for it to exit.
func (s *ReminderService) Stop() {
	close(s.stop)
	<-s.done
}

func (s *ReminderService) notifyUpcomingSessions() {
	now := time.Now()

	var sessions []models.StudySession
	if err := s.db.Preload("Participants").
		Where("start_time > ? AND start_time <= ?", now, now.Add(reminderLead)).
		Find(&sessions).Error; err != nil {
		log.Printf("⚠️ Reminder scan failed: %v", err)
		return
	}

	for _, session := range sessions {
		s.mu.Lock()
		already := s.notified[session.ID]
		if !already {
			s.notified[session.ID] = true
		}
		s.mu.Unlock()
		if already {
			continue
		}

		participantIDs := make([]uint, 0, len(session.Participants))
		for _, p := range session.Participants {
			participantIDs = append(participantIDs, p.UserID)
		}
		if len(participantIDs) == 0 {
			continue
		}

		message := "Your study group is about to start a study session '" +
			session.Topic + "' in less than 30 minutes! Be ready to join!"
		s.notifications.NotifyAll(participantIDs, message)
	}
}
