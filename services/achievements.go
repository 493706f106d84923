// services/achievements.go - Achievement Awarding
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studyhub/models"
)

// AchievementService evaluates counter values against the achievement
// catalog and records awards. The (user_id, achievement_id) unique index
// is the idempotency guard: a concurrent evaluation losing the insert race
// sees RowsAffected == 0 and treats the achievement as already earned.
type AchievementService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewAchievementService(db *gorm.DB, notifications *NotificationService) *AchievementService {
	return &AchievementService{db: db, notifications: notifications}
}

// EvaluateAndAward awards every achievement for the action whose threshold
// is <= newValue and that the user has not earned yet. Returns the
// achievements actually awarded by this call. Awards are never revoked;
// an unknown action type or an empty catalog is a no-op, not an error.
func (s *AchievementService) EvaluateAndAward(userID uint, action models.ActionType, newValue int) ([]models.Achievement, error) {
	var definitions []models.Achievement
	if err := s.db.
		Where("action_type = ? AND threshold <= ?", action, newValue).
		Order("threshold ASC").
		Find(&definitions).Error; err != nil {
		return nil, fmt.Errorf("load achievement definitions: %w", err)
	}
	if len(definitions) == 0 {
		return nil, nil
	}

	var earnedIDs []uint
	if err := s.db.Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &earnedIDs).Error; err != nil {
		return nil, fmt.Errorf("load earned achievements: %w", err)
	}
	earned := make(map[uint]bool, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = true
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	var awarded []models.Achievement
	for _, def := range definitions {
		if earned[def.ID] {
			continue
		}

		record := models.UserAchievement{
			UserID:        userID,
			AchievementID: def.ID,
			EarnedAt:      time.Now(),
		}
		res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
		if res.Error != nil {
			log.Printf("⚠️ Failed to save award (user %d, achievement %d): %v", userID, def.ID, res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			// Lost the race to a concurrent evaluation: already awarded.
			continue
		}

		log.Printf("🏆 User %d awarded achievement %q (id %d)", userID, def.Name, def.ID)
		awarded = append(awarded, def)

		if user.NotificationsEnabled {
			message := "Achievement Unlocked: " + def.Name + "! " + def.Description
			if err := s.notifications.Notify(userID, message); err != nil {
				// The award row is the source of truth; a failed
				// notification must not undo it.
				log.Printf("⚠️ Failed to notify user %d about achievement %q: %v", userID, def.Name, err)
			}
		}
	}

	return awarded, nil
}

// EarnedAchievements returns the user's awards, newest first.
func (s *AchievementService) EarnedAchievements(userID uint) ([]models.UserAchievement, error) {
	var records []models.UserAchievement
	err := s.db.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&records).Error
	return records, err
}

// Catalog returns every achievement definition with an unlocked flag for
// the given user.
func (s *AchievementService) Catalog(userID uint) ([]map[string]interface{}, error) {
	var definitions []models.Achievement
	if err := s.db.Order("action_type, threshold").Find(&definitions).Error; err != nil {
		return nil, err
	}

	earned, err := s.EarnedAchievements(userID)
	if err != nil {
		return nil, err
	}
	earnedAt := make(map[uint]time.Time, len(earned))
	for _, ua := range earned {
		earnedAt[ua.AchievementID] = ua.EarnedAt
	}

	catalog := make([]map[string]interface{}, 0, len(definitions))
	for _, def := range definitions {
		entry := map[string]interface{}{
			"id":          def.ID,
			"action_type": def.ActionType,
			"threshold":   def.Threshold,
			"name":        def.Name,
			"description": def.Description,
			"icon":        def.Icon,
			"unlocked":    false,
		}
		if at, ok := earnedAt[def.ID]; ok {
			entry["unlocked"] = true
			entry["earned_at"] = at
		}
		catalog = append(catalog, entry)
	}
	return catalog, nil
}
