// services/counters.go - Per-User Action Counters
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"studyhub/models"
)

// CounterService owns the per-user action counters on the users table.
type CounterService struct {
	db *gorm.DB
}

func NewCounterService(db *gorm.DB) *CounterService {
	return &CounterService{db: db}
}

// counterColumn maps an action type to its users-table column. The map is
// the whitelist: anything not present is rejected before touching SQL.
var counterColumn = map[models.ActionType]string{
	models.ActionSessionCreated: "sessions_created_count",
	models.ActionGroupCreated:   "groups_created_count",
	models.ActionSessionJoined:  "sessions_joined_count",
	models.ActionFileUploaded:   "files_uploaded_count",
}

// Increment atomically bumps the user's counter for the given action and
// returns the post-increment value. Two concurrent calls for the same
// (user, action) pair never observe the same value: the UPDATE takes the
// row lock, and the read happens inside the same transaction before the
// lock is released. If the write fails nothing is visible.
func (s *CounterService) Increment(userID uint, action models.ActionType) (int, error) {
	column, ok := counterColumn[action]
	if !ok {
		return 0, fmt.Errorf("%w: unknown action type %q", ErrValidation, action)
	}

	var newValue int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn(column, gorm.Expr(column+" + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}

		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Select(column).
			Scan(&newValue).Error
	})
	if err != nil {
		return 0, err
	}

	return newValue, nil
}

// Counters returns the current counter values for a user.
func (s *CounterService) Counters(userID uint) (map[models.ActionType]int, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	return map[models.ActionType]int{
		models.ActionSessionCreated: user.SessionsCreatedCount,
		models.ActionGroupCreated:   user.GroupsCreatedCount,
		models.ActionSessionJoined:  user.SessionsJoinedCount,
		models.ActionFileUploaded:   user.FilesUploadedCount,
	}, nil
}
