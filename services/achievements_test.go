package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/models"
)

func createAchievement(t *testing.T, svc *AchievementService, action models.ActionType, threshold int, name string) models.Achievement {
	t.Helper()
	def := models.Achievement{
		ActionType:  action,
		Threshold:   threshold,
		Name:        name,
		Description: fmt.Sprintf("Reached %d", threshold),
	}
	require.NoError(t, svc.db.Create(&def).Error)
	return def
}

func TestEvaluateAndAwardCrossesSeveralThresholds(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	notifications := NewNotificationService(db, nil)
	svc := NewAchievementService(db, notifications)

	createAchievement(t, svc, models.ActionSessionCreated, 1, "Session Starter")
	createAchievement(t, svc, models.ActionSessionCreated, 5, "Session Starter V")
	createAchievement(t, svc, models.ActionSessionCreated, 10, "Session Starter X")

	// Jumping from 0 to 12 awards all three in one evaluation.
	awarded, err := svc.EvaluateAndAward(user.ID, models.ActionSessionCreated, 12)
	require.NoError(t, err)
	require.Len(t, awarded, 3)
	assert.Equal(t, "Session Starter", awarded[0].Name)
	assert.Equal(t, "Session Starter X", awarded[2].Name)

	// Replaying the same evaluation awards nothing.
	awarded, err = svc.EvaluateAndAward(user.ID, models.ActionSessionCreated, 12)
	require.NoError(t, err)
	assert.Empty(t, awarded)

	earned, err := svc.EarnedAchievements(user.ID)
	require.NoError(t, err)
	assert.Len(t, earned, 3)
}

func TestEvaluateAndAwardBelowThreshold(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewAchievementService(db, NewNotificationService(db, nil))

	createAchievement(t, svc, models.ActionGroupCreated, 5, "Group Founder V")

	awarded, err := svc.EvaluateAndAward(user.ID, models.ActionGroupCreated, 4)
	require.NoError(t, err)
	assert.Empty(t, awarded)
}

func TestEvaluateAndAwardNoDefinitionsIsNoOp(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewAchievementService(db, NewNotificationService(db, nil))

	awarded, err := svc.EvaluateAndAward(user.ID, models.ActionFileUploaded, 50)
	require.NoError(t, err)
	assert.Empty(t, awarded)
}

func TestEvaluateAndAwardUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewAchievementService(db, NewNotificationService(db, nil))
	createAchievement(t, svc, models.ActionSessionJoined, 1, "Active Participant")

	_, err := svc.EvaluateAndAward(4242, models.ActionSessionJoined, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAwardWritesNotification(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	pusher := &capturePusher{}
	notifications := NewNotificationService(db, pusher)
	svc := NewAchievementService(db, notifications)

	createAchievement(t, svc, models.ActionSessionCreated, 1, "Session Starter")

	awarded, err := svc.EvaluateAndAward(user.ID, models.ActionSessionCreated, 1)
	require.NoError(t, err)
	require.Len(t, awarded, 1)

	inbox, err := notifications.ListForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Contains(t, inbox[0].Message, "Achievement Unlocked: Session Starter")
	assert.False(t, inbox[0].Read)
	assert.Len(t, pusher.pushes, 1)
}

func TestAwardSkipsNotificationWhenDisabled(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	require.NoError(t, db.Model(user).Update("notifications_enabled", false).Error)

	notifications := NewNotificationService(db, nil)
	svc := NewAchievementService(db, notifications)
	createAchievement(t, svc, models.ActionGroupCreated, 1, "Group Founder")

	awarded, err := svc.EvaluateAndAward(user.ID, models.ActionGroupCreated, 1)
	require.NoError(t, err)
	require.Len(t, awarded, 1)

	inbox, err := notifications.ListForUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

// End to end: counter increments drive awards at exactly the seeded
// thresholds, and replays never double-award.
func TestCounterDrivenAwardFlow(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	counters := NewCounterService(db)
	notifications := NewNotificationService(db, nil)
	achievements := NewAchievementService(db, notifications)

	createAchievement(t, achievements, models.ActionSessionCreated, 1, "Session Starter")
	createAchievement(t, achievements, models.ActionSessionCreated, 5, "Session Starter V")

	var total []models.Achievement
	for i := 0; i < 5; i++ {
		value, err := counters.Increment(user.ID, models.ActionSessionCreated)
		require.NoError(t, err)

		awarded, err := achievements.EvaluateAndAward(user.ID, models.ActionSessionCreated, value)
		require.NoError(t, err)
		total = append(total, awarded...)
	}

	require.Len(t, total, 2)
	assert.Equal(t, "Session Starter", total[0].Name)
	assert.Equal(t, "Session Starter V", total[1].Name)
}

func TestCatalogMarksUnlocked(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewAchievementService(db, NewNotificationService(db, nil))

	createAchievement(t, svc, models.ActionFileUploaded, 1, "Resource Contributor")
	createAchievement(t, svc, models.ActionFileUploaded, 5, "Resource Contributor V")

	_, err := svc.EvaluateAndAward(user.ID, models.ActionFileUploaded, 1)
	require.NoError(t, err)

	catalog, err := svc.Catalog(user.ID)
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Equal(t, true, catalog[0]["unlocked"])
	assert.Equal(t, false, catalog[1]["unlocked"])
}
