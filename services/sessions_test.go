package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/models"
)

func TestCreateSessionNotifiesGroupMembers(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	member := createTestUser(t, db)

	groups := NewGroupService(db)
	notifications := NewNotificationService(db, nil)
	svc := NewSessionService(db, groups, notifications)

	group, err := groups.CreateGroup("Math Club", "", owner.ID)
	require.NoError(t, err)
	require.NoError(t, groups.Join(group.ID, member.ID))

	session, err := svc.CreateSession(&models.StudySession{
		GroupID:   group.ID,
		Topic:     "Calculus",
		StartTime: time.Now().Add(2 * time.Hour),
	}, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, session.CreatedBy)

	inbox, err := notifications.ListForUser(member.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Contains(t, inbox[0].Message, "Calculus")
	assert.Contains(t, inbox[0].Message, "Math Club")
}

func TestCreateSessionRequiresMembership(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	outsider := createTestUser(t, db)

	groups := NewGroupService(db)
	svc := NewSessionService(db, groups, NewNotificationService(db, nil))

	group, err := groups.CreateGroup("Physics", "", owner.ID)
	require.NoError(t, err)

	_, err = svc.CreateSession(&models.StudySession{
		GroupID: group.ID,
		Topic:   "Waves",
	}, outsider.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateSessionValidation(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	groups := NewGroupService(db)
	svc := NewSessionService(db, groups, NewNotificationService(db, nil))

	_, err := svc.CreateSession(&models.StudySession{Topic: "No group"}, owner.ID)
	assert.ErrorIs(t, err, ErrValidation)

	group, err := groups.CreateGroup("Chemistry", "", owner.ID)
	require.NoError(t, err)

	_, err = svc.CreateSession(&models.StudySession{GroupID: group.ID}, owner.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestJoinSessionReportsFirstJoinOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	member := createTestUser(t, db)

	groups := NewGroupService(db)
	svc := NewSessionService(db, groups, NewNotificationService(db, nil))

	group, err := groups.CreateGroup("Biology", "", owner.ID)
	require.NoError(t, err)
	require.NoError(t, groups.Join(group.ID, member.ID))

	session, err := svc.CreateSession(&models.StudySession{
		GroupID: group.ID,
		Topic:   "Genetics",
	}, owner.ID)
	require.NoError(t, err)

	joined, err := svc.Join(session.ID, member.ID)
	require.NoError(t, err)
	assert.True(t, joined)

	// Second join is acknowledged without counting.
	joined, err = svc.Join(session.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, joined)
}

func TestJoinSessionRequiresGroupMembership(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	outsider := createTestUser(t, db)

	groups := NewGroupService(db)
	svc := NewSessionService(db, groups, NewNotificationService(db, nil))

	group, err := groups.CreateGroup("History", "", owner.ID)
	require.NoError(t, err)
	session, err := svc.CreateSession(&models.StudySession{
		GroupID: group.ID,
		Topic:   "WW2",
	}, owner.ID)
	require.NoError(t, err)

	_, err = svc.Join(session.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateAndDeleteSessionCreatorOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	member := createTestUser(t, db)

	groups := NewGroupService(db)
	svc := NewSessionService(db, groups, NewNotificationService(db, nil))

	group, err := groups.CreateGroup("Geography", "", owner.ID)
	require.NoError(t, err)
	require.NoError(t, groups.Join(group.ID, member.ID))

	session, err := svc.CreateSession(&models.StudySession{
		GroupID: group.ID,
		Topic:   "Maps",
	}, owner.ID)
	require.NoError(t, err)

	_, err = svc.UpdateSession(session.ID, member.ID, &models.StudySession{Topic: "Stolen"})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdateSession(session.ID, owner.ID, &models.StudySession{Topic: "Cartography"})
	require.NoError(t, err)
	assert.Equal(t, "Cartography", updated.Topic)

	assert.ErrorIs(t, svc.DeleteSession(session.ID, member.ID), ErrForbidden)
	require.NoError(t, svc.DeleteSession(session.ID, owner.ID))

	_, err = svc.GetSession(session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
