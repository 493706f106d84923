package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A notification for an offline user must still land in the inbox.
func TestNotifyPersistsWithoutHub(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewNotificationService(db, nil)

	require.NoError(t, svc.Notify(user.ID, "A new study session 'Calculus' has been created in your group: Math Club"))

	inbox, err := svc.ListForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.False(t, inbox[0].Read)

	count, err := svc.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotifyPushesToHub(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	pusher := &capturePusher{}
	svc := NewNotificationService(db, pusher)

	require.NoError(t, svc.Notify(user.ID, "hello"))

	require.Len(t, pusher.pushes, 1)
	payload, ok := pusher.pushes[0].(NotificationPayload)
	require.True(t, ok)
	assert.Equal(t, "hello", payload.Message)
	assert.NotZero(t, payload.ID)
}

func TestMarkRead(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewNotificationService(db, nil)

	require.NoError(t, svc.Notify(user.ID, "unread me"))
	inbox, err := svc.ListForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)

	require.NoError(t, svc.MarkRead(inbox[0].ID, user.ID))

	count, err := svc.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Already read: no-op, not an error.
	require.NoError(t, svc.MarkRead(inbox[0].ID, user.ID))
}

func TestMarkReadUnknownID(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewNotificationService(db, nil)

	assert.ErrorIs(t, svc.MarkRead(12345, user.ID), ErrNotFound)
}

func TestMarkReadOtherUsersNotification(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	other := createTestUser(t, db)
	svc := NewNotificationService(db, nil)

	require.NoError(t, svc.Notify(owner.ID, "private"))
	inbox, err := svc.ListForUser(owner.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)

	assert.ErrorIs(t, svc.MarkRead(inbox[0].ID, other.ID), ErrNotFound)

	count, err := svc.UnreadCount(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
