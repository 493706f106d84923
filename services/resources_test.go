package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordResourceNotifiesOtherMembers(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	member := createTestUser(t, db)

	groups := NewGroupService(db)
	notifications := NewNotificationService(db, nil)
	svc := NewResourceService(db, groups, notifications)

	group, err := groups.CreateGroup("Math Club", "", owner.ID)
	require.NoError(t, err)
	require.NoError(t, groups.Join(group.ID, member.ID))

	resource, err := svc.Record(owner.ID, group.ID, "notes.pdf", "application/pdf", 1024)
	require.NoError(t, err)
	assert.NotEmpty(t, resource.StorageKey)
	assert.Contains(t, resource.StorageKey, "notes.pdf")

	// The uploader is not notified about their own upload.
	inbox, err := notifications.ListForUser(owner.ID)
	require.NoError(t, err)
	assert.Empty(t, inbox)

	inbox, err = notifications.ListForUser(member.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Contains(t, inbox[0].Message, "notes.pdf")
}

func TestRecordResourceMemberOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	outsider := createTestUser(t, db)

	groups := NewGroupService(db)
	svc := NewResourceService(db, groups, NewNotificationService(db, nil))

	group, err := groups.CreateGroup("Physics", "", owner.ID)
	require.NoError(t, err)

	_, err = svc.Record(outsider.ID, group.ID, "cheat.pdf", "application/pdf", 10)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRecordResourceValidation(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	groups := NewGroupService(db)
	svc := NewResourceService(db, groups, NewNotificationService(db, nil))

	group, err := groups.CreateGroup("Chemistry", "", owner.ID)
	require.NoError(t, err)

	_, err = svc.Record(owner.ID, group.ID, "  ", "text/plain", 10)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Record(owner.ID, group.ID, "big.bin", "application/octet-stream", maxResourceSize+1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteResourcePermissions(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	uploader := createTestUser(t, db)
	other := createTestUser(t, db)

	groups := NewGroupService(db)
	svc := NewResourceService(db, groups, NewNotificationService(db, nil))

	group, err := groups.CreateGroup("Biology", "", owner.ID)
	require.NoError(t, err)
	require.NoError(t, groups.Join(group.ID, uploader.ID))
	require.NoError(t, groups.Join(group.ID, other.ID))

	resource, err := svc.Record(uploader.ID, group.ID, "slides.pdf", "application/pdf", 2048)
	require.NoError(t, err)

	// A plain member can neither delete nor see it disappear.
	assert.ErrorIs(t, svc.Delete(resource.ID, other.ID), ErrForbidden)

	// The group owner can delete someone else's upload.
	require.NoError(t, svc.Delete(resource.ID, owner.ID))
	assert.ErrorIs(t, svc.Delete(resource.ID, owner.ID), ErrNotFound)
}
