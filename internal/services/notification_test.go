package services

import (
	"testing"

	"onboard-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newNotificationFixture() (*mockUserDirectory, *mockNotificationStore, *NotificationService) {
	users := newMockUserDirectory()
	store := newMockNotificationStore()
	service := NewNotificationService(store, users)
	return users, store, service
}

func TestCreateNotifications_ExactlyOneSpec(t *testing.T) {
	users, _, service := newNotificationFixture()
	sender := users.add(&models.User{Role: models.RoleHR, IsActive: true})
	actor := Actor{ID: sender.ID, Role: models.RoleHR}

	base := CreateNotificationRequest{Title: "Hello", Message: "World"}

	_, err := service.CreateNotifications(&base, actor)
	assert.Error(t, err)

	both := base
	both.RecipientID = sender.ID.Hex()
	both.Role = models.RoleIT
	_, err = service.CreateNotifications(&both, actor)
	assert.Error(t, err)
}

func TestCreateNotifications_SingleRecipientMustExist(t *testing.T) {
	users, store, service := newNotificationFixture()
	sender := users.add(&models.User{Role: models.RoleHR, IsActive: true})
	recipient := users.add(&models.User{Role: models.RoleEmployee, IsActive: true})
	actor := Actor{ID: sender.ID, Role: models.RoleHR}

	_, err := service.CreateNotifications(&CreateNotificationRequest{
		RecipientID: primitive.NewObjectID().Hex(),
		Title:       "Hello",
		Message:     "World",
	}, actor)
	assert.EqualError(t, err, "recipient not found")
	assert.Empty(t, store.forRecipient(recipient.ID))

	created, err := service.CreateNotifications(&CreateNotificationRequest{
		RecipientID: recipient.ID.Hex(),
		Title:       "Hello",
		Message:     "World",
	}, actor)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, models.NotificationStatusUnread, created[0].Status)
	assert.Equal(t, models.NotificationTypeGeneral, created[0].Type)
	assert.Equal(t, models.NotificationPriorityNormal, created[0].Priority)
}

func TestCreateNotifications_BatchAllOrNothing(t *testing.T) {
	users, store, service := newNotificationFixture()
	sender := users.add(&models.User{Role: models.RoleHR, IsActive: true})
	alice := users.add(&models.User{Role: models.RoleEmployee, IsActive: true})
	bob := users.add(&models.User{Role: models.RoleEmployee, IsActive: true})
	actor := Actor{ID: sender.ID, Role: models.RoleHR}

	// One unknown recipient rejects the whole batch
	_, err := service.CreateNotifications(&CreateNotificationRequest{
		RecipientIDs: []string{alice.ID.Hex(), primitive.NewObjectID().Hex()},
		Title:        "Hello",
		Message:      "World",
	}, actor)
	require.Error(t, err)
	assert.Empty(t, store.forRecipient(alice.ID))

	created, err := service.CreateNotifications(&CreateNotificationRequest{
		RecipientIDs: []string{alice.ID.Hex(), bob.ID.Hex()},
		Title:        "Hello",
		Message:      "World",
	}, actor)
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Len(t, store.forRecipient(alice.ID), 1)
	assert.Len(t, store.forRecipient(bob.ID), 1)
}

func TestCreateNotifications_RoleBroadcast(t *testing.T) {
	users, store, service := newNotificationFixture()
	sender := users.add(&models.User{Role: models.RoleAdmin, IsActive: true})
	itOne := users.add(&models.User{Role: models.RoleIT, IsActive: true})
	itTwo := users.add(&models.User{Role: models.RoleIT, IsActive: true})
	actor := Actor{ID: sender.ID, Role: models.RoleAdmin}

	created, err := service.CreateNotifications(&CreateNotificationRequest{
		Role:    models.RoleIT,
		Title:   "Maintenance window",
		Message: "Saturday 02:00 UTC",
	}, actor)
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Len(t, store.forRecipient(itOne.ID), 1)
	assert.Len(t, store.forRecipient(itTwo.ID), 1)

	// No holders of the role: success with zero inserts
	created, err = service.CreateNotifications(&CreateNotificationRequest{
		Role:    models.RoleManager,
		Title:   "Hello",
		Message: "World",
	}, actor)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestMarkRead_Monotonic(t *testing.T) {
	users, store, service := newNotificationFixture()
	recipient := users.add(&models.User{Role: models.RoleEmployee, IsActive: true})

	err := service.Dispatch(NotificationInput{
		Recipient: recipient.ID,
		Title:     "Hello",
		Message:   "World",
		Type:      models.NotificationTypeGeneral,
	})
	require.NoError(t, err)

	stored := store.forRecipient(recipient.ID)
	require.Len(t, stored, 1)
	id := stored[0].ID.Hex()

	read, err := service.MarkRead(id, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationStatusRead, read.Status)
	require.NotNil(t, read.ReadAt)
	firstReadAt := *read.ReadAt

	// Re-reading never moves the timestamp or regresses the status
	again, err := service.MarkRead(id, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationStatusRead, again.Status)
	assert.Equal(t, firstReadAt, *again.ReadAt)
}

func TestUnreadCount(t *testing.T) {
	users, _, service := newNotificationFixture()
	recipient := users.add(&models.User{Role: models.RoleEmployee, IsActive: true})

	for i := 0; i < 3; i++ {
		require.NoError(t, service.Dispatch(NotificationInput{
			Recipient: recipient.ID,
			Title:     "Hello",
			Message:   "World",
			Type:      models.NotificationTypeGeneral,
		}))
	}

	count, err := service.UnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	updated, err := service.MarkAllRead(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	count, err = service.UnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
