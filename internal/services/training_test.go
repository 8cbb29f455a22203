package services

import (
	"testing"
	"time"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"
	"onboard-backend/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type trainingFixture struct {
	users         *mockUserDirectory
	trainings     *mockTrainingStore
	assignments   *mockAssignmentStore
	notifications *mockNotificationStore
	service       *TrainingService
}

func newTrainingFixture() *trainingFixture {
	users := newMockUserDirectory()
	trainings := newMockTrainingStore()
	assignments := newMockAssignmentStore()
	notifications := newMockNotificationStore()

	notificationService := NewNotificationService(notifications, users)
	service := NewTrainingService(trainings, assignments, users, notificationService)

	return &trainingFixture{
		users:         users,
		trainings:     trainings,
		assignments:   assignments,
		notifications: notifications,
		service:       service,
	}
}

func (f *trainingFixture) addUser(role string) *models.User {
	return f.users.add(&models.User{
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	})
}

func (f *trainingFixture) addTraining(createdBy primitive.ObjectID, compliance bool) *models.Training {
	training, _ := f.trainings.Create(&models.Training{
		Title:        "Security Awareness",
		TrainingType: models.TrainingTypeCompliance,
		Status:       models.TrainingStatusActive,
		IsCompliance: compliance,
		CreatedBy:    createdBy,
	})
	return training
}

func TestAssignUsers_PartialSuccess(t *testing.T) {
	f := newTrainingFixture()
	hr := f.addUser(models.RoleHR)
	alice := f.addUser(models.RoleEmployee)
	bob := f.addUser(models.RoleEmployee)
	training := f.addTraining(hr.ID, false)

	actor := Actor{ID: hr.ID, Role: models.RoleHR}

	// Bob already holds an assignment
	_, err := f.assignments.Create(&models.TrainingAssignment{
		TrainingID: training.ID,
		UserID:     bob.ID,
		Status:     models.AssignmentStatusAssigned,
	})
	require.NoError(t, err)

	missing := primitive.NewObjectID().Hex()
	result, err := f.service.AssignUsers(training.ID.Hex(), &AssignRequest{
		UserIDs: []string{alice.ID.Hex(), bob.ID.Hex(), missing},
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, []string{alice.ID.Hex()}, result.Successful)
	assert.Equal(t, []string{bob.ID.Hex()}, result.AlreadyAssigned)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, missing, result.Failed[0].UserID)
	assert.Equal(t, "user not found", result.Failed[0].Reason)

	// Exactly one notification, to the new assignee only
	assert.Len(t, f.notifications.forRecipient(alice.ID), 1)
	assert.Empty(t, f.notifications.forRecipient(bob.ID))
}

func TestAssignUsers_NeverDuplicates(t *testing.T) {
	f := newTrainingFixture()
	hr := f.addUser(models.RoleHR)
	alice := f.addUser(models.RoleEmployee)
	training := f.addTraining(hr.ID, false)
	actor := Actor{ID: hr.ID, Role: models.RoleHR}

	req := &AssignRequest{UserIDs: []string{alice.ID.Hex()}}

	first, err := f.service.AssignUsers(training.ID.Hex(), req, actor)
	require.NoError(t, err)
	assert.Len(t, first.Successful, 1)

	second, err := f.service.AssignUsers(training.ID.Hex(), req, actor)
	require.NoError(t, err)
	assert.Empty(t, second.Successful)
	assert.Equal(t, []string{alice.ID.Hex()}, second.AlreadyAssigned)

	all, _ := f.assignments.FindByTraining(training.ID)
	assert.Len(t, all, 1)
	assert.Len(t, f.notifications.forRecipient(alice.ID), 1)
}

func TestStartAssignment_SetsStartedAtOnce(t *testing.T) {
	f := newTrainingFixture()
	hr := f.addUser(models.RoleHR)
	alice := f.addUser(models.RoleEmployee)
	training := f.addTraining(hr.ID, false)

	hrActor := Actor{ID: hr.ID, Role: models.RoleHR}
	aliceActor := Actor{ID: alice.ID, Role: models.RoleEmployee}

	_, err := f.service.AssignUsers(training.ID.Hex(), &AssignRequest{UserIDs: []string{alice.ID.Hex()}}, hrActor)
	require.NoError(t, err)

	firstStart := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	now = func() time.Time { return firstStart }
	defer func() { now = time.Now }()

	started, err := f.service.StartAssignment(training.ID.Hex(), alice.ID.Hex(), aliceActor)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusInProgress, started.Status)
	require.NotNil(t, started.StartedAt)
	assert.Equal(t, firstStart, *started.StartedAt)

	// Re-entering neither errors nor moves the timestamp
	now = func() time.Time { return firstStart.Add(2 * time.Hour) }
	again, err := f.service.StartAssignment(training.ID.Hex(), alice.ID.Hex(), aliceActor)
	require.NoError(t, err)
	assert.Equal(t, firstStart, *again.StartedAt)
}

func TestStartAssignment_GuardsCaller(t *testing.T) {
	f := newTrainingFixture()
	hr := f.addUser(models.RoleHR)
	alice := f.addUser(models.RoleEmployee)
	mallory := f.addUser(models.RoleEmployee)
	training := f.addTraining(hr.ID, false)

	hrActor := Actor{ID: hr.ID, Role: models.RoleHR}
	_, err := f.service.AssignUsers(training.ID.Hex(), &AssignRequest{UserIDs: []string{alice.ID.Hex()}}, hrActor)
	require.NoError(t, err)

	_, err = f.service.StartAssignment(training.ID.Hex(), alice.ID.Hex(), Actor{ID: mallory.ID, Role: models.RoleEmployee})
	assert.ErrorIs(t, err, ErrNotAssignmentOwner)

	// hr may act on behalf of the assignee
	_, err = f.service.StartAssignment(training.ID.Hex(), alice.ID.Hex(), hrActor)
	assert.NoError(t, err)
}

func TestCompleteAssignment_TerminalAndIdempotent(t *testing.T) {
	f := newTrainingFixture()
	hr := f.addUser(models.RoleHR)
	alice := f.addUser(models.RoleEmployee)
	training := f.addTraining(hr.ID, false)

	hrActor := Actor{ID: hr.ID, Role: models.RoleHR}
	aliceActor := Actor{ID: alice.ID, Role: models.RoleEmployee}

	_, err := f.service.AssignUsers(training.ID.Hex(), &AssignRequest{UserIDs: []string{alice.ID.Hex()}}, hrActor)
	require.NoError(t, err)

	completedAt := time.Date(2026, 3, 5, 16, 0, 0, 0, time.UTC)
	now = func() time.Time { return completedAt }
	defer func() { now = time.Now }()

	score := 92.5
	completed, err := f.service.CompleteAssignment(training.ID.Hex(), alice.ID.Hex(),
		&CompleteRequest{Score: &score, Feedback: "good course"}, aliceActor)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, completedAt, *completed.CompletedAt)

	// Repeat completion changes nothing and fans out nothing new
	before := len(f.notifications.forRecipient(hr.ID))
	now = func() time.Time { return completedAt.Add(24 * time.Hour) }
	again, err := f.service.CompleteAssignment(training.ID.Hex(), alice.ID.Hex(), nil, aliceActor)
	require.NoError(t, err)
	assert.Equal(t, completedAt, *again.CompletedAt)
	assert.Len(t, f.notifications.forRecipient(hr.ID), before)

	// completed cannot be restarted
	_, err = f.service.StartAssignment(training.ID.Hex(), alice.ID.Hex(), aliceActor)
	assert.EqualError(t, err, "assignment already completed")
}

func TestCompleteAssignment_NotifiesCreator(t *testing.T) {
	f := newTrainingFixture()
	hr := f.addUser(models.RoleHR)
	alice := f.addUser(models.RoleEmployee)
	training := f.addTraining(hr.ID, false)

	hrActor := Actor{ID: hr.ID, Role: models.RoleHR}
	_, err := f.service.AssignUsers(training.ID.Hex(), &AssignRequest{UserIDs: []string{alice.ID.Hex()}}, hrActor)
	require.NoError(t, err)

	_, err = f.service.CompleteAssignment(training.ID.Hex(), alice.ID.Hex(), nil, Actor{ID: alice.ID, Role: models.RoleEmployee})
	require.NoError(t, err)

	creatorNotes := f.notifications.forRecipient(hr.ID)
	require.Len(t, creatorNotes, 1)
	assert.Equal(t, "Training completed", creatorNotes[0].Title)
}

func TestCompleteAssignment_NoSelfNotification(t *testing.T) {
	f := newTrainingFixture()
	hr := f.addUser(models.RoleHR)
	training := f.addTraining(hr.ID, false)

	hrActor := Actor{ID: hr.ID, Role: models.RoleHR}
	_, err := f.service.AssignUsers(training.ID.Hex(), &AssignRequest{UserIDs: []string{hr.ID.Hex()}}, hrActor)
	require.NoError(t, err)

	// Drop the assignment notification from the count
	assigned := len(f.notifications.forRecipient(hr.ID))

	_, err = f.service.CompleteAssignment(training.ID.Hex(), hr.ID.Hex(), nil, hrActor)
	require.NoError(t, err)

	// Completer == creator: no completion notification
	assert.Len(t, f.notifications.forRecipient(hr.ID), assigned)
}

func TestCompleteAssignment_ComplianceBroadcast(t *testing.T) {
	f := newTrainingFixture()
	creator := f.addUser(models.RoleHR)
	otherHR := f.addUser(models.RoleHR)
	completerHR := f.addUser(models.RoleHR)
	training := f.addTraining(creator.ID, true)

	creatorActor := Actor{ID: creator.ID, Role: models.RoleHR}
	_, err := f.service.AssignUsers(training.ID.Hex(), &AssignRequest{UserIDs: []string{completerHR.ID.Hex()}}, creatorActor)
	require.NoError(t, err)

	_, err = f.service.CompleteAssignment(training.ID.Hex(), completerHR.ID.Hex(), nil,
		Actor{ID: completerHR.ID, Role: models.RoleHR})
	require.NoError(t, err)

	// Creator gets the standard completion notification, not a second
	// compliance copy
	assert.Len(t, f.notifications.forRecipient(creator.ID), 1)

	// Uninvolved hr gets exactly one compliance notification
	otherNotes := f.notifications.forRecipient(otherHR.ID)
	require.Len(t, otherNotes, 1)
	assert.Equal(t, "Compliance training completed", otherNotes[0].Title)
	assert.Equal(t, models.NotificationPriorityHigh, otherNotes[0].Priority)

	// The completer never notifies themselves; only the assignment note
	// from setup remains
	assert.Len(t, f.notifications.forRecipient(completerHR.ID), 1)
}

func TestUnassign(t *testing.T) {
	f := newTrainingFixture()
	hr := f.addUser(models.RoleHR)
	alice := f.addUser(models.RoleEmployee)
	training := f.addTraining(hr.ID, false)

	hrActor := Actor{ID: hr.ID, Role: models.RoleHR}

	// No assignment yet
	err := f.service.Unassign(training.ID.Hex(), alice.ID.Hex())
	assert.Error(t, err)

	_, err = f.service.AssignUsers(training.ID.Hex(), &AssignRequest{UserIDs: []string{alice.ID.Hex()}}, hrActor)
	require.NoError(t, err)

	err = f.service.Unassign(training.ID.Hex(), alice.ID.Hex())
	require.NoError(t, err)

	// Assignment gone, former assignee told about it
	_, err = f.assignments.FindByUserAndTraining(alice.ID, training.ID)
	assert.Error(t, err)

	notes := f.notifications.forRecipient(alice.ID)
	require.Len(t, notes, 2)
	assert.Equal(t, "Training unassigned", notes[1].Title)
}

func TestSetAssignmentStatus(t *testing.T) {
	f := newTrainingFixture()
	hr := f.addUser(models.RoleHR)
	alice := f.addUser(models.RoleEmployee)
	training := f.addTraining(hr.ID, false)

	hrActor := Actor{ID: hr.ID, Role: models.RoleHR}
	_, err := f.service.AssignUsers(training.ID.Hex(), &AssignRequest{UserIDs: []string{alice.ID.Hex()}}, hrActor)
	require.NoError(t, err)

	// Employees cannot flag overdue
	_, err = f.service.SetAssignmentStatus(training.ID.Hex(), alice.ID.Hex(),
		models.AssignmentStatusOverdue, Actor{ID: alice.ID, Role: models.RoleEmployee})
	assert.ErrorIs(t, err, ErrNotAssignmentOwner)

	updated, err := f.service.SetAssignmentStatus(training.ID.Hex(), alice.ID.Hex(),
		models.AssignmentStatusOverdue, hrActor)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusOverdue, updated.Status)

	// An overdue assignment can still be completed afterwards
	completed, err := f.service.CompleteAssignment(training.ID.Hex(), alice.ID.Hex(), nil,
		Actor{ID: alice.ID, Role: models.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusCompleted, completed.Status)

	// And once completed, the status is locked
	_, err = f.service.SetAssignmentStatus(training.ID.Hex(), alice.ID.Hex(),
		models.AssignmentStatusExpired, hrActor)
	assert.EqualError(t, err, "assignment already completed")
}

func TestGetTrainings_ActiveListPaginates(t *testing.T) {
	f := newTrainingFixture()
	creator := primitive.NewObjectID()

	f.addTraining(creator, false)
	f.addTraining(creator, false)
	f.addTraining(creator, false)
	_, err := f.trainings.Create(&models.Training{
		Title:        "Legacy Systems",
		TrainingType: models.TrainingTypeSkills,
		Status:       models.TrainingStatusInactive,
	})
	require.NoError(t, err)

	active := repository.TrainingFilter{Status: models.TrainingStatusActive}

	trainings, total, err := f.service.GetTrainings(active, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, trainings, 2)

	trainings, total, err = f.service.GetTrainings(active, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, trainings, 1)

	trainings, _, err = f.service.GetTrainings(active, 3, 2)
	require.NoError(t, err)
	assert.Empty(t, trainings)
}

func TestGetTrainings_ActiveListServedFromCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	f := newTrainingFixture()
	f.service.SetCache(cache.New(client))

	creator := primitive.NewObjectID()
	f.addTraining(creator, false)
	f.addTraining(creator, false)

	active := repository.TrainingFilter{Status: models.TrainingStatusActive}

	// First listing warms the cache
	_, total, err := f.service.GetTrainings(active, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// A write that bypasses the service is invisible while the cache is warm
	_, err = f.trainings.Create(&models.Training{
		Title:        "Shadow Entry",
		TrainingType: models.TrainingTypeSkills,
		Status:       models.TrainingStatusActive,
	})
	require.NoError(t, err)

	_, total, err = f.service.GetTrainings(active, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// A service-level create invalidates, so the next listing is fresh
	_, err = f.service.CreateTraining(&CreateTrainingRequest{
		Title:        "Incident Response",
		TrainingType: models.TrainingTypeSkills,
	}, Actor{ID: creator, Role: models.RoleHR})
	require.NoError(t, err)

	_, total, err = f.service.GetTrainings(active, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}
