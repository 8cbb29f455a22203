package services

import (
	"errors"
	"fmt"
	"sync"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stores backing the engine tests.

type mockUserDirectory struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMockUserDirectory() *mockUserDirectory {
	return &mockUserDirectory{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *mockUserDirectory) add(user *models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = user
	return user
}

func (m *mockUserDirectory) FindByID(id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("user %w", repository.ErrNotFound)
	}
	user, ok := m.users[oid]
	if !ok {
		return nil, fmt.Errorf("user %w", repository.ErrNotFound)
	}
	return user, nil
}

func (m *mockUserDirectory) FindByIDs(ids []primitive.ObjectID) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			found = append(found, user)
		}
	}
	return found, nil
}

func (m *mockUserDirectory) FindByRole(role string) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []*models.User
	for _, user := range m.users {
		if user.Role == role && user.IsActive {
			found = append(found, user)
		}
	}
	return found, nil
}

type mockTrainingStore struct {
	mu        sync.Mutex
	trainings map[primitive.ObjectID]*models.Training
}

func newMockTrainingStore() *mockTrainingStore {
	return &mockTrainingStore{trainings: make(map[primitive.ObjectID]*models.Training)}
}

func (m *mockTrainingStore) Create(training *models.Training) (*models.Training, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if training.ID.IsZero() {
		training.ID = primitive.NewObjectID()
	}
	m.trainings[training.ID] = training
	return training, nil
}

func (m *mockTrainingStore) FindByID(id string) (*models.Training, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("training %w", repository.ErrNotFound)
	}
	training, ok := m.trainings[oid]
	if !ok {
		return nil, fmt.Errorf("training %w", repository.ErrNotFound)
	}
	return training, nil
}

func (m *mockTrainingStore) Find(filter repository.TrainingFilter, page, limit int) ([]*models.Training, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []*models.Training
	for _, training := range m.trainings {
		if filter.TrainingType != "" && training.TrainingType != filter.TrainingType {
			continue
		}
		if filter.Status != "" && training.Status != filter.Status {
			continue
		}
		found = append(found, training)
	}
	return found, nil
}

func (m *mockTrainingStore) Count(filter repository.TrainingFilter) (int64, error) {
	found, _ := m.Find(filter, 1, 0)
	return int64(len(found)), nil
}

func (m *mockTrainingStore) FindActiveByTypes(types []string) ([]*models.Training, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []*models.Training
	for _, training := range m.trainings {
		if training.Status != models.TrainingStatusActive {
			continue
		}
		if len(types) > 0 {
			match := false
			for _, t := range types {
				if training.TrainingType == t {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		found = append(found, training)
	}
	return found, nil
}

func (m *mockTrainingStore) Update(id string, training *models.Training) (*models.Training, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("training %w", repository.ErrNotFound)
	}
	if _, ok := m.trainings[oid]; !ok {
		return nil, fmt.Errorf("training %w", repository.ErrNotFound)
	}
	m.trainings[oid] = training
	return training, nil
}

func (m *mockTrainingStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("training %w", repository.ErrNotFound)
	}
	if _, ok := m.trainings[oid]; !ok {
		return fmt.Errorf("training %w", repository.ErrNotFound)
	}
	delete(m.trainings, oid)
	return nil
}

type assignmentKey struct {
	userID     primitive.ObjectID
	trainingID primitive.ObjectID
}

// mockAssignmentStore enforces the same (user, training) uniqueness as the
// collection's index.
type mockAssignmentStore struct {
	mu          sync.Mutex
	assignments map[assignmentKey]*models.TrainingAssignment
}

func newMockAssignmentStore() *mockAssignmentStore {
	return &mockAssignmentStore{assignments: make(map[assignmentKey]*models.TrainingAssignment)}
}

func (m *mockAssignmentStore) Create(assignment *models.TrainingAssignment) (*models.TrainingAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := assignmentKey{assignment.UserID, assignment.TrainingID}
	if _, ok := m.assignments[key]; ok {
		return nil, errors.New("duplicate key error")
	}
	if assignment.ID.IsZero() {
		assignment.ID = primitive.NewObjectID()
	}
	m.assignments[key] = assignment
	return assignment, nil
}

func (m *mockAssignmentStore) FindByUserAndTraining(userID, trainingID primitive.ObjectID) (*models.TrainingAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.assignments[assignmentKey{userID, trainingID}]
	if !ok {
		return nil, repository.ErrAssignmentNotFound
	}
	return assignment, nil
}

func (m *mockAssignmentStore) FindByUser(userID primitive.ObjectID) ([]*models.TrainingAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []*models.TrainingAssignment
	for key, assignment := range m.assignments {
		if key.userID == userID {
			found = append(found, assignment)
		}
	}
	return found, nil
}

func (m *mockAssignmentStore) FindByTraining(trainingID primitive.ObjectID) ([]*models.TrainingAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []*models.TrainingAssignment
	for key, assignment := range m.assignments {
		if key.trainingID == trainingID {
			found = append(found, assignment)
		}
	}
	return found, nil
}

func (m *mockAssignmentStore) Update(assignment *models.TrainingAssignment) (*models.TrainingAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := assignmentKey{assignment.UserID, assignment.TrainingID}
	if _, ok := m.assignments[key]; !ok {
		return nil, repository.ErrAssignmentNotFound
	}
	m.assignments[key] = assignment
	return assignment, nil
}

func (m *mockAssignmentStore) Delete(userID, trainingID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := assignmentKey{userID, trainingID}
	if _, ok := m.assignments[key]; !ok {
		return repository.ErrAssignmentNotFound
	}
	delete(m.assignments, key)
	return nil
}

type mockNotificationStore struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

func newMockNotificationStore() *mockNotificationStore {
	return &mockNotificationStore{}
}

func (m *mockNotificationStore) Create(notification *models.Notification) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	m.notifications = append(m.notifications, notification)
	return notification, nil
}

func (m *mockNotificationStore) CreateMany(notifications []*models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, notifications...)
	return nil
}

func (m *mockNotificationStore) FindByID(id string) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID.Hex() == id {
			return n, nil
		}
	}
	return nil, fmt.Errorf("notification %w", repository.ErrNotFound)
}

func (m *mockNotificationStore) FindByRecipient(recipient primitive.ObjectID, filter repository.NotificationFilter, page, limit int) ([]*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []*models.Notification
	for _, n := range m.notifications {
		if n.Recipient != recipient {
			continue
		}
		if filter.Status != "" && n.Status != filter.Status {
			continue
		}
		if filter.Type != "" && n.Type != filter.Type {
			continue
		}
		found = append(found, n)
	}
	return found, nil
}

func (m *mockNotificationStore) CountByRecipient(recipient primitive.ObjectID, filter repository.NotificationFilter) (int64, error) {
	found, _ := m.FindByRecipient(recipient, filter, 1, 0)
	return int64(len(found)), nil
}

func (m *mockNotificationStore) CountUnread(recipient primitive.ObjectID) (int64, error) {
	return m.CountByRecipient(recipient, repository.NotificationFilter{Status: models.NotificationStatusUnread})
}

func (m *mockNotificationStore) MarkRead(id string, recipient primitive.ObjectID) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID.Hex() != id || n.Recipient != recipient {
			continue
		}
		if n.Status == models.NotificationStatusUnread {
			readAt := now()
			n.Status = models.NotificationStatusRead
			n.ReadAt = &readAt
		}
		return n, nil
	}
	return nil, fmt.Errorf("notification %w", repository.ErrNotFound)
}

func (m *mockNotificationStore) MarkAllRead(recipient primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var updated int64
	for _, n := range m.notifications {
		if n.Recipient == recipient && n.Status == models.NotificationStatusUnread {
			readAt := now()
			n.Status = models.NotificationStatusRead
			n.ReadAt = &readAt
			updated++
		}
	}
	return updated, nil
}

func (m *mockNotificationStore) Delete(id string, recipient primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.notifications {
		if n.ID.Hex() == id && n.Recipient == recipient {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("notification %w", repository.ErrNotFound)
}

// forRecipient returns the stored notifications addressed to one user.
func (m *mockNotificationStore) forRecipient(recipient primitive.ObjectID) []*models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []*models.Notification
	for _, n := range m.notifications {
		if n.Recipient == recipient {
			found = append(found, n)
		}
	}
	return found
}
