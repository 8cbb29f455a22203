package services

import (
	"time"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// now is overridable in tests that pin due-date arithmetic.
var now = time.Now

// Actor is the authenticated caller, resolved from JWT claims by the auth
// middleware.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

func (a Actor) hasRole(roles ...string) bool {
	for _, role := range roles {
		if a.Role == role {
			return true
		}
	}
	return false
}

// Store interfaces cover the repository methods the workflow engines touch,
// so engine behavior is testable against in-memory fakes. The concrete
// repository types satisfy them.

type UserDirectory interface {
	FindByID(id string) (*models.User, error)
	FindByIDs(ids []primitive.ObjectID) ([]*models.User, error)
	FindByRole(role string) ([]*models.User, error)
}

type TrainingStore interface {
	Create(training *models.Training) (*models.Training, error)
	FindByID(id string) (*models.Training, error)
	Find(filter repository.TrainingFilter, page, limit int) ([]*models.Training, error)
	Count(filter repository.TrainingFilter) (int64, error)
	FindActiveByTypes(types []string) ([]*models.Training, error)
	Update(id string, training *models.Training) (*models.Training, error)
	Delete(id string) error
}

type AssignmentStore interface {
	Create(assignment *models.TrainingAssignment) (*models.TrainingAssignment, error)
	FindByUserAndTraining(userID, trainingID primitive.ObjectID) (*models.TrainingAssignment, error)
	FindByUser(userID primitive.ObjectID) ([]*models.TrainingAssignment, error)
	FindByTraining(trainingID primitive.ObjectID) ([]*models.TrainingAssignment, error)
	Update(assignment *models.TrainingAssignment) (*models.TrainingAssignment, error)
	Delete(userID, trainingID primitive.ObjectID) error
}

type NotificationStore interface {
	Create(notification *models.Notification) (*models.Notification, error)
	CreateMany(notifications []*models.Notification) error
	FindByID(id string) (*models.Notification, error)
	FindByRecipient(recipient primitive.ObjectID, filter repository.NotificationFilter, page, limit int) ([]*models.Notification, error)
	CountByRecipient(recipient primitive.ObjectID, filter repository.NotificationFilter) (int64, error)
	CountUnread(recipient primitive.ObjectID) (int64, error)
	MarkRead(id string, recipient primitive.ObjectID) (*models.Notification, error)
	MarkAllRead(recipient primitive.ObjectID) (int64, error)
	Delete(id string, recipient primitive.ObjectID) error
}
