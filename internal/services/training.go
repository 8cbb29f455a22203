package services

import (
	"errors"
	"fmt"
	"time"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"
	"onboard-backend/pkg/cache"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingService owns the training catalog and the assignment workflow:
// batch assignment, the per-assignment status machine, and the notification
// fan-out on every external state change.
type TrainingService struct {
	trainingRepo   TrainingStore
	assignmentRepo AssignmentStore
	userRepo       UserDirectory
	notifications  *NotificationService
	cache          *cache.Cache
}

func NewTrainingService(trainingRepo TrainingStore, assignmentRepo AssignmentStore, userRepo UserDirectory, notifications *NotificationService) *TrainingService {
	return &TrainingService{
		trainingRepo:   trainingRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		notifications:  notifications,
	}
}

// SetCache enables the active-catalog cache.
func (s *TrainingService) SetCache(c *cache.Cache) {
	s.cache = c
}

type CreateTrainingRequest struct {
	Title           string              `json:"title" validate:"required"`
	Description     string              `json:"description"`
	TrainingType    string              `json:"trainingType" validate:"required,oneof=onboarding orientation compliance skills other"`
	Status          string              `json:"status,omitempty" validate:"omitempty,oneof=active inactive archived"`
	IsCompliance    bool                `json:"isCompliance"`
	DeliveryMethod  string              `json:"deliveryMethod,omitempty" validate:"omitempty,oneof=online in_person"`
	DurationMinutes int                 `json:"durationMinutes,omitempty" validate:"omitempty,min=0"`
	RequiredFor     *models.RequiredFor `json:"requiredFor,omitempty"`
	ScheduledAt     *time.Time          `json:"scheduledAt,omitempty"`
}

type UpdateTrainingRequest struct {
	Title           string              `json:"title,omitempty"`
	Description     string              `json:"description,omitempty"`
	Status          string              `json:"status,omitempty" validate:"omitempty,oneof=active inactive archived"`
	IsCompliance    *bool               `json:"isCompliance,omitempty"`
	DeliveryMethod  string              `json:"deliveryMethod,omitempty" validate:"omitempty,oneof=online in_person"`
	DurationMinutes *int                `json:"durationMinutes,omitempty" validate:"omitempty,min=0"`
	RequiredFor     *models.RequiredFor `json:"requiredFor,omitempty"`
	ScheduledAt     *time.Time          `json:"scheduledAt,omitempty"`
}

func (s *TrainingService) CreateTraining(req *CreateTrainingRequest, createdBy Actor) (*models.Training, error) {
	status := req.Status
	if status == "" {
		status = models.TrainingStatusActive
	}
	delivery := req.DeliveryMethod
	if delivery == "" {
		delivery = models.DeliveryOnline
	}

	training := &models.Training{
		ID:              primitive.NewObjectID(),
		Title:           req.Title,
		Description:     req.Description,
		TrainingType:    req.TrainingType,
		Status:          status,
		IsCompliance:    req.IsCompliance || req.TrainingType == models.TrainingTypeCompliance,
		DeliveryMethod:  delivery,
		DurationMinutes: req.DurationMinutes,
		ScheduledAt:     req.ScheduledAt,
		CreatedBy:       createdBy.ID,
		CreatedAt:       now(),
		UpdatedAt:       now(),
	}
	if req.RequiredFor != nil {
		training.RequiredFor = *req.RequiredFor
	}

	created, err := s.trainingRepo.Create(training)
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog()
	return created, nil
}

func (s *TrainingService) GetTrainings(filter repository.TrainingFilter, page, limit int) ([]*models.Training, int64, error) {
	// The plain active listing is the hot path; serve it from the catalog
	// cache and paginate in memory
	if filter.Status == models.TrainingStatusActive && filter.TrainingType == "" {
		catalog, err := s.ActiveTrainings()
		if err != nil {
			return nil, 0, err
		}
		return paginateTrainings(catalog, page, limit), int64(len(catalog)), nil
	}

	trainings, err := s.trainingRepo.Find(filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.trainingRepo.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	return trainings, total, nil
}

func paginateTrainings(trainings []*models.Training, page, limit int) []*models.Training {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = len(trainings)
	}
	start := (page - 1) * limit
	if start >= len(trainings) {
		return []*models.Training{}
	}
	end := start + limit
	if end > len(trainings) {
		end = len(trainings)
	}
	return trainings[start:end]
}

func (s *TrainingService) GetTrainingByID(id string) (*models.Training, error) {
	return s.trainingRepo.FindByID(id)
}

func (s *TrainingService) UpdateTraining(id string, req *UpdateTrainingRequest) (*models.Training, error) {
	training, err := s.trainingRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		training.Title = req.Title
	}
	if req.Description != "" {
		training.Description = req.Description
	}
	if req.Status != "" {
		training.Status = req.Status
	}
	if req.IsCompliance != nil {
		training.IsCompliance = *req.IsCompliance
	}
	if req.DeliveryMethod != "" {
		training.DeliveryMethod = req.DeliveryMethod
	}
	if req.DurationMinutes != nil {
		training.DurationMinutes = *req.DurationMinutes
	}
	if req.RequiredFor != nil {
		training.RequiredFor = *req.RequiredFor
	}
	if req.ScheduledAt != nil {
		training.ScheduledAt = req.ScheduledAt
	}

	updated, err := s.trainingRepo.Update(id, training)
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog()
	return updated, nil
}

func (s *TrainingService) DeleteTraining(id string) error {
	if _, err := s.trainingRepo.FindByID(id); err != nil {
		return err
	}

	if err := s.trainingRepo.Delete(id); err != nil {
		return err
	}

	s.invalidateCatalog()
	return nil
}

// ActiveTrainings returns the active catalog, cached when Redis is up.
func (s *TrainingService) ActiveTrainings() ([]*models.Training, error) {
	if s.cache != nil {
		cached, err := s.cache.GetActiveTrainings()
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			fmt.Printf("Cache error for ActiveTrainings: %v\n", err)
		}
	}

	trainings, err := s.trainingRepo.FindActiveByTypes(nil)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetActiveTrainings(trainings, cache.DefaultCatalogTTL); cacheErr != nil {
			fmt.Printf("Failed to cache active trainings: %v\n", cacheErr)
		}
	}

	return trainings, nil
}

func (s *TrainingService) invalidateCatalog() {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateActiveTrainings(); err != nil {
		fmt.Printf("Failed to invalidate training catalog cache: %v\n", err)
	}
}

type AssignRequest struct {
	UserIDs []string   `json:"userIds" validate:"required,min=1"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

type AssignmentFailure struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

// AssignResult reports the batch outcome per user. The batch never rolls
// back: assignments created before a later failure stay committed.
type AssignResult struct {
	Successful      []string            `json:"successful"`
	AlreadyAssigned []string            `json:"alreadyAssigned"`
	Failed          []AssignmentFailure `json:"failed"`
}

// AssignUsers links each target user to the training. A user with an
// existing assignment is reported in alreadyAssigned and never duplicated.
// Each newly created assignment produces exactly one notification to the
// assignee.
func (s *TrainingService) AssignUsers(trainingID string, req *AssignRequest, assignedBy Actor) (*AssignResult, error) {
	training, err := s.trainingRepo.FindByID(trainingID)
	if err != nil {
		return nil, err
	}

	result := &AssignResult{
		Successful:      []string{},
		AlreadyAssigned: []string{},
		Failed:          []AssignmentFailure{},
	}

	for _, rawID := range req.UserIDs {
		user, err := s.userRepo.FindByID(rawID)
		if err != nil {
			result.Failed = append(result.Failed, AssignmentFailure{UserID: rawID, Reason: "user not found"})
			continue
		}

		_, err = s.assignmentRepo.FindByUserAndTraining(user.ID, training.ID)
		if err == nil {
			result.AlreadyAssigned = append(result.AlreadyAssigned, rawID)
			continue
		}
		if !errors.Is(err, repository.ErrAssignmentNotFound) {
			result.Failed = append(result.Failed, AssignmentFailure{UserID: rawID, Reason: err.Error()})
			continue
		}

		assignment := &models.TrainingAssignment{
			ID:         primitive.NewObjectID(),
			TrainingID: training.ID,
			UserID:     user.ID,
			AssignedBy: assignedBy.ID,
			Status:     models.AssignmentStatusAssigned,
			DueDate:    req.DueDate,
			CreatedAt:  now(),
			UpdatedAt:  now(),
		}

		if _, err := s.assignmentRepo.Create(assignment); err != nil {
			result.Failed = append(result.Failed, AssignmentFailure{UserID: rawID, Reason: err.Error()})
			continue
		}

		result.Successful = append(result.Successful, rawID)
		s.notifyAssigned(training, user.ID, assignedBy)
	}

	return result, nil
}

func (s *TrainingService) notifyAssigned(training *models.Training, recipient primitive.ObjectID, assignedBy Actor) {
	senderID := assignedBy.ID
	err := s.notifications.Dispatch(NotificationInput{
		Recipient: recipient,
		Sender:    &senderID,
		Title:     "New training assigned",
		Message:   fmt.Sprintf("You have been assigned the training %q", training.Title),
		Type:      models.NotificationTypeTraining,
		Related:   trainingRelated(training.ID),
	})
	if err != nil {
		// Assignment stays committed; the missing notification is logged only
		fmt.Printf("Failed to notify user %s of training assignment: %v\n", recipient.Hex(), err)
	}
}

// Unassign removes a user's assignment. A user who never held the assignment
// yields not-found; a successful removal always notifies the former assignee.
func (s *TrainingService) Unassign(trainingID, userID string) error {
	training, err := s.trainingRepo.FindByID(trainingID)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}

	if err := s.assignmentRepo.Delete(user.ID, training.ID); err != nil {
		return err
	}

	err = s.notifications.Dispatch(NotificationInput{
		Recipient: user.ID,
		Title:     "Training unassigned",
		Message:   fmt.Sprintf("You are no longer assigned to the training %q", training.Title),
		Type:      models.NotificationTypeTraining,
		Related:   trainingRelated(training.ID),
	})
	if err != nil {
		fmt.Printf("Failed to notify user %s of training unassignment: %v\n", user.ID.Hex(), err)
	}

	return nil
}

// ErrNotAssignmentOwner is returned when a caller tries to advance someone
// else's assignment without the required role.
var ErrNotAssignmentOwner = permissionError("not allowed to modify this assignment")

func canActOnAssignment(caller Actor, assignee primitive.ObjectID) bool {
	return caller.ID == assignee || caller.hasRole(models.RoleAdmin, models.RoleHR)
}

// StartAssignment moves an assignment to in_progress. startedAt is set on the
// first entry only; re-entering is a no-op on the timestamp. A completed
// assignment cannot be restarted.
func (s *TrainingService) StartAssignment(trainingID, userID string, caller Actor) (*models.TrainingAssignment, error) {
	training, err := s.trainingRepo.FindByID(trainingID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if !canActOnAssignment(caller, user.ID) {
		return nil, ErrNotAssignmentOwner
	}

	assignment, err := s.assignmentRepo.FindByUserAndTraining(user.ID, training.ID)
	if err != nil {
		return nil, err
	}

	switch assignment.Status {
	case models.AssignmentStatusCompleted:
		return nil, invalidError("assignment already completed")
	case models.AssignmentStatusInProgress:
		return assignment, nil
	}

	assignment.Status = models.AssignmentStatusInProgress
	if assignment.StartedAt == nil {
		startedAt := now()
		assignment.StartedAt = &startedAt
	}
	assignment.UpdatedAt = now()

	return s.assignmentRepo.Update(assignment)
}

type CompleteRequest struct {
	Score    *float64 `json:"score,omitempty" validate:"omitempty,min=0,max=100"`
	Feedback string   `json:"feedback,omitempty"`
}

// CompleteAssignment moves an assignment to completed. completed is terminal:
// repeating the call neither changes status nor touches completedAt.
//
// Completion fans out: the training's creator is notified unless they are the
// completer; a compliance-flagged training additionally notifies every hr
// user except the completer and the creator.
func (s *TrainingService) CompleteAssignment(trainingID, userID string, req *CompleteRequest, caller Actor) (*models.TrainingAssignment, error) {
	training, err := s.trainingRepo.FindByID(trainingID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if !canActOnAssignment(caller, user.ID) {
		return nil, ErrNotAssignmentOwner
	}

	assignment, err := s.assignmentRepo.FindByUserAndTraining(user.ID, training.ID)
	if err != nil {
		return nil, err
	}

	if assignment.Status == models.AssignmentStatusCompleted {
		return assignment, nil
	}

	assignment.Status = models.AssignmentStatusCompleted
	if assignment.CompletedAt == nil {
		completedAt := now()
		assignment.CompletedAt = &completedAt
	}
	if req != nil {
		if req.Score != nil {
			assignment.Score = req.Score
		}
		if req.Feedback != "" {
			assignment.Feedback = req.Feedback
		}
	}
	assignment.UpdatedAt = now()

	updated, err := s.assignmentRepo.Update(assignment)
	if err != nil {
		return nil, err
	}

	s.notifyCompleted(training, user, caller)
	return updated, nil
}

func (s *TrainingService) notifyCompleted(training *models.Training, assignee *models.User, completer Actor) {
	completerID := completer.ID

	if training.CreatedBy != completerID {
		err := s.notifications.Dispatch(NotificationInput{
			Recipient: training.CreatedBy,
			Sender:    &completerID,
			Title:     "Training completed",
			Message:   fmt.Sprintf("%s %s completed the training %q", assignee.FirstName, assignee.LastName, training.Title),
			Type:      models.NotificationTypeTraining,
			Related:   trainingRelated(training.ID),
		})
		if err != nil {
			fmt.Printf("Failed to notify training creator %s: %v\n", training.CreatedBy.Hex(), err)
		}
	}

	if !training.IsCompliance {
		return
	}

	hrUsers, err := s.userRepo.FindByRole(models.RoleHR)
	if err != nil {
		fmt.Printf("Failed to resolve hr users for compliance notification: %v\n", err)
		return
	}

	notified := map[primitive.ObjectID]bool{
		completerID:        true,
		training.CreatedBy: true,
	}
	for _, hr := range hrUsers {
		if notified[hr.ID] {
			continue
		}
		notified[hr.ID] = true

		err := s.notifications.Dispatch(NotificationInput{
			Recipient: hr.ID,
			Sender:    &completerID,
			Title:     "Compliance training completed",
			Message:   fmt.Sprintf("%s %s completed the compliance training %q", assignee.FirstName, assignee.LastName, training.Title),
			Type:      models.NotificationTypeTraining,
			Priority:  models.NotificationPriorityHigh,
			Related:   trainingRelated(training.ID),
		})
		if err != nil {
			fmt.Printf("Failed to notify hr user %s of compliance completion: %v\n", hr.ID.Hex(), err)
		}
	}
}

// SetAssignmentStatus is the administrative escape hatch for statuses the
// happy-path endpoints do not produce, such as overdue or expired. There is
// no background sweep; overdue only ever appears through this call. The
// completed state stays terminal here too.
func (s *TrainingService) SetAssignmentStatus(trainingID, userID, status string, caller Actor) (*models.TrainingAssignment, error) {
	if !caller.hasRole(models.RoleAdmin, models.RoleHR) {
		return nil, ErrNotAssignmentOwner
	}

	if status != models.AssignmentStatusOverdue && status != models.AssignmentStatusExpired {
		return nil, invalidError("status must be overdue or expired")
	}

	training, err := s.trainingRepo.FindByID(trainingID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.FindByUserAndTraining(user.ID, training.ID)
	if err != nil {
		return nil, err
	}

	if assignment.Status == models.AssignmentStatusCompleted {
		return nil, invalidError("assignment already completed")
	}

	assignment.Status = status
	assignment.UpdatedAt = now()

	return s.assignmentRepo.Update(assignment)
}

func (s *TrainingService) GetAssignments(trainingID string) ([]*models.TrainingAssignment, error) {
	training, err := s.trainingRepo.FindByID(trainingID)
	if err != nil {
		return nil, err
	}

	return s.assignmentRepo.FindByTraining(training.ID)
}

func trainingRelated(id primitive.ObjectID) *models.RelatedObject {
	return &models.RelatedObject{
		ObjectType: "training",
		ObjectID:   id,
		Link:       "/trainings/" + id.Hex(),
	}
}
