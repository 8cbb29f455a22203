package services

import (
	"errors"
	"fmt"
	"time"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Due-date offsets applied when auto-provisioning assignments without an
// explicit start date.
const (
	orientationDueOffset = 7 * 24 * time.Hour
	onboardingDueOffset  = 14 * 24 * time.Hour
)

// orientationModules is the standard new-hire curriculum synthesized on
// every provisioning run. Matching is by title, so re-running provisioning
// for another hire reuses the existing trainings instead of duplicating them.
var orientationModules = []struct {
	Title       string
	Description string
	Duration    int
}{
	{"Company Introduction", "History, mission, values and organizational structure", 60},
	{"HR Policies and Procedures", "Leave, conduct, benefits and workplace policies", 90},
	{"IT Systems and Security", "Accounts, equipment, security awareness and acceptable use", 90},
	{"Department Introduction", "Team structure, responsibilities and ways of working", 60},
	{"Workplace Safety", "Emergency procedures, first aid and incident reporting", 45},
}

const welcomeSessionTitle = "Welcome Session"

// OnboardingService provisions the training plan for a new hire and reports
// orientation progress.
type OnboardingService struct {
	trainingRepo   TrainingStore
	assignmentRepo AssignmentStore
	userRepo       UserDirectory
	notifications  *NotificationService
}

func NewOnboardingService(trainingRepo TrainingStore, assignmentRepo AssignmentStore, userRepo UserDirectory, notifications *NotificationService) *OnboardingService {
	return &OnboardingService{
		trainingRepo:   trainingRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		notifications:  notifications,
	}
}

type GenerateOnboardingRequest struct {
	StartDate *time.Time `json:"startDate,omitempty"`
}

type OnboardingAssignment struct {
	Training   *models.Training           `json:"training"`
	Assignment *models.TrainingAssignment `json:"assignment"`
}

type GenerateOnboardingResult struct {
	Assigned       []OnboardingAssignment `json:"assigned"`
	AlreadyCovered []string               `json:"alreadyCovered"`
}

// onboardingRun accumulates one provisioning pass. The seen set guarantees
// each training is processed at most once per run, no matter how many paths
// select it.
type onboardingRun struct {
	result *GenerateOnboardingResult
	seen   map[primitive.ObjectID]bool
}

// GenerateOnboarding provisions the training plan for an employee. The
// standard orientation curriculum is created (or reused by title) and
// assigned, due on the start date when one is given and a week out
// otherwise; a start date additionally schedules an in-person welcome
// session. Every other applicable active onboarding and orientation training
// is assigned by audience matching on its requiredFor criteria. The
// operation is idempotent: trainings already assigned are reported under
// alreadyCovered and left untouched.
func (s *OnboardingService) GenerateOnboarding(employeeID string, req *GenerateOnboardingRequest, assignedBy Actor) (*GenerateOnboardingResult, error) {
	employee, err := s.userRepo.FindByID(employeeID)
	if err != nil {
		return nil, err
	}

	var startDate *time.Time
	if req != nil {
		startDate = req.StartDate
	}

	run := &onboardingRun{
		result: &GenerateOnboardingResult{
			Assigned:       []OnboardingAssignment{},
			AlreadyCovered: []string{},
		},
		seen: make(map[primitive.ObjectID]bool),
	}

	if err := s.provisionCurriculum(employee, startDate, assignedBy, run); err != nil {
		return nil, err
	}

	trainings, err := s.trainingRepo.FindActiveByTypes([]string{models.TrainingTypeOnboarding, models.TrainingTypeOrientation})
	if err != nil {
		return nil, err
	}

	for _, training := range trainings {
		if !training.RequiredFor.AppliesTo(employee) {
			continue
		}

		dueDate := now().Add(onboardingDueOffset)
		if training.TrainingType == models.TrainingTypeOrientation {
			dueDate = now().Add(orientationDueOffset)
		}

		if err := s.assignOne(training, employee, assignedBy, &dueDate, run); err != nil {
			return nil, err
		}
	}

	return run.result, nil
}

// provisionCurriculum materializes the standard orientation modules, plus an
// in-person welcome session when a start date is known.
func (s *OnboardingService) provisionCurriculum(employee *models.User, startDate *time.Time, assignedBy Actor, run *onboardingRun) error {
	existing, err := s.trainingRepo.FindActiveByTypes([]string{models.TrainingTypeOrientation})
	if err != nil {
		return err
	}

	byTitle := make(map[string]*models.Training, len(existing))
	for _, t := range existing {
		byTitle[t.Title] = t
	}

	due := now().Add(orientationDueOffset)
	if startDate != nil {
		due = *startDate
	}

	for _, module := range orientationModules {
		training := byTitle[module.Title]
		if training == nil {
			training, err = s.trainingRepo.Create(&models.Training{
				ID:              primitive.NewObjectID(),
				Title:           module.Title,
				Description:     module.Description,
				TrainingType:    models.TrainingTypeOrientation,
				Status:          models.TrainingStatusActive,
				DeliveryMethod:  models.DeliveryOnline,
				DurationMinutes: module.Duration,
				RequiredFor:     models.RequiredFor{AllEmployees: true},
				CreatedBy:       assignedBy.ID,
				CreatedAt:       now(),
				UpdatedAt:       now(),
			})
			if err != nil {
				return err
			}
		}

		moduleDue := due
		if err := s.assignOne(training, employee, assignedBy, &moduleDue, run); err != nil {
			return err
		}
	}

	if startDate == nil {
		return nil
	}

	session := byTitle[welcomeSessionTitle]
	if session == nil {
		scheduled := *startDate
		session, err = s.trainingRepo.Create(&models.Training{
			ID:              primitive.NewObjectID(),
			Title:           welcomeSessionTitle,
			Description:     "In-person welcome and team introductions on the first day",
			TrainingType:    models.TrainingTypeOrientation,
			Status:          models.TrainingStatusActive,
			DeliveryMethod:  models.DeliveryInPerson,
			DurationMinutes: 120,
			RequiredFor:     models.RequiredFor{AllEmployees: true},
			ScheduledAt:     &scheduled,
			CreatedBy:       assignedBy.ID,
			CreatedAt:       now(),
			UpdatedAt:       now(),
		})
		if err != nil {
			return err
		}
	}

	sessionDue := *startDate
	return s.assignOne(session, employee, assignedBy, &sessionDue, run)
}

func (s *OnboardingService) assignOne(training *models.Training, employee *models.User, assignedBy Actor, dueDate *time.Time, run *onboardingRun) error {
	if run.seen[training.ID] {
		return nil
	}
	run.seen[training.ID] = true

	_, err := s.assignmentRepo.FindByUserAndTraining(employee.ID, training.ID)
	if err == nil {
		run.result.AlreadyCovered = append(run.result.AlreadyCovered, training.Title)
		return nil
	}
	if !errors.Is(err, repository.ErrAssignmentNotFound) {
		return err
	}

	assignment, err := s.assignmentRepo.Create(&models.TrainingAssignment{
		ID:         primitive.NewObjectID(),
		TrainingID: training.ID,
		UserID:     employee.ID,
		AssignedBy: assignedBy.ID,
		Status:     models.AssignmentStatusAssigned,
		DueDate:    dueDate,
		CreatedAt:  now(),
		UpdatedAt:  now(),
	})
	if err != nil {
		return err
	}

	run.result.Assigned = append(run.result.Assigned, OnboardingAssignment{Training: training, Assignment: assignment})

	senderID := assignedBy.ID
	notifyErr := s.notifications.Dispatch(NotificationInput{
		Recipient: employee.ID,
		Sender:    &senderID,
		Title:     "New training assigned",
		Message:   fmt.Sprintf("You have been assigned the training %q", training.Title),
		Type:      models.NotificationTypeTraining,
		Related:   trainingRelated(training.ID),
	})
	if notifyErr != nil {
		fmt.Printf("Failed to notify user %s of onboarding assignment: %v\n", employee.ID.Hex(), notifyErr)
	}

	return nil
}

type OrientationProgress struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

type OrientationTrainingStatus struct {
	Training   *models.Training           `json:"training"`
	Assignment *models.TrainingAssignment `json:"assignment"`
}

type OrientationStatusResult struct {
	Employee  *models.User                `json:"employee"`
	Progress  OrientationProgress         `json:"progress"`
	Trainings []OrientationTrainingStatus `json:"trainings"`
}

// OrientationStatus reports an employee's progress across their orientation
// and onboarding assignments. Percentage is zero when nothing is assigned.
func (s *OnboardingService) OrientationStatus(employeeID string) (*OrientationStatusResult, error) {
	employee, err := s.userRepo.FindByID(employeeID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.FindByUser(employee.ID)
	if err != nil {
		return nil, err
	}

	result := &OrientationStatusResult{
		Employee:  employee,
		Trainings: []OrientationTrainingStatus{},
	}

	for _, assignment := range assignments {
		training, err := s.trainingRepo.FindByID(assignment.TrainingID.Hex())
		if err != nil {
			continue
		}
		if training.TrainingType != models.TrainingTypeOrientation && training.TrainingType != models.TrainingTypeOnboarding {
			continue
		}

		result.Trainings = append(result.Trainings, OrientationTrainingStatus{Training: training, Assignment: assignment})
		result.Progress.Total++
		if assignment.Status == models.AssignmentStatusCompleted {
			result.Progress.Completed++
		}
	}

	if result.Progress.Total > 0 {
		result.Progress.Percentage = float64(result.Progress.Completed) / float64(result.Progress.Total) * 100
	}

	return result, nil
}
