package services

import (
	"testing"
	"time"

	"onboard-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type onboardingFixture struct {
	users         *mockUserDirectory
	trainings     *mockTrainingStore
	assignments   *mockAssignmentStore
	notifications *mockNotificationStore
	service       *OnboardingService
}

func newOnboardingFixture() *onboardingFixture {
	users := newMockUserDirectory()
	trainings := newMockTrainingStore()
	assignments := newMockAssignmentStore()
	notifications := newMockNotificationStore()

	notificationService := NewNotificationService(notifications, users)
	service := NewOnboardingService(trainings, assignments, users, notificationService)

	return &onboardingFixture{
		users:         users,
		trainings:     trainings,
		assignments:   assignments,
		notifications: notifications,
		service:       service,
	}
}

func (f *onboardingFixture) addTraining(title, trainingType string, required models.RequiredFor) *models.Training {
	training, _ := f.trainings.Create(&models.Training{
		Title:        title,
		TrainingType: trainingType,
		Status:       models.TrainingStatusActive,
		RequiredFor:  required,
		CreatedBy:    primitive.NewObjectID(),
	})
	return training
}

func TestGenerateOnboarding_AudienceMatching(t *testing.T) {
	f := newOnboardingFixture()

	employee := f.users.add(&models.User{
		FirstName:  "New",
		LastName:   "Hire",
		Role:       models.RoleEmployee,
		Department: "Engineering",
		IsActive:   true,
	})
	hr := f.users.add(&models.User{Role: models.RoleHR, IsActive: true})
	hrActor := Actor{ID: hr.ID, Role: models.RoleHR}

	forAll := f.addTraining("Code of Conduct", models.TrainingTypeOnboarding,
		models.RequiredFor{AllEmployees: true})
	forDept := f.addTraining("Engineering Onboarding", models.TrainingTypeOnboarding,
		models.RequiredFor{Departments: []string{"Engineering"}})
	forRole := f.addTraining("Manager Essentials", models.TrainingTypeOnboarding,
		models.RequiredFor{Roles: []string{models.RoleManager}})
	// Inactive trainings are never provisioned
	inactive, _ := f.trainings.Create(&models.Training{
		Title:        "Legacy Systems",
		TrainingType: models.TrainingTypeOnboarding,
		Status:       models.TrainingStatusInactive,
		RequiredFor:  models.RequiredFor{AllEmployees: true},
	})

	result, err := f.service.GenerateOnboarding(employee.ID.Hex(), nil, hrActor)
	require.NoError(t, err)

	assignedTitles := make(map[string]bool)
	for _, a := range result.Assigned {
		assignedTitles[a.Training.Title] = true
	}
	assert.True(t, assignedTitles[forAll.Title])
	assert.True(t, assignedTitles[forDept.Title])
	assert.False(t, assignedTitles[forRole.Title])
	assert.False(t, assignedTitles[inactive.Title])

	// One notification per created assignment
	assert.Len(t, f.notifications.forRecipient(employee.ID), len(result.Assigned))
}

func TestGenerateOnboarding_DueDatePolicy(t *testing.T) {
	f := newOnboardingFixture()

	employee := f.users.add(&models.User{Role: models.RoleEmployee, IsActive: true})
	hr := f.users.add(&models.User{Role: models.RoleHR, IsActive: true})
	hrActor := Actor{ID: hr.ID, Role: models.RoleHR}

	orientation := f.addTraining("Office Tour", models.TrainingTypeOrientation,
		models.RequiredFor{AllEmployees: true})
	onboarding := f.addTraining("Compliance Basics", models.TrainingTypeOnboarding,
		models.RequiredFor{AllEmployees: true})

	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	now = func() time.Time { return base }
	defer func() { now = time.Now }()

	result, err := f.service.GenerateOnboarding(employee.ID.Hex(), nil, hrActor)
	require.NoError(t, err)
	// Two catalog trainings plus the five synthesized modules
	require.Len(t, result.Assigned, 7)

	for _, a := range result.Assigned {
		require.NotNil(t, a.Assignment.DueDate)
		switch a.Training.ID {
		case onboarding.ID:
			assert.Equal(t, base.Add(14*24*time.Hour), *a.Assignment.DueDate)
		case orientation.ID:
			assert.Equal(t, base.Add(7*24*time.Hour), *a.Assignment.DueDate)
		default:
			assert.Equal(t, models.TrainingTypeOrientation, a.Training.TrainingType)
			assert.Equal(t, base.Add(7*24*time.Hour), *a.Assignment.DueDate)
		}
	}
}

func TestGenerateOnboarding_SynthesizesModulesWithoutStartDate(t *testing.T) {
	f := newOnboardingFixture()

	employee := f.users.add(&models.User{Role: models.RoleEmployee, IsActive: true})
	hr := f.users.add(&models.User{Role: models.RoleHR, IsActive: true})
	hrActor := Actor{ID: hr.ID, Role: models.RoleHR}

	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	now = func() time.Time { return base }
	defer func() { now = time.Now }()

	result, err := f.service.GenerateOnboarding(employee.ID.Hex(), nil, hrActor)
	require.NoError(t, err)
	require.Len(t, result.Assigned, 5)

	byTitle := make(map[string]OnboardingAssignment)
	for _, a := range result.Assigned {
		byTitle[a.Training.Title] = a
	}

	for _, title := range []string{
		"Company Introduction",
		"HR Policies and Procedures",
		"IT Systems and Security",
		"Department Introduction",
		"Workplace Safety",
	} {
		a, ok := byTitle[title]
		require.True(t, ok, "missing module %s", title)
		require.NotNil(t, a.Assignment.DueDate)
		assert.Equal(t, base.Add(7*24*time.Hour), *a.Assignment.DueDate)
	}

	// The in-person welcome session needs a start date to schedule
	_, ok := byTitle["Welcome Session"]
	assert.False(t, ok)

	// One notification per created assignment
	assert.Len(t, f.notifications.forRecipient(employee.ID), 5)
}

func TestGenerateOnboarding_StartDateSynthesizesCatalog(t *testing.T) {
	f := newOnboardingFixture()

	employee := f.users.add(&models.User{Role: models.RoleEmployee, IsActive: true})
	hr := f.users.add(&models.User{Role: models.RoleHR, IsActive: true})
	hrActor := Actor{ID: hr.ID, Role: models.RoleHR}

	startDate := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	result, err := f.service.GenerateOnboarding(employee.ID.Hex(),
		&GenerateOnboardingRequest{StartDate: &startDate}, hrActor)
	require.NoError(t, err)

	// Five modules plus the welcome session
	assert.Len(t, result.Assigned, 6)

	byTitle := make(map[string]OnboardingAssignment)
	for _, a := range result.Assigned {
		byTitle[a.Training.Title] = a
	}

	for _, title := range []string{
		"Company Introduction",
		"HR Policies and Procedures",
		"IT Systems and Security",
		"Department Introduction",
		"Workplace Safety",
	} {
		a, ok := byTitle[title]
		require.True(t, ok, "missing module %s", title)
		require.NotNil(t, a.Assignment.DueDate)
		assert.Equal(t, startDate, *a.Assignment.DueDate)
		assert.Equal(t, models.TrainingTypeOrientation, a.Training.TrainingType)
	}

	welcome, ok := byTitle["Welcome Session"]
	require.True(t, ok)
	assert.Equal(t, models.DeliveryInPerson, welcome.Training.DeliveryMethod)
	require.NotNil(t, welcome.Training.ScheduledAt)
	assert.Equal(t, startDate, *welcome.Training.ScheduledAt)
}

func TestGenerateOnboarding_Idempotent(t *testing.T) {
	f := newOnboardingFixture()

	employee := f.users.add(&models.User{Role: models.RoleEmployee, IsActive: true})
	hr := f.users.add(&models.User{Role: models.RoleHR, IsActive: true})
	hrActor := Actor{ID: hr.ID, Role: models.RoleHR}

	startDate := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	req := &GenerateOnboardingRequest{StartDate: &startDate}

	first, err := f.service.GenerateOnboarding(employee.ID.Hex(), req, hrActor)
	require.NoError(t, err)
	assert.Len(t, first.Assigned, 6)

	// Re-running reuses every synthesized training and skips every
	// existing assignment
	second, err := f.service.GenerateOnboarding(employee.ID.Hex(), req, hrActor)
	require.NoError(t, err)
	assert.Empty(t, second.Assigned)
	assert.Len(t, second.AlreadyCovered, 6)

	catalog, _ := f.trainings.FindActiveByTypes(nil)
	assert.Len(t, catalog, 6)

	// A second hire shares the same catalog
	other := f.users.add(&models.User{Role: models.RoleEmployee, IsActive: true})
	third, err := f.service.GenerateOnboarding(other.ID.Hex(), req, hrActor)
	require.NoError(t, err)
	assert.Len(t, third.Assigned, 6)

	catalog, _ = f.trainings.FindActiveByTypes(nil)
	assert.Len(t, catalog, 6)
}

func TestOrientationStatus(t *testing.T) {
	f := newOnboardingFixture()

	employee := f.users.add(&models.User{Role: models.RoleEmployee, IsActive: true})
	hr := f.users.add(&models.User{Role: models.RoleHR, IsActive: true})
	hrActor := Actor{ID: hr.ID, Role: models.RoleHR}

	f.addTraining("Office Tour", models.TrainingTypeOrientation, models.RequiredFor{AllEmployees: true})
	f.addTraining("Compliance Basics", models.TrainingTypeOnboarding, models.RequiredFor{AllEmployees: true})
	// Skills trainings are excluded from orientation progress
	skills := f.addTraining("Advanced Go", models.TrainingTypeSkills, models.RequiredFor{AllEmployees: true})

	result, err := f.service.GenerateOnboarding(employee.ID.Hex(), nil, hrActor)
	require.NoError(t, err)
	// Two catalog trainings plus the five synthesized modules
	require.Len(t, result.Assigned, 7)

	_, err = f.assignments.Create(&models.TrainingAssignment{
		TrainingID: skills.ID,
		UserID:     employee.ID,
		Status:     models.AssignmentStatusAssigned,
	})
	require.NoError(t, err)

	status, err := f.service.OrientationStatus(employee.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 7, status.Progress.Total)
	assert.Equal(t, 0, status.Progress.Completed)
	assert.Zero(t, status.Progress.Percentage)

	// Complete one of the seven
	first := result.Assigned[0].Assignment
	first.Status = models.AssignmentStatusCompleted
	_, err = f.assignments.Update(first)
	require.NoError(t, err)

	status, err = f.service.OrientationStatus(employee.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, status.Progress.Completed)
	assert.InDelta(t, 100.0/7.0, status.Progress.Percentage, 0.01)
}
