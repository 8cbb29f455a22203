package services

import (
	"fmt"
	"time"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService manages checklist tasks for onboarding and offboarding runs.
type TaskService struct {
	taskRepo      *repository.TaskRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
}

func NewTaskService(taskRepo *repository.TaskRepository, userRepo *repository.UserRepository, notifications *NotificationService) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	ProcessType string     `json:"processType" validate:"required,oneof=onboarding offboarding"`
	AssignedTo  string     `json:"assignedTo" validate:"required"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Attachments []string   `json:"attachments,omitempty"`
}

type UpdateTaskRequest struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Status      string     `json:"status,omitempty" validate:"omitempty,oneof=pending in-progress completed overdue"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Attachments []string   `json:"attachments,omitempty"`
}

func (s *TaskService) CreateTask(req *CreateTaskRequest, assignedBy Actor) (*models.Task, error) {
	assignee, err := s.userRepo.FindByID(req.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("assignee %w", repository.ErrNotFound)
	}

	task := &models.Task{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ProcessType: req.ProcessType,
		AssignedTo:  assignee.ID,
		AssignedBy:  assignedBy.ID,
		Status:      models.TaskStatusPending,
		DueDate:     req.DueDate,
		Attachments: req.Attachments,
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}
	if task.Attachments == nil {
		task.Attachments = []string{}
	}

	created, err := s.taskRepo.Create(task)
	if err != nil {
		return nil, err
	}

	senderID := assignedBy.ID
	notifyErr := s.notifications.Dispatch(NotificationInput{
		Recipient: assignee.ID,
		Sender:    &senderID,
		Title:     "New task assigned",
		Message:   fmt.Sprintf("You have been assigned the task %q", created.Title),
		Type:      models.NotificationTypeTask,
		Related:   taskRelated(created.ID),
	})
	if notifyErr != nil {
		fmt.Printf("Failed to notify user %s of task assignment: %v\n", assignee.ID.Hex(), notifyErr)
	}

	return created, nil
}

func (s *TaskService) GetTasks(filter repository.TaskFilter, page, limit int) ([]*models.Task, int64, error) {
	tasks, err := s.taskRepo.Find(filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.taskRepo.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (s *TaskService) GetTaskByID(id string, caller Actor) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if !canAccessTask(caller, task) {
		return nil, permissionError("not allowed to view this task")
	}

	return task, nil
}

// UpdateTask applies partial updates. Moving a task to completed stamps
// completedAt once and notifies the assigner; the timestamp never moves on a
// repeat completion.
func (s *TaskService) UpdateTask(id string, req *UpdateTaskRequest, caller Actor) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if !canAccessTask(caller, task) {
		return nil, permissionError("not allowed to modify this task")
	}

	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.Category != "" {
		task.Category = req.Category
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Attachments != nil {
		task.Attachments = req.Attachments
	}

	completing := false
	if req.Status != "" && req.Status != task.Status {
		if task.Status == models.TaskStatusCompleted {
			return nil, invalidError("task already completed")
		}
		task.Status = req.Status
		if req.Status == models.TaskStatusCompleted {
			completing = true
			if task.CompletedAt == nil {
				completedAt := now()
				task.CompletedAt = &completedAt
			}
		}
	}

	task.UpdatedAt = now()
	updated, err := s.taskRepo.Update(id, task)
	if err != nil {
		return nil, err
	}

	if completing && updated.AssignedBy != caller.ID {
		callerID := caller.ID
		notifyErr := s.notifications.Dispatch(NotificationInput{
			Recipient: updated.AssignedBy,
			Sender:    &callerID,
			Title:     "Task completed",
			Message:   fmt.Sprintf("The task %q has been completed", updated.Title),
			Type:      models.NotificationTypeTask,
			Related:   taskRelated(updated.ID),
		})
		if notifyErr != nil {
			fmt.Printf("Failed to notify assigner %s of task completion: %v\n", updated.AssignedBy.Hex(), notifyErr)
		}
	}

	return updated, nil
}

func (s *TaskService) DeleteTask(id string, caller Actor) error {
	if !caller.hasRole(models.RoleHR, models.RoleIT, models.RoleAdmin) {
		return permissionError("not allowed to delete tasks")
	}

	if _, err := s.taskRepo.FindByID(id); err != nil {
		return err
	}

	return s.taskRepo.Delete(id)
}

// MyTasks returns the caller's own tasks.
func (s *TaskService) MyTasks(caller Actor, status string, page, limit int) ([]*models.Task, int64, error) {
	assignedTo := caller.ID.Hex()
	filter := repository.TaskFilter{AssignedTo: assignedTo, Status: status}
	return s.GetTasks(filter, page, limit)
}

func canAccessTask(caller Actor, task *models.Task) bool {
	if caller.hasRole(models.RoleHR, models.RoleIT, models.RoleAdmin) {
		return true
	}
	return task.AssignedTo == caller.ID || task.AssignedBy == caller.ID
}

func taskRelated(id primitive.ObjectID) *models.RelatedObject {
	return &models.RelatedObject{
		ObjectType: "task",
		ObjectID:   id,
		Link:       "/tasks/" + id.Hex(),
	}
}
