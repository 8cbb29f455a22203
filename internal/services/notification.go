package services

import (
	"fmt"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"
	"onboard-backend/pkg/cache"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService resolves recipient specs into notification documents
// and owns the read-state lifecycle.
type NotificationService struct {
	notificationRepo NotificationStore
	userRepo         UserDirectory
	cache            *cache.Cache
}

func NewNotificationService(notificationRepo NotificationStore, userRepo UserDirectory) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// SetCache enables the unread-count cache.
func (s *NotificationService) SetCache(c *cache.Cache) {
	s.cache = c
}

// NotificationInput is the internal payload used by the workflow engines.
// Recipients are assumed to be resolved already; no existence check here.
type NotificationInput struct {
	Recipient primitive.ObjectID
	Sender    *primitive.ObjectID
	Title     string
	Message   string
	Type      string
	Priority  string
	Related   *models.RelatedObject
}

// Dispatch inserts one notification as a side effect of a state change.
func (s *NotificationService) Dispatch(input NotificationInput) error {
	priority := input.Priority
	if priority == "" {
		priority = models.NotificationPriorityNormal
	}

	notification := &models.Notification{
		ID:            primitive.NewObjectID(),
		Recipient:     input.Recipient,
		Sender:        input.Sender,
		Title:         input.Title,
		Message:       input.Message,
		Type:          input.Type,
		Priority:      priority,
		Status:        models.NotificationStatusUnread,
		RelatedObject: input.Related,
		CreatedAt:     now(),
		UpdatedAt:     now(),
	}

	if _, err := s.notificationRepo.Create(notification); err != nil {
		return err
	}

	s.invalidateUnreadCount(input.Recipient)
	return nil
}

type CreateNotificationRequest struct {
	RecipientID  string   `json:"recipientId,omitempty"`
	RecipientIDs []string `json:"recipients,omitempty"`
	Role         string   `json:"role,omitempty" validate:"omitempty,oneof=employee hr it manager admin"`
	Title        string   `json:"title" validate:"required"`
	Message      string   `json:"message" validate:"required"`
	Type         string   `json:"type,omitempty" validate:"omitempty,oneof=task training access_request asset document general"`
	Priority     string   `json:"priority,omitempty" validate:"omitempty,oneof=low normal high urgent"`
}

// CreateNotifications handles the explicit notification endpoint. Exactly one
// of recipientId, recipients, or role must be set.
//
// The batch path is all-or-nothing: every requested recipient must resolve to
// an existing user or nothing is inserted. The role path inserts zero
// documents when no user holds the role, and that is a success.
func (s *NotificationService) CreateNotifications(req *CreateNotificationRequest, sender Actor) ([]*models.Notification, error) {
	specs := 0
	if req.RecipientID != "" {
		specs++
	}
	if len(req.RecipientIDs) > 0 {
		specs++
	}
	if req.Role != "" {
		specs++
	}
	if specs != 1 {
		return nil, invalidError("exactly one of recipientId, recipients, or role must be provided")
	}

	switch {
	case req.RecipientID != "":
		return s.createForUser(req, sender)
	case len(req.RecipientIDs) > 0:
		return s.createForBatch(req, sender)
	default:
		return s.createForRole(req, sender)
	}
}

func (s *NotificationService) createForUser(req *CreateNotificationRequest, sender Actor) ([]*models.Notification, error) {
	user, err := s.userRepo.FindByID(req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("recipient %w", repository.ErrNotFound)
	}

	notification := s.buildNotification(user.ID, req, sender)
	if _, err := s.notificationRepo.Create(notification); err != nil {
		return nil, err
	}

	s.invalidateUnreadCount(user.ID)
	return []*models.Notification{notification}, nil
}

func (s *NotificationService) createForBatch(req *CreateNotificationRequest, sender Actor) ([]*models.Notification, error) {
	ids := make([]primitive.ObjectID, 0, len(req.RecipientIDs))
	for _, raw := range req.RecipientIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, invalidErrorf("invalid recipient ID: %s", raw)
		}
		ids = append(ids, id)
	}

	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	// All-or-nothing: a single unknown recipient rejects the whole batch
	if len(users) != len(ids) {
		return nil, invalidErrorf("recipient count mismatch: requested %d, found %d", len(ids), len(users))
	}

	notifications := make([]*models.Notification, 0, len(users))
	for _, user := range users {
		notifications = append(notifications, s.buildNotification(user.ID, req, sender))
	}

	if err := s.notificationRepo.CreateMany(notifications); err != nil {
		return nil, err
	}

	for _, user := range users {
		s.invalidateUnreadCount(user.ID)
	}
	return notifications, nil
}

func (s *NotificationService) createForRole(req *CreateNotificationRequest, sender Actor) ([]*models.Notification, error) {
	users, err := s.userRepo.FindByRole(req.Role)
	if err != nil {
		return nil, err
	}

	// Zero holders of the role is not an error
	if len(users) == 0 {
		return []*models.Notification{}, nil
	}

	notifications := make([]*models.Notification, 0, len(users))
	for _, user := range users {
		notifications = append(notifications, s.buildNotification(user.ID, req, sender))
	}

	if err := s.notificationRepo.CreateMany(notifications); err != nil {
		return nil, err
	}

	for _, user := range users {
		s.invalidateUnreadCount(user.ID)
	}
	return notifications, nil
}

func (s *NotificationService) buildNotification(recipient primitive.ObjectID, req *CreateNotificationRequest, sender Actor) *models.Notification {
	ntype := req.Type
	if ntype == "" {
		ntype = models.NotificationTypeGeneral
	}
	priority := req.Priority
	if priority == "" {
		priority = models.NotificationPriorityNormal
	}

	senderID := sender.ID
	return &models.Notification{
		ID:        primitive.NewObjectID(),
		Recipient: recipient,
		Sender:    &senderID,
		Title:     req.Title,
		Message:   req.Message,
		Type:      ntype,
		Priority:  priority,
		Status:    models.NotificationStatusUnread,
		CreatedAt: now(),
		UpdatedAt: now(),
	}
}

func (s *NotificationService) GetNotifications(recipient primitive.ObjectID, filter repository.NotificationFilter, page, limit int) ([]*models.Notification, int64, error) {
	notifications, err := s.notificationRepo.FindByRecipient(recipient, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.notificationRepo.CountByRecipient(recipient, filter)
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// UnreadCount serves the badge counter, from cache when possible.
func (s *NotificationService) UnreadCount(recipient primitive.ObjectID) (int64, error) {
	if s.cache != nil {
		count, hit, err := s.cache.GetUnreadCount(recipient.Hex())
		if err == nil && hit {
			return count, nil
		}
		if err != nil {
			fmt.Printf("Cache error for UnreadCount(%s): %v\n", recipient.Hex(), err)
		}
	}

	count, err := s.notificationRepo.CountUnread(recipient)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetUnreadCount(recipient.Hex(), count, cache.DefaultUnreadCountTTL); cacheErr != nil {
			fmt.Printf("Failed to cache unread count for %s: %v\n", recipient.Hex(), cacheErr)
		}
	}

	return count, nil
}

func (s *NotificationService) MarkRead(id string, recipient primitive.ObjectID) (*models.Notification, error) {
	notification, err := s.notificationRepo.MarkRead(id, recipient)
	if err != nil {
		return nil, err
	}

	s.invalidateUnreadCount(recipient)
	return notification, nil
}

func (s *NotificationService) MarkAllRead(recipient primitive.ObjectID) (int64, error) {
	count, err := s.notificationRepo.MarkAllRead(recipient)
	if err != nil {
		return 0, err
	}

	s.invalidateUnreadCount(recipient)
	return count, nil
}

func (s *NotificationService) DeleteNotification(id string, recipient primitive.ObjectID) error {
	if err := s.notificationRepo.Delete(id, recipient); err != nil {
		return err
	}

	s.invalidateUnreadCount(recipient)
	return nil
}

func (s *NotificationService) invalidateUnreadCount(recipient primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUnreadCount(recipient.Hex()); err != nil {
		fmt.Printf("Failed to invalidate unread count for %s: %v\n", recipient.Hex(), err)
	}
}
