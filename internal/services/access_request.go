package services

import (
	"fmt"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessRequestService handles requests for system access: submission,
// approval or rejection, fulfilment by it, and cancellation.
type AccessRequestService struct {
	requestRepo   *repository.AccessRequestRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
}

func NewAccessRequestService(requestRepo *repository.AccessRequestRepository, userRepo *repository.UserRepository, notifications *NotificationService) *AccessRequestService {
	return &AccessRequestService{
		requestRepo:   requestRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

type CreateAccessRequestRequest struct {
	SystemName    string `json:"systemName" validate:"required"`
	AccessLevel   string `json:"accessLevel" validate:"required"`
	Justification string `json:"justification"`
	Requester     string `json:"requester,omitempty"`
}

type DecideAccessRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Comment  string `json:"comment,omitempty"`
}

// CreateRequest opens a request. hr and it can file on behalf of another
// user; everyone else requests for themselves.
func (s *AccessRequestService) CreateRequest(req *CreateAccessRequestRequest, caller Actor) (*models.AccessRequest, error) {
	requesterID := caller.ID
	if req.Requester != "" && req.Requester != caller.ID.Hex() {
		if !caller.hasRole(models.RoleHR, models.RoleIT, models.RoleAdmin) {
			return nil, permissionError("not allowed to request access for another user")
		}
		user, err := s.userRepo.FindByID(req.Requester)
		if err != nil {
			return nil, fmt.Errorf("requester %w", repository.ErrNotFound)
		}
		requesterID = user.ID
	}

	request := &models.AccessRequest{
		ID:            primitive.NewObjectID(),
		Requester:     requesterID,
		SystemName:    req.SystemName,
		AccessLevel:   req.AccessLevel,
		Justification: req.Justification,
		Status:        models.AccessRequestStatusPending,
		Approvals:     []models.Approval{},
		CreatedAt:     now(),
		UpdatedAt:     now(),
	}

	return s.requestRepo.Create(request)
}

func (s *AccessRequestService) GetRequests(filter repository.AccessRequestFilter, page, limit int) ([]*models.AccessRequest, int64, error) {
	requests, err := s.requestRepo.Find(filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.requestRepo.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (s *AccessRequestService) GetRequestByID(id string, caller Actor) (*models.AccessRequest, error) {
	request, err := s.requestRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if request.Requester != caller.ID && !caller.hasRole(models.RoleHR, models.RoleIT, models.RoleManager, models.RoleAdmin) {
		return nil, permissionError("not allowed to view this request")
	}

	return request, nil
}

// Decide records one approver's decision. Each approver decides at most once;
// a rejection closes the request, an approval moves it to in_progress for it
// to fulfil. The requester is notified either way.
func (s *AccessRequestService) Decide(id string, req *DecideAccessRequest, caller Actor) (*models.AccessRequest, error) {
	request, err := s.requestRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if request.Status != models.AccessRequestStatusPending {
		return nil, invalidErrorf("request is %s, not pending", request.Status)
	}

	if request.Requester == caller.ID {
		return nil, permissionError("cannot decide your own request")
	}

	for _, approval := range request.Approvals {
		if approval.Approver == caller.ID {
			return nil, invalidError("you have already decided this request")
		}
	}

	request.Approvals = append(request.Approvals, models.Approval{
		Approver: caller.ID,
		Decision: req.Decision,
		Comment:  req.Comment,
		At:       now(),
	})

	if req.Decision == models.ApprovalDecisionRejected {
		request.Status = models.AccessRequestStatusRejected
	} else {
		request.Status = models.AccessRequestStatusInProgress
	}
	request.UpdatedAt = now()

	updated, err := s.requestRepo.Update(id, request)
	if err != nil {
		return nil, err
	}

	s.notifyRequester(updated, caller, fmt.Sprintf("Your access request for %s was %s", updated.SystemName, req.Decision))
	return updated, nil
}

type AssignAccessRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// Assign hands an approved request to an it user for fulfilment.
func (s *AccessRequestService) Assign(id string, req *AssignAccessRequest) (*models.AccessRequest, error) {
	request, err := s.requestRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if request.Status != models.AccessRequestStatusInProgress {
		return nil, invalidErrorf("request is %s, not in_progress", request.Status)
	}

	assignee, err := s.userRepo.FindByID(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("user %w", repository.ErrNotFound)
	}

	request.AssignedTo = &assignee.ID
	request.UpdatedAt = now()

	return s.requestRepo.Update(id, request)
}

// Complete marks an approved request as fulfilled and notifies the requester.
func (s *AccessRequestService) Complete(id string, caller Actor) (*models.AccessRequest, error) {
	request, err := s.requestRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if request.Status != models.AccessRequestStatusInProgress {
		return nil, invalidErrorf("request is %s, not in_progress", request.Status)
	}

	request.Status = models.AccessRequestStatusCompleted
	callerID := caller.ID
	request.AssignedTo = &callerID
	request.UpdatedAt = now()

	updated, err := s.requestRepo.Update(id, request)
	if err != nil {
		return nil, err
	}

	s.notifyRequester(updated, caller, fmt.Sprintf("Your access to %s has been provisioned", updated.SystemName))
	return updated, nil
}

// Cancel withdraws a request. Only the requester can cancel, and only before
// the request reaches a terminal state.
func (s *AccessRequestService) Cancel(id string, caller Actor) (*models.AccessRequest, error) {
	request, err := s.requestRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if request.Requester != caller.ID {
		return nil, permissionError("only the requester can cancel")
	}

	switch request.Status {
	case models.AccessRequestStatusPending, models.AccessRequestStatusInProgress:
	default:
		return nil, invalidErrorf("request is %s and cannot be cancelled", request.Status)
	}

	request.Status = models.AccessRequestStatusCancelled
	request.UpdatedAt = now()

	return s.requestRepo.Update(id, request)
}

func (s *AccessRequestService) notifyRequester(request *models.AccessRequest, actor Actor, message string) {
	actorID := actor.ID
	err := s.notifications.Dispatch(NotificationInput{
		Recipient: request.Requester,
		Sender:    &actorID,
		Title:     "Access request update",
		Message:   message,
		Type:      models.NotificationTypeAccess,
		Related: &models.RelatedObject{
			ObjectType: "access_request",
			ObjectID:   request.ID,
			Link:       "/access-requests/" + request.ID.Hex(),
		},
	})
	if err != nil {
		fmt.Printf("Failed to notify requester %s: %v\n", request.Requester.Hex(), err)
	}
}
