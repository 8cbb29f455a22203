package services

import (
	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedbackService collects survey responses about onboarding, offboarding
// and trainings.
type FeedbackService struct {
	feedbackRepo *repository.FeedbackRepository
}

func NewFeedbackService(feedbackRepo *repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo}
}

type SubmitFeedbackRequest struct {
	Category string `json:"category" validate:"required,oneof=onboarding offboarding training general"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment,omitempty"`
}

func (s *FeedbackService) SubmitFeedback(req *SubmitFeedbackRequest, author Actor) (*models.Feedback, error) {
	feedback := &models.Feedback{
		ID:          primitive.NewObjectID(),
		Author:      author.ID,
		Category:    req.Category,
		Rating:      req.Rating,
		Comment:     req.Comment,
		SubmittedAt: now(),
	}

	return s.feedbackRepo.Create(feedback)
}

func (s *FeedbackService) GetFeedback(category string, page, limit int) ([]*models.Feedback, int64, error) {
	entries, err := s.feedbackRepo.Find(category, page, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.feedbackRepo.Count(category)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (s *FeedbackService) GetFeedbackByID(id string, caller Actor) (*models.Feedback, error) {
	feedback, err := s.feedbackRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if feedback.Author != caller.ID && !caller.hasRole(models.RoleHR, models.RoleAdmin) {
		return nil, permissionError("not allowed to view this feedback")
	}

	return feedback, nil
}
