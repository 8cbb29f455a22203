package services

import (
	"fmt"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetService tracks company equipment through its lifecycle: available,
// assigned, maintenance, retired or lost.
type AssetService struct {
	assetRepo     *repository.AssetRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
}

func NewAssetService(assetRepo *repository.AssetRepository, userRepo *repository.UserRepository, notifications *NotificationService) *AssetService {
	return &AssetService{
		assetRepo:     assetRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

type CreateAssetRequest struct {
	Name         string `json:"name" validate:"required"`
	AssetTag     string `json:"assetTag" validate:"required"`
	Category     string `json:"category" validate:"required,oneof=laptop phone monitor access_card other"`
	SerialNumber string `json:"serialNumber,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type AssignAssetRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type ReportMaintenanceRequest struct {
	Description string `json:"description" validate:"required"`
}

func (s *AssetService) CreateAsset(req *CreateAssetRequest) (*models.Asset, error) {
	if existing, _ := s.assetRepo.FindByTag(req.AssetTag); existing != nil {
		return nil, invalidError("asset tag already in use")
	}

	asset := &models.Asset{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		AssetTag:     req.AssetTag,
		Category:     req.Category,
		SerialNumber: req.SerialNumber,
		Status:       models.AssetStatusAvailable,
		Notes:        req.Notes,
		Maintenance:  []models.MaintenanceEntry{},
		CreatedAt:    now(),
		UpdatedAt:    now(),
	}

	return s.assetRepo.Create(asset)
}

func (s *AssetService) GetAssets(filter repository.AssetFilter, page, limit int) ([]*models.Asset, int64, error) {
	assets, err := s.assetRepo.Find(filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.assetRepo.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	return assets, total, nil
}

func (s *AssetService) GetAssetByID(id string) (*models.Asset, error) {
	return s.assetRepo.FindByID(id)
}

// AssignAsset hands an available asset to a user and notifies them. Only an
// available asset can be assigned.
func (s *AssetService) AssignAsset(id string, req *AssignAssetRequest, caller Actor) (*models.Asset, error) {
	asset, err := s.assetRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if asset.Status != models.AssetStatusAvailable {
		return nil, invalidErrorf("asset is %s, not available", asset.Status)
	}

	user, err := s.userRepo.FindByID(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("user %w", repository.ErrNotFound)
	}

	assignedAt := now()
	asset.Status = models.AssetStatusAssigned
	asset.AssignedTo = &user.ID
	asset.AssignedAt = &assignedAt
	asset.UpdatedAt = now()

	updated, err := s.assetRepo.Update(id, asset)
	if err != nil {
		return nil, err
	}

	callerID := caller.ID
	notifyErr := s.notifications.Dispatch(NotificationInput{
		Recipient: user.ID,
		Sender:    &callerID,
		Title:     "Asset assigned to you",
		Message:   fmt.Sprintf("The asset %s (%s) has been assigned to you", updated.Name, updated.AssetTag),
		Type:      models.NotificationTypeAsset,
		Related:   assetRelated(updated.ID),
	})
	if notifyErr != nil {
		fmt.Printf("Failed to notify user %s of asset assignment: %v\n", user.ID.Hex(), notifyErr)
	}

	return updated, nil
}

// UnassignAsset returns an asset to the pool. Used during offboarding when
// equipment is collected.
func (s *AssetService) UnassignAsset(id string) (*models.Asset, error) {
	asset, err := s.assetRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if asset.Status != models.AssetStatusAssigned {
		return nil, invalidError("asset is not assigned")
	}

	asset.Status = models.AssetStatusAvailable
	asset.AssignedTo = nil
	asset.AssignedAt = nil
	asset.UpdatedAt = now()

	return s.assetRepo.Update(id, asset)
}

// ReportMaintenance flags an asset for maintenance and records who reported
// it. An assigned asset keeps its holder so it can return to them afterwards.
func (s *AssetService) ReportMaintenance(id string, req *ReportMaintenanceRequest, caller Actor) (*models.Asset, error) {
	asset, err := s.assetRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if asset.Status == models.AssetStatusRetired || asset.Status == models.AssetStatusLost {
		return nil, invalidErrorf("asset is %s", asset.Status)
	}

	asset.Status = models.AssetStatusMaintenance
	asset.Maintenance = append(asset.Maintenance, models.MaintenanceEntry{
		Description: req.Description,
		ReportedBy:  caller.ID,
		ReportedAt:  now(),
	})
	asset.UpdatedAt = now()

	return s.assetRepo.Update(id, asset)
}

// SetStatus handles the remaining transitions: back to available after
// maintenance, or out of circulation as retired or lost.
func (s *AssetService) SetStatus(id, status string) (*models.Asset, error) {
	switch status {
	case models.AssetStatusAvailable, models.AssetStatusRetired, models.AssetStatusLost:
	default:
		return nil, invalidError("status must be available, retired or lost")
	}

	asset, err := s.assetRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if asset.Status == models.AssetStatusAssigned && status == models.AssetStatusAvailable {
		return nil, invalidError("unassign the asset first")
	}

	asset.Status = status
	if status != models.AssetStatusAvailable {
		asset.AssignedTo = nil
		asset.AssignedAt = nil
	}
	asset.UpdatedAt = now()

	return s.assetRepo.Update(id, asset)
}

func (s *AssetService) DeleteAsset(id string) error {
	asset, err := s.assetRepo.FindByID(id)
	if err != nil {
		return err
	}

	if asset.Status == models.AssetStatusAssigned {
		return invalidError("cannot delete an assigned asset")
	}

	return s.assetRepo.Delete(id)
}

func assetRelated(id primitive.ObjectID) *models.RelatedObject {
	return &models.RelatedObject{
		ObjectType: "asset",
		ObjectID:   id,
		Link:       "/assets/" + id.Hex(),
	}
}
