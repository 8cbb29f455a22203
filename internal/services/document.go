package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"onboard-backend/internal/models"
	"onboard-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxUploadSize caps a single document upload.
const MaxUploadSize = 10 << 20 // 10 MB

var allowedMimePrefixes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument",
	"image/",
	"text/plain",
}

// DocumentService stores uploaded files on disk, bucketed by MIME family,
// with their metadata in Mongo. Signature-required documents carry a
// sign-once workflow.
type DocumentService struct {
	documentRepo  *repository.DocumentRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
	uploadDir     string
}

func NewDocumentService(documentRepo *repository.DocumentRepository, userRepo *repository.UserRepository, notifications *NotificationService, uploadDir string) *DocumentService {
	return &DocumentService{
		documentRepo:  documentRepo,
		userRepo:      userRepo,
		notifications: notifications,
		uploadDir:     uploadDir,
	}
}

type UploadDocumentRequest struct {
	Title             string `form:"title" validate:"required"`
	Category          string `form:"category" validate:"required,oneof=contract policy identity compliance other"`
	Owner             string `form:"owner,omitempty"`
	RequiresSignature bool   `form:"requiresSignature"`
}

// Upload validates the file, writes it under the upload directory and
// records its metadata. The owner defaults to the uploader; hr and admin can
// upload on behalf of another user. Documents requiring a signature notify
// their owner.
func (s *DocumentService) Upload(c *gin.Context, header *multipart.FileHeader, req *UploadDocumentRequest, caller Actor) (*models.Document, error) {
	if header.Size > MaxUploadSize {
		return nil, invalidErrorf("file exceeds the %d MB limit", MaxUploadSize>>20)
	}

	mimeType := header.Header.Get("Content-Type")
	if !mimeAllowed(mimeType) {
		return nil, invalidErrorf("file type %s is not allowed", mimeType)
	}

	ownerID := caller.ID
	if req.Owner != "" && req.Owner != caller.ID.Hex() {
		if !caller.hasRole(models.RoleHR, models.RoleAdmin) {
			return nil, permissionError("not allowed to upload documents for another user")
		}
		owner, err := s.userRepo.FindByID(req.Owner)
		if err != nil {
			return nil, fmt.Errorf("owner %w", repository.ErrNotFound)
		}
		ownerID = owner.ID
	}

	docID := primitive.NewObjectID()
	bucket := mimeBucket(mimeType)
	storedName := docID.Hex() + filepath.Ext(header.Filename)
	destDir := filepath.Join(s.uploadDir, bucket)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare upload directory: %w", err)
	}
	destPath := filepath.Join(destDir, storedName)

	if err := c.SaveUploadedFile(header, destPath); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	document := &models.Document{
		ID:                docID,
		Title:             req.Title,
		Category:          req.Category,
		Owner:             ownerID,
		UploadedBy:        caller.ID,
		FileName:          header.Filename,
		FilePath:          destPath,
		MimeType:          mimeType,
		SizeBytes:         header.Size,
		RequiresSignature: req.RequiresSignature,
		CreatedAt:         now(),
		UpdatedAt:         now(),
	}

	created, err := s.documentRepo.Create(document)
	if err != nil {
		os.Remove(destPath)
		return nil, err
	}

	if created.RequiresSignature && created.Owner != caller.ID {
		callerID := caller.ID
		notifyErr := s.notifications.Dispatch(NotificationInput{
			Recipient: created.Owner,
			Sender:    &callerID,
			Title:     "Document requires your signature",
			Message:   fmt.Sprintf("The document %q is waiting for your signature", created.Title),
			Type:      models.NotificationTypeDocument,
			Priority:  models.NotificationPriorityHigh,
			Related: &models.RelatedObject{
				ObjectType: "document",
				ObjectID:   created.ID,
				Link:       "/documents/" + created.ID.Hex(),
			},
		})
		if notifyErr != nil {
			fmt.Printf("Failed to notify document owner %s: %v\n", created.Owner.Hex(), notifyErr)
		}
	}

	return created, nil
}

func (s *DocumentService) GetDocuments(filter repository.DocumentFilter, page, limit int) ([]*models.Document, int64, error) {
	documents, err := s.documentRepo.Find(filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.documentRepo.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	return documents, total, nil
}

func (s *DocumentService) GetDocumentByID(id string, caller Actor) (*models.Document, error) {
	document, err := s.documentRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if !canAccessDocument(caller, document) {
		return nil, permissionError("not allowed to view this document")
	}

	return document, nil
}

// FilePathFor resolves the on-disk path for a download, with the same access
// check as metadata reads.
func (s *DocumentService) FilePathFor(id string, caller Actor) (string, *models.Document, error) {
	document, err := s.GetDocumentByID(id, caller)
	if err != nil {
		return "", nil, err
	}
	return document.FilePath, document, nil
}

// Sign records the owner's signature. Only the owner can sign, only
// signature-required documents accept one, and a signed document stays
// signed: repeat calls return the document unchanged.
func (s *DocumentService) Sign(id string, caller Actor) (*models.Document, error) {
	document, err := s.documentRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if document.Owner != caller.ID {
		return nil, permissionError("only the document owner can sign")
	}
	if !document.RequiresSignature {
		return nil, invalidError("document does not require a signature")
	}
	if document.Signed() {
		return document, nil
	}

	signedAt := now()
	signedBy := caller.ID
	document.SignedBy = &signedBy
	document.SignedAt = &signedAt
	document.UpdatedAt = now()

	updated, err := s.documentRepo.Update(id, document)
	if err != nil {
		return nil, err
	}

	if updated.UploadedBy != caller.ID {
		callerID := caller.ID
		notifyErr := s.notifications.Dispatch(NotificationInput{
			Recipient: updated.UploadedBy,
			Sender:    &callerID,
			Title:     "Document signed",
			Message:   fmt.Sprintf("The document %q has been signed", updated.Title),
			Type:      models.NotificationTypeDocument,
			Related: &models.RelatedObject{
				ObjectType: "document",
				ObjectID:   updated.ID,
				Link:       "/documents/" + updated.ID.Hex(),
			},
		})
		if notifyErr != nil {
			fmt.Printf("Failed to notify uploader %s of signature: %v\n", updated.UploadedBy.Hex(), notifyErr)
		}
	}

	return updated, nil
}

func (s *DocumentService) DeleteDocument(id string, caller Actor) error {
	document, err := s.documentRepo.FindByID(id)
	if err != nil {
		return err
	}

	if document.UploadedBy != caller.ID && !caller.hasRole(models.RoleHR, models.RoleAdmin) {
		return permissionError("not allowed to delete this document")
	}

	if err := s.documentRepo.Delete(id); err != nil {
		return err
	}

	if err := os.Remove(document.FilePath); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Failed to remove file %s: %v\n", document.FilePath, err)
	}

	return nil
}

func canAccessDocument(caller Actor, document *models.Document) bool {
	if caller.hasRole(models.RoleHR, models.RoleAdmin) {
		return true
	}
	return document.Owner == caller.ID || document.UploadedBy == caller.ID
}

func mimeAllowed(mimeType string) bool {
	for _, prefix := range allowedMimePrefixes {
		if strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}

func mimeBucket(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "images"
	case mimeType == "application/pdf":
		return "pdf"
	case mimeType == "text/plain":
		return "text"
	default:
		return "office"
	}
}
