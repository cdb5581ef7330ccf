package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/nriproperty/portal/internal/models"
	apperrors "github.com/nriproperty/portal/pkg/errors"
)

// ContractService tracks contracts issued to leads and the signed documents
// they submit back.
type ContractService struct {
	db *gorm.DB
}

// NewContractService constructs a ContractService backed by the given database.
func NewContractService(db *gorm.DB) (*ContractService, error) {
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	return &ContractService{db: db}, nil
}

// AddContract records a contract file an operator issued to a lead.
func (s *ContractService) AddContract(ctx context.Context, leadID, filePath, fileName, uploadedBy string) (*models.Contract, error) {
	if uploadedBy == "" {
		uploadedBy = "admin"
	}

	contract := &models.Contract{
		LeadID:     leadID,
		FilePath:   filePath,
		FileName:   fileName,
		UploadedBy: uploadedBy,
	}
	if err := s.db.WithContext(ctx).Create(contract).Error; err != nil {
		return nil, apperrors.Wrap(err, "Failed to save contract")
	}

	return contract, nil
}

// ListContracts returns every contract issued to a lead, newest first.
func (s *ContractService) ListContracts(ctx context.Context, leadID string) ([]models.Contract, error) {
	var contracts []models.Contract
	err := s.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Find(&contracts).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to list contracts")
	}
	return contracts, nil
}

// LatestContract returns the most recently issued contract for a lead, or
// ErrNotFound when none has been issued yet.
func (s *ContractService) LatestContract(ctx context.Context, leadID string) (*models.Contract, error) {
	var contract models.Contract
	err := s.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		First(&contract).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "Failed to load contract")
	}
	return &contract, nil
}

// AddSignedDocument records a file the lead submitted back for review.
func (s *ContractService) AddSignedDocument(ctx context.Context, leadID, fileName, fileURL string, fileSize int64) (*models.SignedDocument, error) {
	doc := &models.SignedDocument{
		LeadID:   leadID,
		FileName: fileName,
		FileSize: fileSize,
		FileURL:  fileURL,
		Status:   models.DocumentStatusUnderReview,
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, apperrors.Wrap(err, "Failed to save document")
	}
	return doc, nil
}

// ListSignedDocuments returns a lead's submitted documents, newest first.
func (s *ContractService) ListSignedDocuments(ctx context.Context, leadID string) ([]models.SignedDocument, error) {
	var docs []models.SignedDocument
	err := s.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to list documents")
	}
	return docs, nil
}

// ReviewSignedDocument moves a submitted document into an accepted or
// rejected state.
func (s *ContractService) ReviewSignedDocument(ctx context.Context, docID, status string) (*models.SignedDocument, error) {
	if status != models.DocumentStatusAccepted && status != models.DocumentStatusRejected {
		return nil, apperrors.NewBadRequest("Unknown review status")
	}

	var doc models.SignedDocument
	if err := s.db.WithContext(ctx).Where("id = ?", docID).First(&doc).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "Failed to load document")
	}

	if err := s.db.WithContext(ctx).Model(&doc).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(err, "Failed to update document")
	}

	doc.Status = status
	return &doc, nil
}
