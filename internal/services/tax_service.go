package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tiffin_backend/internal/models"
	"tiffin_backend/internal/repositories"
)

var ErrTaxNotFound = errors.New("tax not found")

// CreateTaxRequest carries a new tax or service-charge line.
type CreateTaxRequest struct {
	Name      string  `json:"name" binding:"required"`
	Type      string  `json:"type" binding:"required,oneof=tax charges"`
	Value     float64 `json:"value" binding:"required"`
	ValueType string  `json:"value_type" binding:"required,oneof=percentage pound"`
	CreatedBy string  `json:"created_by" binding:"required"`
}

// UpdateTaxRequest patches tax fields.
type UpdateTaxRequest struct {
	Name      *string  `json:"name"`
	Type      *string  `json:"type"`
	Value     *float64 `json:"value"`
	ValueType *string  `json:"value_type"`
	UpdatedBy string   `json:"updated_by" binding:"required"`
}

type TaxService interface {
	CreateTax(req CreateTaxRequest) (*models.Tax, error)
	GetTaxes() ([]models.Tax, error)
	UpdateTax(taxID string, req UpdateTaxRequest) error
	DeleteTax(taxID string) error
}

type taxService struct {
	taxRepo repositories.TaxRepository
	db      *sql.DB
}

// NewTaxService creates a new instance of TaxService.
func NewTaxService(tr repositories.TaxRepository, db *sql.DB) TaxService {
	return &taxService{taxRepo: tr, db: db}
}

func (s *taxService) CreateTax(req CreateTaxRequest) (*models.Tax, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	taxID, err := s.taxRepo.NextTaxID(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate tax id: %w", err)
	}

	tax := models.Tax{
		TaxID:     taxID,
		Name:      req.Name,
		Type:      req.Type,
		Value:     req.Value,
		ValueType: req.ValueType,
		CreatedBy: &req.CreatedBy,
	}
	if err := s.taxRepo.CreateTax(tx, &tax); err != nil {
		return nil, fmt.Errorf("failed to create tax: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tax transaction: %w", err)
	}
	return &tax, nil
}

func (s *taxService) GetTaxes() ([]models.Tax, error) {
	taxes, err := s.taxRepo.GetTaxes()
	if err != nil {
		return nil, fmt.Errorf("failed to get taxes: %w", err)
	}
	return taxes, nil
}

func (s *taxService) UpdateTax(taxID string, req UpdateTaxRequest) error {
	updates := []repositories.FieldUpdate{}
	if req.Name != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "name", Value: req.Name})
	}
	if req.Type != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "type", Value: req.Type})
	}
	if req.Value != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "value", Value: req.Value})
	}
	if req.ValueType != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "value_type", Value: req.ValueType})
	}
	if len(updates) == 0 {
		return ErrNoFieldsToUpdate
	}
	updates = append(updates, repositories.FieldUpdate{Column: "updated_by", Value: req.UpdatedBy})

	if err := s.taxRepo.UpdateTax(s.db, taxID, updates); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTaxNotFound
		}
		return fmt.Errorf("failed to update tax %s: %w", taxID, err)
	}
	return nil
}

func (s *taxService) DeleteTax(taxID string) error {
	if err := s.taxRepo.DeleteTax(s.db, taxID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTaxNotFound
		}
		return fmt.Errorf("failed to delete tax %s: %w", taxID, err)
	}
	return nil
}
