package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tiffin_backend/internal/models"
	"tiffin_backend/internal/repositories"
)

var ErrPromotionNotFound = errors.New("promotion not found")

// CreatePromotionRequest carries a new discount code.
type CreatePromotionRequest struct {
	PCode       string  `json:"pcode" binding:"required"`
	Discount    float64 `json:"discount" binding:"required"`
	Description *string `json:"description"`
	Status      string  `json:"status" binding:"required"`
	CreatedBy   *string `json:"created_by"`
}

// UpdatePromotionRequest patches promotion fields.
type UpdatePromotionRequest struct {
	PCode       *string  `json:"pcode"`
	Discount    *float64 `json:"discount"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	UpdatedBy   *string  `json:"updated_by"`
}

type PromotionService interface {
	CreatePromotion(req CreatePromotionRequest) (*models.Promotion, error)
	GetPromotions() ([]models.Promotion, error)
	UpdatePromotion(promoID string, req UpdatePromotionRequest) error
	DeletePromotion(promoID string) error
}

type promotionService struct {
	promoRepo repositories.PromotionRepository
	db        *sql.DB
}

// NewPromotionService creates a new instance of PromotionService.
func NewPromotionService(pr repositories.PromotionRepository, db *sql.DB) PromotionService {
	return &promotionService{promoRepo: pr, db: db}
}

func (s *promotionService) CreatePromotion(req CreatePromotionRequest) (*models.Promotion, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	promoID, err := s.promoRepo.NextPromoID(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate promotion id: %w", err)
	}

	promo := models.Promotion{
		PromoID:     promoID,
		PCode:       req.PCode,
		Discount:    req.Discount,
		Description: req.Description,
		Status:      req.Status,
		CreatedBy:   req.CreatedBy,
	}
	if err := s.promoRepo.CreatePromotion(tx, &promo); err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit promotion transaction: %w", err)
	}
	return &promo, nil
}

func (s *promotionService) GetPromotions() ([]models.Promotion, error) {
	promos, err := s.promoRepo.GetPromotions()
	if err != nil {
		return nil, fmt.Errorf("failed to get promotions: %w", err)
	}
	return promos, nil
}

func (s *promotionService) UpdatePromotion(promoID string, req UpdatePromotionRequest) error {
	updates := []repositories.FieldUpdate{}
	if req.PCode != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "pcode", Value: req.PCode})
	}
	if req.Discount != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "discount", Value: req.Discount})
	}
	if req.Description != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "description", Value: req.Description})
	}
	if req.Status != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "status", Value: req.Status})
	}
	if len(updates) == 0 {
		return ErrNoFieldsToUpdate
	}
	if req.UpdatedBy != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "updated_by", Value: req.UpdatedBy})
	}

	if err := s.promoRepo.UpdatePromotion(s.db, promoID, updates); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPromotionNotFound
		}
		return fmt.Errorf("failed to update promotion %s: %w", promoID, err)
	}
	return nil
}

func (s *promotionService) DeletePromotion(promoID string) error {
	if err := s.promoRepo.DeletePromotion(s.db, promoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPromotionNotFound
		}
		return fmt.Errorf("failed to delete promotion %s: %w", promoID, err)
	}
	return nil
}
