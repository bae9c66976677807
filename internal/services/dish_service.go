package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tiffin_backend/internal/models"
	"tiffin_backend/internal/repositories"
)

var (
	ErrDishNotFound  = errors.New("dish not found")
	ErrDishNameTaken = errors.New("dish name already exists")
)

// CreateDishRequest carries a new catalog dish.
type CreateDishRequest struct {
	DishName  string  `json:"dishname" binding:"required"`
	Category  string  `json:"category" binding:"required"`
	Price     float64 `json:"price" binding:"required"`
	CreatedBy string  `json:"created_by" binding:"required"`
}

// UpdateDishRequest replaces a dish's fields.
type UpdateDishRequest struct {
	DishName  string  `json:"dishname" binding:"required"`
	Category  string  `json:"category" binding:"required"`
	Price     float64 `json:"price" binding:"required"`
	UpdatedBy string  `json:"updated_by" binding:"required"`
}

type DishService interface {
	CreateDish(req CreateDishRequest) (*models.Dish, error)
	GetDishes() ([]models.Dish, error)
	UpdateDish(dishID string, req UpdateDishRequest) (*models.Dish, error)
	DeleteDish(dishID string) error
}

type dishService struct {
	dishRepo repositories.DishRepository
	db       *sql.DB
}

// NewDishService creates a new instance of DishService.
func NewDishService(dr repositories.DishRepository, db *sql.DB) DishService {
	return &dishService{dishRepo: dr, db: db}
}

func (s *dishService) CreateDish(req CreateDishRequest) (*models.Dish, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	dishID, err := s.dishRepo.NextDishID(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate dish id: %w", err)
	}

	dish := models.Dish{
		DishID:    dishID,
		DishName:  req.DishName,
		Category:  req.Category,
		Price:     req.Price,
		CreatedBy: &req.CreatedBy,
	}
	if err := s.dishRepo.CreateDish(tx, &dish); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDishNameTaken
		}
		return nil, fmt.Errorf("failed to create dish: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit dish transaction: %w", err)
	}
	return &dish, nil
}

func (s *dishService) GetDishes() ([]models.Dish, error) {
	dishes, err := s.dishRepo.GetDishes()
	if err != nil {
		return nil, fmt.Errorf("failed to get dishes: %w", err)
	}
	return dishes, nil
}

func (s *dishService) UpdateDish(dishID string, req UpdateDishRequest) (*models.Dish, error) {
	dish := models.Dish{
		DishID:    dishID,
		DishName:  req.DishName,
		Category:  req.Category,
		Price:     req.Price,
		UpdatedBy: &req.UpdatedBy,
	}
	if err := s.dishRepo.UpdateDish(s.db, &dish); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDishNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDishNameTaken
		}
		return nil, fmt.Errorf("failed to update dish %s: %w", dishID, err)
	}
	return &dish, nil
}

func (s *dishService) DeleteDish(dishID string) error {
	if err := s.dishRepo.DeleteDish(s.db, dishID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrDishNotFound
		}
		return fmt.Errorf("failed to delete dish %s: %w", dishID, err)
	}
	return nil
}
