package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tiffin_backend/internal/models"
	"tiffin_backend/internal/repositories"
	"tiffin_backend/pkg/utils"
)

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrCustomerEmailTaken = errors.New("customer email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
)

// CreateCustomerRequest registers a new customer directory record.
type CreateCustomerRequest struct {
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email" binding:"required"`
	PhoneNumber string  `json:"phone_number" binding:"required"`
	Address     *string `json:"address"`
	Status      string  `json:"status"`
	CreatedBy   string  `json:"created_by" binding:"required"`
}

// UpdateCustomerRequest patches customer fields.
type UpdateCustomerRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	Status      *string `json:"status"`
	UpdatedBy   string  `json:"updated_by" binding:"required"`
}

type CustomerService interface {
	CreateCustomer(req CreateCustomerRequest) (*models.Customer, error)
	GetCustomers() ([]models.Customer, error)
	GetCustomerByID(customerID string) (*models.Customer, error)
	UpdateCustomer(customerID string, req UpdateCustomerRequest) error
	DeleteCustomer(customerID string) error
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	db           *sql.DB
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(cr repositories.CustomerRepository, db *sql.DB) CustomerService {
	return &customerService{customerRepo: cr, db: db}
}

func (s *customerService) CreateCustomer(req CreateCustomerRequest) (*models.Customer, error) {
	if !utils.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEmail, req.Email)
	}
	status := req.Status
	if status == "" {
		status = "active"
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	customerID, err := s.customerRepo.NextCustomerID(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate customer id: %w", err)
	}

	customer := models.Customer{
		CustomerID:  customerID,
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Status:      status,
		CreatedBy:   &req.CreatedBy,
	}
	if err := s.customerRepo.CreateCustomer(tx, &customer); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrCustomerEmailTaken
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit customer transaction: %w", err)
	}
	return &customer, nil
}

func (s *customerService) GetCustomers() ([]models.Customer, error) {
	customers, err := s.customerRepo.GetCustomers()
	if err != nil {
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}
	return customers, nil
}

func (s *customerService) GetCustomerByID(customerID string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetCustomerByID(customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer %s: %w", customerID, err)
	}
	return customer, nil
}

func (s *customerService) UpdateCustomer(customerID string, req UpdateCustomerRequest) error {
	if req.Email != nil && !utils.IsValidEmail(*req.Email) {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, *req.Email)
	}

	updates := []repositories.FieldUpdate{}
	if req.Name != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "name", Value: req.Name})
	}
	if req.Email != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "email", Value: req.Email})
	}
	if req.PhoneNumber != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "phone_number", Value: req.PhoneNumber})
	}
	if req.Address != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "address", Value: req.Address})
	}
	if req.Status != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "status", Value: req.Status})
	}
	if len(updates) == 0 {
		return ErrNoFieldsToUpdate
	}
	updates = append(updates,
		repositories.FieldUpdate{Column: "updated_on", Value: models.UKNow()},
		repositories.FieldUpdate{Column: "updated_by", Value: req.UpdatedBy},
	)

	if err := s.customerRepo.UpdateCustomer(s.db, customerID, updates); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCustomerNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return ErrCustomerEmailTaken
		}
		return fmt.Errorf("failed to update customer %s: %w", customerID, err)
	}
	return nil
}

func (s *customerService) DeleteCustomer(customerID string) error {
	if err := s.customerRepo.DeleteCustomer(s.db, customerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("failed to delete customer %s: %w", customerID, err)
	}
	return nil
}
