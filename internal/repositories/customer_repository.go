package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tiffin_backend/internal/models"

	"github.com/lib/pq"
)

// CustomerRepository defines the interface for customer directory operations.
type CustomerRepository interface {
	NextCustomerID(executor SQLExecutor) (string, error)
	CreateCustomer(executor SQLExecutor, customer *models.Customer) error
	GetCustomers() ([]models.Customer, error)
	GetCustomerByID(customerID string) (*models.Customer, error)
	UpdateCustomer(executor SQLExecutor, customerID string, updates []FieldUpdate) error
	// SetTotalOrders persists the customer's running count of non-cancelled
	// orders, recomputed by the order workflow after every mutation.
	SetTotalOrders(executor SQLExecutor, customerID string, total int) error
	DeleteCustomer(executor SQLExecutor, customerID string) error
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `customer_id, name, email, phone_number, address, status, total_order,
	created_by, created_on, updated_by, updated_on`

func (r *customerRepository) NextCustomerID(executor SQLExecutor) (string, error) {
	return nextDisplayID(executor, "customer_id_seq", "Cmr")
}

func (r *customerRepository) CreateCustomer(executor SQLExecutor, customer *models.Customer) error {
	query := `INSERT INTO customer (customer_id, name, email, phone_number, address, status, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := executor.Exec(query,
		customer.CustomerID, customer.Name, customer.Email, customer.PhoneNumber,
		customer.Address, customer.Status, customer.CreatedBy,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateKey
		}
		return fmt.Errorf("%w: creating customer %s: %v", ErrDatabaseError, customer.CustomerID, err)
	}
	return nil
}

func scanCustomer(row interface{ Scan(...interface{}) error }, c *models.Customer) error {
	return row.Scan(&c.CustomerID, &c.Name, &c.Email, &c.PhoneNumber, &c.Address, &c.Status,
		&c.TotalOrder, &c.CreatedBy, &c.CreatedOn, &c.UpdatedBy, &c.UpdatedOn)
}

func (r *customerRepository) GetCustomers() ([]models.Customer, error) {
	customers := []models.Customer{}
	rows, err := r.db.Query(`SELECT ` + customerColumns + ` FROM customer ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying customers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, fmt.Errorf("%w: scanning customer: %v", ErrDatabaseError, err)
		}
		customers = append(customers, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating customer rows: %v", ErrDatabaseError, err)
	}
	return customers, nil
}

func (r *customerRepository) GetCustomerByID(customerID string) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `SELECT ` + customerColumns + ` FROM customer WHERE customer_id = $1`
	err := scanCustomer(r.db.QueryRow(query, customerID), customer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer %s: %v", ErrDatabaseError, customerID, err)
	}
	return customer, nil
}

func (r *customerRepository) UpdateCustomer(executor SQLExecutor, customerID string, updates []FieldUpdate) error {
	setClauses, args := buildSetClauses(updates)
	args = append(args, customerID)
	query := fmt.Sprintf("UPDATE customer SET %s WHERE customer_id = $%d",
		strings.Join(setClauses, ", "), len(args))

	result, err := executor.Exec(query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateKey
		}
		return fmt.Errorf("%w: updating customer %s: %v", ErrDatabaseError, customerID, err)
	}
	return requireRowsAffected(result, "customer update")
}

func (r *customerRepository) SetTotalOrders(executor SQLExecutor, customerID string, total int) error {
	query := `UPDATE customer SET total_order = $1 WHERE customer_id = $2`
	_, err := executor.Exec(query, total, customerID)
	if err != nil {
		return fmt.Errorf("%w: setting total orders for customer %s: %v", ErrDatabaseError, customerID, err)
	}
	return nil
}

func (r *customerRepository) DeleteCustomer(executor SQLExecutor, customerID string) error {
	result, err := executor.Exec(`DELETE FROM customer WHERE customer_id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("%w: deleting customer %s: %v", ErrDatabaseError, customerID, err)
	}
	return requireRowsAffected(result, "customer delete")
}
