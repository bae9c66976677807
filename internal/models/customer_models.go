package models

import "time"

// Customer is a customer directory record. TotalOrder mirrors the count of
// the customer's non-cancelled orders and is maintained by the order workflow.
type Customer struct {
	CustomerID  string     `json:"customer_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	Address     *string    `json:"address"`
	Status      string     `json:"status"`
	TotalOrder  int        `json:"total_order"`
	CreatedBy   *string    `json:"created_by"`
	CreatedOn   time.Time  `json:"-"`
	UpdatedBy   *string    `json:"updated_by"`
	UpdatedOn   *time.Time `json:"-"`
}
