package models

import "time"

// Order is one logical purchase in order_master. An order exclusively owns
// its items; each item exclusively owns its extras.
type Order struct {
	OrderID         string     `json:"order_id"`
	CustomerID      string     `json:"customer_id"`
	OrderDate       time.Time  `json:"-"`
	DeliveryAddress *string    `json:"delivery_address"`
	DeliveryNote    *string    `json:"delivery_note"`
	PaymentMode     *string    `json:"payment_mode"`
	TotalAmount     float64    `json:"total_amount"`
	Status          string     `json:"status"`
	CreatedBy       *string    `json:"created_by"`
	UpdatedBy       *string    `json:"updated_by"`
	UpdatedAt       *time.Time `json:"-"`
	Review          *string    `json:"review"`
	ReviewStatus    *string    `json:"review_status"`
	CancelStatus    *string    `json:"cancel_status"`
	CancelReason    *string    `json:"cancel_reason"`
}

// OrderItem is one menu selection within an order. Delivery date and the
// week/day labels are fixed at creation time from the menu's current slot
// and never recomputed.
type OrderItem struct {
	ItemID       string    `json:"item_id"`
	OrderID      string    `json:"order_id"`
	MenuID       string    `json:"menu_id"`
	MealType     string    `json:"meal_type"`
	Quantity     int       `json:"quantity"`
	Price        *float64  `json:"price"`
	DeliveryDate time.Time `json:"-"`
	WeekNumber   string    `json:"week_number"`
	DayOfWeek    string    `json:"day_of_week"`
	Status       string    `json:"status"`
	CancelReason *string   `json:"cancelreason"`
	Note         *string   `json:"note"`
}

// OrderExtra is an additional dish attached to one order item.
type OrderExtra struct {
	OrdExtraID string `json:"ordextra_id"`
	ItemID     string `json:"item_id"`
	DishID     string `json:"dish_id"`
	Quantity   int    `json:"quantity"`
}
