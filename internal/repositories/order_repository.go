package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tiffin_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// OrderRepository defines the interface for order-related database operations.
// Mutating methods take an SQLExecutor so the service layer can run a whole
// logical operation inside one transaction.
type OrderRepository interface {
	// Id allocation
	NextOrderID(executor SQLExecutor) (string, error)
	NextItemID(executor SQLExecutor) (string, error)
	AllocateExtraIDs(executor SQLExecutor, count int) (*ExtraIDAllocator, error)

	// Order methods
	CreateOrder(executor SQLExecutor, order *models.Order) error
	GetOrderByID(orderID string) (*models.Order, error)
	GetOrders() ([]models.Order, error)
	GetOrdersByCustomer(customerID string) ([]models.Order, error)
	UpdateOrder(executor SQLExecutor, orderID string, updates []FieldUpdate) error
	CompleteOrder(executor SQLExecutor, orderID string, updatedAt time.Time) error
	DeleteOrder(executor SQLExecutor, orderID string) error

	// OrderItem methods
	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) error
	GetOrderItemByID(itemID string) (*models.OrderItem, error)
	GetOrderItemsByOrderID(orderID string) ([]models.OrderItem, error)
	GetItemStatusesByOrderID(executor SQLExecutor, orderID string) ([]string, error)
	UpdateOrderItem(executor SQLExecutor, itemID string, updates []FieldUpdate) error
	UpdateOrderItemScoped(executor SQLExecutor, orderID, itemID string, updates []FieldUpdate) error
	DeleteOrderItemsByOrderID(executor SQLExecutor, orderID string) error

	// OrderExtra methods
	CreateOrderExtra(executor SQLExecutor, extra *models.OrderExtra) error
	GetExtrasByItemID(itemID string) ([]models.OrderExtra, error)
	DeleteExtrasByOrderID(executor SQLExecutor, orderID string) error

	// Customer aggregate
	CountActiveOrders(executor SQLExecutor, customerID string) (int, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `order_id, customer_id, order_date, delivery_address, delivery_note,
	payment_mode, total_amount, status, created_by, updated_by, updated_at,
	review, review_status, cancel_status, cancel_reason`

const orderItemColumns = `item_id, order_id, menu_id, meal_type, quantity, price,
	delivery_date, week_number, day_of_week, status, cancelreason, note`

// --- Id allocation ---

func (r *orderRepository) NextOrderID(executor SQLExecutor) (string, error) {
	return nextDisplayID(executor, "order_id_seq", "ORD")
}

func (r *orderRepository) NextItemID(executor SQLExecutor) (string, error) {
	return nextDisplayID(executor, "order_item_id_seq", "item")
}

func (r *orderRepository) AllocateExtraIDs(executor SQLExecutor, count int) (*ExtraIDAllocator, error) {
	return allocateExtraIDs(executor, count)
}

// --- Order methods ---

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) error {
	query := `INSERT INTO order_master
	            (order_id, customer_id, order_date, delivery_address, delivery_note,
	             payment_mode, total_amount, status, created_by,
	             review, review_status, cancel_status, cancel_reason)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := executor.Exec(query,
		order.OrderID, order.CustomerID, order.OrderDate, order.DeliveryAddress, order.DeliveryNote,
		order.PaymentMode, order.TotalAmount, order.Status, order.CreatedBy,
		order.Review, order.ReviewStatus, order.CancelStatus, order.CancelReason,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: creating order (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return fmt.Errorf("%w: creating order %s: %v", ErrDatabaseError, order.OrderID, err)
	}
	return nil
}

func scanOrder(row interface{ Scan(...interface{}) error }, o *models.Order) error {
	return row.Scan(
		&o.OrderID, &o.CustomerID, &o.OrderDate, &o.DeliveryAddress, &o.DeliveryNote,
		&o.PaymentMode, &o.TotalAmount, &o.Status, &o.CreatedBy, &o.UpdatedBy, &o.UpdatedAt,
		&o.Review, &o.ReviewStatus, &o.CancelStatus, &o.CancelReason,
	)
}

func (r *orderRepository) GetOrderByID(orderID string) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM order_master WHERE order_id = $1`
	err := scanOrder(r.db.QueryRow(query, orderID), order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %s: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrders() ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM order_master ORDER BY order_date DESC`
	return r.queryOrders(query)
}

func (r *orderRepository) GetOrdersByCustomer(customerID string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM order_master WHERE customer_id = $1 ORDER BY order_date DESC`
	return r.queryOrders(query, customerID)
}

func (r *orderRepository) queryOrders(query string, args ...interface{}) ([]models.Order, error) {
	orders := []models.Order{}
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrder(executor SQLExecutor, orderID string, updates []FieldUpdate) error {
	setClauses, args := buildSetClauses(updates)
	args = append(args, orderID)
	query := fmt.Sprintf("UPDATE order_master SET %s WHERE order_id = $%d",
		strings.Join(setClauses, ", "), len(args))

	result, err := executor.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%w: updating order %s: %v", ErrDatabaseError, orderID, err)
	}
	return requireRowsAffected(result, "order update")
}

func (r *orderRepository) CompleteOrder(executor SQLExecutor, orderID string, updatedAt time.Time) error {
	query := `UPDATE order_master SET status = 'completed', updated_at = $1 WHERE order_id = $2`
	result, err := executor.Exec(query, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: completing order %s: %v", ErrDatabaseError, orderID, err)
	}
	return requireRowsAffected(result, "order completion")
}

func (r *orderRepository) DeleteOrder(executor SQLExecutor, orderID string) error {
	result, err := executor.Exec(`DELETE FROM order_master WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("%w: deleting order %s: %v", ErrDatabaseError, orderID, err)
	}
	return requireRowsAffected(result, "order delete")
}

// --- OrderItem methods ---

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) error {
	query := `INSERT INTO orditem_details
	            (item_id, order_id, menu_id, meal_type, quantity, price,
	             delivery_date, week_number, day_of_week, status, cancelreason, note)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := executor.Exec(query,
		item.ItemID, item.OrderID, item.MenuID, item.MealType, item.Quantity, item.Price,
		item.DeliveryDate, item.WeekNumber, item.DayOfWeek, item.Status, item.CancelReason, item.Note,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: creating order item (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return fmt.Errorf("%w: creating order item %s: %v", ErrDatabaseError, item.ItemID, err)
	}
	return nil
}

func scanOrderItem(row interface{ Scan(...interface{}) error }, i *models.OrderItem) error {
	return row.Scan(
		&i.ItemID, &i.OrderID, &i.MenuID, &i.MealType, &i.Quantity, &i.Price,
		&i.DeliveryDate, &i.WeekNumber, &i.DayOfWeek, &i.Status, &i.CancelReason, &i.Note,
	)
}

func (r *orderRepository) GetOrderItemByID(itemID string) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	query := `SELECT ` + orderItemColumns + ` FROM orditem_details WHERE item_id = $1`
	err := scanOrderItem(r.db.QueryRow(query, itemID), item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order item %s: %v", ErrDatabaseError, itemID, err)
	}
	return item, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(orderID string) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := `SELECT ` + orderItemColumns + ` FROM orditem_details WHERE order_id = $1 ORDER BY item_id`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items for order %s: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := scanOrderItem(rows, &item); err != nil {
			return nil, fmt.Errorf("%w: scanning order item for order %s: %v", ErrDatabaseError, orderID, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows for order %s: %v", ErrDatabaseError, orderID, err)
	}
	return items, nil
}

// GetItemStatusesByOrderID runs against the given executor so the
// all-delivered check can observe an in-flight item update.
func (r *orderRepository) GetItemStatusesByOrderID(executor SQLExecutor, orderID string) ([]string, error) {
	statuses := []string{}
	rows, err := executor.Query(`SELECT status FROM orditem_details WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying item statuses for order %s: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			return nil, fmt.Errorf("%w: scanning item status for order %s: %v", ErrDatabaseError, orderID, err)
		}
		statuses = append(statuses, status)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating item statuses for order %s: %v", ErrDatabaseError, orderID, err)
	}
	return statuses, nil
}

func (r *orderRepository) UpdateOrderItem(executor SQLExecutor, itemID string, updates []FieldUpdate) error {
	setClauses, args := buildSetClauses(updates)
	args = append(args, itemID)
	query := fmt.Sprintf("UPDATE orditem_details SET %s WHERE item_id = $%d",
		strings.Join(setClauses, ", "), len(args))

	result, err := executor.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%w: updating order item %s: %v", ErrDatabaseError, itemID, err)
	}
	return requireRowsAffected(result, "order item update")
}

// UpdateOrderItemScoped constrains the update to items of one order. An item
// id that belongs to another order matches zero rows and is not an error,
// mirroring the bulk details-update behaviour.
func (r *orderRepository) UpdateOrderItemScoped(executor SQLExecutor, orderID, itemID string, updates []FieldUpdate) error {
	setClauses, args := buildSetClauses(updates)
	args = append(args, orderID, itemID)
	query := fmt.Sprintf("UPDATE orditem_details SET %s WHERE order_id = $%d AND item_id = $%d",
		strings.Join(setClauses, ", "), len(args)-1, len(args))

	_, err := executor.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%w: updating order item %s of order %s: %v", ErrDatabaseError, itemID, orderID, err)
	}
	return nil
}

func (r *orderRepository) DeleteOrderItemsByOrderID(executor SQLExecutor, orderID string) error {
	_, err := executor.Exec(`DELETE FROM orditem_details WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("%w: deleting order items for order %s: %v", ErrDatabaseError, orderID, err)
	}
	return nil
}

// --- OrderExtra methods ---

func (r *orderRepository) CreateOrderExtra(executor SQLExecutor, extra *models.OrderExtra) error {
	query := `INSERT INTO ordextra_details (ordextra_id, item_id, dish_id, quantity)
	          VALUES ($1, $2, $3, $4)`
	_, err := executor.Exec(query, extra.OrdExtraID, extra.ItemID, extra.DishID, extra.Quantity)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: creating order extra (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return fmt.Errorf("%w: creating order extra %s: %v", ErrDatabaseError, extra.OrdExtraID, err)
	}
	return nil
}

func (r *orderRepository) GetExtrasByItemID(itemID string) ([]models.OrderExtra, error) {
	extras := []models.OrderExtra{}
	query := `SELECT ordextra_id, item_id, dish_id, quantity
	          FROM ordextra_details WHERE item_id = $1 ORDER BY ordextra_id`

	rows, err := r.db.Query(query, itemID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying extras for item %s: %v", ErrDatabaseError, itemID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.OrderExtra
		if err := rows.Scan(&e.OrdExtraID, &e.ItemID, &e.DishID, &e.Quantity); err != nil {
			return nil, fmt.Errorf("%w: scanning extra for item %s: %v", ErrDatabaseError, itemID, err)
		}
		extras = append(extras, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating extras for item %s: %v", ErrDatabaseError, itemID, err)
	}
	return extras, nil
}

func (r *orderRepository) DeleteExtrasByOrderID(executor SQLExecutor, orderID string) error {
	query := `DELETE FROM ordextra_details
	          WHERE item_id IN (SELECT item_id FROM orditem_details WHERE order_id = $1)`
	_, err := executor.Exec(query, orderID)
	if err != nil {
		return fmt.Errorf("%w: deleting extras for order %s: %v", ErrDatabaseError, orderID, err)
	}
	return nil
}

// --- Customer aggregate ---

func (r *orderRepository) CountActiveOrders(executor SQLExecutor, customerID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM order_master WHERE customer_id = $1 AND status != 'cancel'`
	if err := executor.QueryRow(query, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting active orders for customer %s: %v", ErrDatabaseError, customerID, err)
	}
	return count, nil
}

// --- helpers ---

func buildSetClauses(updates []FieldUpdate) ([]string, []interface{}) {
	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates))
	for i, u := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", u.Column, i+1))
		args = append(args, u.Value)
	}
	return setClauses, args
}

func requireRowsAffected(result sql.Result, operation string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for %s: %v", ErrDatabaseError, operation, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
