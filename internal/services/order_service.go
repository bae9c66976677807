package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tiffin_backend/internal/models"
	"tiffin_backend/internal/repositories"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderItemNotFound    = errors.New("order item not found")
	ErrMenuNotFound         = errors.New("menu not found")
	ErrNoOrdersForCustomer  = errors.New("no orders found for this customer")
	ErrCancelReasonRequired = errors.New("cancel reason is required when status is 'cancel'")
	ErrNoFieldsToUpdate     = errors.New("no valid fields provided for update")
)

// --- Data Transfer Objects (DTOs) ---

// ExtraDishRequest is one extra dish attached to an order item.
type ExtraDishRequest struct {
	DishID   string `json:"dish_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// OrderItemRequest is one menu selection of a new order.
type OrderItemRequest struct {
	MenuID      string             `json:"menu_id" binding:"required"`
	MealType    string             `json:"meal_type" binding:"required"`
	Note        *string            `json:"note"`
	ExtraDishes []ExtraDishRequest `json:"extra_dishes" binding:"omitempty,dive"`
}

// CreateOrderRequest is used for creating a new order with its items and extras.
type CreateOrderRequest struct {
	CustomerID      string             `json:"customer_id" binding:"required"`
	DeliveryAddress *string            `json:"delivery_address"`
	DeliveryNote    *string            `json:"delivery_note"`
	PaymentMode     *string            `json:"payment_mode"`
	TotalAmount     float64            `json:"total_amount" binding:"required"`
	Status          string             `json:"status"`
	CreatedBy       string             `json:"created_by" binding:"required"`
	Review          *string            `json:"review"`
	ReviewStatus    *string            `json:"review_status"`
	CancelStatus    *string            `json:"cancel_status"`
	CancelReason    *string            `json:"cancel_reason"`
	OrderItems      []OrderItemRequest `json:"order_items" binding:"required,min=1,dive"`
}

// CreateOrderResult carries the ids assigned during order creation.
type CreateOrderResult struct {
	OrderID string   `json:"order_id"`
	ItemIDs []string `json:"item_ids"`
}

// UpdateOrderRequest patches order-level fields.
type UpdateOrderRequest struct {
	DeliveryAddress *string  `json:"delivery_address"`
	DeliveryNote    *string  `json:"delivery_note"`
	PaymentMode     *string  `json:"payment_mode"`
	TotalAmount     *float64 `json:"total_amount"`
	Status          *string  `json:"status"`
	Review          *string  `json:"review"`
	ReviewStatus    *string  `json:"review_status"`
	CancelStatus    *string  `json:"cancel_status"`
	CancelReason    *string  `json:"cancel_reason"`
	UpdatedBy       string   `json:"updated_by" binding:"required"`
}

// OrderItemDetailsRequest patches the editable fields of one item inside a
// details update.
type OrderItemDetailsRequest struct {
	ItemID   string  `json:"item_id" binding:"required"`
	MealType *string `json:"meal_type"`
	Note     *string `json:"note"`
}

// UpdateOrderDetailsRequest patches delivery/payment fields along with
// per-item meal type and note.
type UpdateOrderDetailsRequest struct {
	DeliveryAddress *string                   `json:"delivery_address"`
	DeliveryNote    *string                   `json:"delivery_note"`
	PaymentMode     *string                   `json:"payment_mode"`
	TotalAmount     *float64                  `json:"total_amount"`
	UpdatedBy       string                    `json:"updated_by" binding:"required"`
	OrderItems      []OrderItemDetailsRequest `json:"order_items" binding:"omitempty,dive"`
}

// UpdateOrderItemRequest patches one item's fields. Setting status to cancel
// requires a cancel reason; the update may auto-complete the parent order.
type UpdateOrderItemRequest struct {
	MealType     *string  `json:"meal_type"`
	Note         *string  `json:"note"`
	Status       *string  `json:"status"`
	CancelReason *string  `json:"cancelreason"`
	Quantity     *int     `json:"quantity"`
	Price        *float64 `json:"price"`
}

// OrderView is an order with display-formatted timestamps.
type OrderView struct {
	models.Order
	OrderDate string  `json:"order_date"`
	UpdatedAt *string `json:"updated_at"`
}

// OrderItemView is an item with its delivery date display-formatted.
type OrderItemView struct {
	models.OrderItem
	DeliveryDate string `json:"delivery_date"`
}

// ItemWithExtras pairs one item with its extra dishes.
type ItemWithExtras struct {
	Item        OrderItemView       `json:"item"`
	ExtraDishes []models.OrderExtra `json:"extra_dishes"`
}

// NestedOrder is one order with its full item/extra tree.
type NestedOrder struct {
	Order      OrderView        `json:"order"`
	OrderItems []ItemWithExtras `json:"order_items"`
}

// OrderDetail is the single-order fetch shape: items and extras as flat lists.
type OrderDetail struct {
	Order       OrderView           `json:"order"`
	Items       []OrderItemView     `json:"items"`
	ExtraDishes []models.OrderExtra `json:"extra_dishes"`
}

// CustomerOrderItem is the reduced item projection used by the per-customer
// listing; internal bookkeeping fields are omitted.
type CustomerOrderItem struct {
	MenuID       string              `json:"menu_id"`
	MealType     string              `json:"meal_type"`
	DeliveryDate string              `json:"delivery_date"`
	WeekNumber   string              `json:"week_number"`
	DayOfWeek    string              `json:"day_of_week"`
	Status       string              `json:"status"`
	Note         *string             `json:"note"`
	ExtraDishes  []models.OrderExtra `json:"extra_dishes"`
}

// CustomerOrder is one order of the per-customer listing.
type CustomerOrder struct {
	Order      OrderView           `json:"order"`
	OrderItems []CustomerOrderItem `json:"order_items"`
}

// --- OrderService Interface ---

type OrderService interface {
	CreateOrder(req CreateOrderRequest) (*CreateOrderResult, error)
	GetAllOrders() ([]NestedOrder, error)
	GetOrderByID(orderID string) (*OrderDetail, error)
	GetOrdersByCustomer(customerID string) ([]CustomerOrder, error)
	UpdateOrder(orderID string, req UpdateOrderRequest) error
	UpdateOrderDetails(orderID string, req UpdateOrderDetailsRequest) error
	UpdateOrderItem(itemID string, req UpdateOrderItemRequest) (orderID string, err error)
	DeleteOrder(orderID string) error
}

type orderService struct {
	orderRepo    repositories.OrderRepository
	menuRepo     repositories.MenuRepository
	customerRepo repositories.CustomerRepository
	db           *sql.DB // For managing transactions
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	mr repositories.MenuRepository,
	cr repositories.CustomerRepository,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo:    or,
		menuRepo:     mr,
		customerRepo: cr,
		db:           db,
	}
}

// --- Method Implementations ---

func (s *orderService) CreateOrder(req CreateOrderRequest) (*CreateOrderResult, error) {
	status := req.Status
	if status == "" {
		status = StatusPending
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	orderID, err := s.orderRepo.NextOrderID(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order id: %w", err)
	}

	order := models.Order{
		OrderID:         orderID,
		CustomerID:      req.CustomerID,
		OrderDate:       models.UKNow(),
		DeliveryAddress: req.DeliveryAddress,
		DeliveryNote:    req.DeliveryNote,
		PaymentMode:     req.PaymentMode,
		TotalAmount:     req.TotalAmount,
		Status:          status,
		CreatedBy:       &req.CreatedBy,
		Review:          req.Review,
		ReviewStatus:    req.ReviewStatus,
		CancelStatus:    req.CancelStatus,
		CancelReason:    req.CancelReason,
	}
	if err := s.orderRepo.CreateOrder(tx, &order); err != nil {
		return nil, fmt.Errorf("failed to create order record: %w", err)
	}

	// One allocation round trip covers every extra of the whole call.
	totalExtras := 0
	for _, item := range req.OrderItems {
		totalExtras += len(item.ExtraDishes)
	}
	extraIDs, err := s.orderRepo.AllocateExtraIDs(tx, totalExtras)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate extra ids: %w", err)
	}

	today := todayUK()
	itemIDs := make([]string, 0, len(req.OrderItems))

	for _, itemReq := range req.OrderItems {
		week, day, err := s.menuRepo.GetDeliverySlot(tx, itemReq.MenuID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrMenuNotFound, itemReq.MenuID)
			}
			return nil, fmt.Errorf("failed to resolve menu %s: %w", itemReq.MenuID, err)
		}
		weekNum, err := parseSlotLabel(week, "week")
		if err != nil {
			return nil, err
		}
		dayNum, err := parseSlotLabel(day, "day")
		if err != nil {
			return nil, err
		}

		itemID, err := s.orderRepo.NextItemID(tx)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate item id: %w", err)
		}
		itemIDs = append(itemIDs, itemID)

		item := models.OrderItem{
			ItemID:       itemID,
			OrderID:      orderID,
			MenuID:       itemReq.MenuID,
			MealType:     itemReq.MealType,
			Quantity:     1,
			Price:        nil, // priced later
			DeliveryDate: resolveDeliveryDate(weekNum, dayNum, today),
			WeekNumber:   week,
			DayOfWeek:    day,
			Status:       StatusPending,
			Note:         itemReq.Note,
		}
		if err := s.orderRepo.CreateOrderItem(tx, &item); err != nil {
			return nil, fmt.Errorf("failed to create order item for menu %s: %w", itemReq.MenuID, err)
		}

		for _, extraReq := range itemReq.ExtraDishes {
			extraID, err := extraIDs.Next()
			if err != nil {
				return nil, fmt.Errorf("failed to assign extra id: %w", err)
			}
			extra := models.OrderExtra{
				OrdExtraID: extraID,
				ItemID:     itemID,
				DishID:     extraReq.DishID,
				Quantity:   extraReq.Quantity,
			}
			if err := s.orderRepo.CreateOrderExtra(tx, &extra); err != nil {
				return nil, fmt.Errorf("failed to create order extra for dish %s: %w", extraReq.DishID, err)
			}
		}
	}

	if err := s.syncCustomerOrderCount(tx, req.CustomerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	return &CreateOrderResult{OrderID: orderID, ItemIDs: itemIDs}, nil
}

func (s *orderService) GetAllOrders() ([]NestedOrder, error) {
	orders, err := s.orderRepo.GetOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	result := make([]NestedOrder, 0, len(orders))
	for _, order := range orders {
		items, err := s.collectItemsWithExtras(order.OrderID)
		if err != nil {
			return nil, err
		}
		result = append(result, NestedOrder{Order: buildOrderView(order), OrderItems: items})
	}
	return result, nil
}

func (s *orderService) GetOrderByID(orderID string) (*OrderDetail, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}

	items, err := s.orderRepo.GetOrderItemsByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for order %s: %w", orderID, err)
	}

	itemViews := make([]OrderItemView, 0, len(items))
	extras := []models.OrderExtra{}
	for _, item := range items {
		itemViews = append(itemViews, buildItemView(item))
		itemExtras, err := s.orderRepo.GetExtrasByItemID(item.ItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to get extras for item %s: %w", item.ItemID, err)
		}
		extras = append(extras, itemExtras...)
	}

	return &OrderDetail{
		Order:       buildOrderView(*order),
		Items:       itemViews,
		ExtraDishes: extras,
	}, nil
}

func (s *orderService) GetOrdersByCustomer(customerID string) ([]CustomerOrder, error) {
	orders, err := s.orderRepo.GetOrdersByCustomer(customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for customer %s: %w", customerID, err)
	}
	if len(orders) == 0 {
		return nil, ErrNoOrdersForCustomer
	}

	result := make([]CustomerOrder, 0, len(orders))
	for _, order := range orders {
		items, err := s.orderRepo.GetOrderItemsByOrderID(order.OrderID)
		if err != nil {
			return nil, fmt.Errorf("failed to get items for order %s: %w", order.OrderID, err)
		}

		projected := make([]CustomerOrderItem, 0, len(items))
		for _, item := range items {
			itemExtras, err := s.orderRepo.GetExtrasByItemID(item.ItemID)
			if err != nil {
				return nil, fmt.Errorf("failed to get extras for item %s: %w", item.ItemID, err)
			}
			projected = append(projected, CustomerOrderItem{
				MenuID:       item.MenuID,
				MealType:     item.MealType,
				DeliveryDate: models.FormatUK(item.DeliveryDate),
				WeekNumber:   item.WeekNumber,
				DayOfWeek:    item.DayOfWeek,
				Status:       item.Status,
				Note:         item.Note,
				ExtraDishes:  itemExtras,
			})
		}
		result = append(result, CustomerOrder{Order: buildOrderView(order), OrderItems: projected})
	}
	return result, nil
}

func (s *orderService) UpdateOrder(orderID string, req UpdateOrderRequest) error {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to fetch order for update: %w", err)
	}

	if req.Status != nil {
		if err := validateStatusChange(*req.Status, req.CancelReason); err != nil {
			return err
		}
	}

	updates := []repositories.FieldUpdate{}
	appendIfSet := func(column string, value interface{}, set bool) {
		if set {
			updates = append(updates, repositories.FieldUpdate{Column: column, Value: value})
		}
	}
	appendIfSet("delivery_address", req.DeliveryAddress, req.DeliveryAddress != nil)
	appendIfSet("delivery_note", req.DeliveryNote, req.DeliveryNote != nil)
	appendIfSet("payment_mode", req.PaymentMode, req.PaymentMode != nil)
	appendIfSet("total_amount", req.TotalAmount, req.TotalAmount != nil)
	appendIfSet("status", req.Status, req.Status != nil)
	appendIfSet("review", req.Review, req.Review != nil)
	appendIfSet("review_status", req.ReviewStatus, req.ReviewStatus != nil)
	appendIfSet("cancel_status", req.CancelStatus, req.CancelStatus != nil)
	appendIfSet("cancel_reason", req.CancelReason, req.CancelReason != nil)
	updates = append(updates,
		repositories.FieldUpdate{Column: "updated_at", Value: models.UKNow()},
		repositories.FieldUpdate{Column: "updated_by", Value: req.UpdatedBy},
	)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.UpdateOrder(tx, orderID, updates); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to update order %s: %w", orderID, err)
	}

	// A status change may move this order in or out of the cancelled set.
	if err := s.syncCustomerOrderCount(tx, order.CustomerID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *orderService) UpdateOrderDetails(orderID string, req UpdateOrderDetailsRequest) error {
	if _, err := s.orderRepo.GetOrderByID(orderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to fetch order for details update: %w", err)
	}

	updates := []repositories.FieldUpdate{}
	if req.DeliveryAddress != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "delivery_address", Value: req.DeliveryAddress})
	}
	if req.PaymentMode != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "payment_mode", Value: req.PaymentMode})
	}
	if req.TotalAmount != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "total_amount", Value: req.TotalAmount})
	}
	if req.DeliveryNote != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "delivery_note", Value: req.DeliveryNote})
	}
	updates = append(updates,
		repositories.FieldUpdate{Column: "updated_at", Value: models.UKNow()},
		repositories.FieldUpdate{Column: "updated_by", Value: req.UpdatedBy},
	)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.UpdateOrder(tx, orderID, updates); err != nil {
		return fmt.Errorf("failed to update order details %s: %w", orderID, err)
	}

	for _, itemReq := range req.OrderItems {
		itemUpdates := []repositories.FieldUpdate{}
		if itemReq.MealType != nil {
			itemUpdates = append(itemUpdates, repositories.FieldUpdate{Column: "meal_type", Value: itemReq.MealType})
		}
		if itemReq.Note != nil {
			itemUpdates = append(itemUpdates, repositories.FieldUpdate{Column: "note", Value: itemReq.Note})
		}
		if len(itemUpdates) == 0 {
			continue
		}
		if err := s.orderRepo.UpdateOrderItemScoped(tx, orderID, itemReq.ItemID, itemUpdates); err != nil {
			return fmt.Errorf("failed to update item %s of order %s: %w", itemReq.ItemID, orderID, err)
		}
	}

	return tx.Commit()
}

func (s *orderService) UpdateOrderItem(itemID string, req UpdateOrderItemRequest) (string, error) {
	item, err := s.orderRepo.GetOrderItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrOrderItemNotFound
		}
		return "", fmt.Errorf("failed to fetch order item %s: %w", itemID, err)
	}

	if req.Status != nil {
		if err := validateStatusChange(*req.Status, req.CancelReason); err != nil {
			return "", err
		}
	}

	updates := []repositories.FieldUpdate{}
	if req.MealType != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "meal_type", Value: req.MealType})
	}
	if req.Note != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "note", Value: req.Note})
	}
	if req.Status != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "status", Value: req.Status})
	}
	if req.CancelReason != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "cancelreason", Value: req.CancelReason})
	}
	if req.Quantity != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "quantity", Value: req.Quantity})
	}
	if req.Price != nil {
		updates = append(updates, repositories.FieldUpdate{Column: "price", Value: req.Price})
	}
	if len(updates) == 0 {
		return "", ErrNoFieldsToUpdate
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.UpdateOrderItem(tx, itemID, updates); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrOrderItemNotFound
		}
		return "", fmt.Errorf("failed to update order item %s: %w", itemID, err)
	}

	// Re-read the sibling statuses inside the same transaction: once every
	// item of the order is delivered, the order itself completes.
	statuses, err := s.orderRepo.GetItemStatusesByOrderID(tx, item.OrderID)
	if err != nil {
		return "", fmt.Errorf("failed to check item statuses for order %s: %w", item.OrderID, err)
	}
	if allItemsDelivered(statuses) {
		if err := s.orderRepo.CompleteOrder(tx, item.OrderID, models.UKNow()); err != nil {
			return "", fmt.Errorf("failed to complete order %s: %w", item.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit item update transaction: %w", err)
	}
	return item.OrderID, nil
}

func (s *orderService) DeleteOrder(orderID string) error {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to fetch order for deletion: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Dependency order: extras, then items, then the order row.
	if err := s.orderRepo.DeleteExtrasByOrderID(tx, orderID); err != nil {
		return fmt.Errorf("failed to delete extras for order %s: %w", orderID, err)
	}
	if err := s.orderRepo.DeleteOrderItemsByOrderID(tx, orderID); err != nil {
		return fmt.Errorf("failed to delete items for order %s: %w", orderID, err)
	}
	if err := s.orderRepo.DeleteOrder(tx, orderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to delete order %s: %w", orderID, err)
	}

	if err := s.syncCustomerOrderCount(tx, order.CustomerID); err != nil {
		return err
	}

	return tx.Commit()
}

// syncCustomerOrderCount recomputes the customer's count of non-cancelled
// orders and persists it, inside the caller's transaction.
func (s *orderService) syncCustomerOrderCount(executor repositories.SQLExecutor, customerID string) error {
	count, err := s.orderRepo.CountActiveOrders(executor, customerID)
	if err != nil {
		return fmt.Errorf("failed to count orders for customer %s: %w", customerID, err)
	}
	if err := s.customerRepo.SetTotalOrders(executor, customerID, count); err != nil {
		return fmt.Errorf("failed to update order count for customer %s: %w", customerID, err)
	}
	return nil
}

func (s *orderService) collectItemsWithExtras(orderID string) ([]ItemWithExtras, error) {
	items, err := s.orderRepo.GetOrderItemsByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for order %s: %w", orderID, err)
	}

	result := make([]ItemWithExtras, 0, len(items))
	for _, item := range items {
		extras, err := s.orderRepo.GetExtrasByItemID(item.ItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to get extras for item %s: %w", item.ItemID, err)
		}
		result = append(result, ItemWithExtras{Item: buildItemView(item), ExtraDishes: extras})
	}
	return result, nil
}

func buildOrderView(order models.Order) OrderView {
	return OrderView{
		Order:     order,
		OrderDate: models.FormatUK(order.OrderDate),
		UpdatedAt: models.FormatUKPtr(order.UpdatedAt),
	}
}

func buildItemView(item models.OrderItem) OrderItemView {
	return OrderItemView{
		OrderItem:    item,
		DeliveryDate: models.FormatUK(item.DeliveryDate),
	}
}
