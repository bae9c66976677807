package services

import (
	"testing"
	"time"

	"tiffin_backend/internal/models"
	"tiffin_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) NextOrderID(executor repositories.SQLExecutor) (string, error) {
	args := m.Called(executor)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) NextItemID(executor repositories.SQLExecutor) (string, error) {
	args := m.Called(executor)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) AllocateExtraIDs(executor repositories.SQLExecutor, count int) (*repositories.ExtraIDAllocator, error) {
	args := m.Called(executor, count)
	if alloc, ok := args.Get(0).(*repositories.ExtraIDAllocator); ok {
		return alloc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(executor repositories.SQLExecutor, order *models.Order) error {
	args := m.Called(executor, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderByID(orderID string) (*models.Order, error) {
	args := m.Called(orderID)
	if order, ok := args.Get(0).(*models.Order); ok {
		return order, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetOrders() ([]models.Order, error) {
	args := m.Called()
	if orders, ok := args.Get(0).([]models.Order); ok {
		return orders, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetOrdersByCustomer(customerID string) ([]models.Order, error) {
	args := m.Called(customerID)
	if orders, ok := args.Get(0).([]models.Order); ok {
		return orders, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) UpdateOrder(executor repositories.SQLExecutor, orderID string, updates []repositories.FieldUpdate) error {
	args := m.Called(executor, orderID, updates)
	return args.Error(0)
}

func (m *MockOrderRepository) CompleteOrder(executor repositories.SQLExecutor, orderID string, updatedAt time.Time) error {
	args := m.Called(executor, orderID, updatedAt)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteOrder(executor repositories.SQLExecutor, orderID string) error {
	args := m.Called(executor, orderID)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderItem(executor repositories.SQLExecutor, item *models.OrderItem) error {
	args := m.Called(executor, item)
	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderItemByID(itemID string) (*models.OrderItem, error) {
	args := m.Called(itemID)
	if item, ok := args.Get(0).(*models.OrderItem); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetOrderItemsByOrderID(orderID string) ([]models.OrderItem, error) {
	args := m.Called(orderID)
	if items, ok := args.Get(0).([]models.OrderItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetItemStatusesByOrderID(executor repositories.SQLExecutor, orderID string) ([]string, error) {
	args := m.Called(executor, orderID)
	if statuses, ok := args.Get(0).([]string); ok {
		return statuses, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderItem(executor repositories.SQLExecutor, itemID string, updates []repositories.FieldUpdate) error {
	args := m.Called(executor, itemID, updates)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrderItemScoped(executor repositories.SQLExecutor, orderID, itemID string, updates []repositories.FieldUpdate) error {
	args := m.Called(executor, orderID, itemID, updates)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteOrderItemsByOrderID(executor repositories.SQLExecutor, orderID string) error {
	args := m.Called(executor, orderID)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderExtra(executor repositories.SQLExecutor, extra *models.OrderExtra) error {
	args := m.Called(executor, extra)
	return args.Error(0)
}

func (m *MockOrderRepository) GetExtrasByItemID(itemID string) ([]models.OrderExtra, error) {
	args := m.Called(itemID)
	if extras, ok := args.Get(0).([]models.OrderExtra); ok {
		return extras, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) DeleteExtrasByOrderID(executor repositories.SQLExecutor, orderID string) error {
	args := m.Called(executor, orderID)
	return args.Error(0)
}

func (m *MockOrderRepository) CountActiveOrders(executor repositories.SQLExecutor, customerID string) (int, error) {
	args := m.Called(executor, customerID)
	return args.Int(0), args.Error(1)
}

type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) NextMenuID(executor repositories.SQLExecutor) (string, error) {
	args := m.Called(executor)
	return args.String(0), args.Error(1)
}

func (m *MockMenuRepository) CreateMenu(executor repositories.SQLExecutor, menu *models.Menu) error {
	args := m.Called(executor, menu)
	return args.Error(0)
}

func (m *MockMenuRepository) GetMenuByID(menuID string) (*models.Menu, error) {
	args := m.Called(menuID)
	if menu, ok := args.Get(0).(*models.Menu); ok {
		return menu, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMenuRepository) GetMenus() ([]models.Menu, error) {
	args := m.Called()
	if menus, ok := args.Get(0).([]models.Menu); ok {
		return menus, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMenuRepository) GetDeliverySlot(executor repositories.SQLExecutor, menuID string) (string, string, error) {
	args := m.Called(executor, menuID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockMenuRepository) UpdateMenu(executor repositories.SQLExecutor, menu *models.Menu) error {
	args := m.Called(executor, menu)
	return args.Error(0)
}

func (m *MockMenuRepository) DeleteMenu(executor repositories.SQLExecutor, menuID string) error {
	args := m.Called(executor, menuID)
	return args.Error(0)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) NextCustomerID(executor repositories.SQLExecutor) (string, error) {
	args := m.Called(executor)
	return args.String(0), args.Error(1)
}

func (m *MockCustomerRepository) CreateCustomer(executor repositories.SQLExecutor, customer *models.Customer) error {
	args := m.Called(executor, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetCustomers() ([]models.Customer, error) {
	args := m.Called()
	if customers, ok := args.Get(0).([]models.Customer); ok {
		return customers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerRepository) GetCustomerByID(customerID string) (*models.Customer, error) {
	args := m.Called(customerID)
	if customer, ok := args.Get(0).(*models.Customer); ok {
		return customer, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerRepository) UpdateCustomer(executor repositories.SQLExecutor, customerID string, updates []repositories.FieldUpdate) error {
	args := m.Called(executor, customerID, updates)
	return args.Error(0)
}

func (m *MockCustomerRepository) SetTotalOrders(executor repositories.SQLExecutor, customerID string, total int) error {
	args := m.Called(executor, customerID, total)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteCustomer(executor repositories.SQLExecutor, customerID string) error {
	args := m.Called(executor, customerID)
	return args.Error(0)
}

// newTestOrderService wires the mocks with a nil db, for paths that return
// before a transaction begins.
func newTestOrderService(or *MockOrderRepository, mr *MockMenuRepository, cr *MockCustomerRepository) OrderService {
	return NewOrderService(or, mr, cr, nil)
}

// newMockDBService wires the mocks over a sqlmock-backed db so transactional
// paths (Begin/Commit/Rollback) can be asserted end to end.
func newMockDBService(t *testing.T, or *MockOrderRepository, mr *MockMenuRepository, cr *MockCustomerRepository) (OrderService, sqlmock.Sqlmock) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOrderService(or, mr, cr, db), dbMock
}

// --- Tests ---

func TestGetOrderByID_NotFound(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetOrderByID", "ORD0000099").Return(nil, repositories.ErrNotFound)

	svc := newTestOrderService(orderRepo, new(MockMenuRepository), new(MockCustomerRepository))

	_, err := svc.GetOrderByID("ORD0000099")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	orderRepo.AssertExpectations(t)
}

func TestGetOrderByID_Success(t *testing.T) {
	orderDate := time.Date(2025, time.July, 1, 12, 30, 0, 0, time.UTC)
	deliveryDate := time.Date(2025, time.July, 9, 0, 0, 0, 0, time.UTC)
	order := &models.Order{
		OrderID:     "ORD0000001",
		CustomerID:  "Cmr0000001",
		OrderDate:   orderDate,
		TotalAmount: 25.50,
		Status:      StatusPending,
	}
	items := []models.OrderItem{
		{
			ItemID:       "item0000001",
			OrderID:      "ORD0000001",
			MenuID:       "menu0000001",
			MealType:     "veg",
			Quantity:     1,
			DeliveryDate: deliveryDate,
			WeekNumber:   "week2",
			DayOfWeek:    "day3",
			Status:       StatusPending,
		},
	}
	extras := []models.OrderExtra{
		{OrdExtraID: "extra0000001", ItemID: "item0000001", DishID: "dish0000004", Quantity: 2},
	}

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetOrderByID", "ORD0000001").Return(order, nil)
	orderRepo.On("GetOrderItemsByOrderID", "ORD0000001").Return(items, nil)
	orderRepo.On("GetExtrasByItemID", "item0000001").Return(extras, nil)

	svc := newTestOrderService(orderRepo, new(MockMenuRepository), new(MockCustomerRepository))

	detail, err := svc.GetOrderByID("ORD0000001")
	require.NoError(t, err)
	assert.Equal(t, "ORD0000001", detail.Order.OrderID)
	assert.Equal(t, models.FormatUK(orderDate), detail.Order.OrderDate)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, models.FormatUK(deliveryDate), detail.Items[0].DeliveryDate)
	// Extras of the single-order fetch come back as one flat list.
	require.Len(t, detail.ExtraDishes, 1)
	assert.Equal(t, "dish0000004", detail.ExtraDishes[0].DishID)
	orderRepo.AssertExpectations(t)
}

func TestGetAllOrders_NestsItemsAndExtras(t *testing.T) {
	orders := []models.Order{
		{OrderID: "ORD0000001", CustomerID: "Cmr0000001", OrderDate: time.Now(), Status: StatusPending},
		{OrderID: "ORD0000002", CustomerID: "Cmr0000002", OrderDate: time.Now(), Status: StatusCompleted},
	}

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetOrders").Return(orders, nil)
	orderRepo.On("GetOrderItemsByOrderID", "ORD0000001").Return([]models.OrderItem{
		{ItemID: "item0000001", OrderID: "ORD0000001", MenuID: "menu0000001", MealType: "veg", DeliveryDate: time.Now(), Status: StatusPending},
	}, nil)
	orderRepo.On("GetOrderItemsByOrderID", "ORD0000002").Return([]models.OrderItem{}, nil)
	orderRepo.On("GetExtrasByItemID", "item0000001").Return([]models.OrderExtra{}, nil)

	svc := newTestOrderService(orderRepo, new(MockMenuRepository), new(MockCustomerRepository))

	nested, err := svc.GetAllOrders()
	require.NoError(t, err)
	require.Len(t, nested, 2)
	assert.Len(t, nested[0].OrderItems, 1)
	assert.Empty(t, nested[1].OrderItems)
	orderRepo.AssertExpectations(t)
}

func TestGetOrdersByCustomer_NoneFound(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetOrdersByCustomer", "Cmr0000042").Return([]models.Order{}, nil)

	svc := newTestOrderService(orderRepo, new(MockMenuRepository), new(MockCustomerRepository))

	_, err := svc.GetOrdersByCustomer("Cmr0000042")
	assert.ErrorIs(t, err, ErrNoOrdersForCustomer)
	orderRepo.AssertExpectations(t)
}

func TestUpdateOrder_NotFound(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetOrderByID", "ORD0000099").Return(nil, repositories.ErrNotFound)

	svc := newTestOrderService(orderRepo, new(MockMenuRepository), new(MockCustomerRepository))

	err := svc.UpdateOrder("ORD0000099", UpdateOrderRequest{UpdatedBy: "admin"})
	assert.ErrorIs(t, err, ErrOrderNotFound)
	orderRepo.AssertExpectations(t)
}

func TestUpdateOrder_CancelRequiresReason(t *testing.T) {
	order := &models.Order{OrderID: "ORD0000001", CustomerID: "Cmr0000001", Status: StatusPending}

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetOrderByID", "ORD0000001").Return(order, nil)

	svc := newTestOrderService(orderRepo, new(MockMenuRepository), new(MockCustomerRepository))

	status := StatusCancel
	err := svc.UpdateOrder("ORD0000001", UpdateOrderRequest{Status: &status, UpdatedBy: "admin"})
	assert.ErrorIs(t, err, ErrCancelReasonRequired)
	orderRepo.AssertExpectations(t)
}

func TestUpdateOrderItem_NotFound(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetOrderItemByID", "item0000099").Return(nil, repositories.ErrNotFound)

	svc := newTestOrderService(orderRepo, new(MockMenuRepository), new(MockCustomerRepository))

	status := StatusDelivered
	_, err := svc.UpdateOrderItem("item0000099", UpdateOrderItemRequest{Status: &status})
	assert.ErrorIs(t, err, ErrOrderItemNotFound)
	orderRepo.AssertExpectations(t)
}

func TestUpdateOrderItem_CancelRequiresReason(t *testing.T) {
	item := &models.OrderItem{ItemID: "item0000001", OrderID: "ORD0000001", Status: StatusPending}

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetOrderItemByID", "item0000001").Return(item, nil)

	svc := newTestOrderService(orderRepo, new(MockMenuRepository), new(MockCustomerRepository))

	status := StatusCancel
	_, err := svc.UpdateOrderItem("item0000001", UpdateOrderItemRequest{Status: &status})
	assert.ErrorIs(t, err, ErrCancelReasonRequired)
	orderRepo.AssertExpectations(t)
}

func TestUpdateOrderItem_NoFields(t *testing.T) {
	item := &models.OrderItem{ItemID: "item0000001", OrderID: "ORD0000001", Status: StatusPending}

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetOrderItemByID", "item0000001").Return(item, nil)

	svc := newTestOrderService(orderRepo, new(MockMenuRepository), new(MockCustomerRepository))

	_, err := svc.UpdateOrderItem("item0000001", UpdateOrderItemRequest{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
	orderRepo.AssertExpectations(t)
}

func TestDeleteOrder_NotFound(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetOrderByID", "ORD0000099").Return(nil, repositories.ErrNotFound)

	svc := newTestOrderService(orderRepo, new(MockMenuRepository), new(MockCustomerRepository))

	err := svc.DeleteOrder("ORD0000099")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	orderRepo.AssertExpectations(t)
}

func TestCreateOrder_CommitsAndSyncsCustomerCount(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	menuRepo := new(MockMenuRepository)
	customerRepo := new(MockCustomerRepository)

	orderRepo.On("NextOrderID", mock.Anything).Return("ORD0000010", nil)
	orderRepo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil)
	orderRepo.On("AllocateExtraIDs", mock.Anything, 0).Return(&repositories.ExtraIDAllocator{}, nil)
	menuRepo.On("GetDeliverySlot", mock.Anything, "menu0000001").Return("week1", "day1", nil)
	orderRepo.On("NextItemID", mock.Anything).Return("item0000010", nil)
	orderRepo.On("CreateOrderItem", mock.Anything, mock.AnythingOfType("*models.OrderItem")).Return(nil)
	orderRepo.On("CountActiveOrders", mock.Anything, "Cmr0000001").Return(3, nil)
	customerRepo.On("SetTotalOrders", mock.Anything, "Cmr0000001", 3).Return(nil)

	svc, dbMock := newMockDBService(t, orderRepo, menuRepo, customerRepo)
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	result, err := svc.CreateOrder(CreateOrderRequest{
		CustomerID:  "Cmr0000001",
		CreatedBy:   "admin",
		TotalAmount: 25.50,
		OrderItems:  []OrderItemRequest{{MenuID: "menu0000001", MealType: "veg"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "ORD0000010", result.OrderID)
	assert.Equal(t, []string{"item0000010"}, result.ItemIDs)
	require.NoError(t, dbMock.ExpectationsWereMet())
	orderRepo.AssertExpectations(t)
	customerRepo.AssertExpectations(t)
}

func TestCreateOrder_RollsBackWhenMenuMissing(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	menuRepo := new(MockMenuRepository)
	customerRepo := new(MockCustomerRepository)

	orderRepo.On("NextOrderID", mock.Anything).Return("ORD0000011", nil)
	orderRepo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil)
	orderRepo.On("AllocateExtraIDs", mock.Anything, 0).Return(&repositories.ExtraIDAllocator{}, nil)
	// First item resolves; the second menu is missing, which must abort the
	// whole order including the already-written rows.
	menuRepo.On("GetDeliverySlot", mock.Anything, "menu0000001").Return("week1", "day1", nil)
	orderRepo.On("NextItemID", mock.Anything).Return("item0000011", nil)
	orderRepo.On("CreateOrderItem", mock.Anything, mock.AnythingOfType("*models.OrderItem")).Return(nil)
	menuRepo.On("GetDeliverySlot", mock.Anything, "menu0000099").Return("", "", repositories.ErrNotFound)

	svc, dbMock := newMockDBService(t, orderRepo, menuRepo, customerRepo)
	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	_, err := svc.CreateOrder(CreateOrderRequest{
		CustomerID:  "Cmr0000001",
		CreatedBy:   "admin",
		TotalAmount: 25.50,
		OrderItems: []OrderItemRequest{
			{MenuID: "menu0000001", MealType: "veg"},
			{MenuID: "menu0000099", MealType: "nonveg"},
		},
	})

	assert.ErrorIs(t, err, ErrMenuNotFound)
	require.NoError(t, dbMock.ExpectationsWereMet())
	customerRepo.AssertNotCalled(t, "SetTotalOrders", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderItem_CompletesOrderWhenAllDelivered(t *testing.T) {
	item := &models.OrderItem{ItemID: "item0000001", OrderID: "ORD0000001", Status: StatusPending}

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetOrderItemByID", "item0000001").Return(item, nil)
	orderRepo.On("UpdateOrderItem", mock.Anything, "item0000001", mock.Anything).Return(nil)
	orderRepo.On("GetItemStatusesByOrderID", mock.Anything, "ORD0000001").Return([]string{"delivered", "delivered"}, nil)
	orderRepo.On("CompleteOrder", mock.Anything, "ORD0000001", mock.AnythingOfType("time.Time")).Return(nil)

	svc, dbMock := newMockDBService(t, orderRepo, new(MockMenuRepository), new(MockCustomerRepository))
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	status := StatusDelivered
	orderID, err := svc.UpdateOrderItem("item0000001", UpdateOrderItemRequest{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, "ORD0000001", orderID)
	require.NoError(t, dbMock.ExpectationsWereMet())
	orderRepo.AssertExpectations(t)
}

func TestUpdateOrderItem_CancelledSiblingBlocksCompletion(t *testing.T) {
	item := &models.OrderItem{ItemID: "item0000001", OrderID: "ORD0000001", Status: StatusPending}

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetOrderItemByID", "item0000001").Return(item, nil)
	orderRepo.On("UpdateOrderItem", mock.Anything, "item0000001", mock.Anything).Return(nil)
	orderRepo.On("GetItemStatusesByOrderID", mock.Anything, "ORD0000001").Return([]string{"delivered", "cancel"}, nil)

	svc, dbMock := newMockDBService(t, orderRepo, new(MockMenuRepository), new(MockCustomerRepository))
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	status := StatusDelivered
	orderID, err := svc.UpdateOrderItem("item0000001", UpdateOrderItemRequest{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, "ORD0000001", orderID)
	require.NoError(t, dbMock.ExpectationsWereMet())
	orderRepo.AssertNotCalled(t, "CompleteOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteOrder_CascadesAndSyncsCustomerCount(t *testing.T) {
	order := &models.Order{OrderID: "ORD0000001", CustomerID: "Cmr0000001", Status: StatusPending}

	orderRepo := new(MockOrderRepository)
	customerRepo := new(MockCustomerRepository)
	orderRepo.On("GetOrderByID", "ORD0000001").Return(order, nil)
	orderRepo.On("DeleteExtrasByOrderID", mock.Anything, "ORD0000001").Return(nil)
	orderRepo.On("DeleteOrderItemsByOrderID", mock.Anything, "ORD0000001").Return(nil)
	orderRepo.On("DeleteOrder", mock.Anything, "ORD0000001").Return(nil)
	orderRepo.On("CountActiveOrders", mock.Anything, "Cmr0000001").Return(1, nil)
	customerRepo.On("SetTotalOrders", mock.Anything, "Cmr0000001", 1).Return(nil)

	svc, dbMock := newMockDBService(t, orderRepo, new(MockMenuRepository), customerRepo)
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	err := svc.DeleteOrder("ORD0000001")

	require.NoError(t, err)
	require.NoError(t, dbMock.ExpectationsWereMet())
	orderRepo.AssertExpectations(t)
	customerRepo.AssertExpectations(t)
}
