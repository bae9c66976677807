package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tiffin_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(req services.CreateOrderRequest) (*services.CreateOrderResult, error) {
	args := m.Called(req)
	if result, ok := args.Get(0).(*services.CreateOrderResult); ok {
		return result, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) GetAllOrders() ([]services.NestedOrder, error) {
	args := m.Called()
	if orders, ok := args.Get(0).([]services.NestedOrder); ok {
		return orders, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) GetOrderByID(orderID string) (*services.OrderDetail, error) {
	args := m.Called(orderID)
	if detail, ok := args.Get(0).(*services.OrderDetail); ok {
		return detail, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) GetOrdersByCustomer(customerID string) ([]services.CustomerOrder, error) {
	args := m.Called(customerID)
	if orders, ok := args.Get(0).([]services.CustomerOrder); ok {
		return orders, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) UpdateOrder(orderID string, req services.UpdateOrderRequest) error {
	args := m.Called(orderID, req)
	return args.Error(0)
}

func (m *MockOrderService) UpdateOrderDetails(orderID string, req services.UpdateOrderDetailsRequest) error {
	args := m.Called(orderID, req)
	return args.Error(0)
}

func (m *MockOrderService) UpdateOrderItem(itemID string, req services.UpdateOrderItemRequest) (string, error) {
	args := m.Called(itemID, req)
	return args.String(0), args.Error(1)
}

func (m *MockOrderService) DeleteOrder(orderID string) error {
	args := m.Called(orderID)
	return args.Error(0)
}

func setupOrderRouter(svc services.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := NewOrderHandler(svc)
	engine.POST("/orders/add", handler.CreateOrder)
	engine.GET("/orders/all", handler.GetAllOrders)
	engine.GET("/orders/:order_id", handler.GetOrderByID)
	engine.GET("/orders/customer/:customer_id", handler.GetOrdersByCustomer)
	engine.PUT("/orders/update/:order_id", handler.UpdateOrder)
	engine.PUT("/orditem/update/:item_id", handler.UpdateOrderItem)
	engine.DELETE("/orders/delete/:order_id", handler.DeleteOrder)
	return engine
}

func performRequest(engine *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateOrder_Success(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("CreateOrder", mock.AnythingOfType("services.CreateOrderRequest")).Return(
		&services.CreateOrderResult{OrderID: "ORD0000001", ItemIDs: []string{"item0000001"}}, nil)

	engine := setupOrderRouter(svc)
	body := []byte(`{
		"customer_id": "Cmr0000001",
		"created_by": "admin",
		"total_amount": 25.50,
		"order_items": [{"menu_id": "menu0000001", "meal_type": "veg"}]
	}`)

	w := performRequest(engine, http.MethodPost, "/orders/add", body)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ORD0000001", resp["order_id"])
	svc.AssertExpectations(t)
}

func TestCreateOrder_InvalidPayload(t *testing.T) {
	svc := new(MockOrderService)
	engine := setupOrderRouter(svc)

	// Missing the required order_items array.
	body := []byte(`{"customer_id": "Cmr0000001", "created_by": "admin"}`)
	w := performRequest(engine, http.MethodPost, "/orders/add", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateOrder", mock.Anything)
}

func TestCreateOrder_MenuNotFound(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("CreateOrder", mock.AnythingOfType("services.CreateOrderRequest")).Return(nil, services.ErrMenuNotFound)

	engine := setupOrderRouter(svc)
	body := []byte(`{
		"customer_id": "Cmr0000001",
		"created_by": "admin",
		"total_amount": 25.50,
		"order_items": [{"menu_id": "menu0000099", "meal_type": "veg"}]
	}`)

	w := performRequest(engine, http.MethodPost, "/orders/add", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestCreateOrder_MissingTotalAmount(t *testing.T) {
	svc := new(MockOrderService)
	engine := setupOrderRouter(svc)

	body := []byte(`{
		"customer_id": "Cmr0000001",
		"created_by": "admin",
		"order_items": [{"menu_id": "menu0000001", "meal_type": "veg"}]
	}`)
	w := performRequest(engine, http.MethodPost, "/orders/add", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateOrder", mock.Anything)
}

func TestGetOrderByID_NotFoundResponse(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("GetOrderByID", "ORD0000099").Return(nil, services.ErrOrderNotFound)

	engine := setupOrderRouter(svc)
	w := performRequest(engine, http.MethodGet, "/orders/ORD0000099", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestGetOrdersByCustomer_NoOrders(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("GetOrdersByCustomer", "Cmr0000042").Return(nil, services.ErrNoOrdersForCustomer)

	engine := setupOrderRouter(svc)
	w := performRequest(engine, http.MethodGet, "/orders/customer/Cmr0000042", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdateOrder_CancelReasonMissing(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("UpdateOrder", "ORD0000001", mock.AnythingOfType("services.UpdateOrderRequest")).Return(services.ErrCancelReasonRequired)

	engine := setupOrderRouter(svc)
	body := []byte(`{"status": "cancel", "updated_by": "admin"}`)
	w := performRequest(engine, http.MethodPut, "/orders/update/ORD0000001", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdateOrderItem_ReturnsParentOrderID(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("UpdateOrderItem", "item0000001", mock.AnythingOfType("services.UpdateOrderItemRequest")).Return("ORD0000001", nil)

	engine := setupOrderRouter(svc)
	body := []byte(`{"status": "delivered"}`)
	w := performRequest(engine, http.MethodPut, "/orditem/update/item0000001", body)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ORD0000001", resp["order_id"])
	svc.AssertExpectations(t)
}

func TestUpdateOrderItem_NoFields(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("UpdateOrderItem", "item0000001", mock.AnythingOfType("services.UpdateOrderItemRequest")).Return("", services.ErrNoFieldsToUpdate)

	engine := setupOrderRouter(svc)
	w := performRequest(engine, http.MethodPut, "/orditem/update/item0000001", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestDeleteOrder_Success(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("DeleteOrder", "ORD0000001").Return(nil)

	engine := setupOrderRouter(svc)
	w := performRequest(engine, http.MethodDelete, "/orders/delete/ORD0000001", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
