package handlers

import (
	"errors"
	"net/http"

	"tiffin_backend/internal/middleware"
	"tiffin_backend/internal/services"
	"tiffin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// CreateOrder handles the creation of a new order with its items and extras.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateOrder: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.orderService.CreateOrder(req)
	if err != nil {
		middleware.RecordOrderOperation("create", false)
		utils.LogError(err, "CreateOrder: Error from orderService.CreateOrder")
		if errors.Is(err, services.ErrMenuNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "One or more menus not found.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidSlotLabel) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Menu has an invalid week/day slot.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create order.", "Internal error"))
		}
		return
	}

	middleware.RecordOrderOperation("create", true)
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order placed successfully",
		"order_id": result.OrderID,
		"item_ids": result.ItemIDs,
	})
}

// GetAllOrders handles fetching all orders with nested items and extras.
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		utils.LogError(err, "GetAllOrders: Error from orderService.GetAllOrders")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch orders.", "Internal error"))
		return
	}
	if orders == nil {
		orders = []services.NestedOrder{}
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderByID handles fetching a single order with its items and extras.
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	orderID := c.Param("order_id")

	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		utils.LogError(err, "GetOrderByID: Error from orderService.GetOrderByID for "+orderID)
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetOrdersByCustomer handles the per-customer order listing.
func (h *OrderHandler) GetOrdersByCustomer(c *gin.Context) {
	customerID := c.Param("customer_id")

	orders, err := h.orderService.GetOrdersByCustomer(customerID)
	if err != nil {
		utils.LogError(err, "GetOrdersByCustomer: Error for customer "+customerID)
		if errors.Is(err, services.ErrNoOrdersForCustomer) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No orders found for this customer.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch customer orders.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateOrder handles patching order-level fields.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID := c.Param("order_id")

	var req services.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateOrder: Failed to bind JSON for "+orderID)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := h.orderService.UpdateOrder(orderID, req); err != nil {
		utils.LogError(err, "UpdateOrder: Error from orderService.UpdateOrder for "+orderID)
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", err.Error()))
		case errors.Is(err, services.ErrCancelReasonRequired):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "cancel_reason is required when status is 'cancel'.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully"})
}

// UpdateOrderDetails handles patching delivery/payment fields plus per-item
// meal type and note.
func (h *OrderHandler) UpdateOrderDetails(c *gin.Context) {
	orderID := c.Param("order_id")

	var req services.UpdateOrderDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateOrderDetails: Failed to bind JSON for "+orderID)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := h.orderService.UpdateOrderDetails(orderID, req); err != nil {
		utils.LogError(err, "UpdateOrderDetails: Error for "+orderID)
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update order details.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order details updated successfully"})
}

// UpdateOrderItem handles patching one item's fields; an all-delivered item
// set completes the parent order.
func (h *OrderHandler) UpdateOrderItem(c *gin.Context) {
	itemID := c.Param("item_id")

	var req services.UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateOrderItem: Failed to bind JSON for "+itemID)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	orderID, err := h.orderService.UpdateOrderItem(itemID, req)
	if err != nil {
		utils.LogError(err, "UpdateOrderItem: Error from orderService.UpdateOrderItem for "+itemID)
		switch {
		case errors.Is(err, services.ErrOrderItemNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order item not found.", err.Error()))
		case errors.Is(err, services.ErrCancelReasonRequired):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "cancelreason is required if status is 'cancel'.", err.Error()))
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "No valid fields provided for update.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update order item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order item updated successfully", "order_id": orderID})
}

// DeleteOrder handles cascade deletion of an order.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID := c.Param("order_id")

	if err := h.orderService.DeleteOrder(orderID); err != nil {
		middleware.RecordOrderOperation("delete", false)
		utils.LogError(err, "DeleteOrder: Error from orderService.DeleteOrder for "+orderID)
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found to delete.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete order.", "Internal error"))
		}
		return
	}
	middleware.RecordOrderOperation("delete", true)
	c.JSON(http.StatusOK, gin.H{"message": "Order and related items deleted successfully"})
}
