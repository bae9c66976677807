package handlers

import (
	"errors"
	"net/http"

	"tiffin_backend/internal/services"
	"tiffin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DishHandler holds the dish service.
type DishHandler struct {
	dishService services.DishService
}

// NewDishHandler creates a new DishHandler.
func NewDishHandler(ds services.DishService) *DishHandler {
	return &DishHandler{dishService: ds}
}

// CreateDish handles adding a catalog dish.
func (h *DishHandler) CreateDish(c *gin.Context) {
	var req services.CreateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	dish, err := h.dishService.CreateDish(req)
	if err != nil {
		utils.LogError(err, "CreateDish: Error from dishService.CreateDish")
		if errors.Is(err, services.ErrDishNameTaken) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Dish name already exists.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create dish.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Dish added successfully", "dish_id": dish.DishID})
}

// GetDishes handles fetching all dishes.
func (h *DishHandler) GetDishes(c *gin.Context) {
	dishes, err := h.dishService.GetDishes()
	if err != nil {
		utils.LogError(err, "GetDishes: Error from dishService.GetDishes")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch dishes.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dishes})
}

// UpdateDish handles replacing a dish's fields.
func (h *DishHandler) UpdateDish(c *gin.Context) {
	dishID := c.Param("dish_id")

	var req services.UpdateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if _, err := h.dishService.UpdateDish(dishID, req); err != nil {
		utils.LogError(err, "UpdateDish: Error for "+dishID)
		switch {
		case errors.Is(err, services.ErrDishNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Dish not found.", err.Error()))
		case errors.Is(err, services.ErrDishNameTaken):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Dish name already exists.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update dish.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dish updated successfully", "dish_id": dishID})
}

// DeleteDish handles deleting a dish.
func (h *DishHandler) DeleteDish(c *gin.Context) {
	dishID := c.Param("dish_id")

	if err := h.dishService.DeleteDish(dishID); err != nil {
		utils.LogError(err, "DeleteDish: Error for "+dishID)
		if errors.Is(err, services.ErrDishNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Dish not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete dish.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dish deleted successfully"})
}
