package handlers

import (
	"errors"
	"net/http"

	"tiffin_backend/internal/services"
	"tiffin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler holds the menu service.
type MenuHandler struct {
	menuService services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(ms services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: ms}
}

// CreateMenu handles adding a new weekly menu slot.
func (h *MenuHandler) CreateMenu(c *gin.Context) {
	var req services.CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	menu, err := h.menuService.CreateMenu(req)
	if err != nil {
		utils.LogError(err, "CreateMenu: Error from menuService.CreateMenu")
		if errors.Is(err, services.ErrInvalidDish) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Menu references an invalid dish.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create menu.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu added successfully", "menu_id": menu.MenuID})
}

// GetMenus handles fetching all menus.
func (h *MenuHandler) GetMenus(c *gin.Context) {
	menus, err := h.menuService.GetMenus()
	if err != nil {
		utils.LogError(err, "GetMenus: Error from menuService.GetMenus")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch menus.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": menus})
}

// GetMenuByID handles fetching one menu.
func (h *MenuHandler) GetMenuByID(c *gin.Context) {
	menuID := c.Param("menu_id")

	menu, err := h.menuService.GetMenuByID(menuID)
	if err != nil {
		utils.LogError(err, "GetMenuByID: Error for "+menuID)
		if errors.Is(err, services.ErrMenuNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch menu.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": menu})
}

// UpdateMenu handles replacing a menu's fields.
func (h *MenuHandler) UpdateMenu(c *gin.Context) {
	menuID := c.Param("menu_id")

	var req services.UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	menu, err := h.menuService.UpdateMenu(menuID, req)
	if err != nil {
		utils.LogError(err, "UpdateMenu: Error for "+menuID)
		switch {
		case errors.Is(err, services.ErrMenuNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu not found.", err.Error()))
		case errors.Is(err, services.ErrInvalidDish):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Menu references an invalid dish.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update menu.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu updated successfully", "menu_id": menu.MenuID})
}

// DeleteMenu handles deleting a menu.
func (h *MenuHandler) DeleteMenu(c *gin.Context) {
	menuID := c.Param("menu_id")

	if err := h.menuService.DeleteMenu(menuID); err != nil {
		utils.LogError(err, "DeleteMenu: Error for "+menuID)
		if errors.Is(err, services.ErrMenuNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete menu.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu " + menuID + " deleted successfully"})
}
