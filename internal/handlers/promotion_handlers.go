package handlers

import (
	"errors"
	"net/http"

	"tiffin_backend/internal/services"
	"tiffin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PromotionHandler holds the promotion service.
type PromotionHandler struct {
	promotionService services.PromotionService
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(ps services.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: ps}
}

// CreatePromotion handles adding a discount code.
func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	var req services.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	promo, err := h.promotionService.CreatePromotion(req)
	if err != nil {
		utils.LogError(err, "CreatePromotion: Error from promotionService.CreatePromotion")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create promotion.", "Internal error"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Promotion added successfully", "promo_id": promo.PromoID})
}

// GetPromotions handles fetching all promotions.
func (h *PromotionHandler) GetPromotions(c *gin.Context) {
	promos, err := h.promotionService.GetPromotions()
	if err != nil {
		utils.LogError(err, "GetPromotions: Error from promotionService.GetPromotions")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch promotions.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"promotions": promos})
}

// UpdatePromotion handles patching promotion fields.
func (h *PromotionHandler) UpdatePromotion(c *gin.Context) {
	promoID := c.Param("promo_id")

	var req services.UpdatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := h.promotionService.UpdatePromotion(promoID, req); err != nil {
		utils.LogError(err, "UpdatePromotion: Error for "+promoID)
		switch {
		case errors.Is(err, services.ErrPromotionNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Promotion not found.", err.Error()))
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "No valid fields provided for update.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update promotion.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promotion updated successfully"})
}

// DeletePromotion handles deleting a promotion.
func (h *PromotionHandler) DeletePromotion(c *gin.Context) {
	promoID := c.Param("promo_id")

	if err := h.promotionService.DeletePromotion(promoID); err != nil {
		utils.LogError(err, "DeletePromotion: Error for "+promoID)
		if errors.Is(err, services.ErrPromotionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Promotion not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete promotion.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promotion deleted successfully"})
}
