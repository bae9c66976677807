package handlers

import (
	"errors"
	"net/http"

	"tiffin_backend/internal/services"
	"tiffin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TaxHandler holds the tax service.
type TaxHandler struct {
	taxService services.TaxService
}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler(ts services.TaxService) *TaxHandler {
	return &TaxHandler{taxService: ts}
}

// CreateTax handles adding a tax or charge line.
func (h *TaxHandler) CreateTax(c *gin.Context) {
	var req services.CreateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	tax, err := h.taxService.CreateTax(req)
	if err != nil {
		utils.LogError(err, "CreateTax: Error from taxService.CreateTax")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create tax.", "Internal error"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Tax added successfully", "tax_id": tax.TaxID})
}

// GetTaxes handles fetching all taxes.
func (h *TaxHandler) GetTaxes(c *gin.Context) {
	taxes, err := h.taxService.GetTaxes()
	if err != nil {
		utils.LogError(err, "GetTaxes: Error from taxService.GetTaxes")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch taxes.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, taxes)
}

// UpdateTax handles patching tax fields.
func (h *TaxHandler) UpdateTax(c *gin.Context) {
	taxID := c.Param("tax_id")

	var req services.UpdateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := h.taxService.UpdateTax(taxID, req); err != nil {
		utils.LogError(err, "UpdateTax: Error for "+taxID)
		switch {
		case errors.Is(err, services.ErrTaxNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Tax not found.", err.Error()))
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "No valid fields provided for update.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update tax.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tax updated successfully"})
}

// DeleteTax handles deleting a tax.
func (h *TaxHandler) DeleteTax(c *gin.Context) {
	taxID := c.Param("tax_id")

	if err := h.taxService.DeleteTax(taxID); err != nil {
		utils.LogError(err, "DeleteTax: Error for "+taxID)
		if errors.Is(err, services.ErrTaxNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Tax not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete tax.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tax deleted successfully"})
}
