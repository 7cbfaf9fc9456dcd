package controllers

import (
	"errors"
	"strconv"

	"github.com/Govind-619/ShipSphere/models"
	"github.com/Govind-619/ShipSphere/repository"
	"github.com/Govind-619/ShipSphere/services"
	"github.com/Govind-619/ShipSphere/utils"
	"github.com/gin-gonic/gin"
)

// ShippingRateController serves the admin shipping-rate screens
type ShippingRateController struct {
	rates    *services.ShippingRateService
	resolver QuoteResolver
}

// NewShippingRateController creates a new ShippingRateController
func NewShippingRateController(rates *services.ShippingRateService, resolver QuoteResolver) *ShippingRateController {
	return &ShippingRateController{rates: rates, resolver: resolver}
}

func parseRateID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.LogError("Invalid shipping rate ID: %s", c.Param("id"))
		utils.BadRequest(c, utils.ErrInvalidRateID, nil)
		return 0, false
	}
	return uint(id), true
}

func respondRateError(c *gin.Context, fallback string, err error) {
	if errors.Is(err, services.ErrRateNotFound) {
		utils.NotFound(c, utils.ErrRateNotFound)
		return
	}
	utils.RespondError(c, fallback, err)
}

// ListShippingRates returns a filtered page of shipping rates
func (h *ShippingRateController) ListShippingRates(c *gin.Context) {
	utils.LogInfo("ListShippingRates called")

	filter := repository.ShippingRateFilter{
		Zone:   c.Query("zone"),
		Search: c.Query("search"),
	}
	if active := c.Query("active"); active != "" {
		value, err := strconv.ParseBool(active)
		if err != nil {
			utils.BadRequest(c, "Invalid active filter", "active must be true or false")
			return
		}
		filter.Active = &value
	}
	if kind := models.RateKind(c.Query("kind")); kind != "" {
		switch kind {
		case models.RateKindExact, models.RateKindPrefix, models.RateKindDefault:
			filter.Kind = kind
		default:
			utils.BadRequest(c, "Invalid kind filter", "kind must be exact, prefix or default")
			return
		}
	}

	pagination := utils.NewPagination(c)
	rates, err := h.rates.List(c.Request.Context(), filter, pagination)
	if err != nil {
		respondRateError(c, "Failed to fetch shipping rates", err)
		return
	}

	utils.SuccessWithPagination(c, "Shipping rates retrieved successfully", gin.H{
		"shipping_rates": rates,
	}, pagination)
}

// GetShippingRate returns one shipping rate
func (h *ShippingRateController) GetShippingRate(c *gin.Context) {
	id, ok := parseRateID(c)
	if !ok {
		return
	}

	rate, err := h.rates.Get(c.Request.Context(), id)
	if err != nil {
		respondRateError(c, "Failed to fetch shipping rate", err)
		return
	}

	utils.Success(c, "Shipping rate retrieved successfully", gin.H{
		"shipping_rate": rate,
		"kind":          rate.Kind(),
	})
}

// CreateShippingRate adds a new shipping rate
func (h *ShippingRateController) CreateShippingRate(c *gin.Context) {
	utils.LogInfo("CreateShippingRate called")

	var req services.ShippingRateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	rate, err := h.rates.Create(c.Request.Context(), req)
	if err != nil {
		respondRateError(c, "Failed to create shipping rate", err)
		return
	}

	utils.Created(c, "Shipping rate added successfully", gin.H{
		"shipping_rate": rate,
	})
}

// UpdateShippingRate applies a partial update to a shipping rate
func (h *ShippingRateController) UpdateShippingRate(c *gin.Context) {
	utils.LogInfo("UpdateShippingRate called")

	id, ok := parseRateID(c)
	if !ok {
		return
	}

	var req services.ShippingRateUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	rate, err := h.rates.Update(c.Request.Context(), id, req)
	if err != nil {
		respondRateError(c, "Failed to update shipping rate", err)
		return
	}

	utils.Success(c, "Shipping rate updated successfully", gin.H{
		"shipping_rate": rate,
	})
}

// ToggleShippingRate flips a rate between active and inactive
func (h *ShippingRateController) ToggleShippingRate(c *gin.Context) {
	id, ok := parseRateID(c)
	if !ok {
		return
	}

	rate, err := h.rates.Toggle(c.Request.Context(), id)
	if err != nil {
		respondRateError(c, "Failed to toggle shipping rate", err)
		return
	}

	utils.Success(c, "Shipping rate status updated successfully", gin.H{
		"shipping_rate": rate,
	})
}

// DeleteShippingRate deletes a shipping rate
func (h *ShippingRateController) DeleteShippingRate(c *gin.Context) {
	utils.LogInfo("DeleteShippingRate called")

	id, ok := parseRateID(c)
	if !ok {
		return
	}

	if err := h.rates.Delete(c.Request.Context(), id); err != nil {
		respondRateError(c, "Failed to delete shipping rate", err)
		return
	}

	utils.Success(c, "Shipping rate deleted successfully", nil)
}

// PreviewResolve shows which rate checkout would pick for a pincode
func (h *ShippingRateController) PreviewResolve(c *gin.Context) {
	subtotal, err := utils.ParseAmount(c.DefaultQuery("subtotal", "0"))
	if err != nil {
		utils.BadRequest(c, utils.ErrInvalidSubtotal, err.Error())
		return
	}

	quote, err := h.resolver.Resolve(c.Request.Context(), c.Query("pincode"), subtotal)
	if errors.Is(err, services.ErrNoShippingRate) {
		utils.NotFound(c, utils.ErrShippingUnavailable)
		return
	}
	if err != nil {
		utils.RespondError(c, "Failed to resolve shipping rate", err)
		return
	}

	utils.Success(c, "Shipping rate resolved successfully", gin.H{
		"quote": quote,
	})
}
