package controllers

import (
	"context"
	"errors"

	"github.com/Govind-619/ShipSphere/models"
	"github.com/Govind-619/ShipSphere/services"
	"github.com/Govind-619/ShipSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// QuoteResolver resolves shipping quotes
type QuoteResolver interface {
	Resolve(ctx context.Context, pincode string, subtotal decimal.Decimal) (*models.Quote, error)
}

// ShippingController serves shipping quotes to the checkout flow
type ShippingController struct {
	resolver QuoteResolver
}

// NewShippingController creates a new ShippingController
func NewShippingController(resolver QuoteResolver) *ShippingController {
	return &ShippingController{resolver: resolver}
}

// QuoteRequest is the checkout payload for POST /shipping/quote
type QuoteRequest struct {
	Pincode  string          `json:"pincode"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// GetQuote handles GET /shipping/quote?pincode=&subtotal=
func (h *ShippingController) GetQuote(c *gin.Context) {
	pincode := c.Query("pincode")
	subtotal, err := utils.ParseAmount(c.Query("subtotal"))
	if err != nil {
		utils.LogError("Invalid subtotal for quote: %v", err)
		utils.BadRequest(c, utils.ErrInvalidSubtotal, err.Error())
		return
	}
	h.respondQuote(c, pincode, subtotal)
}

// PostQuote handles POST /shipping/quote
func (h *ShippingController) PostQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid quote request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if req.Subtotal.IsNegative() {
		utils.BadRequest(c, utils.ErrInvalidSubtotal, nil)
		return
	}
	h.respondQuote(c, req.Pincode, req.Subtotal)
}

func (h *ShippingController) respondQuote(c *gin.Context, pincode string, subtotal decimal.Decimal) {
	quote, err := h.resolver.Resolve(c.Request.Context(), pincode, subtotal)
	if errors.Is(err, services.ErrNoShippingRate) {
		utils.NotFound(c, utils.ErrShippingUnavailable)
		return
	}
	if err != nil {
		utils.RespondError(c, "Failed to calculate shipping", err)
		return
	}

	utils.Success(c, "Shipping quote calculated successfully", gin.H{
		"quote": quote,
	})
}

// CheckAvailability handles GET /shipping/availability/:pincode
func (h *ShippingController) CheckAvailability(c *gin.Context) {
	pincode := c.Param("pincode")

	quote, err := h.resolver.Resolve(c.Request.Context(), pincode, decimal.Zero)
	if err != nil && !errors.Is(err, services.ErrNoShippingRate) {
		utils.RespondError(c, "Failed to check delivery availability", err)
		return
	}

	data := gin.H{
		"pincode":            pincode,
		"delivery_available": quote != nil,
	}
	if quote != nil {
		data["shipping_rate_id"] = quote.Rate.ID
		data["matched_by"] = quote.MatchedBy
		data["estimated_delivery_min"] = quote.Rate.EstimatedDeliveryMin
		data["estimated_delivery_max"] = quote.Rate.EstimatedDeliveryMax
	}
	utils.Success(c, "Delivery availability retrieved successfully", data)
}
