package routes

import (
	"time"

	"github.com/Govind-619/ShipSphere/controllers"
	"github.com/Govind-619/ShipSphere/middleware"
	"github.com/Govind-619/ShipSphere/models"
	"github.com/Govind-619/ShipSphere/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies are the handlers and policies the router is built from
type Dependencies struct {
	Shipping      *controllers.ShippingController
	ShippingRates *controllers.ShippingRateController
	AdminAuth     *controllers.AdminAuthController
	Authenticator middleware.Authenticator
	Roles         *models.RoleTable
	CORSOrigins   []string
	// QuoteLimiter throttles public quote lookups per client; nil disables it
	QuoteLimiter *middleware.RateLimiterStore
}

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", utils.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", utils.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", controllers.Health)

	// API version group
	api := router.Group("/" + utils.APIVersion)
	{
		initShippingRoutes(api, deps)
		initAdminRoutes(api, deps)
	}

	return router
}

// initShippingRoutes registers the public checkout endpoints
func initShippingRoutes(router *gin.RouterGroup, deps Dependencies) {
	shipping := router.Group("/shipping")
	if deps.QuoteLimiter != nil {
		shipping.Use(middleware.RateLimit(deps.QuoteLimiter))
	}
	{
		shipping.GET("/quote", deps.Shipping.GetQuote)
		shipping.POST("/quote", deps.Shipping.PostQuote)
		shipping.GET("/availability/:pincode", deps.Shipping.CheckAvailability)
	}
}
