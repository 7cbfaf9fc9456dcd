package routes

import (
	"github.com/Govind-619/ShipSphere/middleware"
	"github.com/Govind-619/ShipSphere/models"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup, deps Dependencies) {
	admin := router.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", deps.AdminAuth.AdminLogin)
		admin.POST("/logout", deps.AdminAuth.AdminLogout)

		protected := admin.Group("")
		protected.Use(middleware.AdminAuthMiddleware(deps.Authenticator))

		// Read-only shipping rate screens
		viewer := protected.Group("/shipping-rates")
		viewer.Use(middleware.RequireRole(deps.Roles, models.RoleViewer))
		{
			viewer.GET("", deps.ShippingRates.ListShippingRates)
			viewer.GET("/export/xlsx", deps.ShippingRates.DownloadShippingRatesExcel)
			viewer.GET("/export/pdf", deps.ShippingRates.DownloadShippingRatesPDF)
			viewer.GET("/resolve", deps.ShippingRates.PreviewResolve)
			viewer.GET("/:id", deps.ShippingRates.GetShippingRate)
		}

		// Shipping rate management
		manager := protected.Group("/shipping-rates")
		manager.Use(middleware.RequireRole(deps.Roles, models.RoleShippingManager))
		{
			manager.POST("", deps.ShippingRates.CreateShippingRate)
			manager.PUT("/:id", deps.ShippingRates.UpdateShippingRate)
			manager.PATCH("/:id/toggle", deps.ShippingRates.ToggleShippingRate)
			manager.DELETE("/:id", deps.ShippingRates.DeleteShippingRate)
		}
	}
}
