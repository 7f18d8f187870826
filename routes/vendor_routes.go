package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/marketplace/config/db"
	"github.com/joy095/marketplace/controllers/availability_controller"
	"github.com/joy095/marketplace/controllers/vendor_controller"
	middleware "github.com/joy095/marketplace/middlewares"
	"github.com/joy095/marketplace/middlewares/auth"
)

// RegisterVendorRoutes wires vendor discovery, availability and reviews.
func RegisterVendorRoutes(router *gin.Engine) {
	vendorController := vendor_controller.NewVendorController(db.DB)
	availabilityController := availability_controller.NewAvailabilityController(db.DB)

	// Browsing is open; booking requires a login.
	public := router.Group("/api")
	{
		public.POST("/vendors/search",
			middleware.NewRateLimiter("30-1m", "vendor-search"),
			vendorController.FindVendors)

		public.GET("/vendors/:vendorId",
			middleware.NewRateLimiter("60-1m", "vendor-show"),
			vendorController.ShowVendor)

		public.GET("/availability/:vendorId",
			middleware.NewRateLimiter("60-1m", "availability"),
			availabilityController.GetAvailability)
	}

	protected := router.Group("/api")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/vendors/:vendorId/reviews",
			middleware.CombinedRateLimiter("add-review", "3-1m", "10-1h"),
			vendorController.AddReview)
	}

	vendorOnly := router.Group("/api/vendor")
	vendorOnly.Use(auth.AuthMiddleware(), auth.RequireVendor())
	{
		vendorOnly.PATCH("/availability",
			middleware.NewRateLimiter("10-1m", "update-availability"),
			vendorController.UpdateAvailability)
	}
}
