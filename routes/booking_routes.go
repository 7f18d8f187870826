package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joy095/marketplace/config/db"
	"github.com/joy095/marketplace/config/redis"
	"github.com/joy095/marketplace/controllers/booking_controller"
	"github.com/joy095/marketplace/controllers/booking_status_controller"
	middleware "github.com/joy095/marketplace/middlewares"
	"github.com/joy095/marketplace/middlewares/auth"
)

// RegisterBookingRoutes wires slot booking and the booking lifecycle for both
// sides of the marketplace.
func RegisterBookingRoutes(router *gin.Engine) {
	redisClient, err := redis.GetRedisClient(context.Background())
	if err != nil {
		panic(fmt.Errorf("failed to initialize booking routes: %w", err))
	}

	bookingController := booking_controller.NewBookingController(db.DB, redisClient)
	statusController := booking_status_controller.NewBookingStatusController(db.DB)

	// Customer side.
	protected := router.Group("/api")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/book",
			middleware.CombinedRateLimiter("book", "5-1m", "20-10m"),
			bookingController.Book)

		protected.GET("/bookings",
			middleware.NewRateLimiter("20-1m", "my-bookings"),
			bookingController.GetMyBookings)

		protected.PATCH("/bookings/:id/cancel",
			middleware.CombinedRateLimiter("cancel-booking", "3-1m", "10-10m"),
			statusController.CancelMyBooking)
	}

	// Vendor side.
	vendor := router.Group("/api/vendor/bookings")
	vendor.Use(auth.AuthMiddleware(), auth.RequireVendor())
	{
		vendor.GET("",
			middleware.NewRateLimiter("20-1m", "vendor-bookings"),
			statusController.GetVendorBookings)

		vendor.PATCH("/:id",
			middleware.CombinedRateLimiter("update-booking-status", "5-1m", "20-10m"),
			statusController.UpdateBookingStatus)
	}

	maintenance := router.Group("/api/vendor/slots")
	maintenance.Use(auth.AuthMiddleware(), auth.RequireVendor())
	{
		maintenance.POST("/rebuild",
			middleware.NewRateLimiter("2-10m", "rebuild-slots"),
			statusController.RebuildSlots)
	}
}
