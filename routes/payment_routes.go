package routes

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joy095/marketplace/clients"
	"github.com/joy095/marketplace/config/db"
	"github.com/joy095/marketplace/controllers/payment_controller"
	middleware "github.com/joy095/marketplace/middlewares"
	"github.com/joy095/marketplace/middlewares/auth"
)

// RegisterPaymentRoutes wires Razorpay order creation and the webhook.
func RegisterPaymentRoutes(router *gin.Engine) {
	razorpayClient := clients.NewRazorpayClient(
		os.Getenv("RAZORPAY_KEY_ID"),
		os.Getenv("RAZORPAY_KEY_SECRET"),
	)

	controller := payment_controller.NewPaymentController(db.DB, razorpayClient)

	// The webhook authenticates by signature, not by session.
	router.POST("/api/payments/webhook",
		middleware.NewRateLimiter("60-1m", "payment-webhook"),
		controller.Webhook)

	protected := router.Group("/api/payments")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/order",
			middleware.CombinedRateLimiter("payment-order", "5-1m", "20-10m"),
			controller.CreateOrder)
	}
}
