package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/marketplace/clients"
	"github.com/joy095/marketplace/config/db"
	"github.com/joy095/marketplace/controllers/recommendation_controller"
	middleware "github.com/joy095/marketplace/middlewares"
	"github.com/joy095/marketplace/middlewares/auth"
)

// RegisterRecommendationRoutes wires the AI vendor recommendation endpoint.
func RegisterRecommendationRoutes(router *gin.Engine) {
	controller := recommendation_controller.NewRecommendationController(
		db.DB,
		clients.NewOpenAIClient(),
	)

	protected := router.Group("/api")
	protected.Use(auth.AuthMiddleware())
	{
		// Completions are expensive; keep this tight.
		protected.POST("/recommendations",
			middleware.CombinedRateLimiter("recommendations", "5-1m", "30-1h"),
			controller.Recommend)
	}
}
