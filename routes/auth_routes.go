package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joy095/marketplace/config/db"
	"github.com/joy095/marketplace/config/redis"
	"github.com/joy095/marketplace/controllers/user_controller"
	middleware "github.com/joy095/marketplace/middlewares"
	"github.com/joy095/marketplace/middlewares/auth"
)

// RegisterAuthRoutes wires phone authentication and profile management.
func RegisterAuthRoutes(router *gin.Engine) {
	redisClient, err := redis.GetRedisClient(context.Background())
	if err != nil {
		panic(fmt.Errorf("failed to initialize auth routes: %w", err))
	}

	controller := user_controller.NewUserController(db.DB, redisClient)

	authGroup := router.Group("/api/auth")
	{
		// OTP requests are the most abusable endpoint in the system.
		authGroup.POST("/request-otp",
			middleware.CombinedRateLimiter("request-otp", "3-1m", "10-1h"),
			controller.RequestOTP)

		authGroup.POST("/verify-otp",
			middleware.CombinedRateLimiter("verify-otp", "5-1m", "20-1h"),
			controller.VerifyOTP)
	}

	profile := router.Group("/api/profile")
	profile.Use(auth.AuthMiddleware())
	{
		profile.GET("",
			middleware.NewRateLimiter("30-1m", "get-profile"),
			controller.GetProfile)

		profile.PATCH("",
			middleware.NewRateLimiter("10-1m", "update-profile"),
			controller.UpdateProfile)
	}
}
