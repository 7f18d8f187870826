package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joy095/marketplace/config/db"
	"github.com/joy095/marketplace/logger"
	"github.com/joy095/marketplace/models/shared_models"
	"github.com/joy095/marketplace/models/user_models"
	"github.com/joy095/marketplace/utils"
	"github.com/joy095/marketplace/utils/jwt_parse"
)

// AuthMiddleware checks the authentication of the request using a JWT token
// and loads the account it belongs to.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		jwt_parse.ParseJWTToken()(c)
		if c.IsAborted() {
			return
		}

		userID, err := utils.GetUserIDFromContext(c)
		if err != nil {
			logger.ErrorLogger.Error("User ID not found in context after JWT parsing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "error": "Unauthorized: missing user identification from token."})
			return
		}

		user, err := user_models.GetUserByID(c.Request.Context(), db.DB, userID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				logger.WarnLogger.Warnf("User %s from token no longer exists", userID)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "USER_TOKEN_INVALID", "error": "User associated with token not found."})
				return
			}
			logger.ErrorLogger.Errorf("Failed to load user %s during auth: %v", userID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": "SERVER_ERROR", "error": "Internal server error."})
			return
		}

		c.Set("authenticated_user", user)
		c.Set("role", user.Role)
		c.Next()
	}
}

// RequireVendor allows only vendor accounts through. Must run after
// AuthMiddleware.
func RequireVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role != shared_models.RoleVendor {
			logger.WarnLogger.Warnf("Non-vendor role %q attempted a vendor route", role)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": "ACCESS_DENIED", "error": "Forbidden: vendor account required."})
			return
		}
		c.Next()
	}
}

// AuthenticatedUser returns the account loaded by AuthMiddleware.
func AuthenticatedUser(c *gin.Context) (*user_models.User, bool) {
	v, exists := c.Get("authenticated_user")
	if !exists {
		return nil, false
	}
	user, ok := v.(*user_models.User)
	return user, ok
}
