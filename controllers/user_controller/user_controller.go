package user_controller

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/marketplace/logger"
	"github.com/joy095/marketplace/middlewares/auth"
	"github.com/joy095/marketplace/models/shared_models"
	"github.com/joy095/marketplace/models/user_models"
	"github.com/joy095/marketplace/utils"
	"github.com/redis/go-redis/v9"
)

const (
	otpTTL        = 5 * time.Minute
	tokenLifetime = 24 * time.Hour
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// UserController handles phone-number authentication and profile management.
type UserController struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
}

// NewUserController creates a new instance of UserController.
func NewUserController(db *pgxpool.Pool, rdb *redis.Client) *UserController {
	return &UserController{
		DB:    db,
		Redis: rdb,
	}
}

func otpKey(phoneNumber string) string {
	return fmt.Sprintf("otp:%s", phoneNumber)
}

type RequestOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// RequestOTP handles POST /api/auth/request-otp. Only the argon2 hash of the
// code is stored; the plain code goes out through the SMS gateway.
func (uc *UserController) RequestOTP(c *gin.Context) {
	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || !phonePattern.MatchString(req.PhoneNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
		return
	}

	otp := utils.GenerateSecureOTP()
	hashed := utils.HashOTP(otp)
	ctx := c.Request.Context()
	if err := uc.Redis.Set(ctx, otpKey(req.PhoneNumber), hashed, otpTTL).Err(); err != nil {
		logger.ErrorLogger.Errorf("Failed to store OTP for %s: %v", req.PhoneNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store code"})
		return
	}

	if os.Getenv("GIN_MODE") != "release" {
		// No SMS gateway in development. TODO: wire the SMS provider once
		// credentials land.
		logger.InfoLogger.Infof("OTP for %s is %s", req.PhoneNumber, otp)
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	OTP         string `json:"otp" binding:"required,len=6"`
	Name        string `json:"name"`
	Role        string `json:"role"`
}

// VerifyOTP handles POST /api/auth/verify-otp. An unknown phone number with a
// valid code becomes a new account, so signup and login share one flow.
func (uc *UserController) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || !phonePattern.MatchString(req.PhoneNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Role != "" && req.Role != shared_models.RoleUser && req.Role != shared_models.RoleVendor {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	ctx := c.Request.Context()
	key := otpKey(req.PhoneNumber)

	storedHash, err := uc.Redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "code expired or never requested"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to fetch OTP for %s: %v", req.PhoneNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify code"})
		return
	}
	if !utils.VerifyOTP(req.OTP, storedHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid code"})
		return
	}
	// Single use.
	uc.Redis.Del(ctx, key)

	user, err := user_models.GetUserByPhone(ctx, uc.DB, req.PhoneNumber)
	if err != nil {
		if !errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load account"})
			return
		}
		user, err = user_models.NewUser(req.Name, req.PhoneNumber, req.Role)
		if err == nil {
			user, err = user_models.CreateUser(ctx, uc.DB, user)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
			return
		}
	}

	token, err := issueToken(user)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to sign token for user %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func issueToken(user *user_models.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":     user.ID.String(),
		"user_id": user.ID.String(),
		"role":    user.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenLifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(utils.GetJWTSecret())
}

// GetProfile handles GET /api/profile. AuthMiddleware already loaded the
// account, so the handler serves it straight from the context.
func (uc *UserController) GetProfile(c *gin.Context) {
	user, ok := auth.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UpdateProfileRequest struct {
	Name            string   `json:"name"`
	Email           *string  `json:"email"`
	Address         string   `json:"address"`
	Landmark        string   `json:"landmark"`
	ServicesOffered []string `json:"services_offered"`
	Pricing         float64  `json:"pricing"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
}

// UpdateProfile handles PATCH /api/profile. Unset fields keep their current
// values.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	user, ok := auth.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.Landmark != "" {
		user.Landmark = req.Landmark
	}
	if req.ServicesOffered != nil {
		user.ServicesOffered = req.ServicesOffered
	}
	if req.Pricing > 0 {
		user.Pricing = req.Pricing
	}
	if req.Latitude != 0 || req.Longitude != 0 {
		user.Latitude = req.Latitude
		user.Longitude = req.Longitude
	}

	updated, err := user_models.UpdateProfile(c.Request.Context(), uc.DB, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": updated})
}
