package vendor_controller

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/marketplace/logger"
	"github.com/joy095/marketplace/models/user_models"
	"github.com/joy095/marketplace/models/vendor_models"
	"github.com/joy095/marketplace/schedule"
	"github.com/joy095/marketplace/utils"
	"github.com/joy095/marketplace/utils/geo"
)

// VendorController serves vendor discovery, profiles and reviews.
type VendorController struct {
	DB *pgxpool.Pool
}

// NewVendorController creates a new instance of VendorController.
func NewVendorController(db *pgxpool.Pool) *VendorController {
	return &VendorController{
		DB: db,
	}
}

type FindVendorsRequest struct {
	Services  []string `json:"services" binding:"required,min=1"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
}

// vendorWithDistance decorates a search hit with its distance from the
// customer in kilometers.
type vendorWithDistance struct {
	user_models.User
	DistanceKm float64 `json:"distance_km"`
}

// FindVendors handles POST /api/vendors/search. Results are ranked by
// distance when the customer sends coordinates.
func (vc *VendorController) FindVendors(c *gin.Context) {
	var req FindVendorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	vendors, err := user_models.FindVendorsByService(c.Request.Context(), vc.DB, req.Services)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search vendors"})
		return
	}

	hasLocation := req.Latitude != 0 || req.Longitude != 0
	results := make([]vendorWithDistance, 0, len(vendors))
	for _, v := range vendors {
		d := 0.0
		if hasLocation {
			d = geo.Distance(req.Latitude, req.Longitude, v.Latitude, v.Longitude)
		}
		results = append(results, vendorWithDistance{User: v, DistanceKm: d})
	}
	if hasLocation {
		sort.Slice(results, func(i, j int) bool {
			return results[i].DistanceKm < results[j].DistanceKm
		})
	}

	c.JSON(http.StatusOK, gin.H{"vendors": results})
}

// ShowVendor handles GET /api/vendors/:vendorId with the vendor's reviews
// inlined.
func (vc *VendorController) ShowVendor(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("vendorId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor id"})
		return
	}

	ctx := c.Request.Context()

	vendor, err := vendor_models.GetVendorByID(ctx, vc.DB, vendorID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load vendor"})
		return
	}

	reviews, err := user_models.GetReviewsByVendor(ctx, vc.DB, vendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendor": vendor, "reviews": reviews})
}

type UpdateAvailabilityRequest struct {
	StartTime   string `json:"start_time" binding:"required"` // HH:MM
	EndTime     string `json:"end_time" binding:"required"`   // HH:MM
	IsAvailable *bool  `json:"is_available" binding:"required"`
}

// UpdateAvailability handles PATCH /api/vendor/availability for the
// authenticated vendor.
func (vc *VendorController) UpdateAvailability(c *gin.Context) {
	vendorID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	startMin, err := schedule.ParseClockToMinutes(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time, expected HH:MM"})
		return
	}
	endMin, err := schedule.ParseClockToMinutes(req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_time, expected HH:MM"})
		return
	}
	if endMin <= startMin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
		return
	}

	if err := vendor_models.UpdateAvailability(c.Request.Context(), vc.DB, vendorID,
		req.StartTime, req.EndTime, *req.IsAvailable); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start_time":   req.StartTime,
		"end_time":     req.EndTime,
		"is_available": *req.IsAvailable,
	})
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

// AddReview handles POST /api/vendors/:vendorId/reviews.
func (vc *VendorController) AddReview(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	vendorID, err := uuid.Parse(c.Param("vendorId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor id"})
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review, rating must be 1-5"})
		return
	}

	ctx := c.Request.Context()

	if _, err := vendor_models.GetVendorByID(ctx, vc.DB, vendorID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load vendor"})
		return
	}

	review := &user_models.Review{
		VendorID: vendorID,
		UserID:   userID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if _, err := user_models.AddReview(ctx, vc.DB, review); err != nil {
		logger.ErrorLogger.Errorf("Failed to add review for vendor %s: %v", vendorID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}
