package availability_controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/marketplace/logger"
	"github.com/joy095/marketplace/models/slot_models"
	"github.com/joy095/marketplace/models/vendor_models"
	"github.com/joy095/marketplace/schedule"
	"github.com/joy095/marketplace/utils"
)

// AvailabilityController serves the derived open slots for a vendor's day.
type AvailabilityController struct {
	DB *pgxpool.Pool
}

// NewAvailabilityController creates a new instance of AvailabilityController.
func NewAvailabilityController(db *pgxpool.Pool) *AvailabilityController {
	return &AvailabilityController{
		DB: db,
	}
}

// GetAvailability handles GET /api/availability/:vendorId?date=YYYY-MM-DD.
// Slots are derived fresh on every request from the vendor's working window
// minus the booked projection, never stored.
func (ac *AvailabilityController) GetAvailability(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("vendorId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor id"})
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}
	if _, err := schedule.ParseDate(dateStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	ctx := c.Request.Context()

	vendor, err := vendor_models.GetBookableVendor(ctx, ac.DB, vendorID)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
		case errors.Is(err, utils.ErrVendorUnavailable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "vendor is not accepting bookings"})
		default:
			logger.ErrorLogger.Errorf("Failed to load vendor %s for availability: %v", vendorID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load vendor"})
		}
		return
	}

	start, end := vendor_models.WorkingWindow(vendor)
	slots, err := schedule.DeriveSlots(start, end, schedule.SlotDuration())
	if err != nil {
		logger.ErrorLogger.Errorf("Vendor %s has an invalid working window %s-%s: %v", vendorID, start, end, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "vendor working hours are misconfigured"})
		return
	}

	booked, err := slot_models.GetBookedTimes(ctx, ac.DB, vendorID, dateStr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load booked slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vendor_id":       vendorID,
		"date":            dateStr,
		"available_slots": schedule.FilterBooked(slots, booked),
		"working_hours":   gin.H{"start": start, "end": end},
	})
}
