package booking_controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/marketplace/logger"
	"github.com/joy095/marketplace/models/booking_models"
	"github.com/joy095/marketplace/models/shared_models"
	"github.com/joy095/marketplace/models/slot_models"
	"github.com/joy095/marketplace/models/vendor_models"
	"github.com/joy095/marketplace/schedule"
	"github.com/joy095/marketplace/utils"
	"github.com/joy095/marketplace/utils/mail"
	"github.com/redis/go-redis/v9"
)

// slotHoldTTL bounds how long a reservation hold can outlive a crashed
// request before the slot frees itself.
const slotHoldTTL = 2 * time.Minute

// BookingController holds dependencies for booking creation and listing.
type BookingController struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
}

// NewBookingController creates a new instance of BookingController.
func NewBookingController(db *pgxpool.Pool, rdb *redis.Client) *BookingController {
	return &BookingController{
		DB:    db,
		Redis: rdb,
	}
}

type BookRequest struct {
	VendorID    string  `json:"vendor_id" binding:"required"`
	ServiceType string  `json:"service_type" binding:"required"`
	Price       float64 `json:"price" binding:"omitempty,gt=0"`
	Date        string  `json:"date" binding:"required"`      // YYYY-MM-DD
	Slot        string  `json:"time_slot" binding:"required"` // HH:MM-HH:MM
}

func slotHoldKey(vendorID uuid.UUID, date, slot string) string {
	return fmt.Sprintf("slot_hold:%s:%s:%s", vendorID, date, slot)
}

// Book handles POST /api/book. The database unique index on
// (vendor_id, date, time) is the authoritative conflict guard; the Redis hold
// in front of it just fails the obvious double click cheaply.
func (bc *BookingController) Book(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor id"})
		return
	}

	day, err := schedule.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if day.Before(today) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is in the past"})
		return
	}

	scheduledAt, err := schedule.ScheduledAt(req.Date, req.Slot)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot, expected HH:MM-HH:MM"})
		return
	}

	ctx := c.Request.Context()

	vendor, err := vendor_models.GetBookableVendor(ctx, bc.DB, vendorID)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
		case errors.Is(err, utils.ErrVendorUnavailable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "vendor is not accepting bookings"})
		default:
			logger.ErrorLogger.Errorf("Failed to load vendor %s for booking: %v", vendorID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load vendor"})
		}
		return
	}

	// The requested slot must be one the vendor's window actually produces.
	start, end := vendor_models.WorkingWindow(vendor)
	duration := schedule.SlotDuration()
	offered, err := schedule.DeriveSlots(start, end, duration)
	if err != nil {
		logger.ErrorLogger.Errorf("Vendor %s has an invalid working window %s-%s: %v", vendorID, start, end, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "vendor working hours are misconfigured"})
		return
	}
	if !containsSlot(offered, req.Slot) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot is outside the vendor's working hours"})
		return
	}

	// Short hold so two requests racing on the same slot fail fast before
	// touching the database. Losing the hold is harmless; the unique index
	// still decides.
	holdKey := slotHoldKey(vendorID, req.Date, req.Slot)
	held, err := bc.Redis.SetNX(ctx, holdKey, userID.String(), slotHoldTTL).Result()
	if err != nil {
		logger.WarnLogger.Warnf("Slot hold check failed for %s, continuing on database guard: %v", holdKey, err)
	} else if !held {
		c.JSON(http.StatusConflict, gin.H{"error": "slot was just booked, please pick another"})
		return
	}

	price, ok := resolvePrice(req.Price, vendor.Pricing)
	if !ok {
		bc.releaseHold(holdKey)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "vendor has no listed price, include one in the request"})
		return
	}

	booking, err := booking_models.NewBooking(
		userID, vendorID, req.ServiceType, price,
		req.Date, req.Slot, int(duration.Minutes()), scheduledAt,
	)
	if err != nil {
		bc.releaseHold(holdKey)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		return
	}

	tx, err := bc.DB.Begin(ctx)
	if err != nil {
		bc.releaseHold(holdKey)
		logger.ErrorLogger.Errorf("Failed to begin booking transaction: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		return
	}
	defer tx.Rollback(ctx)

	// Re-check inside the transaction. The unique index would catch the race
	// anyway; this just answers with a clean conflict instead of an insert
	// failure.
	taken, err := slot_models.IsSlotBookedTx(ctx, tx, vendorID, req.Date, req.Slot)
	if err != nil {
		bc.releaseHold(holdKey)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		return
	}
	if taken {
		bc.releaseHold(holdKey)
		c.JSON(http.StatusConflict, gin.H{"error": "slot was just booked, please pick another"})
		return
	}

	if _, err := booking_models.CreateBookingTx(ctx, tx, booking); err != nil {
		bc.releaseHold(holdKey)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		return
	}

	slot := &slot_models.BookedSlot{
		VendorID:  vendorID,
		Date:      req.Date,
		Time:      req.Slot,
		BookingID: booking.ID,
	}
	if err := slot_models.InsertBookedSlotTx(ctx, tx, slot); err != nil {
		bc.releaseHold(holdKey)
		if errors.Is(err, utils.ErrSlotConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "slot was just booked, please pick another"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reserve slot"})
		return
	}

	if err := tx.Commit(ctx); err != nil {
		bc.releaseHold(holdKey)
		logger.ErrorLogger.Errorf("Failed to commit booking %s: %v", booking.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		return
	}

	// Post-commit side effects never fail the booking. They are reported as
	// partial failures in the logs.
	bc.releaseHold(holdKey)
	if vendor.Email != nil {
		go bc.notifyVendor(*vendor.Email, booking)
	}

	logger.InfoLogger.Infof("Booking %s created by user %s for vendor %s at %s %s",
		booking.ID, userID, vendorID, req.Date, req.Slot)
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GetMyBookings handles GET /api/bookings for the authenticated customer.
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status := c.Query("status")
	if status != "" && !shared_models.ValidStatuses[status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}
	page, limit := paginationParams(c)

	// A vendor's "my bookings" are the jobs booked with them; a customer's are
	// the ones they placed.
	list := booking_models.GetBookingsByCustomer
	if c.GetString("role") == shared_models.RoleVendor {
		list = booking_models.GetBookingsByVendor
	}

	bookings, total, err := list(c.Request.Context(), bc.DB, userID, status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch bookings"})
		return
	}
	if bookings == nil {
		bookings = []booking_models.Booking{}
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (bc *BookingController) releaseHold(holdKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := bc.Redis.Del(ctx, holdKey).Err(); err != nil {
		pf := &utils.PartialFailure{Step: "release_hold", Err: err}
		logger.WarnLogger.Warnf("Hold %s will expire by TTL instead: %v", holdKey, pf)
	}
}

func (bc *BookingController) notifyVendor(email string, booking *booking_models.Booking) {
	subject := "New booking received"
	body := fmt.Sprintf("You have a new %s booking on %s at %s.", booking.ServiceType, booking.Date, booking.Time)
	if err := mail.SendBookingEmail(email, subject, body); err != nil {
		pf := &utils.PartialFailure{
			BookingID: booking.ID.String(),
			VendorID:  booking.VendorID.String(),
			Date:      booking.Date,
			Time:      booking.Time,
			Step:      "notify_vendor",
			Err:       err,
		}
		logger.WarnLogger.Warnf("Booking succeeded with partial failure: %v", pf)
	}
}

// resolvePrice prefers the price named in the request and falls back to the
// vendor's listed one. ok is false when neither is positive; a zero-price
// booking is never created.
func resolvePrice(requested, listed float64) (price float64, ok bool) {
	price = requested
	if price == 0 {
		price = listed
	}
	return price, price > 0
}

func containsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

func paginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
