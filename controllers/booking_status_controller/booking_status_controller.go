package booking_status_controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/marketplace/logger"
	"github.com/joy095/marketplace/models/booking_models"
	"github.com/joy095/marketplace/models/shared_models"
	"github.com/joy095/marketplace/models/slot_models"
	"github.com/joy095/marketplace/schedule"
	"github.com/joy095/marketplace/utils"
)

// BookingStatusController moves bookings through their lifecycle and serves
// the vendor dashboard.
type BookingStatusController struct {
	DB *pgxpool.Pool
}

// NewBookingStatusController creates a new instance of BookingStatusController.
func NewBookingStatusController(db *pgxpool.Pool) *BookingStatusController {
	return &BookingStatusController{
		DB: db,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetVendorBookings handles GET /api/vendor/bookings with the dashboard
// counters attached.
func (bsc *BookingStatusController) GetVendorBookings(c *gin.Context) {
	vendorID, err := utils.GetUserIDFromContext(c)
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

	ctx := c.Request.Context()

	bookings, total, err := booking_models.GetBookingsByVendor(ctx, bsc.DB, vendorID, status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch bookings"})
		return
	}
	if bookings == nil {
		bookings = []booking_models.Booking{}
	}

	stats, err := booking_models.GetVendorStats(ctx, bsc.DB, vendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"stats":    stats,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// UpdateBookingStatus handles PATCH /api/vendor/bookings/:id. Only the vendor
// the booking belongs to may move it.
func (bsc *BookingStatusController) UpdateBookingStatus(c *gin.Context) {
	vendorID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !shared_models.ValidStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	booking, pf, err := bsc.transition(c.Request.Context(), bookingID, req.Status, func(b *booking_models.Booking) error {
		if b.VendorID != vendorID {
			return fmt.Errorf("booking %s belongs to another vendor: %w", b.ID, utils.ErrForbidden)
		}
		return nil
	})
	if err != nil {
		bsc.respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, transitionResponse(booking, pf))
}

// CancelMyBooking handles PATCH /api/bookings/:id/cancel for the customer who
// made the booking.
func (bsc *BookingStatusController) CancelMyBooking(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, pf, err := bsc.transition(c.Request.Context(), bookingID, shared_models.BookingStatusCanceled, func(b *booking_models.Booking) error {
		if b.UserID != userID {
			return fmt.Errorf("booking %s belongs to another customer: %w", b.ID, utils.ErrForbidden)
		}
		return nil
	})
	if err != nil {
		bsc.respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, transitionResponse(booking, pf))
}

// transitionResponse attaches a cleanup warning when the status write landed
// but a follow-up step did not, so callers never mistake a partial success
// for a clean one.
func transitionResponse(booking *booking_models.Booking, pf *utils.PartialFailure) gin.H {
	resp := gin.H{"booking": booking}
	if pf != nil {
		resp["warning"] = pf.Error()
	}
	return resp
}

// RebuildSlots handles POST /api/vendor/slots/rebuild. Recomputes the
// vendor's booked-slot projection from their non-canceled bookings, for when
// a reported partial failure left it stale.
func (bsc *BookingStatusController) RebuildSlots(c *gin.Context) {
	vendorID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	rebuilt, err := slot_models.RebuildProjection(c.Request.Context(), bsc.DB, vendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rebuild slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rebuilt_slots": rebuilt})
}

// transition applies one lifecycle edge atomically. Cancellation frees the
// slot row in the same transaction as the status write, so the calendar can
// never show a canceled booking as occupied.
func (bsc *BookingStatusController) transition(ctx context.Context, bookingID uuid.UUID, newStatus string, authorize func(*booking_models.Booking) error) (*booking_models.Booking, *utils.PartialFailure, error) {
	booking, err := booking_models.GetBookingByID(ctx, bsc.DB, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if err := authorize(booking); err != nil {
		return nil, nil, err
	}
	if !shared_models.CanTransition(booking.Status, newStatus) {
		return nil, nil, fmt.Errorf("cannot move booking from %s to %s: %w",
			booking.Status, newStatus, utils.ErrInvalidTransition)
	}

	tx, err := bsc.DB.Begin(ctx)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to begin transition transaction for booking %s: %v", bookingID, err)
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := booking_models.UpdateBookingStatusTx(ctx, tx, bookingID, booking.Status, newStatus); err != nil {
		return nil, nil, err
	}

	var pf *utils.PartialFailure
	if newStatus == shared_models.BookingStatusCanceled {
		startTime, err := schedule.SlotStart(booking.Time)
		if err != nil {
			logger.ErrorLogger.Errorf("Booking %s has a malformed slot %q: %v", bookingID, booking.Time, err)
			return nil, nil, fmt.Errorf("booking slot is malformed: %w", err)
		}
		released, err := slot_models.ReleaseSlotByStartTx(ctx, tx, booking.VendorID, booking.Date, startTime)
		if err != nil {
			return nil, nil, err
		}
		if !released {
			pf = &utils.PartialFailure{
				BookingID: bookingID.String(),
				VendorID:  booking.VendorID.String(),
				Date:      booking.Date,
				Time:      booking.Time,
				Step:      "release_slot",
				Err:       errors.New("no matching booked slot row"),
			}
			logger.WarnLogger.Warnf("Cancellation proceeding despite stale projection: %v", pf)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		logger.ErrorLogger.Errorf("Failed to commit transition for booking %s: %v", bookingID, err)
		return nil, nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	logger.InfoLogger.Infof("Booking %s moved from %s to %s", bookingID, booking.Status, newStatus)
	updated, err := booking_models.GetBookingByID(ctx, bsc.DB, bookingID)
	return updated, pf, err
}

func (bsc *BookingStatusController) respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, utils.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this booking"})
	case errors.Is(err, utils.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update booking"})
	}
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
