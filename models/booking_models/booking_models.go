package booking_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/marketplace/logger"
	"github.com/joy095/marketplace/models/shared_models"
	"github.com/joy095/marketplace/utils"
)

// Booking represents a customer's reservation of a vendor slot. Date and Time
// keep the slot exactly as it was offered; ScheduledAt is the same moment as
// a UTC timestamp for sorting and reminders.
type Booking struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	VendorID       uuid.UUID  `json:"vendor_id"`
	ServiceType    string     `json:"service_type"`
	Price          float64    `json:"price"`
	Date           string     `json:"date"` // YYYY-MM-DD
	Time           string     `json:"time"` // HH:MM-HH:MM
	SlotMinutes    int        `json:"slot_minutes"`
	ScheduledAt    time.Time  `json:"scheduled_at"`
	Status         string     `json:"status"`
	PaymentOrderID *string    `json:"payment_order_id,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

const bookingColumns = `id, user_id, vendor_id, service_type, price, date, time, slot_minutes,
			scheduled_at, status, payment_order_id, completed_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	b := &Booking{}
	err := row.Scan(
		&b.ID, &b.UserID, &b.VendorID, &b.ServiceType, &b.Price,
		&b.Date, &b.Time, &b.SlotMinutes, &b.ScheduledAt, &b.Status,
		&b.PaymentOrderID, &b.CompletedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// NewBooking creates a Booking struct in pending status.
func NewBooking(userID, vendorID uuid.UUID, serviceType string, price float64, date, timeSlot string, slotMinutes int, scheduledAt time.Time) (*Booking, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for booking: %w", err)
	}
	now := time.Now().UTC()
	return &Booking{
		ID:          id,
		UserID:      userID,
		VendorID:    vendorID,
		ServiceType: serviceType,
		Price:       price,
		Date:        date,
		Time:        timeSlot,
		SlotMinutes: slotMinutes,
		ScheduledAt: scheduledAt,
		Status:      shared_models.BookingStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CreateBookingTx inserts a booking inside the reservation transaction, so it
// commits or rolls back together with the slot row.
func CreateBookingTx(ctx context.Context, tx pgx.Tx, booking *Booking) (*Booking, error) {
	logger.InfoLogger.Infof("Creating booking for vendor %s at %s %s", booking.VendorID, booking.Date, booking.Time)

	query := `
		INSERT INTO bookings (
			id, user_id, vendor_id, service_type, price, date, time, slot_minutes,
			scheduled_at, status, payment_order_id, completed_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING id`

	var insertedID uuid.UUID
	err := tx.QueryRow(ctx, query,
		booking.ID, booking.UserID, booking.VendorID, booking.ServiceType, booking.Price,
		booking.Date, booking.Time, booking.SlotMinutes, booking.ScheduledAt, booking.Status,
		booking.PaymentOrderID, booking.CompletedAt, booking.CreatedAt, booking.UpdatedAt,
	).Scan(&insertedID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert booking for vendor %s: %v", booking.VendorID, err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.ID = insertedID
	logger.InfoLogger.Infof("Booking %s created for vendor %s", booking.ID, booking.VendorID)
	return booking, nil
}

// GetBookingByID fetches a booking record by its ID.
func GetBookingByID(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(db.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.WarnLogger.Warnf("Booking with ID %s not found", bookingID)
			return nil, fmt.Errorf("booking %s: %w", bookingID, utils.ErrNotFound)
		}
		logger.ErrorLogger.Errorf("Failed to fetch booking %s: %v", bookingID, err)
		return nil, fmt.Errorf("database error fetching booking: %w", err)
	}
	return booking, nil
}

// GetBookingByOrderID fetches the booking tied to a payment order.
func GetBookingByOrderID(ctx context.Context, db *pgxpool.Pool, orderID string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_order_id = $1`

	booking, err := scanBooking(db.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking for order %s: %w", orderID, utils.ErrNotFound)
		}
		logger.ErrorLogger.Errorf("Failed to fetch booking for order %s: %v", orderID, err)
		return nil, fmt.Errorf("database error fetching booking: %w", err)
	}
	return booking, nil
}

// UpdateBookingStatusTx moves a booking from its expected current status to a
// new one inside a transaction. The status predicate makes the update a
// compare-and-swap: when a concurrent transition already moved the booking,
// the update matches zero rows and the caller gets ErrInvalidTransition
// instead of silently overwriting the other writer. A booking reaching
// completed gets its completed_at stamped; any other transition leaves the
// column untouched.
func UpdateBookingStatusTx(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID, fromStatus, toStatus string) error {
	logger.InfoLogger.Infof("Updating status for booking %s from %s to %s", bookingID, fromStatus, toStatus)

	query := `
		UPDATE bookings
		SET status = $2, updated_at = $3,
			completed_at = CASE WHEN $2 = $4 THEN $3 ELSE completed_at END
		WHERE id = $1 AND status = $5`

	now := time.Now().UTC()
	cmdTag, err := tx.Exec(ctx, query, bookingID, toStatus, now, shared_models.BookingStatusCompleted, fromStatus)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update booking %s status: %v", bookingID, err)
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("booking %s is no longer %s: %w", bookingID, fromStatus, utils.ErrInvalidTransition)
	}

	logger.InfoLogger.Infof("Booking %s status updated to %s", bookingID, toStatus)
	return nil
}

// SetPaymentOrderID attaches a payment gateway order to a booking.
func SetPaymentOrderID(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID, orderID string) error {
	query := `UPDATE bookings SET payment_order_id = $2, updated_at = $3 WHERE id = $1`

	cmdTag, err := db.Exec(ctx, query, bookingID, orderID, time.Now().UTC())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to attach order %s to booking %s: %v", orderID, bookingID, err)
		return fmt.Errorf("failed to attach payment order: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", bookingID, utils.ErrNotFound)
	}
	return nil
}

// GetBookingsByCustomer retrieves a customer's bookings with pagination and an
// optional status filter, newest first.
func GetBookingsByCustomer(ctx context.Context, db *pgxpool.Pool, customerID uuid.UUID, status string, page, limit int) ([]Booking, int, error) {
	return listBookings(ctx, db, "user_id", customerID, status, page, limit)
}

// GetBookingsByVendor retrieves a vendor's incoming bookings with pagination
// and an optional status filter, newest first.
func GetBookingsByVendor(ctx context.Context, db *pgxpool.Pool, vendorID uuid.UUID, status string, page, limit int) ([]Booking, int, error) {
	return listBookings(ctx, db, "vendor_id", vendorID, status, page, limit)
}

// ownerColumn is always a literal from the two callers above, never request
// input.
func listBookings(ctx context.Context, db *pgxpool.Pool, ownerColumn string, ownerID uuid.UUID, status string, page, limit int) ([]Booking, int, error) {
	logger.InfoLogger.Infof("Fetching bookings where %s=%s status=%q page=%d", ownerColumn, ownerID, status, page)

	offset := (page - 1) * limit

	baseQuery := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + ownerColumn + ` = $1`
	countQuery := `SELECT COUNT(*) FROM bookings WHERE ` + ownerColumn + ` = $1`

	args := []interface{}{ownerID}
	if status != "" {
		baseQuery += " AND status = $2"
		countQuery += " AND status = $2"
		args = append(args, status)
	}
	query := fmt.Sprintf("%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d", baseQuery, len(args)+1, len(args)+2)

	var totalCount int
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		logger.ErrorLogger.Errorf("Failed to count bookings for %s: %v", ownerID, err)
		return nil, 0, fmt.Errorf("failed to get booking count: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch bookings for %s: %v", ownerID, err)
		return nil, 0, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.VendorID, &b.ServiceType, &b.Price,
			&b.Date, &b.Time, &b.SlotMinutes, &b.ScheduledAt, &b.Status,
			&b.PaymentOrderID, &b.CompletedAt, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			logger.ErrorLogger.Errorf("Failed to scan booking row: %v", err)
			return nil, 0, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read bookings: %w", err)
	}

	logger.InfoLogger.Infof("Fetched %d bookings (total %d)", len(bookings), totalCount)
	return bookings, totalCount, nil
}

// VendorStats aggregates a vendor's booking counts and completed revenue.
type VendorStats struct {
	Total     int     `json:"total"`
	Pending   int     `json:"pending"`
	Confirmed int     `json:"confirmed"`
	Completed int     `json:"completed"`
	Canceled  int     `json:"canceled"`
	Revenue   float64 `json:"revenue"`
}

// GetVendorStats computes dashboard counters for a vendor.
func GetVendorStats(ctx context.Context, db *pgxpool.Pool, vendorID uuid.UUID) (*VendorStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'canceled'),
			COALESCE(SUM(price) FILTER (WHERE status = 'completed'), 0)
		FROM bookings
		WHERE vendor_id = $1`

	stats := &VendorStats{}
	err := db.QueryRow(ctx, query, vendorID).Scan(
		&stats.Total, &stats.Pending, &stats.Confirmed,
		&stats.Completed, &stats.Canceled, &stats.Revenue,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to compute stats for vendor %s: %v", vendorID, err)
		return nil, fmt.Errorf("failed to compute vendor stats: %w", err)
	}
	return stats, nil
}
