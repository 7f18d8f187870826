package slot_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/marketplace/logger"
	"github.com/joy095/marketplace/models/shared_models"
	"github.com/joy095/marketplace/utils"
)

const uniqueViolationCode = "23505"

// BookedSlot marks one (date, time) pair occupied on a vendor's calendar. It
// is a rebuildable projection of that vendor's non-canceled bookings; only
// the reservation transaction inserts rows and only the cancellation
// transaction deletes them.
type BookedSlot struct {
	VendorID  uuid.UUID `json:"vendor_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Time      string    `json:"time"` // HH:MM-HH:MM
	BookingID uuid.UUID `json:"booking_id"`
	CreatedAt time.Time `json:"created_at"`
}

// GetBookedTimes returns the occupied slot labels for a vendor on a date.
func GetBookedTimes(ctx context.Context, db *pgxpool.Pool, vendorID uuid.UUID, date string) (map[string]bool, error) {
	query := `SELECT time FROM booked_slots WHERE vendor_id = $1 AND date = $2`

	rows, err := db.Query(ctx, query, vendorID, date)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch booked slots for vendor %s on %s: %v", vendorID, date, err)
		return nil, fmt.Errorf("failed to fetch booked slots: %w", err)
	}
	defer rows.Close()

	booked := make(map[string]bool)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan booked slot: %w", err)
		}
		booked[t] = true
	}
	return booked, rows.Err()
}

// IsSlotBookedTx re-checks a (vendor, date, time) triple inside an open
// transaction, so the read reflects the latest committed state plus the
// transaction's own writes.
func IsSlotBookedTx(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, date, timeSlot string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM booked_slots WHERE vendor_id = $1 AND date = $2 AND time = $3)`,
		vendorID, date, timeSlot,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check booked slot: %w", err)
	}
	return exists, nil
}

// InsertBookedSlotTx appends a slot to the vendor's projection. The unique
// index on (vendor_id, date, time) is the real race guard: the second
// concurrent writer gets a conflict, never a silent overwrite.
func InsertBookedSlotTx(ctx context.Context, tx pgx.Tx, slot *BookedSlot) error {
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO booked_slots (vendor_id, date, time, booking_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		slot.VendorID, slot.Date, slot.Time, slot.BookingID, slot.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			logger.InfoLogger.Infof("Slot %s %s already booked for vendor %s", slot.Date, slot.Time, slot.VendorID)
			return fmt.Errorf("vendor %s, %s %s: %w", slot.VendorID, slot.Date, slot.Time, utils.ErrSlotConflict)
		}
		logger.ErrorLogger.Errorf("Failed to insert booked slot for vendor %s: %v", slot.VendorID, err)
		return fmt.Errorf("failed to reserve slot: %w", err)
	}
	return nil
}

// ReleaseSlotByStartTx removes the projection row whose date matches and
// whose time begins with the booking's start time. Matching tolerates end
// time formatting drift but the start component must match exactly. Returns
// false when no row was found, which callers log as an inconsistency rather
// than treating as an error.
func ReleaseSlotByStartTx(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, date, startTime string) (bool, error) {
	cmdTag, err := tx.Exec(ctx,
		`DELETE FROM booked_slots WHERE vendor_id = $1 AND date = $2 AND time LIKE $3`,
		vendorID, date, startTime+"%",
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to release slot %s %s for vendor %s: %v", date, startTime, vendorID, err)
		return false, fmt.Errorf("failed to release slot: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// RebuildProjection drops and recreates a vendor's booked_slots rows from the
// set of that vendor's non-canceled bookings. Reconciliation tool for the
// rare case a partial failure left the projection stale.
func RebuildProjection(ctx context.Context, db *pgxpool.Pool, vendorID uuid.UUID) (int, error) {
	logger.InfoLogger.Infof("Rebuilding booked slot projection for vendor %s", vendorID)

	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM booked_slots WHERE vendor_id = $1`, vendorID); err != nil {
		return 0, fmt.Errorf("failed to clear projection: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `
		INSERT INTO booked_slots (vendor_id, date, time, booking_id, created_at)
		SELECT b.vendor_id, b.date, b.time, b.id, now()
		FROM bookings b
		WHERE b.vendor_id = $1 AND b.status <> $2`,
		vendorID, shared_models.BookingStatusCanceled,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to rebuild projection: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit projection rebuild: %w", err)
	}

	rebuilt := int(cmdTag.RowsAffected())
	logger.InfoLogger.Infof("Projection rebuilt for vendor %s with %d slots", vendorID, rebuilt)
	return rebuilt, nil
}
