package vendor_models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/marketplace/logger"
	"github.com/joy095/marketplace/models/shared_models"
	"github.com/joy095/marketplace/models/user_models"
	"github.com/joy095/marketplace/schedule"
	"github.com/joy095/marketplace/utils"
)

// GetVendorByID fetches a user and verifies it is a vendor. A non-vendor role
// is reported as not found so callers cannot probe customer accounts.
func GetVendorByID(ctx context.Context, db *pgxpool.Pool, vendorID uuid.UUID) (*user_models.User, error) {
	vendor, err := user_models.GetUserByID(ctx, db, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor.Role != shared_models.RoleVendor {
		logger.WarnLogger.Warnf("User %s is not a vendor (role=%s)", vendorID, vendor.Role)
		return nil, fmt.Errorf("vendor %s: %w", vendorID, utils.ErrNotFound)
	}
	return vendor, nil
}

// GetBookableVendor fetches a vendor and verifies it is accepting bookings.
func GetBookableVendor(ctx context.Context, db *pgxpool.Pool, vendorID uuid.UUID) (*user_models.User, error) {
	vendor, err := GetVendorByID(ctx, db, vendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsAvailable {
		logger.InfoLogger.Infof("Vendor %s exists but is not accepting bookings", vendorID)
		return nil, fmt.Errorf("vendor %s: %w", vendorID, utils.ErrVendorUnavailable)
	}
	return vendor, nil
}

// WorkingWindow returns the vendor's daily window, applying the defaults when
// the vendor never set one.
func WorkingWindow(vendor *user_models.User) (start, end string) {
	start, end = vendor.StartTime, vendor.EndTime
	if start == "" {
		start = schedule.DefaultOpenTime
	}
	if end == "" {
		end = schedule.DefaultCloseTime
	}
	return start, end
}

// UpdateAvailability sets the vendor's working window and booking toggle.
// Times must already be validated HH:MM strings.
func UpdateAvailability(ctx context.Context, db *pgxpool.Pool, vendorID uuid.UUID, startTime, endTime string, isAvailable bool) error {
	logger.InfoLogger.Infof("Updating availability for vendor %s to %s-%s (accepting=%t)",
		vendorID, startTime, endTime, isAvailable)

	query := `
		UPDATE users
		SET start_time = $2, end_time = $3, is_available = $4, updated_at = $5
		WHERE id = $1 AND role = $6`

	cmdTag, err := db.Exec(ctx, query, vendorID, startTime, endTime, isAvailable,
		time.Now().UTC(), shared_models.RoleVendor)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update availability for vendor %s: %v", vendorID, err)
		return fmt.Errorf("failed to update vendor availability: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("vendor %s: %w", vendorID, utils.ErrNotFound)
	}
	return nil
}
