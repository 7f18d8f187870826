package user_models

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

// User represents a marketplace account. Customers and vendors share one
// table; vendor-only columns stay at their zero values for customers.
type User struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	PhoneNumber     string    `json:"phone_number"`
	Email           *string   `json:"email,omitempty"`
	Address         string    `json:"address,omitempty"`
	Landmark        string    `json:"landmark,omitempty"`
	Role            string    `json:"role"`
	IsAvailable     bool      `json:"is_available"`
	ServicesOffered []string  `json:"services_offered,omitempty"`
	Pricing         float64   `json:"pricing,omitempty"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	StartTime       string    `json:"start_time,omitempty"` // HH:MM
	EndTime         string    `json:"end_time,omitempty"`   // HH:MM
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Review is a customer rating left on a vendor profile.
type Review struct {
	ID        uuid.UUID `json:"id"`
	VendorID  uuid.UUID `json:"vendor_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

const userColumns = `id, name, phone_number, email, address, landmark, role, is_available,
		services_offered, pricing, latitude, longitude, start_time, end_time, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(
		&u.ID, &u.Name, &u.PhoneNumber, &u.Email, &u.Address, &u.Landmark,
		&u.Role, &u.IsAvailable, &u.ServicesOffered, &u.Pricing,
		&u.Latitude, &u.Longitude, &u.StartTime, &u.EndTime,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// NewUser creates a User struct with a fresh UUID and audit timestamps.
func NewUser(name, phoneNumber, role string) (*User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for user: %w", err)
	}
	if role == "" {
		role = shared_models.RoleUser
	}
	now := time.Now().UTC()
	return &User{
		ID:          id,
		Name:        name,
		PhoneNumber: phoneNumber,
		Role:        role,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CreateUser inserts a new user record.
func CreateUser(ctx context.Context, db *pgxpool.Pool, user *User) (*User, error) {
	logger.InfoLogger.Infof("Creating user record for phone %s", user.PhoneNumber)

	query := `
		INSERT INTO users (
			id, name, phone_number, email, address, landmark, role, is_available,
			services_offered, pricing, latitude, longitude, start_time, end_time,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		) RETURNING id`

	var insertedID uuid.UUID
	err := db.QueryRow(ctx, query,
		user.ID, user.Name, user.PhoneNumber, user.Email, user.Address, user.Landmark,
		user.Role, user.IsAvailable, user.ServicesOffered, user.Pricing,
		user.Latitude, user.Longitude, user.StartTime, user.EndTime,
		user.CreatedAt, user.UpdatedAt,
	).Scan(&insertedID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert user for phone %s: %v", user.PhoneNumber, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = insertedID
	logger.InfoLogger.Infof("User %s created successfully", user.ID)
	return user, nil
}

// GetUserByID fetches a user by its ID.
func GetUserByID(ctx context.Context, db *pgxpool.Pool, userID uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.WarnLogger.Warnf("User with ID %s not found", userID)
			return nil, fmt.Errorf("user %s: %w", userID, utils.ErrNotFound)
		}
		logger.ErrorLogger.Errorf("Failed to fetch user %s: %v", userID, err)
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return user, nil
}

// GetUserByPhone fetches a user by phone number.
func GetUserByPhone(ctx context.Context, db *pgxpool.Pool, phoneNumber string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone_number = $1`

	user, err := scanUser(db.QueryRow(ctx, query, phoneNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with phone %s: %w", phoneNumber, utils.ErrNotFound)
		}
		logger.ErrorLogger.Errorf("Failed to fetch user by phone %s: %v", phoneNumber, err)
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return user, nil
}

// UpdateProfile updates the mutable profile fields of a user.
func UpdateProfile(ctx context.Context, db *pgxpool.Pool, user *User) (*User, error) {
	logger.InfoLogger.Infof("Updating profile for user %s", user.ID)

	query := `
		UPDATE users
		SET name = $2, email = $3, address = $4, landmark = $5,
			services_offered = $6, pricing = $7, latitude = $8, longitude = $9,
			updated_at = $10
		WHERE id = $1`

	cmdTag, err := db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Address, user.Landmark,
		user.ServicesOffered, user.Pricing, user.Latitude, user.Longitude,
		time.Now().UTC(),
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update user %s: %v", user.ID, err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("user %s: %w", user.ID, utils.ErrNotFound)
	}

	return GetUserByID(ctx, db, user.ID)
}

// FindVendorsByService returns available vendors offering any of the given
// services, ordered by creation time. Distance ranking happens in the caller
// once the customer's coordinates are known.
func FindVendorsByService(ctx context.Context, db *pgxpool.Pool, services []string) ([]User, error) {
	logger.InfoLogger.Infof("Searching vendors offering any of %v", services)

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1 AND is_available = TRUE AND services_offered && $2
		ORDER BY created_at ASC`

	rows, err := db.Query(ctx, query, shared_models.RoleVendor, services)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to search vendors: %v", err)
		return nil, fmt.Errorf("failed to search vendors: %w", err)
	}
	defer rows.Close()

	var vendors []User
	for rows.Next() {
		u := User{}
		if err := rows.Scan(
			&u.ID, &u.Name, &u.PhoneNumber, &u.Email, &u.Address, &u.Landmark,
			&u.Role, &u.IsAvailable, &u.ServicesOffered, &u.Pricing,
			&u.Latitude, &u.Longitude, &u.StartTime, &u.EndTime,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			logger.ErrorLogger.Errorf("Failed to scan vendor row: %v", err)
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendors = append(vendors, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vendors: %w", err)
	}

	logger.InfoLogger.Infof("Found %d vendors for services %v", len(vendors), services)
	return vendors, nil
}

// AddReview appends a rating to a vendor profile.
func AddReview(ctx context.Context, db *pgxpool.Pool, review *Review) (*Review, error) {
	if review.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate UUID for review: %w", err)
		}
		review.ID = id
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO reviews (id, vendor_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := db.Exec(ctx, query,
		review.ID, review.VendorID, review.UserID, review.Rating, review.Comment, review.CreatedAt)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert review for vendor %s: %v", review.VendorID, err)
		return nil, fmt.Errorf("failed to add review: %w", err)
	}

	logger.InfoLogger.Infof("Review %s added for vendor %s", review.ID, review.VendorID)
	return review, nil
}

// GetReviewsByVendor lists a vendor's reviews, newest first.
func GetReviewsByVendor(ctx context.Context, db *pgxpool.Pool, vendorID uuid.UUID) ([]Review, error) {
	query := `
		SELECT id, vendor_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE vendor_id = $1
		ORDER BY created_at DESC`

	rows, err := db.Query(ctx, query, vendorID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch reviews for vendor %s: %v", vendorID, err)
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.VendorID, &r.UserID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
