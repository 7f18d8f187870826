package utils

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the booking core. Handlers map these to HTTP
// status codes; nothing below this layer decides response framing.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrVendorUnavailable = errors.New("vendor is not accepting bookings")
	ErrSlotConflict      = errors.New("slot already booked")
	ErrForbidden         = errors.New("not authorized for this operation")
	ErrInvalidTransition = errors.New("illegal booking status transition")

	ErrUserIDNotFound = errors.New("authentication required: user ID not found")
	ErrUnauthorized   = errors.New("unauthorized access")
)

// PartialFailure reports a multi-step mutation whose primary write committed
// but whose follow-up step failed. It carries enough detail for manual or
// automated reconciliation of the vendor's slot projection.
type PartialFailure struct {
	BookingID string
	VendorID  string
	Date      string
	Time      string
	Step      string
	Err       error
}

func (p *PartialFailure) Error() string {
	return fmt.Sprintf("partial failure at %s for booking %s (vendor %s, %s %s): %v",
		p.Step, p.BookingID, p.VendorID, p.Date, p.Time, p.Err)
}

func (p *PartialFailure) Unwrap() error { return p.Err }
