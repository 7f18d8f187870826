package shared_models

// Booking status values.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCanceled  = "canceled"
)

// ValidStatuses for request validation.
var ValidStatuses = map[string]bool{
	BookingStatusPending:   true,
	BookingStatusConfirmed: true,
	BookingStatusCompleted: true,
	BookingStatusCanceled:  true,
}

// legalTransitions is the booking state machine. completed and canceled are
// terminal.
var legalTransitions = map[string][]string{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCanceled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCanceled},
	BookingStatusCompleted: {},
	BookingStatusCanceled:  {},
}

// CanTransition reports whether moving a booking from one status to another
// is a legal edge of the state machine.
func CanTransition(from, to string) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidTransitionsFrom returns the statuses reachable from the given one.
func ValidTransitionsFrom(from string) []string {
	next := legalTransitions[from]
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// User roles.
const (
	RoleUser   = "user"
	RoleVendor = "vendor"
)
