// Package schedule derives bookable time slots from a vendor's daily working
// window. Everything here is pure string/minute math; persistence and
// conflict checks live with the booking models.
package schedule

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultOpenTime and DefaultCloseTime apply when a vendor has not set a
	// working window.
	DefaultOpenTime  = "09:00"
	DefaultCloseTime = "18:00"

	// DefaultSlotMinutes is the canonical slot length. Call sites that need a
	// different granularity pass their own duration to DeriveSlots; there is
	// exactly one scheme per call site, never a silent mix.
	DefaultSlotMinutes = 120
)

var (
	ErrInvalidTime     = errors.New("invalid time format, expected HH:MM")
	ErrInvalidWindow   = errors.New("start time must be before end time")
	ErrInvalidDuration = errors.New("slot duration must be positive")
	ErrInvalidDate     = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidSlot     = errors.New("invalid slot format, expected HH:MM-HH:MM")
)

// SlotDuration reads SLOT_DURATION_MINUTES from the environment, falling back
// to the canonical two-hour slots.
func SlotDuration() time.Duration {
	if v := os.Getenv("SLOT_DURATION_MINUTES"); v != "" {
		if mins, err := strconv.Atoi(v); err == nil && mins > 0 {
			return time.Duration(mins) * time.Minute
		}
	}
	return DefaultSlotMinutes * time.Minute
}

// ParseClockToMinutes converts an "HH:MM" string to minutes since midnight.
func ParseClockToMinutes(timeStr string) (int, error) {
	tm, err := time.Parse("15:04", timeStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
	}
	return tm.Hour()*60 + tm.Minute(), nil
}

// MinutesToClock formats minutes since midnight as "HH:MM".
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate validates a "YYYY-MM-DD" date string.
func ParseDate(dateStr string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}
	return date, nil
}

// DeriveSlots produces the ordered candidate slots covering [start, end) for
// the given duration, each formatted "HH:MM-HH:MM". A trailing window shorter
// than one slot is dropped; a window shorter than one slot yields an empty
// slice, not an error. The result is recomputed fresh on every call.
func DeriveSlots(start, end string, duration time.Duration) ([]string, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if start == "" {
		start = DefaultOpenTime
	}
	if end == "" {
		end = DefaultCloseTime
	}

	startMin, err := ParseClockToMinutes(start)
	if err != nil {
		return nil, err
	}
	endMin, err := ParseClockToMinutes(end)
	if err != nil {
		return nil, err
	}
	if startMin >= endMin {
		return nil, fmt.Errorf("%w: %s >= %s", ErrInvalidWindow, start, end)
	}

	step := int(duration.Minutes())
	slots := make([]string, 0, (endMin-startMin)/step)
	for cursor := startMin; cursor+step <= endMin; cursor += step {
		slots = append(slots, MinutesToClock(cursor)+"-"+MinutesToClock(cursor+step))
	}
	return slots, nil
}

// FilterBooked removes every slot whose exact label appears in booked,
// preserving candidate order.
func FilterBooked(slots []string, booked map[string]bool) []string {
	free := make([]string, 0, len(slots))
	for _, s := range slots {
		if !booked[s] {
			free = append(free, s)
		}
	}
	return free
}

// SlotStart returns the "HH:MM" start component of an "HH:MM-HH:MM" slot.
func SlotStart(slot string) (string, error) {
	if len(slot) < 11 || slot[5] != '-' {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	start := slot[:5]
	if _, err := ParseClockToMinutes(start); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return start, nil
}

// ScheduledAt combines a date and a slot into the absolute start timestamp,
// in UTC. The whole system runs on a single implicit timezone.
func ScheduledAt(dateStr, slot string) (time.Time, error) {
	if _, err := ParseDate(dateStr); err != nil {
		return time.Time{}, err
	}
	start, err := SlotStart(slot)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse("2006-01-02 15:04", dateStr+" "+start)
}
