package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSlotsTwoHour(t *testing.T) {
	slots, err := DeriveSlots("09:00", "18:00", 2*time.Hour)
	require.NoError(t, err)

	// The final partial 17:00-18:00 hour is dropped.
	assert.Equal(t, []string{
		"09:00-11:00",
		"11:00-13:00",
		"13:00-15:00",
		"15:00-17:00",
	}, slots)
}

func TestDeriveSlotsOneHour(t *testing.T) {
	slots, err := DeriveSlots("10:00", "13:00", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00-11:00", "11:00-12:00", "12:00-13:00"}, slots)
}

func TestDeriveSlotsDeterministic(t *testing.T) {
	first, err := DeriveSlots("08:30", "17:45", 90*time.Minute)
	require.NoError(t, err)
	second, err := DeriveSlots("08:30", "17:45", 90*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDeriveSlotsContiguous(t *testing.T) {
	slots, err := DeriveSlots("09:00", "18:00", 2*time.Hour)
	require.NoError(t, err)

	for i, s := range slots {
		start, err := SlotStart(s)
		require.NoError(t, err)
		startMin, err := ParseClockToMinutes(start)
		require.NoError(t, err)
		endMin, err := ParseClockToMinutes(s[6:])
		require.NoError(t, err)

		// Every slot is exactly one duration long and lies within the window.
		assert.Equal(t, 120, endMin-startMin)
		assert.GreaterOrEqual(t, startMin, 9*60)
		assert.LessOrEqual(t, endMin, 18*60)

		// Consecutive slots never overlap and share a boundary.
		if i > 0 {
			assert.Equal(t, slots[i-1][6:], start)
		}
	}
}

func TestDeriveSlotsWindowShorterThanSlot(t *testing.T) {
	slots, err := DeriveSlots("09:00", "10:00", 2*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestDeriveSlotsDefaults(t *testing.T) {
	slots, err := DeriveSlots("", "", 2*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00-11:00", slots[0])
	assert.Equal(t, "15:00-17:00", slots[len(slots)-1])
}

func TestDeriveSlotsInvalidInput(t *testing.T) {
	_, err := DeriveSlots("9am", "18:00", 2*time.Hour)
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = DeriveSlots("18:00", "09:00", 2*time.Hour)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = DeriveSlots("09:00", "09:00", 2*time.Hour)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = DeriveSlots("09:00", "18:00", 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestFilterBooked(t *testing.T) {
	slots, err := DeriveSlots("09:00", "18:00", 2*time.Hour)
	require.NoError(t, err)

	free := FilterBooked(slots, map[string]bool{"11:00-13:00": true})
	assert.Equal(t, []string{"09:00-11:00", "13:00-15:00", "15:00-17:00"}, free)

	// No booked entries leaves the candidates untouched.
	assert.Equal(t, slots, FilterBooked(slots, nil))
}

func TestSlotStart(t *testing.T) {
	start, err := SlotStart("09:00-11:00")
	require.NoError(t, err)
	assert.Equal(t, "09:00", start)

	_, err = SlotStart("0900-1100")
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = SlotStart("late")
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestScheduledAt(t *testing.T) {
	at, err := ScheduledAt("2024-06-01", "09:00-11:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), at)

	_, err = ScheduledAt("06/01/2024", "09:00-11:00")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSlotDurationDefault(t *testing.T) {
	t.Setenv("SLOT_DURATION_MINUTES", "")
	assert.Equal(t, 2*time.Hour, SlotDuration())

	t.Setenv("SLOT_DURATION_MINUTES", "60")
	assert.Equal(t, time.Hour, SlotDuration())

	t.Setenv("SLOT_DURATION_MINUTES", "bogus")
	assert.Equal(t, 2*time.Hour, SlotDuration())
}
