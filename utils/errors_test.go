package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartialFailureMessage(t *testing.T) {
	pf := &PartialFailure{
		BookingID: "b1",
		VendorID:  "v1",
		Date:      "2026-09-01",
		Time:      "09:00-11:00",
		Step:      "release_slot",
		Err:       errors.New("row missing"),
	}

	msg := pf.Error()
	assert.Contains(t, msg, "release_slot")
	assert.Contains(t, msg, "b1")
	assert.Contains(t, msg, "2026-09-01")
	assert.Contains(t, msg, "09:00-11:00")
}

func TestPartialFailureUnwrap(t *testing.T) {
	inner := errors.New("smtp down")
	pf := &PartialFailure{Step: "notify_vendor", Err: inner}

	assert.ErrorIs(t, pf, inner)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", pf), inner)
}
