package booking_controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func performBook(t *testing.T, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bc := NewBookingController(nil, nil)

	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/book", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != "" {
		c.Set("user_id", userID)
	}

	bc.Book(c)
	return w
}

func TestBookRequiresAuthentication(t *testing.T) {
	w := performBook(t, "", BookRequest{
		VendorID:    uuid.NewString(),
		ServiceType: "plumbing",
		Date:        "2026-09-01",
		Slot:        "09:00-11:00",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookRejectsMissingFields(t *testing.T) {
	w := performBook(t, uuid.NewString(), map[string]string{"vendor_id": uuid.NewString()})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookRejectsInvalidVendorID(t *testing.T) {
	w := performBook(t, uuid.NewString(), BookRequest{
		VendorID:    "not-a-uuid",
		ServiceType: "plumbing",
		Date:        "2026-09-01",
		Slot:        "09:00-11:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookRejectsMalformedDate(t *testing.T) {
	w := performBook(t, uuid.NewString(), BookRequest{
		VendorID:    uuid.NewString(),
		ServiceType: "plumbing",
		Date:        "01/09/2026",
		Slot:        "09:00-11:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid date")
}

func TestBookRejectsPastDate(t *testing.T) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	w := performBook(t, uuid.NewString(), BookRequest{
		VendorID:    uuid.NewString(),
		ServiceType: "plumbing",
		Date:        yesterday,
		Slot:        "09:00-11:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "past")
}

func TestBookRejectsMalformedSlot(t *testing.T) {
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	for _, slot := range []string{"9am-11am", "09:00", "09:00/11:00", ""} {
		w := performBook(t, uuid.NewString(), map[string]string{
			"vendor_id":    uuid.NewString(),
			"service_type": "plumbing",
			"date":         tomorrow,
			"time_slot":    slot,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "slot %q should be rejected", slot)
	}
}

func TestResolvePrice(t *testing.T) {
	cases := []struct {
		requested float64
		listed    float64
		want      float64
		ok        bool
	}{
		{99, 150, 99, true},
		{0, 150, 150, true},
		{0, 0, 0, false},
		{0, -5, -5, false},
	}
	for _, tc := range cases {
		got, ok := resolvePrice(tc.requested, tc.listed)
		assert.Equal(t, tc.ok, ok, "requested %v listed %v", tc.requested, tc.listed)
		if ok {
			assert.Equal(t, tc.want, got)
		}
	}
}

func TestContainsSlot(t *testing.T) {
	slots := []string{"09:00-11:00", "11:00-13:00"}
	assert.True(t, containsSlot(slots, "11:00-13:00"))
	assert.False(t, containsSlot(slots, "13:00-15:00"))
	assert.False(t, containsSlot(nil, "09:00-11:00"))
}

func TestSlotHoldKey(t *testing.T) {
	vendorID := uuid.MustParse("0198a6e2-0000-7000-8000-000000000001")
	key := slotHoldKey(vendorID, "2026-09-01", "09:00-11:00")
	assert.Equal(t, "slot_hold:0198a6e2-0000-7000-8000-000000000001:2026-09-01:09:00-11:00", key)
}

func TestPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 20},
		{"?page=3&limit=50", 3, 50},
		{"?page=0&limit=0", 1, 20},
		{"?page=-2&limit=1000", 1, 20},
		{"?page=abc&limit=xyz", 1, 20},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/bookings"+tc.query, nil)
		page, limit := paginationParams(c)
		assert.Equal(t, tc.wantPage, page, "query %q", tc.query)
		assert.Equal(t, tc.wantLimit, limit, "query %q", tc.query)
	}
}

func TestGetMyBookingsRequiresAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	bc := NewBookingController(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/bookings", nil)

	bc.GetMyBookings(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMyBookingsRejectsInvalidStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	bc := NewBookingController(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/bookings?status=bogus", nil)
	c.Set("user_id", uuid.NewString())

	bc.GetMyBookings(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
