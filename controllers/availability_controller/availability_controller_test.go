package availability_controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func performGet(t *testing.T, vendorID, query string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ac := NewAvailabilityController(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/availability/"+vendorID+query, nil)
	c.Params = gin.Params{{Key: "vendorId", Value: vendorID}}

	ac.GetAvailability(c)
	return w
}

func TestGetAvailabilityRejectsInvalidVendorID(t *testing.T) {
	w := performGet(t, "not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid vendor id")
}

func TestGetAvailabilityRequiresDate(t *testing.T) {
	w := performGet(t, uuid.NewString(), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "date")
}

func TestGetAvailabilityRejectsMalformedDate(t *testing.T) {
	for _, date := range []string{"2026/09/01", "01-09-2026", "tomorrow", "2026-13-40"} {
		w := performGet(t, uuid.NewString(), "?date="+date)
		assert.Equal(t, http.StatusBadRequest, w.Code, "date %q should be rejected", date)
	}
}
