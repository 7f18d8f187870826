package user_controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func performJSON(t *testing.T, handler gin.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler(c)
	return w
}

func TestRequestOTPRejectsInvalidPhone(t *testing.T) {
	uc := NewUserController(nil, nil)

	for _, body := range []string{
		`{}`,
		`{"phone_number":""}`,
		`{"phone_number":"abc"}`,
		`{"phone_number":"12345"}`,
		`{"phone_number":"+91 98765 43210"}`,
	} {
		w := performJSON(t, uc.RequestOTP, "/api/auth/request-otp", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q should be rejected", body)
	}
}

func TestVerifyOTPRejectsInvalidRequest(t *testing.T) {
	uc := NewUserController(nil, nil)

	for _, body := range []string{
		`{}`,
		`{"phone_number":"+919876543210"}`,
		`{"phone_number":"+919876543210","otp":"12"}`,
		`{"phone_number":"bad","otp":"123456"}`,
	} {
		w := performJSON(t, uc.VerifyOTP, "/api/auth/verify-otp", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q should be rejected", body)
	}
}

func TestVerifyOTPRejectsUnknownRole(t *testing.T) {
	uc := NewUserController(nil, nil)

	w := performJSON(t, uc.VerifyOTP, "/api/auth/verify-otp",
		`{"phone_number":"+919876543210","otp":"123456","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid role")
}

func TestPhonePattern(t *testing.T) {
	valid := []string{"+919876543210", "9876543210", "+14155552671"}
	for _, p := range valid {
		assert.True(t, phonePattern.MatchString(p), "%q should match", p)
	}

	invalid := []string{"", "123", "phone", "+91-9876543210", "98765432109876543"}
	for _, p := range invalid {
		assert.False(t, phonePattern.MatchString(p), "%q should not match", p)
	}
}

func TestGetProfileRequiresAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	uc := NewUserController(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/profile", nil)

	uc.GetProfile(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
