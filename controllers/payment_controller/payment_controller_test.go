package payment_controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fakeRazorpay stands in for the gateway in handler tests.
type fakeRazorpay struct {
	signatureValid bool
	order          map[string]interface{}
	orderErr       error
}

func (f *fakeRazorpay) CreateOrder(data map[string]interface{}) (map[string]interface{}, error) {
	return f.order, f.orderErr
}

func (f *fakeRazorpay) VerifyPaymentSignature(signature, body, webhookSecret string) bool {
	return f.signatureValid
}

func performWebhook(t *testing.T, rz *fakeRazorpay, signature, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pc := NewPaymentController(nil, rz)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewBufferString(body))
	if signature != "" {
		c.Request.Header.Set("X-Razorpay-Signature", signature)
	}

	pc.Webhook(c)
	return w
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	w := performWebhook(t, &fakeRazorpay{signatureValid: true}, "", `{"event":"payment.captured"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	w := performWebhook(t, &fakeRazorpay{signatureValid: false}, "sig", `{"event":"payment.captured"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	w := performWebhook(t, &fakeRazorpay{signatureValid: true}, "sig", `{"event":"payment.failed"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
}

func TestWebhookIgnoresCapturedEventWithoutOrder(t *testing.T) {
	w := performWebhook(t, &fakeRazorpay{signatureValid: true}, "sig", `{"event":"payment.captured","payload":{"payment":{"entity":{}}}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	w := performWebhook(t, &fakeRazorpay{signatureValid: true}, "sig", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func performCreateOrder(t *testing.T, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pc := NewPaymentController(nil, &fakeRazorpay{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/payments/order", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != "" {
		c.Set("user_id", userID)
	}

	pc.CreateOrder(c)
	return w
}

func TestCreateOrderRequiresAuthentication(t *testing.T) {
	w := performCreateOrder(t, "", `{"booking_id":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateOrderRejectsInvalidBookingID(t *testing.T) {
	w := performCreateOrder(t, uuid.NewString(), `{"booking_id":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderRejectsMissingBookingID(t *testing.T) {
	w := performCreateOrder(t, uuid.NewString(), `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAmountInPaise(t *testing.T) {
	cases := []struct {
		price float64
		want  int64
	}{
		{19.99, 1999},
		{2499.95, 249995},
		{100, 10000},
		{0.01, 1},
		{1234.567, 123457},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, amountInPaise(tc.price), "price %v", tc.price)
	}
}
