package clients

import (
	"github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// RazorpayClientWrapper provides an interface for Razorpay operations.
// This interface allows for easier testing by mocking Razorpay interactions.
type RazorpayClientWrapper interface {
	CreateOrder(data map[string]interface{}) (map[string]interface{}, error)
	VerifyPaymentSignature(signature, body, webhookSecret string) bool
}

// RazorpayClient implements RazorpayClientWrapper using the actual Razorpay SDK.
type RazorpayClient struct {
	Client *razorpay.Client
}

// NewRazorpayClient creates and returns a new instance of RazorpayClient.
func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		Client: razorpay.NewClient(keyID, keySecret),
	}
}

// CreateOrder creates a new order in Razorpay. The data map carries amount in
// paise, currency and receipt.
func (r *RazorpayClient) CreateOrder(data map[string]interface{}) (map[string]interface{}, error) {
	return r.Client.Order.Create(data, nil)
}

// VerifyPaymentSignature verifies the authenticity of a Razorpay webhook
// signature against the raw request body.
func (r *RazorpayClient) VerifyPaymentSignature(signature, body, webhookSecret string) bool {
	// utils.VerifyWebhookSignature takes (payload, signature, secret)
	return utils.VerifyWebhookSignature(body, signature, webhookSecret)
}
