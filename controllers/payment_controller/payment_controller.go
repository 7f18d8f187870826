package payment_controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/marketplace/clients"
	"github.com/joy095/marketplace/logger"
	"github.com/joy095/marketplace/models/booking_models"
	"github.com/joy095/marketplace/models/shared_models"
	"github.com/joy095/marketplace/utils"
)

// PaymentController creates Razorpay orders for bookings and confirms them
// from webhook events.
type PaymentController struct {
	DB       *pgxpool.Pool
	Razorpay clients.RazorpayClientWrapper
}

// NewPaymentController creates a new instance of PaymentController.
func NewPaymentController(db *pgxpool.Pool, razorpay clients.RazorpayClientWrapper) *PaymentController {
	return &PaymentController{
		DB:       db,
		Razorpay: razorpay,
	}
}

type CreateOrderRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
}

// amountInPaise converts a rupee price to Razorpay's integer amount in the
// smallest currency unit. Rounded, not truncated: 19.99 rupees is 1999 paise
// even when the float sits just below it.
func amountInPaise(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CreateOrder handles POST /api/payments/order. Only the customer who made a
// pending booking can open an order for it.
func (pc *PaymentController) CreateOrder(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	ctx := c.Request.Context()

	booking, err := booking_models.GetBookingByID(ctx, pc.DB, bookingID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load booking"})
		return
	}
	if booking.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this booking"})
		return
	}
	if booking.Status != shared_models.BookingStatusPending {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "booking is not awaiting payment"})
		return
	}

	amountPaise := amountInPaise(booking.Price)
	order, err := pc.Razorpay.CreateOrder(map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("booking_%s", booking.ID),
		"notes": map[string]interface{}{
			"booking_id": booking.ID.String(),
		},
	})
	if err != nil {
		logger.ErrorLogger.Errorf("Razorpay order creation failed for booking %s: %v", booking.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway error"})
		return
	}

	orderID, ok := order["id"].(string)
	if !ok || orderID == "" {
		logger.ErrorLogger.Errorf("Razorpay order for booking %s has no id: %v", booking.ID, order)
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway returned an invalid order"})
		return
	}

	if err := booking_models.SetPaymentOrderID(ctx, pc.DB, booking.ID, orderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to attach payment order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": orderID,
		"amount":   amountPaise,
		"currency": "INR",
		"key_id":   os.Getenv("RAZORPAY_KEY_ID"),
	})
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Webhook handles POST /api/payments/webhook. A captured payment moves the
// booking from pending to confirmed. Responses are always 200 once the
// signature checks out, so the gateway does not retry events we chose to
// ignore.
func (pc *PaymentController) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	webhookSecret := os.Getenv("RAZORPAY_WEBHOOK_SECRET")
	if signature == "" || !pc.Razorpay.VerifyPaymentSignature(signature, string(body), webhookSecret) {
		logger.WarnLogger.Warn("Webhook with missing or invalid signature rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if payload.Event != "payment.captured" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	orderID := payload.Payload.Payment.Entity.OrderID
	if orderID == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ctx := c.Request.Context()

	booking, err := booking_models.GetBookingByOrderID(ctx, pc.DB, orderID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			logger.WarnLogger.Warnf("Webhook for unknown order %s", orderID)
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load booking"})
		return
	}

	// Webhooks can be delivered more than once.
	if !shared_models.CanTransition(booking.Status, shared_models.BookingStatusConfirmed) {
		logger.InfoLogger.Infof("Order %s already processed, booking %s is %s", orderID, booking.ID, booking.Status)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	tx, err := pc.DB.Begin(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm booking"})
		return
	}
	defer tx.Rollback(ctx)

	if err := booking_models.UpdateBookingStatusTx(ctx, tx, booking.ID, booking.Status, shared_models.BookingStatusConfirmed); err != nil {
		// A concurrent cancellation won the race; the capture is acknowledged
		// but the booking stays canceled.
		if errors.Is(err, utils.ErrInvalidTransition) {
			logger.WarnLogger.Warnf("Order %s captured but booking %s already left %s", orderID, booking.ID, booking.Status)
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm booking"})
		return
	}
	if err := tx.Commit(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm booking"})
		return
	}

	logger.InfoLogger.Infof("Booking %s confirmed via payment order %s", booking.ID, orderID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
