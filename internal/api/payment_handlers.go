package api

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"maker3d-backend/config"
	"maker3d-backend/internal/services"
)

// PaymentHandlers handles Stripe payment endpoints
type PaymentHandlers struct {
	stripeService *services.StripeService
}

// NewPaymentHandlers creates new payment handlers
func NewPaymentHandlers(db *sql.DB, cfg *config.Config) *PaymentHandlers {
	return &PaymentHandlers{
		stripeService: services.NewStripeService(db, cfg),
	}
}

// CreatePaymentIntent handles POST /api/payment/create-payment-intent
func (h *PaymentHandlers) CreatePaymentIntent(c *gin.Context) {
	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		respondBindError(c)
		return
	}

	intent, err := h.stripeService.CreatePaymentIntent(req.OrderID, c.GetString("userID"), c.GetBool("isAdmin"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
}

// Webhook handles POST /api/payment/webhook. The payload is verified
// against the Stripe-Signature header before any processing. Handled
// events are always acknowledged so Stripe does not retry them.
func (h *PaymentHandlers) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBindError(c)
		return
	}

	if err := h.stripeService.VerifyWebhook(payload, c.GetHeader("Stripe-Signature")); err != nil {
		respondError(c, err)
		return
	}

	var event services.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		respondBindError(c)
		return
	}

	if err := h.stripeService.HandleEvent(&event); err != nil {
		log.Printf("webhook event %s failed: %v", event.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
