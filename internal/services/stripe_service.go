package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"maker3d-backend/config"
	"maker3d-backend/internal/models"
	"maker3d-backend/internal/utils"
)

const stripeBaseURL = "https://api.stripe.com"

// StripeService handles Stripe payment integration
type StripeService struct {
	db     *sql.DB
	config *config.Config
	client *http.Client
	orders *OrderService
}

// NewStripeService creates a new Stripe service
func NewStripeService(db *sql.DB, cfg *config.Config) *StripeService {
	return &StripeService{
		db:     db,
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		orders: NewOrderService(db),
	}
}

// PaymentIntent represents the Stripe payment intent fields we use
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	ReceiptEmail string `json:"receipt_email"`
	Metadata     struct {
		OrderID string `json:"orderId"`
		UserID  string `json:"userId"`
	} `json:"metadata"`
}

type stripeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreatePaymentIntent creates a Stripe payment intent for the order's
// total. The amount is sent in minor units; the order and user IDs ride
// along as metadata so the webhook can reconcile the payment back to
// the order.
func (s *StripeService) CreatePaymentIntent(orderID, requesterID string, isAdmin bool) (*PaymentIntent, error) {
	order, err := s.orders.GetOrder(orderID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(utils.MinorUnits(order.TotalPrice), 10))
	form.Set("currency", s.config.StripeCurrency)
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("metadata[orderId]", order.ID)
	form.Set("metadata[userId]", order.UserID)

	req, err := http.NewRequest("POST", stripeBaseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.StripeSecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment intent response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp stripeErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("stripe error: %s", errResp.Error.Message)
		}
		return nil, fmt.Errorf("stripe error: status %d", resp.StatusCode)
	}

	var intent PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to decode payment intent response: %w", err)
	}

	return &intent, nil
}

// WebhookEvent is the envelope Stripe posts to the webhook endpoint
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// VerifyWebhook checks the Stripe-Signature header against the raw
// payload. The header carries a timestamp and one or more v1 HMAC
// candidates; the signed payload is "timestamp.body". Events older
// than the configured tolerance are rejected.
func (s *StripeService) VerifyWebhook(payload []byte, sigHeader string) error {
	var timestamp string
	candidates := []string{}
	for _, part := range strings.Split(sigHeader, ",") {
		pair := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(pair) != 2 {
			continue
		}
		switch pair[0] {
		case "t":
			timestamp = pair[1]
		case "v1":
			candidates = append(candidates, pair[1])
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return ErrSignatureMismatch
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrSignatureMismatch
	}
	age := time.Since(time.Unix(ts, 0))
	if age > s.config.StripeWebhookTolerance || age < -s.config.StripeWebhookTolerance {
		return ErrSignatureMismatch
	}

	mac := hmac.New(sha256.New, []byte(s.config.StripeWebhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, candidate := range candidates {
		decoded, err := hex.DecodeString(candidate)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}

	return ErrSignatureMismatch
}

// HandleEvent processes a verified webhook event. A succeeded payment
// intent marks its order paid; a failed one is logged and acknowledged
// so Stripe stops retrying. Unknown event types are ignored.
func (s *StripeService) HandleEvent(event *WebhookEvent) error {
	switch event.Type {
	case "payment_intent.succeeded":
		var intent PaymentIntent
		if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
			return fmt.Errorf("failed to decode payment intent: %w", err)
		}
		if intent.Metadata.OrderID == "" {
			log.Printf("payment intent %s has no order metadata, ignoring", intent.ID)
			return nil
		}

		payment := &models.PaymentResult{
			ID:         intent.ID,
			Status:     intent.Status,
			UpdateTime: time.Now().UTC().Format(time.RFC3339),
			Email:      intent.ReceiptEmail,
		}
		if _, err := s.orders.MarkPaid(intent.Metadata.OrderID, payment); err != nil {
			return fmt.Errorf("failed to reconcile payment %s: %w", intent.ID, err)
		}
		log.Printf("order %s marked paid via payment intent %s", intent.Metadata.OrderID, intent.ID)

	case "payment_intent.payment_failed":
		var intent PaymentIntent
		if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
			return fmt.Errorf("failed to decode payment intent: %w", err)
		}
		log.Printf("payment intent %s failed for order %s", intent.ID, intent.Metadata.OrderID)

	default:
		log.Printf("ignoring webhook event type %s", event.Type)
	}

	return nil
}
