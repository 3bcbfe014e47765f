package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/suite"

	"maker3d-backend/config"
	"maker3d-backend/database"
)

type PaymentHandlersTestSuite struct {
	suite.Suite
	db      *sql.DB
	router  *gin.Engine
	orderID string
	userID  string
}

func (suite *PaymentHandlersTestSuite) SetupTest() {
	db, err := sql.Open("sqlite3", ":memory:")
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(db))
	suite.db = db

	suite.userID = uuid.New().String()
	_, err = db.Exec(`
		INSERT INTO users (id, name, email, password_hash, is_admin, phone, created_at, updated_at)
		VALUES (?, 'Ali', 'ali@example.com', 'x', 0, '', ?, ?)
	`, suite.userID, time.Now(), time.Now())
	suite.Require().NoError(err)

	suite.orderID = uuid.New().String()
	_, err = db.Exec(`
		INSERT INTO orders (id, user_id, shipping_address, shipping_city, shipping_postal_code,
			shipping_country, payment_method, tax_price, shipping_price, total_price,
			is_paid, is_delivered, status, created_at, updated_at)
		VALUES (?, ?, '', '', '', '', 'stripe', 0, 0, 500.0, 0, 0, 'pending', ?, ?)
	`, suite.orderID, suite.userID, time.Now(), time.Now())
	suite.Require().NoError(err)

	cfg := &config.Config{
		StripeSecretKey:        "sk_test_123",
		StripeWebhookSecret:    "whsec_test",
		StripeCurrency:         "try",
		StripeWebhookTolerance: 300 * time.Second,
	}

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	handlers := NewPaymentHandlers(db, cfg)
	suite.router.POST("/api/payment/webhook", handlers.Webhook)
}

func (suite *PaymentHandlersTestSuite) TearDownTest() {
	suite.db.Close()
}

func (suite *PaymentHandlersTestSuite) signedRequest(payload []byte, secret string) *httptest.ResponseRecorder {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	signature := fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))

	req, _ := http.NewRequest("POST", "/api/payment/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", signature)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PaymentHandlersTestSuite) eventPayload(eventType string) []byte {
	payload, err := json.Marshal(map[string]interface{}{
		"id":   "evt_1",
		"type": eventType,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":            "pi_123",
				"status":        "succeeded",
				"receipt_email": "ali@example.com",
				"metadata": map[string]string{
					"orderId": suite.orderID,
					"userId":  suite.userID,
				},
			},
		},
	})
	suite.Require().NoError(err)
	return payload
}

func (suite *PaymentHandlersTestSuite) TestWebhookMarksOrderPaid() {
	w := suite.signedRequest(suite.eventPayload("payment_intent.succeeded"), "whsec_test")
	suite.Equal(http.StatusOK, w.Code)

	var resp map[string]bool
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp["received"])

	var isPaid bool
	var paymentID sql.NullString
	err := suite.db.QueryRow("SELECT is_paid, payment_id FROM orders WHERE id = ?", suite.orderID).
		Scan(&isPaid, &paymentID)
	suite.NoError(err)
	suite.True(isPaid)
	suite.Equal("pi_123", paymentID.String)
}

func (suite *PaymentHandlersTestSuite) TestWebhookRejectsBadSignature() {
	w := suite.signedRequest(suite.eventPayload("payment_intent.succeeded"), "whsec_wrong")
	suite.Equal(http.StatusBadRequest, w.Code)

	var isPaid bool
	suite.NoError(suite.db.QueryRow("SELECT is_paid FROM orders WHERE id = ?", suite.orderID).Scan(&isPaid))
	suite.False(isPaid)
}

func (suite *PaymentHandlersTestSuite) TestWebhookAcknowledgesUnknownOrder() {
	payload, err := json.Marshal(map[string]interface{}{
		"id":   "evt_2",
		"type": "payment_intent.succeeded",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":     "pi_456",
				"status": "succeeded",
				"metadata": map[string]string{
					"orderId": uuid.New().String(),
					"userId":  suite.userID,
				},
			},
		},
	})
	suite.Require().NoError(err)

	w := suite.signedRequest(payload, "whsec_test")
	suite.Equal(http.StatusOK, w.Code)

	var resp map[string]bool
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp["received"])

	var isPaid bool
	suite.NoError(suite.db.QueryRow("SELECT is_paid FROM orders WHERE id = ?", suite.orderID).Scan(&isPaid))
	suite.False(isPaid)
}

func (suite *PaymentHandlersTestSuite) TestWebhookAcknowledgesFailedPayment() {
	w := suite.signedRequest(suite.eventPayload("payment_intent.payment_failed"), "whsec_test")
	suite.Equal(http.StatusOK, w.Code)

	var isPaid bool
	suite.NoError(suite.db.QueryRow("SELECT is_paid FROM orders WHERE id = ?", suite.orderID).Scan(&isPaid))
	suite.False(isPaid)
}

func TestPaymentHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlersTestSuite))
}
