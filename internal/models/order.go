package models

import (
	"time"
)

// OrderStatus represents order lifecycle status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether the given status is one of the known
// lifecycle states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ShippingAddress is the address snapshot stored on an order
type ShippingAddress struct {
	Address    string `json:"address" db:"shipping_address"`
	City       string `json:"city" db:"shipping_city"`
	PostalCode string `json:"postalCode" db:"shipping_postal_code"`
	Country    string `json:"country" db:"shipping_country"`
}

// PaymentResult is the gateway payment record stored on an order
type PaymentResult struct {
	ID         string `json:"id" db:"payment_id"`
	Status     string `json:"status" db:"payment_status"`
	UpdateTime string `json:"update_time" db:"payment_update_time"`
	Email      string `json:"email_address" db:"payment_email"`
}

// PaymentResultInput is the gateway payload posted to the pay
// endpoint. The payer email arrives nested under payer in gateway
// captures, or at the top level from older clients.
type PaymentResultInput struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Email      string `json:"email_address"`
	Payer      struct {
		Email string `json:"email_address"`
	} `json:"payer"`
}

// Result flattens the input into the stored payment record
func (p *PaymentResultInput) Result() *PaymentResult {
	email := p.Payer.Email
	if email == "" {
		email = p.Email
	}
	return &PaymentResult{
		ID:         p.ID,
		Status:     p.Status,
		UpdateTime: p.UpdateTime,
		Email:      email,
	}
}

// OrderItem is one product line within an order. Name, image and price
// are snapshots taken at creation time so the order still renders after
// the product changes or disappears.
type OrderItem struct {
	ID        string  `json:"id" db:"id"`
	OrderID   string  `json:"-" db:"order_id"`
	ProductID string  `json:"product" db:"product_id"`
	Name      string  `json:"name" db:"name"`
	Image     string  `json:"image" db:"image"`
	Price     float64 `json:"price" db:"price"`
	Quantity  int     `json:"quantity" db:"quantity"`
}

// Order represents a customer order
type Order struct {
	ID              string          `json:"id" db:"id"`
	UserID          string          `json:"user" db:"user_id"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod" db:"payment_method"`
	TaxPrice        float64         `json:"taxPrice" db:"tax_price"`
	ShippingPrice   float64         `json:"shippingPrice" db:"shipping_price"`
	TotalPrice      float64         `json:"totalPrice" db:"total_price"`
	IsPaid          bool            `json:"isPaid" db:"is_paid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty" db:"paid_at"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	IsDelivered     bool            `json:"isDelivered" db:"is_delivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty" db:"delivered_at"`
	Status          OrderStatus     `json:"status" db:"status"`
	TrackingNumber  string          `json:"trackingNumber,omitempty" db:"tracking_number"`
	Note            string          `json:"notes,omitempty" db:"note"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`

	// Joined data (populated when needed)
	UserName  string `json:"userName,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
}

// OrderItemInput is one line item in an order creation request
type OrderItemInput struct {
	ProductID string  `json:"product" validate:"required"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price" validate:"min=0"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
}

// OrderCreate represents data for creating a new order. Tax, shipping
// and total amounts are caller supplied and stored as given.
type OrderCreate struct {
	Items           []OrderItemInput `json:"orderItems"`
	ShippingAddress ShippingAddress  `json:"shippingAddress"`
	PaymentMethod   string           `json:"paymentMethod" validate:"required"`
	TaxPrice        float64          `json:"taxPrice" validate:"min=0"`
	ShippingPrice   float64          `json:"shippingPrice" validate:"min=0"`
	TotalPrice      float64          `json:"totalPrice" validate:"min=0"`
}

// OrderStatusUpdate represents an admin status update request
type OrderStatusUpdate struct {
	Status         *OrderStatus `json:"status,omitempty"`
	TrackingNumber *string      `json:"trackingNumber,omitempty"`
}

// OrderNoteUpdate represents an admin note request; the note replaces
// any previous one
type OrderNoteUpdate struct {
	Note string `json:"note"`
}

// OrderPage is the paginated admin order listing response
type OrderPage struct {
	Orders      []*Order `json:"orders"`
	Page        int      `json:"page"`
	Pages       int      `json:"pages"`
	TotalOrders int      `json:"totalOrders"`
}

// CanCancel checks if the order can still be cancelled
func (o *Order) CanCancel() bool {
	return o.Status != OrderStatusDelivered && o.Status != OrderStatusShipped
}

// IsTerminal checks if the order is in a terminal lifecycle state
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}
