package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the payment lifecycle state of an order.
type OrderStatus string

const (
	// StatusInProcess is the initial state: created, payment not settled.
	StatusInProcess OrderStatus = "IN_PROCESS"
	// StatusPendingPayment marks bank transfers awaiting asynchronous confirmation.
	StatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	// StatusPaid is terminal success.
	StatusPaid OrderStatus = "PAID"
	// StatusCancel is terminal failure.
	StatusCancel OrderStatus = "CANCEL"
)

// allowedTransitions enumerates the permitted status changes. Reapplying the
// current status is always a no-op and handled by the caller, not listed here.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusInProcess:      {StatusPaid, StatusCancel, StatusPendingPayment},
	StatusPendingPayment: {StatusPaid, StatusCancel},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusInProcess, StatusPendingPayment, StatusPaid, StatusCancel:
		return true
	}
	return false
}

// Loyalty point economics, in minor currency units (VND).
const (
	// PointRedeemValue is the discount one redeemed point buys.
	PointRedeemValue int64 = 1000
	// PointEarnRate is the spend required to earn one point.
	PointEarnRate int64 = 10000
)

// Order represents a customer order. Total is in minor currency units after
// point redemption. EarnedPoints is nil until the order is paid and credited.
type Order struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	AccountID      string      `json:"accountId" db:"account_id"`
	Status         OrderStatus `json:"status" db:"status"`
	Total          int64       `json:"total" db:"total"`
	RedeemedPoints int         `json:"redeemedPoints" db:"redeemed_points"`
	EarnedPoints   *int        `json:"earnedPoints,omitempty" db:"earned_points"`
	Gateway        string      `json:"gateway" db:"gateway"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" db:"updated_at"`
	Lines          []OrderLine `json:"lines,omitempty"`
}

// OrderLine is a line item. UnitPrice is the product price snapshot captured
// at creation time; it is never re-read from the catalogue.
type OrderLine struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice int64     `json:"unitPrice" db:"unit_price"`
}

// LineTotal returns quantity times the captured unit price.
func (l OrderLine) LineTotal() int64 {
	return int64(l.Quantity) * l.UnitPrice
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	Items          []OrderItemRequest `json:"items"`
	RedeemedPoints int                `json:"redeemedPoints"`
	PaymentMethod  string             `json:"paymentMethod,omitempty"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse represents the response payload for a created order.
type OrderResponse struct {
	OrderID    uuid.UUID `json:"orderId"`
	Total      int64     `json:"total"`
	Status     OrderStatus `json:"status"`
	PaymentURL string    `json:"paymentUrl,omitempty"`
}
