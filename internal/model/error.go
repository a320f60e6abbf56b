package model

import "fmt"

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeInvalidRedemption  = "INVALID_REDEMPTION"
	ErrCodePaymentInitiation  = "PAYMENT_INITIATION_FAILED"
	ErrCodeGatewayUnavailable = "GATEWAY_UNAVAILABLE"
	ErrCodeGatewayRejected    = "GATEWAY_REJECTED"
	ErrCodeInvalidSignature   = "INVALID_SIGNATURE"
	ErrCodeUnknownOrder       = "UNKNOWN_ORDER"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodeUnknownGateway     = "UNKNOWN_GATEWAY"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError is a business error with a stable code for API mapping.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidRedemption = NewDomainError(ErrCodeInvalidRedemption, "Redeemed points exceed the account balance or the order total")
	ErrInvalidSignature  = NewDomainError(ErrCodeInvalidSignature, "Callback signature verification failed")
	ErrUnknownOrder      = NewDomainError(ErrCodeUnknownOrder, "Order reference does not resolve to a known order")
	ErrUnknownGateway    = NewDomainError(ErrCodeUnknownGateway, "Requested payment gateway is not enabled")
)

// InsufficientStockError names the first line whose reservation failed.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("quantity of %s is not enough: requested %d, available %d", e.Name, e.Requested, e.Available)
}

// InvalidTransitionError rejects a status change the state machine forbids.
type InvalidTransitionError struct {
	OrderID string
	From    OrderStatus
	To      OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %s: transition %s -> %s is not allowed", e.OrderID, e.From, e.To)
}

// PaymentInitiationError wraps a gateway failure after the order row was
// persisted; the order remains IN_PROCESS for payment retry.
type PaymentInitiationError struct {
	OrderID string
	Cause   error
}

func (e *PaymentInitiationError) Error() string {
	return fmt.Sprintf("payment initiation failed for order %s: %v", e.OrderID, e.Cause)
}

func (e *PaymentInitiationError) Unwrap() error {
	return e.Cause
}

// GatewayUnavailableError marks a transport-level failure reaching a gateway.
type GatewayUnavailableError struct {
	Gateway string
	Cause   error
}

func (e *GatewayUnavailableError) Error() string {
	return fmt.Sprintf("gateway %s unavailable: %v", e.Gateway, e.Cause)
}

func (e *GatewayUnavailableError) Unwrap() error {
	return e.Cause
}

// GatewayRejectedError carries the provider's own failure message.
type GatewayRejectedError struct {
	Gateway string
	Message string
}

func (e *GatewayRejectedError) Error() string {
	return fmt.Sprintf("gateway %s rejected the payment request: %s", e.Gateway, e.Message)
}
