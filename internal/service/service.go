package service

import (
	"context"

	"skincare-shop/internal/model"

	"github.com/google/uuid"
)

// ProductService defines read operations over the catalogue.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// OrderService manages the order lifecycle: creation against live inventory,
// payment initiation and idempotent status transitions.
type OrderService interface {
	// CreateOrder reserves stock for every requested line, applies point
	// redemption, persists the order and asks the chosen gateway for a
	// payment redirect URL. When initiation fails the order row survives in
	// IN_PROCESS and both the partial response and the error are returned.
	CreateOrder(ctx context.Context, accountID string, req *model.OrderRequest) (*model.OrderResponse, error)

	// RetryPayment re-runs payment initiation for an existing IN_PROCESS
	// order without touching stock.
	RetryPayment(ctx context.Context, orderID uuid.UUID) (*model.OrderResponse, error)

	// Transition applies a status change idempotently: reapplying the
	// current status is a successful no-op, disallowed changes fail with
	// InvalidTransitionError, and entering PAID credits loyalty points
	// exactly once.
	Transition(ctx context.Context, orderID uuid.UUID, newStatus model.OrderStatus) error

	// GetByID retrieves an order with its lines.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByAccount retrieves the orders owned by an account.
	ListByAccount(ctx context.Context, accountID string) ([]model.Order, error)
}

// PaymentService validates inbound gateway callbacks and applies the
// resulting status transition.
type PaymentService interface {
	// HandleCallback verifies the callback signature, resolves the order and
	// requests the mapped transition. The returned status is the one the
	// callback asked for, whether or not it won the transition.
	HandleCallback(ctx context.Context, gatewayName string, params map[string]string) (uuid.UUID, model.OrderStatus, error)
}
