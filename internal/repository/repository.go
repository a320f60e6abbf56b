package repository

import (
	"context"

	"skincare-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDTx retrieves a single product by its ID within a transaction.
	GetByIDTx(ctx context.Context, tx pgx.Tx, id string) (*model.Product, error)

	// ReserveStock atomically decrements available stock for a product when
	// enough is available, returning the product with the decremented
	// quantity and the unit price to snapshot. Returns nil when the product
	// has less stock than requested (no row is changed in that case).
	ReserveStock(ctx context.Context, tx pgx.Tx, id string, quantity int) (*model.Product, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderLines inserts the order's lines within the provided transaction.
	CreateOrderLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error

	// GetByID retrieves an order by its ID along with its lines.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetForUpdate retrieves an order by its ID with a row lock, serialising
	// concurrent status transitions for the same order.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// UpdateStatus sets the order status within the provided transaction.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus) error

	// SetEarnedPoints records the points earned by a paid order.
	SetEarnedPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, points int) error

	// ListByAccount retrieves all orders owned by an account, newest first.
	ListByAccount(ctx context.Context, accountID string) ([]model.Order, error)
}

// AccountRepository defines the interface for loyalty point access on accounts.
type AccountRepository interface {
	// GetByID retrieves an account by its ID.
	GetByID(ctx context.Context, id string) (*model.Account, error)

	// AddPoints adjusts an account's point balance by delta within the
	// provided transaction.
	AddPoints(ctx context.Context, tx pgx.Tx, id string, delta int) error
}
