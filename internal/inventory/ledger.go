// Package inventory debits product stock for order lines. All reservations
// for one order run inside the caller's transaction, so a failed line rolls
// back every earlier debit and creation stays all-or-nothing.
package inventory

import (
	"context"

	"skincare-shop/internal/model"
	"skincare-shop/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Ledger checks and debits product stock per order line.
type Ledger struct {
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewLedger creates a new inventory ledger.
func NewLedger(products repository.ProductRepository, logger zerolog.Logger) *Ledger {
	return &Ledger{
		products: products,
		logger:   logger.With().Str("component", "inventory").Logger(),
	}
}

// Reserve debits quantity units of the product inside tx and returns the
// unit price snapshot for the order line. It fails with
// InsufficientStockError when the product has less stock than requested;
// the compare-and-decrement in the repository never lets stock go negative.
func (l *Ledger) Reserve(ctx context.Context, tx pgx.Tx, productID string, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, model.ErrInvalidQuantity
	}

	product, err := l.products.ReserveStock(ctx, tx, productID, quantity)
	if err != nil {
		return 0, err
	}
	if product != nil {
		return product.Price, nil
	}

	// The conditional update matched no row: either the product does not
	// exist or it has too little stock. Re-read inside the same tx to tell
	// the two apart and name the offending product.
	existing, err := l.products.GetByIDTx(ctx, tx, productID)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, model.ErrProductNotFound
	}

	l.logger.Warn().
		Str("product_id", productID).
		Int("requested", quantity).
		Int("available", existing.Quantity).
		Msg("insufficient stock")

	return 0, &model.InsufficientStockError{
		ProductID: existing.ID,
		Name:      existing.Name,
		Requested: quantity,
		Available: existing.Quantity,
	}
}
