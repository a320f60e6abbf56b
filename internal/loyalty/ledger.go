// Package loyalty credits points to accounts when orders are paid. One point
// is earned per 10,000 minor currency units spent; redeemed points are
// debited at the same moment, so the net balance change is earned minus
// redeemed.
package loyalty

import (
	"context"
	"fmt"

	"skincare-shop/internal/model"
	"skincare-shop/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Ledger performs the point accounting for paid orders.
type Ledger struct {
	orders   repository.OrderRepository
	accounts repository.AccountRepository
	logger   zerolog.Logger
}

// NewLedger creates a new loyalty point ledger.
func NewLedger(orders repository.OrderRepository, accounts repository.AccountRepository, logger zerolog.Logger) *Ledger {
	return &Ledger{
		orders:   orders,
		accounts: accounts,
		logger:   logger.With().Str("component", "loyalty").Logger(),
	}
}

// CreditOnPaid computes and credits the points earned by a paid order.
// An order whose earned points are already recorded is skipped, so a
// replayed PAID transition can never credit twice. Must run inside the same
// transaction as the status change that triggered it.
func (l *Ledger) CreditOnPaid(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	if order.EarnedPoints != nil {
		l.logger.Debug().
			Str("order_id", order.ID.String()).
			Int("earned_points", *order.EarnedPoints).
			Msg("points already credited, skipping")
		return nil
	}

	earned := int(order.Total / model.PointEarnRate)
	delta := earned - order.RedeemedPoints

	if err := l.accounts.AddPoints(ctx, tx, order.AccountID, delta); err != nil {
		return fmt.Errorf("failed to credit account points: %w", err)
	}

	if err := l.orders.SetEarnedPoints(ctx, tx, order.ID, earned); err != nil {
		return fmt.Errorf("failed to record earned points: %w", err)
	}

	order.EarnedPoints = &earned

	l.logger.Info().
		Str("order_id", order.ID.String()).
		Str("account_id", order.AccountID).
		Int("earned", earned).
		Int("redeemed", order.RedeemedPoints).
		Msg("loyalty points credited")

	return nil
}
