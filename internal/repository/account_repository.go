package repository

import (
	"context"
	"errors"
	"fmt"

	"skincare-shop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// accountRepository implements the AccountRepository interface using PostgreSQL.
type accountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAccountRepository creates a new PostgreSQL-backed account repository.
func NewAccountRepository(pool *pgxpool.Pool, logger zerolog.Logger) AccountRepository {
	return &accountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "account").Logger(),
	}
}

// GetByID retrieves an account by its ID.
func (r *accountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	query := `SELECT id, email, points FROM accounts WHERE id = $1`

	var a model.Account
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Email, &a.Points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("account_id", id).Msg("account not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("account_id", id).Msg("failed to query account")
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	return &a, nil
}

// AddPoints adjusts an account's point balance by delta within the provided
// transaction.
func (r *accountRepository) AddPoints(ctx context.Context, tx pgx.Tx, id string, delta int) error {
	query := `UPDATE accounts SET points = points + $2 WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, delta)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("account_id", id).
			Int("delta", delta).
			Msg("failed to adjust account points")
		return fmt.Errorf("failed to adjust account points: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", id)
	}

	r.logger.Debug().
		Str("account_id", id).
		Int("delta", delta).
		Msg("account points adjusted")

	return nil
}
