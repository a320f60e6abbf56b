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

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT id, name, price, quantity, category, created_at
		FROM products
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Category, &p.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return r.getByID(ctx, r.pool, id)
}

// GetByIDTx retrieves a single product by its ID within a transaction.
func (r *productRepository) GetByIDTx(ctx context.Context, tx pgx.Tx, id string) (*model.Product, error) {
	return r.getByID(ctx, tx, id)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *productRepository) getByID(ctx context.Context, q querier, id string) (*model.Product, error) {
	query := `
		SELECT id, name, price, quantity, category, created_at
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Category, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// ReserveStock atomically decrements available stock for a product. The
// compare-and-decrement predicate guarantees the quantity column never goes
// negative even under concurrent reservations.
func (r *productRepository) ReserveStock(ctx context.Context, tx pgx.Tx, id string, quantity int) (*model.Product, error) {
	query := `
		UPDATE products
		SET quantity = quantity - $2
		WHERE id = $1 AND quantity >= $2
		RETURNING id, name, price, quantity, category, created_at
	`

	var p model.Product
	err := tx.QueryRow(ctx, query, id, quantity).Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Category, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Not enough stock, or no such product; the caller decides which.
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to reserve stock")
		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}

	r.logger.Debug().
		Str("product_id", id).
		Int("reserved", quantity).
		Int("remaining", p.Quantity).
		Msg("stock reserved")

	return &p, nil
}
