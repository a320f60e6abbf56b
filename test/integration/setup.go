package integration

import (
	"context"
	"testing"
	"time"

	"skincare-shop/internal/model"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price BIGINT NOT NULL CHECK (price >= 0),
			quantity INT NOT NULL CHECK (quantity >= 0),
			category TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			points INT NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			account_id TEXT NOT NULL REFERENCES accounts(id),
			status TEXT NOT NULL,
			total BIGINT NOT NULL CHECK (total >= 0),
			redeemed_points INT NOT NULL DEFAULT 0,
			earned_points INT,
			gateway TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_orders_account ON orders(account_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS order_lines (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			product_id TEXT NOT NULL REFERENCES products(id),
			quantity INT NOT NULL CHECK (quantity > 0),
			unit_price BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines(order_id);
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// CleanupDB truncates all tables between test cases.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	if _, err := pool.Exec(ctx, `TRUNCATE order_lines, orders, accounts, products CASCADE`); err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
}

// SeedProducts inserts the standard catalogue fixture.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	products := []model.Product{
		{ID: "P001", Name: "Gentle Cleanser", Price: 250_000, Quantity: 10, Category: "cleanser"},
		{ID: "P002", Name: "Vitamin C Serum", Price: 450_000, Quantity: 5, Category: "serum"},
		{ID: "P003", Name: "Daily Moisturiser", Price: 320_000, Quantity: 8, Category: "moisturiser"},
		{ID: "P004", Name: "SPF50 Sunscreen", Price: 280_000, Quantity: 12, Category: "sunscreen"},
		{ID: "P005", Name: "Hydrating Toner", Price: 190_000, Quantity: 2, Category: "toner"},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, price, quantity, category) VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.Name, p.Price, p.Quantity, p.Category)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.ID, err)
		}
	}
}

// SeedAccount inserts a test account with the given point balance.
func SeedAccount(t *testing.T, pool *pgxpool.Pool, id string, points int) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO accounts (id, email, points) VALUES ($1, $2, $3)`,
		id, gofakeit.Email(), points)
	if err != nil {
		t.Fatalf("failed to seed account %s: %v", id, err)
	}
}
