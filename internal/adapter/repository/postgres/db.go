package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// schema is applied by Migrate; every statement is idempotent
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id         UUID PRIMARY KEY,
	currency   CHAR(3) NOT NULL,
	balance    NUMERIC(20, 4) NOT NULL CHECK (balance >= 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transactions (
	id          UUID PRIMARY KEY,
	kind        VARCHAR(32) NOT NULL,
	description TEXT NOT NULL,
	date        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS transaction_entries (
	id             UUID PRIMARY KEY,
	transaction_id UUID NOT NULL REFERENCES transactions(id),
	account_id     UUID NOT NULL REFERENCES accounts(id),
	amount         NUMERIC(20, 4) NOT NULL CHECK (amount > 0),
	type           VARCHAR(6) NOT NULL,
	currency       CHAR(3) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transaction_entries_account ON transaction_entries(account_id);

CREATE TABLE IF NOT EXISTS exchange_rates (
	from_currency CHAR(3) NOT NULL,
	to_currency   CHAR(3) NOT NULL,
	rate          NUMERIC(20, 8) NOT NULL CHECK (rate > 0),
	updated_at    TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (from_currency, to_currency)
);
`

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=ledger sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Migrate creates the ledger tables if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
