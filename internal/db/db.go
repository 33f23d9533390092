// Package db provides PostgreSQL access for the posting store.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultEmbeddingDim is the embedding dimensionality used when none is configured.
const DefaultEmbeddingDim = 384

// DB wraps a PostgreSQL connection pool and the deployment's embedding dimensionality.
type DB struct {
	pool         *pgxpool.Pool
	embeddingDim int
}

// Connect establishes a connection pool to the database.
// embeddingDim is the required length of every stored embedding vector;
// zero selects DefaultEmbeddingDim.
func Connect(ctx context.Context, databaseURL string, embeddingDim int) (*DB, error) {
	if embeddingDim <= 0 {
		embeddingDim = DefaultEmbeddingDim
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool, embeddingDim: embeddingDim}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EmbeddingDim returns the configured embedding dimensionality.
func (db *DB) EmbeddingDim() int {
	return db.embeddingDim
}
