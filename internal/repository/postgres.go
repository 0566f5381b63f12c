package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username VARCHAR(20) UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	balance NUMERIC(20, 2) NOT NULL DEFAULT 0,
	xp BIGINT NOT NULL DEFAULT 0,
	shop_points BIGINT NOT NULL DEFAULT 0,
	total_bet NUMERIC(20, 2) NOT NULL DEFAULT 0,
	total_won NUMERIC(20, 2) NOT NULL DEFAULT 0,
	total_lost NUMERIC(20, 2) NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS game_stats (
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	game VARCHAR(20) NOT NULL,
	played BIGINT NOT NULL DEFAULT 0,
	won BIGINT NOT NULL DEFAULT 0,
	lost BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, game)
);

CREATE INDEX IF NOT EXISTS idx_game_stats_game_won ON game_stats (game, won DESC);
`

// Connect opens the Postgres pool and bootstraps the schema.
func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}
