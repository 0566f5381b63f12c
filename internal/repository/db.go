package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Tx is an open transaction handle: a query executor plus commit/rollback.
// *sqlx.Tx implements it.
type Tx interface {
	sqlx.ExtContext
	Commit() error
	Rollback() error
}

// TxBeginner starts a transaction. Services take it as an injected
// dependency so tests can substitute in-memory fakes.
type TxBeginner func(ctx context.Context) (Tx, error)

// NewTxBeginner wraps the pool's BeginTxx.
func NewTxBeginner(db *sqlx.DB) TxBeginner {
	return func(ctx context.Context) (Tx, error) {
		return db.BeginTxx(ctx, nil)
	}
}
