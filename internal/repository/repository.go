package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"casino-backend/internal/models"
)

// UserRepository defines persistence for account rows. Methods take an
// sqlx.ExtContext so callers can pass either the bare DB or an open
// transaction.
type UserRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, user *models.User) error
	GetByID(ctx context.Context, q sqlx.ExtContext, id int64) (*models.User, error)
	// GetByIDForUpdate loads the row with a row lock, serializing concurrent
	// mutations of the same user's accumulators. Must run inside a transaction.
	GetByIDForUpdate(ctx context.Context, q sqlx.ExtContext, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, q sqlx.ExtContext, username string) (*models.User, error)
	// Delete removes the account; game_stats rows cascade.
	Delete(ctx context.Context, q sqlx.ExtContext, id int64) error

	// AddBalance atomically applies a signed delta to the balance, floored at
	// zero, and returns the new value.
	AddBalance(ctx context.Context, q sqlx.ExtContext, id int64, amount decimal.Decimal) (decimal.Decimal, error)
	// ApplyOutcome increments the betting accumulators in place.
	ApplyOutcome(ctx context.Context, q sqlx.ExtContext, id int64, bet, won, lost decimal.Decimal) error
	// AddXP increments xp and shop points in place.
	AddXP(ctx context.Context, q sqlx.ExtContext, id int64, xpDelta, shopPoints int64) error

	TopByProfit(ctx context.Context, q sqlx.ExtContext, limit int) ([]models.LeaderboardEntry, error)
	TopByXP(ctx context.Context, q sqlx.ExtContext, limit int) ([]models.LeaderboardEntry, error)
}

// StatsRepository defines persistence for per-game play counters.
type StatsRepository interface {
	InitForUser(ctx context.Context, q sqlx.ExtContext, userID int64) error
	GetForUser(ctx context.Context, q sqlx.ExtContext, userID int64) ([]models.GameStat, error)
	// RecordResult bumps played and exactly one of won/lost for the row.
	RecordResult(ctx context.Context, q sqlx.ExtContext, userID int64, game models.GameID, won bool) error
	TopWinners(ctx context.Context, q sqlx.ExtContext, game models.GameID, limit int) ([]models.LeaderboardEntry, error)
}
