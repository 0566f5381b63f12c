package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"casino-backend/internal/models"
)

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, q sqlx.ExtContext, user *models.User) error {
	row := q.QueryRowxContext(ctx,
		`INSERT INTO users (username, password_hash, balance)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		user.Username, user.PasswordHash, user.Balance)

	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id int64) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, q, &user, `SELECT * FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) GetByIDForUpdate(ctx context.Context, q sqlx.ExtContext, id int64) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, q, &user, `SELECT * FROM users WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %d: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, q sqlx.ExtContext, username string) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, q, &user, `SELECT * FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, q sqlx.ExtContext, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	if affected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) AddBalance(ctx context.Context, q sqlx.ExtContext, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	row := q.QueryRowxContext(ctx,
		`UPDATE users SET balance = GREATEST(0, balance + $1) WHERE id = $2 RETURNING balance`,
		amount, id)
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, models.ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to update balance for user %d: %w", id, err)
	}
	return balance, nil
}

func (r *userRepository) ApplyOutcome(ctx context.Context, q sqlx.ExtContext, id int64, bet, won, lost decimal.Decimal) error {
	res, err := q.ExecContext(ctx,
		`UPDATE users SET
			total_bet = total_bet + $1,
			total_won = total_won + $2,
			total_lost = total_lost + $3
		 WHERE id = $4`,
		bet, won, lost, id)
	if err != nil {
		return fmt.Errorf("failed to apply outcome for user %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to apply outcome for user %d: %w", id, err)
	}
	if affected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) AddXP(ctx context.Context, q sqlx.ExtContext, id int64, xpDelta, shopPoints int64) error {
	res, err := q.ExecContext(ctx,
		`UPDATE users SET xp = xp + $1, shop_points = shop_points + $2 WHERE id = $3`,
		xpDelta, shopPoints, id)
	if err != nil {
		return fmt.Errorf("failed to add xp for user %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to add xp for user %d: %w", id, err)
	}
	if affected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) TopByProfit(ctx context.Context, q sqlx.ExtContext, limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := sqlx.SelectContext(ctx, q, &entries,
		`SELECT username, (total_won - total_bet) AS value
		 FROM users
		 ORDER BY value DESC, username ASC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query profit leaderboard: %w", err)
	}
	return entries, nil
}

func (r *userRepository) TopByXP(ctx context.Context, q sqlx.ExtContext, limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := sqlx.SelectContext(ctx, q, &entries,
		`SELECT username, xp AS value
		 FROM users
		 ORDER BY xp DESC, username ASC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query xp leaderboard: %w", err)
	}
	return entries, nil
}
