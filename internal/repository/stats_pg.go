package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"casino-backend/internal/models"
)

type statsRepository struct{}

func NewStatsRepository() StatsRepository {
	return &statsRepository{}
}

func (r *statsRepository) InitForUser(ctx context.Context, q sqlx.ExtContext, userID int64) error {
	for _, game := range models.Games {
		_, err := q.ExecContext(ctx,
			`INSERT INTO game_stats (user_id, game) VALUES ($1, $2)
			 ON CONFLICT (user_id, game) DO NOTHING`,
			userID, game)
		if err != nil {
			return fmt.Errorf("failed to init stats for user %d game %s: %w", userID, game, err)
		}
	}
	return nil
}

func (r *statsRepository) GetForUser(ctx context.Context, q sqlx.ExtContext, userID int64) ([]models.GameStat, error) {
	var stats []models.GameStat
	err := sqlx.SelectContext(ctx, q, &stats,
		`SELECT user_id, game, played, won, lost FROM game_stats WHERE user_id = $1 ORDER BY game`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for user %d: %w", userID, err)
	}
	return stats, nil
}

func (r *statsRepository) RecordResult(ctx context.Context, q sqlx.ExtContext, userID int64, game models.GameID, won bool) error {
	wonDelta, lostDelta := 0, 1
	if won {
		wonDelta, lostDelta = 1, 0
	}

	res, err := q.ExecContext(ctx,
		`UPDATE game_stats SET
			played = played + 1,
			won = won + $1,
			lost = lost + $2
		 WHERE user_id = $3 AND game = $4`,
		wonDelta, lostDelta, userID, game)
	if err != nil {
		return fmt.Errorf("failed to record result for user %d game %s: %w", userID, game, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to record result for user %d game %s: %w", userID, game, err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *statsRepository) TopWinners(ctx context.Context, q sqlx.ExtContext, game models.GameID, limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := sqlx.SelectContext(ctx, q, &entries,
		`SELECT u.username, g.won AS value
		 FROM game_stats g
		 JOIN users u ON g.user_id = u.id
		 WHERE g.game = $1
		 ORDER BY g.won DESC, u.username ASC
		 LIMIT $2`,
		game, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query winners for game %s: %w", game, err)
	}
	return entries, nil
}
