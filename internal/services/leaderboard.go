package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"casino-backend/internal/models"
	"casino-backend/internal/repository"
)

const DefaultLeaderboardLimit = 25

// LeaderboardService serves bounded top-N reads. Results are cached briefly
// in Redis; stale reads are acceptable here.
type LeaderboardService struct {
	db    sqlx.ExtContext
	users repository.UserRepository
	stats repository.StatsRepository
	cache *RedisService
}

// NewLeaderboardService builds the ranker. cache may be nil, in which case
// every query hits the store.
func NewLeaderboardService(db *sqlx.DB, users repository.UserRepository, stats repository.StatsRepository, cache *RedisService) *LeaderboardService {
	return &LeaderboardService{
		db:    db,
		users: users,
		stats: stats,
		cache: cache,
	}
}

// TopN returns the ordered leaderboard for the metric. game is only consulted
// for the per-game-wins metric. Ties order deterministically by username.
func (s *LeaderboardService) TopN(ctx context.Context, metric models.LeaderboardMetric, game models.GameID, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultLeaderboardLimit
	}

	cacheKey := fmt.Sprintf("%s:%s:%d", metric, game, limit)
	if s.cache != nil {
		if entries, ok := s.cache.GetCachedLeaderboard(cacheKey); ok {
			return entries, nil
		}
	}

	var entries []models.LeaderboardEntry
	var err error

	switch metric {
	case models.MetricPerGameWins:
		if !models.ValidGame(game) {
			return nil, fmt.Errorf("%w: %q", models.ErrUnknownGame, game)
		}
		entries, err = s.stats.TopWinners(ctx, s.db, game, limit)
	case models.MetricProfit:
		entries, err = s.users.TopByProfit(ctx, s.db, limit)
	case models.MetricXP:
		entries, err = s.users.TopByXP(ctx, s.db, limit)
		for i := range entries {
			rank := models.RankOf(entries[i].Value.IntPart())
			entries[i].RankName = rank.Name
			entries[i].RankEmoji = rank.Emoji
		}
	default:
		return nil, fmt.Errorf("%w: unknown leaderboard metric %q", models.ErrValidation, metric)
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.CacheLeaderboard(cacheKey, entries)
	}
	return entries, nil
}
