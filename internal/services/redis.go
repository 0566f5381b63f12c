package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"casino-backend/internal/config"
	"casino-backend/internal/models"
)

// RedisService holds the short-lived state around the durable store: auth
// sessions, guest bankrolls, per-user rate limits and leaderboard caches.
type RedisService struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisService{client: client, ctx: ctx}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

func (s *RedisService) Ping() error {
	return s.client.Ping(s.ctx).Err()
}

func (s *RedisService) StoreSession(session *models.Session) error {
	key := fmt.Sprintf(KeySession, session.SessionID)

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(s.ctx, key, data, TTLSession).Err()
}

func (s *RedisService) GetSession(sessionID string) (*models.Session, error) {
	key := fmt.Sprintf(KeySession, sessionID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}

	session.LastAccessed = time.Now()
	updated, _ := json.Marshal(session)
	s.client.Set(s.ctx, key, updated, TTLSession)

	return &session, nil
}

func (s *RedisService) DeleteSession(sessionID string) error {
	key := fmt.Sprintf(KeySession, sessionID)
	return s.client.Del(s.ctx, key).Err()
}

// GetGuestBalance returns the guest bankroll, seeding it on first access.
func (s *RedisService) GetGuestBalance(sessionID string) (decimal.Decimal, error) {
	key := fmt.Sprintf(KeyGuestBalance, sessionID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		if err := s.SetGuestBalance(sessionID, models.GuestStartingBalance); err != nil {
			return decimal.Zero, err
		}
		return models.GuestStartingBalance, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get guest balance: %w", err)
	}

	balance, err := decimal.NewFromString(data)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt guest balance for %s: %w", sessionID, err)
	}
	return balance, nil
}

func (s *RedisService) SetGuestBalance(sessionID string, balance decimal.Decimal) error {
	key := fmt.Sprintf(KeyGuestBalance, sessionID)
	return s.client.Set(s.ctx, key, balance.String(), TTLGuestBalance).Err()
}

// AdjustGuestBalance applies a signed delta to the guest bankroll, flooring
// the result at zero.
func (s *RedisService) AdjustGuestBalance(sessionID string, delta decimal.Decimal) (decimal.Decimal, error) {
	balance, err := s.GetGuestBalance(sessionID)
	if err != nil {
		return decimal.Zero, err
	}

	balance = balance.Add(delta)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	if err := s.SetGuestBalance(sessionID, balance); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// CheckRateLimit counts requests per subject and action inside the window.
// The subject is the account ID for users and the session ID for guests, so
// guests never share a pool.
func (s *RedisService) CheckRateLimit(subject, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, subject, action)

	count, err := s.client.Incr(s.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	if count == 1 {
		s.client.Expire(s.ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisService) CacheLeaderboard(cacheKey string, entries []models.LeaderboardEntry) error {
	key := fmt.Sprintf(KeyLeaderboardCache, cacheKey)

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	return s.client.Set(s.ctx, key, data, TTLLeaderboard).Err()
}

func (s *RedisService) GetCachedLeaderboard(cacheKey string) ([]models.LeaderboardEntry, bool) {
	key := fmt.Sprintf(KeyLeaderboardCache, cacheKey)

	data, err := s.client.Get(s.ctx, key).Result()
	if err != nil {
		return nil, false
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, false
	}
	return entries, true
}
