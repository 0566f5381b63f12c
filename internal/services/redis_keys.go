package services

import "time"

const (
	KeySession          = "session:%s"
	KeyGuestBalance     = "guest:%s:balance"
	KeyRateLimit        = "ratelimit:%s:%s"
	KeyLeaderboardCache = "leaderboard:%s"

	TTLSession      = 24 * time.Hour
	TTLGuestBalance = 24 * time.Hour
	TTLLeaderboard  = 30 * time.Second

	DefaultRateLimitOutcomes = 60 // max outcome submissions per minute
	DefaultRateLimitDeposits = 10 // max deposit attempts per minute
)
