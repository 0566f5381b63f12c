package models

import "github.com/shopspring/decimal"

// OutcomeRequest is the wire shape of a completed game round submitted by the
// client. WinAmount is the amount credited on top of the returned stake and is
// only meaningful when Won is true.
type OutcomeRequest struct {
	Game      GameID          `json:"game" binding:"required"`
	Won       bool            `json:"won"`
	BetAmount decimal.Decimal `json:"bet_amount"`
	WinAmount decimal.Decimal `json:"win_amount"`
}

// OutcomeResult reports what recording an outcome changed.
type OutcomeResult struct {
	TotalsUpdated bool            `json:"totals_updated"`
	Balance       decimal.Decimal `json:"balance"`
	XPGained      int64           `json:"xp_gained"`
	XP            int64           `json:"xp"`
	RankedUp      bool            `json:"ranked_up"`
	NewRank       *Rank           `json:"new_rank,omitempty"`
}

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// DepositRejectReason tells the client why a deposit was refused.
type DepositRejectReason string

const (
	DepositRejectInvalidAmount  DepositRejectReason = "invalidAmount"
	DepositRejectExceedsRankCap DepositRejectReason = "exceedsRankCap"
	DepositRejectCooldownActive DepositRejectReason = "cooldownActive"
)

type DepositResult struct {
	Accepted   bool                `json:"accepted"`
	NewBalance decimal.Decimal     `json:"new_balance,omitempty"`
	Reason     DepositRejectReason `json:"reason,omitempty"`
}

// LeaderboardMetric selects the ordering for a leaderboard query.
type LeaderboardMetric string

const (
	MetricPerGameWins LeaderboardMetric = "perGameWins"
	MetricProfit      LeaderboardMetric = "profit"
	MetricXP          LeaderboardMetric = "xp"
)

// LeaderboardEntry is one row of a leaderboard. RankName and RankEmoji are
// filled only for the XP metric.
type LeaderboardEntry struct {
	Username  string          `json:"username" db:"username"`
	Value     decimal.Decimal `json:"value" db:"value"`
	RankName  string          `json:"rank_name,omitempty"`
	RankEmoji string          `json:"rank_emoji,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
