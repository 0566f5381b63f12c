package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	// Bcrypt hash, owned by the auth layer. Never serialized.
	PasswordHash string `json:"-" db:"password_hash"`

	Balance decimal.Decimal `json:"balance" db:"balance"`

	XP         int64 `json:"xp" db:"xp"`
	ShopPoints int64 `json:"shop_points" db:"shop_points"`

	TotalBet  decimal.Decimal `json:"total_bet" db:"total_bet"`
	TotalWon  decimal.Decimal `json:"total_won" db:"total_won"`
	TotalLost decimal.Decimal `json:"total_lost" db:"total_lost"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NetProfit is winnings minus everything staked. Losses are already counted
// inside TotalBet, so subtracting TotalLost instead would double-count them.
func (u *User) NetProfit() decimal.Decimal {
	return u.TotalWon.Sub(u.TotalBet)
}

// Rank derives the user's current rank from XP. Rank is never stored.
func (u *User) Rank() Rank {
	return RankOf(u.XP)
}
