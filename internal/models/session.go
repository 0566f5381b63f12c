package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GuestStartingBalance is the capped bankroll a guest session starts with.
var GuestStartingBalance = decimal.NewFromInt(1000)

// Session is the resolved identity of a request. A guest session has no
// account row behind it: its balance lives in Redis with a TTL, nothing is
// persisted, and no XP or stats accrue.
type Session struct {
	SessionID string          `json:"session_id"`
	UserID    int64           `json:"user_id,omitempty"`
	Username  string          `json:"username"`
	IsGuest   bool            `json:"is_guest"`
	Balance   decimal.Decimal `json:"balance"` // guest sessions only; account balance lives in the store

	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
}

func NewGuestSession(sessionID string) *Session {
	now := time.Now()
	return &Session{
		SessionID:    sessionID,
		Username:     "Guest",
		IsGuest:      true,
		Balance:      GuestStartingBalance,
		CreatedAt:    now,
		LastAccessed: now,
	}
}
