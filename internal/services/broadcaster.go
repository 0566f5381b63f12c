package services

import (
	"github.com/shopspring/decimal"

	"casino-backend/internal/models"
)

// Broadcaster pushes live account events to connected clients.
type Broadcaster interface {
	BroadcastBalanceUpdate(userID int64, balance decimal.Decimal)
	BroadcastRankUp(userID int64, rank models.Rank, shopPoints int64)
}
