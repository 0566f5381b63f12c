package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"casino-backend/internal/models"
	"casino-backend/internal/repository"
)

// StatsService settles completed game rounds: per-game counters, betting
// accumulators, balance and XP, all inside one transaction per outcome.
type StatsService struct {
	db          sqlx.ExtContext
	beginTx     repository.TxBeginner
	users       repository.UserRepository
	stats       repository.StatsRepository
	broadcaster Broadcaster
}

func NewStatsService(db *sqlx.DB, users repository.UserRepository, stats repository.StatsRepository, broadcaster Broadcaster) *StatsService {
	return &StatsService{
		db:          db,
		beginTx:     repository.NewTxBeginner(db),
		users:       users,
		stats:       stats,
		broadcaster: broadcaster,
	}
}

// RecordOutcome applies one game outcome to the user's ledger. All writes
// happen in a single transaction with the user row locked, so a failure
// leaves nothing partially applied and concurrent outcomes for the same user
// serialize. The operation is not idempotent; retry policy belongs to the
// caller (idempotency keys at the route layer).
func (s *StatsService) RecordOutcome(ctx context.Context, userID int64, req *models.OutcomeRequest) (*models.OutcomeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	user, err := s.users.GetByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.stats.RecordResult(ctx, tx, userID, req.Game, req.Won); err != nil {
		return nil, err
	}

	wonAmount, lostAmount := decimal.Zero, decimal.Zero
	balanceDelta := req.BetAmount.Neg()
	if req.Won {
		wonAmount = req.WinAmount
		// Stake returns on a win; the net movement is the credited winnings.
		balanceDelta = req.WinAmount
	} else {
		lostAmount = req.BetAmount
	}

	if err := s.users.ApplyOutcome(ctx, tx, userID, req.BetAmount, wonAmount, lostAmount); err != nil {
		return nil, err
	}

	balance, err := s.users.AddBalance(ctx, tx, userID, balanceDelta)
	if err != nil {
		return nil, err
	}

	result := &models.OutcomeResult{
		TotalsUpdated: true,
		Balance:       balance,
		XP:            user.XP,
	}

	var xpResult XPResult
	if req.Won {
		xpDelta, err := AwardWinXP(req.BetAmount, req.WinAmount)
		if err != nil {
			return nil, err
		}

		xpResult = ApplyXP(user, xpDelta)
		if err := s.users.AddXP(ctx, tx, userID, xpDelta, xpResult.ShopPoints); err != nil {
			return nil, err
		}

		result.XPGained = xpResult.XPGained
		result.XP = xpResult.NewXP
		result.RankedUp = xpResult.RankedUp
		if xpResult.RankedUp {
			rank := xpResult.NewRank
			result.NewRank = &rank
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit outcome: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"game":    req.Game,
		"won":     req.Won,
		"bet":     req.BetAmount,
		"xp":      result.XPGained,
	}).Debug("outcome recorded")

	if s.broadcaster != nil {
		s.broadcaster.BroadcastBalanceUpdate(userID, balance)
		if result.RankedUp {
			s.broadcaster.BroadcastRankUp(userID, xpResult.NewRank, xpResult.ShopPoints)
		}
	}

	return result, nil
}

// Profile is the assembled read model for the profile endpoint.
type Profile struct {
	User      *models.User                     `json:"user"`
	Games     map[models.GameID]models.GameStat `json:"games"`
	Rank      models.Rank                      `json:"rank"`
	Progress  models.RankProgress              `json:"progress"`
	NetProfit decimal.Decimal                  `json:"net_profit"`
}

func (s *StatsService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.users.GetByID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.stats.GetForUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	games := make(map[models.GameID]models.GameStat, len(stats))
	for _, st := range stats {
		games[st.Game] = st
	}

	rank := user.Rank()
	return &Profile{
		User:      user,
		Games:     games,
		Rank:      rank,
		Progress:  models.ProgressToNext(user.XP, rank.Index),
		NetProfit: user.NetProfit(),
	}, nil
}

// DeleteAccount removes the user row; stat rows cascade at the schema level.
func (s *StatsService) DeleteAccount(ctx context.Context, userID int64) error {
	return s.users.Delete(ctx, s.db, userID)
}
