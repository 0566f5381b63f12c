package services

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"casino-backend/internal/models"
	"casino-backend/internal/repository"
)

// Deposit throttle constants: cumulative deposits are capped inside a fixed
// rolling window regardless of individual transaction size.
const DepositWindow = 3 * time.Minute

var DepositThreshold = decimal.NewFromInt(50000)

// Clock abstracts time for the throttle window.
type Clock func() time.Time

type depositWindow struct {
	lastDepositTime time.Time
	rollingTotal    decimal.Decimal
}

// DepositService enforces the rank deposit ceiling and the rolling-window
// cumulative cap before crediting funds. Window state is per-user and
// in-process; a single backing instance is assumed.
type DepositService struct {
	db    sqlx.ExtContext
	users repository.UserRepository
	clock Clock

	mu      sync.Mutex
	windows map[int64]*depositWindow
}

func NewDepositService(db *sqlx.DB, users repository.UserRepository, clock Clock) *DepositService {
	if clock == nil {
		clock = time.Now
	}
	return &DepositService{
		db:      db,
		users:   users,
		clock:   clock,
		windows: make(map[int64]*depositWindow),
	}
}

// RequestDeposit validates and applies a deposit. Rejections carry a reason
// and mutate nothing; a storage failure releases the window reservation.
func (s *DepositService) RequestDeposit(ctx context.Context, userID int64, amount decimal.Decimal) (*models.DepositResult, error) {
	if !amount.IsPositive() {
		return &models.DepositResult{Accepted: false, Reason: models.DepositRejectInvalidAmount}, nil
	}

	user, err := s.users.GetByID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	rank := user.Rank()
	if !rank.AllowsDeposit(amount) {
		return &models.DepositResult{Accepted: false, Reason: models.DepositRejectExceedsRankCap}, nil
	}

	if !s.reserve(userID, amount) {
		return &models.DepositResult{Accepted: false, Reason: models.DepositRejectCooldownActive}, nil
	}

	balance, err := s.users.AddBalance(ctx, s.db, userID, amount)
	if err != nil {
		s.release(userID, amount)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  amount,
		"rank":    rank.Name,
	}).Info("deposit accepted")

	return &models.DepositResult{Accepted: true, NewBalance: balance}, nil
}

// reserve claims room in the user's rolling window, resetting it first when
// the window has elapsed. Returns false when the cumulative cap is hit.
func (s *DepositService) reserve(userID int64, amount decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	s.sweep(now)

	w, ok := s.windows[userID]
	if !ok {
		w = &depositWindow{rollingTotal: decimal.Zero}
		s.windows[userID] = w
	}

	// The cumulative cap only applies while the window is live; once it has
	// elapsed the total resets and the next deposit goes through regardless
	// of size (the rank ceiling was already checked).
	windowExpired := w.lastDepositTime.IsZero() || now.Sub(w.lastDepositTime) > DepositWindow
	if windowExpired {
		w.rollingTotal = decimal.Zero
	} else if w.rollingTotal.Add(amount).GreaterThan(DepositThreshold) {
		return false
	}

	w.rollingTotal = w.rollingTotal.Add(amount)
	w.lastDepositTime = now
	return true
}

// sweep drops windows idle past the throttle horizon so the map does not
// accumulate an entry per user forever. Caller holds mu.
func (s *DepositService) sweep(now time.Time) {
	for id, w := range s.windows {
		if now.Sub(w.lastDepositTime) > DepositWindow {
			delete(s.windows, id)
		}
	}
}

func (s *DepositService) release(userID int64, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.windows[userID]; ok {
		w.rollingTotal = w.rollingTotal.Sub(amount)
		if w.rollingTotal.IsNegative() {
			w.rollingTotal = decimal.Zero
		}
	}
}
