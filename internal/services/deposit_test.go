package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-backend/internal/models"
)

func newDepositFixture(t *testing.T, user *models.User) (*DepositService, *fakeUserRepo, *time.Time) {
	t.Helper()

	users := newFakeUserRepo()
	users.add(user)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &DepositService{
		users:   users,
		clock:   func() time.Time { return now },
		windows: make(map[int64]*depositWindow),
	}
	return svc, users, &now
}

func deposit(t *testing.T, svc *DepositService, userID, amount int64) *models.DepositResult {
	t.Helper()
	result, err := svc.RequestDeposit(context.Background(), userID, decimal.NewFromInt(amount))
	require.NoError(t, err)
	return result
}

func TestRequestDepositCreditsBalance(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice", Balance: decimal.NewFromInt(100)}
	svc, users, _ := newDepositFixture(t, user)

	result := deposit(t, svc, 1, 5000)

	assert.True(t, result.Accepted)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(5100)))
	assert.True(t, users.users[1].Balance.Equal(decimal.NewFromInt(5100)))
}

func TestRequestDepositRejectsNonPositiveAmount(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice"}
	svc, users, _ := newDepositFixture(t, user)

	for _, amount := range []int64{0, -50} {
		result := deposit(t, svc, 1, amount)
		assert.False(t, result.Accepted)
		assert.Equal(t, models.DepositRejectInvalidAmount, result.Reason)
	}
	assert.True(t, users.users[1].Balance.IsZero())
}

func TestRequestDepositRejectsAboveRankCeiling(t *testing.T) {
	// fresh account, lowest tier, ceiling 10,000
	user := &models.User{ID: 1, Username: "alice"}
	svc, users, _ := newDepositFixture(t, user)

	result := deposit(t, svc, 1, 15000)

	assert.False(t, result.Accepted)
	assert.Equal(t, models.DepositRejectExceedsRankCap, result.Reason)
	assert.True(t, users.users[1].Balance.IsZero())
}

func TestRequestDepositCeilingScalesWithRank(t *testing.T) {
	// Platinum (xp 350) allows up to 50,000
	user := &models.User{ID: 1, Username: "alice", XP: 350}
	svc, _, _ := newDepositFixture(t, user)

	result := deposit(t, svc, 1, 50000)
	assert.True(t, result.Accepted)
}

func TestRequestDepositThrottleWindow(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice", XP: 350}
	svc, users, now := newDepositFixture(t, user)

	// 20k + 20k fit under the 50k window cap; the third would push past it
	assert.True(t, deposit(t, svc, 1, 20000).Accepted)
	assert.True(t, deposit(t, svc, 1, 20000).Accepted)

	third := deposit(t, svc, 1, 20000)
	assert.False(t, third.Accepted)
	assert.Equal(t, models.DepositRejectCooldownActive, third.Reason)
	assert.True(t, users.users[1].Balance.Equal(decimal.NewFromInt(40000)))

	// once the window elapses the total resets
	*now = now.Add(DepositWindow + time.Second)
	assert.True(t, deposit(t, svc, 1, 20000).Accepted)
	assert.True(t, users.users[1].Balance.Equal(decimal.NewFromInt(60000)))
}

func TestRequestDepositWindowIsPerUser(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice", XP: 350}
	svc, users, _ := newDepositFixture(t, alice)
	users.add(&models.User{ID: 2, Username: "bob", XP: 350})

	assert.True(t, deposit(t, svc, 1, 30000).Accepted)
	assert.True(t, deposit(t, svc, 1, 20000).Accepted)
	assert.False(t, deposit(t, svc, 1, 100).Accepted)

	// bob's window is untouched by alice's
	assert.True(t, deposit(t, svc, 2, 30000).Accepted)
}

func TestRequestDepositEvictsExpiredWindows(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice", XP: 350}
	svc, users, now := newDepositFixture(t, alice)
	users.add(&models.User{ID: 2, Username: "bob", XP: 350})

	assert.True(t, deposit(t, svc, 1, 20000).Accepted)
	require.Contains(t, svc.windows, int64(1))

	// any reservation past the horizon sweeps stale entries out
	*now = now.Add(DepositWindow + time.Second)
	assert.True(t, deposit(t, svc, 2, 20000).Accepted)

	assert.NotContains(t, svc.windows, int64(1))
	assert.Contains(t, svc.windows, int64(2))
}

func TestRequestDepositStorageFailureReleasesWindow(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice", XP: 350}
	svc, users, _ := newDepositFixture(t, user)

	users.failOn = "AddBalance"
	_, err := svc.RequestDeposit(context.Background(), 1, decimal.NewFromInt(40000))
	require.Error(t, err)

	// the failed amount does not count against the window
	users.failOn = ""
	result := deposit(t, svc, 1, 40000)
	assert.True(t, result.Accepted)
	assert.True(t, users.users[1].Balance.Equal(decimal.NewFromInt(40000)))
}

func TestRequestDepositUnknownUser(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice"}
	svc, _, _ := newDepositFixture(t, user)

	_, err := svc.RequestDeposit(context.Background(), 42, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestRequestDepositRejectOrder(t *testing.T) {
	// an amount that is both over the rank ceiling and over the window cap
	// reports the ceiling first
	user := &models.User{ID: 1, Username: "alice"}
	svc, _, _ := newDepositFixture(t, user)

	assert.True(t, deposit(t, svc, 1, 10000).Accepted)

	result := deposit(t, svc, 1, 60000)
	assert.Equal(t, models.DepositRejectExceedsRankCap, result.Reason)
}
