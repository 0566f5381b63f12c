package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-backend/internal/models"
)

func newLeaderboardFixture(t *testing.T) (*LeaderboardService, *fakeUserRepo, *fakeStatsRepo) {
	t.Helper()

	users := newFakeUserRepo()
	stats := newFakeStatsRepo()
	svc := &LeaderboardService{users: users, stats: stats}
	return svc, users, stats
}

func seedWinner(t *testing.T, users *fakeUserRepo, stats *fakeStatsRepo, username string, wins int) {
	t.Helper()
	user := users.add(&models.User{Username: username})
	stats.usernames[user.ID] = username
	require.NoError(t, stats.InitForUser(context.Background(), nil, user.ID))
	for i := 0; i < wins; i++ {
		require.NoError(t, stats.RecordResult(context.Background(), nil, user.ID, models.GameDice, true))
	}
}

func TestTopNPerGameWinsTiesBreakByUsername(t *testing.T) {
	svc, users, stats := newLeaderboardFixture(t)
	seedWinner(t, users, stats, "carol", 5)
	seedWinner(t, users, stats, "bob", 9)
	seedWinner(t, users, stats, "alice", 9)

	entries, err := svc.TopN(context.Background(), models.MetricPerGameWins, models.GameDice, 2)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, "bob", entries[1].Username)
	assert.True(t, entries[0].Value.Equal(decimal.NewFromInt(9)))
}

func TestTopNPerGameWinsScopedToGame(t *testing.T) {
	svc, users, stats := newLeaderboardFixture(t)
	seedWinner(t, users, stats, "alice", 3)

	entries, err := svc.TopN(context.Background(), models.MetricPerGameWins, models.GameCrash, 10)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.True(t, entries[0].Value.IsZero())
}

func TestTopNProfit(t *testing.T) {
	svc, users, _ := newLeaderboardFixture(t)
	users.add(&models.User{Username: "alice", TotalBet: decimal.NewFromInt(300), TotalWon: decimal.NewFromInt(500)})
	users.add(&models.User{Username: "bob", TotalBet: decimal.NewFromInt(1000), TotalWon: decimal.NewFromInt(400)})

	entries, err := svc.TopN(context.Background(), models.MetricProfit, "", 10)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Username)
	assert.True(t, entries[0].Value.Equal(decimal.NewFromInt(200)))
	assert.True(t, entries[1].Value.Equal(decimal.NewFromInt(-600)))
}

func TestTopNXPDecoratesRank(t *testing.T) {
	svc, users, _ := newLeaderboardFixture(t)
	users.add(&models.User{Username: "alice", XP: 120})
	users.add(&models.User{Username: "bob", XP: 30})

	entries, err := svc.TopN(context.Background(), models.MetricXP, "", 10)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, "Silver", entries[0].RankName)
	assert.NotEmpty(t, entries[0].RankEmoji)
	assert.Equal(t, "No Rank", entries[1].RankName)
}

func TestTopNRejectsUnknownMetric(t *testing.T) {
	svc, _, _ := newLeaderboardFixture(t)

	_, err := svc.TopN(context.Background(), "losses", "", 10)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestTopNRejectsUnknownGame(t *testing.T) {
	svc, _, _ := newLeaderboardFixture(t)

	_, err := svc.TopN(context.Background(), models.MetricPerGameWins, "roulette", 10)
	assert.ErrorIs(t, err, models.ErrUnknownGame)
}

func TestTopNClampsLimit(t *testing.T) {
	svc, users, _ := newLeaderboardFixture(t)
	for i := 0; i < 30; i++ {
		users.add(&models.User{Username: string(rune('a'+i%26)) + "x", XP: int64(i)})
	}

	entries, err := svc.TopN(context.Background(), models.MetricXP, "", 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(entries), DefaultLeaderboardLimit)

	entries, err = svc.TopN(context.Background(), models.MetricXP, "", 1000)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(entries), DefaultLeaderboardLimit)
}

func TestTopNReadIsIdempotent(t *testing.T) {
	svc, users, _ := newLeaderboardFixture(t)
	users.add(&models.User{Username: "alice", XP: 120})

	first, err := svc.TopN(context.Background(), models.MetricXP, "", 10)
	require.NoError(t, err)
	second, err := svc.TopN(context.Background(), models.MetricXP, "", 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(120), users.users[1].XP)
}
