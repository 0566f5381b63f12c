package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"casino-backend/internal/models"
	"casino-backend/internal/repository"
)

// fakeTx satisfies repository.Tx without a database. The embedded ExtContext
// is never touched because the fake repositories ignore their executor.
type fakeTx struct {
	sqlx.ExtContext
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func fakeBeginTx(last **fakeTx) repository.TxBeginner {
	return func(ctx context.Context) (repository.Tx, error) {
		tx := &fakeTx{}
		*last = tx
		return tx, nil
	}
}

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
	failOn string // method name that should return an error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) fail(method string) error {
	if r.failOn == method {
		return fmt.Errorf("storage down")
	}
	return nil
}

func (r *fakeUserRepo) Create(ctx context.Context, q sqlx.ExtContext, user *models.User) error {
	if err := r.fail("Create"); err != nil {
		return err
	}
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return models.ErrUsernameTaken
		}
	}
	r.add(user)
	return nil
}

func (r *fakeUserRepo) get(id int64) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, q sqlx.ExtContext, id int64) (*models.User, error) {
	if err := r.fail("GetByID"); err != nil {
		return nil, err
	}
	return r.get(id)
}

func (r *fakeUserRepo) GetByIDForUpdate(ctx context.Context, q sqlx.ExtContext, id int64) (*models.User, error) {
	if err := r.fail("GetByIDForUpdate"); err != nil {
		return nil, err
	}
	return r.get(id)
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, q sqlx.ExtContext, username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *fakeUserRepo) Delete(ctx context.Context, q sqlx.ExtContext, id int64) error {
	if _, ok := r.users[id]; !ok {
		return models.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) AddBalance(ctx context.Context, q sqlx.ExtContext, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := r.fail("AddBalance"); err != nil {
		return decimal.Zero, err
	}
	user, ok := r.users[id]
	if !ok {
		return decimal.Zero, models.ErrUserNotFound
	}
	user.Balance = user.Balance.Add(amount)
	if user.Balance.IsNegative() {
		user.Balance = decimal.Zero
	}
	return user.Balance, nil
}

func (r *fakeUserRepo) ApplyOutcome(ctx context.Context, q sqlx.ExtContext, id int64, bet, won, lost decimal.Decimal) error {
	if err := r.fail("ApplyOutcome"); err != nil {
		return err
	}
	user, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	user.TotalBet = user.TotalBet.Add(bet)
	user.TotalWon = user.TotalWon.Add(won)
	user.TotalLost = user.TotalLost.Add(lost)
	return nil
}

func (r *fakeUserRepo) AddXP(ctx context.Context, q sqlx.ExtContext, id int64, xpDelta, shopPoints int64) error {
	if err := r.fail("AddXP"); err != nil {
		return err
	}
	user, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	user.XP += xpDelta
	user.ShopPoints += shopPoints
	return nil
}

func (r *fakeUserRepo) TopByProfit(ctx context.Context, q sqlx.ExtContext, limit int) ([]models.LeaderboardEntry, error) {
	entries := make([]models.LeaderboardEntry, 0, len(r.users))
	for _, user := range r.users {
		entries = append(entries, models.LeaderboardEntry{Username: user.Username, Value: user.NetProfit()})
	}
	sortEntries(entries)
	return bound(entries, limit), nil
}

func (r *fakeUserRepo) TopByXP(ctx context.Context, q sqlx.ExtContext, limit int) ([]models.LeaderboardEntry, error) {
	entries := make([]models.LeaderboardEntry, 0, len(r.users))
	for _, user := range r.users {
		entries = append(entries, models.LeaderboardEntry{Username: user.Username, Value: decimal.NewFromInt(user.XP)})
	}
	sortEntries(entries)
	return bound(entries, limit), nil
}

type statKey struct {
	userID int64
	game   models.GameID
}

type fakeStatsRepo struct {
	stats     map[statKey]*models.GameStat
	usernames map[int64]string
	failOn    string
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{
		stats:     make(map[statKey]*models.GameStat),
		usernames: make(map[int64]string),
	}
}

func (r *fakeStatsRepo) InitForUser(ctx context.Context, q sqlx.ExtContext, userID int64) error {
	if r.failOn == "InitForUser" {
		return fmt.Errorf("storage down")
	}
	for _, game := range models.Games {
		key := statKey{userID, game}
		if _, ok := r.stats[key]; !ok {
			r.stats[key] = &models.GameStat{UserID: userID, Game: game}
		}
	}
	return nil
}

func (r *fakeStatsRepo) GetForUser(ctx context.Context, q sqlx.ExtContext, userID int64) ([]models.GameStat, error) {
	var out []models.GameStat
	for _, game := range models.Games {
		if st, ok := r.stats[statKey{userID, game}]; ok {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (r *fakeStatsRepo) RecordResult(ctx context.Context, q sqlx.ExtContext, userID int64, game models.GameID, won bool) error {
	if r.failOn == "RecordResult" {
		return fmt.Errorf("storage down")
	}
	st, ok := r.stats[statKey{userID, game}]
	if !ok {
		return models.ErrNotFound
	}
	st.Played++
	if won {
		st.Won++
	} else {
		st.Lost++
	}
	return nil
}

func (r *fakeStatsRepo) TopWinners(ctx context.Context, q sqlx.ExtContext, game models.GameID, limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	for key, st := range r.stats {
		if key.game != game {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			Username: r.usernames[key.userID],
			Value:    decimal.NewFromInt(st.Won),
		})
	}
	sortEntries(entries)
	return bound(entries, limit), nil
}

// sortEntries mirrors the repository ORDER BY: value DESC, username ASC.
func sortEntries(entries []models.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Value.Equal(entries[j].Value) {
			return entries[i].Value.GreaterThan(entries[j].Value)
		}
		return entries[i].Username < entries[j].Username
	})
}

func bound(entries []models.LeaderboardEntry, limit int) []models.LeaderboardEntry {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

type broadcastEvent struct {
	kind       string
	userID     int64
	balance    decimal.Decimal
	rank       models.Rank
	shopPoints int64
}

type fakeBroadcaster struct {
	events []broadcastEvent
}

func (b *fakeBroadcaster) BroadcastBalanceUpdate(userID int64, balance decimal.Decimal) {
	b.events = append(b.events, broadcastEvent{kind: "balance", userID: userID, balance: balance})
}

func (b *fakeBroadcaster) BroadcastRankUp(userID int64, rank models.Rank, shopPoints int64) {
	b.events = append(b.events, broadcastEvent{kind: "rankup", userID: userID, rank: rank, shopPoints: shopPoints})
}

type fakeSessionStore struct {
	sessions map[string]*models.Session
	balances map[string]decimal.Decimal
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]*models.Session),
		balances: make(map[string]decimal.Decimal),
	}
}

func (s *fakeSessionStore) StoreSession(session *models.Session) error {
	s.sessions[session.SessionID] = session
	return nil
}

func (s *fakeSessionStore) DeleteSession(sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

func (s *fakeSessionStore) SetGuestBalance(sessionID string, balance decimal.Decimal) error {
	s.balances[sessionID] = balance
	return nil
}
