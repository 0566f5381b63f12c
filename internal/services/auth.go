package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"casino-backend/internal/models"
	"casino-backend/internal/repository"
)

// SessionStore keeps server-side session state; RedisService implements it.
type SessionStore interface {
	StoreSession(session *models.Session) error
	DeleteSession(sessionID string) error
	SetGuestBalance(sessionID string, balance decimal.Decimal) error
}

// AuthService owns registration, login and guest session issuance.
type AuthService struct {
	db       sqlx.ExtContext
	beginTx  repository.TxBeginner
	users    repository.UserRepository
	stats    repository.StatsRepository
	jwt      *JWTService
	sessions SessionStore
}

func NewAuthService(db *sqlx.DB, users repository.UserRepository, stats repository.StatsRepository, jwt *JWTService, sessions SessionStore) *AuthService {
	return &AuthService{
		db:       db,
		beginTx:  repository.NewTxBeginner(db),
		users:    users,
		stats:    stats,
		jwt:      jwt,
		sessions: sessions,
	}
}

// AuthResult carries the issued token plus the account it belongs to.
type AuthResult struct {
	Token   string          `json:"token"`
	User    *models.User    `json:"user,omitempty"`
	Session *models.Session `json:"session"`
}

// Register creates the account, seeds its per-game stat rows and issues a
// token. User and stat rows are created in one transaction.
func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	if err := models.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := models.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Balance:      decimal.Zero,
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.users.Create(ctx, tx, user); err != nil {
		return nil, err
	}
	if err := s.stats.InitForUser(ctx, tx, user.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	logrus.WithField("username", username).Info("user registered")

	return s.issueSession(user)
}

// Login verifies credentials and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: incorrect password", models.ErrValidation)
	}

	return s.issueSession(user)
}

// Guest issues a token for an account-less session with a capped bankroll.
// Nothing about a guest is persisted to the durable store.
func (s *AuthService) Guest(ctx context.Context) (*AuthResult, error) {
	session := models.NewGuestSession(models.GenerateSessionID())

	if err := s.sessions.StoreSession(session); err != nil {
		return nil, fmt.Errorf("failed to store guest session: %w", err)
	}
	if err := s.sessions.SetGuestBalance(session.SessionID, session.Balance); err != nil {
		return nil, fmt.Errorf("failed to seed guest balance: %w", err)
	}

	token, err := s.jwt.GenerateToken(0, session.Username, session.SessionID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to sign guest token: %w", err)
	}

	return &AuthResult{Token: token, Session: session}, nil
}

func (s *AuthService) issueSession(user *models.User) (*AuthResult, error) {
	session := &models.Session{
		SessionID:    models.GenerateSessionID(),
		UserID:       user.ID,
		Username:     user.Username,
		CreatedAt:    time.Now(),
		LastAccessed: time.Now(),
	}

	if err := s.sessions.StoreSession(session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username, session.SessionID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResult{Token: token, User: user, Session: session}, nil
}

// Logout drops the server-side session; the token expires on its own.
func (s *AuthService) Logout(sessionID string) error {
	return s.sessions.DeleteSession(sessionID)
}
