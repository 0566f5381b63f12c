package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// ValidateUsername enforces the account naming rules: 3-20 characters,
// alphanumeric plus underscore.
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%w: username must be 3-20 characters, letters, digits and underscore only", ErrValidation)
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 || len(password) > 50 {
		return fmt.Errorf("%w: password must be 6-50 characters", ErrValidation)
	}
	return nil
}

func GenerateSessionID() string {
	return fmt.Sprintf("sess_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

// Validate rejects malformed outcome events before anything is mutated.
func (r *OutcomeRequest) Validate() error {
	if !ValidGame(r.Game) {
		return fmt.Errorf("%w: %q", ErrUnknownGame, r.Game)
	}
	if r.BetAmount.IsNegative() || r.WinAmount.IsNegative() {
		return ErrNegativeAmount
	}
	if r.Won && !r.BetAmount.IsPositive() {
		// Guard against a zero-bet win: the multiplier would divide by zero.
		return ErrZeroBetWin
	}
	return nil
}

func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
