package services

import (
	"github.com/shopspring/decimal"

	"casino-backend/internal/models"
)

// XP awarded for any win, plus bonuses keyed off the win multiplier
// (winAmount / betAmount, stake return not included).
const (
	BaseWinXP      = 10
	BigWinBonusXP  = 5  // multiplier > 3
	HugeWinBonusXP = 10 // multiplier > 10
)

var (
	bigWinMultiplier  = decimal.NewFromInt(3)
	hugeWinMultiplier = decimal.NewFromInt(10)
)

// AwardWinXP computes the XP delta for a won round. The bet must be positive;
// degenerate inputs are rejected upstream by OutcomeRequest.Validate, this
// guard keeps the division total regardless of caller.
func AwardWinXP(betAmount, winAmount decimal.Decimal) (int64, error) {
	if !betAmount.IsPositive() {
		return 0, models.ErrZeroBetWin
	}

	xp := int64(BaseWinXP)

	multiplier := winAmount.Div(betAmount)
	switch {
	case multiplier.GreaterThan(hugeWinMultiplier):
		xp += HugeWinBonusXP
	case multiplier.GreaterThan(bigWinMultiplier):
		xp += BigWinBonusXP
	}

	return xp, nil
}

// XPResult describes the effect of applying an XP delta.
type XPResult struct {
	NewXP      int64
	XPGained   int64
	RankedUp   bool
	OldRank    models.Rank
	NewRank    models.Rank
	ShopPoints int64 // shop points credited by this application
}

// ApplyXP adds the delta to the user's XP and credits shop points on rank-up.
// When a single award jumps several tiers, only the landed tier's reward is
// credited; intermediate tiers grant nothing. That is deliberate policy.
func ApplyXP(user *models.User, xpDelta int64) XPResult {
	oldRank := models.RankOf(user.XP)
	user.XP += xpDelta
	newRank := models.RankOf(user.XP)

	result := XPResult{
		NewXP:    user.XP,
		XPGained: xpDelta,
		OldRank:  oldRank,
		NewRank:  newRank,
	}

	if newRank.Index > oldRank.Index {
		result.RankedUp = true
		result.ShopPoints = newRank.ShopPointsReward
		user.ShopPoints += newRank.ShopPointsReward
	}

	return result
}
