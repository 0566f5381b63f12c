package models

import "github.com/shopspring/decimal"

// RankTier is one level of the progression ladder. Tiers are ordered by
// ascending MinXP; the table below is the single source of truth for rank
// thresholds, shop point rewards and deposit ceilings.
type RankTier struct {
	Name             string          `json:"name"`
	Emoji            string          `json:"emoji"`
	MinXP            int64           `json:"min_xp"`
	ShopPointsReward int64           `json:"shop_points_reward"`
	MaxDeposit       decimal.Decimal `json:"max_deposit"`
	Unlimited        bool            `json:"unlimited"` // final tier has no deposit cap
}

// Ranks is the canonical rank table, lowest tier first.
var Ranks = []RankTier{
	{Name: "No Rank", Emoji: "⚪", MinXP: 0, ShopPointsReward: 0, MaxDeposit: decimal.NewFromInt(10000)},
	{Name: "Bronze", Emoji: "🥉", MinXP: 50, ShopPointsReward: 50, MaxDeposit: decimal.NewFromInt(15000)},
	{Name: "Silver", Emoji: "🥈", MinXP: 100, ShopPointsReward: 100, MaxDeposit: decimal.NewFromInt(20000)},
	{Name: "Gold", Emoji: "🥇", MinXP: 200, ShopPointsReward: 200, MaxDeposit: decimal.NewFromInt(30000)},
	{Name: "Platinum", Emoji: "💎", MinXP: 350, ShopPointsReward: 350, MaxDeposit: decimal.NewFromInt(50000)},
	{Name: "Diamond", Emoji: "💠", MinXP: 600, ShopPointsReward: 500, MaxDeposit: decimal.NewFromInt(75000)},
	{Name: "Ruby", Emoji: "💜", MinXP: 1000, ShopPointsReward: 1000, MaxDeposit: decimal.NewFromInt(100000)},
	{Name: "Master", Emoji: "🎖️", MinXP: 1500, ShopPointsReward: 1750, MaxDeposit: decimal.NewFromInt(150000)},
	{Name: "Grandmaster", Emoji: "👑", MinXP: 2500, ShopPointsReward: 3000, MaxDeposit: decimal.NewFromInt(250000)},
	{Name: "Legend", Emoji: "🌟", MinXP: 4000, ShopPointsReward: 5000, MaxDeposit: decimal.NewFromInt(500000)},
	{Name: "Mythic", Emoji: "🦄", MinXP: 6000, ShopPointsReward: 7500, MaxDeposit: decimal.NewFromInt(1000000)},
	{Name: "Immortal", Emoji: "🔱", MinXP: 9000, ShopPointsReward: 10000, MaxDeposit: decimal.NewFromInt(2500000)},
	{Name: "Eternal", Emoji: "🛡️", MinXP: 15000, ShopPointsReward: 20000, Unlimited: true},
}

// Rank is a tier together with its position in the table.
type Rank struct {
	RankTier
	Index int `json:"index"`
}

// RankOf returns the highest tier whose MinXP is at or below xp. Tier 0 has
// MinXP 0, so the lookup is total for any non-negative xp.
func RankOf(xp int64) Rank {
	for i := len(Ranks) - 1; i >= 0; i-- {
		if xp >= Ranks[i].MinXP {
			return Rank{RankTier: Ranks[i], Index: i}
		}
	}
	return Rank{RankTier: Ranks[0], Index: 0}
}

// RankProgress describes how far a user is toward the next tier.
type RankProgress struct {
	Current    int64   `json:"current"`
	Max        int64   `json:"max"`
	Percentage float64 `json:"percentage"`
	IsMaxRank  bool    `json:"is_max_rank"`
}

// ProgressToNext computes progress from the given xp toward the tier above
// rankIndex. At the last tier it reports 100% and IsMaxRank.
func ProgressToNext(xp int64, rankIndex int) RankProgress {
	if rankIndex < 0 {
		rankIndex = 0
	}
	if rankIndex >= len(Ranks)-1 {
		return RankProgress{
			Current:    xp,
			Max:        xp,
			Percentage: 100,
			IsMaxRank:  true,
		}
	}

	current := Ranks[rankIndex]
	next := Ranks[rankIndex+1]

	pct := float64(xp-current.MinXP) / float64(next.MinXP-current.MinXP) * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	return RankProgress{
		Current:    xp,
		Max:        next.MinXP,
		Percentage: pct,
	}
}

// AllowsDeposit reports whether the tier's deposit ceiling admits the amount.
func (r Rank) AllowsDeposit(amount decimal.Decimal) bool {
	if r.Unlimited {
		return true
	}
	return amount.LessThanOrEqual(r.MaxDeposit)
}
