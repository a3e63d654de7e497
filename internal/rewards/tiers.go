package rewards

import "time"

// Tier identifies one of the predefined achievement reward tiers.
type Tier uint8

const (
	TierNiftyFifty Tier = iota
	TierGayleStorm
	TierFiveWicketHaul
	TierHatTrick
	TierMaidenMaster
	TierRunMachine
	TierGoldenArm
	TierAllRounder
)

// TierConfig describes a reward tier. Multiplier is stored multiplied by 10
// (e.g. 15 = 1.5x) so downstream settlement can work in integers.
type TierConfig struct {
	Tier        Tier   `json:"tier"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Multiplier  uint   `json:"multiplier"`
	BaseReward  uint   `json:"base_reward"`
	MinRuns     uint   `json:"min_runs"`
	MinWickets  uint   `json:"min_wickets"`
	Active      bool   `json:"active"`
}

var tiers = [...]TierConfig{
	{TierNiftyFifty, "Nifty Fifty", "Scored 50+ runs in a match", 15, 50, 50, 0, true},
	{TierGayleStorm, "Gayle Storm", "Scored 100+ runs with SR > 150", 30, 150, 100, 0, true},
	{TierFiveWicketHaul, "Five Wicket Haul", "Took 5+ wickets in a match", 25, 100, 0, 5, true},
	{TierHatTrick, "Hat Trick", "Took 3 wickets in 3 consecutive balls", 30, 200, 0, 3, true},
	{TierMaidenMaster, "Maiden Master", "Bowled 3+ maiden overs", 15, 30, 0, 0, true},
	{TierRunMachine, "Run Machine", "Scored 150+ runs in a match", 40, 250, 150, 0, true},
	{TierGoldenArm, "Golden Arm", "Best economy rate in match", 13, 40, 0, 1, true},
	{TierAllRounder, "All Rounder", "30+ runs and 2+ wickets", 20, 120, 30, 2, true},
}

// TotalTiers is the number of configured tiers.
const TotalTiers = len(tiers)

// Lookup returns the configuration for a tier.
func Lookup(t Tier) (TierConfig, bool) {
	if int(t) >= len(tiers) {
		return TierConfig{}, false
	}
	return tiers[t], true
}

// Reward is a single earned reward. The core only records that it occurred;
// how it is settled is the host system's business.
type Reward struct {
	Tier        Tier      `json:"tier"`
	TierName    string    `json:"tier_name"`
	Multiplier  uint      `json:"multiplier"`
	BaseReward  uint      `json:"base_reward"`
	PlayerID    uint      `json:"player_id"`
	MatchID     string    `json:"match_id"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earned_at"`
}

// New builds a reward record for a tier, stamping the tier's multiplier and
// base reward.
func New(t Tier, playerID uint, matchID, description string) Reward {
	cfg, _ := Lookup(t)
	return Reward{
		Tier:        t,
		TierName:    cfg.Name,
		Multiplier:  cfg.Multiplier,
		BaseReward:  cfg.BaseReward,
		PlayerID:    playerID,
		MatchID:     matchID,
		Description: description,
		EarnedAt:    time.Now().UTC(),
	}
}
