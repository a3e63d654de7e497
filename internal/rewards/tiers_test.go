package rewards

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	for i := 0; i < TotalTiers; i++ {
		cfg, ok := Lookup(Tier(i))
		require.True(t, ok)
		require.Equal(t, Tier(i), cfg.Tier)
		require.NotEmpty(t, cfg.Name)
		require.True(t, cfg.Active)
	}

	_, ok := Lookup(Tier(TotalTiers))
	require.False(t, ok)
}

func TestTierTable(t *testing.T) {
	tests := []struct {
		tier       Tier
		name       string
		multiplier uint
		base       uint
	}{
		{TierNiftyFifty, "Nifty Fifty", 15, 50},
		{TierGayleStorm, "Gayle Storm", 30, 150},
		{TierFiveWicketHaul, "Five Wicket Haul", 25, 100},
		{TierHatTrick, "Hat Trick", 30, 200},
		{TierMaidenMaster, "Maiden Master", 15, 30},
		{TierRunMachine, "Run Machine", 40, 250},
		{TierGoldenArm, "Golden Arm", 13, 40},
		{TierAllRounder, "All Rounder", 20, 120},
	}
	for _, tt := range tests {
		cfg, ok := Lookup(tt.tier)
		require.True(t, ok)
		require.Equal(t, tt.name, cfg.Name)
		require.Equal(t, tt.multiplier, cfg.Multiplier)
		require.Equal(t, tt.base, cfg.BaseReward)
	}
}

func TestNewStampsTierConfig(t *testing.T) {
	r := New(TierHatTrick, 7, "match-1", "Three in three")

	require.Equal(t, TierHatTrick, r.Tier)
	require.Equal(t, "Hat Trick", r.TierName)
	require.Equal(t, uint(30), r.Multiplier)
	require.Equal(t, uint(200), r.BaseReward)
	require.Equal(t, uint(7), r.PlayerID)
	require.Equal(t, "match-1", r.MatchID)
	require.False(t, r.EarnedAt.IsZero())
}
