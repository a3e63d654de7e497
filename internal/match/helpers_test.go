package match

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/DhavalSuthar-24/pitchside/internal/notify"
)

func newTestLifecycle() (*Lifecycle, *notify.Collector) {
	col := &notify.Collector{}
	return NewLifecycle(col, zerolog.Nop()), col
}

func t20Config() MatchConfig {
	return MatchConfig{
		Format:          "T20",
		OversPerInnings: 20,
		PlayersPerSide:  11,
		PowerplayOvers:  []int{1, 2, 3, 4, 5, 6},
		RedeliverWide:   true,
		RedeliverNoBall: true,
		FreeHitOnNoBall: true,
	}
}

func testRosters() (TeamRoster, TeamRoster) {
	a := TeamRoster{TeamID: 1, Name: "Harbour Strikers"}
	for id := uint(1); id <= 11; id++ {
		a.Players = append(a.Players, id)
	}
	b := TeamRoster{TeamID: 2, Name: "Valley Blasters"}
	for id := uint(12); id <= 22; id++ {
		b.Players = append(b.Players, id)
	}
	return a, b
}

// liveMatch creates a match under cfg with team 1 electing to bat and opens
// the first innings with batsmen 1 and 2 facing bowler 12.
func liveMatch(t *testing.T, lc *Lifecycle, cfg MatchConfig) string {
	t.Helper()
	a, b := testRosters()
	m, err := lc.CreateMatch(CreateMatchRequest{Config: cfg, TeamA: a, TeamB: b})
	require.NoError(t, err)
	require.NoError(t, lc.RecordToss(m.ID, 1, TossDecisionBat))
	require.NoError(t, lc.StartInnings(m.ID, 1, 2, 12))
	return m.ID
}

func currentInnings(t *testing.T, lc *Lifecycle, matchID string) *Innings {
	t.Helper()
	m, err := lc.GetMatch(matchID)
	require.NoError(t, err)
	inn := m.InningsByNumber(m.CurrentInnings)
	require.NotNil(t, inn)
	return inn
}

// nextInput builds a delivery for whoever is currently on strike and bowling.
func nextInput(t *testing.T, lc *Lifecycle, matchID string) DeliveryInput {
	t.Helper()
	m, err := lc.GetMatch(matchID)
	require.NoError(t, err)
	inn := m.InningsByNumber(m.CurrentInnings)
	require.NotNil(t, inn)
	return DeliveryInput{
		MatchID:       matchID,
		InningsNumber: m.CurrentInnings,
		StrikerID:     inn.StrikerID,
		NonStrikerID:  inn.NonStrikerID,
		BowlerID:      inn.BowlerID,
	}
}

func submit(t *testing.T, lc *Lifecycle, matchID string, mut func(*DeliveryInput)) *DeliveryEvent {
	t.Helper()
	in := nextInput(t, lc, matchID)
	if mut != nil {
		mut(&in)
	}
	ev, err := lc.SubmitDelivery(in)
	require.NoError(t, err)
	return ev
}

// dots submits n scoreless legal deliveries.
func dots(t *testing.T, lc *Lifecycle, matchID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		submit(t, lc, matchID, nil)
	}
}

// score submits one delivery with n runs off the bat.
func score(t *testing.T, lc *Lifecycle, matchID string, n int) *DeliveryEvent {
	t.Helper()
	return submit(t, lc, matchID, func(in *DeliveryInput) {
		in.RunsOffBat = n
	})
}

// fall submits one wicket delivery dismissing the current striker.
func fall(t *testing.T, lc *Lifecycle, matchID string, typ DismissalType) *DeliveryEvent {
	t.Helper()
	return submit(t, lc, matchID, func(in *DeliveryInput) {
		in.Wicket = &WicketDetail{Type: typ, PlayerOutID: in.StrikerID}
	})
}

func requireRule(t *testing.T, err error, rule string) {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, rule, ve.Rule)
}
