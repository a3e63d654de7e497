package match

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

// inningsJSON serializes the current innings. Undo is verified by comparing
// serialized state: every field, including nested stats and partnerships,
// must come back exactly as it was.
func inningsJSON(t *testing.T, lc *Lifecycle, matchID string) string {
	t.Helper()
	m, err := lc.GetMatch(matchID)
	require.NoError(t, err)
	b, err := json.Marshal(m.InningsByNumber(m.CurrentInnings))
	require.NoError(t, err)
	return string(b)
}

func TestUndoRestoresStateAcrossOverAndBowlerChange(t *testing.T) {
	lc, _ := newTestLifecycle()
	id := liveMatch(t, lc, t20Config())

	score(t, lc, id, 1)
	submit(t, lc, id, func(in *DeliveryInput) {
		in.Extra = ExtraWide
		in.ExtraRuns = 1
	})
	submit(t, lc, id, func(in *DeliveryInput) {
		in.RunsOffBat = 4
		in.IsFour = true
	})
	fall(t, lc, id, DismissalTypeBowled)
	require.NoError(t, lc.BringNewBatsman(id, 3))
	dots(t, lc, id, 3)
	require.NoError(t, lc.ChangeBowler(id, 13))

	snap := inningsJSON(t, lc, id)
	score(t, lc, id, 1)
	require.NoError(t, lc.UndoLastDelivery(id))

	require.Equal(t, snap, inningsJSON(t, lc, id))
}

func TestUndoAfterOpeningBowlerSwap(t *testing.T) {
	lc, _ := newTestLifecycle()
	id := liveMatch(t, lc, t20Config())
	require.NoError(t, lc.ChangeBowler(id, 13))

	snap := inningsJSON(t, lc, id)
	dots(t, lc, id, 1)
	require.NoError(t, lc.UndoLastDelivery(id))

	require.Equal(t, snap, inningsJSON(t, lc, id))
	inn := currentInnings(t, lc, id)
	require.Equal(t, uint(13), inn.BowlerID)
	require.Equal(t, []uint{13}, inn.BowlerOrder)
}

func TestUndoAfterRepeatedBoundaryBowlerChange(t *testing.T) {
	lc, _ := newTestLifecycle()
	id := liveMatch(t, lc, t20Config())
	dots(t, lc, id, 6)
	require.NoError(t, lc.ChangeBowler(id, 13))
	require.NoError(t, lc.ChangeBowler(id, 14))
	require.Equal(t, []uint{12, 14}, currentInnings(t, lc, id).BowlerOrder)

	snap := inningsJSON(t, lc, id)
	dots(t, lc, id, 1)
	require.NoError(t, lc.UndoLastDelivery(id))

	require.Equal(t, snap, inningsJSON(t, lc, id))
	require.Equal(t, uint(14), currentInnings(t, lc, id).BowlerID)
}

func TestUndoWicketForgetsReplacement(t *testing.T) {
	lc, _ := newTestLifecycle()
	id := liveMatch(t, lc, t20Config())
	dots(t, lc, id, 2)

	snap := inningsJSON(t, lc, id)
	fall(t, lc, id, DismissalTypeCaught)
	require.NoError(t, lc.BringNewBatsman(id, 3))
	require.NoError(t, lc.UndoLastDelivery(id))

	require.Equal(t, snap, inningsJSON(t, lc, id))
	inn := currentInnings(t, lc, id)
	require.Equal(t, []uint{1, 2}, inn.BattingOrder)
	require.NotContains(t, inn.Batsmen, uint(3))
}

func TestUndoPeelsBackToFreshInnings(t *testing.T) {
	lc, _ := newTestLifecycle()
	id := liveMatch(t, lc, t20Config())
	snap := inningsJSON(t, lc, id)

	score(t, lc, id, 2)
	score(t, lc, id, 1)
	require.NoError(t, lc.UndoLastDelivery(id))
	require.NoError(t, lc.UndoLastDelivery(id))

	require.Equal(t, snap, inningsJSON(t, lc, id))
	requireRule(t, lc.UndoLastDelivery(id), "undo")
}

func TestUndoReopensCompletedMatch(t *testing.T) {
	lc, _ := newTestLifecycle()
	id := smallMatch(t, lc, oneOverConfig())
	for i := 0; i < 6; i++ {
		score(t, lc, id, 1)
	}
	require.NoError(t, lc.StartInnings(id, 3, 4, 1))
	dots(t, lc, id, 6)

	m, err := lc.GetMatch(id)
	require.NoError(t, err)
	require.Equal(t, StatusMatchCompleted, m.Status)

	require.NoError(t, lc.UndoLastDelivery(id))
	m, err = lc.GetMatch(id)
	require.NoError(t, err)
	require.Equal(t, StatusMatchLive, m.Status)
	require.Nil(t, m.Result)
	require.Nil(t, m.CompletedAt)
	require.Equal(t, InningsInProgress, m.Innings[1].Status)
	require.Equal(t, 5, m.Innings[1].LegalBalls())
}

func TestUndoReopensInningsBreak(t *testing.T) {
	lc, _ := newTestLifecycle()
	id := smallMatch(t, lc, oneOverConfig())
	for i := 0; i < 6; i++ {
		score(t, lc, id, 1)
	}

	m, err := lc.GetMatch(id)
	require.NoError(t, err)
	require.Equal(t, StatusMatchInningsBreak, m.Status)

	require.NoError(t, lc.UndoLastDelivery(id))
	m, err = lc.GetMatch(id)
	require.NoError(t, err)
	require.Equal(t, StatusMatchLive, m.Status)
	require.Equal(t, InningsInProgress, m.Innings[0].Status)
	require.Equal(t, 5, m.Innings[0].Runs)
}

func TestUndoRejectsCrossInnings(t *testing.T) {
	lc, _ := newTestLifecycle()
	id := smallMatch(t, lc, oneOverConfig())
	for i := 0; i < 6; i++ {
		score(t, lc, id, 1)
	}
	require.NoError(t, lc.StartInnings(id, 3, 4, 1))

	requireRule(t, lc.UndoLastDelivery(id), "undo")
}

// propMatch is liveMatch without test assertions, for use inside property
// functions.
func propMatch(lc *Lifecycle) (string, error) {
	a, b := testRosters()
	m, err := lc.CreateMatch(CreateMatchRequest{Config: t20Config(), TeamA: a, TeamB: b})
	if err != nil {
		return "", err
	}
	if err := lc.RecordToss(m.ID, 1, TossDecisionBat); err != nil {
		return "", err
	}
	if err := lc.StartInnings(m.ID, 1, 2, 12); err != nil {
		return "", err
	}
	return m.ID, nil
}

// playSequence submits one delivery per entry, rotating the bowler at every
// over boundary.
func playSequence(lc *Lifecycle, id string, runs []int) error {
	bowlers := []uint{12, 13, 14, 15, 16}
	for _, r := range runs {
		m, err := lc.GetMatch(id)
		if err != nil {
			return err
		}
		inn := m.InningsByNumber(m.CurrentInnings)
		if inn.BallsInOver == 0 && inn.OversCompleted > 0 && len(inn.BowlerOrder) == inn.OversCompleted {
			if err := lc.ChangeBowler(id, bowlers[inn.OversCompleted%len(bowlers)]); err != nil {
				return err
			}
		}
		_, err = lc.SubmitDelivery(DeliveryInput{
			MatchID:       id,
			InningsNumber: m.CurrentInnings,
			StrikerID:     inn.StrikerID,
			NonStrikerID:  inn.NonStrikerID,
			BowlerID:      inn.BowlerID,
			RunsOffBat:    r,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func TestReplayProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("live state equals a refold of the log", prop.ForAll(
		func(runs []int) bool {
			lc, _ := newTestLifecycle()
			id, err := propMatch(lc)
			if err != nil {
				return false
			}
			if err := playSequence(lc, id, runs); err != nil {
				return false
			}

			total := 0
			for _, r := range runs {
				total += r
			}

			var live, refolded string
			runsMatch := false
			err = lc.store.WithMatch(id, func(m *Match) error {
				runsMatch = m.Innings[0].Runs == total
				live = mustJSON(m.Innings[0])
				refolded = mustJSON(rebuildInnings(m, 1))
				return nil
			})
			return err == nil && runsMatch && live == refolded
		},
		gen.SliceOf(gen.IntRange(0, 4)),
	))

	properties.Property("undo exactly reverses the last delivery", prop.ForAll(
		func(runs []int, last int) bool {
			lc, _ := newTestLifecycle()
			id, err := propMatch(lc)
			if err != nil {
				return false
			}
			if err := playSequence(lc, id, runs); err != nil {
				return false
			}

			var before string
			if err := lc.store.WithMatch(id, func(m *Match) error {
				before = mustJSON(m.Innings[0])
				return nil
			}); err != nil {
				return false
			}

			if err := playSequence(lc, id, []int{last}); err != nil {
				return false
			}
			if err := lc.UndoLastDelivery(id); err != nil {
				return false
			}

			var after string
			if err := lc.store.WithMatch(id, func(m *Match) error {
				after = mustJSON(m.Innings[0])
				return nil
			}); err != nil {
				return false
			}
			return before == after
		},
		gen.SliceOfN(20, gen.IntRange(0, 4)),
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}
