package match

import (
	"fmt"
	"sort"

	"github.com/DhavalSuthar-24/pitchside/internal/notify"
	"github.com/DhavalSuthar-24/pitchside/internal/rewards"
)

// MilestoneDetector compares pre- and post-ball snapshots of the acting
// batsman and bowler to decide which reward tiers and commentary triggers
// fire. It runs strictly after a delivery has been applied. All applicable
// rules fire on the same delivery.
type MilestoneDetector struct{}

// PreBallSnapshot captures the acting players' figures before the ball.
type PreBallSnapshot struct {
	BatsmanRuns   int
	BowlerWickets int
	BowlerMaidens int
}

// Snapshot records the acting batsman's runs and the acting bowler's wickets
// and maidens before the delivery is applied.
func (d *MilestoneDetector) Snapshot(inn *Innings, strikerID, bowlerID uint) PreBallSnapshot {
	var s PreBallSnapshot
	if b, ok := inn.Batsmen[strikerID]; ok {
		s.BatsmanRuns = b.Runs
	}
	if b, ok := inn.Bowlers[bowlerID]; ok {
		s.BowlerWickets = b.Wickets
		s.BowlerMaidens = b.Maidens
	}
	return s
}

// Inspect evaluates every milestone rule against the just-applied delivery.
func (d *MilestoneDetector) Inspect(m *Match, inn *Innings, ev *DeliveryEvent, pre PreBallSnapshot) ([]rewards.Reward, []notify.Notification) {
	var rw []rewards.Reward
	var ns []notify.Notification

	batsman := inn.Batsman(ev.StrikerID)
	bowler := inn.Bowler(ev.BowlerID)

	if pre.BatsmanRuns < 50 && batsman.Runs >= 50 {
		rw = append(rw, rewards.New(rewards.TierNiftyFifty, ev.StrikerID, m.ID,
			fmt.Sprintf("Reached fifty (%d off %d)", batsman.Runs, batsman.BallsFaced)))
		ns = append(ns, notify.Commentary(m.ID, notify.TagFifty, map[string]interface{}{
			"player_id": ev.StrikerID,
			"runs":      batsman.Runs,
			"balls":     batsman.BallsFaced,
		}))
	}

	if pre.BatsmanRuns < 100 && batsman.Runs >= 100 {
		ns = append(ns, notify.Commentary(m.ID, notify.TagHundred, map[string]interface{}{
			"player_id": ev.StrikerID,
			"runs":      batsman.Runs,
			"balls":     batsman.BallsFaced,
		}))
		if batsman.StrikeRate > 150 {
			rw = append(rw, rewards.New(rewards.TierGayleStorm, ev.StrikerID, m.ID,
				fmt.Sprintf("Century at a strike rate of %.1f", batsman.StrikeRate)))
		}
	}

	if pre.BatsmanRuns < 150 && batsman.Runs >= 150 {
		rw = append(rw, rewards.New(rewards.TierRunMachine, ev.StrikerID, m.ID,
			fmt.Sprintf("Reached %d runs", batsman.Runs)))
	}

	if pre.BowlerWickets == 4 && bowler.Wickets >= 5 {
		rw = append(rw, rewards.New(rewards.TierFiveWicketHaul, ev.BowlerID, m.ID,
			fmt.Sprintf("Five wickets for %d runs", bowler.RunsConceded)))
		ns = append(ns, notify.Commentary(m.ID, notify.TagFiveWicketHaul, map[string]interface{}{
			"player_id": ev.BowlerID,
			"wickets":   bowler.Wickets,
			"conceded":  bowler.RunsConceded,
		}))
	}

	if pre.BowlerMaidens == 2 && bowler.Maidens >= 3 {
		rw = append(rw, rewards.New(rewards.TierMaidenMaster, ev.BowlerID, m.ID,
			fmt.Sprintf("Bowled %d maiden overs", bowler.Maidens)))
	}

	if ev.Payload.Wicket != nil && isHatTrick(m, ev.BowlerID) {
		rw = append(rw, rewards.New(rewards.TierHatTrick, ev.BowlerID, m.ID,
			"Three wickets in three consecutive deliveries"))
		ns = append(ns, notify.Commentary(m.ID, notify.TagHatTrick, map[string]interface{}{
			"player_id": ev.BowlerID,
			"wickets":   bowler.Wickets,
		}))
	}

	return rw, ns
}

// isHatTrick checks the bowler's last three wicket deliveries across the
// match's full event log. The sequence holds if no other legal delivery by
// the same bowler intervenes between consecutive wicket deliveries;
// deliveries by other bowlers, and illegal deliveries by the same bowler,
// do not break it, which lets a hat-trick span an over bowled by someone
// else in between.
func isHatTrick(m *Match, bowlerID uint) bool {
	events := m.ActiveEvents()
	var wicketAt []int
	for k, ev := range events {
		if ev.BowlerID == bowlerID && ev.Payload.Wicket != nil {
			wicketAt = append(wicketAt, k)
		}
	}
	if len(wicketAt) < 3 {
		return false
	}
	last3 := wicketAt[len(wicketAt)-3:]
	for pair := 0; pair < 2; pair++ {
		for k := last3[pair] + 1; k < last3[pair+1]; k++ {
			if events[k].BowlerID == bowlerID && events[k].Payload.Legal {
				return false
			}
		}
	}
	return true
}

// MatchEndRewards evaluates the tiers that only settle once the match is
// over: best economy (Golden Arm) and the batting-plus-bowling double
// (All Rounder). Figures are aggregated across both innings.
func (d *MilestoneDetector) MatchEndRewards(m *Match) []rewards.Reward {
	type figures struct {
		runs      int
		wickets   int
		conceded  int
		legalBall int
	}
	players := make(map[uint]*figures)
	get := func(id uint) *figures {
		f, ok := players[id]
		if !ok {
			f = &figures{}
			players[id] = f
		}
		return f
	}
	for _, inn := range m.Innings {
		if inn == nil {
			continue
		}
		for id, b := range inn.Batsmen {
			get(id).runs += b.Runs
		}
		for id, b := range inn.Bowlers {
			f := get(id)
			f.wickets += b.Wickets
			f.conceded += b.RunsConceded
			f.legalBall += b.OversCompleted*6 + b.BallsInOver
		}
	}

	// Replaying the same feed must emit the same reward list, so iterate in
	// player-id order; economy ties go to the lowest id.
	ids := make([]uint, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var rw []rewards.Reward

	bestEconomy := 0.0
	var bestBowler uint
	found := false
	for _, id := range ids {
		f := players[id]
		if f.wickets < 1 || f.legalBall < 6 {
			continue
		}
		economy := float64(f.conceded) / (float64(f.legalBall) / 6)
		if !found || economy < bestEconomy {
			found = true
			bestEconomy = economy
			bestBowler = id
		}
	}
	if found {
		rw = append(rw, rewards.New(rewards.TierGoldenArm, bestBowler, m.ID,
			fmt.Sprintf("Best economy rate in the match (%.2f)", bestEconomy)))
	}

	for _, id := range ids {
		f := players[id]
		if f.runs >= 30 && f.wickets >= 2 {
			rw = append(rw, rewards.New(rewards.TierAllRounder, id, m.ID,
				fmt.Sprintf("%d runs and %d wickets", f.runs, f.wickets)))
		}
	}

	return rw
}
