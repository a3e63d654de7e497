package match

import (
	"time"

	"github.com/google/uuid"

	"github.com/DhavalSuthar-24/pitchside/pkg/overs"
)

// BallRuleEngine validates a delivery against match state and configuration
// and applies it. All of it is pure in-memory computation; a failed
// validation leaves state untouched.
type BallRuleEngine struct{}

// AppliedBall is the result of a successfully applied delivery, including
// the bookkeeping facts the caller turns into commentary triggers.
type AppliedBall struct {
	Event          *DeliveryEvent
	OverCompleted  bool
	Maiden         bool
	PowerplayEnded bool
	DotStreak      int
}

// applyEffects is the subset of AppliedBall produced by the shared mutation
// path, used by both live application and replay.
type applyEffects struct {
	OverCompleted  bool
	Maiden         bool
	PowerplayEnded bool
	DotStreak      int
}

// deliveryIsLegal reports whether a delivery consumes a ball of the over.
// Wides and no-balls are illegal unless the corresponding redelivery toggle
// is disabled, in which case the ball still counts despite the extra.
func deliveryIsLegal(cfg MatchConfig, extra ExtraType) bool {
	switch extra {
	case ExtraWide:
		return !cfg.RedeliverWide
	case ExtraNoBall:
		return !cfg.RedeliverNoBall
	}
	return true
}

// lastDeliveryWasNoBall reports whether the most recent non-deleted delivery
// of the innings was a no-ball.
func lastDeliveryWasNoBall(m *Match, inningsNumber int) bool {
	for k := len(m.Events) - 1; k >= 0; k-- {
		ev := m.Events[k]
		if ev.Deleted || ev.InningsNumber != inningsNumber {
			continue
		}
		return ev.Payload.Extra == ExtraNoBall
	}
	return false
}

// Apply validates the delivery and, if every rule passes, mutates the match
// and innings state and appends the resulting event to the match's log.
// Any validation failure aborts with no mutation and no event appended.
func (e *BallRuleEngine) Apply(m *Match, in DeliveryInput) (*AppliedBall, error) {
	if err := checkStruct("delivery_input", in); err != nil {
		return nil, err
	}
	if m.Status != StatusMatchLive {
		return nil, validationErrf("match_not_active", "match %s is %s", m.ID, m.Status)
	}
	if in.InningsNumber != m.CurrentInnings {
		return nil, validationErrf("wrong_innings", "innings %d submitted but innings %d is current", in.InningsNumber, m.CurrentInnings)
	}
	inn := m.InningsByNumber(in.InningsNumber)
	if inn == nil || inn.Status != InningsInProgress {
		return nil, validationErrf("innings_not_in_progress", "innings %d is not in progress", in.InningsNumber)
	}
	if in.StrikerID != inn.StrikerID {
		return nil, validationErrf("striker_mismatch", "striker %d submitted but %d is on strike", in.StrikerID, inn.StrikerID)
	}
	if in.BowlerID != inn.BowlerID {
		return nil, validationErrf("bowler_mismatch", "bowler %d submitted but %d has the ball", in.BowlerID, inn.BowlerID)
	}
	if b, ok := inn.Bowlers[in.BowlerID]; ok && m.Config.MaxOversPerBowler > 0 && b.OversCompleted >= m.Config.MaxOversPerBowler {
		return nil, validationErrf("bowler_overs_exceeded", "bowler %d has bowled the maximum %d overs", in.BowlerID, m.Config.MaxOversPerBowler)
	}
	for _, id := range []uint{inn.StrikerID, inn.NonStrikerID} {
		if b, ok := inn.Batsmen[id]; ok && b.Out {
			return nil, validationErrf("batsman_out", "batsman %d is out and has not been replaced", id)
		}
	}
	if in.Extra == ExtraNone && in.ExtraRuns != 0 {
		return nil, validationErrf("extras_mismatch", "extra runs submitted without an extra type")
	}

	freeHit := m.Config.FreeHitOnNoBall && lastDeliveryWasNoBall(m, in.InningsNumber)

	if w := in.Wicket; w != nil {
		if w.PlayerOutID != inn.StrikerID && w.PlayerOutID != inn.NonStrikerID {
			return nil, validationErrf("wicket_player_unknown", "dismissed player %d is not at the crease", w.PlayerOutID)
		}
		if freeHit && BowlerCredited(w.Type) {
			return nil, validationErrf("free_hit_dismissal", "dismissal %s is not possible on a free hit", w.Type)
		}
	}

	legal := deliveryIsLegal(m.Config, in.Extra)
	payload := DeliveryPayload{
		RunsOffBat: in.RunsOffBat,
		IsFour:     in.IsFour,
		IsSix:      in.IsSix,
		IsDot:      legal && in.RunsOffBat+in.ExtraRuns == 0,
		Extra:      in.Extra,
		ExtraRuns:  in.ExtraRuns,
		Legal:      legal,
		Wicket:     in.Wicket,
		Shot:       in.Shot,
	}

	var partnershipRuns int
	if p := inn.ActivePartnership(); p != nil {
		partnershipRuns = p.Runs
	}

	ev := &DeliveryEvent{
		ID:            uuid.NewString(),
		MatchID:       m.ID,
		InningsNumber: inn.Number,
		OverNumber:    inn.OversCompleted + 1,
		BallNumber:    inn.BallsInOver + 1,
		StrikerID:     in.StrikerID,
		NonStrikerID:  in.NonStrikerID,
		BowlerID:      in.BowlerID,
		Context: DeliveryContext{
			ScoreBefore:     inn.Runs,
			WicketsBefore:   inn.Wickets,
			RunRate:         inn.RunRate,
			RequiredRunRate: inn.RequiredRunRate,
			PartnershipRuns: partnershipRuns,
			Powerplay:       m.Config.IsPowerplayOver(inn.OversCompleted + 1),
			FreeHit:         freeHit,
		},
		Payload:   payload,
		Source:    in.Source,
		Sequence:  in.Sequence,
		CreatedAt: time.Now().UTC(),
	}

	fx := applyEvent(m.Config, inn, ev)

	if err := verifyInvariants(m.Config, inn, ev); err != nil {
		// Refuse to commit: the event is not logged and the innings is
		// refolded from the surviving log.
		m.Innings[inn.Number-1] = rebuildInnings(m, inn.Number)
		return nil, err
	}

	m.Events = append(m.Events, ev)

	return &AppliedBall{
		Event:          ev,
		OverCompleted:  fx.OverCompleted,
		Maiden:         fx.Maiden,
		PowerplayEnded: fx.PowerplayEnded,
		DotStreak:      fx.DotStreak,
	}, nil
}

// applyEvent mutates the innings with one delivery's effects. It is the
// single mutation path: live application and replay both go through it, so
// innings state is always a left-fold over the event log.
func applyEvent(cfg MatchConfig, inn *Innings, ev *DeliveryEvent) applyEffects {
	p := ev.Payload
	total := p.TotalRuns()
	var fx applyEffects

	// Run accounting. Byes and leg-byes never reach the batsman's tally;
	// they travel in ExtraRuns.
	inn.Runs += total
	striker := inn.Batsman(ev.StrikerID)
	inn.Batsman(ev.NonStrikerID)
	striker.Runs += p.RunsOffBat
	if p.IsFour {
		striker.Fours++
	}
	if p.IsSix {
		striker.Sixes++
	}
	if p.Legal || p.Extra == ExtraNoBall {
		striker.BallsFaced++
	}
	striker.recomputeStrikeRate()

	// Bowler concession excludes byes, leg-byes and penalties but includes
	// wides and no-balls.
	bowler := inn.Bowler(ev.BowlerID)
	conceded := p.RunsOffBat
	switch p.Extra {
	case ExtraWide:
		conceded += p.ExtraRuns
		bowler.Wides++
	case ExtraNoBall:
		conceded += p.ExtraRuns
		bowler.NoBalls++
	}
	bowler.RunsConceded += conceded
	if p.IsDot {
		bowler.DotBalls++
	}

	over := inn.CurrentOver()
	over.Deliveries = append(over.Deliveries, ev)

	// Ball/over bookkeeping.
	if p.Legal {
		inn.BallsInOver++
		bowler.BallsInOver++
		if inn.BallsInOver == overs.BallsPerOver {
			fx.OverCompleted = true
			if overIsMaiden(over) {
				bowler.Maidens++
				fx.Maiden = true
			}
			inn.OversCompleted++
			inn.BallsInOver = 0
			bowler.OversCompleted++
			bowler.BallsInOver = 0
			inn.LastBowlerID = ev.BowlerID
			if pp := cfg.LastPowerplayOver(); pp > 0 && over.Number == pp {
				fx.PowerplayEnded = true
			}
		}
	}
	bowler.recomputeEconomy()

	// Extras bookkeeping.
	switch p.Extra {
	case ExtraWide:
		inn.Extras.Wides += p.ExtraRuns
	case ExtraNoBall:
		inn.Extras.NoBalls += p.ExtraRuns
	case ExtraBye:
		inn.Extras.Byes += p.ExtraRuns
	case ExtraLegBye:
		inn.Extras.LegByes += p.ExtraRuns
	case ExtraPenalty:
		inn.Extras.Penalties += p.ExtraRuns
	}
	if p.Extra != ExtraNone {
		inn.Extras.Total += p.ExtraRuns
	}

	// Partnership accounting.
	if pt := inn.ActivePartnership(); pt != nil {
		pt.Runs += total
		if p.Legal {
			pt.Balls++
		}
	}

	// Wicket handling.
	if w := p.Wicket; w != nil {
		inn.Wickets++
		out := inn.Batsman(w.PlayerOutID)
		out.Out = true
		out.Dismissal = &DismissalDetail{Type: w.Type, BowlerID: ev.BowlerID, FielderID: w.FielderID}
		if BowlerCredited(w.Type) {
			bowler.Wickets++
		}
		inn.FallOfWicket = append(inn.FallOfWicket, FallOfWicket{
			WicketNumber: inn.Wickets,
			Score:        inn.Runs,
			Over:         overs.Display(ev.OverNumber-1, ev.BallNumber),
			PlayerOutID:  w.PlayerOutID,
			Dismissal:    w.Type,
		})
		if pt := inn.ActivePartnership(); pt != nil {
			pt.Active = false
			pt.EndScore = inn.Runs
		}
	}

	// Strike rotation: odd crossing runs and an over boundary each swap the
	// strike; when both happen they cancel.
	oddRuns := total%2 == 1
	if oddRuns != fx.OverCompleted {
		inn.StrikerID, inn.NonStrikerID = inn.NonStrikerID, inn.StrikerID
	}

	// Derived rates.
	inn.RunRate = overs.RunRate(inn.Runs, inn.OversCompleted, inn.BallsInOver)
	updateChase(cfg, inn)

	fx.DotStreak = trailingDots(inn)
	return fx
}

// updateChase recomputes required runs, remaining legal balls and required
// run rate for a chasing innings.
func updateChase(cfg MatchConfig, inn *Innings) {
	if inn.Number != 2 || inn.Target == 0 {
		return
	}
	req := inn.Target - inn.Runs
	if req < 0 {
		req = 0
	}
	inn.RequiredRuns = req
	inn.BallsRemaining = overs.TotalBalls(cfg.OversPerInnings) - inn.LegalBalls()
	inn.RequiredRunRate = overs.RequiredRunRate(req, inn.BallsRemaining)
}

// overIsMaiden reports whether a completed over conceded nothing off the bat
// and contained no wide or no-ball. Byes and leg-byes do not break a maiden.
func overIsMaiden(o *Over) bool {
	for _, ev := range o.Deliveries {
		if ev.Payload.RunsOffBat > 0 {
			return false
		}
		if ev.Payload.Extra == ExtraWide || ev.Payload.Extra == ExtraNoBall {
			return false
		}
	}
	return true
}

// trailingDots counts the consecutive scoreless deliveries at the end of the
// innings so far.
func trailingDots(inn *Innings) int {
	count := 0
	for k := len(inn.Overs) - 1; k >= 0; k-- {
		ds := inn.Overs[k].Deliveries
		for j := len(ds) - 1; j >= 0; j-- {
			if ds[j].Payload.TotalRuns() != 0 {
				return count
			}
			count++
		}
	}
	return count
}

// verifyInvariants checks the scoring invariants that must hold after every
// applied delivery. The batsman dismissed by this delivery is allowed to
// still occupy a crease slot; the replacement arrives as a separate call.
func verifyInvariants(cfg MatchConfig, inn *Innings, ev *DeliveryEvent) error {
	if inn.Wickets > cfg.PlayersPerSide-1 {
		return &InvariantError{Invariant: "wickets_bound", Message: "wickets exceed players per side minus one"}
	}
	if inn.OversCompleted > cfg.OversPerInnings {
		return &InvariantError{Invariant: "overs_bound", Message: "overs exceed configured overs per innings"}
	}
	if inn.BallsInOver < 0 || inn.BallsInOver >= overs.BallsPerOver {
		return &InvariantError{Invariant: "balls_bound", Message: "legal-ball counter out of range"}
	}
	if inn.StrikerID == inn.NonStrikerID {
		return &InvariantError{Invariant: "distinct_batsmen", Message: "striker and non-striker are the same player"}
	}
	for _, id := range []uint{inn.StrikerID, inn.NonStrikerID} {
		b, ok := inn.Batsmen[id]
		if !ok || !b.Out {
			continue
		}
		if w := ev.Payload.Wicket; w != nil && w.PlayerOutID == id {
			continue
		}
		return &InvariantError{Invariant: "crease_not_out", Message: "a dismissed batsman occupies the crease"}
	}
	active := 0
	for _, p := range inn.Partnerships {
		if p.Active {
			active++
		}
	}
	if active > 1 {
		return &InvariantError{Invariant: "single_partnership", Message: "more than one active partnership"}
	}
	return nil
}
