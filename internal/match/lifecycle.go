package match

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DhavalSuthar-24/pitchside/internal/notify"
)

// Lifecycle orchestrates match-level transitions and owns the mapping from
// match id to state and event log. All mutation of a match goes through it,
// serialized per match id by the store. Notifications are dispatched after
// the state change has committed; a slow or failing dispatcher can never
// roll back or block scoring.
type Lifecycle struct {
	store      *Store
	engine     BallRuleEngine
	detector   MilestoneDetector
	dispatcher notify.Dispatcher
	logger     zerolog.Logger
}

// NewLifecycle builds a lifecycle with its own empty store.
func NewLifecycle(dispatcher notify.Dispatcher, logger zerolog.Logger) *Lifecycle {
	return &Lifecycle{
		store:      NewStore(),
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "lifecycle").Logger(),
	}
}

func (l *Lifecycle) dispatchAll(ns []notify.Notification) {
	for _, n := range ns {
		l.dispatcher.Dispatch(n)
	}
}

// CreateMatchRequest is the payload for creating a match.
type CreateMatchRequest struct {
	Config MatchConfig `json:"config" validate:"required"`
	TeamA  TeamRoster  `json:"team_a" validate:"required"`
	TeamB  TeamRoster  `json:"team_b" validate:"required"`
}

// CreateMatch validates and normalizes the configuration, seeds the innings
// slots and registers the match in pending state.
func (l *Lifecycle) CreateMatch(req CreateMatchRequest) (*Match, error) {
	if err := checkStruct("create_match", req); err != nil {
		return nil, err
	}
	if req.TeamA.TeamID == req.TeamB.TeamID {
		return nil, validationErrf("create_match", "both rosters carry team id %d", req.TeamA.TeamID)
	}
	cfg := req.Config
	if len(req.TeamA.Players) < cfg.PlayersPerSide || len(req.TeamB.Players) < cfg.PlayersPerSide {
		return nil, validationErrf("create_match", "rosters need at least %d players", cfg.PlayersPerSide)
	}
	if cfg.MaxOversPerBowler == 0 {
		cfg.MaxOversPerBowler = (cfg.OversPerInnings + 4) / 5
	}

	m := &Match{
		ID:        uuid.NewString(),
		Config:    cfg,
		Status:    StatusMatchPending,
		TeamA:     req.TeamA,
		TeamB:     req.TeamB,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.store.Create(m); err != nil {
		return nil, err
	}
	l.logger.Info().Str("match_id", m.ID).Str("format", cfg.Format).Int("overs", cfg.OversPerInnings).Msg("match created")
	return m, nil
}

// RecordToss records the toss winner and decision. Allowed only from pending.
func (l *Lifecycle) RecordToss(matchID string, winnerTeamID uint, decision TossDecision) error {
	return l.store.WithMatch(matchID, func(m *Match) error {
		if m.Status != StatusMatchPending {
			return validationErrf("toss", "toss can only be recorded from pending, match is %s", m.Status)
		}
		if m.Roster(winnerTeamID) == nil {
			return validationErrf("toss", "team %d is not playing this match", winnerTeamID)
		}
		if decision != TossDecisionBat && decision != TossDecisionBowl {
			return validationErrf("toss", "decision must be bat or bowl")
		}
		m.Toss = &TossResult{WinnerTeamID: winnerTeamID, Decision: decision}
		m.Status = StatusMatchToss
		l.logger.Info().Str("match_id", m.ID).Uint("winner", winnerTeamID).Str("decision", string(decision)).Msg("toss recorded")
		return nil
	})
}

// battingTeamFor resolves who bats in the given innings from the toss.
func battingTeamFor(m *Match, inningsNumber int) uint {
	batsFirst := m.Toss.WinnerTeamID
	if m.Toss.Decision == TossDecisionBowl {
		batsFirst = m.OtherTeam(m.Toss.WinnerTeamID)
	}
	if inningsNumber == 1 {
		return batsFirst
	}
	return m.OtherTeam(batsFirst)
}

// StartInnings starts the next innings with the given opening batsmen and
// opening bowler. Allowed from toss (first innings) or innings_break
// (second innings). For the second innings the target is the first innings
// total plus one.
func (l *Lifecycle) StartInnings(matchID string, strikerID, nonStrikerID, bowlerID uint) error {
	var pending []notify.Notification
	err := l.store.WithMatch(matchID, func(m *Match) error {
		var number int
		switch m.Status {
		case StatusMatchToss:
			number = 1
		case StatusMatchInningsBreak:
			number = 2
		default:
			return validationErrf("start_innings", "cannot start an innings while match is %s", m.Status)
		}

		battingTeam := battingTeamFor(m, number)
		bowlingTeam := m.OtherTeam(battingTeam)
		batting := m.Roster(battingTeam)
		bowling := m.Roster(bowlingTeam)

		if strikerID == nonStrikerID {
			return validationErrf("start_innings", "striker and non-striker must differ")
		}
		if !batting.HasPlayer(strikerID) || !batting.HasPlayer(nonStrikerID) {
			return validationErrf("start_innings", "opening batsmen must belong to team %d", battingTeam)
		}
		if !bowling.HasPlayer(bowlerID) {
			return validationErrf("start_innings", "opening bowler must belong to team %d", bowlingTeam)
		}

		inn := newInnings(number, battingTeam, bowlingTeam)
		if number == 2 {
			inn.Target = m.Innings[0].Runs + 1
		}
		openInnings(inn, strikerID, nonStrikerID, bowlerID)
		updateChase(m.Config, inn)

		m.Innings[number-1] = inn
		m.CurrentInnings = number
		m.Status = StatusMatchLive
		if number == 1 {
			now := time.Now().UTC()
			m.StartedAt = &now
		}

		l.logger.Info().Str("match_id", m.ID).Int("innings", number).Uint("batting", battingTeam).Msg("innings started")
		pending = append(pending, notify.New(notify.KindInningsStarted, m.ID, summarizeInnings(m, inn)))
		return nil
	})
	l.dispatchAll(pending)
	return err
}

// SubmitDelivery validates and applies one delivery, runs milestone
// detection, checks innings/match completion and dispatches everything the
// ball produced.
func (l *Lifecycle) SubmitDelivery(in DeliveryInput) (*DeliveryEvent, error) {
	var pending []notify.Notification
	var applied *AppliedBall
	err := l.store.WithMatch(in.MatchID, func(m *Match) error {
		inn := m.InningsByNumber(m.CurrentInnings)
		if inn == nil {
			return validationErrf("no_innings", "no innings in progress")
		}

		pre := l.detector.Snapshot(inn, in.StrikerID, in.BowlerID)

		var err error
		applied, err = l.engine.Apply(m, in)
		if err != nil {
			return err
		}
		ev := applied.Event

		l.logger.Debug().
			Str("match_id", m.ID).
			Str("over", fmt.Sprintf("%d.%d", ev.OverNumber, ev.BallNumber)).
			Int("runs", ev.Payload.TotalRuns()).
			Bool("wicket", ev.Payload.Wicket != nil).
			Msg("delivery applied")

		pending = append(pending, notify.New(notify.KindBallApplied, m.ID, ballAppliedData{
			Event:   ev,
			Innings: summarizeInnings(m, inn),
		}))
		pending = append(pending, commentaryFor(m, inn, applied)...)

		rw, ns := l.detector.Inspect(m, inn, ev, pre)
		pending = append(pending, ns...)

		if done, how := inningsComplete(m.Config, inn); done {
			pending = append(pending, l.completeInnings(m, inn, how)...)
			if m.Status == StatusMatchCompleted {
				rw = append(rw, l.detector.MatchEndRewards(m)...)
			}
		}
		if len(rw) > 0 {
			pending = append(pending, notify.New(notify.KindTokenRewards, m.ID, rw))
		}
		return nil
	})
	l.dispatchAll(pending)
	if err != nil {
		return nil, err
	}
	return applied.Event, nil
}

// ballAppliedData is the payload of a ball.applied notification.
type ballAppliedData struct {
	Event   *DeliveryEvent `json:"event"`
	Innings InningsSummary `json:"innings"`
}

// commentaryFor turns an applied ball's bookkeeping facts into commentary
// triggers.
func commentaryFor(m *Match, inn *Innings, applied *AppliedBall) []notify.Notification {
	ev := applied.Event
	var ns []notify.Notification
	base := map[string]interface{}{
		"striker_id": ev.StrikerID,
		"bowler_id":  ev.BowlerID,
		"over":       fmt.Sprintf("%d.%d", ev.OverNumber, ev.BallNumber),
		"score":      inn.Runs,
		"wickets":    inn.Wickets,
	}
	with := func(extra map[string]interface{}) map[string]interface{} {
		f := make(map[string]interface{}, len(base)+len(extra))
		for k, v := range base {
			f[k] = v
		}
		for k, v := range extra {
			f[k] = v
		}
		return f
	}

	if ev.Payload.IsSix {
		ns = append(ns, notify.Commentary(m.ID, notify.TagSix, with(nil)))
	} else if ev.Payload.IsFour {
		ns = append(ns, notify.Commentary(m.ID, notify.TagBoundary, with(nil)))
	}
	if w := ev.Payload.Wicket; w != nil {
		ns = append(ns, notify.Commentary(m.ID, notify.TagWicket, with(map[string]interface{}{
			"player_out_id": w.PlayerOutID,
			"dismissal":     string(w.Type),
		})))
	}
	if applied.Maiden {
		ns = append(ns, notify.Commentary(m.ID, notify.TagMaidenOver, with(map[string]interface{}{
			"maidens": inn.Bowler(ev.BowlerID).Maidens,
		})))
	}
	if applied.PowerplayEnded {
		ns = append(ns, notify.Commentary(m.ID, notify.TagPowerplayEnd, with(nil)))
	}
	if applied.DotStreak == 6 {
		ns = append(ns, notify.Commentary(m.ID, notify.TagDotBallPressure, with(map[string]interface{}{
			"dots": applied.DotStreak,
		})))
	}
	return ns
}

// inningsComplete evaluates the innings completion conditions.
func inningsComplete(cfg MatchConfig, inn *Innings) (bool, string) {
	if inn.Wickets >= cfg.PlayersPerSide-1 {
		return true, "all_out"
	}
	if inn.OversCompleted >= cfg.OversPerInnings {
		return true, "overs_exhausted"
	}
	if inn.Number == 2 && inn.Target > 0 && inn.Runs >= inn.Target {
		return true, "target_reached"
	}
	return false, ""
}

// completeInnings seals the innings and transitions the match, computing the
// result when the second innings ends.
func (l *Lifecycle) completeInnings(m *Match, inn *Innings, how string) []notify.Notification {
	inn.Status = InningsCompleted
	if p := inn.ActivePartnership(); p != nil {
		p.Active = false
		p.EndScore = inn.Runs
	}

	var ns []notify.Notification
	ns = append(ns, notify.Commentary(m.ID, notify.TagInningsEnd, map[string]interface{}{
		"innings": inn.Number,
		"reason":  how,
		"score":   inn.Runs,
		"wickets": inn.Wickets,
		"overs":   inn.OversDisplay(),
	}))
	ns = append(ns, notify.New(notify.KindInningsEnded, m.ID, summarizeInnings(m, inn)))

	if inn.Number == 1 {
		m.Status = StatusMatchInningsBreak
		l.logger.Info().Str("match_id", m.ID).Int("score", inn.Runs).Msg("first innings ended")
		return ns
	}

	m.Result = computeResult(m)
	m.Status = StatusMatchCompleted
	now := time.Now().UTC()
	m.CompletedAt = &now
	l.logger.Info().Str("match_id", m.ID).Str("result", m.Result.Summary).Msg("match ended")

	ns = append(ns, notify.Commentary(m.ID, notify.TagMatchWon, map[string]interface{}{
		"summary":        m.Result.Summary,
		"winner_team_id": m.Result.WinnerTeamID,
		"tie":            m.Result.Tie,
	}))
	ns = append(ns, notify.New(notify.KindMatchEnded, m.ID, matchEndedData{
		Result:         *m.Result,
		FirstInnings:   summarizeInnings(m, m.Innings[0]),
		SecondInnings:  summarizeInnings(m, m.Innings[1]),
		SuperOverOnTie: m.Result.Tie && m.Config.SuperOverOnTie,
	}))
	return ns
}

// matchEndedData is the payload of a match.ended notification.
type matchEndedData struct {
	Result         MatchResult    `json:"result"`
	FirstInnings   InningsSummary `json:"first_innings"`
	SecondInnings  InningsSummary `json:"second_innings"`
	SuperOverOnTie bool           `json:"super_over_on_tie,omitempty"`
}

// computeResult derives the final result from the two innings totals.
func computeResult(m *Match) *MatchResult {
	first, second := m.Innings[0], m.Innings[1]
	switch {
	case second.Runs > first.Runs:
		margin := m.Config.PlayersPerSide - 1 - second.Wickets
		return &MatchResult{
			WinnerTeamID: second.BattingTeamID,
			WonBy:        "wickets",
			Margin:       margin,
			Summary:      fmt.Sprintf("%s won by %d wickets", m.Roster(second.BattingTeamID).Name, margin),
		}
	case first.Runs > second.Runs:
		margin := first.Runs - second.Runs
		return &MatchResult{
			WinnerTeamID: first.BattingTeamID,
			WonBy:        "runs",
			Margin:       margin,
			Summary:      fmt.Sprintf("%s won by %d runs", m.Roster(first.BattingTeamID).Name, margin),
		}
	default:
		return &MatchResult{Tie: true, Summary: "Match tied"}
	}
}

// ChangeBowler assigns the bowler for the over about to start. Only allowed
// at an over boundary; the previous over's bowler cannot bowl consecutive
// overs, and a bowler at the overs cap is rejected. Announcing again before
// the over's first ball replaces the earlier announcement.
func (l *Lifecycle) ChangeBowler(matchID string, bowlerID uint) error {
	return l.store.WithMatch(matchID, func(m *Match) error {
		if m.Status != StatusMatchLive {
			return validationErrf("change_bowler", "match is %s", m.Status)
		}
		inn := m.InningsByNumber(m.CurrentInnings)
		if inn == nil || inn.Status != InningsInProgress {
			return validationErrf("change_bowler", "no innings in progress")
		}
		if inn.BallsInOver != 0 {
			return validationErrf("change_bowler", "bowler can only change at the end of an over")
		}
		if bowlerID == inn.LastBowlerID {
			return validationErrf("change_bowler", "bowler %d bowled the previous over", bowlerID)
		}
		if !m.Roster(inn.BowlingTeamID).HasPlayer(bowlerID) {
			return validationErrf("change_bowler", "player %d is not in the bowling side", bowlerID)
		}
		if b, ok := inn.Bowlers[bowlerID]; ok && b.OversCompleted >= m.Config.MaxOversPerBowler {
			return validationErrf("change_bowler", "bowler %d has bowled the maximum %d overs", bowlerID, m.Config.MaxOversPerBowler)
		}
		inn.BowlerID = bowlerID
		if idx := inn.OversCompleted; idx < len(inn.BowlerOrder) {
			inn.BowlerOrder[idx] = bowlerID
		} else {
			inn.BowlerOrder = append(inn.BowlerOrder, bowlerID)
		}
		l.logger.Debug().Str("match_id", m.ID).Uint("bowler", bowlerID).Int("over", inn.OversCompleted+1).Msg("bowler changed")
		return nil
	})
}

// BringNewBatsman replaces the dismissed batsman's slot and opens a new
// partnership anchored at the current score.
func (l *Lifecycle) BringNewBatsman(matchID string, batsmanID uint) error {
	return l.store.WithMatch(matchID, func(m *Match) error {
		if m.Status != StatusMatchLive {
			return validationErrf("new_batsman", "match is %s", m.Status)
		}
		inn := m.InningsByNumber(m.CurrentInnings)
		if inn == nil || inn.Status != InningsInProgress {
			return validationErrf("new_batsman", "no innings in progress")
		}
		var outID uint
		if b, ok := inn.Batsmen[inn.StrikerID]; ok && b.Out {
			outID = inn.StrikerID
		} else if b, ok := inn.Batsmen[inn.NonStrikerID]; ok && b.Out {
			outID = inn.NonStrikerID
		} else {
			return validationErrf("new_batsman", "no vacant slot at the crease")
		}
		if !m.Roster(inn.BattingTeamID).HasPlayer(batsmanID) {
			return validationErrf("new_batsman", "player %d is not in the batting side", batsmanID)
		}
		if _, seen := inn.Batsmen[batsmanID]; seen {
			return validationErrf("new_batsman", "player %d has already batted", batsmanID)
		}
		replaceBatsman(inn, outID, batsmanID)
		inn.BattingOrder = append(inn.BattingOrder, batsmanID)
		l.logger.Debug().Str("match_id", m.ID).Uint("batsman", batsmanID).Msg("new batsman in")
		return nil
	})
}

// UndoLastDelivery soft-deletes the most recent delivery of the current
// innings and restores the innings by a full deterministic replay of the
// surviving events, so every field ends up exactly as it was before the
// undone ball.
func (l *Lifecycle) UndoLastDelivery(matchID string) error {
	return l.store.WithMatch(matchID, func(m *Match) error {
		var last *DeliveryEvent
		for k := len(m.Events) - 1; k >= 0; k-- {
			if !m.Events[k].Deleted {
				last = m.Events[k]
				break
			}
		}
		if last == nil {
			return validationErrf("undo", "no deliveries to undo")
		}
		if last.InningsNumber != m.CurrentInnings {
			return validationErrf("undo", "last delivery belongs to innings %d, not the current innings", last.InningsNumber)
		}

		last.Deleted = true
		inn := rebuildInnings(m, last.InningsNumber)
		m.Innings[last.InningsNumber-1] = inn

		// The undone ball may have been the one that sealed the innings or
		// the match; reopen whatever it closed.
		if done, _ := inningsComplete(m.Config, inn); done {
			inn.Status = InningsCompleted
		} else if m.Status == StatusMatchInningsBreak || m.Status == StatusMatchCompleted {
			m.Status = StatusMatchLive
			m.Result = nil
			m.CompletedAt = nil
		}
		l.logger.Info().Str("match_id", m.ID).Str("event_id", last.ID).Msg("delivery undone")
		return nil
	})
}

// AbandonMatch abandons the match from any non-terminal state. Externally
// triggered (rain, forfeit); no further scoring is accepted.
func (l *Lifecycle) AbandonMatch(matchID string) error {
	var pending []notify.Notification
	err := l.store.WithMatch(matchID, func(m *Match) error {
		if m.Status == StatusMatchCompleted || m.Status == StatusMatchAbandoned {
			return validationErrf("abandon", "match is already %s", m.Status)
		}
		m.Status = StatusMatchAbandoned
		now := time.Now().UTC()
		m.CompletedAt = &now
		l.logger.Info().Str("match_id", m.ID).Msg("match abandoned")
		pending = append(pending, notify.New(notify.KindMatchEnded, m.ID, matchEndedData{
			Result: MatchResult{Summary: "Match abandoned"},
		}))
		return nil
	})
	l.dispatchAll(pending)
	return err
}

// InningsSummary is the read-model snapshot of an innings used in
// notifications and queries.
type InningsSummary struct {
	Number          int     `json:"number"`
	BattingTeamID   uint    `json:"batting_team_id"`
	BattingTeam     string  `json:"batting_team"`
	BowlingTeamID   uint    `json:"bowling_team_id"`
	BowlingTeam     string  `json:"bowling_team"`
	Runs            int     `json:"runs"`
	Wickets         int     `json:"wickets"`
	Overs           string  `json:"overs"`
	RunRate         float64 `json:"run_rate"`
	Extras          int     `json:"extras"`
	Target          int     `json:"target,omitempty"`
	RequiredRuns    int     `json:"required_runs,omitempty"`
	BallsRemaining  int     `json:"balls_remaining,omitempty"`
	RequiredRunRate float64 `json:"required_run_rate,omitempty"`
}

func summarizeInnings(m *Match, inn *Innings) InningsSummary {
	return InningsSummary{
		Number:          inn.Number,
		BattingTeamID:   inn.BattingTeamID,
		BattingTeam:     m.Roster(inn.BattingTeamID).Name,
		BowlingTeamID:   inn.BowlingTeamID,
		BowlingTeam:     m.Roster(inn.BowlingTeamID).Name,
		Runs:            inn.Runs,
		Wickets:         inn.Wickets,
		Overs:           inn.OversDisplay(),
		RunRate:         inn.RunRate,
		Extras:          inn.Extras.Total,
		Target:          inn.Target,
		RequiredRuns:    inn.RequiredRuns,
		BallsRemaining:  inn.BallsRemaining,
		RequiredRunRate: inn.RequiredRunRate,
	}
}

// GetMatch returns the match with the given id. The returned value is owned
// by the lifecycle and must be treated as read-only.
func (l *Lifecycle) GetMatch(matchID string) (*Match, error) {
	var out *Match
	err := l.store.WithMatch(matchID, func(m *Match) error {
		out = m
		return nil
	})
	return out, err
}

// GetInnings returns a snapshot summary of the given innings.
func (l *Lifecycle) GetInnings(matchID string, number int) (InningsSummary, error) {
	var out InningsSummary
	err := l.store.WithMatch(matchID, func(m *Match) error {
		inn := m.InningsByNumber(number)
		if inn == nil {
			return &NotFoundError{Kind: "innings", ID: fmt.Sprintf("%s/%d", matchID, number)}
		}
		out = summarizeInnings(m, inn)
		return nil
	})
	return out, err
}

// EventLog returns the match's non-deleted events in order.
func (l *Lifecycle) EventLog(matchID string) ([]*DeliveryEvent, error) {
	var out []*DeliveryEvent
	err := l.store.WithMatch(matchID, func(m *Match) error {
		out = m.ActiveEvents()
		return nil
	})
	return out, err
}

// ListMatches returns the ids of every known match.
func (l *Lifecycle) ListMatches() []string {
	return l.store.List()
}
