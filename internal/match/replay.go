package match

// Innings state is a left-fold over the ordered, non-deleted event list, so
// undo is "drop the last event, refold". Batsman replacements and bowler
// changes are not delivery events; replacements are reconstructed from the
// innings' recorded batting order and the bowler from each event.

// newInnings builds an empty innings shell.
func newInnings(number int, battingTeamID, bowlingTeamID uint) *Innings {
	return &Innings{
		Number:        number,
		BattingTeamID: battingTeamID,
		BowlingTeamID: bowlingTeamID,
		Status:        InningsNotStarted,
		Batsmen:       make(map[uint]*BatsmanStats),
		Bowlers:       make(map[uint]*BowlerStats),
	}
}

// openInnings seeds the shell with the opening batsmen, opening bowler and
// the first partnership. Bowler stats entries are created lazily on the
// bowler's first delivery, so a refold of the log reproduces them exactly.
func openInnings(inn *Innings, strikerID, nonStrikerID, bowlerID uint) {
	inn.Status = InningsInProgress
	inn.StrikerID = strikerID
	inn.NonStrikerID = nonStrikerID
	inn.BowlerID = bowlerID
	inn.Batsman(strikerID)
	inn.Batsman(nonStrikerID)
	inn.BattingOrder = []uint{strikerID, nonStrikerID}
	inn.BowlerOrder = []uint{bowlerID}
	inn.Partnerships = []*Partnership{{
		BatsmanA: strikerID,
		BatsmanB: nonStrikerID,
		Active:   true,
	}}
}

// rebuildInnings deterministically refolds one innings from the match's
// surviving events. The returned innings replaces the old one wholesale.
func rebuildInnings(m *Match, number int) *Innings {
	old := m.InningsByNumber(number)
	inn := newInnings(number, old.BattingTeamID, old.BowlingTeamID)
	inn.Target = old.Target

	order := old.BattingOrder
	if len(order) >= 2 && len(old.BowlerOrder) >= 1 {
		openInnings(inn, order[0], order[1], old.BowlerOrder[0])
	}
	inn.BattingOrder = append([]uint{}, order...)
	inn.BowlerOrder = append([]uint{}, old.BowlerOrder...)

	nextReplacement := 2 // index into BattingOrder past the openers

	for _, ev := range m.Events {
		if ev.Deleted || ev.InningsNumber != number {
			continue
		}
		// The event records the truth at the moment of the ball: who was on
		// strike, at the other end, and bowling.
		inn.BowlerID = ev.BowlerID
		inn.StrikerID = ev.StrikerID
		inn.NonStrikerID = ev.NonStrikerID

		applyEvent(m.Config, inn, ev)

		if ev.Payload.Wicket != nil && nextReplacement < len(inn.BattingOrder) {
			replaceBatsman(inn, ev.Payload.Wicket.PlayerOutID, inn.BattingOrder[nextReplacement])
			nextReplacement++
		}
	}

	// Forget replacements that arrived after the last surviving wicket; the
	// wicket that prompted them may just have been undone.
	// Forget bowler assignments beyond the over now in progress, then point
	// the innings at the bowler assigned to that over. An undo that peels a
	// ball back into the previous over also forgets the bowler change that
	// opened the next one.
	if keep := inn.OversCompleted + 1; len(inn.BowlerOrder) > keep {
		inn.BowlerOrder = inn.BowlerOrder[:keep]
	}
	if keep := 2 + inn.Wickets; len(inn.BattingOrder) > keep {
		inn.BattingOrder = inn.BattingOrder[:keep]
	}
	if n := len(inn.BowlerOrder); n > 0 {
		idx := inn.OversCompleted
		if idx >= n {
			idx = n - 1
		}
		inn.BowlerID = inn.BowlerOrder[idx]
	}
	updateChase(m.Config, inn)

	return inn
}

// replaceBatsman swaps the dismissed batsman's slot for the incoming one and
// opens a fresh partnership anchored at the current score.
func replaceBatsman(inn *Innings, outID, inID uint) {
	if inn.StrikerID == outID {
		inn.StrikerID = inID
	} else if inn.NonStrikerID == outID {
		inn.NonStrikerID = inID
	}
	inn.Batsman(inID)
	inn.Partnerships = append(inn.Partnerships, &Partnership{
		BatsmanA:   inn.StrikerID,
		BatsmanB:   inn.NonStrikerID,
		StartScore: inn.Runs,
		Active:     true,
	})
}
