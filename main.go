package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/DhavalSuthar-24/pitchside/config"
	"github.com/DhavalSuthar-24/pitchside/internal/match"
	"github.com/DhavalSuthar-24/pitchside/internal/notify"
)

// feed is a recorded ball-by-ball feed: the match setup followed by the
// ordered scoring events, including the non-delivery instructions the
// scorer entered (innings starts, bowler changes, new batsmen, undos).
type feed struct {
	Config match.MatchConfig `json:"config"`
	TeamA  match.TeamRoster  `json:"team_a"`
	TeamB  match.TeamRoster  `json:"team_b"`
	Toss   struct {
		WinnerTeamID uint               `json:"winner_team_id"`
		Decision     match.TossDecision `json:"decision"`
	} `json:"toss"`
	Events []feedEvent `json:"events"`
}

type feedEvent struct {
	Type       string               `json:"type"` // start_innings, delivery, new_batsman, change_bowler, undo
	Striker    uint                 `json:"striker,omitempty"`
	NonStriker uint                 `json:"non_striker,omitempty"`
	Bowler     uint                 `json:"bowler,omitempty"`
	PlayerID   uint                 `json:"player_id,omitempty"`
	Delivery   *match.DeliveryInput `json:"delivery,omitempty"`
}

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	cfg := config.GetConfig()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(cfg.Level()).
		With().Timestamp().Logger()

	if len(os.Args) < 2 {
		logger.Fatal().Msg("usage: pitchside <feed.json>")
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to read feed")
	}
	var f feed
	if err := json.Unmarshal(raw, &f); err != nil {
		logger.Fatal().Err(err).Msg("failed to parse feed")
	}
	if f.Config.Format == "" {
		f.Config.Format = cfg.Defaults.Format
	}
	if f.Config.OversPerInnings == 0 {
		f.Config.OversPerInnings = cfg.Defaults.Overs
	}
	if f.Config.PlayersPerSide == 0 {
		f.Config.PlayersPerSide = cfg.Defaults.PlayersPerSide
	}

	lc := match.NewLifecycle(notify.LogDispatcher{Logger: logger}, logger)

	m, err := lc.CreateMatch(match.CreateMatchRequest{Config: f.Config, TeamA: f.TeamA, TeamB: f.TeamB})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create match")
	}
	if err := lc.RecordToss(m.ID, f.Toss.WinnerTeamID, f.Toss.Decision); err != nil {
		logger.Fatal().Err(err).Msg("failed to record toss")
	}

	for k, ev := range f.Events {
		if err := replayEvent(lc, m.ID, ev); err != nil {
			logger.Fatal().Err(err).Int("event", k).Str("type", ev.Type).Msg("feed event rejected")
		}
	}

	final, err := lc.GetMatch(m.ID)
	if err != nil {
		logger.Fatal().Err(err).Msg("match vanished")
	}
	printScorecard(final)
}

func replayEvent(lc *match.Lifecycle, matchID string, ev feedEvent) error {
	switch ev.Type {
	case "start_innings":
		return lc.StartInnings(matchID, ev.Striker, ev.NonStriker, ev.Bowler)
	case "delivery":
		if ev.Delivery == nil {
			return fmt.Errorf("delivery event without a delivery payload")
		}
		in := *ev.Delivery
		in.MatchID = matchID
		if in.InningsNumber == 0 {
			m, err := lc.GetMatch(matchID)
			if err != nil {
				return err
			}
			in.InningsNumber = m.CurrentInnings
		}
		_, err := lc.SubmitDelivery(in)
		return err
	case "new_batsman":
		return lc.BringNewBatsman(matchID, ev.PlayerID)
	case "change_bowler":
		return lc.ChangeBowler(matchID, ev.PlayerID)
	case "undo":
		return lc.UndoLastDelivery(matchID)
	default:
		return fmt.Errorf("unknown feed event type %q", ev.Type)
	}
}

func printScorecard(m *match.Match) {
	fmt.Printf("%s vs %s (%s, %d overs)\n", m.TeamA.Name, m.TeamB.Name, m.Config.Format, m.Config.OversPerInnings)
	for _, inn := range m.Innings {
		if inn == nil {
			continue
		}
		batting := m.Roster(inn.BattingTeamID)
		fmt.Printf("\n%s  %d/%d (%s)  RR %.2f\n", batting.Name, inn.Runs, inn.Wickets, inn.OversDisplay(), inn.RunRate)

		fmt.Println("  Batting            R    B   4s  6s     SR")
		for _, id := range inn.BattingOrder {
			b := inn.Batsmen[id]
			line := "not out"
			if b.Out {
				line = string(b.Dismissal.Type)
			}
			fmt.Printf("  #%-4d %-12s %4d %4d %4d %3d %6.1f\n", id, line, b.Runs, b.BallsFaced, b.Fours, b.Sixes, b.StrikeRate)
		}
		fmt.Printf("  Extras %d (wd %d, nb %d, b %d, lb %d, pen %d)\n",
			inn.Extras.Total, inn.Extras.Wides, inn.Extras.NoBalls, inn.Extras.Byes, inn.Extras.LegByes, inn.Extras.Penalties)

		fmt.Println("  Bowling            O    M    R   W   Econ")
		for _, id := range bowlersInOrder(inn) {
			b := inn.Bowlers[id]
			fmt.Printf("  #%-4d           %5s %4d %4d %3d %6.2f\n", id, b.OversDisplay(), b.Maidens, b.RunsConceded, b.Wickets, b.Economy)
		}

		if len(inn.FallOfWicket) > 0 {
			fmt.Print("  FOW: ")
			for k, f := range inn.FallOfWicket {
				if k > 0 {
					fmt.Print(", ")
				}
				fmt.Printf("%d-%d (#%d, %s)", f.Score, f.WicketNumber, f.PlayerOutID, f.Over)
			}
			fmt.Println()
		}
	}
	fmt.Println()
	switch {
	case m.Result != nil:
		fmt.Println(m.Result.Summary)
	case m.Status == match.StatusMatchAbandoned:
		fmt.Println("Match abandoned")
	default:
		fmt.Printf("Match %s\n", m.Status)
	}
}

// bowlersInOrder lists the innings' bowlers in the order they first bowled.
// An announced bowler who never delivered a ball has no figures to print.
func bowlersInOrder(inn *match.Innings) []uint {
	var out []uint
	seen := make(map[uint]bool)
	for _, id := range inn.BowlerOrder {
		if !seen[id] && inn.Bowlers[id] != nil {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
