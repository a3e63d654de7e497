package match

import (
	"time"

	"github.com/DhavalSuthar-24/pitchside/pkg/overs"
)

// MatchStatus is the match lifecycle state.
type MatchStatus string

const (
	StatusMatchPending      MatchStatus = "pending"
	StatusMatchToss         MatchStatus = "toss"
	StatusMatchLive         MatchStatus = "active"
	StatusMatchInningsBreak MatchStatus = "innings_break"
	StatusMatchCompleted    MatchStatus = "completed"
	StatusMatchAbandoned    MatchStatus = "abandoned"
)

// InningsStatus is the innings lifecycle state.
type InningsStatus string

const (
	InningsNotStarted InningsStatus = "not_started"
	InningsInProgress InningsStatus = "in_progress"
	InningsCompleted  InningsStatus = "completed"
)

// DismissalType for cricket wickets.
type DismissalType string

const (
	DismissalTypeBowled      DismissalType = "bowled"
	DismissalTypeCaught      DismissalType = "caught"
	DismissalTypeLBW         DismissalType = "lbw"
	DismissalTypeRunOut      DismissalType = "run_out"
	DismissalTypeStumped     DismissalType = "stumped"
	DismissalTypeHitWicket   DismissalType = "hit_wicket"
	DismissalTypeHandledBall DismissalType = "handled_ball"
	DismissalTypeObstructing DismissalType = "obstructing_the_field"
	DismissalTypeTimedOut    DismissalType = "timed_out"
	DismissalTypeRetiredHurt DismissalType = "retired_hurt"
	DismissalTypeRetiredOut  DismissalType = "retired_out"
)

// BowlerCredited reports whether a dismissal type counts as a wicket for the
// bowler. Run-outs, retirements, timed-out and obstruction do not.
func BowlerCredited(d DismissalType) bool {
	switch d {
	case DismissalTypeBowled, DismissalTypeCaught, DismissalTypeLBW,
		DismissalTypeStumped, DismissalTypeHitWicket:
		return true
	}
	return false
}

// ExtraType for runs not scored off the bat.
type ExtraType string

const (
	ExtraNone    ExtraType = ""
	ExtraWide    ExtraType = "wide"
	ExtraNoBall  ExtraType = "no_ball"
	ExtraBye     ExtraType = "bye"
	ExtraLegBye  ExtraType = "leg_bye"
	ExtraPenalty ExtraType = "penalty"
)

// TossDecision is what the toss winner elected to do.
type TossDecision string

const (
	TossDecisionBat  TossDecision = "bat"
	TossDecisionBowl TossDecision = "bowl"
)

// MatchConfig is the rule set for one match. Immutable once the match is
// created.
type MatchConfig struct {
	Format            string `json:"format" validate:"required"`
	OversPerInnings   int    `json:"overs_per_innings" validate:"required,min=1,max=90"`
	PlayersPerSide    int    `json:"players_per_side" validate:"required,min=2,max=11"`
	PowerplayOvers    []int  `json:"powerplay_overs,omitempty"`
	MaxOversPerBowler int    `json:"max_overs_per_bowler,omitempty" validate:"min=0"`
	RedeliverWide     bool   `json:"redeliver_wide"`
	RedeliverNoBall   bool   `json:"redeliver_no_ball"`
	FreeHitOnNoBall   bool   `json:"free_hit_on_no_ball"`
	SuperOverOnTie    bool   `json:"super_over_on_tie"`
}

// IsPowerplayOver reports whether the 1-indexed over number lies in a
// configured powerplay window.
func (c MatchConfig) IsPowerplayOver(over int) bool {
	for _, n := range c.PowerplayOvers {
		if n == over {
			return true
		}
	}
	return false
}

// LastPowerplayOver returns the highest configured powerplay over, or 0.
func (c MatchConfig) LastPowerplayOver() int {
	last := 0
	for _, n := range c.PowerplayOvers {
		if n > last {
			last = n
		}
	}
	return last
}

// TeamRoster is one side's lineup for the match.
type TeamRoster struct {
	TeamID  uint   `json:"team_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Players []uint `json:"players" validate:"required,min=2"`
}

// HasPlayer reports whether the roster contains the player.
func (t TeamRoster) HasPlayer(id uint) bool {
	for _, p := range t.Players {
		if p == id {
			return true
		}
	}
	return false
}

// TossResult records who won the toss and what they chose.
type TossResult struct {
	WinnerTeamID uint         `json:"winner_team_id"`
	Decision     TossDecision `json:"decision"`
}

// MatchResult is the final outcome of a completed match.
type MatchResult struct {
	WinnerTeamID uint   `json:"winner_team_id,omitempty"`
	Tie          bool   `json:"tie,omitempty"`
	WonBy        string `json:"won_by,omitempty"` // "runs" or "wickets"
	Margin       int    `json:"margin,omitempty"`
	Summary      string `json:"summary"`
}

// Match is one scored match. Owned exclusively by the Lifecycle; callers see
// it only through query snapshots.
type Match struct {
	ID             string           `json:"id"`
	Config         MatchConfig      `json:"config"`
	Status         MatchStatus      `json:"status"`
	TeamA          TeamRoster       `json:"team_a"`
	TeamB          TeamRoster       `json:"team_b"`
	Toss           *TossResult      `json:"toss,omitempty"`
	CurrentInnings int              `json:"current_innings"` // 1 or 2, 0 before start
	Innings        [2]*Innings      `json:"innings"`
	Result         *MatchResult     `json:"result,omitempty"`
	Events         []*DeliveryEvent `json:"events"`
	CreatedAt      time.Time        `json:"created_at"`
	StartedAt      *time.Time       `json:"started_at,omitempty"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
}

// Roster returns the roster for a team id.
func (m *Match) Roster(teamID uint) *TeamRoster {
	if m.TeamA.TeamID == teamID {
		return &m.TeamA
	}
	if m.TeamB.TeamID == teamID {
		return &m.TeamB
	}
	return nil
}

// OtherTeam returns the id of the opposing team.
func (m *Match) OtherTeam(teamID uint) uint {
	if m.TeamA.TeamID == teamID {
		return m.TeamB.TeamID
	}
	return m.TeamA.TeamID
}

// InningsByNumber returns the innings with the given number (1 or 2), or nil.
func (m *Match) InningsByNumber(n int) *Innings {
	if n < 1 || n > 2 {
		return nil
	}
	return m.Innings[n-1]
}

// ActiveEvents returns the non-deleted event log in order.
func (m *Match) ActiveEvents() []*DeliveryEvent {
	out := make([]*DeliveryEvent, 0, len(m.Events))
	for _, ev := range m.Events {
		if !ev.Deleted {
			out = append(out, ev)
		}
	}
	return out
}

// ExtrasBreakdown accumulates an innings' extras per type.
type ExtrasBreakdown struct {
	Wides     int `json:"wides"`
	NoBalls   int `json:"no_balls"`
	Byes      int `json:"byes"`
	LegByes   int `json:"leg_byes"`
	Penalties int `json:"penalties"`
	Total     int `json:"total"`
}

// Over is one over's delivery bucket, including illegal deliveries.
type Over struct {
	Number     int              `json:"number"` // 1-indexed
	Deliveries []*DeliveryEvent `json:"deliveries"`
}

// Innings holds one innings' full scoring state. It is purely a left-fold
// over the ordered, non-deleted delivery events of that innings.
type Innings struct {
	Number        int           `json:"number"`
	BattingTeamID uint          `json:"batting_team_id"`
	BowlingTeamID uint          `json:"bowling_team_id"`
	Status        InningsStatus `json:"status"`

	Runs           int             `json:"runs"`
	Wickets        int             `json:"wickets"`
	OversCompleted int             `json:"overs_completed"`
	BallsInOver    int             `json:"balls_in_over"` // 0..5
	Extras         ExtrasBreakdown `json:"extras"`
	RunRate        float64         `json:"run_rate"`

	StrikerID    uint `json:"striker_id"`
	NonStrikerID uint `json:"non_striker_id"`
	BowlerID     uint `json:"bowler_id"`
	LastBowlerID uint `json:"last_bowler_id"` // bowler of the previous over

	Batsmen      map[uint]*BatsmanStats `json:"batsmen"`
	Bowlers      map[uint]*BowlerStats  `json:"bowlers"`
	Partnerships []*Partnership         `json:"partnerships"`
	FallOfWicket []FallOfWicket         `json:"fall_of_wickets"`
	Overs        []*Over                `json:"overs"`

	// BattingOrder records the openers followed by every replacement batsman
	// in arrival order; BowlerOrder records the bowler assigned to each over
	// in order. Replay consumes both to reconstruct the non-delivery calls
	// (new batsman, bowler change) that shaped the innings.
	BattingOrder []uint `json:"batting_order"`
	BowlerOrder  []uint `json:"bowler_order"`

	// Chase fields, second innings only.
	Target          int     `json:"target,omitempty"`
	RequiredRuns    int     `json:"required_runs,omitempty"`
	BallsRemaining  int     `json:"balls_remaining,omitempty"`
	RequiredRunRate float64 `json:"required_run_rate,omitempty"`
}

// OversDisplay renders the innings' progress as "18.4".
func (i *Innings) OversDisplay() string {
	return overs.Display(i.OversCompleted, i.BallsInOver)
}

// LegalBalls returns the total legal deliveries bowled so far.
func (i *Innings) LegalBalls() int {
	return i.OversCompleted*overs.BallsPerOver + i.BallsInOver
}

// ActivePartnership returns the currently active partnership, or nil.
func (i *Innings) ActivePartnership() *Partnership {
	for _, p := range i.Partnerships {
		if p.Active {
			return p
		}
	}
	return nil
}

// CurrentOver returns the bucket for the over currently in progress,
// creating it if this is the over's first delivery.
func (i *Innings) CurrentOver() *Over {
	number := i.OversCompleted + 1
	if n := len(i.Overs); n > 0 && i.Overs[n-1].Number == number {
		return i.Overs[n-1]
	}
	o := &Over{Number: number}
	i.Overs = append(i.Overs, o)
	return o
}

// Batsman returns the stats entry for a batsman, creating it on first sight.
func (i *Innings) Batsman(id uint) *BatsmanStats {
	if b, ok := i.Batsmen[id]; ok {
		return b
	}
	b := &BatsmanStats{PlayerID: id}
	i.Batsmen[id] = b
	return b
}

// Bowler returns the stats entry for a bowler, creating it on first sight.
func (i *Innings) Bowler(id uint) *BowlerStats {
	if b, ok := i.Bowlers[id]; ok {
		return b
	}
	b := &BowlerStats{PlayerID: id}
	i.Bowlers[id] = b
	return b
}

// DismissalDetail records how a batsman got out.
type DismissalDetail struct {
	Type      DismissalType `json:"type"`
	BowlerID  uint          `json:"bowler_id"`
	FielderID *uint         `json:"fielder_id,omitempty"`
}

// BatsmanStats is one batsman's innings line.
type BatsmanStats struct {
	PlayerID   uint             `json:"player_id"`
	Runs       int              `json:"runs"`
	BallsFaced int              `json:"balls_faced"`
	Fours      int              `json:"fours"`
	Sixes      int              `json:"sixes"`
	StrikeRate float64          `json:"strike_rate"`
	Out        bool             `json:"out"`
	Dismissal  *DismissalDetail `json:"dismissal,omitempty"`
}

func (b *BatsmanStats) recomputeStrikeRate() {
	if b.BallsFaced == 0 {
		b.StrikeRate = 0
		return
	}
	b.StrikeRate = float64(b.Runs) / float64(b.BallsFaced) * 100
}

// BowlerStats is one bowler's innings figures.
type BowlerStats struct {
	PlayerID       uint    `json:"player_id"`
	OversCompleted int     `json:"overs_completed"`
	BallsInOver    int     `json:"balls_in_over"` // 0..5
	Maidens        int     `json:"maidens"`
	RunsConceded   int     `json:"runs_conceded"`
	Wickets        int     `json:"wickets"`
	Economy        float64 `json:"economy"`
	Wides          int     `json:"wides"`
	NoBalls        int     `json:"no_balls"`
	DotBalls       int     `json:"dot_balls"`
}

func (b *BowlerStats) recomputeEconomy() {
	b.Economy = overs.RunRate(b.RunsConceded, b.OversCompleted, b.BallsInOver)
}

// OversDisplay renders the bowler's figures as "3.4".
func (b *BowlerStats) OversDisplay() string {
	return overs.Display(b.OversCompleted, b.BallsInOver)
}

// Partnership is the stand between two batsmen. Exactly one partnership is
// active per innings while the innings is in progress.
type Partnership struct {
	BatsmanA   uint `json:"batsman_a"`
	BatsmanB   uint `json:"batsman_b"`
	Runs       int  `json:"runs"`
	Balls      int  `json:"balls"`
	StartScore int  `json:"start_score"`
	EndScore   int  `json:"end_score"`
	Active     bool `json:"active"`
}

// FallOfWicket records the score and over at which a wicket fell.
type FallOfWicket struct {
	WicketNumber int           `json:"wicket_number"`
	Score        int           `json:"score"`
	Over         string        `json:"over"` // "18.4"
	PlayerOutID  uint          `json:"player_out_id"`
	Dismissal    DismissalType `json:"dismissal"`
}

// WicketDetail is the wicket portion of a delivery submission.
type WicketDetail struct {
	Type        DismissalType `json:"type" validate:"required,oneof=bowled caught lbw run_out stumped hit_wicket handled_ball obstructing_the_field timed_out retired_hurt retired_out"`
	PlayerOutID uint          `json:"player_out_id" validate:"required"`
	FielderID   *uint         `json:"fielder_id,omitempty"`
}

// DeliveryContext is the snapshot stamped on an event at the moment the ball
// was bowled, before any mutation.
type DeliveryContext struct {
	ScoreBefore      int     `json:"score_before"`
	WicketsBefore    int     `json:"wickets_before"`
	RunRate          float64 `json:"run_rate"`
	RequiredRunRate  float64 `json:"required_run_rate,omitempty"`
	PartnershipRuns  int     `json:"partnership_runs"`
	Powerplay        bool    `json:"powerplay"`
	FreeHit          bool    `json:"free_hit"`
}

// DeliveryPayload is what happened on the ball.
type DeliveryPayload struct {
	RunsOffBat int           `json:"runs_off_bat"`
	IsFour     bool          `json:"is_four"`
	IsSix      bool          `json:"is_six"`
	IsDot      bool          `json:"is_dot"`
	Extra      ExtraType     `json:"extra,omitempty"`
	ExtraRuns  int           `json:"extra_runs,omitempty"`
	Legal      bool          `json:"legal"`
	Wicket     *WicketDetail `json:"wicket,omitempty"`
	Shot       string        `json:"shot,omitempty"`
}

// TotalRuns is the runs added to the innings by this delivery.
func (p DeliveryPayload) TotalRuns() int {
	return p.RunsOffBat + p.ExtraRuns
}

// DeliveryEvent is one appended log entry. Immutable once appended except
// for the Deleted flag used by undo.
type DeliveryEvent struct {
	ID            string          `json:"id"`
	MatchID       string          `json:"match_id"`
	InningsNumber int             `json:"innings_number"`
	OverNumber    int             `json:"over_number"` // 1-indexed
	BallNumber    int             `json:"ball_number"` // legal-ball slot within the over, 1-indexed
	StrikerID     uint            `json:"striker_id"`
	NonStrikerID  uint            `json:"non_striker_id"`
	BowlerID      uint            `json:"bowler_id"`
	Context       DeliveryContext `json:"context"`
	Payload       DeliveryPayload `json:"payload"`
	Source        string          `json:"source,omitempty"`
	Sequence      *int            `json:"sequence,omitempty"`
	Deleted       bool            `json:"deleted"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DeliveryInput is a delivery submission as received from the outside.
type DeliveryInput struct {
	MatchID       string        `json:"match_id" validate:"required"`
	InningsNumber int           `json:"innings_number" validate:"required,min=1,max=2"`
	StrikerID     uint          `json:"striker_id" validate:"required"`
	NonStrikerID  uint          `json:"non_striker_id" validate:"required"`
	BowlerID      uint          `json:"bowler_id" validate:"required"`
	RunsOffBat    int           `json:"runs_off_bat" validate:"min=0,max=6"`
	IsFour        bool          `json:"is_four"`
	IsSix         bool          `json:"is_six"`
	Extra         ExtraType     `json:"extra,omitempty" validate:"omitempty,oneof=wide no_ball bye leg_bye penalty"`
	ExtraRuns     int           `json:"extra_runs" validate:"min=0,max=7"`
	Wicket        *WicketDetail `json:"wicket,omitempty"`
	Shot          string        `json:"shot,omitempty"`
	Source        string        `json:"source,omitempty"`
	Sequence      *int          `json:"sequence,omitempty"`
}
