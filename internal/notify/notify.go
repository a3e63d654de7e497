// Package notify defines the outbound notification records the scoring core
// produces and the dispatcher boundary the host system plugs its transport
// into (pub/sub, direct callback, queue). Delivery is fire-and-forget with
// respect to the state change that produced a notification: a dispatcher
// must never fail the scoring call.
package notify

import (
	"time"

	"github.com/rs/zerolog"
)

// Notification kinds.
const (
	KindBallApplied    = "ball.applied"
	KindInningsStarted = "innings.started"
	KindInningsEnded   = "innings.ended"
	KindMatchEnded     = "match.ended"
	KindCommentary     = "commentary.trigger"
	KindTokenRewards   = "token.rewards"
)

// CommentaryTag identifies a commentary template trigger.
type CommentaryTag string

const (
	TagBoundary        CommentaryTag = "boundary"
	TagSix             CommentaryTag = "six"
	TagWicket          CommentaryTag = "wicket"
	TagMaidenOver      CommentaryTag = "maiden_over"
	TagFifty           CommentaryTag = "fifty"
	TagHundred         CommentaryTag = "hundred"
	TagFiveWicketHaul  CommentaryTag = "five_wicket_haul"
	TagHatTrick        CommentaryTag = "hat_trick"
	TagPowerplayEnd    CommentaryTag = "powerplay_end"
	TagInningsEnd      CommentaryTag = "innings_end"
	TagMatchWon        CommentaryTag = "match_won"
	TagDotBallPressure CommentaryTag = "dot_ball_pressure"
)

// Notification is one outbound record. Tag and Fields are set for commentary
// triggers; Data carries the kind-specific payload (delivery event plus
// innings snapshot, lifecycle summary, reward list).
type Notification struct {
	Kind    string                 `json:"kind"`
	MatchID string                 `json:"match_id"`
	Tag     CommentaryTag          `json:"tag,omitempty"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
	Data    interface{}            `json:"data,omitempty"`
	At      time.Time              `json:"at"`
}

// New builds a notification of the given kind.
func New(kind, matchID string, data interface{}) Notification {
	return Notification{Kind: kind, MatchID: matchID, Data: data, At: time.Now().UTC()}
}

// Commentary builds a commentary trigger notification.
func Commentary(matchID string, tag CommentaryTag, fields map[string]interface{}) Notification {
	return Notification{
		Kind:    KindCommentary,
		MatchID: matchID,
		Tag:     tag,
		Fields:  fields,
		At:      time.Now().UTC(),
	}
}

// Dispatcher delivers notifications to the outside world. Implementations
// must be non-blocking from the caller's point of view and must swallow
// their own delivery failures.
type Dispatcher interface {
	Dispatch(n Notification)
}

// LogDispatcher renders every notification as a structured log event. It is
// the default sink when the host wires nothing else.
type LogDispatcher struct {
	Logger zerolog.Logger
}

func (d LogDispatcher) Dispatch(n Notification) {
	ev := d.Logger.Info().
		Str("kind", n.Kind).
		Str("match_id", n.MatchID)
	if n.Tag != "" {
		ev = ev.Str("tag", string(n.Tag))
	}
	if len(n.Fields) > 0 {
		ev = ev.Interface("fields", n.Fields)
	}
	if n.Data != nil {
		ev = ev.Interface("data", n.Data)
	}
	ev.Msg("notification")
}

// Fanout dispatches to every wrapped dispatcher in order.
type Fanout []Dispatcher

func (f Fanout) Dispatch(n Notification) {
	for _, d := range f {
		d.Dispatch(n)
	}
}

// Collector buffers notifications in memory. Used in tests and by the feed
// replay driver to inspect what a sequence of deliveries produced.
type Collector struct {
	Notifications []Notification
}

func (c *Collector) Dispatch(n Notification) {
	c.Notifications = append(c.Notifications, n)
}

// ByKind returns the collected notifications of one kind, in order.
func (c *Collector) ByKind(kind string) []Notification {
	var out []Notification
	for _, n := range c.Notifications {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// ByTag returns the collected commentary triggers with the given tag.
func (c *Collector) ByTag(tag CommentaryTag) []Notification {
	var out []Notification
	for _, n := range c.Notifications {
		if n.Kind == KindCommentary && n.Tag == tag {
			out = append(out, n)
		}
	}
	return out
}
