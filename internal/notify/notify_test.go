package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := &Collector{}
	c.Dispatch(New(KindBallApplied, "m1", nil))
	c.Dispatch(Commentary("m1", TagSix, map[string]interface{}{"striker_id": uint(4)}))
	c.Dispatch(Commentary("m1", TagWicket, nil))
	c.Dispatch(New(KindMatchEnded, "m1", nil))

	require.Len(t, c.Notifications, 4)
	require.Len(t, c.ByKind(KindCommentary), 2)
	require.Len(t, c.ByTag(TagSix), 1)
	require.Empty(t, c.ByTag(TagBoundary))
	require.Equal(t, uint(4), c.ByTag(TagSix)[0].Fields["striker_id"])
}

func TestFanout(t *testing.T) {
	a, b := &Collector{}, &Collector{}
	f := Fanout{a, b}
	f.Dispatch(New(KindInningsStarted, "m1", nil))

	require.Len(t, a.Notifications, 1)
	require.Len(t, b.Notifications, 1)
	require.False(t, a.Notifications[0].At.IsZero())
}
