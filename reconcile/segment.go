package reconcile

import (
	"sort"
	"time"

	"github.com/ecelearn/hybrid-analytics/models"
)

// DefaultSessionGap is the timing gap that starts a new session instance.
// The upstream log has no explicit "new play" marker, so replays of a game
// within one visit are inferred from this gap. It is a design parameter, not
// a protocol guarantee; override via SESSION_GAP_SECONDS.
const DefaultSessionGap = 300 * time.Second

// SessionEvent is a raw event annotated with its inferred session instance.
type SessionEvent struct {
	models.RawEvent
	SessionInstance int
}

// Segmenter clusters a (user, game, visit) group's events into session
// instances by timing gap.
type Segmenter struct {
	gap time.Duration
}

// NewSegmenter returns a segmenter with the given gap threshold; a
// non-positive gap falls back to DefaultSessionGap.
func NewSegmenter(gap time.Duration) Segmenter {
	if gap <= 0 {
		gap = DefaultSessionGap
	}
	return Segmenter{gap: gap}
}

// Segment assigns session instances to the events of a single
// (user, game, visit) group. Events are sorted by occurrence time; the
// instance starts at 1 and increments exactly when the gap to the previous
// event exceeds the threshold. The input slice is not modified.
func (s Segmenter) Segment(events []models.RawEvent) []SessionEvent {
	ordered := make([]models.RawEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
	})

	out := make([]SessionEvent, 0, len(ordered))
	instance := 1
	var prev time.Time
	for i, ev := range ordered {
		if i > 0 && ev.OccurredAt.Sub(prev) > s.gap {
			instance++
		}
		prev = ev.OccurredAt
		out = append(out, SessionEvent{RawEvent: ev, SessionInstance: instance})
	}
	return out
}
