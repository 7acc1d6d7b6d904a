package reconcile

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ecelearn/hybrid-analytics/metrics"
	"github.com/ecelearn/hybrid-analytics/models"
)

// Engine turns a closed snapshot of raw events into normalized correctness
// and score records. A run is a single-threaded batch pass; every group of
// events is independent, and nothing in one group's processing can abort a
// sibling group.
type Engine struct {
	registry  *Registry
	segmenter Segmenter
}

// NewEngine builds an engine over the given registry and session gap. A
// non-positive gap falls back to DefaultSessionGap.
func NewEngine(registry *Registry, gap time.Duration) *Engine {
	return &Engine{registry: registry, segmenter: NewSegmenter(gap)}
}

// Registry exposes the engine's game reference table to the views.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Result holds the derived records of one reconciliation run. Both slices
// are sorted deterministically, so re-running over the same snapshot yields
// identical output.
type Result struct {
	Correctness []models.CorrectnessRecord
	Scores      []models.ScoreRecord
}

// groupKey identifies one (user, game, visit) stream of events.
type groupKey struct {
	UserID  string
	GameID  int64
	VisitID int64
}

// sessionKey identifies one inferred play-through within a group.
type sessionKey struct {
	groupKey
	Instance int
}

// Reconcile classifies, segments, parses and scores the snapshot. Groups
// whose game has no registered mechanic are skipped entirely; sessions that
// produced no parsed records yield no score record. Per-session totals count
// distinct correct question numbers (duplicate arrivals for the same question
// are collapsed, and a correct arrival wins) and are clamped to the game's
// max score when one is set.
func (e *Engine) Reconcile(events []models.RawEvent) Result {
	defer metrics.ReconciliationRuns.Inc()

	groups := make(map[groupKey][]models.RawEvent)
	for _, ev := range events {
		k := groupKey{UserID: ev.UserID, GameID: ev.GameID, VisitID: ev.VisitID}
		groups[k] = append(groups[k], ev)
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		return a.VisitID < b.VisitID
	})

	var result Result
	for _, k := range keys {
		mechanic, ok := e.registry.MechanicFor(k.GameID)
		if !ok {
			metrics.UnclassifiedGames.Inc()
			log.Debug().Int64("game_id", k.GameID).Msg("skipping group: game has no registered mechanic")
			continue
		}
		e.reconcileGroup(k, mechanic, groups[k], &result)
	}
	return result
}

func (e *Engine) reconcileGroup(k groupKey, mechanic models.Mechanic, events []models.RawEvent, result *Result) {
	segmented := e.segmenter.Segment(events)

	// per-session sequential counters for mechanics without explicit numbers
	counters := make(map[sessionKey]int)
	// per-session correctness by question number, duplicates collapsed
	sessions := make(map[sessionKey]map[int]bool)
	order := []sessionKey{}

	for _, ev := range segmented {
		answers, reason := ParsePayload(mechanic, ev.Payload)
		if reason != ParseOK {
			metrics.MalformedPayloads.WithLabelValues(string(reason)).Inc()
			log.Debug().
				Int64("event_id", ev.EventID).
				Int64("game_id", ev.GameID).
				Str("reason", string(reason)).
				Msg("payload produced no correctness records")
			continue
		}

		sk := sessionKey{groupKey: k, Instance: ev.SessionInstance}
		if _, ok := sessions[sk]; !ok {
			sessions[sk] = make(map[int]bool)
			order = append(order, sk)
		}

		for _, ans := range answers {
			qn := ans.QuestionNumber
			if !ans.HasNumber {
				// action-level events embed the level number in the action
				// name; all other unnumbered answers take the per-session
				// sequential counter
				if n, ok := ExtractLevelNumber(ev.ActionName); ok && mechanic == models.MechanicActionLevel {
					qn = n
				} else {
					counters[sk]++
					qn = counters[sk]
				}
			}

			result.Correctness = append(result.Correctness, models.CorrectnessRecord{
				GameID:          k.GameID,
				UserID:          k.UserID,
				VisitID:         k.VisitID,
				SessionInstance: ev.SessionInstance,
				QuestionNumber:  qn,
				IsCorrect:       ans.IsCorrect,
			})
			if ans.IsCorrect {
				sessions[sk][qn] = true
			} else if _, seen := sessions[sk][qn]; !seen {
				sessions[sk][qn] = false
			}
		}
	}

	game, _ := e.registry.Game(k.GameID)
	for _, sk := range order {
		total := 0
		for _, correct := range sessions[sk] {
			if correct {
				total++
			}
		}
		if game.MaxScore > 0 && total > game.MaxScore {
			total = game.MaxScore
		}
		result.Scores = append(result.Scores, models.ScoreRecord{
			UserID:          sk.UserID,
			GameID:          sk.GameID,
			VisitID:         sk.VisitID,
			SessionInstance: sk.Instance,
			TotalScore:      total,
		})
	}
}
