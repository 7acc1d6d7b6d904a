package reconcile

import (
	"math"
	"sort"
	"strings"

	"github.com/ecelearn/hybrid-analytics/models"
)

// The four reconciliation views each re-derive their inputs independently, so
// a failure in one cannot propagate into another. Every view returns a
// correctly shaped, non-nil slice even when the snapshot is empty.

// BuildFunnel counts distinct users, distinct visits and raw instances per
// declared funnel stage. The output always has one row per stage, in declared
// order, zero-filled where the data has no events.
func BuildFunnel(events []models.RawEvent) []models.FunnelRow {
	type bucket struct {
		users  []string
		visits []int64
		count  int
	}
	buckets := make(map[string]*bucket, len(FunnelStages))
	for _, stage := range FunnelStages {
		buckets[stage] = &bucket{}
	}

	for _, ev := range events {
		stage, ok := ClassifyStage(ev.ActionName)
		if !ok {
			continue
		}
		b := buckets[stage]
		b.users = append(b.users, ev.UserID)
		b.visits = append(b.visits, ev.VisitID)
		b.count++
	}

	rows := make([]models.FunnelRow, 0, len(FunnelStages))
	for _, stage := range FunnelStages {
		b := buckets[stage]
		rows = append(rows, models.FunnelRow{
			Stage:          stage,
			DistinctUsers:  CountDistinctIgnoreBlank(b.users),
			DistinctVisits: CountDistinctInt64(b.visits),
			InstanceCount:  b.count,
		})
	}
	return rows
}

// BuildGameFunnel is the per-game breakdown of the funnel, dense over the
// declared stages for every game observed in the snapshot.
func BuildGameFunnel(events []models.RawEvent, registry *Registry) []models.GameFunnelRow {
	type bucket struct {
		users  []string
		visits []int64
		count  int
	}
	type gameStage struct {
		gameID int64
		stage  string
	}
	buckets := make(map[gameStage]*bucket)
	gameIDs := make(map[int64]struct{})

	for _, ev := range events {
		stage, ok := ClassifyStage(ev.ActionName)
		if !ok {
			continue
		}
		gameIDs[ev.GameID] = struct{}{}
		k := gameStage{gameID: ev.GameID, stage: stage}
		b := buckets[k]
		if b == nil {
			b = &bucket{}
			buckets[k] = b
		}
		b.users = append(b.users, ev.UserID)
		b.visits = append(b.visits, ev.VisitID)
		b.count++
	}

	ids := make([]int64, 0, len(gameIDs))
	for id := range gameIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return registry.DisplayName(ids[i]) < registry.DisplayName(ids[j])
	})

	rows := make([]models.GameFunnelRow, 0, len(ids)*len(FunnelStages))
	for _, id := range ids {
		for _, stage := range FunnelStages {
			row := models.GameFunnelRow{Game: registry.DisplayName(id), Stage: stage}
			if b := buckets[gameStage{gameID: id, stage: stage}]; b != nil {
				row.DistinctUsers = CountDistinctIgnoreBlank(b.users)
				row.DistinctVisits = CountDistinctInt64(b.visits)
				row.InstanceCount = b.count
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// BuildScoreDistribution counts distinct users per (game, score). A user who
// replays a game contributes once per distinct score achieved, not once per
// play.
func BuildScoreDistribution(scores []models.ScoreRecord, registry *Registry) []models.ScoreDistributionRow {
	type gameScore struct {
		gameID int64
		score  int
	}
	users := make(map[gameScore][]string)
	for _, s := range scores {
		k := gameScore{gameID: s.GameID, score: s.TotalScore}
		users[k] = append(users[k], s.UserID)
	}

	keys := make([]gameScore, 0, len(users))
	for k := range users {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		an, bn := registry.DisplayName(a.gameID), registry.DisplayName(b.gameID)
		if an != bn {
			return an < bn
		}
		return a.score < b.score
	})

	rows := make([]models.ScoreDistributionRow, 0, len(keys))
	for _, k := range keys {
		count := CountDistinctIgnoreBlank(users[k])
		if count == 0 {
			continue
		}
		rows = append(rows, models.ScoreDistributionRow{
			Game:      registry.DisplayName(k.gameID),
			Score:     k.score,
			UserCount: count,
		})
	}
	return rows
}

// BuildQuestionCorrectness reports, per (game, question, correctness), the
// distinct users answering that way and their share of all distinct users who
// answered the question.
func BuildQuestionCorrectness(records []models.CorrectnessRecord, registry *Registry) []models.QuestionCorrectnessRow {
	type question struct {
		gameID int64
		number int
	}
	type split struct {
		question
		correct bool
	}
	byQuestion := make(map[question][]string)
	bySplit := make(map[split][]string)

	for _, r := range records {
		q := question{gameID: r.GameID, number: r.QuestionNumber}
		byQuestion[q] = append(byQuestion[q], r.UserID)
		s := split{question: q, correct: r.IsCorrect}
		bySplit[s] = append(bySplit[s], r.UserID)
	}

	keys := make([]split, 0, len(bySplit))
	for k := range bySplit {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		an, bn := registry.DisplayName(a.gameID), registry.DisplayName(b.gameID)
		if an != bn {
			return an < bn
		}
		if a.number != b.number {
			return a.number < b.number
		}
		return a.correct && !b.correct // Correct before Incorrect
	})

	rows := make([]models.QuestionCorrectnessRow, 0, len(keys))
	for _, k := range keys {
		total := CountDistinctIgnoreBlank(byQuestion[k.question])
		count := CountDistinctIgnoreBlank(bySplit[k])
		if count == 0 {
			continue
		}
		denominator := total
		if denominator == 0 {
			denominator = 1
		}
		correctness := "Incorrect"
		if k.correct {
			correctness = "Correct"
		}
		rows = append(rows, models.QuestionCorrectnessRow{
			Game:           registry.DisplayName(k.gameID),
			QuestionNumber: k.number,
			Correctness:    correctness,
			UserCount:      count,
			TotalUsers:     total,
			Percent:        math.Round(float64(count)/float64(denominator)*100*100) / 100,
		})
	}
	return rows
}

// BuildRepeatability histograms, over completed-stage events only, how many
// users played exactly N distinct games. The histogram is dense: every count
// from 1 to the observed maximum gets a row, gaps filled with zero.
func BuildRepeatability(events []models.RawEvent) []models.RepeatabilityRow {
	gamesByUser := make(map[string]map[int64]struct{})
	for _, ev := range events {
		stage, ok := ClassifyStage(ev.ActionName)
		if !ok || stage != "completed" {
			continue
		}
		if strings.TrimSpace(ev.UserID) == "" {
			// blank users are excluded from the count, same as everywhere else
			continue
		}
		if gamesByUser[ev.UserID] == nil {
			gamesByUser[ev.UserID] = make(map[int64]struct{})
		}
		gamesByUser[ev.UserID][ev.GameID] = struct{}{}
	}

	histogram := make(map[int]int)
	max := 0
	for _, games := range gamesByUser {
		n := len(games)
		histogram[n]++
		if n > max {
			max = n
		}
	}

	rows := make([]models.RepeatabilityRow, 0, max)
	for n := 1; n <= max; n++ {
		rows = append(rows, models.RepeatabilityRow{GamesPlayed: n, UserCount: histogram[n]})
	}
	return rows
}
