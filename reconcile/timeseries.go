package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/ecelearn/hybrid-analytics/models"
)

// allGames is the rollup label for the time series across every game.
const allGames = "All Games"

// timeSeriesEvent collapses the funnel stages into the two states the time
// series tracks.
func timeSeriesEvent(actionName string) (string, bool) {
	stage, ok := ClassifyStage(actionName)
	if !ok {
		return "", false
	}
	switch stage {
	case "started":
		return "Started", true
	case "completed":
		return "Completed", true
	}
	return "", false
}

// mondayWeek returns the week-of-year with Monday as the first day of the
// week; days before the year's first Monday fall into week 0.
func mondayWeek(t time.Time) int {
	weekday := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return (t.YearDay() + 6 - weekday) / 7
}

// periodLabels returns the day, week and month labels for a timestamp. The
// reporting week starts on Wednesday, so timestamps are shifted back two days
// before the week number is taken.
func periodLabels(t time.Time) (day, week, month string) {
	day = t.Format("2006-01-02")
	month = fmt.Sprintf("%d_%02d", t.Year(), int(t.Month()))
	shifted := t.AddDate(0, 0, -2)
	week = fmt.Sprintf("%d_%02d", shifted.Year(), mondayWeek(shifted))
	return day, week, month
}

// BuildTimeSeries produces daily, weekly and monthly counts of distinct
// instances, visits and users per game, split by Started/Completed, plus an
// "All Games" rollup per period.
func BuildTimeSeries(events []models.RawEvent, registry *Registry) []models.TimeSeriesRow {
	type cell struct {
		periodType string
		label      string
		game       string
		event      string
	}
	type bucket struct {
		instances []int64
		visits    []int64
		users     []string
	}
	buckets := make(map[cell]*bucket)

	add := func(c cell, ev models.RawEvent) {
		b := buckets[c]
		if b == nil {
			b = &bucket{}
			buckets[c] = b
		}
		b.instances = append(b.instances, ev.EventID)
		b.visits = append(b.visits, ev.VisitID)
		b.users = append(b.users, ev.UserID)
	}

	for _, ev := range events {
		event, ok := timeSeriesEvent(ev.ActionName)
		if !ok {
			continue
		}
		day, week, month := periodLabels(ev.OccurredAt)
		game := registry.DisplayName(ev.GameID)
		for _, p := range []struct{ periodType, label string }{
			{"Day", day}, {"Week", week}, {"Month", month},
		} {
			add(cell{periodType: p.periodType, label: p.label, game: game, event: event}, ev)
			add(cell{periodType: p.periodType, label: p.label, game: allGames, event: event}, ev)
		}
	}

	cells := make([]cell, 0, len(buckets))
	for c := range buckets {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		a, b := cells[i], cells[j]
		if a.periodType != b.periodType {
			return a.periodType < b.periodType
		}
		if a.label != b.label {
			return a.label < b.label
		}
		if a.game != b.game {
			return a.game < b.game
		}
		return a.event < b.event
	})

	rows := make([]models.TimeSeriesRow, 0, len(cells)*3)
	for _, c := range cells {
		b := buckets[c]
		for _, m := range []struct {
			name  string
			count int
		}{
			{"instances", CountDistinctInt64(b.instances)},
			{"visits", CountDistinctInt64(b.visits)},
			{"users", CountDistinctIgnoreBlank(b.users)},
		} {
			rows = append(rows, models.TimeSeriesRow{
				PeriodType:  c.periodType,
				PeriodLabel: c.label,
				Game:        c.game,
				Event:       c.event,
				Metric:      m.name,
				Count:       m.count,
			})
		}
	}
	return rows
}
