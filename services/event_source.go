package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/ecelearn/hybrid-analytics/models"
)

// EventSource is the boundary to the external event-log collaborator. It
// delivers RawEvent-shaped rows from the upstream gameplay log and the static
// game reference table. All queries are read-only.
type EventSource struct {
	db *sql.DB
}

func NewEventSource(db *sql.DB) *EventSource {
	return &EventSource{db: db}
}

// FetchEvents loads the full event snapshot for one reconciliation run.
// Timestamps are shifted to the reporting timezone (+5h30m, a deployment
// constant of the upstream log) here at the boundary, so the engine only ever
// sees pre-adjusted times. Duplicate event IDs from at-least-once upstream
// delivery are collapsed, keeping the earliest arrival.
func (s *EventSource) FetchEvents(ctx context.Context) ([]models.RawEvent, error) {
	query := `
		SELECT
			event_id,
			COALESCE(user_id, ''),
			visit_id,
			game_id,
			action_name,
			COALESCE(payload, ''),
			occurred_at + INTERVAL '330 minutes'
		FROM game_events
		ORDER BY occurred_at
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying game events: %w", err)
	}
	defer rows.Close()

	var events []models.RawEvent
	seen := make(map[int64]struct{})
	for rows.Next() {
		var ev models.RawEvent
		err = rows.Scan(&ev.EventID, &ev.UserID, &ev.VisitID, &ev.GameID, &ev.ActionName, &ev.Payload, &ev.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("scanning game event: %w", err)
		}
		// rows are time-ordered, so the first occurrence is the earliest
		if _, dup := seen[ev.EventID]; dup {
			continue
		}
		seen[ev.EventID] = struct{}{}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading game events: %w", err)
	}
	return events, nil
}

// FetchGames loads the game reference table. Games with an unknown mechanic
// label are returned as-is; the registry simply never resolves them, which
// excludes them from the score views without failing the run.
func (s *EventSource) FetchGames(ctx context.Context) ([]models.Game, error) {
	query := `
		SELECT id, display_name, mechanic, COALESCE(max_score, 0)
		FROM games
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		var g models.Game
		var mechanic string
		err = rows.Scan(&g.ID, &g.DisplayName, &mechanic, &g.MaxScore)
		if err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		g.Mechanic = models.Mechanic(mechanic)
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading games: %w", err)
	}

	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, nil
}
