package reconcile

import (
	"fmt"

	"github.com/ecelearn/hybrid-analytics/models"
)

// Registry maps stable game identities to their scoring mechanic and
// parameters. Lookup is always by game ID, never by display name: the names
// observed in the log vary in casing, language suffixes and punctuation, and
// matching on them silently loses data.
type Registry struct {
	games map[int64]models.Game
}

// NewRegistry builds a registry from reference rows. Later rows with a
// duplicate ID overwrite earlier ones.
func NewRegistry(games []models.Game) *Registry {
	m := make(map[int64]models.Game, len(games))
	for _, g := range games {
		m[g.ID] = g
	}
	return &Registry{games: m}
}

// MechanicFor resolves the scoring mechanic for a game. The second return is
// false for games absent from the registry; such games produce no correctness
// records and are excluded from the score views only.
func (r *Registry) MechanicFor(gameID int64) (models.Mechanic, bool) {
	g, ok := r.games[gameID]
	if !ok {
		return "", false
	}
	switch g.Mechanic {
	case models.MechanicSelectionRounds, models.MechanicFlowGate, models.MechanicActionLevel:
		return g.Mechanic, true
	}
	// a reference row with an unrecognized mechanic label counts as unclassified
	return "", false
}

// Game returns the full reference row for a game.
func (r *Registry) Game(gameID int64) (models.Game, bool) {
	g, ok := r.games[gameID]
	return g, ok
}

// DisplayName returns the game's display name, or a placeholder for games
// missing from the registry so funnel and repeatability rows stay readable.
func (r *Registry) DisplayName(gameID int64) string {
	if g, ok := r.games[gameID]; ok {
		return g.DisplayName
	}
	return fmt.Sprintf("Game %d", gameID)
}

// actionLevelMaxScore is the number of questions in one play-through of an
// action-level game; per-session totals are clamped to it.
const actionLevelMaxScore = 12

// DefaultRegistry mirrors the deployed game reference table. It is used when
// the upstream source exposes no games table of its own.
func DefaultRegistry() *Registry {
	return NewRegistry([]models.Game{
		{ID: 12, DisplayName: "Shape Circle", Mechanic: models.MechanicActionLevel, MaxScore: actionLevelMaxScore},
		{ID: 24, DisplayName: "Color Red", Mechanic: models.MechanicActionLevel, MaxScore: actionLevelMaxScore},
		{ID: 28, DisplayName: "Shape Triangle", Mechanic: models.MechanicActionLevel, MaxScore: actionLevelMaxScore},
		{ID: 40, DisplayName: "Color Yellow", Mechanic: models.MechanicActionLevel, MaxScore: actionLevelMaxScore},
		{ID: 54, DisplayName: "Numbers I", Mechanic: models.MechanicActionLevel, MaxScore: actionLevelMaxScore},
		{ID: 56, DisplayName: "Numbers II", Mechanic: models.MechanicActionLevel, MaxScore: actionLevelMaxScore},
		{ID: 58, DisplayName: "Color Blue", Mechanic: models.MechanicActionLevel, MaxScore: actionLevelMaxScore},
		{ID: 60, DisplayName: "Shape Square", Mechanic: models.MechanicActionLevel, MaxScore: actionLevelMaxScore},
		{ID: 74, DisplayName: "Beginning Sound Ma Ka La Hindi", Mechanic: models.MechanicActionLevel, MaxScore: actionLevelMaxScore},
		{ID: 76, DisplayName: "Beginning Sound Ma Ka La Marathi", Mechanic: models.MechanicActionLevel, MaxScore: actionLevelMaxScore},
		{ID: 82, DisplayName: "Shape Rectangle", Mechanic: models.MechanicActionLevel, MaxScore: actionLevelMaxScore},
		{ID: 84, DisplayName: "Numerals 1-10", Mechanic: models.MechanicActionLevel, MaxScore: actionLevelMaxScore},

		{ID: 50, DisplayName: "Relational Comparison", Mechanic: models.MechanicSelectionRounds},
		{ID: 52, DisplayName: "Quantitative Comparison", Mechanic: models.MechanicSelectionRounds},
		{ID: 70, DisplayName: "Relational Comparison II", Mechanic: models.MechanicSelectionRounds},
		{ID: 72, DisplayName: "Number Comparison", Mechanic: models.MechanicSelectionRounds},
		{ID: 78, DisplayName: "Primary Emotion Labelling", Mechanic: models.MechanicSelectionRounds},
		{ID: 80, DisplayName: "Emotion Identification", Mechanic: models.MechanicSelectionRounds},
		{ID: 86, DisplayName: "Beginning Sound Pa Cha Sa Hindi", Mechanic: models.MechanicSelectionRounds},
		{ID: 88, DisplayName: "Beginning Sound Pa Cha Sa Marathi", Mechanic: models.MechanicSelectionRounds},

		{ID: 62, DisplayName: "Revision Primary Colors", Mechanic: models.MechanicFlowGate},
		{ID: 64, DisplayName: "Revision Primary Shapes", Mechanic: models.MechanicFlowGate},
		{ID: 66, DisplayName: "Rhyming Words Hindi", Mechanic: models.MechanicFlowGate},
		{ID: 68, DisplayName: "Rhyming Words Marathi", Mechanic: models.MechanicFlowGate},
	})
}
