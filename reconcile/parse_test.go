package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecelearn/hybrid-analytics/models"
)

func TestParsePayloadEmptyAndMalformed(t *testing.T) {
	mechanics := []models.Mechanic{
		models.MechanicSelectionRounds,
		models.MechanicFlowGate,
		models.MechanicActionLevel,
	}

	for _, mechanic := range mechanics {
		for _, payload := range []string{"", "   ", "null"} {
			answers, reason := ParsePayload(mechanic, payload)
			assert.Empty(t, answers)
			assert.Equal(t, ParseEmptyPayload, reason)
		}

		answers, reason := ParsePayload(mechanic, "{not json")
		assert.Empty(t, answers)
		assert.Equal(t, ParseBadJSON, reason)

		// valid JSON without the mechanic's expected keys
		answers, reason = ParsePayload(mechanic, `{"something":"else"}`)
		assert.Empty(t, answers)
		assert.Equal(t, ParseShapeMismatch, reason)
	}
}

func TestParseSelectionRounds(t *testing.T) {
	payload := `{
		"roundDetails": [
			{
				"roundNumber": 1,
				"cards": [{"status": false}, {"status": true}],
				"selections": [{"card": 0}, {"card": 1}]
			},
			{
				"roundNumber": 2,
				"cards": [{"status": true}, {"status": false}],
				"selections": [{"card": 1}]
			},
			{
				"roundNumber": 3,
				"cards": [{"status": true}],
				"selections": []
			}
		]
	}`

	answers, reason := ParsePayload(models.MechanicSelectionRounds, payload)
	require.Equal(t, ParseOK, reason)
	require.Len(t, answers, 2, "a round with no selections yields no record")

	// round 1: last selection index 1 matches the flagged-correct card
	assert.Equal(t, 1, answers[0].QuestionNumber)
	assert.True(t, answers[0].HasNumber)
	assert.True(t, answers[0].IsCorrect)

	// round 2: selection 1 against correct index 0
	assert.Equal(t, 2, answers[1].QuestionNumber)
	assert.False(t, answers[1].IsCorrect)
}

func TestParseSelectionRoundsMissingRoundNumberFallsBackToOne(t *testing.T) {
	payload := `{
		"roundDetails": [
			{"cards": [{"status": true}], "selections": [{"card": 0}]}
		]
	}`

	answers, reason := ParsePayload(models.MechanicSelectionRounds, payload)
	require.Equal(t, ParseOK, reason)
	require.Len(t, answers, 1)
	assert.Equal(t, 1, answers[0].QuestionNumber)
	assert.True(t, answers[0].IsCorrect)
}

func TestParseFlowGate(t *testing.T) {
	payload := `{
		"gameData": [
			{"section": "Intro", "jsonData": [{"flow": "stop&Go", "userResponse": [{"isCorrect": true}]}]},
			{
				"section": "Action",
				"jsonData": [
					{"level": 1, "flow": "stop&Go", "userResponse": [{"isCorrect": true}, {"isCorrect": false}]},
					{"level": 2, "flow": "freePlay", "userResponse": [{"isCorrect": true}]},
					{"level": 3, "userResponse": [{"isCorrect": false}]},
					{"level": 4, "flow": "STOP&GO", "userResponse": []}
				]
			}
		]
	}`

	answers, reason := ParsePayload(models.MechanicFlowGate, payload)
	require.Equal(t, ParseOK, reason)
	// only the Action section counts; the freePlay level is gated out, the
	// tagless level is treated as a single question, the empty-response
	// level is skipped
	require.Len(t, answers, 2)
	assert.True(t, answers[0].IsCorrect, "first response wins")
	assert.False(t, answers[0].HasNumber)
	assert.False(t, answers[1].IsCorrect)
}

func TestParseActionLevel(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		correct bool
	}{
		{
			"correct choice",
			`{"options": [{"isCorrect": false}, {"isCorrect": true}], "chosenOption": 1}`,
			true,
		},
		{
			"incorrect choice",
			`{"options": [{"isCorrect": false}, {"isCorrect": true}], "chosenOption": 0}`,
			false,
		},
		{
			"null chosen option",
			`{"options": [{"isCorrect": true}], "chosenOption": null}`,
			false,
		},
		{
			"out of bounds",
			`{"options": [{"isCorrect": true}], "chosenOption": 5}`,
			false,
		},
		{
			"negative index",
			`{"options": [{"isCorrect": true}], "chosenOption": -1}`,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers, reason := ParsePayload(models.MechanicActionLevel, tt.payload)
			require.Equal(t, ParseOK, reason)
			require.Len(t, answers, 1)
			assert.Equal(t, tt.correct, answers[0].IsCorrect)
			assert.False(t, answers[0].HasNumber)
		})
	}
}

func TestParseActionLevelRequiresBothKeys(t *testing.T) {
	answers, reason := ParsePayload(models.MechanicActionLevel, `{"options": [{"isCorrect": true}]}`)
	assert.Empty(t, answers)
	assert.Equal(t, ParseShapeMismatch, reason)
}

func TestExtractLevelNumber(t *testing.T) {
	tests := []struct {
		actionName string
		want       int
		ok         bool
	}{
		{"hybrid_action_level_3", 3, true},
		{"action_level_12", 12, true},
		{"action_level-7", 7, true},
		{"hybrid_game_completed", 0, false},
		{"action_level_", 0, false},
		{"action_level_0", 0, false},
	}

	for _, tt := range tests {
		n, ok := ExtractLevelNumber(tt.actionName)
		assert.Equal(t, tt.ok, ok, tt.actionName)
		assert.Equal(t, tt.want, n, tt.actionName)
	}
}
