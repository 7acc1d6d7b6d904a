package reconcile

import (
	"regexp"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/ecelearn/hybrid-analytics/models"
)

// ParseReason classifies the outcome of a single payload parse. Malformed
// payloads are an expected, high-frequency occurrence in this telemetry, so
// failures are returned as values and never abort a batch run; callers feed
// the reason into logs and metrics.
type ParseReason string

const (
	ParseOK            ParseReason = "ok"
	ParseEmptyPayload  ParseReason = "empty_payload"
	ParseBadJSON       ParseReason = "bad_json"
	ParseShapeMismatch ParseReason = "shape_mismatch"
)

// Answer is one parsed question outcome before session identity is attached.
// QuestionNumber is only meaningful when HasNumber is true; otherwise the
// engine assigns a number from the mechanic's numbering rule.
type Answer struct {
	QuestionNumber int
	HasNumber      bool
	IsCorrect      bool
}

// selection-rounds wire shape: a list of rounds, each with candidate cards
// (one flagged correct via status) and the user's selections.
type selectionPayload struct {
	RoundDetails []selectionRound `json:"roundDetails"`
}

type selectionRound struct {
	RoundNumber *int              `json:"roundNumber"`
	Cards       []selectionCard   `json:"cards"`
	Selections  []selectionChoice `json:"selections"`
}

type selectionCard struct {
	Status bool `json:"status"`
}

type selectionChoice struct {
	Card *int `json:"card"`
}

// flow-gate wire shape: sections of game data; only the "Action" section's
// levels are scored, and only levels gated on the stop&Go flow.
type flowPayload struct {
	GameData []flowSection `json:"gameData"`
}

type flowSection struct {
	Section  string      `json:"section"`
	JSONData []flowLevel `json:"jsonData"`
}

type flowLevel struct {
	Level        *int           `json:"level"`
	Flow         *string        `json:"flow"`
	UserResponse []flowResponse `json:"userResponse"`
}

type flowResponse struct {
	IsCorrect bool `json:"isCorrect"`
}

// action-level wire shape: a single question with flagged options and a
// nullable chosen index.
type actionPayload struct {
	Options      []actionOption `json:"options"`
	ChosenOption *int           `json:"chosenOption"`
}

type actionOption struct {
	IsCorrect bool `json:"isCorrect"`
}

// ParsePayload converts a raw payload document into zero or more answers
// using the mechanic's strategy. A missing, empty or literal-"null" payload
// and any document that fails to decode or lacks the mechanic's expected keys
// all yield zero answers with the reason, never an error.
func ParsePayload(mechanic models.Mechanic, payload string) ([]Answer, ParseReason) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" || trimmed == "null" {
		return nil, ParseEmptyPayload
	}

	switch mechanic {
	case models.MechanicSelectionRounds:
		return parseSelectionRounds(trimmed)
	case models.MechanicFlowGate:
		return parseFlowGate(trimmed)
	case models.MechanicActionLevel:
		return parseActionLevel(trimmed)
	}
	return nil, ParseShapeMismatch
}

func parseSelectionRounds(payload string) ([]Answer, ParseReason) {
	var doc selectionPayload
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, ParseBadJSON
	}
	if len(doc.RoundDetails) == 0 {
		return nil, ParseShapeMismatch
	}

	var answers []Answer
	for _, round := range doc.RoundDetails {
		// a round with no selections produces no record
		if len(round.Cards) == 0 || len(round.Selections) == 0 {
			continue
		}

		correctIdx := -1
		for i, card := range round.Cards {
			if card.Status {
				correctIdx = i
				break
			}
		}

		// the user's pick is the last selection made
		last := round.Selections[len(round.Selections)-1]
		if last.Card == nil {
			continue
		}

		answer := Answer{
			QuestionNumber: 1,
			HasNumber:      true,
			IsCorrect:      correctIdx >= 0 && *last.Card == correctIdx,
		}
		if round.RoundNumber != nil && *round.RoundNumber >= 1 {
			answer.QuestionNumber = *round.RoundNumber
		}
		answers = append(answers, answer)
	}
	if len(answers) == 0 {
		return nil, ParseShapeMismatch
	}
	return answers, ParseOK
}

func parseFlowGate(payload string) ([]Answer, ParseReason) {
	var doc flowPayload
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, ParseBadJSON
	}
	if len(doc.GameData) == 0 {
		return nil, ParseShapeMismatch
	}

	var answers []Answer
	for _, section := range doc.GameData {
		if section.Section != "Action" {
			continue
		}
		for _, level := range section.JSONData {
			// levels carrying a flow tag must match the gated value; an
			// absent tag is treated as a single-question level
			if level.Flow != nil && !strings.EqualFold(*level.Flow, "stop&go") {
				continue
			}
			if len(level.UserResponse) == 0 {
				continue
			}
			// question numbers are assigned sequentially by the engine,
			// one per qualifying response in traversal order
			answers = append(answers, Answer{IsCorrect: level.UserResponse[0].IsCorrect})
		}
	}
	if len(answers) == 0 {
		return nil, ParseShapeMismatch
	}
	return answers, ParseOK
}

func parseActionLevel(payload string) ([]Answer, ParseReason) {
	// check key presence first: a typed decode cannot distinguish a payload
	// of a different shape from one with a null chosen option
	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &keys); err != nil {
		return nil, ParseBadJSON
	}
	if _, ok := keys["options"]; !ok {
		return nil, ParseShapeMismatch
	}
	if _, ok := keys["chosenOption"]; !ok {
		return nil, ParseShapeMismatch
	}

	var doc actionPayload
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, ParseBadJSON
	}

	// a null or out-of-bounds chosen index is an incorrect answer, never an error
	correct := false
	if doc.ChosenOption != nil {
		idx := *doc.ChosenOption
		if idx >= 0 && idx < len(doc.Options) {
			correct = doc.Options[idx].IsCorrect
		}
	}
	return []Answer{{IsCorrect: correct}}, ParseOK
}

var actionLevelPattern = regexp.MustCompile(`action_level[_\- ]?(\d+)`)

// ExtractLevelNumber pulls the explicit level number out of an action-level
// action name such as "hybrid_action_level_3". The second return is false
// when no level number is present; the engine then falls back to a
// per-session sequential counter.
func ExtractLevelNumber(actionName string) (int, bool) {
	m := actionLevelPattern.FindStringSubmatch(actionName)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
