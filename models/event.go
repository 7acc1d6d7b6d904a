package models

import "time"

// RawEvent is one row of the upstream gameplay event log. Rows are read-only
// input owned by the external source; the engine never mutates them.
type RawEvent struct {
	EventID    int64     `json:"eventId"`
	UserID     string    `json:"userId"` // may be blank; excluded from distinct counts, never from raw storage
	VisitID    int64     `json:"visitId"`
	GameID     int64     `json:"gameId"`
	ActionName string    `json:"actionName"`
	Payload    string    `json:"payload"` // opaque JSON document, may be empty
	OccurredAt time.Time `json:"occurredAt"`
}

// CorrectnessRecord is one answered-question outcome, normalized regardless of
// which scoring mechanic produced it.
type CorrectnessRecord struct {
	GameID          int64  `json:"gameId"`
	UserID          string `json:"userId"`
	VisitID         int64  `json:"visitId"`
	SessionInstance int    `json:"sessionInstance"`
	QuestionNumber  int    `json:"questionNumber"` // 1-based
	IsCorrect       bool   `json:"isCorrect"`
}

// ScoreRecord is the per-session score total derived from correctness records.
type ScoreRecord struct {
	UserID          string `json:"userId"`
	GameID          int64  `json:"gameId"`
	VisitID         int64  `json:"visitId"`
	SessionInstance int    `json:"sessionInstance"`
	TotalScore      int    `json:"totalScore"`
}
