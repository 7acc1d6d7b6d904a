package models

// FunnelRow is one stage of the conversion funnel. The funnel is never
// sparse: every declared stage gets a row, zero-filled when absent.
type FunnelRow struct {
	Stage          string `json:"stage"`
	DistinctUsers  int    `json:"distinct_users"`
	DistinctVisits int    `json:"distinct_visits"`
	InstanceCount  int    `json:"instance_count"`
}

// GameFunnelRow is the per-game breakdown of the funnel.
type GameFunnelRow struct {
	Game           string `json:"game"`
	Stage          string `json:"stage"`
	DistinctUsers  int    `json:"distinct_users"`
	DistinctVisits int    `json:"distinct_visits"`
	InstanceCount  int    `json:"instance_count"`
}

// ScoreDistributionRow counts distinct users per (game, score) band.
type ScoreDistributionRow struct {
	Game      string `json:"game"`
	Score     int    `json:"score_or_band"`
	UserCount int    `json:"user_count"`
}

// QuestionCorrectnessRow reports how many distinct users answered a question
// with the given correctness, and the share of all users answering it.
type QuestionCorrectnessRow struct {
	Game           string  `json:"game"`
	QuestionNumber int     `json:"question_number"`
	Correctness    string  `json:"correctness"` // "Correct" or "Incorrect"
	UserCount      int     `json:"user_count"`
	TotalUsers     int     `json:"total_users"`
	Percent        float64 `json:"percent"`
}

// RepeatabilityRow is one bucket of the games-played histogram, dense over
// [1, max observed].
type RepeatabilityRow struct {
	GamesPlayed int `json:"games_played"`
	UserCount   int `json:"user_count"`
}

// TimeSeriesRow is one point of the Started/Completed time series, one row
// per (period, game, event, metric).
type TimeSeriesRow struct {
	PeriodType  string `json:"period_type"` // "Day", "Week" or "Month"
	PeriodLabel string `json:"period_label"`
	Game        string `json:"game"`
	Event       string `json:"event"`  // "Started" or "Completed"
	Metric      string `json:"metric"` // "instances", "visits" or "users"
	Count       int    `json:"count"`
}
