package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecelearn/hybrid-analytics/models"
)

func funnelEvent(id int64, user string, visit int64, game int64, action string) models.RawEvent {
	return models.RawEvent{
		EventID:    id,
		UserID:     user,
		VisitID:    visit,
		GameID:     game,
		ActionName: action,
		OccurredAt: time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildFunnelIsDenseOverStages(t *testing.T) {
	// no started events at all; the started row must still exist, zeroed
	events := []models.RawEvent{
		funnelEvent(1, "U1", 100, 12, "hybrid_game_completed"),
		funnelEvent(2, "U2", 101, 12, "hybrid_game_completed"),
	}

	rows := BuildFunnel(events)
	require.Len(t, rows, len(FunnelStages))

	byStage := map[string]models.FunnelRow{}
	for _, row := range rows {
		byStage[row.Stage] = row
	}

	started := byStage["started"]
	assert.Zero(t, started.DistinctUsers)
	assert.Zero(t, started.DistinctVisits)
	assert.Zero(t, started.InstanceCount)

	completed := byStage["completed"]
	assert.Equal(t, 2, completed.DistinctUsers)
	assert.Equal(t, 2, completed.DistinctVisits)
	assert.Equal(t, 2, completed.InstanceCount)
}

func TestBuildFunnelExcludesBlankUsersFromDistinctCount(t *testing.T) {
	events := []models.RawEvent{
		funnelEvent(1, "", 100, 12, "hybrid_game_started"),
		funnelEvent(2, "U1", 100, 12, "hybrid_game_started"),
		funnelEvent(3, "U1", 101, 12, "hybrid_game_started"),
	}

	rows := BuildFunnel(events)
	started := rows[0]
	assert.Equal(t, "started", started.Stage)
	assert.Equal(t, 1, started.DistinctUsers, "blank user is excluded")
	assert.Equal(t, 2, started.DistinctVisits)
	assert.Equal(t, 3, started.InstanceCount, "instances are a plain count")
}

func TestBuildFunnelStageOrder(t *testing.T) {
	rows := BuildFunnel(nil)
	require.Len(t, rows, len(FunnelStages))
	for i, stage := range FunnelStages {
		assert.Equal(t, stage, rows[i].Stage)
	}
}

func TestBuildGameFunnelDensePerGame(t *testing.T) {
	events := []models.RawEvent{
		funnelEvent(1, "U1", 100, 12, "hybrid_game_started"),
	}

	rows := BuildGameFunnel(events, DefaultRegistry())
	require.Len(t, rows, len(FunnelStages), "one observed game, all stages present")
	assert.Equal(t, "Shape Circle", rows[0].Game)
	assert.Equal(t, 1, rows[0].DistinctUsers)
	// every other stage zero-filled
	for _, row := range rows[1:] {
		assert.Zero(t, row.InstanceCount)
	}
}

func TestBuildScoreDistributionCountsDistinctUsersPerScore(t *testing.T) {
	scores := []models.ScoreRecord{
		// U1 replays game 12 and reaches 5 twice: counted once for 5
		{UserID: "U1", GameID: 12, VisitID: 100, SessionInstance: 1, TotalScore: 5},
		{UserID: "U1", GameID: 12, VisitID: 100, SessionInstance: 2, TotalScore: 5},
		{UserID: "U1", GameID: 12, VisitID: 100, SessionInstance: 3, TotalScore: 7},
		{UserID: "U2", GameID: 12, VisitID: 101, SessionInstance: 1, TotalScore: 5},
	}

	rows := BuildScoreDistribution(scores, DefaultRegistry())
	require.Len(t, rows, 2)

	assert.Equal(t, models.ScoreDistributionRow{Game: "Shape Circle", Score: 5, UserCount: 2}, rows[0])
	assert.Equal(t, models.ScoreDistributionRow{Game: "Shape Circle", Score: 7, UserCount: 1}, rows[1])
}

func TestBuildScoreDistributionEmpty(t *testing.T) {
	rows := BuildScoreDistribution(nil, DefaultRegistry())
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestBuildQuestionCorrectness(t *testing.T) {
	records := []models.CorrectnessRecord{
		{GameID: 12, UserID: "U1", VisitID: 100, SessionInstance: 1, QuestionNumber: 1, IsCorrect: true},
		{GameID: 12, UserID: "U2", VisitID: 101, SessionInstance: 1, QuestionNumber: 1, IsCorrect: true},
		{GameID: 12, UserID: "U3", VisitID: 102, SessionInstance: 1, QuestionNumber: 1, IsCorrect: false},
	}

	rows := BuildQuestionCorrectness(records, DefaultRegistry())
	require.Len(t, rows, 2)

	correct := rows[0]
	assert.Equal(t, "Correct", correct.Correctness)
	assert.Equal(t, 2, correct.UserCount)
	assert.Equal(t, 3, correct.TotalUsers)
	assert.InDelta(t, 66.67, correct.Percent, 0.001)

	incorrect := rows[1]
	assert.Equal(t, "Incorrect", incorrect.Correctness)
	assert.Equal(t, 1, incorrect.UserCount)
	assert.InDelta(t, 33.33, incorrect.Percent, 0.001)
}

func TestBuildQuestionCorrectnessUserCountedOncePerCorrectness(t *testing.T) {
	// duplicate arrivals for the same user and question collapse in the count
	records := []models.CorrectnessRecord{
		{GameID: 12, UserID: "U1", QuestionNumber: 1, IsCorrect: true},
		{GameID: 12, UserID: "U1", QuestionNumber: 1, IsCorrect: true},
	}

	rows := BuildQuestionCorrectness(records, DefaultRegistry())
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].UserCount)
	assert.Equal(t, 1, rows[0].TotalUsers)
	assert.InDelta(t, 100.0, rows[0].Percent, 0.001)
}

func TestBuildRepeatabilityIsDense(t *testing.T) {
	// five users played 1 game, two users played 3: the gap at 2 must be a
	// zero row, not a missing row
	var events []models.RawEvent
	id := int64(1)
	for _, u := range []string{"A", "B", "C", "D", "E"} {
		events = append(events, funnelEvent(id, u, 100, 12, "hybrid_game_completed"))
		id++
	}
	for _, u := range []string{"X", "Y"} {
		for _, game := range []int64{12, 24, 28} {
			events = append(events, funnelEvent(id, u, 100, game, "hybrid_game_completed"))
			id++
		}
	}

	rows := BuildRepeatability(events)
	require.Len(t, rows, 3)
	assert.Equal(t, models.RepeatabilityRow{GamesPlayed: 1, UserCount: 5}, rows[0])
	assert.Equal(t, models.RepeatabilityRow{GamesPlayed: 2, UserCount: 0}, rows[1])
	assert.Equal(t, models.RepeatabilityRow{GamesPlayed: 3, UserCount: 2}, rows[2])
}

func TestBuildRepeatabilityIgnoresNonCompletedAndBlankUsers(t *testing.T) {
	events := []models.RawEvent{
		funnelEvent(1, "U1", 100, 12, "hybrid_game_started"),
		funnelEvent(2, "", 100, 12, "hybrid_game_completed"),
	}

	rows := BuildRepeatability(events)
	assert.Empty(t, rows)
}
