package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStage(t *testing.T) {
	tests := []struct {
		actionName string
		stage      string
		ok         bool
	}{
		{"hybrid_game_started", "started", true},
		{"hybrid_mcq_started", "started", true},
		{"hybrid_introduction_completed", "introduction", true},
		{"hybrid_mid_introduction_completed", "mid_introduction", true},
		{"hybrid_parent_poll_completed", "parent_poll", true},
		{"hybrid_action_completed", "questions", true},
		{"hybrid_reward_completed", "rewards", true},
		{"hybrid_question_completed", "validation", true},
		{"hybrid_game_completed", "completed", true},
		{"hybrid_mcq_completed", "completed", true},
		{"hybrid_action_level_3", "", false},
		{"something_else", "", false},
	}

	for _, tt := range tests {
		stage, ok := ClassifyStage(tt.actionName)
		assert.Equal(t, tt.ok, ok, tt.actionName)
		assert.Equal(t, tt.stage, stage, tt.actionName)
	}
}

func TestClassifyStageSpecificCompletionsDoNotReachCatchAll(t *testing.T) {
	// the generic "completed" bucket must not swallow specific completions
	for _, name := range []string{
		"hybrid_introduction_completed",
		"hybrid_reward_completed",
		"hybrid_question_completed",
		"hybrid_parent_poll_completed",
		"hybrid_action_completed",
	} {
		stage, ok := ClassifyStage(name)
		assert.True(t, ok, name)
		assert.NotEqual(t, "completed", stage, name)
	}
}
