package reconcile

import "strings"

// Funnel stages in declared order. Views that report per-stage counts must
// emit one row per stage even when the data contains no events for it.
var FunnelStages = []string{
	"started",
	"introduction",
	"questions",
	"mid_introduction",
	"validation",
	"parent_poll",
	"rewards",
	"completed",
}

// ClassifyStage maps an action name to its funnel stage. The substring rules
// are ordered; "completed" is the catch-all for plain game completions and
// must not swallow the more specific completion actions above it.
func ClassifyStage(actionName string) (string, bool) {
	switch {
	case strings.Contains(actionName, "_started"):
		return "started", true
	case strings.Contains(actionName, "introduction_completed") && !strings.Contains(actionName, "mid"):
		return "introduction", true
	case strings.Contains(actionName, "_mid_introduction"):
		return "mid_introduction", true
	case strings.Contains(actionName, "_poll_completed"):
		return "parent_poll", true
	case strings.Contains(actionName, "action_completed"):
		return "questions", true
	case strings.Contains(actionName, "reward_completed"):
		return "rewards", true
	case strings.Contains(actionName, "question_completed"):
		return "validation", true
	case strings.Contains(actionName, "completed") &&
		!strings.Contains(actionName, "introduction") &&
		!strings.Contains(actionName, "reward") &&
		!strings.Contains(actionName, "question") &&
		!strings.Contains(actionName, "poll") &&
		!strings.Contains(actionName, "action"):
		return "completed", true
	}
	return "", false
}
