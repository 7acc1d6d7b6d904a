package models

// Mechanic identifies which of the three scoring payload shapes a game uses.
type Mechanic string

const (
	MechanicSelectionRounds Mechanic = "selection_rounds"
	MechanicFlowGate        Mechanic = "flow_gate"
	MechanicActionLevel     Mechanic = "action_level"
)

// Game is static reference data, loaded once and immutable for a run.
type Game struct {
	ID          int64    `json:"id"`
	DisplayName string   `json:"displayName"`
	Mechanic    Mechanic `json:"mechanic"`
	MaxScore    int      `json:"maxScore"` // 0 means no cap
}
