// Package trace provides decision-trace recording for park analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// TransitionRecord captures one agent status change.
type TransitionRecord struct {
	Clock   int64
	AgentID int
	Role    string // "guest" or "employee"
	From    string
	To      string
}

// DispatchRecord captures a repair dispatch decision.
type DispatchRecord struct {
	Clock      int64
	FacilityID int
	Employee   int // employee index, -1 when no one could be sent
	Reason     string
}

// FacilityRecord captures a facility breaking down or coming back.
type FacilityRecord struct {
	Clock      int64
	FacilityID int
	Event      string // "broke" or "repaired"
	Health     int
}
