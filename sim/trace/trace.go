package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures status transitions, dispatches and breakdowns.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// SimulationTrace collects decision records during a park simulation.
type SimulationTrace struct {
	Level       TraceLevel
	Transitions []TransitionRecord
	Dispatches  []DispatchRecord
	Facilities  []FacilityRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(level TraceLevel) *SimulationTrace {
	return &SimulationTrace{
		Level:       level,
		Transitions: make([]TransitionRecord, 0),
		Dispatches:  make([]DispatchRecord, 0),
		Facilities:  make([]FacilityRecord, 0),
	}
}

// RecordTransition appends a status transition record.
func (st *SimulationTrace) RecordTransition(record TransitionRecord) {
	st.Transitions = append(st.Transitions, record)
}

// RecordDispatch appends a dispatch decision record.
func (st *SimulationTrace) RecordDispatch(record DispatchRecord) {
	st.Dispatches = append(st.Dispatches, record)
}

// RecordFacility appends a breakdown or repair record.
func (st *SimulationTrace) RecordFacility(record FacilityRecord) {
	st.Facilities = append(st.Facilities, record)
}

// StatusSequence returns the statuses an agent passed through, starting with
// the state it left on its first recorded transition.
func (st *SimulationTrace) StatusSequence(role string, agentID int) []string {
	var seq []string
	for _, r := range st.Transitions {
		if r.Role != role || r.AgentID != agentID {
			continue
		}
		if len(seq) == 0 {
			seq = append(seq, r.From)
		}
		seq = append(seq, r.To)
	}
	return seq
}
