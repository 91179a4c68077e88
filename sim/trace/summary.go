package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTransitions   int
	Dispatched         int
	DispatchFailures   int
	Breakdowns         int
	Repairs            int
	StatusDistribution map[string]int // status → transitions into it
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		StatusDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalTransitions = len(st.Transitions)
	for _, r := range st.Transitions {
		summary.StatusDistribution[r.Role+":"+r.To]++
	}

	for _, d := range st.Dispatches {
		if d.Employee >= 0 {
			summary.Dispatched++
		} else {
			summary.DispatchFailures++
		}
	}

	for _, f := range st.Facilities {
		switch f.Event {
		case "broke":
			summary.Breakdowns++
		case "repaired":
			summary.Repairs++
		}
	}

	return summary
}
