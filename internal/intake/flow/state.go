package flow

// State is where a resolution flow currently stands. String-typed so
// snapshots serialize without a mapping layer.
type State string

const (
	StateIdle        State = "idle"
	StateSearching   State = "searching"
	StateFailed      State = "failed"
	StateNoMatch     State = "noMatch"
	StateSingleMatch State = "singleMatch"
	StateMultiMatch  State = "multiMatch"
	StateResolved    State = "resolved"
)

// allowTransition lists every legal move. Self-loops cover repeated
// searches and re-confirming a candidate; every state can be reset to
// idle.
var allowTransition = map[State][]State{
	StateIdle:        {StateSearching, StateIdle},
	StateSearching:   {StateSearching, StateFailed, StateNoMatch, StateSingleMatch, StateMultiMatch, StateResolved, StateIdle},
	StateFailed:      {StateSearching, StateIdle},
	StateNoMatch:     {StateSearching, StateIdle},
	StateSingleMatch: {StateSingleMatch, StateResolved, StateFailed, StateSearching, StateIdle},
	StateMultiMatch:  {StateMultiMatch, StateSingleMatch, StateResolved, StateSearching, StateIdle},
	StateResolved:    {StateResolved, StateSingleMatch, StateSearching, StateIdle},
}

// CanTransition reports whether moving from one state to another is a
// legal step of the resolution machine.
func CanTransition(from, to State) bool {
	for _, allowed := range allowTransition[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
