package gen

import "fmt"

// State is a phase of a generation run.
type State uint8

// Run states in the order a successful run visits them. Failed is reachable
// from every non-terminal state.
const (
	StateIdle State = iota
	StateDiscovering
	StateParsing
	StateMerging
	StateEmitting
	StateWriting
	StateCleaningUp
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StateDiscovering: "discovering",
	StateParsing:     "parsing",
	StateMerging:     "merging",
	StateEmitting:    "emitting",
	StateWriting:     "writing",
	StateCleaningUp:  "cleaning-up",
	StateDone:        "done",
	StateFailed:      "failed",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// canTransition reports whether a run may move from one state to another.
// A run advances one state at a time and any non-terminal state may fail.
// A terminal state may start a new run.
func canTransition(from, to State) bool {
	switch {
	case to == StateFailed:
		return !from.Terminal()
	case from.Terminal():
		return to == StateIdle
	}
	return to == from+1
}
