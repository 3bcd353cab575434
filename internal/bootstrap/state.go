package bootstrap

import "fmt"

// State tracks one module through the bootstrap pipeline.
type State int

const (
	StatePending State = iota
	StateScaffolding
	StateManifesting
	StatePackaging
	StateSigned
	StateUnsigned
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateScaffolding:
		return "scaffolding"
	case StateManifesting:
		return "manifesting"
	case StatePackaging:
		return "packaging"
	case StateSigned:
		return "signed"
	case StateUnsigned:
		return "unsigned"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transitions are allowed.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// validNext encodes the pipeline's legal transitions. Failed is reachable
// from every non-terminal state.
var validNext = map[State][]State{
	StatePending:     {StateScaffolding},
	StateScaffolding: {StateManifesting},
	StateManifesting: {StatePackaging},
	StatePackaging:   {StateSigned, StateUnsigned},
	StateSigned:      {StateDone},
	StateUnsigned:    {StateDone},
}

// transition moves a module to next, panicking on a transition the pipeline
// can never legally make. Failed is always legal from non-terminal states.
func transition(current, next State) State {
	if next == StateFailed {
		if current.Terminal() {
			panic(fmt.Sprintf("bootstrap: illegal transition %s -> failed", current))
		}
		return next
	}
	for _, allowed := range validNext[current] {
		if allowed == next {
			return next
		}
	}
	panic(fmt.Sprintf("bootstrap: illegal transition %s -> %s", current, next))
}
