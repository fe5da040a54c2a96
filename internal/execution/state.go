package execution

import (
	"errors"
	"fmt"
)

// State 表示一次agent运行的生命周期状态。
type State string

const (
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateExhausted State = "exhausted"
	StateFailed    State = "failed"
)

// Terminal 报告状态是否为终态。终态不允许任何后续迁移。
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateExhausted, StateFailed:
		return true
	default:
		return false
	}
}

// ErrInvalidStateTransition 表示一次非法的状态迁移。
var ErrInvalidStateTransition = errors.New("invalid state transition")

var allowedStateTransitions = map[State]map[State]struct{}{
	StateRunning: {
		StateCompleted: {},
		StateExhausted: {},
		StateFailed:    {},
	},
	StateCompleted: {},
	StateExhausted: {},
	StateFailed:    {},
}

func validateStateTransition(from, to State) error {
	if from == to {
		return nil
	}
	allowed, ok := allowedStateTransitions[from]
	if !ok {
		return fmt.Errorf("%w: unknown source state %q", ErrInvalidStateTransition, from)
	}
	if _, ok := allowed[to]; !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, from, to)
	}
	return nil
}

// advance 校验并执行状态迁移。
func advance(state *State, to State) error {
	if err := validateStateTransition(*state, to); err != nil {
		return err
	}
	*state = to
	return nil
}
