package execution

import (
	"errors"
	"testing"
)

func TestStateTerminal(t *testing.T) {
	if StateRunning.Terminal() {
		t.Fatalf("running must not be terminal")
	}
	for _, s := range []State{StateCompleted, StateExhausted, StateFailed} {
		if !s.Terminal() {
			t.Fatalf("%s must be terminal", s)
		}
	}
}

func TestValidateStateTransition(t *testing.T) {
	legal := []struct{ from, to State }{
		{StateRunning, StateCompleted},
		{StateRunning, StateExhausted},
		{StateRunning, StateFailed},
		{StateCompleted, StateCompleted},
	}
	for _, tc := range legal {
		if err := validateStateTransition(tc.from, tc.to); err != nil {
			t.Fatalf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
	}

	illegal := []struct{ from, to State }{
		{StateCompleted, StateRunning},
		{StateExhausted, StateCompleted},
		{StateFailed, StateRunning},
		{State("bogus"), StateCompleted},
	}
	for _, tc := range illegal {
		err := validateStateTransition(tc.from, tc.to)
		if !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("%s -> %s: err = %v, want ErrInvalidStateTransition", tc.from, tc.to, err)
		}
	}
}

func TestAdvanceMutatesOnlyOnLegalTransition(t *testing.T) {
	state := StateRunning
	if err := advance(&state, StateCompleted); err != nil {
		t.Fatalf("advance error: %v", err)
	}
	if state != StateCompleted {
		t.Fatalf("state = %q", state)
	}
	if err := advance(&state, StateFailed); err == nil {
		t.Fatalf("terminal state accepted a transition")
	}
	if state != StateCompleted {
		t.Fatalf("state mutated on illegal transition: %q", state)
	}
}
