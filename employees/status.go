package employees

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a status change is not allowed
var ErrInvalidTransition = errors.New("invalid employment status transition")

// ErrTerminalStatus is returned when moving away from a terminal status
var ErrTerminalStatus = errors.New("employment status is terminal")

// Terminated is terminal. Resigned people may be rehired.
var statusTransitions = map[Status]map[Status]struct{}{
	StatusEmployed: {
		StatusResigned:   {},
		StatusTerminated: {},
	},
	StatusResigned: {
		StatusEmployed: {},
	},
}

// CanTransition reports whether an employee may move from one status to
// another. Keeping the current status is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	_, ok := statusTransitions[from][to]
	return ok
}

func checkTransition(from, to Status) error {
	if from == to {
		return nil
	}

	if from == StatusTerminated {
		return fmt.Errorf("%w: %s", ErrTerminalStatus, from)
	}

	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}

	return nil
}
