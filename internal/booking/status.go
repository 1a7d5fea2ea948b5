package booking

import (
	"fmt"

	"appointment-booking-api/internal/model"
)

var transitions = map[model.Status][]model.Status{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCompleted, model.StatusCancelled},
}

// CanTransition reports whether from -> to is an allowed lifecycle step.
func CanTransition(from, to model.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to model.Status) error {
	if !to.Valid() {
		return invalid("unknown status %q", to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
