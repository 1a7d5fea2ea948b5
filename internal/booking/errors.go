package booking

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrOutOfHours        = errors.New("outside availability")
	ErrSlotTaken         = errors.New("slot already taken")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStorage           = errors.New("storage failure")
)

// Conflict is returned by the conflict checker. Kind is ErrOutOfHours or
// ErrSlotTaken, Reason is safe to show to the caller.
type Conflict struct {
	Kind   error
	Reason string
}

func (c *Conflict) Error() string {
	return c.Kind.Error() + ": " + c.Reason
}

func (c *Conflict) Unwrap() error { return c.Kind }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string, id int64) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
}

// isDomain reports whether err already belongs to the caller-facing taxonomy.
func isDomain(err error) bool {
	for _, target := range []error{ErrValidation, ErrNotFound, ErrOutOfHours, ErrSlotTaken, ErrInvalidTransition, ErrStorage} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
