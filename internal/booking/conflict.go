package booking

import (
	"context"
	"fmt"
	"time"

	"appointment-booking-api/internal/model"
)

// Proposal is an interval someone wants to book.
type Proposal struct {
	BusinessID      int64
	EmployeeID      *int64
	Date            time.Time
	Start           model.Clock
	DurationMinutes int
	// ExcludeID lets an appointment be re-checked without hitting itself.
	ExcludeID int64
}

func (p Proposal) Key() SlotKey {
	return SlotKey{BusinessID: p.BusinessID, EmployeeID: p.EmployeeID, Date: p.Date}
}

func (p Proposal) Window() Window {
	return Window{Start: p.Start, End: p.Start.Add(time.Duration(p.DurationMinutes) * time.Minute)}
}

type Checker struct {
	resolver *Resolver
	occ      Occupancy
}

func NewChecker(c Catalog, o Occupancy) *Checker {
	return &Checker{resolver: NewResolver(c), occ: o}
}

// Check returns nil when p fits in an availability window and overlaps no
// appointment holding the same key. Conflicts come back as *Conflict.
func (c *Checker) Check(ctx context.Context, p Proposal) error {
	if p.DurationMinutes <= 0 {
		return invalid("duration must be positive")
	}
	want := p.Window()
	if want.End > model.EndOfDay {
		return &Conflict{Kind: ErrOutOfHours, Reason: fmt.Sprintf("%s runs past midnight", want)}
	}

	windows, err := c.resolver.Resolve(ctx, p.BusinessID, p.EmployeeID, p.Date)
	if err != nil {
		return err
	}
	if !fits(want, windows) {
		return &Conflict{Kind: ErrOutOfHours, Reason: fmt.Sprintf("%s is outside available hours on %s", want, p.Date.Format(model.DateLayout))}
	}

	taken, err := c.occ.Occupied(ctx, p.Key(), p.ExcludeID)
	if err != nil {
		return err
	}
	for _, a := range taken {
		if a.ID == p.ExcludeID || !a.Status.Occupies() {
			continue
		}
		if have := windowOf(a); have.Overlaps(want) {
			return &Conflict{Kind: ErrSlotTaken, Reason: fmt.Sprintf("%s overlaps an existing appointment at %s", want, have)}
		}
	}
	return nil
}

func fits(want Window, windows []Window) bool {
	for _, w := range windows {
		if w.Contains(want) {
			return true
		}
	}
	return false
}
