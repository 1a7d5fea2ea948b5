package booking

import (
	"context"
	"time"

	"appointment-booking-api/internal/model"
)

// Resolver turns business hours and weekly employee schedules into the
// bookable windows of one day.
type Resolver struct {
	catalog Catalog
}

func NewResolver(c Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve returns ordered, disjoint windows. An empty result means the
// resource cannot be booked that day; it is not an error.
func (r *Resolver) Resolve(ctx context.Context, businessID int64, employeeID *int64, date time.Time) ([]Window, error) {
	if date.IsZero() {
		return nil, invalid("date required")
	}
	b, err := r.catalog.Business(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return nil, notFound("business", businessID)
	}
	hours := Window{Start: b.OpeningTime, End: b.ClosingTime}
	if hours.Empty() {
		return nil, nil
	}
	if employeeID == nil {
		return []Window{hours}, nil
	}

	e, err := r.catalog.Employee(ctx, *employeeID)
	if err != nil {
		return nil, err
	}
	if e.BusinessID != businessID || !e.IsActive {
		return nil, notFound("employee", *employeeID)
	}

	rows, err := r.catalog.Schedules(ctx, e.ID, date.Weekday())
	if err != nil {
		return nil, err
	}
	ws := make([]Window, 0, len(rows))
	for _, row := range rows {
		if !row.IsAvailable {
			continue
		}
		ws = append(ws, Window{Start: row.StartTime, End: row.EndTime}.Intersect(hours))
	}
	return merge(ws), nil
}

// ResolveDate is Resolve with a YYYY-MM-DD date.
func (r *Resolver) ResolveDate(ctx context.Context, businessID int64, employeeID *int64, date string) ([]Window, error) {
	if date == "" {
		return nil, invalid("date required")
	}
	d, err := model.ParseDate(date)
	if err != nil {
		return nil, invalid("%v", err)
	}
	return r.Resolve(ctx, businessID, employeeID, d)
}
