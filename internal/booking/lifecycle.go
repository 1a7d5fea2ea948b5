package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"appointment-booking-api/internal/model"
)

// Manager owns appointment creation, rescheduling and status changes.
// It keeps no state between calls; every write runs inside one Store
// transaction that locks the slot key before checking for conflicts.
type Manager struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Manager)

// WithNow replaces the clock used for modification timestamps.
func WithNow(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store Store, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{store: store, logger: logger, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

type CreateRequest struct {
	CustomerID int64
	BusinessID int64
	EmployeeID *int64
	ServiceID  int64
	Date       string
	Time       string
	Notes      string
}

// UpdateRequest carries a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Status        *model.Status
	Date          *string
	Time          *string
	EmployeeID    *int64
	ClearEmployee bool
	Notes         *string
}

// Filter narrows a list. Empty fields match everything.
type Filter struct {
	Date   string
	Status string
}

func (m *Manager) Create(ctx context.Context, req CreateRequest) (model.AppointmentView, error) {
	if req.CustomerID <= 0 || req.BusinessID <= 0 || req.ServiceID <= 0 {
		return model.AppointmentView{}, invalid("customer_id, business_id and service_id are required")
	}
	if req.EmployeeID != nil && *req.EmployeeID <= 0 {
		return model.AppointmentView{}, invalid("employee_id must be positive")
	}
	date, start, err := parseSlot(req.Date, req.Time)
	if err != nil {
		return model.AppointmentView{}, err
	}

	var view model.AppointmentView
	err = m.store.Atomic(ctx, func(tx Tx) error {
		if _, err := tx.Customer(ctx, req.CustomerID); err != nil {
			return err
		}
		b, err := tx.Business(ctx, req.BusinessID)
		if err != nil {
			return err
		}
		if !b.IsActive {
			return notFound("business", b.ID)
		}
		svc, err := tx.Service(ctx, req.ServiceID)
		if err != nil {
			return err
		}
		if svc.BusinessID != b.ID || !svc.IsActive {
			return notFound("service", svc.ID)
		}

		now := m.now().UTC()
		a := model.Appointment{
			CustomerID:      req.CustomerID,
			BusinessID:      b.ID,
			EmployeeID:      req.EmployeeID,
			ServiceID:       svc.ID,
			Date:            date,
			Start:           start,
			DurationMinutes: svc.DurationMinutes,
			Status:          model.StatusPending,
			Notes:           req.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.LockSlot(ctx, KeyOf(a)); err != nil {
			return err
		}
		if err := NewChecker(tx, tx).Check(ctx, proposalFor(a)); err != nil {
			return err
		}
		if err := tx.InsertAppointment(ctx, &a); err != nil {
			return err
		}
		view, err = tx.AppointmentView(ctx, a.ID)
		return err
	})
	if err != nil {
		return model.AppointmentView{}, m.fail(ctx, "create appointment", err)
	}

	m.logger.InfoContext(ctx, "appointment created",
		"appointment_id", view.ID,
		"business_id", view.BusinessID,
		"slot", KeyOf(view.Appointment).String(),
		"start", view.Start.String(),
	)
	return view, nil
}

func (m *Manager) Update(ctx context.Context, id int64, req UpdateRequest) (model.AppointmentView, error) {
	if id <= 0 {
		return model.AppointmentView{}, invalid("appointment id required")
	}
	if req.EmployeeID != nil && req.ClearEmployee {
		return model.AppointmentView{}, invalid("employee_id and clear_employee cannot both be set")
	}

	var view model.AppointmentView
	err := m.store.Atomic(ctx, func(tx Tx) error {
		cur, err := tx.AppointmentForUpdate(ctx, id)
		if err != nil {
			return err
		}
		next, err := apply(cur, req)
		if err != nil {
			return err
		}

		if next.Status != cur.Status {
			if err := checkTransition(cur.Status, next.Status); err != nil {
				return err
			}
		}

		moved := next.Start != cur.Start || !KeyOf(next).Same(KeyOf(cur))
		if moved {
			if cur.Status.Terminal() {
				return fmt.Errorf("%w: cannot reschedule a %s appointment", ErrInvalidTransition, cur.Status)
			}
			// a moved appointment always passes the checker, which also
			// validates the new employee against the business
			if !next.Status.Occupies() {
				return invalid("cannot reschedule and cancel in one update")
			}
			if err := tx.LockSlot(ctx, KeyOf(next)); err != nil {
				return err
			}
			if err := NewChecker(tx, tx).Check(ctx, proposalFor(next)); err != nil {
				return err
			}
		}

		next.UpdatedAt = m.now().UTC()
		if err := tx.UpdateAppointment(ctx, &next); err != nil {
			return err
		}
		view, err = tx.AppointmentView(ctx, id)
		return err
	})
	if err != nil {
		return model.AppointmentView{}, m.fail(ctx, "update appointment", err)
	}

	m.logger.InfoContext(ctx, "appointment updated",
		"appointment_id", view.ID,
		"status", string(view.Status),
		"slot", KeyOf(view.Appointment).String(),
		"start", view.Start.String(),
	)
	return view, nil
}

func (m *Manager) Get(ctx context.Context, id int64) (model.AppointmentView, error) {
	if id <= 0 {
		return model.AppointmentView{}, invalid("appointment id required")
	}
	v, err := m.store.AppointmentView(ctx, id)
	if err != nil {
		return model.AppointmentView{}, m.fail(ctx, "get appointment", err)
	}
	return v, nil
}

func (m *Manager) ListForCustomer(ctx context.Context, customerID int64, f Filter) ([]model.AppointmentView, error) {
	if customerID <= 0 {
		return nil, invalid("customer id required")
	}
	scope, err := f.scope()
	if err != nil {
		return nil, err
	}
	scope.CustomerID = customerID
	return m.list(ctx, scope)
}

func (m *Manager) ListForBusiness(ctx context.Context, businessID int64, f Filter) ([]model.AppointmentView, error) {
	if businessID <= 0 {
		return nil, invalid("business id required")
	}
	scope, err := f.scope()
	if err != nil {
		return nil, err
	}
	scope.BusinessID = businessID
	return m.list(ctx, scope)
}

// ListAll lists appointments across every business.
func (m *Manager) ListAll(ctx context.Context, f Filter) ([]model.AppointmentView, error) {
	scope, err := f.scope()
	if err != nil {
		return nil, err
	}
	return m.list(ctx, scope)
}

// Availability returns the bookable windows for a business, or one of its
// employees, on date.
func (m *Manager) Availability(ctx context.Context, businessID int64, employeeID *int64, date string) ([]Window, error) {
	ws, err := NewResolver(m.store).ResolveDate(ctx, businessID, employeeID, date)
	if err != nil {
		return nil, m.fail(ctx, "resolve availability", err)
	}
	return ws, nil
}

func (m *Manager) list(ctx context.Context, scope Scope) ([]model.AppointmentView, error) {
	out, err := m.store.ListAppointments(ctx, scope)
	if err != nil {
		return nil, m.fail(ctx, "list appointments", err)
	}
	return out, nil
}

// fail logs storage problems and hides their detail from the caller.
func (m *Manager) fail(ctx context.Context, op string, err error) error {
	if isDomain(err) {
		return err
	}
	m.logger.ErrorContext(ctx, op+" failed", "err", err)
	return fmt.Errorf("%w: %s", ErrStorage, op)
}

func (f Filter) scope() (Scope, error) {
	var s Scope
	if f.Date != "" {
		d, err := model.ParseDate(f.Date)
		if err != nil {
			return s, invalid("%v", err)
		}
		s.Date = &d
	}
	if f.Status != "" {
		st := model.Status(f.Status)
		if !st.Valid() {
			return s, invalid("unknown status %q", f.Status)
		}
		s.Status = &st
	}
	return s, nil
}

func apply(a model.Appointment, req UpdateRequest) (model.Appointment, error) {
	if req.Status != nil {
		if !req.Status.Valid() {
			return a, invalid("unknown status %q", *req.Status)
		}
		a.Status = *req.Status
	}
	if req.Date != nil {
		d, err := model.ParseDate(*req.Date)
		if err != nil {
			return a, invalid("%v", err)
		}
		a.Date = d
	}
	if req.Time != nil {
		c, err := model.ParseClock(*req.Time)
		if err != nil {
			return a, invalid("%v", err)
		}
		a.Start = c
	}
	switch {
	case req.ClearEmployee:
		a.EmployeeID = nil
	case req.EmployeeID != nil:
		if *req.EmployeeID <= 0 {
			return a, invalid("employee_id must be positive")
		}
		id := *req.EmployeeID
		a.EmployeeID = &id
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}
	return a, nil
}

func parseSlot(date, clock string) (time.Time, model.Clock, error) {
	if date == "" {
		return time.Time{}, 0, invalid("appointment_date required")
	}
	if clock == "" {
		return time.Time{}, 0, invalid("appointment_time required")
	}
	d, err := model.ParseDate(date)
	if err != nil {
		return time.Time{}, 0, invalid("%v", err)
	}
	c, err := model.ParseClock(clock)
	if err != nil {
		return time.Time{}, 0, invalid("%v", err)
	}
	return d, c, nil
}

func proposalFor(a model.Appointment) Proposal {
	return Proposal{
		BusinessID:      a.BusinessID,
		EmployeeID:      a.EmployeeID,
		Date:            a.Date,
		Start:           a.Start,
		DurationMinutes: a.DurationMinutes,
		ExcludeID:       a.ID,
	}
}
