// Package memstore keeps the whole booking schema in memory. It is the
// storage used by tests; transactions are serialized on one mutex and
// rolled back by discarding a copy of the appointment table.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/model"
)

var (
	_ booking.Store = (*Store)(nil)
	_ booking.Tx    = (*tx)(nil)
)

type Store struct {
	mu sync.Mutex
	st *state

	failWrites error
	locks      []string
}

type state struct {
	customers    map[int64]model.Customer
	businesses   map[int64]model.Business
	employees    map[int64]model.Employee
	schedules    []model.EmployeeSchedule
	services     map[int64]model.Service
	admins       map[int64]model.Admin
	appointments map[int64]model.Appointment
	nextID       int64
}

func New() *Store {
	return &Store{st: &state{
		customers:    map[int64]model.Customer{},
		businesses:   map[int64]model.Business{},
		employees:    map[int64]model.Employee{},
		services:     map[int64]model.Service{},
		admins:       map[int64]model.Admin{},
		appointments: map[int64]model.Appointment{},
	}}
}

// ---- seeding ----

func (s *Store) AddCustomer(c model.Customer) model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.st.id()
	}
	s.st.customers[c.ID] = c
	return c
}

func (s *Store) AddBusiness(b model.Business) model.Business {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.st.id()
	}
	s.st.businesses[b.ID] = b
	return b
}

func (s *Store) AddEmployee(e model.Employee) model.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.st.id()
	}
	s.st.employees[e.ID] = e
	return e
}

func (s *Store) AddSchedule(row model.EmployeeSchedule) model.EmployeeSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row.ID == 0 {
		row.ID = s.st.id()
	}
	s.st.schedules = append(s.st.schedules, row)
	return row
}

func (s *Store) AddService(svc model.Service) model.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID == 0 {
		svc.ID = s.st.id()
	}
	s.st.services[svc.ID] = svc
	return svc
}

func (s *Store) AddAdmin(a model.Admin) model.Admin {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.st.id()
	}
	s.st.admins[a.ID] = a
	return a
}

// SetService overwrites a service row, e.g. to change its duration.
func (s *Store) SetService(svc model.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.services[svc.ID] = svc
}

// FailWrites makes every following insert or update return err.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = err
}

// Appointments returns the committed appointment rows ordered by id.
func (s *Store) Appointments() []model.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Appointment, 0, len(s.st.appointments))
	for _, a := range s.st.appointments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Locks returns the slot keys locked so far, in order.
func (s *Store) Locks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.locks...)
}

// ---- booking.Store ----

func (s *Store) Atomic(ctx context.Context, fn func(booking.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(&tx{s: s, st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) Business(ctx context.Context, id int64) (model.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.business(id)
}

func (s *Store) Employee(ctx context.Context, id int64) (model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.employee(id)
}

func (s *Store) Schedules(ctx context.Context, employeeID int64, weekday time.Weekday) ([]model.EmployeeSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.schedulesFor(employeeID, weekday), nil
}

func (s *Store) Service(ctx context.Context, id int64) (model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.service(id)
}

func (s *Store) Customer(ctx context.Context, id int64) (model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.customer(id)
}

func (s *Store) Occupied(ctx context.Context, key booking.SlotKey, excludeID int64) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.occupied(key, excludeID), nil
}

func (s *Store) AppointmentView(ctx context.Context, id int64) (model.AppointmentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.view(id)
}

func (s *Store) ListAppointments(ctx context.Context, scope booking.Scope) ([]model.AppointmentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.list(scope)
}

// Credentials looks up a login by actor kind and email.
func (s *Store) Credentials(ctx context.Context, kind model.ActorKind, email string) (model.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	match := func(v string) bool { return strings.ToLower(v) == email }
	switch kind {
	case model.ActorCustomer:
		for _, c := range s.st.customers {
			if match(c.Email) {
				return model.Credentials{Actor: model.Actor{Kind: kind, ID: c.ID}, Name: c.Name, PasswordHash: c.PasswordHash}, nil
			}
		}
	case model.ActorBusiness:
		for _, b := range s.st.businesses {
			if match(b.Email) && b.IsActive {
				return model.Credentials{Actor: model.Actor{Kind: kind, ID: b.ID}, Name: b.Name, PasswordHash: b.PasswordHash}, nil
			}
		}
	case model.ActorAdmin:
		for _, a := range s.st.admins {
			if match(a.Email) {
				return model.Credentials{Actor: model.Actor{Kind: kind, ID: a.ID}, Name: a.Name, PasswordHash: a.PasswordHash}, nil
			}
		}
	}
	return model.Credentials{}, fmt.Errorf("%w: %s %s", booking.ErrNotFound, kind, email)
}

func (s *Store) CreateCustomer(ctx context.Context, c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return s.failWrites
	}
	for _, have := range s.st.customers {
		if strings.EqualFold(have.Email, c.Email) {
			return model.ErrEmailTaken
		}
	}
	c.ID = s.st.id()
	c.CreatedAt = time.Now().UTC()
	s.st.customers[c.ID] = *c
	return nil
}

func (s *Store) CreateBusiness(ctx context.Context, b *model.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return s.failWrites
	}
	for _, have := range s.st.businesses {
		if strings.EqualFold(have.Email, b.Email) {
			return model.ErrEmailTaken
		}
	}
	b.ID = s.st.id()
	b.IsActive = true
	s.st.businesses[b.ID] = *b
	return nil
}

// ---- transaction ----

type tx struct {
	s  *Store
	st *state
}

func (t *tx) Business(ctx context.Context, id int64) (model.Business, error) {
	return t.st.business(id)
}

func (t *tx) Employee(ctx context.Context, id int64) (model.Employee, error) {
	return t.st.employee(id)
}

func (t *tx) Schedules(ctx context.Context, employeeID int64, weekday time.Weekday) ([]model.EmployeeSchedule, error) {
	return t.st.schedulesFor(employeeID, weekday), nil
}

func (t *tx) Service(ctx context.Context, id int64) (model.Service, error) {
	return t.st.service(id)
}

func (t *tx) Customer(ctx context.Context, id int64) (model.Customer, error) {
	return t.st.customer(id)
}

func (t *tx) Occupied(ctx context.Context, key booking.SlotKey, excludeID int64) ([]model.Appointment, error) {
	return t.st.occupied(key, excludeID), nil
}

func (t *tx) AppointmentView(ctx context.Context, id int64) (model.AppointmentView, error) {
	return t.st.view(id)
}

func (t *tx) ListAppointments(ctx context.Context, scope booking.Scope) ([]model.AppointmentView, error) {
	return t.st.list(scope)
}

func (t *tx) LockSlot(ctx context.Context, key booking.SlotKey) error {
	t.s.locks = append(t.s.locks, key.String())
	return nil
}

func (t *tx) AppointmentForUpdate(ctx context.Context, id int64) (model.Appointment, error) {
	a, ok := t.st.appointments[id]
	if !ok {
		return model.Appointment{}, fmt.Errorf("%w: appointment %d", booking.ErrNotFound, id)
	}
	return a, nil
}

func (t *tx) InsertAppointment(ctx context.Context, a *model.Appointment) error {
	if t.s.failWrites != nil {
		return t.s.failWrites
	}
	a.ID = t.st.id()
	t.st.appointments[a.ID] = *a
	return nil
}

func (t *tx) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	if t.s.failWrites != nil {
		return t.s.failWrites
	}
	if _, ok := t.st.appointments[a.ID]; !ok {
		return fmt.Errorf("%w: appointment %d", booking.ErrNotFound, a.ID)
	}
	t.st.appointments[a.ID] = *a
	return nil
}

// ---- state ----

func (st *state) id() int64 {
	st.nextID++
	return st.nextID
}

// clone copies the appointment table; catalog rows are read-only inside
// a transaction and stay shared.
func (st *state) clone() *state {
	c := *st
	c.appointments = make(map[int64]model.Appointment, len(st.appointments))
	for id, a := range st.appointments {
		c.appointments[id] = a
	}
	return &c
}

func (st *state) business(id int64) (model.Business, error) {
	b, ok := st.businesses[id]
	if !ok {
		return b, fmt.Errorf("%w: business %d", booking.ErrNotFound, id)
	}
	return b, nil
}

func (st *state) employee(id int64) (model.Employee, error) {
	e, ok := st.employees[id]
	if !ok {
		return e, fmt.Errorf("%w: employee %d", booking.ErrNotFound, id)
	}
	return e, nil
}

func (st *state) service(id int64) (model.Service, error) {
	svc, ok := st.services[id]
	if !ok {
		return svc, fmt.Errorf("%w: service %d", booking.ErrNotFound, id)
	}
	return svc, nil
}

func (st *state) customer(id int64) (model.Customer, error) {
	c, ok := st.customers[id]
	if !ok {
		return c, fmt.Errorf("%w: customer %d", booking.ErrNotFound, id)
	}
	return c, nil
}

func (st *state) schedulesFor(employeeID int64, weekday time.Weekday) []model.EmployeeSchedule {
	var out []model.EmployeeSchedule
	for _, row := range st.schedules {
		if row.EmployeeID == employeeID && row.DayOfWeek == int(weekday) {
			out = append(out, row)
		}
	}
	return out
}

func (st *state) occupied(key booking.SlotKey, excludeID int64) []model.Appointment {
	var out []model.Appointment
	for _, a := range st.appointments {
		if a.ID == excludeID || !a.Status.Occupies() {
			continue
		}
		if booking.KeyOf(a).Same(key) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (st *state) view(id int64) (model.AppointmentView, error) {
	a, ok := st.appointments[id]
	if !ok {
		return model.AppointmentView{}, fmt.Errorf("%w: appointment %d", booking.ErrNotFound, id)
	}
	return st.join(a), nil
}

func (st *state) join(a model.Appointment) model.AppointmentView {
	v := model.AppointmentView{Appointment: a}
	if c, ok := st.customers[a.CustomerID]; ok {
		v.CustomerName, v.CustomerPhone = c.Name, c.Phone
	}
	if b, ok := st.businesses[a.BusinessID]; ok {
		v.BusinessName = b.Name
	}
	if a.EmployeeID != nil {
		if e, ok := st.employees[*a.EmployeeID]; ok {
			v.EmployeeName = e.Name
		}
	}
	if svc, ok := st.services[a.ServiceID]; ok {
		v.ServiceName, v.ServicePrice, v.ServiceDuration = svc.Name, svc.Price, svc.DurationMinutes
	}
	return v
}

func (st *state) list(scope booking.Scope) ([]model.AppointmentView, error) {
	var out []model.AppointmentView
	for _, a := range st.appointments {
		if scope.CustomerID != 0 && a.CustomerID != scope.CustomerID {
			continue
		}
		if scope.BusinessID != 0 && a.BusinessID != scope.BusinessID {
			continue
		}
		if scope.Date != nil && !a.Date.Equal(*scope.Date) {
			continue
		}
		if scope.Status != nil && a.Status != *scope.Status {
			continue
		}
		out = append(out, st.join(a))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.Start != b.Start {
			return a.Start > b.Start
		}
		return a.ID > b.ID
	})
	return out, nil
}
