package booking

import (
	"context"
	"fmt"
	"time"

	"appointment-booking-api/internal/model"
)

// Catalog is the read-only view of businesses, employees, schedules,
// services and customers. Lookups of missing rows return ErrNotFound.
type Catalog interface {
	Business(ctx context.Context, id int64) (model.Business, error)
	Employee(ctx context.Context, id int64) (model.Employee, error)
	Schedules(ctx context.Context, employeeID int64, weekday time.Weekday) ([]model.EmployeeSchedule, error)
	Service(ctx context.Context, id int64) (model.Service, error)
	Customer(ctx context.Context, id int64) (model.Customer, error)
}

// Occupancy lists appointments holding a slot key.
type Occupancy interface {
	// Occupied returns appointments on key whose status occupies the slot,
	// skipping excludeID (0 skips nothing).
	Occupied(ctx context.Context, key SlotKey, excludeID int64) ([]model.Appointment, error)
}

// Scope selects the appointments of one customer or one business; with
// neither set it selects every appointment.
type Scope struct {
	CustomerID int64
	BusinessID int64
	Date       *time.Time
	Status     *model.Status
}

type Reader interface {
	Catalog
	Occupancy
	AppointmentView(ctx context.Context, id int64) (model.AppointmentView, error)
	// ListAppointments returns views newest date+time first.
	ListAppointments(ctx context.Context, scope Scope) ([]model.AppointmentView, error)
}

// Tx is one unit of work. Nothing written through it is visible to
// others until the surrounding Atomic call returns nil.
type Tx interface {
	Reader
	// LockSlot serializes writers on key until the transaction ends.
	LockSlot(ctx context.Context, key SlotKey) error
	AppointmentForUpdate(ctx context.Context, id int64) (model.Appointment, error)
	// InsertAppointment assigns a.ID.
	InsertAppointment(ctx context.Context, a *model.Appointment) error
	UpdateAppointment(ctx context.Context, a *model.Appointment) error
}

// Store is the persistence capability the lifecycle manager is built on.
type Store interface {
	Reader
	// Atomic runs fn in a transaction; any error from fn rolls it back.
	Atomic(ctx context.Context, fn func(Tx) error) error
}

// SlotKey identifies the resource a booking occupies on one day.
// A nil EmployeeID is the business itself.
type SlotKey struct {
	BusinessID int64
	EmployeeID *int64
	Date       time.Time
}

func KeyOf(a model.Appointment) SlotKey {
	return SlotKey{BusinessID: a.BusinessID, EmployeeID: a.EmployeeID, Date: a.Date}
}

func (k SlotKey) String() string {
	emp := "-"
	if k.EmployeeID != nil {
		emp = fmt.Sprint(*k.EmployeeID)
	}
	return fmt.Sprintf("%d/%s/%s", k.BusinessID, emp, k.Date.Format(model.DateLayout))
}

// Same reports whether both keys name the same resource and day.
func (k SlotKey) Same(o SlotKey) bool {
	if k.BusinessID != o.BusinessID || !k.Date.Equal(o.Date) {
		return false
	}
	if k.EmployeeID == nil || o.EmployeeID == nil {
		return k.EmployeeID == nil && o.EmployeeID == nil
	}
	return *k.EmployeeID == *o.EmployeeID
}
