package model

import (
	"errors"
	"time"
)

// ErrEmailTaken is returned when an account email is already registered.
var ErrEmailTaken = errors.New("email already registered")

type Customer struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
}

type Business struct {
	ID          int64
	Name        string
	OwnerName   string
	Email       string
	Phone       string
	OpeningTime Clock
	ClosingTime Clock
	IsActive    bool

	PasswordHash string
}

type Admin struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}

type Employee struct {
	ID             int64
	BusinessID     int64
	Name           string
	Specialization string
	IsActive       bool
}

// EmployeeSchedule is one weekly recurring availability row.
// DayOfWeek follows time.Weekday: 0=Sunday .. 6=Saturday.
type EmployeeSchedule struct {
	ID          int64
	EmployeeID  int64
	DayOfWeek   int
	StartTime   Clock
	EndTime     Clock
	IsAvailable bool
}

type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	DurationMinutes int
	Price           float64
	IsActive        bool
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Occupies reports whether an appointment in this status holds its slot.
func (s Status) Occupies() bool {
	return s != StatusCancelled
}

type Appointment struct {
	ID         int64
	CustomerID int64
	BusinessID int64
	EmployeeID *int64
	ServiceID  int64
	Date       time.Time
	Start      Clock
	// captured from the service at booking time
	DurationMinutes int
	Status          Status
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (a Appointment) End() Clock {
	return a.Start.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// AppointmentView is an appointment joined with display fields of the
// records it references. The joined fields are never stored.
type AppointmentView struct {
	Appointment
	CustomerName    string
	CustomerPhone   string
	BusinessName    string
	EmployeeName    string
	ServiceName     string
	ServicePrice    float64
	ServiceDuration int
}

type ActorKind string

const (
	ActorCustomer ActorKind = "customer"
	ActorBusiness ActorKind = "business"
	ActorAdmin    ActorKind = "admin"
)

func (k ActorKind) Valid() bool {
	return k == ActorCustomer || k == ActorBusiness || k == ActorAdmin
}

// Actor is the verified caller identity handed over by the identity provider.
type Actor struct {
	Kind ActorKind
	ID   int64
}

// Credentials is what login needs to verify an actor.
type Credentials struct {
	Actor        Actor
	Name         string
	PasswordHash string
}
