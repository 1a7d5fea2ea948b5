package handler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	bookingv1 "appointment-booking-api/api/bookingv1"
	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/model"
)

// Identity finds the stored credentials of a login and opens new
// customer and business accounts.
type Identity interface {
	Credentials(ctx context.Context, kind model.ActorKind, email string) (model.Credentials, error)
	CreateCustomer(ctx context.Context, c *model.Customer) error
	CreateBusiness(ctx context.Context, b *model.Business) error
}

type Handler struct {
	bookingv1.UnimplementedBookingServiceServer
	manager *booking.Manager
	users   Identity
	secret  string
	ttl     time.Duration
	logger  *slog.Logger
}

func New(m *booking.Manager, users Identity, secret string, ttl time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{manager: m, users: users, secret: secret, ttl: ttl, logger: logger}
}

// toStatus maps engine errors onto gRPC codes. Anything outside the
// taxonomy is reported as a bare internal error.
func toStatus(err error) error {
	var c *booking.Conflict
	switch {
	case errors.As(err, &c) && errors.Is(c.Kind, booking.ErrSlotTaken):
		return status.Error(codes.AlreadyExists, c.Reason)
	case errors.As(err, &c) && errors.Is(c.Kind, booking.ErrOutOfHours):
		return status.Error(codes.OutOfRange, c.Reason)
	case errors.Is(err, booking.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, booking.ErrSlotTaken):
		return status.Error(codes.AlreadyExists, "slot already taken")
	case errors.Is(err, booking.ErrOutOfHours):
		return status.Error(codes.OutOfRange, "outside available hours")
	case errors.Is(err, booking.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}

func toMessage(v model.AppointmentView) *bookingv1.Appointment {
	return &bookingv1.Appointment{
		ID:              v.ID,
		CustomerID:      v.CustomerID,
		BusinessID:      v.BusinessID,
		EmployeeID:      v.EmployeeID,
		ServiceID:       v.ServiceID,
		AppointmentDate: v.Date.Format(model.DateLayout),
		AppointmentTime: v.Start.String(),
		EndTime:         v.End().String(),
		DurationMinutes: v.DurationMinutes,
		Status:          string(v.Status),
		Notes:           v.Notes,
		CreatedAt:       v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       v.UpdatedAt.UTC().Format(time.RFC3339),
		CustomerName:    v.CustomerName,
		CustomerPhone:   v.CustomerPhone,
		BusinessName:    v.BusinessName,
		EmployeeName:    v.EmployeeName,
		ServiceName:     v.ServiceName,
		ServicePrice:    v.ServicePrice,
		ServiceDuration: v.ServiceDuration,
	}
}

func toMessages(vs []model.AppointmentView) []*bookingv1.Appointment {
	out := make([]*bookingv1.Appointment, len(vs))
	for i := range vs {
		out[i] = toMessage(vs[i])
	}
	return out
}
