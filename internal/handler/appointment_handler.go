package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	bookingv1 "appointment-booking-api/api/bookingv1"
	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/middleware"
	"appointment-booking-api/internal/model"
)

func caller(ctx context.Context) (model.Actor, error) {
	a, ok := middleware.ActorFrom(ctx)
	if !ok {
		return a, status.Error(codes.Unauthenticated, "no actor")
	}
	return a, nil
}

func canSee(a model.Actor, v model.AppointmentView) bool {
	switch a.Kind {
	case model.ActorAdmin:
		return true
	case model.ActorCustomer:
		return v.CustomerID == a.ID
	case model.ActorBusiness:
		return v.BusinessID == a.ID
	}
	return false
}

// visible loads an appointment the caller may see. Others get NotFound
// so ids of foreign appointments are not revealed.
func (h *Handler) visible(ctx context.Context, a model.Actor, id int64) (model.AppointmentView, error) {
	if id <= 0 {
		return model.AppointmentView{}, status.Error(codes.InvalidArgument, "id required")
	}
	v, err := h.manager.Get(ctx, id)
	if err != nil {
		return v, toStatus(err)
	}
	if !canSee(a, v) {
		return v, status.Error(codes.NotFound, "not found")
	}
	return v, nil
}

func (h *Handler) CreateAppointment(ctx context.Context, req *bookingv1.CreateAppointmentRequest) (*bookingv1.CreateAppointmentResponse, error) {
	a, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	customerID, businessID := req.CustomerID, req.BusinessID
	switch a.Kind {
	case model.ActorCustomer:
		if customerID == 0 {
			customerID = a.ID
		}
		if customerID != a.ID {
			return nil, status.Error(codes.PermissionDenied, "customers can only book for themselves")
		}
	case model.ActorBusiness:
		if businessID == 0 {
			businessID = a.ID
		}
		if businessID != a.ID {
			return nil, status.Error(codes.PermissionDenied, "cannot book for another business")
		}
	}

	v, err := h.manager.Create(ctx, booking.CreateRequest{
		CustomerID: customerID,
		BusinessID: businessID,
		EmployeeID: req.EmployeeID,
		ServiceID:  req.ServiceID,
		Date:       req.AppointmentDate,
		Time:       req.AppointmentTime,
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &bookingv1.CreateAppointmentResponse{Appointment: toMessage(v)}, nil
}

func (h *Handler) UpdateAppointment(ctx context.Context, req *bookingv1.UpdateAppointmentRequest) (*bookingv1.UpdateAppointmentResponse, error) {
	a, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	cur, err := h.visible(ctx, a, req.ID)
	if err != nil {
		return nil, err
	}

	upd := booking.UpdateRequest{
		Date:          req.AppointmentDate,
		Time:          req.AppointmentTime,
		EmployeeID:    req.EmployeeID,
		ClearEmployee: req.ClearEmployee,
		Notes:         req.Notes,
	}
	if req.Status != nil {
		s := model.Status(*req.Status)
		// customers may cancel but not confirm or complete
		if a.Kind == model.ActorCustomer && s != cur.Status && s != model.StatusCancelled {
			return nil, status.Error(codes.PermissionDenied, "customers can only cancel")
		}
		upd.Status = &s
	}

	v, err := h.manager.Update(ctx, req.ID, upd)
	if err != nil {
		return nil, toStatus(err)
	}
	return &bookingv1.UpdateAppointmentResponse{Appointment: toMessage(v)}, nil
}

func (h *Handler) GetAppointment(ctx context.Context, req *bookingv1.GetAppointmentRequest) (*bookingv1.GetAppointmentResponse, error) {
	a, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	v, err := h.visible(ctx, a, req.ID)
	if err != nil {
		return nil, err
	}
	return &bookingv1.GetAppointmentResponse{Appointment: toMessage(v)}, nil
}

func (h *Handler) ListCustomerAppointments(ctx context.Context, req *bookingv1.ListCustomerAppointmentsRequest) (*bookingv1.ListAppointmentsResponse, error) {
	a, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if a.Kind != model.ActorAdmin && !(a.Kind == model.ActorCustomer && a.ID == req.CustomerID) {
		return nil, status.Error(codes.PermissionDenied, "cannot list another customer's appointments")
	}

	vs, err := h.manager.ListForCustomer(ctx, req.CustomerID, booking.Filter{Date: req.Date, Status: req.Status})
	if err != nil {
		return nil, toStatus(err)
	}
	return &bookingv1.ListAppointmentsResponse{Appointments: toMessages(vs)}, nil
}

func (h *Handler) ListBusinessAppointments(ctx context.Context, req *bookingv1.ListBusinessAppointmentsRequest) (*bookingv1.ListAppointmentsResponse, error) {
	a, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if a.Kind != model.ActorAdmin && !(a.Kind == model.ActorBusiness && a.ID == req.BusinessID) {
		return nil, status.Error(codes.PermissionDenied, "cannot list another business's appointments")
	}

	vs, err := h.manager.ListForBusiness(ctx, req.BusinessID, booking.Filter{Date: req.Date, Status: req.Status})
	if err != nil {
		return nil, toStatus(err)
	}
	return &bookingv1.ListAppointmentsResponse{Appointments: toMessages(vs)}, nil
}

func (h *Handler) ListAllAppointments(ctx context.Context, req *bookingv1.ListAllAppointmentsRequest) (*bookingv1.ListAppointmentsResponse, error) {
	a, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if a.Kind != model.ActorAdmin {
		return nil, status.Error(codes.PermissionDenied, "admin only")
	}

	vs, err := h.manager.ListAll(ctx, booking.Filter{Date: req.Date, Status: req.Status})
	if err != nil {
		return nil, toStatus(err)
	}
	return &bookingv1.ListAppointmentsResponse{Appointments: toMessages(vs)}, nil
}

func (h *Handler) GetAvailability(ctx context.Context, req *bookingv1.GetAvailabilityRequest) (*bookingv1.GetAvailabilityResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	if req.BusinessID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "business_id required")
	}

	ws, err := h.manager.Availability(ctx, req.BusinessID, req.EmployeeID, req.Date)
	if err != nil {
		return nil, toStatus(err)
	}
	out := &bookingv1.GetAvailabilityResponse{
		BusinessID: req.BusinessID,
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		Windows:    make([]bookingv1.Window, len(ws)),
	}
	for i, w := range ws {
		out.Windows[i] = bookingv1.Window{Start: w.Start.String(), End: w.End.String()}
	}
	return out, nil
}
