package handler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	bookingv1 "appointment-booking-api/api/bookingv1"
	"appointment-booking-api/internal/auth"
	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/handler"
	"appointment-booking-api/internal/middleware"
	"appointment-booking-api/internal/model"
	"appointment-booking-api/internal/store/memstore"
)

const (
	secret = "test-secret"
	monday = "2026-10-19"
)

type world struct {
	h        *handler.Handler
	st       *memstore.Store
	customer model.Customer
	other    model.Customer
	business model.Business
	rival    model.Business
	employee model.Employee
	service  model.Service
	admin    model.Admin
}

func setup(t *testing.T) *world {
	t.Helper()
	hash, err := auth.HashPassword("testpass123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	st := memstore.New()
	w := &world{st: st}
	w.customer = st.AddCustomer(model.Customer{Name: "Login User", Email: "user@test.com", Phone: "555", PasswordHash: hash})
	w.other = st.AddCustomer(model.Customer{Name: "Other", Email: "other@test.com", PasswordHash: hash})
	w.business = st.AddBusiness(model.Business{
		Name: "Studio", Email: "studio@test.com", PasswordHash: hash,
		OpeningTime: model.MustClock("09:00"), ClosingTime: model.MustClock("18:00"), IsActive: true,
	})
	w.rival = st.AddBusiness(model.Business{
		Name: "Rival", Email: "rival@test.com", PasswordHash: hash,
		OpeningTime: model.MustClock("09:00"), ClosingTime: model.MustClock("18:00"), IsActive: true,
	})
	w.employee = st.AddEmployee(model.Employee{BusinessID: w.business.ID, Name: "Stylist", IsActive: true})
	st.AddSchedule(model.EmployeeSchedule{
		EmployeeID: w.employee.ID, DayOfWeek: int(time.Monday),
		StartTime: model.MustClock("09:30"), EndTime: model.MustClock("18:30"), IsAvailable: true,
	})
	w.service = st.AddService(model.Service{BusinessID: w.business.ID, Name: "Colour", DurationMinutes: 45, Price: 750, IsActive: true})
	w.admin = st.AddAdmin(model.Admin{Name: "Root", Email: "root@test.com", PasswordHash: hash})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := booking.NewManager(st, logger)
	w.h = handler.New(m, st, secret, time.Hour, logger)
	return w
}

func as(kind model.ActorKind, id int64) context.Context {
	return middleware.WithActor(context.Background(), model.Actor{Kind: kind, ID: id})
}

func (w *world) asCustomer() context.Context { return as(model.ActorCustomer, w.customer.ID) }

func (w *world) create(t *testing.T, ctx context.Context, at string) *bookingv1.Appointment {
	t.Helper()
	emp := w.employee.ID
	resp, err := w.h.CreateAppointment(ctx, &bookingv1.CreateAppointmentRequest{
		CustomerID:      w.customer.ID,
		BusinessID:      w.business.ID,
		EmployeeID:      &emp,
		ServiceID:       w.service.ID,
		AppointmentDate: monday,
		AppointmentTime: at,
	})
	if err != nil {
		t.Fatalf("create %s: %v", at, err)
	}
	return resp.Appointment
}

func code(err error) codes.Code {
	return status.Code(err)
}

func strp(s string) *string { return &s }

// ----- auth -----

func TestLoginSuccess(t *testing.T) {
	w := setup(t)

	tests := []struct {
		email, kind string
		wantID      int64
		wantName    string
	}{
		{"user@test.com", "", w.customer.ID, "Login User"},
		{"USER@test.com", "customer", w.customer.ID, "Login User"},
		{"studio@test.com", "business", w.business.ID, "Studio"},
		{"root@test.com", "admin", w.admin.ID, "Root"},
	}
	for _, tt := range tests {
		t.Run(tt.email+"/"+tt.kind, func(t *testing.T) {
			lr, err := w.h.Login(context.Background(), &bookingv1.LoginRequest{
				Email: tt.email, Password: "testpass123", UserType: tt.kind,
			})
			if err != nil {
				t.Fatalf("login: %v", err)
			}
			if lr.UserID != tt.wantID || lr.Name != tt.wantName {
				t.Errorf("got %+v", lr)
			}
			c, err := auth.ParseToken(lr.Token, secret)
			if err != nil {
				t.Fatalf("token: %v", err)
			}
			if c.UserID != tt.wantID || string(c.Type) != lr.UserType {
				t.Errorf("claims: %+v", c)
			}
		})
	}
}

func TestLoginFailures(t *testing.T) {
	w := setup(t)

	tests := []struct {
		name string
		req  *bookingv1.LoginRequest
		code codes.Code
	}{
		{"empty email", &bookingv1.LoginRequest{Password: "testpass123"}, codes.InvalidArgument},
		{"empty password", &bookingv1.LoginRequest{Email: "user@test.com"}, codes.InvalidArgument},
		{"bad user type", &bookingv1.LoginRequest{Email: "user@test.com", Password: "testpass123", UserType: "guest"}, codes.InvalidArgument},
		{"wrong password", &bookingv1.LoginRequest{Email: "user@test.com", Password: "wrongpassword"}, codes.Unauthenticated},
		{"nonexistent", &bookingv1.LoginRequest{Email: "nobody@nowhere.com", Password: "testpass123"}, codes.Unauthenticated},
		{"wrong kind", &bookingv1.LoginRequest{Email: "user@test.com", Password: "testpass123", UserType: "admin"}, codes.Unauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.h.Login(context.Background(), tt.req)
			if code(err) != tt.code {
				t.Errorf("expected %v, got %v", tt.code, err)
			}
		})
	}
}

func TestRegisterCustomer(t *testing.T) {
	w := setup(t)
	ctx := context.Background()

	rr, err := w.h.RegisterCustomer(ctx, &bookingv1.RegisterCustomerRequest{
		Name: "New Customer", Email: " New@Test.com ", Phone: "5551234567", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if rr.UserID == 0 || rr.UserType != "customer" || rr.Name != "New Customer" {
		t.Errorf("got %+v", rr)
	}
	c, err := auth.ParseToken(rr.Token, secret)
	if err != nil || c.UserID != rr.UserID || c.Type != model.ActorCustomer {
		t.Errorf("token: %+v %v", c, err)
	}

	// the stored hash accepts the password
	lr, err := w.h.Login(ctx, &bookingv1.LoginRequest{Email: "new@test.com", Password: "secret1"})
	if err != nil || lr.UserID != rr.UserID {
		t.Errorf("login after register: %+v %v", lr, err)
	}

	tests := []struct {
		name string
		req  *bookingv1.RegisterCustomerRequest
	}{
		{"missing phone", &bookingv1.RegisterCustomerRequest{Name: "X", Email: "x@test.com", Password: "secret1"}},
		{"short password", &bookingv1.RegisterCustomerRequest{Name: "X", Email: "x@test.com", Phone: "1", Password: "12345"}},
		{"bad email", &bookingv1.RegisterCustomerRequest{Name: "X", Email: "x-at-test", Phone: "1", Password: "secret1"}},
		{"duplicate email", &bookingv1.RegisterCustomerRequest{Name: "X", Email: "USER@test.com", Phone: "1", Password: "secret1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.h.RegisterCustomer(ctx, tt.req)
			if code(err) != codes.InvalidArgument {
				t.Errorf("expected InvalidArgument, got %v", err)
			}
		})
	}
}

func TestRegisterBusiness(t *testing.T) {
	w := setup(t)
	ctx := context.Background()

	rr, err := w.h.RegisterBusiness(ctx, &bookingv1.RegisterBusinessRequest{
		BusinessName: "Night Owl", OwnerName: "Owner", Email: "owl@test.com", Phone: "555",
		Password: "secret1", OpeningTime: "12:00", ClosingTime: "24:00",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if rr.UserType != "business" || rr.Name != "Night Owl" {
		t.Errorf("got %+v", rr)
	}

	// hours are stored and used for availability
	av, err := w.h.GetAvailability(w.asCustomer(), &bookingv1.GetAvailabilityRequest{BusinessID: rr.UserID, Date: monday})
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(av.Windows) != 1 || av.Windows[0] != (bookingv1.Window{Start: "12:00:00", End: "24:00:00"}) {
		t.Errorf("windows: %+v", av.Windows)
	}

	if _, err := w.h.Login(ctx, &bookingv1.LoginRequest{Email: "owl@test.com", Password: "secret1", UserType: "business"}); err != nil {
		t.Errorf("login after register: %v", err)
	}

	tests := []struct {
		name string
		req  *bookingv1.RegisterBusinessRequest
	}{
		{"missing owner", &bookingv1.RegisterBusinessRequest{BusinessName: "B", Email: "b@test.com", Phone: "1", Password: "secret1"}},
		{"closing before opening", &bookingv1.RegisterBusinessRequest{BusinessName: "B", OwnerName: "O", Email: "b@test.com", Phone: "1", Password: "secret1", OpeningTime: "18:00", ClosingTime: "09:00"}},
		{"bad hours", &bookingv1.RegisterBusinessRequest{BusinessName: "B", OwnerName: "O", Email: "b@test.com", Phone: "1", Password: "secret1", OpeningTime: "noon"}},
		{"duplicate email", &bookingv1.RegisterBusinessRequest{BusinessName: "B", OwnerName: "O", Email: "studio@test.com", Phone: "1", Password: "secret1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.h.RegisterBusiness(ctx, tt.req)
			if code(err) != codes.InvalidArgument {
				t.Errorf("expected InvalidArgument, got %v", err)
			}
		})
	}
}

func TestRegisterStorageFailure(t *testing.T) {
	w := setup(t)
	w.st.FailWrites(errors.New("connection reset"))
	_, err := w.h.RegisterCustomer(context.Background(), &bookingv1.RegisterCustomerRequest{
		Name: "X", Email: "x@test.com", Phone: "1", Password: "secret1",
	})
	s, _ := status.FromError(err)
	if s.Code() != codes.Internal || s.Message() != "internal error" {
		t.Errorf("got %v %q", s.Code(), s.Message())
	}
}

// ----- appointments -----

func TestCreateAppointment(t *testing.T) {
	w := setup(t)
	a := w.create(t, w.asCustomer(), "09:30")

	if a.ID == 0 || a.Status != "pending" {
		t.Errorf("got %+v", a)
	}
	if a.AppointmentTime != "09:30:00" || a.EndTime != "10:15:00" || a.AppointmentDate != monday {
		t.Errorf("slot: %s %s-%s", a.AppointmentDate, a.AppointmentTime, a.EndTime)
	}
	if a.CustomerName != "Login User" || a.BusinessName != "Studio" || a.EmployeeName != "Stylist" || a.ServiceName != "Colour" {
		t.Errorf("joined fields: %+v", a)
	}
}

func TestCreateStatusCodes(t *testing.T) {
	w := setup(t)
	ctx := w.asCustomer()
	w.create(t, ctx, "09:30")

	emp := w.employee.ID
	tests := []struct {
		name string
		ctx  context.Context
		req  bookingv1.CreateAppointmentRequest
		code codes.Code
	}{
		{"out of hours", ctx, bookingv1.CreateAppointmentRequest{AppointmentTime: "09:00"}, codes.OutOfRange},
		{"overlap", ctx, bookingv1.CreateAppointmentRequest{AppointmentTime: "10:00"}, codes.AlreadyExists},
		{"bad time", ctx, bookingv1.CreateAppointmentRequest{AppointmentTime: "9am"}, codes.InvalidArgument},
		{"unknown service", ctx, bookingv1.CreateAppointmentRequest{AppointmentTime: "12:00", ServiceID: 999}, codes.NotFound},
		{"for another customer", ctx, bookingv1.CreateAppointmentRequest{AppointmentTime: "12:00", CustomerID: w.other.ID}, codes.PermissionDenied},
		{"business for rival", as(model.ActorBusiness, w.rival.ID), bookingv1.CreateAppointmentRequest{AppointmentTime: "12:00"}, codes.PermissionDenied},
		{"no actor", context.Background(), bookingv1.CreateAppointmentRequest{AppointmentTime: "12:00"}, codes.Unauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if req.CustomerID == 0 {
				req.CustomerID = w.customer.ID
			}
			if req.BusinessID == 0 {
				req.BusinessID = w.business.ID
			}
			if req.ServiceID == 0 {
				req.ServiceID = w.service.ID
			}
			req.EmployeeID = &emp
			req.AppointmentDate = monday
			_, err := w.h.CreateAppointment(tt.ctx, &req)
			if code(err) != tt.code {
				t.Errorf("expected %v, got %v", tt.code, err)
			}
		})
	}
}

func TestBusinessCreatesForCustomer(t *testing.T) {
	w := setup(t)
	resp, err := w.h.CreateAppointment(as(model.ActorBusiness, w.business.ID), &bookingv1.CreateAppointmentRequest{
		CustomerID:      w.other.ID,
		ServiceID:       w.service.ID,
		AppointmentDate: monday,
		AppointmentTime: "09:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Appointment.BusinessID != w.business.ID || resp.Appointment.EmployeeID != nil {
		t.Errorf("got %+v", resp.Appointment)
	}
}

func TestGetAppointmentVisibility(t *testing.T) {
	w := setup(t)
	a := w.create(t, w.asCustomer(), "11:00")

	tests := []struct {
		name string
		ctx  context.Context
		code codes.Code
	}{
		{"owner", w.asCustomer(), codes.OK},
		{"business", as(model.ActorBusiness, w.business.ID), codes.OK},
		{"admin", as(model.ActorAdmin, w.admin.ID), codes.OK},
		// 404 not 403 to hide existence
		{"other customer", as(model.ActorCustomer, w.other.ID), codes.NotFound},
		{"rival business", as(model.ActorBusiness, w.rival.ID), codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.h.GetAppointment(tt.ctx, &bookingv1.GetAppointmentRequest{ID: a.ID})
			if code(err) != tt.code {
				t.Errorf("expected %v, got %v", tt.code, err)
			}
		})
	}

	if _, err := w.h.GetAppointment(w.asCustomer(), &bookingv1.GetAppointmentRequest{ID: 4242}); code(err) != codes.NotFound {
		t.Errorf("missing: expected NotFound, got %v", err)
	}
	if _, err := w.h.GetAppointment(w.asCustomer(), &bookingv1.GetAppointmentRequest{}); code(err) != codes.InvalidArgument {
		t.Errorf("no id: expected InvalidArgument, got %v", err)
	}
}

func TestUpdateAppointmentRules(t *testing.T) {
	w := setup(t)
	a := w.create(t, w.asCustomer(), "11:00")
	biz := as(model.ActorBusiness, w.business.ID)

	steps := []struct {
		name string
		ctx  context.Context
		req  bookingv1.UpdateAppointmentRequest
		code codes.Code
	}{
		{"customer confirms", w.asCustomer(), bookingv1.UpdateAppointmentRequest{Status: strp("confirmed")}, codes.PermissionDenied},
		{"customer edits notes", w.asCustomer(), bookingv1.UpdateAppointmentRequest{Notes: strp("window seat")}, codes.OK},
		{"other customer", as(model.ActorCustomer, w.other.ID), bookingv1.UpdateAppointmentRequest{Notes: strp("x")}, codes.NotFound},
		{"business completes pending", biz, bookingv1.UpdateAppointmentRequest{Status: strp("completed")}, codes.FailedPrecondition},
		{"business confirms", biz, bookingv1.UpdateAppointmentRequest{Status: strp("confirmed")}, codes.OK},
		{"unknown status", biz, bookingv1.UpdateAppointmentRequest{Status: strp("archived")}, codes.InvalidArgument},
		{"reschedule out of hours", w.asCustomer(), bookingv1.UpdateAppointmentRequest{AppointmentTime: strp("17:45")}, codes.OutOfRange},
		{"customer reschedules", w.asCustomer(), bookingv1.UpdateAppointmentRequest{AppointmentTime: strp("14:00")}, codes.OK},
		{"customer cancels", w.asCustomer(), bookingv1.UpdateAppointmentRequest{Status: strp("cancelled")}, codes.OK},
		{"reschedule cancelled", biz, bookingv1.UpdateAppointmentRequest{AppointmentTime: strp("15:00")}, codes.FailedPrecondition},
	}
	for _, s := range steps {
		req := s.req
		req.ID = a.ID
		_, err := w.h.UpdateAppointment(s.ctx, &req)
		if code(err) != s.code {
			t.Fatalf("%s: expected %v, got %v", s.name, s.code, err)
		}
	}

	got, err := w.h.GetAppointment(w.asCustomer(), &bookingv1.GetAppointmentRequest{ID: a.ID})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Appointment.Status != "cancelled" || got.Appointment.AppointmentTime != "14:00:00" || got.Appointment.Notes != "window seat" {
		t.Errorf("final state: %+v", got.Appointment)
	}
}

func TestListPermissions(t *testing.T) {
	w := setup(t)
	w.create(t, w.asCustomer(), "10:00")
	w.create(t, w.asCustomer(), "13:00")

	resp, err := w.h.ListCustomerAppointments(w.asCustomer(), &bookingv1.ListCustomerAppointmentsRequest{CustomerID: w.customer.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Appointments) != 2 || resp.Appointments[0].AppointmentTime != "13:00:00" {
		t.Errorf("customer list: %+v", resp.Appointments)
	}

	resp, err = w.h.ListBusinessAppointments(as(model.ActorBusiness, w.business.ID), &bookingv1.ListBusinessAppointmentsRequest{
		BusinessID: w.business.ID, Status: "pending",
	})
	if err != nil || len(resp.Appointments) != 2 {
		t.Errorf("business list: %v %v", resp, err)
	}

	denied := []error{}
	_, err = w.h.ListCustomerAppointments(as(model.ActorCustomer, w.other.ID), &bookingv1.ListCustomerAppointmentsRequest{CustomerID: w.customer.ID})
	denied = append(denied, err)
	_, err = w.h.ListBusinessAppointments(as(model.ActorBusiness, w.rival.ID), &bookingv1.ListBusinessAppointmentsRequest{BusinessID: w.business.ID})
	denied = append(denied, err)
	_, err = w.h.ListBusinessAppointments(w.asCustomer(), &bookingv1.ListBusinessAppointmentsRequest{BusinessID: w.business.ID})
	denied = append(denied, err)
	for i, err := range denied {
		if code(err) != codes.PermissionDenied {
			t.Errorf("case %d: expected PermissionDenied, got %v", i, err)
		}
	}

	if _, err := w.h.ListCustomerAppointments(as(model.ActorAdmin, w.admin.ID), &bookingv1.ListCustomerAppointmentsRequest{CustomerID: w.customer.ID}); err != nil {
		t.Errorf("admin list: %v", err)
	}
}

func TestListAllAppointments(t *testing.T) {
	w := setup(t)
	w.create(t, w.asCustomer(), "09:30")
	w.create(t, as(model.ActorBusiness, w.business.ID), "11:00")

	resp, err := w.h.ListAllAppointments(as(model.ActorAdmin, w.admin.ID), &bookingv1.ListAllAppointmentsRequest{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(resp.Appointments) != 2 || resp.Appointments[0].AppointmentTime != "11:00:00" {
		t.Errorf("got %d appointments", len(resp.Appointments))
	}

	resp, err = w.h.ListAllAppointments(as(model.ActorAdmin, w.admin.ID), &bookingv1.ListAllAppointmentsRequest{Status: "cancelled"})
	if err != nil || len(resp.Appointments) != 0 {
		t.Errorf("status filter: %v %v", resp, err)
	}

	tests := []struct {
		name string
		ctx  context.Context
		req  *bookingv1.ListAllAppointmentsRequest
		code codes.Code
	}{
		{"customer", w.asCustomer(), &bookingv1.ListAllAppointmentsRequest{}, codes.PermissionDenied},
		{"business", as(model.ActorBusiness, w.business.ID), &bookingv1.ListAllAppointmentsRequest{}, codes.PermissionDenied},
		{"no actor", context.Background(), &bookingv1.ListAllAppointmentsRequest{}, codes.Unauthenticated},
		{"bad status", as(model.ActorAdmin, w.admin.ID), &bookingv1.ListAllAppointmentsRequest{Status: "archived"}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.h.ListAllAppointments(tt.ctx, tt.req)
			if code(err) != tt.code {
				t.Errorf("expected %v, got %v", tt.code, err)
			}
		})
	}
}

func TestGetAvailability(t *testing.T) {
	w := setup(t)
	emp := w.employee.ID
	resp, err := w.h.GetAvailability(w.asCustomer(), &bookingv1.GetAvailabilityRequest{
		BusinessID: w.business.ID, EmployeeID: &emp, Date: monday,
	})
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(resp.Windows) != 1 || resp.Windows[0] != (bookingv1.Window{Start: "09:30:00", End: "18:00:00"}) {
		t.Errorf("windows: %+v", resp.Windows)
	}

	_, err = w.h.GetAvailability(w.asCustomer(), &bookingv1.GetAvailabilityRequest{BusinessID: w.business.ID, Date: "tomorrow"})
	if code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestStorageFailureIsInternal(t *testing.T) {
	w := setup(t)
	w.st.FailWrites(errors.New("disk full on /var/lib/postgresql"))

	emp := w.employee.ID
	_, err := w.h.CreateAppointment(w.asCustomer(), &bookingv1.CreateAppointmentRequest{
		ServiceID: w.service.ID, BusinessID: w.business.ID, EmployeeID: &emp,
		AppointmentDate: monday, AppointmentTime: "09:30",
	})
	s, _ := status.FromError(err)
	if s.Code() != codes.Internal || s.Message() != "internal error" {
		t.Errorf("got %v %q", s.Code(), s.Message())
	}
}

func TestConcurrentBooking(t *testing.T) {
	w := setup(t)
	ctx := w.asCustomer()
	emp := w.employee.ID

	const n = 10
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.h.CreateAppointment(ctx, &bookingv1.CreateAppointmentRequest{
				ServiceID: w.service.ID, BusinessID: w.business.ID, EmployeeID: &emp,
				AppointmentDate: monday, AppointmentTime: "16:00",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	conflicts := 0
	for err := range results {
		if err == nil {
			successes++
		} else if s, ok := status.FromError(err); ok && s.Code() == codes.AlreadyExists {
			conflicts++
		} else {
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly 1 success, got %d", successes)
	}
	if conflicts != n-1 {
		t.Errorf("expected %d conflicts, got %d", n-1, conflicts)
	}
}
