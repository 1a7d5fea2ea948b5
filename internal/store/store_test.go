package store_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/model"
	"appointment-booking-api/internal/store"
)

const monday = "2026-10-19"

type seed struct {
	customer, business, employee, service int64
	email                                 string
}

func setup(t *testing.T) (*store.Store, *booking.Manager, seed) {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := store.Open(ctx, dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)

	st := store.New(pool)
	if err := st.Migrate(ctx, "../../db/migrations/001_init.sql"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var s seed
	tag := uuid.New().String()[:8]
	s.email = fmt.Sprintf("test-%s@test.com", tag)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	must(pool.QueryRow(ctx,
		`INSERT INTO customers (name, email, phone, password_hash) VALUES ($1,$2,'5550000000','x') RETURNING id`,
		"Customer "+tag, s.email).Scan(&s.customer))
	must(pool.QueryRow(ctx,
		`INSERT INTO businesses (business_name, email, opening_time, closing_time)
		 VALUES ($1,$2,'09:00','18:00') RETURNING id`,
		"Business "+tag, "biz-"+s.email).Scan(&s.business))
	must(pool.QueryRow(ctx,
		`INSERT INTO employees (business_id, name) VALUES ($1,'Employee') RETURNING id`,
		s.business).Scan(&s.employee))
	_, err = pool.Exec(ctx,
		`INSERT INTO employee_schedules (employee_id, day_of_week, start_time, end_time)
		 VALUES ($1, 1, '09:30', '18:30')`, s.employee)
	must(err)
	must(pool.QueryRow(ctx,
		`INSERT INTO services (business_id, service_name, duration_minutes, price)
		 VALUES ($1,'Colour',45,750) RETURNING id`, s.business).Scan(&s.service))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return st, booking.NewManager(st, logger), s
}

func book(ctx context.Context, m *booking.Manager, s seed, at string) (model.AppointmentView, error) {
	emp := s.employee
	return m.Create(ctx, booking.CreateRequest{
		CustomerID: s.customer,
		BusinessID: s.business,
		EmployeeID: &emp,
		ServiceID:  s.service,
		Date:       monday,
		Time:       at,
	})
}

func TestCatalog(t *testing.T) {
	st, _, s := setup(t)
	ctx := context.Background()

	b, err := st.Business(ctx, s.business)
	if err != nil {
		t.Fatalf("business: %v", err)
	}
	if b.OpeningTime.String() != "09:00:00" || b.ClosingTime.String() != "18:00:00" || !b.IsActive {
		t.Errorf("business hours: %+v", b)
	}

	rows, err := st.Schedules(ctx, s.employee, 1)
	if err != nil {
		t.Fatalf("schedules: %v", err)
	}
	if len(rows) != 1 || rows[0].StartTime.String() != "09:30:00" || !rows[0].IsAvailable {
		t.Errorf("schedules: %+v", rows)
	}

	svc, err := st.Service(ctx, s.service)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	if svc.DurationMinutes != 45 || svc.Price != 750 {
		t.Errorf("service: %+v", svc)
	}

	if _, err := st.Employee(ctx, -1); !errors.Is(err, booking.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBusinessClosingAtMidnight(t *testing.T) {
	st, m, s := setup(t)
	ctx := context.Background()

	pool, err := store.Open(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	defer pool.Close()
	if _, err := pool.Exec(ctx, `UPDATE businesses SET closing_time = '24:00:00' WHERE id = $1`, s.business); err != nil {
		t.Fatalf("update hours: %v", err)
	}

	b, err := st.Business(ctx, s.business)
	if err != nil {
		t.Fatalf("business: %v", err)
	}
	if b.ClosingTime != model.EndOfDay {
		t.Errorf("closing time: %s", b.ClosingTime)
	}

	// the employee shift ends at 18:30, now inside business hours
	a, err := book(ctx, m, s, "17:45")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if a.End().String() != "18:30:00" {
		t.Errorf("end: %s", a.End())
	}
}

func TestCreateAndView(t *testing.T) {
	_, m, s := setup(t)
	ctx := context.Background()

	v, err := book(ctx, m, s, "09:30")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.Status != model.StatusPending || v.DurationMinutes != 45 {
		t.Errorf("stored: %+v", v.Appointment)
	}
	if v.Date.Format(model.DateLayout) != monday || v.Start.String() != "09:30:00" {
		t.Errorf("slot: %s %s", v.Date, v.Start)
	}
	if v.ServiceName != "Colour" || v.EmployeeName != "Employee" || v.CustomerPhone != "5550000000" {
		t.Errorf("joined fields: %+v", v)
	}

	if _, err := book(ctx, m, s, "10:00"); !errors.Is(err, booking.ErrSlotTaken) {
		t.Errorf("expected ErrSlotTaken, got %v", err)
	}
	if _, err := book(ctx, m, s, "10:15"); err != nil {
		t.Errorf("adjacent: %v", err)
	}
	if _, err := book(ctx, m, s, "09:00"); !errors.Is(err, booking.ErrOutOfHours) {
		t.Errorf("expected ErrOutOfHours, got %v", err)
	}

	list, err := m.ListForBusiness(ctx, s.business, booking.Filter{Date: monday})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Start.String() != "10:15:00" {
		t.Errorf("list order: %+v", list)
	}
}

func TestUpdateLifecycle(t *testing.T) {
	_, m, s := setup(t)
	ctx := context.Background()

	a, err := book(ctx, m, s, "11:00")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	confirmed := model.StatusConfirmed
	if _, err := m.Update(ctx, a.ID, booking.UpdateRequest{Status: &confirmed}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	at := "12:00"
	moved, err := m.Update(ctx, a.ID, booking.UpdateRequest{Time: &at})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if moved.Start.String() != "12:00:00" || moved.Status != model.StatusConfirmed {
		t.Errorf("after reschedule: %+v", moved.Appointment)
	}

	cancelled := model.StatusCancelled
	if _, err := m.Update(ctx, a.ID, booking.UpdateRequest{Status: &cancelled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := book(ctx, m, s, "12:00"); err != nil {
		t.Errorf("slot not freed by cancel: %v", err)
	}
	if _, err := m.Update(ctx, a.ID, booking.UpdateRequest{Status: &confirmed}); !errors.Is(err, booking.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCredentials(t *testing.T) {
	st, _, s := setup(t)
	c, err := st.Credentials(context.Background(), model.ActorCustomer, s.email)
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	if c.Actor.ID != s.customer || c.Actor.Kind != model.ActorCustomer {
		t.Errorf("actor: %+v", c.Actor)
	}
	if _, err := st.Credentials(context.Background(), model.ActorAdmin, s.email); !errors.Is(err, booking.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateAccounts(t *testing.T) {
	st, _, s := setup(t)
	ctx := context.Background()

	c := model.Customer{Name: "New", Email: "new-" + s.email, Phone: "555", PasswordHash: "x"}
	if err := st.CreateCustomer(ctx, &c); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if c.ID == 0 || c.CreatedAt.IsZero() {
		t.Errorf("customer: %+v", c)
	}
	dup := model.Customer{Name: "Dup", Email: s.email, Phone: "555", PasswordHash: "x"}
	if err := st.CreateCustomer(ctx, &dup); !errors.Is(err, model.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	b := model.Business{
		Name: "Late", OwnerName: "Owner", Email: "late-" + s.email, Phone: "555", PasswordHash: "x",
		OpeningTime: model.MustClock("10:00"), ClosingTime: model.EndOfDay,
	}
	if err := st.CreateBusiness(ctx, &b); err != nil {
		t.Fatalf("create business: %v", err)
	}
	got, err := st.Business(ctx, b.ID)
	if err != nil {
		t.Fatalf("business: %v", err)
	}
	if !got.IsActive || got.OpeningTime != b.OpeningTime || got.ClosingTime != model.EndOfDay {
		t.Errorf("business: %+v", got)
	}
	b.Email = "biz-" + s.email
	if err := st.CreateBusiness(ctx, &b); !errors.Is(err, model.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestConcurrentBooking(t *testing.T) {
	_, m, s := setup(t)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := book(ctx, m, s, "15:00")
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
		} else if errors.Is(err, booking.ErrSlotTaken) {
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
	t.Logf("concurrent: %d success, %d conflicts (out of %d)", successes, conflicts, n)
}
