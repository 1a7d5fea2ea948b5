package store

import (
	"context"
	"time"

	"appointment-booking-api/internal/model"
)

func (r reader) Business(ctx context.Context, id int64) (model.Business, error) {
	var (
		b          model.Business
		open, shut string
	)
	err := r.q.QueryRow(ctx,
		`SELECT id, business_name, owner_name, email, phone,
		        to_char(opening_time, 'HH24:MI:SS'), to_char(closing_time, 'HH24:MI:SS'), is_active
		 FROM businesses WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.OwnerName, &b.Email, &b.Phone, &open, &shut, &b.IsActive)
	if err != nil {
		return b, notFound(err, "business", id)
	}
	if b.OpeningTime, err = model.ParseBound(open); err != nil {
		return b, err
	}
	if b.ClosingTime, err = model.ParseBound(shut); err != nil {
		return b, err
	}
	return b, nil
}

func (r reader) Employee(ctx context.Context, id int64) (model.Employee, error) {
	var e model.Employee
	err := r.q.QueryRow(ctx,
		`SELECT id, business_id, name, specialization, is_active
		 FROM employees WHERE id = $1`, id,
	).Scan(&e.ID, &e.BusinessID, &e.Name, &e.Specialization, &e.IsActive)
	if err != nil {
		return e, notFound(err, "employee", id)
	}
	return e, nil
}

func (r reader) Schedules(ctx context.Context, employeeID int64, weekday time.Weekday) ([]model.EmployeeSchedule, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, employee_id, day_of_week,
		        to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS'), is_available
		 FROM employee_schedules
		 WHERE employee_id = $1 AND day_of_week = $2
		 ORDER BY start_time`, employeeID, int(weekday),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EmployeeSchedule
	for rows.Next() {
		var (
			row        model.EmployeeSchedule
			start, end string
		)
		if err := rows.Scan(&row.ID, &row.EmployeeID, &row.DayOfWeek, &start, &end, &row.IsAvailable); err != nil {
			return nil, err
		}
		if row.StartTime, err = model.ParseBound(start); err != nil {
			return nil, err
		}
		if row.EndTime, err = model.ParseBound(end); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r reader) Service(ctx context.Context, id int64) (model.Service, error) {
	var svc model.Service
	err := r.q.QueryRow(ctx,
		`SELECT id, business_id, service_name, duration_minutes, price::float8, is_active
		 FROM services WHERE id = $1`, id,
	).Scan(&svc.ID, &svc.BusinessID, &svc.Name, &svc.DurationMinutes, &svc.Price, &svc.IsActive)
	if err != nil {
		return svc, notFound(err, "service", id)
	}
	return svc, nil
}

func (r reader) Customer(ctx context.Context, id int64) (model.Customer, error) {
	var c model.Customer
	err := r.q.QueryRow(ctx,
		`SELECT id, name, email, phone, created_at FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		return c, notFound(err, "customer", id)
	}
	return c, nil
}
