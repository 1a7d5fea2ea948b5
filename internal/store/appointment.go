package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/model"
)

const appointmentCols = `a.id, a.customer_id, a.business_id, a.employee_id, a.service_id,
	a.appointment_date, to_char(a.appointment_time, 'HH24:MI:SS'), a.duration_minutes,
	a.status, COALESCE(a.notes, ''), a.created_at, a.updated_at`

const viewCols = appointmentCols + `,
	COALESCE(c.name, ''), COALESCE(c.phone, ''), COALESCE(b.business_name, ''),
	COALESCE(e.name, ''), COALESCE(s.service_name, ''),
	COALESCE(s.price, 0)::float8, COALESCE(s.duration_minutes, 0)`

const viewFrom = `FROM appointments a
	LEFT JOIN customers c ON a.customer_id = c.id
	LEFT JOIN businesses b ON a.business_id = b.id
	LEFT JOIN employees e ON a.employee_id = e.id
	LEFT JOIN services s ON a.service_id = s.id`

func scanAppointment(row pgx.Row, a *model.Appointment, extra ...any) error {
	var start, status string
	dest := append([]any{
		&a.ID, &a.CustomerID, &a.BusinessID, &a.EmployeeID, &a.ServiceID,
		&a.Date, &start, &a.DurationMinutes, &status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	c, err := model.ParseClock(start)
	if err != nil {
		return err
	}
	a.Start = c
	a.Status = model.Status(status)
	a.Date = model.DateOnly(a.Date)
	return nil
}

func scanView(row pgx.Row) (model.AppointmentView, error) {
	var v model.AppointmentView
	err := scanAppointment(row, &v.Appointment,
		&v.CustomerName, &v.CustomerPhone, &v.BusinessName,
		&v.EmployeeName, &v.ServiceName, &v.ServicePrice, &v.ServiceDuration,
	)
	return v, err
}

func (r reader) Occupied(ctx context.Context, key booking.SlotKey, excludeID int64) ([]model.Appointment, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+appointmentCols+`
		 FROM appointments a
		 WHERE a.business_id = $1
		   AND a.employee_id IS NOT DISTINCT FROM $2
		   AND a.appointment_date = $3
		   AND a.status <> 'cancelled'
		   AND a.id <> $4
		 ORDER BY a.appointment_time`,
		key.BusinessID, key.EmployeeID, key.Date, excludeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r reader) AppointmentView(ctx context.Context, id int64) (model.AppointmentView, error) {
	v, err := scanView(r.q.QueryRow(ctx, `SELECT `+viewCols+` `+viewFrom+` WHERE a.id = $1`, id))
	if err != nil {
		return v, notFound(err, "appointment", id)
	}
	return v, nil
}

func (r reader) ListAppointments(ctx context.Context, scope booking.Scope) ([]model.AppointmentView, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if scope.CustomerID != 0 {
		add("a.customer_id = $%d", scope.CustomerID)
	}
	if scope.BusinessID != 0 {
		add("a.business_id = $%d", scope.BusinessID)
	}
	if scope.Date != nil {
		add("a.appointment_date = $%d", *scope.Date)
	}
	if scope.Status != nil {
		add("a.status = $%d", string(*scope.Status))
	}

	q := `SELECT ` + viewCols + ` ` + viewFrom
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY a.appointment_date DESC, a.appointment_time DESC, a.id DESC`

	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AppointmentView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (t *txStore) AppointmentForUpdate(ctx context.Context, id int64) (model.Appointment, error) {
	var a model.Appointment
	err := scanAppointment(t.q.QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments a WHERE a.id = $1 FOR UPDATE`, id,
	), &a)
	if err != nil {
		return a, notFound(err, "appointment", id)
	}
	return a, nil
}

func (t *txStore) InsertAppointment(ctx context.Context, a *model.Appointment) error {
	err := t.q.QueryRow(ctx,
		`INSERT INTO appointments
		   (customer_id, business_id, employee_id, service_id, appointment_date, appointment_time,
		    duration_minutes, status, notes, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6::text::time,$7,$8,NULLIF($9,''),$10,$11)
		 RETURNING id`,
		a.CustomerID, a.BusinessID, a.EmployeeID, a.ServiceID, a.Date, a.Start.String(),
		a.DurationMinutes, string(a.Status), a.Notes, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	return mapWriteErr(err)
}

func (t *txStore) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE appointments
		 SET employee_id=$1, appointment_date=$2, appointment_time=$3::text::time,
		     status=$4, notes=NULLIF($5,''), updated_at=$6
		 WHERE id=$7`,
		a.EmployeeID, a.Date, a.Start.String(), string(a.Status), a.Notes, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: appointment %d", booking.ErrNotFound, a.ID)
	}
	return nil
}
