package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/salonflow/salonflow/services/salon-service/internal/model"
)

const appointmentColumns = `
	a.id, a.customer_id, a.branch_id, a.employee_id, a.service_name, a.service_notes,
	to_char(a.appointment_date, 'YYYY-MM-DD'), to_char(a.start_time, 'HH24:MI'), a.duration_minutes,
	a.status, a.notes, a.created_at, a.updated_at,
	COALESCE(c.name, ''), COALESCE(c.phone, ''), COALESCE(b.name, ''),
	COALESCE(e.name, ''), COALESCE(e.employee_code, '')
	FROM appointments a
	LEFT JOIN customers c ON c.id = a.customer_id
	LEFT JOIN branches b ON b.id = a.branch_id
	LEFT JOIN employees e ON e.id = a.employee_id`

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.BranchID,
		&a.EmployeeID,
		&a.ServiceName,
		&a.ServiceNotes,
		&a.AppointmentDate,
		&a.StartTime,
		&a.DurationMinutes,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.CustomerName,
		&a.CustomerPhone,
		&a.BranchName,
		&a.EmployeeName,
		&a.EmployeeCode,
	)
	return a, err
}

func collectAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	defer rows.Close()
	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) AppointmentsOn(ctx context.Context, date string, employeeIDs []int64) ([]model.Appointment, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	rows, err := s.q.Query(ctx, `SELECT `+appointmentColumns+`
		WHERE a.appointment_date = $1::date AND a.employee_id = ANY($2)
		ORDER BY a.start_time, a.id
	`, date, employeeIDs)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO appointments
			(customer_id, branch_id, employee_id, service_name, service_notes,
			 appointment_date, start_time, duration_minutes, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7::time, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, a.CustomerID, a.BranchID, a.EmployeeID, a.ServiceName, a.ServiceNotes,
		a.AppointmentDate, a.StartTime, a.DurationMinutes, a.Status, a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

func (s *Store) GetAppointment(ctx context.Context, id int64) (model.Appointment, error) {
	a, err := scanAppointment(s.q.QueryRow(ctx, `SELECT `+appointmentColumns+` WHERE a.id = $1`, id))
	return a, translate(err)
}

// ListAppointments returns newest first: date, then start time, then id.
func (s *Store) ListAppointments(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	var w filter
	if f.BranchID != 0 {
		w.add("a.branch_id = ?", f.BranchID)
	}
	if f.EmployeeID != 0 {
		w.add("a.employee_id = ?", f.EmployeeID)
	}
	if f.CustomerID != 0 {
		w.add("a.customer_id = ?", f.CustomerID)
	}
	if f.Status != "" {
		w.add("a.status = ?", f.Status)
	}
	if f.Date != "" {
		w.add("a.appointment_date = ?::date", f.Date)
	}
	rows, err := s.q.Query(ctx, `SELECT `+appointmentColumns+` `+w.where()+`
		ORDER BY a.appointment_date DESC, a.start_time DESC, a.id DESC
	`, w.args...)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (s *Store) UpdateAppointment(ctx context.Context, a model.Appointment) error {
	return notFoundIfNone(s.q.Exec(ctx, `
		UPDATE appointments
		SET customer_id = $2,
			branch_id = $3,
			employee_id = $4,
			service_name = $5,
			service_notes = $6,
			appointment_date = $7::date,
			start_time = $8::time,
			duration_minutes = $9,
			status = $10,
			notes = $11,
			updated_at = now()
		WHERE id = $1
	`, a.ID, a.CustomerID, a.BranchID, a.EmployeeID, a.ServiceName, a.ServiceNotes,
		a.AppointmentDate, a.StartTime, a.DurationMinutes, a.Status, a.Notes))
}

func (s *Store) SetAppointmentStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	return notFoundIfNone(s.q.Exec(ctx, `
		UPDATE appointments SET status = $2, updated_at = now() WHERE id = $1
	`, id, status))
}

func (s *Store) SetAppointmentEmployee(ctx context.Context, id, employeeID int64) error {
	return notFoundIfNone(s.q.Exec(ctx, `
		UPDATE appointments SET employee_id = $2, updated_at = now() WHERE id = $1
	`, id, employeeID))
}

func (s *Store) DeleteAppointment(ctx context.Context, id int64) error {
	return notFoundIfNone(s.q.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id))
}
