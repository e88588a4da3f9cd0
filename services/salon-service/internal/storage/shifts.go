package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/salonflow/salonflow/services/salon-service/internal/model"
)

const assignmentColumns = `
	es.id, es.employee_id, es.shift_id, to_char(es.shift_date, 'YYYY-MM-DD'), es.status, es.notes,
	es.created_at, es.updated_at, COALESCE(e.name, ''), s.name,
	to_char(s.start_time, 'HH24:MI'), to_char(s.end_time, 'HH24:MI'), s.branch_id
	FROM employee_shifts es
	JOIN shifts s ON s.id = es.shift_id
	LEFT JOIN employees e ON e.id = es.employee_id`

func scanAssignment(row pgx.Row) (model.ShiftAssignment, error) {
	var sa model.ShiftAssignment
	err := row.Scan(
		&sa.ID,
		&sa.EmployeeID,
		&sa.ShiftID,
		&sa.ShiftDate,
		&sa.Status,
		&sa.Notes,
		&sa.CreatedAt,
		&sa.UpdatedAt,
		&sa.EmployeeName,
		&sa.ShiftName,
		&sa.ShiftStartTime,
		&sa.ShiftEndTime,
		&sa.BranchID,
	)
	return sa, err
}

func (s *Store) CreateShiftAssignment(ctx context.Context, sa *model.ShiftAssignment) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO employee_shifts (employee_id, shift_id, shift_date, status, notes)
		VALUES ($1, $2, $3::date, $4, $5)
		RETURNING id, created_at, updated_at
	`, sa.EmployeeID, sa.ShiftID, sa.ShiftDate, sa.Status, sa.Notes,
	).Scan(&sa.ID, &sa.CreatedAt, &sa.UpdatedAt)
	return translate(err)
}

func (s *Store) GetShiftAssignment(ctx context.Context, id int64) (model.ShiftAssignment, error) {
	sa, err := scanAssignment(s.q.QueryRow(ctx, `SELECT `+assignmentColumns+` WHERE es.id = $1`, id))
	return sa, translate(err)
}

func (s *Store) ListShiftAssignments(ctx context.Context, f model.ShiftAssignmentFilter) ([]model.ShiftAssignment, error) {
	var w filter
	if f.EmployeeID != 0 {
		w.add("es.employee_id = ?", f.EmployeeID)
	}
	if f.ShiftID != 0 {
		w.add("es.shift_id = ?", f.ShiftID)
	}
	if f.BranchID != 0 {
		w.add("s.branch_id = ?", f.BranchID)
	}
	if f.Status != "" {
		w.add("es.status = ?", f.Status)
	}
	if f.FromDate != "" {
		w.add("es.shift_date >= ?::date", f.FromDate)
	}
	if f.ToDate != "" {
		w.add("es.shift_date <= ?::date", f.ToDate)
	}
	rows, err := s.q.Query(ctx, `SELECT `+assignmentColumns+` `+w.where()+`
		ORDER BY es.shift_date ASC, s.start_time ASC
	`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ShiftAssignment
	for rows.Next() {
		sa, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sa)
	}
	return out, rows.Err()
}

func (s *Store) ShiftAssignmentTaken(ctx context.Context, employeeID int64, date string, excludeID int64) (bool, error) {
	return s.exists(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM employee_shifts
			WHERE employee_id = $1 AND shift_date = $2::date AND id <> $3
		)
	`, employeeID, date, excludeID)
}

func (s *Store) UpdateShiftAssignment(ctx context.Context, sa model.ShiftAssignment) error {
	return notFoundIfNone(s.q.Exec(ctx, `
		UPDATE employee_shifts
		SET shift_id = $2,
			shift_date = $3::date,
			status = $4,
			notes = $5,
			updated_at = now()
		WHERE id = $1
	`, sa.ID, sa.ShiftID, sa.ShiftDate, sa.Status, sa.Notes))
}

func (s *Store) DeleteShiftAssignment(ctx context.Context, id int64) error {
	return notFoundIfNone(s.q.Exec(ctx, `DELETE FROM employee_shifts WHERE id = $1`, id))
}
