package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/salonflow/salonflow/services/salon-service/internal/model"
)

const leaveColumns = `
	l.id, l.employee_id, l.leave_type,
	to_char(l.start_date, 'YYYY-MM-DD'), to_char(l.end_date, 'YYYY-MM-DD'), l.total_days,
	l.reason, l.status, l.approved_by, l.approved_at, l.rejection_reason,
	l.created_at, l.updated_at, COALESCE(e.name, '')
	FROM employee_leaves l
	LEFT JOIN employees e ON e.id = l.employee_id`

func scanLeave(row pgx.Row) (model.LeaveRequest, error) {
	var l model.LeaveRequest
	err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&l.LeaveType,
		&l.StartDate,
		&l.EndDate,
		&l.TotalDays,
		&l.Reason,
		&l.Status,
		&l.ApprovedBy,
		&l.ApprovedAt,
		&l.RejectionReason,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.EmployeeName,
	)
	return l, err
}

func collectLeaves(rows pgx.Rows) ([]model.LeaveRequest, error) {
	defer rows.Close()
	var out []model.LeaveRequest
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) LeavesBetween(ctx context.Context, employeeIDs []int64, from, to string, statuses []model.LeaveStatus) ([]model.LeaveRequest, error) {
	if len(employeeIDs) == 0 || len(statuses) == 0 {
		return nil, nil
	}
	st := make([]string, len(statuses))
	for i, v := range statuses {
		st[i] = string(v)
	}
	rows, err := s.q.Query(ctx, `SELECT `+leaveColumns+`
		WHERE l.employee_id = ANY($1)
			AND l.status = ANY($2)
			AND l.start_date <= $4::date
			AND l.end_date >= $3::date
		ORDER BY l.start_date, l.id
	`, employeeIDs, st, from, to)
	if err != nil {
		return nil, err
	}
	return collectLeaves(rows)
}

func (s *Store) CreateLeave(ctx context.Context, l *model.LeaveRequest) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO employee_leaves (employee_id, leave_type, start_date, end_date, total_days, reason, status)
		VALUES ($1, $2, $3::date, $4::date, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, l.EmployeeID, l.LeaveType, l.StartDate, l.EndDate, l.TotalDays, l.Reason, l.Status,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	return translate(err)
}

func (s *Store) GetLeave(ctx context.Context, id int64) (model.LeaveRequest, error) {
	l, err := scanLeave(s.q.QueryRow(ctx, `SELECT `+leaveColumns+` WHERE l.id = $1`, id))
	return l, translate(err)
}

// ListLeaves matches fromDate against the start date and toDate against the
// end date, newest first.
func (s *Store) ListLeaves(ctx context.Context, f model.LeaveFilter) ([]model.LeaveRequest, error) {
	var w filter
	if f.EmployeeID != 0 {
		w.add("l.employee_id = ?", f.EmployeeID)
	}
	if f.Status != "" {
		w.add("l.status = ?", f.Status)
	}
	if f.LeaveType != "" {
		w.add("l.leave_type = ?", f.LeaveType)
	}
	if f.FromDate != "" {
		w.add("l.start_date >= ?::date", f.FromDate)
	}
	if f.ToDate != "" {
		w.add("l.end_date <= ?::date", f.ToDate)
	}
	rows, err := s.q.Query(ctx, `SELECT `+leaveColumns+` `+w.where()+`
		ORDER BY l.start_date DESC, l.created_at DESC
	`, w.args...)
	if err != nil {
		return nil, err
	}
	return collectLeaves(rows)
}

func (s *Store) UpdateLeave(ctx context.Context, l model.LeaveRequest) error {
	return notFoundIfNone(s.q.Exec(ctx, `
		UPDATE employee_leaves
		SET leave_type = $2,
			start_date = $3::date,
			end_date = $4::date,
			total_days = $5,
			reason = $6,
			status = $7,
			approved_by = $8,
			approved_at = $9,
			rejection_reason = $10,
			updated_at = now()
		WHERE id = $1
	`, l.ID, l.LeaveType, l.StartDate, l.EndDate, l.TotalDays, l.Reason, l.Status,
		l.ApprovedBy, l.ApprovedAt, l.RejectionReason))
}
