// Package storage is the Postgres implementation of service.Store.
package storage

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/salonflow/salonflow/libs/db"
	"github.com/salonflow/salonflow/services/salon-service/internal/model"
	"github.com/salonflow/salonflow/services/salon-service/internal/outbox"
	"github.com/salonflow/salonflow/services/salon-service/internal/service"
)

// dbtx is satisfied by both the pool and an open transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ service.Store = (*Store)(nil)

type Store struct {
	pool *db.Pool
	q    dbtx
}

func NewStore(pool *db.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

// InTx runs fn in a serializable transaction. Constraint and serialization
// failures come back as conflicts.
func (s *Store) InTx(ctx context.Context, fn func(q service.Queries) error) error {
	err := s.pool.WithTx(ctx, db.Serializable, func(tx pgx.Tx) error {
		return fn(&Store{pool: s.pool, q: tx})
	})
	return translate(err)
}

func (s *Store) AddEvent(ctx context.Context, evt outbox.Event) error {
	return outbox.Insert(ctx, s.q, evt)
}

func (s *Store) CustomerExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, id)
}

func (s *Store) BranchExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM branches WHERE id = $1)`, id)
}

func (s *Store) exists(ctx context.Context, sql string, args ...any) (bool, error) {
	var ok bool
	err := s.q.QueryRow(ctx, sql, args...).Scan(&ok)
	return ok, err
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (model.Employee, error) {
	var e model.Employee
	err := s.q.QueryRow(ctx, `
		SELECT id, branch_id, status
		FROM employees
		WHERE id = $1
	`, id).Scan(&e.ID, &e.BranchID, &e.Status)
	return e, translate(err)
}

func (s *Store) ActiveEmployees(ctx context.Context, branchID int64) ([]model.Employee, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, branch_id, status
		FROM employees
		WHERE branch_id = $1 AND status = $2
		ORDER BY id
	`, branchID, model.EmployeeActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.BranchID, &e.Status); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetShift(ctx context.Context, id int64) (model.Shift, error) {
	var sh model.Shift
	err := s.q.QueryRow(ctx, `
		SELECT id, branch_id, name, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM shifts
		WHERE id = $1
	`, id).Scan(&sh.ID, &sh.BranchID, &sh.Name, &sh.StartTime, &sh.EndTime)
	return sh, translate(err)
}

// filter collects AND-ed predicates with positional arguments. Each clause
// uses ? for its single argument.
type filter struct {
	clauses []string
	args    []any
}

func (f *filter) add(clause string, arg any) {
	f.args = append(f.args, arg)
	f.clauses = append(f.clauses, strings.Replace(clause, "?", "$"+strconv.Itoa(len(f.args)), 1))
}

func (f *filter) where() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(f.clauses, " AND ")
}

func notFoundIfNone(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
