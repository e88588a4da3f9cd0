// Package service runs the appointment, leave and shift assignment lifecycles
// on top of the scheduling resolver. Every write happens inside one store
// transaction together with its outbox event.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/salonflow/salonflow/services/salon-service/internal/apperr"
	"github.com/salonflow/salonflow/services/salon-service/internal/model"
	"github.com/salonflow/salonflow/services/salon-service/internal/outbox"
	"github.com/salonflow/salonflow/services/salon-service/internal/scheduling"
)

// Queries is the data access the lifecycles need. Lookups of a single
// record return model.ErrNotFound when it is absent.
type Queries interface {
	scheduling.Source

	CustomerExists(ctx context.Context, id int64) (bool, error)
	BranchExists(ctx context.Context, id int64) (bool, error)
	GetEmployee(ctx context.Context, id int64) (model.Employee, error)
	GetShift(ctx context.Context, id int64) (model.Shift, error)

	CreateAppointment(ctx context.Context, a *model.Appointment) error
	GetAppointment(ctx context.Context, id int64) (model.Appointment, error)
	ListAppointments(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error)
	UpdateAppointment(ctx context.Context, a model.Appointment) error
	SetAppointmentStatus(ctx context.Context, id int64, status model.AppointmentStatus) error
	SetAppointmentEmployee(ctx context.Context, id, employeeID int64) error
	DeleteAppointment(ctx context.Context, id int64) error

	CreateLeave(ctx context.Context, l *model.LeaveRequest) error
	GetLeave(ctx context.Context, id int64) (model.LeaveRequest, error)
	ListLeaves(ctx context.Context, f model.LeaveFilter) ([]model.LeaveRequest, error)
	UpdateLeave(ctx context.Context, l model.LeaveRequest) error

	CreateShiftAssignment(ctx context.Context, sa *model.ShiftAssignment) error
	GetShiftAssignment(ctx context.Context, id int64) (model.ShiftAssignment, error)
	ListShiftAssignments(ctx context.Context, f model.ShiftAssignmentFilter) ([]model.ShiftAssignment, error)
	ShiftAssignmentTaken(ctx context.Context, employeeID int64, date string, excludeID int64) (bool, error)
	UpdateShiftAssignment(ctx context.Context, sa model.ShiftAssignment) error
	DeleteShiftAssignment(ctx context.Context, id int64) error

	AddEvent(ctx context.Context, evt outbox.Event) error
}

// Store runs fn against a transaction scoped Queries. The transaction
// commits when fn returns nil.
type Store interface {
	Queries
	InTx(ctx context.Context, fn func(q Queries) error) error
}

type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func New(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// notFound turns model.ErrNotFound into the entity's NotFound error.
func notFound(err error, entity string) error {
	if errors.Is(err, model.ErrNotFound) {
		return apperr.NotFound(entity)
	}
	return err
}

func emit(ctx context.Context, q Queries, aggregate string, id int64, eventType string, payload any) error {
	evt, err := outbox.NewEvent(aggregate, id, eventType, payload)
	if err != nil {
		return err
	}
	return q.AddEvent(ctx, evt)
}

// optionalText trims s and maps blank to nil.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
