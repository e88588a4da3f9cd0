package service

import (
	"context"

	"github.com/salonflow/salonflow/services/salon-service/internal/apperr"
	"github.com/salonflow/salonflow/services/salon-service/internal/model"
	"github.com/salonflow/salonflow/services/salon-service/internal/outbox"
	"github.com/salonflow/salonflow/services/salon-service/internal/scheduling"
)

type CreateShiftAssignmentInput struct {
	EmployeeID int64
	ShiftID    int64
	ShiftDate  string
	Status     model.ShiftAssignmentStatus
	Notes      *string
}

type UpdateShiftAssignmentInput struct {
	ShiftID   *int64
	ShiftDate *string
	Status    *model.ShiftAssignmentStatus
	Notes     *string
}

const duplicateShiftMessage = "employee already has a shift assignment for this date"

func (s *Service) CreateShiftAssignment(ctx context.Context, in CreateShiftAssignmentInput) (int64, error) {
	if in.EmployeeID == 0 || in.ShiftID == 0 || in.ShiftDate == "" {
		return 0, apperr.Validation("employeeId, shiftId and shiftDate are required")
	}
	if _, err := scheduling.ParseDate(in.ShiftDate); err != nil {
		return 0, apperr.FieldValidation("shiftDate", "shiftDate must be in YYYY-MM-DD format")
	}
	status := in.Status
	if status == "" {
		status = model.ShiftScheduled
	}
	if !status.Valid() {
		return 0, apperr.FieldValidation("status", "status must be scheduled, off, or leave")
	}

	var id int64
	err := s.store.InTx(ctx, func(q Queries) error {
		if err := checkShiftBranch(ctx, q, in.EmployeeID, in.ShiftID); err != nil {
			return err
		}
		taken, err := q.ShiftAssignmentTaken(ctx, in.EmployeeID, in.ShiftDate, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict(duplicateShiftMessage)
		}

		sa := model.ShiftAssignment{
			EmployeeID: in.EmployeeID,
			ShiftID:    in.ShiftID,
			ShiftDate:  in.ShiftDate,
			Status:     status,
			Notes:      optionalText(in.Notes),
		}
		if err := q.CreateShiftAssignment(ctx, &sa); err != nil {
			return err
		}
		id = sa.ID
		return emit(ctx, q, outbox.AggregateShiftAssignment, sa.ID, outbox.ShiftAssignmentCreated, sa)
	})
	return id, err
}

func (s *Service) ListShiftAssignments(ctx context.Context, f model.ShiftAssignmentFilter) ([]model.ShiftAssignment, error) {
	for field, v := range map[string]string{"fromDate": f.FromDate, "toDate": f.ToDate} {
		if v == "" {
			continue
		}
		if _, err := scheduling.ParseDate(v); err != nil {
			return nil, apperr.FieldValidation(field, field+" must be YYYY-MM-DD")
		}
	}
	return s.store.ListShiftAssignments(ctx, f)
}

func (s *Service) UpdateShiftAssignment(ctx context.Context, id int64, in UpdateShiftAssignmentInput) error {
	return s.store.InTx(ctx, func(q Queries) error {
		existing, err := q.GetShiftAssignment(ctx, id)
		if err != nil {
			return notFound(err, "assignment")
		}

		next := existing
		if in.ShiftID != nil && *in.ShiftID != 0 {
			next.ShiftID = *in.ShiftID
		}
		if in.ShiftDate != nil && *in.ShiftDate != "" {
			next.ShiftDate = *in.ShiftDate
		}
		if in.Status != nil && *in.Status != "" {
			next.Status = *in.Status
		}
		if in.Notes != nil {
			next.Notes = optionalText(in.Notes)
		}

		if _, err := scheduling.ParseDate(next.ShiftDate); err != nil {
			return apperr.FieldValidation("shiftDate", "shiftDate must be in YYYY-MM-DD format")
		}
		if !next.Status.Valid() {
			return apperr.FieldValidation("status", "status must be scheduled, off, or leave")
		}
		if err := checkShiftBranch(ctx, q, next.EmployeeID, next.ShiftID); err != nil {
			return err
		}
		taken, err := q.ShiftAssignmentTaken(ctx, next.EmployeeID, next.ShiftDate, id)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict(duplicateShiftMessage)
		}

		if err := q.UpdateShiftAssignment(ctx, next); err != nil {
			return notFound(err, "assignment")
		}
		return emit(ctx, q, outbox.AggregateShiftAssignment, id, outbox.ShiftAssignmentUpdated, next)
	})
}

func (s *Service) DeleteShiftAssignment(ctx context.Context, id int64) error {
	return s.store.InTx(ctx, func(q Queries) error {
		if err := q.DeleteShiftAssignment(ctx, id); err != nil {
			return notFound(err, "assignment")
		}
		return emit(ctx, q, outbox.AggregateShiftAssignment, id, outbox.ShiftAssignmentDeleted, map[string]any{"id": id})
	})
}

func checkShiftBranch(ctx context.Context, q Queries, employeeID, shiftID int64) error {
	emp, err := q.GetEmployee(ctx, employeeID)
	if err != nil {
		return notFound(err, "employee")
	}
	shift, err := q.GetShift(ctx, shiftID)
	if err != nil {
		return notFound(err, "shift")
	}
	if emp.BranchID != shift.BranchID {
		return apperr.Validation("employee and shift branch must match")
	}
	return nil
}
