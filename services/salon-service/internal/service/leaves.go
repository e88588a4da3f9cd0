package service

import (
	"context"

	"github.com/salonflow/salonflow/services/salon-service/internal/apperr"
	"github.com/salonflow/salonflow/services/salon-service/internal/model"
	"github.com/salonflow/salonflow/services/salon-service/internal/outbox"
	"github.com/salonflow/salonflow/services/salon-service/internal/scheduling"
)

type CreateLeaveInput struct {
	EmployeeID int64
	LeaveType  model.LeaveType
	StartDate  string
	EndDate    string
	Reason     *string
}

type UpdateLeaveInput struct {
	LeaveType *model.LeaveType
	StartDate *string
	EndDate   *string
	Reason    *string
}

type ReviewLeaveInput struct {
	Status          model.LeaveStatus
	ApprovedBy      *int64
	RejectionReason *string
}

func (s *Service) CreateLeave(ctx context.Context, in CreateLeaveInput) (int64, error) {
	if in.EmployeeID == 0 || in.LeaveType == "" || in.StartDate == "" || in.EndDate == "" {
		return 0, apperr.Validation("employeeId, leaveType, startDate and endDate are required")
	}
	if !in.LeaveType.Valid() {
		return 0, apperr.FieldValidation("leaveType", "invalid leaveType")
	}
	span, err := scheduling.ParseDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return 0, err
	}
	days, err := scheduling.ComputeTotalDays(span)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.store.InTx(ctx, func(q Queries) error {
		if _, err := q.GetEmployee(ctx, in.EmployeeID); err != nil {
			return notFound(err, "employee")
		}
		overlap, err := scheduling.HasOverlappingLeave(ctx, q, in.EmployeeID, span, 0)
		if err != nil {
			return err
		}
		if overlap {
			return apperr.Conflict("overlapping leave already exists for this employee")
		}

		l := model.LeaveRequest{
			EmployeeID: in.EmployeeID,
			LeaveType:  in.LeaveType,
			StartDate:  in.StartDate,
			EndDate:    in.EndDate,
			TotalDays:  days,
			Reason:     optionalText(in.Reason),
			Status:     model.LeavePending,
		}
		if err := q.CreateLeave(ctx, &l); err != nil {
			return err
		}
		id = l.ID
		return emit(ctx, q, outbox.AggregateLeave, l.ID, outbox.LeaveCreated, l)
	})
	return id, err
}

func (s *Service) GetLeave(ctx context.Context, id int64) (model.LeaveRequest, error) {
	l, err := s.store.GetLeave(ctx, id)
	if err != nil {
		return model.LeaveRequest{}, notFound(err, "leave request")
	}
	return l, nil
}

// ListLeaves filters fromDate on start date and toDate on end date.
func (s *Service) ListLeaves(ctx context.Context, f model.LeaveFilter) ([]model.LeaveRequest, error) {
	for field, v := range map[string]string{"fromDate": f.FromDate, "toDate": f.ToDate} {
		if v == "" {
			continue
		}
		if _, err := scheduling.ParseDate(v); err != nil {
			return nil, apperr.FieldValidation(field, field+" must be YYYY-MM-DD")
		}
	}
	return s.store.ListLeaves(ctx, f)
}

// UpdateLeave edits a pending request and recomputes its length.
func (s *Service) UpdateLeave(ctx context.Context, id int64, in UpdateLeaveInput) error {
	return s.store.InTx(ctx, func(q Queries) error {
		existing, err := q.GetLeave(ctx, id)
		if err != nil {
			return notFound(err, "leave request")
		}
		if existing.Status != model.LeavePending {
			return apperr.Validation("only pending leave requests can be updated")
		}

		next := existing
		if in.LeaveType != nil && *in.LeaveType != "" {
			next.LeaveType = *in.LeaveType
		}
		if in.StartDate != nil && *in.StartDate != "" {
			next.StartDate = *in.StartDate
		}
		if in.EndDate != nil && *in.EndDate != "" {
			next.EndDate = *in.EndDate
		}
		// A blank reason keeps the stored one.
		if reason := optionalText(in.Reason); reason != nil {
			next.Reason = reason
		}

		if !next.LeaveType.Valid() {
			return apperr.FieldValidation("leaveType", "invalid leaveType")
		}
		span, err := scheduling.ParseDateRange(next.StartDate, next.EndDate)
		if err != nil {
			return err
		}
		if next.TotalDays, err = scheduling.ComputeTotalDays(span); err != nil {
			return err
		}
		overlap, err := scheduling.HasOverlappingLeave(ctx, q, existing.EmployeeID, span, id)
		if err != nil {
			return err
		}
		if overlap {
			return apperr.Conflict("overlapping leave already exists for this employee")
		}

		if err := q.UpdateLeave(ctx, next); err != nil {
			return notFound(err, "leave request")
		}
		return emit(ctx, q, outbox.AggregateLeave, id, outbox.LeaveUpdated, next)
	})
}

// ReviewLeave approves or rejects a pending request once.
func (s *Service) ReviewLeave(ctx context.Context, id int64, in ReviewLeaveInput) error {
	if in.Status != model.LeaveApproved && in.Status != model.LeaveRejected {
		return apperr.FieldValidation("status", "status must be approved or rejected")
	}
	return s.store.InTx(ctx, func(q Queries) error {
		existing, err := q.GetLeave(ctx, id)
		if err != nil {
			return notFound(err, "leave request")
		}
		if existing.Status != model.LeavePending {
			return apperr.Validation("only pending leave requests can be reviewed")
		}
		reason := optionalText(in.RejectionReason)
		if in.Status == model.LeaveRejected && reason == nil {
			return apperr.FieldValidation("rejectionReason", "rejectionReason is required when status is rejected")
		}
		if in.Status == model.LeaveApproved {
			reason = nil
		}

		now := s.now().UTC()
		next := existing
		next.Status = in.Status
		next.ApprovedBy = nil
		if in.ApprovedBy != nil && *in.ApprovedBy != 0 {
			next.ApprovedBy = in.ApprovedBy
		}
		next.ApprovedAt = &now
		next.RejectionReason = reason

		if err := q.UpdateLeave(ctx, next); err != nil {
			return notFound(err, "leave request")
		}
		return emit(ctx, q, outbox.AggregateLeave, id, outbox.LeaveReviewed, next)
	})
}

func (s *Service) CancelLeave(ctx context.Context, id int64) error {
	return s.store.InTx(ctx, func(q Queries) error {
		existing, err := q.GetLeave(ctx, id)
		if err != nil {
			return notFound(err, "leave request")
		}
		if existing.Status == model.LeaveCancelled {
			return apperr.Validation("leave request already cancelled")
		}
		next := existing
		next.Status = model.LeaveCancelled
		if err := q.UpdateLeave(ctx, next); err != nil {
			return notFound(err, "leave request")
		}
		return emit(ctx, q, outbox.AggregateLeave, id, outbox.LeaveCancelled, map[string]any{
			"id":             id,
			"employeeId":     existing.EmployeeID,
			"previousStatus": existing.Status,
		})
	})
}

// ReviewMessage is the confirmation returned after a review.
func ReviewMessage(status model.LeaveStatus) string {
	return "leave request " + string(status)
}
