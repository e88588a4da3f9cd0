package service

import (
	"context"
	"errors"
	"strings"

	"github.com/salonflow/salonflow/services/salon-service/internal/apperr"
	"github.com/salonflow/salonflow/services/salon-service/internal/model"
	"github.com/salonflow/salonflow/services/salon-service/internal/outbox"
	"github.com/salonflow/salonflow/services/salon-service/internal/scheduling"
)

type CreateAppointmentInput struct {
	CustomerID int64
	BranchID   int64
	// EmployeeID 0 asks for auto-assignment.
	EmployeeID      int64
	ServiceName     string
	ServiceNotes    *string
	AppointmentDate string
	StartTime       string
	DurationMinutes int
	Status          model.AppointmentStatus
	Notes           *string
}

// UpdateAppointmentInput fields left nil keep their stored value.
type UpdateAppointmentInput struct {
	CustomerID      *int64
	BranchID        *int64
	EmployeeID      *int64
	ServiceName     *string
	ServiceNotes    *string
	AppointmentDate *string
	StartTime       *string
	DurationMinutes *int
	Status          *model.AppointmentStatus
	Notes           *string
}

type AppointmentResult struct {
	ID         int64 `json:"id"`
	EmployeeID int64 `json:"employeeId"`
}

func (s *Service) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (AppointmentResult, error) {
	serviceName := strings.TrimSpace(in.ServiceName)
	if in.CustomerID == 0 || in.BranchID == 0 || serviceName == "" ||
		in.AppointmentDate == "" || in.StartTime == "" || in.DurationMinutes == 0 {
		return AppointmentResult{}, apperr.Validation("customerId, branchId, serviceName, appointmentDate, startTime and durationMinutes are required")
	}
	w, err := scheduling.MakeWindow(in.AppointmentDate, in.StartTime, in.DurationMinutes)
	if err != nil {
		return AppointmentResult{}, err
	}
	status := in.Status
	if status == "" {
		status = model.AppointmentScheduled
	}
	if !status.Valid() {
		return AppointmentResult{}, apperr.FieldValidation("status", "invalid status")
	}

	var res AppointmentResult
	err = s.store.InTx(ctx, func(q Queries) error {
		if err := ensureCustomer(ctx, q, in.CustomerID); err != nil {
			return err
		}
		if err := ensureBranch(ctx, q, in.BranchID); err != nil {
			return err
		}

		employeeID := in.EmployeeID
		if employeeID != 0 {
			if err := checkEmployeeSlot(ctx, q, employeeID, in.BranchID, w, 0); err != nil {
				return err
			}
		} else {
			id, err := assignEmployee(ctx, q, in.BranchID, w)
			if err != nil {
				return err
			}
			employeeID = id
		}

		a := model.Appointment{
			CustomerID:      in.CustomerID,
			BranchID:        in.BranchID,
			EmployeeID:      employeeID,
			ServiceName:     serviceName,
			ServiceNotes:    optionalText(in.ServiceNotes),
			AppointmentDate: w.DateString(),
			StartTime:       w.StartClock(),
			EndTime:         w.EndClock(),
			DurationMinutes: w.DurationMinutes,
			Status:          status,
			Notes:           optionalText(in.Notes),
		}
		if err := q.CreateAppointment(ctx, &a); err != nil {
			return err
		}
		res = AppointmentResult{ID: a.ID, EmployeeID: employeeID}
		return emit(ctx, q, outbox.AggregateAppointment, a.ID, outbox.AppointmentCreated, a)
	})
	if err != nil {
		return AppointmentResult{}, err
	}
	s.logger.InfoContext(ctx, "appointment created", "appointment_id", res.ID, "employee_id", res.EmployeeID, "auto_assigned", in.EmployeeID == 0)
	return res, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (model.Appointment, error) {
	a, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return model.Appointment{}, notFound(err, "appointment")
	}
	return withEndTime(a), nil
}

func (s *Service) ListAppointments(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	if f.Date != "" {
		if _, err := scheduling.ParseDate(f.Date); err != nil {
			return nil, apperr.FieldValidation("date", "date must be YYYY-MM-DD")
		}
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.FieldValidation("status", "invalid status")
	}
	list, err := s.store.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i] = withEndTime(list[i])
	}
	return list, nil
}

// UpdateAppointment merges in over the stored record. When any field that
// decides the booking slot is given, the effective employee is re-checked;
// moving to another branch without naming an employee re-runs assignment.
func (s *Service) UpdateAppointment(ctx context.Context, id int64, in UpdateAppointmentInput) (int64, error) {
	var employeeID int64
	err := s.store.InTx(ctx, func(q Queries) error {
		existing, err := q.GetAppointment(ctx, id)
		if err != nil {
			return notFound(err, "appointment")
		}

		next := existing
		if in.CustomerID != nil {
			next.CustomerID = *in.CustomerID
		}
		if in.BranchID != nil {
			next.BranchID = *in.BranchID
		}
		if in.EmployeeID != nil {
			next.EmployeeID = *in.EmployeeID
		}
		if in.AppointmentDate != nil && *in.AppointmentDate != "" {
			next.AppointmentDate = *in.AppointmentDate
		}
		if in.StartTime != nil && *in.StartTime != "" {
			next.StartTime = *in.StartTime
		}
		if in.DurationMinutes != nil {
			next.DurationMinutes = *in.DurationMinutes
		}
		if in.Status != nil && *in.Status != "" {
			next.Status = *in.Status
		}
		if in.ServiceName != nil {
			if name := strings.TrimSpace(*in.ServiceName); name != "" {
				next.ServiceName = name
			}
		}
		if in.ServiceNotes != nil {
			next.ServiceNotes = optionalText(in.ServiceNotes)
		}
		if in.Notes != nil {
			next.Notes = optionalText(in.Notes)
		}

		w, err := scheduling.MakeWindow(next.AppointmentDate, next.StartTime, next.DurationMinutes)
		if err != nil {
			return err
		}
		if !next.Status.Valid() {
			return apperr.FieldValidation("status", "invalid status")
		}
		if err := ensureCustomer(ctx, q, next.CustomerID); err != nil {
			return err
		}
		if err := ensureBranch(ctx, q, next.BranchID); err != nil {
			return err
		}

		slotChanged := in.EmployeeID != nil || in.BranchID != nil || in.AppointmentDate != nil ||
			in.StartTime != nil || in.DurationMinutes != nil
		if slotChanged {
			if in.EmployeeID == nil && next.BranchID != existing.BranchID {
				assigned, err := assignEmployee(ctx, q, next.BranchID, w)
				if err != nil {
					return err
				}
				next.EmployeeID = assigned
			}
			if err := checkEmployeeSlot(ctx, q, next.EmployeeID, next.BranchID, w, id); err != nil {
				return err
			}
		}

		next.AppointmentDate = w.DateString()
		next.StartTime = w.StartClock()
		next.EndTime = w.EndClock()
		if err := q.UpdateAppointment(ctx, next); err != nil {
			return notFound(err, "appointment")
		}
		employeeID = next.EmployeeID
		return emit(ctx, q, outbox.AggregateAppointment, id, outbox.AppointmentUpdated, next)
	})
	if err != nil {
		return 0, err
	}
	return employeeID, nil
}

// UpdateAppointmentStatus overwrites the status. Any known status may follow
// any other, including leaving completed or cancelled. Moving a non-blocking
// appointment back to a blocking status fails with a Conflict when its slot
// has been rebooked for the same employee in the meantime.
func (s *Service) UpdateAppointmentStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	if !status.Valid() {
		return apperr.FieldValidation("status", "invalid status")
	}
	return s.store.InTx(ctx, func(q Queries) error {
		existing, err := q.GetAppointment(ctx, id)
		if err != nil {
			return notFound(err, "appointment")
		}
		if status.Blocking() && !existing.Status.Blocking() {
			w, err := scheduling.AppointmentWindow(existing)
			if err != nil {
				return err
			}
			conflict, err := scheduling.HasEmployeeConflict(ctx, q, existing.EmployeeID, w, id)
			if err != nil {
				return err
			}
			if conflict {
				return apperr.Conflict("employee has a conflicting appointment")
			}
		}
		if err := q.SetAppointmentStatus(ctx, id, status); err != nil {
			return notFound(err, "appointment")
		}
		return emit(ctx, q, outbox.AggregateAppointment, id, outbox.AppointmentStatusChanged, map[string]any{
			"id":             id,
			"status":         status,
			"previousStatus": existing.Status,
		})
	})
}

// ReassignAppointment moves the booking to employeeID, keeping its branch and window.
func (s *Service) ReassignAppointment(ctx context.Context, id, employeeID int64) error {
	if employeeID == 0 {
		return apperr.FieldValidation("employeeId", "employeeId is required")
	}
	return s.store.InTx(ctx, func(q Queries) error {
		existing, err := q.GetAppointment(ctx, id)
		if err != nil {
			return notFound(err, "appointment")
		}
		w, err := scheduling.AppointmentWindow(existing)
		if err != nil {
			return err
		}
		if err := checkEmployeeSlot(ctx, q, employeeID, existing.BranchID, w, id); err != nil {
			return err
		}
		if err := q.SetAppointmentEmployee(ctx, id, employeeID); err != nil {
			return notFound(err, "appointment")
		}
		return emit(ctx, q, outbox.AggregateAppointment, id, outbox.AppointmentReassigned, map[string]any{
			"id":                 id,
			"employeeId":         employeeID,
			"previousEmployeeId": existing.EmployeeID,
		})
	})
}

func (s *Service) DeleteAppointment(ctx context.Context, id int64) error {
	return s.store.InTx(ctx, func(q Queries) error {
		if err := q.DeleteAppointment(ctx, id); err != nil {
			return notFound(err, "appointment")
		}
		return emit(ctx, q, outbox.AggregateAppointment, id, outbox.AppointmentDeleted, map[string]any{"id": id})
	})
}

// PreviewAvailableEmployee runs the auto-assignment search without booking.
func (s *Service) PreviewAvailableEmployee(ctx context.Context, branchID int64, date, startTime string, durationMinutes int) (int64, error) {
	if branchID == 0 || date == "" || startTime == "" || durationMinutes == 0 {
		return 0, apperr.Validation("branchId, date, startTime and durationMinutes are required")
	}
	w, err := scheduling.MakeWindow(date, startTime, durationMinutes)
	if err != nil {
		return 0, err
	}
	if err := ensureBranch(ctx, s.store, branchID); err != nil {
		return 0, err
	}
	return assignEmployee(ctx, s.store, branchID, w)
}

func ensureCustomer(ctx context.Context, q Queries, id int64) error {
	ok, err := q.CustomerExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("customer")
	}
	return nil
}

func ensureBranch(ctx context.Context, q Queries, id int64) error {
	ok, err := q.BranchExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("branch")
	}
	return nil
}

// checkEmployeeSlot verifies employeeID can take w in branchID: it exists,
// belongs to the branch, is not on approved leave and has no overlapping
// blocking booking other than excludeAppointmentID.
func checkEmployeeSlot(ctx context.Context, q Queries, employeeID, branchID int64, w scheduling.Window, excludeAppointmentID int64) error {
	emp, err := q.GetEmployee(ctx, employeeID)
	if err != nil {
		return notFound(err, "employee")
	}
	if emp.BranchID != branchID {
		return apperr.FieldValidation("employeeId", "employee does not belong to selected branch")
	}

	onLeave, err := scheduling.IsOnApprovedLeave(ctx, q, employeeID, w.Date)
	if err != nil {
		return err
	}
	if onLeave {
		return apperr.Conflict("employee is on approved leave on this date")
	}

	conflict, err := scheduling.HasEmployeeConflict(ctx, q, employeeID, w, excludeAppointmentID)
	if err != nil {
		return err
	}
	if conflict {
		return apperr.Conflict("employee has a conflicting appointment")
	}
	return nil
}

func assignEmployee(ctx context.Context, q Queries, branchID int64, w scheduling.Window) (int64, error) {
	id, err := scheduling.FindAvailableEmployee(ctx, q, branchID, w)
	if errors.Is(err, scheduling.ErrNoAvailableEmployee) {
		return 0, apperr.ConflictWrap(scheduling.ErrNoAvailableEmployee.Error(), err)
	}
	return id, err
}

func withEndTime(a model.Appointment) model.Appointment {
	if a.EndTime != "" {
		return a
	}
	if w, err := scheduling.AppointmentWindow(a); err == nil {
		a.EndTime = w.EndClock()
	}
	return a
}
