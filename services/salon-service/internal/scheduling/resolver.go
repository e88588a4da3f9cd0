package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/salonflow/salonflow/services/salon-service/internal/model"
)

var ErrNoAvailableEmployee = errors.New("no available employee found for this slot")

// Source is the read side the resolver needs. Implementations may prefilter
// in the store; the resolver re-applies the exact predicates.
type Source interface {
	ActiveEmployees(ctx context.Context, branchID int64) ([]model.Employee, error)
	// AppointmentsOn returns appointments in any status on date for the
	// given employees.
	AppointmentsOn(ctx context.Context, date string, employeeIDs []int64) ([]model.Appointment, error)
	// LeavesBetween returns leave of the employees in the given statuses
	// that touches [from, to].
	LeavesBetween(ctx context.Context, employeeIDs []int64, from, to string, statuses []model.LeaveStatus) ([]model.LeaveRequest, error)
}

// AppointmentWindow rebuilds the window of a stored appointment.
func AppointmentWindow(a model.Appointment) (Window, error) {
	return MakeWindow(a.AppointmentDate, a.StartTime, a.DurationMinutes)
}

// HasEmployeeConflict reports whether a blocking appointment of the employee
// overlaps w. excludeAppointmentID (0 for none) is skipped.
func HasEmployeeConflict(ctx context.Context, src Source, employeeID int64, w Window, excludeAppointmentID int64) (bool, error) {
	appts, err := src.AppointmentsOn(ctx, w.DateString(), []int64{employeeID})
	if err != nil {
		return false, fmt.Errorf("load appointments: %w", err)
	}
	return conflicts(appts, employeeID, w, excludeAppointmentID), nil
}

func conflicts(appts []model.Appointment, employeeID int64, w Window, excludeAppointmentID int64) bool {
	for _, a := range appts {
		if a.EmployeeID != employeeID || a.ID == excludeAppointmentID || !a.Status.Blocking() {
			continue
		}
		other, err := AppointmentWindow(a)
		if err != nil {
			continue
		}
		if Overlaps(w, other) {
			return true
		}
	}
	return false
}

func IsOnApprovedLeave(ctx context.Context, src Source, employeeID int64, date time.Time) (bool, error) {
	day := date.Format(DateLayout)
	leaves, err := src.LeavesBetween(ctx, []int64{employeeID}, day, day, []model.LeaveStatus{model.LeaveApproved})
	if err != nil {
		return false, fmt.Errorf("load leave: %w", err)
	}
	return approvedLeaveCovering(leaves, date)[employeeID], nil
}

// approvedLeaveCovering marks employees with approved leave containing date.
func approvedLeaveCovering(leaves []model.LeaveRequest, date time.Time) map[int64]bool {
	out := map[int64]bool{}
	for _, l := range leaves {
		if l.Status != model.LeaveApproved {
			continue
		}
		r, err := ParseDateRange(l.StartDate, l.EndDate)
		if err != nil || !r.Contains(date) {
			continue
		}
		out[l.EmployeeID] = true
	}
	return out
}

// FindAvailableEmployee picks the active employee of the branch with the
// fewest appointments on the window's date (any status) who is neither on
// approved leave nor booked over the window. Ties go to the lowest id.
func FindAvailableEmployee(ctx context.Context, src Source, branchID int64, w Window) (int64, error) {
	employees, err := src.ActiveEmployees(ctx, branchID)
	if err != nil {
		return 0, fmt.Errorf("load employees: %w", err)
	}

	ids := make([]int64, 0, len(employees))
	for _, e := range employees {
		if e.BranchID == branchID && e.Active() {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 {
		return 0, ErrNoAvailableEmployee
	}

	day := w.DateString()
	leaves, err := src.LeavesBetween(ctx, ids, day, day, []model.LeaveStatus{model.LeaveApproved})
	if err != nil {
		return 0, fmt.Errorf("load leave: %w", err)
	}
	appts, err := src.AppointmentsOn(ctx, day, ids)
	if err != nil {
		return 0, fmt.Errorf("load appointments: %w", err)
	}

	onLeave := approvedLeaveCovering(leaves, w.Date)
	load := map[int64]int{}
	byEmployee := map[int64][]model.Appointment{}
	for _, a := range appts {
		load[a.EmployeeID]++
		byEmployee[a.EmployeeID] = append(byEmployee[a.EmployeeID], a)
	}

	candidates := make([]int64, 0, len(ids))
	for _, id := range ids {
		if onLeave[id] {
			continue
		}
		if conflicts(byEmployee[id], id, w, 0) {
			continue
		}
		candidates = append(candidates, id)
	}
	if len(candidates) == 0 {
		return 0, ErrNoAvailableEmployee
	}

	sort.Slice(candidates, func(i, j int) bool {
		li, lj := load[candidates[i]], load[candidates[j]]
		if li != lj {
			return li < lj
		}
		return candidates[i] < candidates[j]
	})
	return candidates[0], nil
}

// HasOverlappingLeave reports whether the employee holds pending or approved
// leave sharing at least one day with span. excludeLeaveID (0 for none) is
// skipped.
func HasOverlappingLeave(ctx context.Context, src Source, employeeID int64, span DateRange, excludeLeaveID int64) (bool, error) {
	leaves, err := src.LeavesBetween(ctx, []int64{employeeID},
		span.Start.Format(DateLayout), span.End.Format(DateLayout),
		[]model.LeaveStatus{model.LeavePending, model.LeaveApproved})
	if err != nil {
		return false, fmt.Errorf("load leave: %w", err)
	}
	for _, l := range leaves {
		if l.EmployeeID != employeeID || l.ID == excludeLeaveID {
			continue
		}
		if l.Status != model.LeavePending && l.Status != model.LeaveApproved {
			continue
		}
		r, err := ParseDateRange(l.StartDate, l.EndDate)
		if err != nil {
			continue
		}
		if RangesOverlap(r, span) {
			return true, nil
		}
	}
	return false, nil
}
