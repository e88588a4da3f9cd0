package service

import (
	"context"
	"sort"
	"time"

	"github.com/salonflow/salonflow/services/salon-service/internal/model"
	"github.com/salonflow/salonflow/services/salon-service/internal/outbox"
)

// memStore is an in-memory Store. InTx snapshots state and restores it when
// fn fails, which is enough to observe rollback of events and rows.
type memStore struct {
	customers map[int64]bool
	branches  map[int64]bool
	employees map[int64]model.Employee
	shifts    map[int64]model.Shift

	appointments map[int64]model.Appointment
	leaves       map[int64]model.LeaveRequest
	assignments  map[int64]model.ShiftAssignment
	events       []outbox.Event

	nextID int64
}

func newMemStore() *memStore {
	return &memStore{
		customers:    map[int64]bool{},
		branches:     map[int64]bool{},
		employees:    map[int64]model.Employee{},
		shifts:       map[int64]model.Shift{},
		appointments: map[int64]model.Appointment{},
		leaves:       map[int64]model.LeaveRequest{},
		assignments:  map[int64]model.ShiftAssignment{},
		nextID:       100,
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) InTx(ctx context.Context, fn func(q Queries) error) error {
	appts := cloneMap(m.appointments)
	leaves := cloneMap(m.leaves)
	assignments := cloneMap(m.assignments)
	events := append([]outbox.Event(nil), m.events...)

	if err := fn(m); err != nil {
		m.appointments, m.leaves, m.assignments, m.events = appts, leaves, assignments, events
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memStore) ActiveEmployees(_ context.Context, branchID int64) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range m.employees {
		if e.BranchID == branchID && e.Active() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) AppointmentsOn(_ context.Context, date string, employeeIDs []int64) ([]model.Appointment, error) {
	wanted := map[int64]bool{}
	for _, id := range employeeIDs {
		wanted[id] = true
	}
	var out []model.Appointment
	for _, a := range m.appointments {
		if a.AppointmentDate == date && wanted[a.EmployeeID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) LeavesBetween(_ context.Context, employeeIDs []int64, from, to string, statuses []model.LeaveStatus) ([]model.LeaveRequest, error) {
	wanted := map[int64]bool{}
	for _, id := range employeeIDs {
		wanted[id] = true
	}
	st := map[model.LeaveStatus]bool{}
	for _, s := range statuses {
		st[s] = true
	}
	var out []model.LeaveRequest
	for _, l := range m.leaves {
		if wanted[l.EmployeeID] && st[l.Status] && l.StartDate <= to && l.EndDate >= from {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStore) CustomerExists(_ context.Context, id int64) (bool, error) { return m.customers[id], nil }
func (m *memStore) BranchExists(_ context.Context, id int64) (bool, error)   { return m.branches[id], nil }

func (m *memStore) GetEmployee(_ context.Context, id int64) (model.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return model.Employee{}, model.ErrNotFound
	}
	return e, nil
}

func (m *memStore) GetShift(_ context.Context, id int64) (model.Shift, error) {
	s, ok := m.shifts[id]
	if !ok {
		return model.Shift{}, model.ErrNotFound
	}
	return s, nil
}

func (m *memStore) CreateAppointment(_ context.Context, a *model.Appointment) error {
	a.ID = m.id()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.appointments[a.ID] = *a
	return nil
}

func (m *memStore) GetAppointment(_ context.Context, id int64) (model.Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return model.Appointment{}, model.ErrNotFound
	}
	return a, nil
}

func (m *memStore) ListAppointments(_ context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range m.appointments {
		if (f.BranchID == 0 || a.BranchID == f.BranchID) &&
			(f.EmployeeID == 0 || a.EmployeeID == f.EmployeeID) &&
			(f.CustomerID == 0 || a.CustomerID == f.CustomerID) &&
			(f.Status == "" || a.Status == f.Status) &&
			(f.Date == "" || a.AppointmentDate == f.Date) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate > out[j].AppointmentDate
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime > out[j].StartTime
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memStore) UpdateAppointment(_ context.Context, a model.Appointment) error {
	if _, ok := m.appointments[a.ID]; !ok {
		return model.ErrNotFound
	}
	m.appointments[a.ID] = a
	return nil
}

func (m *memStore) SetAppointmentStatus(_ context.Context, id int64, status model.AppointmentStatus) error {
	a, ok := m.appointments[id]
	if !ok {
		return model.ErrNotFound
	}
	a.Status = status
	m.appointments[id] = a
	return nil
}

func (m *memStore) SetAppointmentEmployee(_ context.Context, id, employeeID int64) error {
	a, ok := m.appointments[id]
	if !ok {
		return model.ErrNotFound
	}
	a.EmployeeID = employeeID
	m.appointments[id] = a
	return nil
}

func (m *memStore) DeleteAppointment(_ context.Context, id int64) error {
	if _, ok := m.appointments[id]; !ok {
		return model.ErrNotFound
	}
	delete(m.appointments, id)
	return nil
}

func (m *memStore) CreateLeave(_ context.Context, l *model.LeaveRequest) error {
	l.ID = m.id()
	m.leaves[l.ID] = *l
	return nil
}

func (m *memStore) GetLeave(_ context.Context, id int64) (model.LeaveRequest, error) {
	l, ok := m.leaves[id]
	if !ok {
		return model.LeaveRequest{}, model.ErrNotFound
	}
	return l, nil
}

func (m *memStore) ListLeaves(_ context.Context, f model.LeaveFilter) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	for _, l := range m.leaves {
		if (f.EmployeeID == 0 || l.EmployeeID == f.EmployeeID) &&
			(f.Status == "" || l.Status == f.Status) &&
			(f.LeaveType == "" || l.LeaveType == f.LeaveType) &&
			(f.FromDate == "" || l.StartDate >= f.FromDate) &&
			(f.ToDate == "" || l.EndDate <= f.ToDate) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate > out[j].StartDate })
	return out, nil
}

func (m *memStore) UpdateLeave(_ context.Context, l model.LeaveRequest) error {
	if _, ok := m.leaves[l.ID]; !ok {
		return model.ErrNotFound
	}
	m.leaves[l.ID] = l
	return nil
}

func (m *memStore) CreateShiftAssignment(_ context.Context, sa *model.ShiftAssignment) error {
	sa.ID = m.id()
	m.assignments[sa.ID] = *sa
	return nil
}

func (m *memStore) GetShiftAssignment(_ context.Context, id int64) (model.ShiftAssignment, error) {
	sa, ok := m.assignments[id]
	if !ok {
		return model.ShiftAssignment{}, model.ErrNotFound
	}
	return sa, nil
}

func (m *memStore) ListShiftAssignments(_ context.Context, f model.ShiftAssignmentFilter) ([]model.ShiftAssignment, error) {
	var out []model.ShiftAssignment
	for _, sa := range m.assignments {
		if (f.EmployeeID == 0 || sa.EmployeeID == f.EmployeeID) &&
			(f.ShiftID == 0 || sa.ShiftID == f.ShiftID) &&
			(f.Status == "" || sa.Status == f.Status) {
			out = append(out, sa)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShiftDate < out[j].ShiftDate })
	return out, nil
}

func (m *memStore) ShiftAssignmentTaken(_ context.Context, employeeID int64, date string, excludeID int64) (bool, error) {
	for _, sa := range m.assignments {
		if sa.EmployeeID == employeeID && sa.ShiftDate == date && sa.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UpdateShiftAssignment(_ context.Context, sa model.ShiftAssignment) error {
	if _, ok := m.assignments[sa.ID]; !ok {
		return model.ErrNotFound
	}
	m.assignments[sa.ID] = sa
	return nil
}

func (m *memStore) DeleteShiftAssignment(_ context.Context, id int64) error {
	if _, ok := m.assignments[id]; !ok {
		return model.ErrNotFound
	}
	delete(m.assignments, id)
	return nil
}

func (m *memStore) AddEvent(_ context.Context, evt outbox.Event) error {
	m.events = append(m.events, evt)
	return nil
}

func (m *memStore) eventTypes() []string {
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.EventType
	}
	return out
}
