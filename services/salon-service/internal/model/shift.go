package model

import "time"

type ShiftAssignmentStatus string

const (
	ShiftScheduled ShiftAssignmentStatus = "scheduled"
	ShiftOff       ShiftAssignmentStatus = "off"
	ShiftLeave     ShiftAssignmentStatus = "leave"
)

func (s ShiftAssignmentStatus) Valid() bool {
	switch s {
	case ShiftScheduled, ShiftOff, ShiftLeave:
		return true
	}
	return false
}

// Shift is a branch's working-hours template. Read only.
type Shift struct {
	ID        int64
	BranchID  int64
	Name      string
	StartTime string
	EndTime   string
}

type ShiftAssignment struct {
	ID         int64                 `json:"id"`
	EmployeeID int64                 `json:"employeeId"`
	ShiftID    int64                 `json:"shiftId"`
	ShiftDate  string                `json:"shiftDate"`
	Status     ShiftAssignmentStatus `json:"status"`
	Notes      *string               `json:"notes"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`

	EmployeeName   string `json:"employeeName,omitempty"`
	ShiftName      string `json:"shiftName,omitempty"`
	ShiftStartTime string `json:"shiftStartTime,omitempty"`
	ShiftEndTime   string `json:"shiftEndTime,omitempty"`
	BranchID       int64  `json:"branchId,omitempty"`
}

type ShiftAssignmentFilter struct {
	EmployeeID int64
	ShiftID    int64
	BranchID   int64
	Status     ShiftAssignmentStatus
	FromDate   string
	ToDate     string
}
