package model

import "time"

type LeaveStatus string

const (
	LeavePending   LeaveStatus = "pending"
	LeaveApproved  LeaveStatus = "approved"
	LeaveRejected  LeaveStatus = "rejected"
	LeaveCancelled LeaveStatus = "cancelled"
)

func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected, LeaveCancelled:
		return true
	}
	return false
}

type LeaveType string

var leaveTypes = map[LeaveType]struct{}{
	"casual":    {},
	"sick":      {},
	"earned":    {},
	"unpaid":    {},
	"maternity": {},
	"paternity": {},
	"other":     {},
}

func (t LeaveType) Valid() bool {
	_, ok := leaveTypes[t]
	return ok
}

type LeaveRequest struct {
	ID              int64       `json:"id"`
	EmployeeID      int64       `json:"employeeId"`
	LeaveType       LeaveType   `json:"leaveType"`
	StartDate       string      `json:"startDate"`
	EndDate         string      `json:"endDate"`
	TotalDays       int         `json:"totalDays"`
	Reason          *string     `json:"reason"`
	Status          LeaveStatus `json:"status"`
	ApprovedBy      *int64      `json:"approvedBy"`
	ApprovedAt      *time.Time  `json:"approvedAt"`
	RejectionReason *string     `json:"rejectionReason"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`

	EmployeeName string `json:"employeeName,omitempty"`
}

type LeaveFilter struct {
	EmployeeID int64
	Status     LeaveStatus
	LeaveType  LeaveType
	FromDate   string
	ToDate     string
}
