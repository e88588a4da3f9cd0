package model

import (
	"slices"
	"time"
)

type AppointmentStatus string

const (
	AppointmentScheduled   AppointmentStatus = "scheduled"
	AppointmentConfirmed   AppointmentStatus = "confirmed"
	AppointmentCheckedIn   AppointmentStatus = "checked_in"
	AppointmentInService   AppointmentStatus = "in_service"
	AppointmentCompleted   AppointmentStatus = "completed"
	AppointmentCancelled   AppointmentStatus = "cancelled"
	AppointmentNoShow      AppointmentStatus = "no_show"
	AppointmentRescheduled AppointmentStatus = "rescheduled"
)

// Any known status may be set from any other.
var appointmentStatuses = map[AppointmentStatus]struct{}{
	AppointmentScheduled:   {},
	AppointmentConfirmed:   {},
	AppointmentCheckedIn:   {},
	AppointmentInService:   {},
	AppointmentCompleted:   {},
	AppointmentCancelled:   {},
	AppointmentNoShow:      {},
	AppointmentRescheduled: {},
}

// BlockingStatuses occupy the employee's calendar. The schema's
// appointments_no_overlap constraint lists the same set.
var BlockingStatuses = []AppointmentStatus{
	AppointmentScheduled,
	AppointmentConfirmed,
	AppointmentCheckedIn,
	AppointmentInService,
}

func (s AppointmentStatus) Valid() bool {
	_, ok := appointmentStatuses[s]
	return ok
}

func (s AppointmentStatus) Blocking() bool {
	return slices.Contains(BlockingStatuses, s)
}

// Appointment dates are YYYY-MM-DD and times HH:MM. EndTime is derived.
type Appointment struct {
	ID              int64             `json:"id"`
	CustomerID      int64             `json:"customerId"`
	BranchID        int64             `json:"branchId"`
	EmployeeID      int64             `json:"employeeId"`
	ServiceName     string            `json:"serviceName"`
	ServiceNotes    *string           `json:"serviceNotes"`
	AppointmentDate string            `json:"appointmentDate"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	DurationMinutes int               `json:"durationMinutes"`
	Status          AppointmentStatus `json:"status"`
	Notes           *string           `json:"notes"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`

	// Joined from the directory tables; empty when not loaded.
	CustomerName  string `json:"customerName,omitempty"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	BranchName    string `json:"branchName,omitempty"`
	EmployeeName  string `json:"employeeName,omitempty"`
	EmployeeCode  string `json:"employeeCode,omitempty"`
}

type AppointmentFilter struct {
	BranchID   int64
	EmployeeID int64
	CustomerID int64
	Status     AppointmentStatus
	Date       string
}
