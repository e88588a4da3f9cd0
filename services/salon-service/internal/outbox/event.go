package outbox

import (
	"encoding/json"
	"strconv"
)

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

const (
	AggregateAppointment     = "appointment"
	AggregateLeave           = "leave_request"
	AggregateShiftAssignment = "shift_assignment"
)

const (
	AppointmentCreated       = "salon.appointment.created.v1"
	AppointmentUpdated       = "salon.appointment.updated.v1"
	AppointmentStatusChanged = "salon.appointment.status_changed.v1"
	AppointmentReassigned    = "salon.appointment.reassigned.v1"
	AppointmentDeleted       = "salon.appointment.deleted.v1"

	LeaveCreated   = "salon.leave.created.v1"
	LeaveUpdated   = "salon.leave.updated.v1"
	LeaveReviewed  = "salon.leave.reviewed.v1"
	LeaveCancelled = "salon.leave.cancelled.v1"

	ShiftAssignmentCreated = "salon.shift_assignment.created.v1"
	ShiftAssignmentUpdated = "salon.shift_assignment.updated.v1"
	ShiftAssignmentDeleted = "salon.shift_assignment.deleted.v1"
)

// NewEvent marshals payload as JSON.
func NewEvent(aggregateType string, aggregateID int64, eventType string, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		AggregateType: aggregateType,
		AggregateID:   strconv.FormatInt(aggregateID, 10),
		EventType:     eventType,
		Payload:       body,
	}, nil
}
