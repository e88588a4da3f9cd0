package outbox

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/salonflow/salonflow/libs/kafkax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type captureExec struct {
	sql  string
	args []any
}

func (c *captureExec) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.sql = sql
	c.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestNewEventMarshalsPayload(t *testing.T) {
	evt, err := NewEvent(AggregateAppointment, 42, AppointmentCreated, map[string]any{"employeeId": 7})
	require.NoError(t, err)
	assert.Equal(t, "42", evt.AggregateID)
	assert.Equal(t, AppointmentCreated, evt.EventType)

	var body map[string]int
	require.NoError(t, json.Unmarshal(evt.Payload, &body))
	assert.Equal(t, 7, body["employeeId"])
}

func TestInsertWritesEventIDAndEnvelope(t *testing.T) {
	exec := &captureExec{}
	evt, err := NewEvent(AggregateLeave, 3, LeaveReviewed, map[string]string{"status": "approved"})
	require.NoError(t, err)

	require.NoError(t, Insert(context.Background(), exec, evt))
	require.Len(t, exec.args, 7)
	assert.Len(t, exec.args[0].(string), 36, "uuid event id")
	assert.Equal(t, AggregateLeave, exec.args[1])
	assert.Equal(t, "3", exec.args[2])
	assert.Equal(t, LeaveReviewed, exec.args[3])
}

func TestToMessageCarriesHeadersAndTrace(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	traceparent := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	msg := toMessage(context.Background(), Record{
		EventID:       "evt-9",
		AggregateType: AggregateAppointment,
		AggregateID:   "12",
		EventType:     AppointmentReassigned,
		Payload:       []byte(`{}`),
		Traceparent:   traceparent,
	})

	assert.Equal(t, AppointmentReassigned, msg.Topic)
	assert.Equal(t, "12", string(msg.Key))
	assert.Equal(t, "evt-9", kafkax.HeaderValue(msg.Headers, kafkax.HeaderEventID))
	assert.Equal(t, AppointmentReassigned, kafkax.HeaderValue(msg.Headers, kafkax.HeaderEventType))
	assert.Equal(t, traceparent, kafkax.HeaderValue(msg.Headers, "traceparent"))
}
