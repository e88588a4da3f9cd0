// Package handlers exposes the scheduling operations over JSON/HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/salonflow/salonflow/libs/httpx"
	otelx "github.com/salonflow/salonflow/libs/otel"
	"github.com/salonflow/salonflow/services/salon-service/internal/apperr"
	"github.com/salonflow/salonflow/services/salon-service/internal/model"
	"github.com/salonflow/salonflow/services/salon-service/internal/service"
)

// Scheduler is the operation set served over HTTP. *service.Service
// implements it.
type Scheduler interface {
	CreateAppointment(ctx context.Context, in service.CreateAppointmentInput) (service.AppointmentResult, error)
	GetAppointment(ctx context.Context, id int64) (model.Appointment, error)
	ListAppointments(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, in service.UpdateAppointmentInput) (int64, error)
	UpdateAppointmentStatus(ctx context.Context, id int64, status model.AppointmentStatus) error
	ReassignAppointment(ctx context.Context, id, employeeID int64) error
	DeleteAppointment(ctx context.Context, id int64) error
	PreviewAvailableEmployee(ctx context.Context, branchID int64, date, startTime string, durationMinutes int) (int64, error)

	CreateLeave(ctx context.Context, in service.CreateLeaveInput) (int64, error)
	GetLeave(ctx context.Context, id int64) (model.LeaveRequest, error)
	ListLeaves(ctx context.Context, f model.LeaveFilter) ([]model.LeaveRequest, error)
	UpdateLeave(ctx context.Context, id int64, in service.UpdateLeaveInput) error
	ReviewLeave(ctx context.Context, id int64, in service.ReviewLeaveInput) error
	CancelLeave(ctx context.Context, id int64) error

	CreateShiftAssignment(ctx context.Context, in service.CreateShiftAssignmentInput) (int64, error)
	ListShiftAssignments(ctx context.Context, f model.ShiftAssignmentFilter) ([]model.ShiftAssignment, error)
	UpdateShiftAssignment(ctx context.Context, id int64, in service.UpdateShiftAssignmentInput) error
	DeleteShiftAssignment(ctx context.Context, id int64) error
}

type Handler struct {
	svc    Scheduler
	logger *slog.Logger
}

func New(svc Scheduler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type RouteOptions struct {
	// Authenticated wraps every API route. Nil leaves them open.
	Authenticated httpx.Middleware
	// Reviewers additionally wraps the leave review route.
	Reviewers httpx.Middleware
}

func (h *Handler) Register(mux *http.ServeMux, opts RouteOptions) {
	route := func(pattern string, fn http.HandlerFunc, extra ...httpx.Middleware) {
		var ms []httpx.Middleware
		if opts.Authenticated != nil {
			ms = append(ms, opts.Authenticated)
		}
		for _, m := range extra {
			if m != nil {
				ms = append(ms, m)
			}
		}
		mux.Handle(pattern, httpx.Chain(fn, ms...))
	}

	route("POST /api/v1/appointments", h.createAppointment)
	route("GET /api/v1/appointments", h.listAppointments)
	route("GET /api/v1/appointments/availability", h.previewAvailability)
	route("GET /api/v1/appointments/{id}", h.getAppointment)
	route("PATCH /api/v1/appointments/{id}", h.updateAppointment)
	route("PATCH /api/v1/appointments/{id}/status", h.updateAppointmentStatus)
	route("PATCH /api/v1/appointments/{id}/assign", h.assignAppointment)
	route("DELETE /api/v1/appointments/{id}", h.deleteAppointment)

	route("POST /api/v1/leaves", h.createLeave)
	route("GET /api/v1/leaves", h.listLeaves)
	route("GET /api/v1/leaves/{id}", h.getLeave)
	route("PATCH /api/v1/leaves/{id}", h.updateLeave)
	route("PATCH /api/v1/leaves/{id}/review", h.reviewLeave, opts.Reviewers)
	route("PATCH /api/v1/leaves/{id}/cancel", h.cancelLeave)

	route("POST /api/v1/shift-assignments", h.createShiftAssignment)
	route("GET /api/v1/shift-assignments", h.listShiftAssignments)
	route("PATCH /api/v1/shift-assignments/{id}", h.updateShiftAssignment)
	route("DELETE /api/v1/shift-assignments/{id}", h.deleteShiftAssignment)
}

type messageResponse struct {
	Message    string `json:"message"`
	EmployeeID *int64 `json:"employeeId,omitempty"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an error envelope. Anything outside the apperr taxonomy
// is logged and reported as a generic internal error.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind == apperr.KindInternal {
		h.logger.Error("request failed",
			"request_id", httpx.RequestIDFromContext(r.Context()),
			"trace_id", otelx.TraceID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
		ae = apperr.Internal(err)
	}
	httpx.WriteError(w, statusFor(ae.Kind), string(ae.Kind), ae.Message, ae.Fields)
}

// decode reads exactly one JSON object with no unknown fields. Type
// mismatches and unknown fields are reported against the offending field.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return apperr.FieldValidation(typeErr.Field, fmt.Sprintf("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type.String())))
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return apperr.FieldValidation(field, "unknown field "+field)
		case errors.As(err, &maxErr):
			return apperr.Validation("request body too large")
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is required")
		default:
			return apperr.Validation("invalid json body")
		}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return apperr.Validation("invalid json body")
	}
	return nil
}

func jsonKind(goType string) string {
	switch {
	case strings.Contains(goType, "int"):
		return "integer"
	case strings.Contains(goType, "string"):
		return "string"
	default:
		return goType
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.FieldValidation("id", "id must be a positive integer")
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.FieldValidation(name, name+" must be an integer")
	}
	return v, nil
}

// queryInts parses several integer query parameters at once.
func queryInts(r *http.Request, names ...string) (map[string]int64, error) {
	out := make(map[string]int64, len(names))
	for _, n := range names {
		v, err := queryInt(r, n)
		if err != nil {
			return nil, err
		}
		out[n] = v
	}
	return out, nil
}

func trimmed(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
