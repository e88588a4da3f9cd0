package handlers

import (
	"net/http"
	"strconv"

	"github.com/salonflow/salonflow/libs/httpx"
	"github.com/salonflow/salonflow/services/salon-service/internal/apperr"
	"github.com/salonflow/salonflow/services/salon-service/internal/model"
	"github.com/salonflow/salonflow/services/salon-service/internal/service"
)

type createAppointmentRequest struct {
	CustomerID      int64   `json:"customerId"`
	BranchID        int64   `json:"branchId"`
	EmployeeID      *int64  `json:"employeeId"`
	ServiceName     string  `json:"serviceName"`
	ServiceNotes    *string `json:"serviceNotes"`
	AppointmentDate string  `json:"appointmentDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes"`
}

type updateAppointmentRequest struct {
	CustomerID      *int64  `json:"customerId"`
	BranchID        *int64  `json:"branchId"`
	EmployeeID      *int64  `json:"employeeId"`
	ServiceName     *string `json:"serviceName"`
	ServiceNotes    *string `json:"serviceNotes"`
	AppointmentDate *string `json:"appointmentDate"`
	StartTime       *string `json:"startTime"`
	DurationMinutes *int    `json:"durationMinutes"`
	Status          *string `json:"status"`
	Notes           *string `json:"notes"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type assignRequest struct {
	EmployeeID int64 `json:"employeeId"`
}

type availabilityResponse struct {
	EmployeeID int64 `json:"employeeId"`
}

func (h *Handler) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.svc.CreateAppointment(r.Context(), service.CreateAppointmentInput{
		CustomerID:      req.CustomerID,
		BranchID:        req.BranchID,
		EmployeeID:      deref(req.EmployeeID),
		ServiceName:     req.ServiceName,
		ServiceNotes:    req.ServiceNotes,
		AppointmentDate: req.AppointmentDate,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Status:          model.AppointmentStatus(req.Status),
		Notes:           req.Notes,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, res)
}

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	ids, err := queryInts(r, "branchId", "employeeId", "customerId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	list, err := h.svc.ListAppointments(r.Context(), model.AppointmentFilter{
		BranchID:   ids["branchId"],
		EmployeeID: ids["employeeId"],
		CustomerID: ids["customerId"],
		Status:     model.AppointmentStatus(trimmed(r, "status")),
		Date:       trimmed(r, "date"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []model.Appointment{}
	}
	httpx.WriteData(w, http.StatusOK, list)
}

func (h *Handler) getAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	a, err := h.svc.GetAppointment(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, a)
}

func (h *Handler) updateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req updateAppointmentRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	in := service.UpdateAppointmentInput{
		CustomerID:      req.CustomerID,
		BranchID:        req.BranchID,
		EmployeeID:      req.EmployeeID,
		ServiceName:     req.ServiceName,
		ServiceNotes:    req.ServiceNotes,
		AppointmentDate: req.AppointmentDate,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}
	if req.Status != nil {
		st := model.AppointmentStatus(*req.Status)
		in.Status = &st
	}
	employeeID, err := h.svc.UpdateAppointment(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, messageResponse{Message: "appointment updated successfully", EmployeeID: &employeeID})
}

func (h *Handler) updateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req statusRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Status == "" {
		h.fail(w, r, apperr.FieldValidation("status", "status is required"))
		return
	}
	if err := h.svc.UpdateAppointmentStatus(r.Context(), id, model.AppointmentStatus(req.Status)); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, messageResponse{Message: "appointment status updated successfully"})
}

func (h *Handler) assignAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req assignRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.ReassignAppointment(r.Context(), id, req.EmployeeID); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, messageResponse{Message: "employee assigned successfully", EmployeeID: &req.EmployeeID})
}

func (h *Handler) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.DeleteAppointment(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, messageResponse{Message: "appointment deleted successfully"})
}

// previewAvailability answers which employee auto-assignment would pick
// right now, without booking.
func (h *Handler) previewAvailability(w http.ResponseWriter, r *http.Request) {
	branchID, err := queryInt(r, "branchId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	duration := 0
	if raw := trimmed(r, "durationMinutes"); raw != "" {
		if duration, err = strconv.Atoi(raw); err != nil {
			h.fail(w, r, apperr.FieldValidation("durationMinutes", "durationMinutes must be a positive integer"))
			return
		}
	}
	employeeID, err := h.svc.PreviewAvailableEmployee(r.Context(), branchID, trimmed(r, "date"), trimmed(r, "startTime"), duration)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, availabilityResponse{EmployeeID: employeeID})
}
