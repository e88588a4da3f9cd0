package handlers

import (
	"net/http"

	"github.com/salonflow/salonflow/libs/httpx"
	"github.com/salonflow/salonflow/services/salon-service/internal/model"
	"github.com/salonflow/salonflow/services/salon-service/internal/service"
)

type createShiftAssignmentRequest struct {
	EmployeeID int64   `json:"employeeId"`
	ShiftID    int64   `json:"shiftId"`
	ShiftDate  string  `json:"shiftDate"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes"`
}

type updateShiftAssignmentRequest struct {
	ShiftID   *int64  `json:"shiftId"`
	ShiftDate *string `json:"shiftDate"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
}

func (h *Handler) createShiftAssignment(w http.ResponseWriter, r *http.Request) {
	var req createShiftAssignmentRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := h.svc.CreateShiftAssignment(r.Context(), service.CreateShiftAssignmentInput{
		EmployeeID: req.EmployeeID,
		ShiftID:    req.ShiftID,
		ShiftDate:  req.ShiftDate,
		Status:     model.ShiftAssignmentStatus(req.Status),
		Notes:      req.Notes,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) listShiftAssignments(w http.ResponseWriter, r *http.Request) {
	ids, err := queryInts(r, "employeeId", "shiftId", "branchId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	list, err := h.svc.ListShiftAssignments(r.Context(), model.ShiftAssignmentFilter{
		EmployeeID: ids["employeeId"],
		ShiftID:    ids["shiftId"],
		BranchID:   ids["branchId"],
		Status:     model.ShiftAssignmentStatus(trimmed(r, "status")),
		FromDate:   trimmed(r, "fromDate"),
		ToDate:     trimmed(r, "toDate"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []model.ShiftAssignment{}
	}
	httpx.WriteData(w, http.StatusOK, list)
}

func (h *Handler) updateShiftAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req updateShiftAssignmentRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	in := service.UpdateShiftAssignmentInput{ShiftID: req.ShiftID, ShiftDate: req.ShiftDate, Notes: req.Notes}
	if req.Status != nil {
		st := model.ShiftAssignmentStatus(*req.Status)
		in.Status = &st
	}
	if err := h.svc.UpdateShiftAssignment(r.Context(), id, in); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, messageResponse{Message: "assignment updated successfully"})
}

func (h *Handler) deleteShiftAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.DeleteShiftAssignment(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, messageResponse{Message: "assignment deleted successfully"})
}
