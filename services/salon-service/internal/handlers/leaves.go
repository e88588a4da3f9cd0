package handlers

import (
	"net/http"
	"strconv"

	"github.com/salonflow/salonflow/libs/httpx"
	"github.com/salonflow/salonflow/services/salon-service/internal/model"
	"github.com/salonflow/salonflow/services/salon-service/internal/service"
)

type createLeaveRequest struct {
	EmployeeID int64   `json:"employeeId"`
	LeaveType  string  `json:"leaveType"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Reason     *string `json:"reason"`
}

type updateLeaveRequest struct {
	LeaveType *string `json:"leaveType"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Reason    *string `json:"reason"`
}

type reviewLeaveRequest struct {
	Status          string  `json:"status"`
	ApprovedBy      *int64  `json:"approvedBy"`
	RejectionReason *string `json:"rejectionReason"`
}

func (h *Handler) createLeave(w http.ResponseWriter, r *http.Request) {
	var req createLeaveRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := h.svc.CreateLeave(r.Context(), service.CreateLeaveInput{
		EmployeeID: req.EmployeeID,
		LeaveType:  model.LeaveType(req.LeaveType),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reason:     req.Reason,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) listLeaves(w http.ResponseWriter, r *http.Request) {
	employeeID, err := queryInt(r, "employeeId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	list, err := h.svc.ListLeaves(r.Context(), model.LeaveFilter{
		EmployeeID: employeeID,
		Status:     model.LeaveStatus(trimmed(r, "status")),
		LeaveType:  model.LeaveType(trimmed(r, "leaveType")),
		FromDate:   trimmed(r, "fromDate"),
		ToDate:     trimmed(r, "toDate"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []model.LeaveRequest{}
	}
	httpx.WriteData(w, http.StatusOK, list)
}

func (h *Handler) getLeave(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	l, err := h.svc.GetLeave(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, l)
}

func (h *Handler) updateLeave(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req updateLeaveRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	in := service.UpdateLeaveInput{StartDate: req.StartDate, EndDate: req.EndDate, Reason: req.Reason}
	if req.LeaveType != nil {
		lt := model.LeaveType(*req.LeaveType)
		in.LeaveType = &lt
	}
	if err := h.svc.UpdateLeave(r.Context(), id, in); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, messageResponse{Message: "leave request updated successfully"})
}

// reviewLeave records the caller as reviewer when approvedBy is omitted and
// the token subject is numeric.
func (h *Handler) reviewLeave(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req reviewLeaveRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.ApprovedBy == nil {
		if claims, ok := httpx.ClaimsFromContext(r.Context()); ok {
			if sub, err := strconv.ParseInt(claims.Sub, 10, 64); err == nil {
				req.ApprovedBy = &sub
			}
		}
	}
	status := model.LeaveStatus(req.Status)
	if err := h.svc.ReviewLeave(r.Context(), id, service.ReviewLeaveInput{
		Status:          status,
		ApprovedBy:      req.ApprovedBy,
		RejectionReason: req.RejectionReason,
	}); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, messageResponse{Message: service.ReviewMessage(status)})
}

func (h *Handler) cancelLeave(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.CancelLeave(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, messageResponse{Message: "leave request cancelled successfully"})
}
