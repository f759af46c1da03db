package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/allotment"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (h *Handler) CreateAllotmentRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID  int64  `json:"roomId" validate:"required"`
		Role    string `json:"role" validate:"required,oneof=医生 护士 技师"`
		Minutes int32  `json:"minutes" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 确认房间存在
	if _, err := h.repository.GetRoomByID(req.RoomID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "科室不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	request, err := h.engine.Request(req.RoomID, domain.Role(req.Role), req.Minutes)
	if err != nil {
		switch {
		case errors.Is(err, allotment.ErrInvalidMinutes):
			h.badRequest(w, r, err)
		case request != nil:
			// 请求已经落库，只是首次分配没有成功，后台扫描会继续处理
			h.successResponse(w, r, "人力需求创建成功，分配将在后台继续进行", request)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "人力需求创建成功", request)
}

func (h *Handler) GetAllotmentRequest(w http.ResponseWriter, r *http.Request) {
	requestIDParam := chi.URLParam(r, "id")
	requestID, err := strconv.ParseInt(requestIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "需求ID无效")
		return
	}

	request, err := h.repository.GetAllotmentRequestByID(requestID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "人力需求不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取人力需求成功", request)
}

func (h *Handler) GetRequestAssignments(w http.ResponseWriter, r *http.Request) {
	requestIDParam := chi.URLParam(r, "id")
	requestID, err := strconv.ParseInt(requestIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "需求ID无效")
		return
	}

	assignments, err := h.repository.GetAssignmentsByRequest(requestID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取分配记录成功", assignments)
}

func (h *Handler) GetStaffAssignments(w http.ResponseWriter, r *http.Request) {
	staffIDParam := chi.URLParam(r, "id")
	staffID, err := strconv.ParseInt(staffIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "员工ID无效")
		return
	}

	assignments, err := h.engine.ListAssignmentsForStaff(staffID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取分配记录成功", assignments)
}

func (h *Handler) GetRoomAssignments(w http.ResponseWriter, r *http.Request) {
	roomIDParam := chi.URLParam(r, "id")
	roomID, err := strconv.ParseInt(roomIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "科室ID无效")
		return
	}

	assignments, err := h.engine.ListAssignmentsForRoom(roomID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取分配记录成功", assignments)
}

// ReleaseStaff 提前释放员工，roomId 为空时释放该员工所有生效中的分配
func (h *Handler) ReleaseStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID int64 `json:"staffId" validate:"required"`
		RoomID  int64 `json:"roomId"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	released, err := h.engine.ReleaseStaff(req.StaffID, req.RoomID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "释放员工成功", map[string]int64{"released": released})
}

func (h *Handler) CreateRoomStaffRequirement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID int64  `json:"roomId" validate:"required"`
		Role   string `json:"role" validate:"required,oneof=医生 护士 技师"`
		Count  int32  `json:"count" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := h.repository.GetRoomByID(req.RoomID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "科室不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	requirement := &domain.RoomStaffRequirement{
		RoomID: req.RoomID,
		Role:   domain.Role(req.Role),
		Count:  req.Count,
	}

	if err := h.repository.CreateRoomStaffRequirement(requirement); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建常驻人力要求成功", requirement)
}

func (h *Handler) GetAllRoomStaffRequirements(w http.ResponseWriter, r *http.Request) {
	requirements, err := h.repository.GetAllRoomStaffRequirements()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取常驻人力要求列表成功", requirements)
}

func (h *Handler) DeleteRoomStaffRequirement(w http.ResponseWriter, r *http.Request) {
	requirementIDParam := chi.URLParam(r, "id")
	requirementID, err := strconv.ParseInt(requirementIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "要求ID无效")
		return
	}

	if err := h.repository.DeleteRoomStaffRequirement(requirementID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除常驻人力要求成功", nil)
}

// ProcessPendingRequests 手动触发一轮未完成需求的分配，效果与后台扫描一致
func (h *Handler) ProcessPendingRequests(w http.ResponseWriter, r *http.Request) {
	h.engine.ProcessPendingRequests()
	h.successResponse(w, r, "已触发未完成需求的分配", nil)
}

// ProcessRoomRequirements 手动触发一轮常驻人力要求的补齐
func (h *Handler) ProcessRoomRequirements(w http.ResponseWriter, r *http.Request) {
	h.engine.ProcessRoomRequirements()
	h.successResponse(w, r, "已触发常驻人力要求的补齐", nil)
}
