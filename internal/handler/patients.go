package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName   string    `json:"fullName" validate:"required"`
		Gender     string    `json:"gender" validate:"required,oneof=男 女"`
		BirthDate  time.Time `json:"birthDate" validate:"required"`
		Contact    string    `json:"contact" validate:"required"`
		BloodGroup string    `json:"bloodGroup" validate:"required,oneof=A B AB O"`
		RoomID     *int64    `json:"roomId"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	patient := &domain.Patient{
		FullName:   req.FullName,
		Gender:     req.Gender,
		BirthDate:  req.BirthDate,
		Contact:    req.Contact,
		BloodGroup: req.BloodGroup,
		RoomID:     req.RoomID,
	}

	if err := h.repository.CreatePatient(patient); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建病人档案成功", patient)
}

func (h *Handler) GetAllPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.repository.GetAllPatients()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取病人列表成功", patients)
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patient := r.Context().Value(PatientCtx).(*domain.Patient)
	h.successResponse(w, r, "获取病人信息成功", patient)
}

func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName   *string `json:"fullName"`
		Contact    *string `json:"contact"`
		BloodGroup *string `json:"bloodGroup" validate:"omitempty,oneof=A B AB O"`
		RoomID     *int64  `json:"roomId"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	patient := r.Context().Value(PatientCtx).(*domain.Patient)

	if req.FullName != nil {
		patient.FullName = *req.FullName
	}
	if req.Contact != nil {
		patient.Contact = *req.Contact
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = *req.BloodGroup
	}
	if req.RoomID != nil {
		patient.RoomID = req.RoomID
	}

	if err := h.repository.UpdatePatient(patient); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新病人信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新病人信息成功", patient)
}

func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	patient := r.Context().Value(PatientCtx).(*domain.Patient)

	if err := h.repository.DeletePatient(patient.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除病人档案成功", nil)
}
