package handler

import (
	"net/http"
	"strconv"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (h *Handler) GetPatientPrescriptions(w http.ResponseWriter, r *http.Request) {
	patient := r.Context().Value(PatientCtx).(*domain.Patient)

	prescriptions, err := h.repository.GetPrescriptionsByPatient(patient.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取处方列表成功", prescriptions)
}

func (h *Handler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content" validate:"required"`
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

	// 开具处方的医生就是当前登录的用户
	subString := r.Context().Value(SubCtxKey).(string)
	doctorID, err := strconv.ParseInt(subString, 10, 64)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	prescription := &domain.Prescription{
		PatientID: patient.ID,
		DoctorID:  doctorID,
		Content:   req.Content,
	}

	if err := h.repository.CreatePrescription(prescription); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "开具处方成功", prescription)
}
