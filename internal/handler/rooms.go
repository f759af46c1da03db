package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Number int32  `json:"number" validate:"required,min=1"`
		Name   string `json:"name" validate:"required"`
		Type   string `json:"type" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	room := &domain.Room{
		Number: req.Number,
		Name:   req.Name,
		Type:   req.Type,
		Status: domain.RoomStatusVacant,
	}

	if err := h.repository.CreateRoom(room); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "rooms_number_key":
			h.badRequest(w, r, errors.New("房间号已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建科室成功", room)
}

func (h *Handler) GetAllRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.repository.GetAllRooms()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取科室列表成功", rooms)
}

func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room := r.Context().Value(RoomCtx).(*domain.Room)
	h.successResponse(w, r, "获取科室信息成功", room)
}

func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   *string `json:"name"`
		Type   *string `json:"type"`
		Status *string `json:"status" validate:"omitempty,oneof=空闲 使用中 清洁中"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	room := r.Context().Value(RoomCtx).(*domain.Room)

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Type != nil {
		room.Type = *req.Type
	}
	if req.Status != nil {
		room.Status = domain.RoomStatus(*req.Status)
	}

	if err := h.repository.UpdateRoom(room); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新科室信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新科室信息成功", room)
}

func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	room := r.Context().Value(RoomCtx).(*domain.Room)

	if err := h.repository.DeleteRoom(room.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除科室成功", nil)
}
