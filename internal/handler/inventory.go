package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (h *Handler) CreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind         string `json:"kind" validate:"required,oneof=药品 器械 血液制品"`
		Name         string `json:"name" validate:"required"`
		Manufacturer string `json:"manufacturer" validate:"required"`
		Quantity     int32  `json:"quantity" validate:"min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	item := &domain.InventoryItem{
		Kind:         domain.InventoryKind(req.Kind),
		Name:         req.Name,
		Manufacturer: req.Manufacturer,
		Quantity:     req.Quantity,
	}

	if err := h.repository.CreateInventoryItem(item); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建物资成功", item)
}

func (h *Handler) GetAllInventoryItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.repository.GetAllInventoryItems()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取物资列表成功", items)
}

func (h *Handler) GetInventoryItem(w http.ResponseWriter, r *http.Request) {
	item := r.Context().Value(InventoryItemCtx).(*domain.InventoryItem)
	h.successResponse(w, r, "获取物资信息成功", item)
}

// AdjustInventoryQuantity 对库存数量做增量调整，入库为正、出库为负
// 出库数量超过当前库存时整个调整会被拒绝
func (h *Handler) AdjustInventoryQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int32 `json:"delta" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	item := r.Context().Value(InventoryItemCtx).(*domain.InventoryItem)

	if err := h.repository.AdjustInventoryQuantity(item, req.Delta); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "库存不足或物资信息已变更，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "调整库存成功", item)
}

func (h *Handler) DeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	item := r.Context().Value(InventoryItemCtx).(*domain.InventoryItem)

	if err := h.repository.DeleteInventoryItem(item.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除物资成功", nil)
}
