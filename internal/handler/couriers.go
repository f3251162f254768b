package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/diancan-dev/waimai/backend/internal/domain"
)

// UpsertCourierProfile 骑手上报位置和接单状态，首次调用即创建档案
func (h *Handler) UpsertCourierProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var req struct {
		Latitude    float64 `json:"latitude" validate:"required"`
		Longitude   float64 `json:"longitude" validate:"required"`
		IsAvailable bool    `json:"isAvailable"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	profile := &domain.CourierProfile{
		UserID:      userID,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsAvailable: req.IsAvailable,
	}

	if err := h.repository.UpsertCourierProfile(profile); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新骑手档案成功", profile)
}

func (h *Handler) GetCourierProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	profile, err := h.repository.GetCourierProfile(userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "骑手档案不存在，请先上报位置")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取骑手档案成功", profile)
}
