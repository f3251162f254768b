package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/diancan-dev/waimai/backend/internal/availability"
	"github.com/diancan-dev/waimai/backend/internal/domain"
)

// tempCloseKey 是商家临时歇业在 redis 中的 key，带 TTL，过期即自动恢复营业
func tempCloseKey(merchantID int64) string {
	return fmt.Sprintf("merchant_temp_close_%d", merchantID)
}

// isTemporarilyClosed 检查商家是否处于临时歇业状态
func (h *Handler) isTemporarilyClosed(merchantID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if err := h.redisClient.Get(ctx, tempCloseKey(merchantID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *Handler) CreateMerchant(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Name        string  `json:"name" validate:"required"`
		Description string  `json:"description"`
		Address     string  `json:"address" validate:"required"`
		Latitude    float64 `json:"latitude" validate:"required"`
		Longitude   float64 `json:"longitude" validate:"required"`
		Phone       string  `json:"phone" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	merchant := &domain.Merchant{
		OwnerID:     myInfo.ID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Phone:       req.Phone,
	}

	if err := h.repository.CreateMerchant(merchant); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建商家成功", merchant)
}

func (h *Handler) GetAllMerchants(w http.ResponseWriter, r *http.Request) {
	merchants, err := h.repository.GetAllMerchants()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取商家列表成功", merchants)
}

func (h *Handler) GetMyMerchants(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	merchants, err := h.repository.GetMerchantsByOwnerID(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取我的商家列表成功", merchants)
}

func (h *Handler) GetMerchant(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)
	h.successResponse(w, r, "获取商家信息成功", merchant)
}

// GetMerchantStatus 实时计算商家的营业状态
// 临时歇业优先于手动开关和营业时间表
func (h *Handler) GetMerchantStatus(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	tempClosed, err := h.isTemporarilyClosed(merchant.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if tempClosed {
		h.successResponse(w, r, "获取商家营业状态成功", availability.Status{
			IsOpen:     false,
			StatusText: "暂停营业",
		})
		return
	}

	status := availability.ResolveStatus(availability.Snapshot{
		IsOpenManual: merchant.IsOpenManual,
		Schedule:     merchant.Schedule,
	}, h.clock.Now())

	h.successResponse(w, r, "获取商家营业状态成功", status)
}

func (h *Handler) UpdateMerchant(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Address     *string  `json:"address"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		Phone       *string  `json:"phone"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		merchant.Name = *req.Name
	}
	if req.Description != nil {
		merchant.Description = *req.Description
	}
	if req.Address != nil {
		merchant.Address = *req.Address
	}
	if req.Latitude != nil {
		merchant.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		merchant.Longitude = *req.Longitude
	}
	if req.Phone != nil {
		merchant.Phone = *req.Phone
	}

	if err := h.repository.UpdateMerchant(merchant); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "商家信息已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新商家信息成功", merchant)
}

// UpdateMerchantManualOpen 设置或清除商家的手动营业开关
// 传 null 表示清除，恢复按营业时间表判断
func (h *Handler) UpdateMerchantManualOpen(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	var req struct {
		IsOpenManual *bool `json:"isOpenManual"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	merchant.IsOpenManual = req.IsOpenManual

	if err := h.repository.UpdateMerchant(merchant); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "商家信息已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新商家营业开关成功", merchant)
}

// TemporaryCloseMerchant 临时歇业一段时间，时间到后自动恢复
func (h *Handler) TemporaryCloseMerchant(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	var req struct {
		Minutes int `json:"minutes" validate:"required,min=1,max=1440"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if err := h.redisClient.Set(ctx, tempCloseKey(merchant.ID), 1, time.Duration(req.Minutes)*time.Minute).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, fmt.Sprintf("商家已临时歇业 %d 分钟", req.Minutes), nil)
}

func (h *Handler) CancelTemporaryClose(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if err := h.redisClient.Del(ctx, tempCloseKey(merchant.ID)).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "商家已恢复营业", nil)
}

func (h *Handler) DeleteMerchant(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	if err := h.repository.DeleteMerchant(merchant.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除商家成功", nil)
}
