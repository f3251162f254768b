package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diancan-dev/waimai/backend/internal/availability"
	"github.com/diancan-dev/waimai/backend/internal/domain"
	"github.com/diancan-dev/waimai/backend/internal/utils"
)

// GetWorkingHours 返回商家的周营业时间表，同时附上格式化后的文本
func (h *Handler) GetWorkingHours(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	var formatted string
	if merchant.Schedule != nil {
		formatted = availability.FormatWeek(merchant.Schedule)
	}

	h.successResponse(w, r, "获取营业时间成功", map[string]any{
		"schedule":  merchant.Schedule,
		"formatted": formatted,
	})
}

// saveSchedule 校验并持久化新的时间表，成功后返回给调用方
func (h *Handler) saveSchedule(w http.ResponseWriter, r *http.Request, merchantID int64, schedule domain.WeeklySchedule) {
	if err := utils.ValidateWeeklySchedule(schedule); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateMerchantSchedule(merchantID, schedule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新营业时间成功", schedule)
}

// UpdateWorkingHours 整表替换商家的营业时间
func (h *Handler) UpdateWorkingHours(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	var req struct {
		Schedule domain.WeeklySchedule `json:"schedule" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.saveSchedule(w, r, merchant.ID, req.Schedule)
}

// UpdateWorkingHoursDay 只修改某一天的营业时间，其余六天保持不变
func (h *Handler) UpdateWorkingHoursDay(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	day := chi.URLParam(r, "day")
	if err := utils.ValidateDayKey(day); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if merchant.Schedule == nil {
		h.errorResponse(w, r, "商家尚未配置营业时间，请先设置完整的时间表")
		return
	}

	var req struct {
		Open     string `json:"open"`
		Close    string `json:"close"`
		IsClosed bool   `json:"isClosed"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rule := domain.DayRule{Open: req.Open, Close: req.Close, IsClosed: req.IsClosed}
	if err := utils.ValidateDayRule(rule); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 复制后修改，不动中间件加载的商家对象
	schedule := make(domain.WeeklySchedule, len(merchant.Schedule))
	for key, value := range merchant.Schedule {
		schedule[key] = value
	}
	schedule[day] = rule

	h.saveSchedule(w, r, merchant.ID, schedule)
}

// SetUniformWorkingHours 七天统一设置同一个营业时间段
func (h *Handler) SetUniformWorkingHours(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	var req struct {
		Open  string `json:"open" validate:"required"`
		Close string `json:"close" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.saveSchedule(w, r, merchant.ID, availability.SetUniform(req.Open, req.Close))
}

// CopyWorkingHoursDay 把某一天的营业时间复制到其余六天
func (h *Handler) CopyWorkingHoursDay(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	var req struct {
		Day string `json:"day" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.ValidateDayKey(req.Day); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if merchant.Schedule == nil {
		h.errorResponse(w, r, "商家尚未配置营业时间，请先设置完整的时间表")
		return
	}

	h.saveSchedule(w, r, merchant.ID, availability.CopyDayToAll(merchant.Schedule, req.Day))
}

// SetWeekdayWorkingHours 批量设置周一到周五的营业时间
func (h *Handler) SetWeekdayWorkingHours(w http.ResponseWriter, r *http.Request) {
	h.setDayGroupWorkingHours(w, r, availability.SetWeekdays)
}

// SetWeekendWorkingHours 批量设置周六和周日的营业时间
func (h *Handler) SetWeekendWorkingHours(w http.ResponseWriter, r *http.Request) {
	h.setDayGroupWorkingHours(w, r, availability.SetWeekend)
}

func (h *Handler) setDayGroupWorkingHours(w http.ResponseWriter, r *http.Request, apply func(domain.WeeklySchedule, domain.DayRule) domain.WeeklySchedule) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	var req struct {
		Open     string `json:"open"`
		Close    string `json:"close"`
		IsClosed bool   `json:"isClosed"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rule := domain.DayRule{Open: req.Open, Close: req.Close, IsClosed: req.IsClosed}
	if err := utils.ValidateDayRule(rule); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if merchant.Schedule == nil {
		h.errorResponse(w, r, "商家尚未配置营业时间，请先设置完整的时间表")
		return
	}

	h.saveSchedule(w, r, merchant.ID, apply(merchant.Schedule, rule))
}
