package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/diancan-dev/waimai/backend/internal/domain"
)

func (h *Handler) GetMerchantMenu(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	menu, err := h.repository.GetMenu(merchant.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取菜单成功", menu)
}

func (h *Handler) CreateMenuCategory(w http.ResponseWriter, r *http.Request) {
	merchant := r.Context().Value(MerchantCtx).(*domain.Merchant)

	var req struct {
		Name      string `json:"name" validate:"required"`
		SortOrder int32  `json:"sortOrder"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	category := &domain.MenuCategory{
		MerchantID: merchant.ID,
		Name:       req.Name,
		SortOrder:  req.SortOrder,
		Items:      []domain.MenuItem{},
	}

	if err := h.repository.CreateMenuCategory(category); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建菜单分类成功", category)
}

func (h *Handler) UpdateMenuCategory(w http.ResponseWriter, r *http.Request) {
	category := r.Context().Value(MenuCategoryCtx).(*domain.MenuCategory)

	var req struct {
		Name      *string `json:"name"`
		SortOrder *int32  `json:"sortOrder"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	if err := h.repository.UpdateMenuCategory(category); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "菜单分类已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新菜单分类成功", category)
}

func (h *Handler) DeleteMenuCategory(w http.ResponseWriter, r *http.Request) {
	category := r.Context().Value(MenuCategoryCtx).(*domain.MenuCategory)

	if err := h.repository.DeleteMenuCategory(category.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除菜单分类成功", nil)
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	category := r.Context().Value(MenuCategoryCtx).(*domain.MenuCategory)

	var req struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		Price       int64  `json:"price" validate:"required,min=0"`
		IsAvailable *bool  `json:"isAvailable"`
		Options     []struct {
			Name       string `json:"name" validate:"required"`
			ExtraPrice int64  `json:"extraPrice" validate:"min=0"`
		} `json:"options" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	item := &domain.MenuItem{
		CategoryID:  category.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsAvailable: true,
		Options:     []domain.ItemOption{},
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	for _, option := range req.Options {
		item.Options = append(item.Options, domain.ItemOption{
			Name:       option.Name,
			ExtraPrice: option.ExtraPrice,
		})
	}

	if err := h.repository.CreateMenuItem(item); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建菜品成功", item)
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	item := r.Context().Value(MenuItemCtx).(*domain.MenuItem)

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Price       *int64  `json:"price" validate:"omitempty,min=0"`
		IsAvailable *bool   `json:"isAvailable"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := h.repository.UpdateMenuItem(item); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "菜品已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新菜品成功", item)
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	item := r.Context().Value(MenuItemCtx).(*domain.MenuItem)

	if err := h.repository.DeleteMenuItem(item.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除菜品成功", nil)
}
