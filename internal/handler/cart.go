package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/diancan-dev/waimai/backend/internal/domain"
)

// 购物车只存在 redis 中，带过期时间，长期不下单会自动清空

func cartKey(userID int64) string {
	return fmt.Sprintf("cart_%d", userID)
}

func (h *Handler) currentUserID(r *http.Request) (int64, error) {
	subString := r.Context().Value(SubCtxKey).(string)
	return strconv.ParseInt(subString, 10, 64)
}

// loadCart 从 redis 中读取用户的购物车，不存在时返回 nil
func (h *Handler) loadCart(userID int64) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	data, err := h.redisClient.Get(ctx, cartKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	cart := &domain.Cart{}
	if err := json.Unmarshal([]byte(data), cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (h *Handler) storeCart(userID int64, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	return h.redisClient.Set(ctx, cartKey(userID), data, time.Duration(h.config.Cart.Expiration)*time.Second).Err()
}

func (h *Handler) deleteCart(userID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	return h.redisClient.Del(ctx, cartKey(userID)).Err()
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	cart, err := h.loadCart(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if cart == nil {
		cart = &domain.Cart{Items: []domain.CartItem{}}
	}

	h.successResponse(w, r, "获取购物车成功", cart)
}

// UpdateCart 整体替换购物车
// 客户端只提交菜品 ID 和数量，名称和价格由服务端从数据库取当前值，
// 防止客户端伪造价格
func (h *Handler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var req struct {
		MerchantID int64 `json:"merchantID" validate:"required"`
		Items      []struct {
			ItemID    int64   `json:"itemID" validate:"required"`
			Quantity  int32   `json:"quantity" validate:"required,min=1,max=99"`
			OptionIDs []int64 `json:"optionIDs"`
		} `json:"items" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	cart := &domain.Cart{
		MerchantID: req.MerchantID,
		Items:      make([]domain.CartItem, 0, len(req.Items)),
	}

	for _, reqItem := range req.Items {
		item, err := h.repository.GetMenuItemByID(reqItem.ItemID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "购物车中存在不存在的菜品")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		// 确认菜品属于这个商家
		category, err := h.repository.GetMenuCategoryByID(item.CategoryID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if category.MerchantID != req.MerchantID {
			h.errorResponse(w, r, "购物车只能包含同一个商家的菜品")
			return
		}

		if !item.IsAvailable {
			h.errorResponse(w, r, fmt.Sprintf("菜品「%s」已售罄", item.Name))
			return
		}

		// 单价 = 菜品价格 + 所选规格的加价
		price := item.Price
		for _, optionID := range reqItem.OptionIDs {
			found := false
			for _, option := range item.Options {
				if option.ID == optionID {
					price += option.ExtraPrice
					found = true
					break
				}
			}
			if !found {
				h.errorResponse(w, r, fmt.Sprintf("菜品「%s」不存在所选规格", item.Name))
				return
			}
		}

		cart.Items = append(cart.Items, domain.CartItem{
			ItemID:    item.ID,
			Name:      item.Name,
			Price:     price,
			Quantity:  reqItem.Quantity,
			OptionIDs: reqItem.OptionIDs,
		})
	}

	if err := h.storeCart(userID, cart); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新购物车成功", cart)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.deleteCart(userID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "清空购物车成功", nil)
}
