package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/diancan-dev/waimai/backend/internal/availability"
	"github.com/diancan-dev/waimai/backend/internal/dispatch"
	"github.com/diancan-dev/waimai/backend/internal/domain"
	"github.com/diancan-dev/waimai/backend/internal/utils"
)

func (h *Handler) dispatchParameters() dispatch.Parameters {
	return dispatch.Parameters{
		BaseFee:        h.config.Dispatch.BaseFee,
		FreeDistanceKm: h.config.Dispatch.FreeDistanceKm,
		PerKmFee:       h.config.Dispatch.PerKmFee,
	}
}

// CreateOrder 从购物车结算下单
// 下单前检查商家是否在营业、收货地址是否在配送范围内，
// 金额全部由服务端按购物车快照计算
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Address   string  `json:"address" validate:"required"`
		Latitude  float64 `json:"latitude" validate:"required"`
		Longitude float64 `json:"longitude" validate:"required"`
		Remark    string  `json:"remark"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	cart, err := h.loadCart(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := utils.ValidateCart(cart); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	merchant, err := h.repository.GetMerchantByID(cart.MerchantID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "商家不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 临时歇业或不在营业时间内都不允许下单
	tempClosed, err := h.isTemporarilyClosed(merchant.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if tempClosed {
		h.errorResponse(w, r, "商家暂停营业，无法下单")
		return
	}

	status := availability.ResolveStatus(availability.Snapshot{
		IsOpenManual: merchant.IsOpenManual,
		Schedule:     merchant.Schedule,
	}, h.clock.Now())
	if !status.IsOpen {
		h.errorResponse(w, r, fmt.Sprintf("商家未营业，无法下单（%s）", status.StatusText))
		return
	}

	distance := dispatch.DistanceKm(merchant.Latitude, merchant.Longitude, req.Latitude, req.Longitude)
	if distance > h.config.Dispatch.MaxDistanceKm {
		h.errorResponse(w, r, "收货地址超出配送范围")
		return
	}

	deliveryFee := dispatch.DeliveryFee(distance, h.dispatchParameters())

	var itemsAmount int64
	orderItems := make([]domain.OrderItem, 0, len(cart.Items))
	for _, cartItem := range cart.Items {
		itemsAmount += cartItem.Price * int64(cartItem.Quantity)
		orderItems = append(orderItems, domain.OrderItem{
			ItemID:   cartItem.ItemID,
			Name:     cartItem.Name,
			Price:    cartItem.Price,
			Quantity: cartItem.Quantity,
		})
	}

	order := &domain.Order{
		CustomerID:  myInfo.ID,
		MerchantID:  merchant.ID,
		Status:      domain.OrderStatusPending,
		Items:       orderItems,
		ItemsAmount: itemsAmount,
		DeliveryFee: deliveryFee,
		TotalAmount: itemsAmount + deliveryFee,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Remark:      req.Remark,
	}

	if err := h.repository.CreateOrder(order); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 下单成功后清空购物车，失败也不影响订单
	if err := h.deleteCart(myInfo.ID); err != nil {
		h.logInternalServerError(r, err)
	}

	h.successResponse(w, r, "下单成功", order)
}

func (h *Handler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var orders []*domain.Order
	var err error

	switch myInfo.Role {
	case domain.RoleCustomer:
		orders, err = h.repository.GetOrdersByCustomerID(myInfo.ID)
	case domain.RoleCourier:
		orders, err = h.repository.GetOrdersByCourierID(myInfo.ID)
	case domain.RoleMerchant:
		// 商家可能拥有多家店，合并所有店的订单
		var merchants []*domain.Merchant
		merchants, err = h.repository.GetMerchantsByOwnerID(myInfo.ID)
		if err == nil {
			orders = make([]*domain.Order, 0)
			for _, merchant := range merchants {
				var merchantOrders []*domain.Order
				merchantOrders, err = h.repository.GetOrdersByMerchantID(merchant.ID)
				if err != nil {
					break
				}
				orders = append(orders, merchantOrders...)
			}
		}
	case domain.RoleAdmin:
		orders, err = h.repository.GetAllOrders()
	}

	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取订单列表成功", orders)
}

// canAccessOrder 判断当前用户是否与订单相关：
// 下单的顾客、接单的商家、配送的骑手，以及管理员
func (h *Handler) canAccessOrder(myInfo *domain.User, order *domain.Order) (bool, error) {
	switch myInfo.Role {
	case domain.RoleAdmin:
		return true, nil
	case domain.RoleCustomer:
		return order.CustomerID == myInfo.ID, nil
	case domain.RoleCourier:
		return order.CourierID != nil && *order.CourierID == myInfo.ID, nil
	case domain.RoleMerchant:
		merchant, err := h.repository.GetMerchantByID(order.MerchantID)
		if err != nil {
			return false, err
		}
		return merchant.OwnerID == myInfo.ID, nil
	}
	return false, nil
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	order := r.Context().Value(OrderCtx).(*domain.Order)

	allowed, err := h.canAccessOrder(myInfo, order)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !allowed {
		h.errorResponse(w, r, "无权查看该订单")
		return
	}

	h.successResponse(w, r, "获取订单成功", order)
}

// transitionAllowedFor 检查某个角色是否有权发起这次状态迁移
// 状态机本身的合法性由 CanTransitionTo 保证，这里只管角色分工
func transitionAllowedFor(role domain.Role, from domain.OrderStatus, to domain.OrderStatus) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleCustomer:
		// 顾客只能在商家接单前取消
		return from == domain.OrderStatusPending && to == domain.OrderStatusCancelled
	case domain.RoleMerchant:
		switch to {
		case domain.OrderStatusPreparing, domain.OrderStatusReady, domain.OrderStatusCancelled:
			return true
		}
		return false
	case domain.RoleCourier:
		switch to {
		case domain.OrderStatusDelivering, domain.OrderStatusCompleted:
			return true
		}
		return false
	}
	return false
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	order := r.Context().Value(OrderCtx).(*domain.Order)

	var req struct {
		Status string `json:"status" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	next := domain.OrderStatus(req.Status)
	if !next.IsValid() {
		h.badRequest(w, r, fmt.Errorf("未知的订单状态：%s", req.Status))
		return
	}

	allowed, err := h.canAccessOrder(myInfo, order)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !allowed {
		h.errorResponse(w, r, "无权操作该订单")
		return
	}

	if !order.Status.CanTransitionTo(next) {
		h.errorResponse(w, r, fmt.Sprintf("订单不能从「%s」变为「%s」", order.Status, next))
		return
	}
	if !transitionAllowedFor(myInfo.Role, order.Status, next) {
		h.errorResponse(w, r, "当前角色无权执行该操作")
		return
	}

	order.Status = next

	if err := h.repository.UpdateOrder(order); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "订单已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 配送结束后把骑手重新标记为空闲
	if next == domain.OrderStatusCompleted && order.CourierID != nil {
		if err := h.repository.SetCourierAvailability(*order.CourierID, true); err != nil {
			h.logInternalServerError(r, err)
		}
	}

	h.successResponse(w, r, "更新订单状态成功", order)
}

// AssignCourier 给待取餐的订单指派离商家最近的空闲骑手
func (h *Handler) AssignCourier(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	order := r.Context().Value(OrderCtx).(*domain.Order)

	if myInfo.Role != domain.RoleAdmin && myInfo.Role != domain.RoleMerchant {
		h.errorResponse(w, r, "当前角色无权指派骑手")
		return
	}

	merchant, err := h.repository.GetMerchantByID(order.MerchantID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if myInfo.Role == domain.RoleMerchant && merchant.OwnerID != myInfo.ID {
		h.errorResponse(w, r, "无权操作该订单")
		return
	}

	if order.Status != domain.OrderStatusReady {
		h.errorResponse(w, r, "只有待取餐的订单才能指派骑手")
		return
	}
	if order.CourierID != nil {
		h.errorResponse(w, r, "订单已有骑手")
		return
	}

	couriers, err := h.repository.GetAvailableCouriers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	courier := dispatch.NearestAvailableCourier(couriers, merchant.Latitude, merchant.Longitude)
	if courier == nil {
		h.errorResponse(w, r, "附近没有空闲骑手，请稍后重试")
		return
	}

	order.CourierID = &courier.UserID

	if err := h.repository.UpdateOrder(order); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "订单已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.SetCourierAvailability(courier.UserID, false); err != nil {
		h.logInternalServerError(r, err)
	}

	h.successResponse(w, r, "指派骑手成功", order)
}
