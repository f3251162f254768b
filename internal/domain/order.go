package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "待接单"
	OrderStatusPreparing  OrderStatus = "备餐中"
	OrderStatusReady      OrderStatus = "待取餐"
	OrderStatusDelivering OrderStatus = "配送中"
	OrderStatusCompleted  OrderStatus = "已完成"
	OrderStatusCancelled  OrderStatus = "已取消"
)

// 订单状态机：每个状态只允许迁移到固定的后继状态
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:  {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:      {OrderStatusDelivering},
	OrderStatusDelivering: {OrderStatusCompleted},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

func (s OrderStatus) IsValid() bool {
	_, exists := orderTransitions[s]
	return exists
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type OrderItem struct {
	ID       int64  `json:"id"`
	ItemID   int64  `json:"itemID"`
	Name     string `json:"name"`
	Price    int64  `json:"price"` // 下单时的单价快照，单位为分
	Quantity int32  `json:"quantity"`
}

type Order struct {
	ID          int64       `json:"id"`
	CustomerID  int64       `json:"customerID"`
	MerchantID  int64       `json:"merchantID"`
	CourierID   *int64      `json:"courierID"` // 未分配骑手时为 nil
	Status      OrderStatus `json:"status"`
	Items       []OrderItem `json:"items"`
	ItemsAmount int64       `json:"itemsAmount"` // 菜品总价，单位为分
	DeliveryFee int64       `json:"deliveryFee"` // 配送费，单位为分
	TotalAmount int64       `json:"totalAmount"`
	Address     string      `json:"address"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	Remark      string      `json:"remark"`
	CreatedAt   time.Time   `json:"createdAt"`
	Version     int32       `json:"-"`
}
