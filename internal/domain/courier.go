package domain

import "time"

// CourierProfile 是骑手在用户之外的扩展信息
// 位置由骑手端定期上报，派单时用来挑选最近的空闲骑手
type CourierProfile struct {
	UserID      int64     `json:"userID"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsAvailable bool      `json:"isAvailable"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Version     int32     `json:"-"`
}
