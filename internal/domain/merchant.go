package domain

import "time"

type Merchant struct {
	ID           int64          `json:"id"`
	OwnerID      int64          `json:"ownerID"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Address      string         `json:"address"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	Phone        string         `json:"phone"`
	IsOpen       bool           `json:"isOpen"`       // 由 statusd 周期性写回的营业状态
	IsOpenManual *bool          `json:"isOpenManual"` // 商家手动设置的营业开关，nil 表示未设置
	Schedule     WeeklySchedule `json:"schedule"`     // 可能为 nil，表示商家没有配置营业时间
	CreatedAt    time.Time      `json:"createdAt"`
	Version      int32          `json:"-"`
}
