package domain

import "time"

type MenuCategory struct {
	ID         int64      `json:"id"`
	MerchantID int64      `json:"merchantID"`
	Name       string     `json:"name"`
	SortOrder  int32      `json:"sortOrder"`
	Items      []MenuItem `json:"items"`
	CreatedAt  time.Time  `json:"createdAt"`
	Version    int32      `json:"-"`
}

type MenuItem struct {
	ID          int64        `json:"id"`
	CategoryID  int64        `json:"categoryID"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       int64        `json:"price"` // 单位为分，避免浮点误差
	IsAvailable bool         `json:"isAvailable"`
	Options     []ItemOption `json:"options"`
	CreatedAt   time.Time    `json:"createdAt"`
	Version     int32        `json:"-"`
}

// ItemOption 表示菜品的可选规格，例如 "大份 +3 元"、"加辣"
type ItemOption struct {
	ID         int64  `json:"id"`
	ItemID     int64  `json:"itemID"`
	Name       string `json:"name"`
	ExtraPrice int64  `json:"extraPrice"` // 单位为分
}
