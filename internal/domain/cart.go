package domain

// 购物车保存在 redis 中，不落库，结构上只需要能被 JSON 序列化

type CartItem struct {
	ItemID    int64   `json:"itemID"`
	Name      string  `json:"name"`
	Price     int64   `json:"price"` // 下单时的单价快照，单位为分
	Quantity  int32   `json:"quantity"`
	OptionIDs []int64 `json:"optionIDs"`
}

type Cart struct {
	MerchantID int64      `json:"merchantID"` // 一个购物车只能对应一个商家
	Items      []CartItem `json:"items"`
}

func (c *Cart) TotalQuantity() int32 {
	var total int32
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}
