package utils

import (
	"fmt"
	"slices"
	"time"

	"github.com/diancan-dev/waimai/backend/internal/domain"
)

// ValidateWeeklySchedule 在写入边界校验周营业时间表
// availability 包假定输入合法且从不报错，所以所有校验都必须在这里完成：
// 七天必须齐全，每天的 open/close 必须是合法的 HH:MM
// 注意不校验 open < close，因为 close 小于 open 是合法的跨夜窗口
func ValidateWeeklySchedule(schedule domain.WeeklySchedule) error {
	for _, key := range domain.DayKeys {
		rule, exists := schedule[key]
		if !exists {
			return fmt.Errorf("营业时间表缺少%s的设置", domain.DayNames[key])
		}

		// 休息日的时间也要合法，因为重新开放时会恢复这些时间
		if _, err := time.Parse("15:04", rule.Open); err != nil {
			return fmt.Errorf("%s的开始营业时间格式错误，应为 HH:MM", domain.DayNames[key])
		}
		if _, err := time.Parse("15:04", rule.Close); err != nil {
			return fmt.Errorf("%s的结束营业时间格式错误，应为 HH:MM", domain.DayNames[key])
		}
	}

	if len(schedule) != len(domain.DayKeys) {
		return fmt.Errorf("营业时间表包含未知的星期")
	}

	return nil
}

// ValidateDayKey 检查 day 是否是合法的小写英文星期名
func ValidateDayKey(day string) error {
	if !slices.Contains(domain.DayKeys, day) {
		return fmt.Errorf("未知的星期：%s", day)
	}
	return nil
}

// ValidateDayRule 校验单天的营业时间规则
func ValidateDayRule(rule domain.DayRule) error {
	if _, err := time.Parse("15:04", rule.Open); err != nil {
		return fmt.Errorf("开始营业时间格式错误，应为 HH:MM")
	}
	if _, err := time.Parse("15:04", rule.Close); err != nil {
		return fmt.Errorf("结束营业时间格式错误，应为 HH:MM")
	}
	return nil
}

// ValidateCart 校验购物车内容是否可以下单
func ValidateCart(cart *domain.Cart) error {
	if cart == nil || len(cart.Items) == 0 {
		return fmt.Errorf("购物车是空的")
	}

	for i, item := range cart.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("第 %d 项的数量不合法", i+1)
		}
	}

	return nil
}
