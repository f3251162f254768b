package utils

import (
	"testing"

	"github.com/diancan-dev/waimai/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func fullSchedule() domain.WeeklySchedule {
	schedule := make(domain.WeeklySchedule)
	for _, key := range domain.DayKeys {
		schedule[key] = domain.DayRule{Open: "09:00", Close: "22:00"}
	}
	return schedule
}

func TestValidateWeeklySchedule(t *testing.T) {
	assert.NoError(t, ValidateWeeklySchedule(fullSchedule()))

	// 跨夜窗口是合法的
	schedule := fullSchedule()
	schedule["friday"] = domain.DayRule{Open: "23:00", Close: "02:00"}
	assert.NoError(t, ValidateWeeklySchedule(schedule))

	// 缺少某一天
	schedule = fullSchedule()
	delete(schedule, "wednesday")
	assert.Error(t, ValidateWeeklySchedule(schedule))

	// 时间格式错误
	schedule = fullSchedule()
	schedule["monday"] = domain.DayRule{Open: "9点", Close: "22:00"}
	assert.Error(t, ValidateWeeklySchedule(schedule))

	// 休息日的时间也要合法，因为重新开放时会恢复
	schedule = fullSchedule()
	schedule["monday"] = domain.DayRule{Open: "09:00", Close: "25:00", IsClosed: true}
	assert.Error(t, ValidateWeeklySchedule(schedule))

	// 未知的星期 key
	schedule = fullSchedule()
	schedule["someday"] = domain.DayRule{Open: "09:00", Close: "22:00"}
	assert.Error(t, ValidateWeeklySchedule(schedule))
}

func TestValidateDayKey(t *testing.T) {
	assert.NoError(t, ValidateDayKey("monday"))
	assert.Error(t, ValidateDayKey("Monday"))
	assert.Error(t, ValidateDayKey("someday"))
}

func TestValidateCart(t *testing.T) {
	assert.Error(t, ValidateCart(nil))
	assert.Error(t, ValidateCart(&domain.Cart{MerchantID: 1}))
	assert.Error(t, ValidateCart(&domain.Cart{
		MerchantID: 1,
		Items:      []domain.CartItem{{ItemID: 1, Quantity: 0}},
	}))
	assert.NoError(t, ValidateCart(&domain.Cart{
		MerchantID: 1,
		Items:      []domain.CartItem{{ItemID: 1, Quantity: 2}},
	}))
}
