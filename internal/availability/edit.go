package availability

import (
	"github.com/diancan-dev/waimai/backend/internal/domain"
)

// 时间表的批量编辑操作，全部返回新的时间表，不修改入参

// SetUniform 生成七天统一营业时间的时间表
func SetUniform(open string, close string) domain.WeeklySchedule {
	schedule := make(domain.WeeklySchedule, len(domain.DayKeys))
	for _, key := range domain.DayKeys {
		schedule[key] = domain.DayRule{Open: open, Close: close}
	}
	return schedule
}

// CopyDayToAll 把 day 这一天的规则复制到整周
func CopyDayToAll(schedule domain.WeeklySchedule, day string) domain.WeeklySchedule {
	rule := schedule[day]
	result := make(domain.WeeklySchedule, len(domain.DayKeys))
	for _, key := range domain.DayKeys {
		result[key] = rule
	}
	return result
}

// SetWeekdays 统一设置周一到周五的规则，周末保持不变
func SetWeekdays(schedule domain.WeeklySchedule, rule domain.DayRule) domain.WeeklySchedule {
	result := make(domain.WeeklySchedule, len(domain.DayKeys))
	for _, key := range domain.DayKeys {
		result[key] = schedule[key]
	}
	for _, key := range domain.DayKeys[:5] {
		result[key] = rule
	}
	return result
}

// SetWeekend 统一设置周六和周日的规则，工作日保持不变
func SetWeekend(schedule domain.WeeklySchedule, rule domain.DayRule) domain.WeeklySchedule {
	result := make(domain.WeeklySchedule, len(domain.DayKeys))
	for _, key := range domain.DayKeys {
		result[key] = schedule[key]
	}
	for _, key := range domain.DayKeys[5:] {
		result[key] = rule
	}
	return result
}
