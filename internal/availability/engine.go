package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/diancan-dev/waimai/backend/internal/domain"
)

// 这个包只做纯计算：给定周营业时间表和一个时刻，判断商家是否在营业、
// 格式化营业时间、计算下一次开始营业的时刻
// 包内所有函数都不做 I/O，也不修改传入的数据，可以被任意多个 goroutine 并发调用
// 时间表的合法性（七天齐全、HH:MM 格式正确）由 utils 包在写入边界校验，
// 这里假定输入已经合法，所有函数都不会返回错误

// Snapshot 是引擎需要的商家只读视图
type Snapshot struct {
	IsOpenManual *bool
	Schedule     domain.WeeklySchedule
}

type Status struct {
	IsOpen      bool       `json:"isOpen"`
	StatusText  string     `json:"statusText"`
	NextOpening *time.Time `json:"nextOpening"`
}

// dayKey 把 time.Weekday 转成时间表中的小写英文 key
func dayKey(w time.Weekday) string {
	return strings.ToLower(w.String())
}

// minutesOf 把 "HH:MM" 解析成当天的分钟数
// 输入不合法时返回 0，合法性由写入边界保证，这里不报错
func minutesOf(s string) int {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

// IsOpenAt 判断 now 这个时刻商家是否按时间表营业
// 同日窗口是半开区间 [open, close)，close 那一分钟算休息
// close 小于 open 表示跨夜窗口，此时 当前分钟 >= open 或 当前分钟 < close 都算营业
func IsOpenAt(schedule domain.WeeklySchedule, now time.Time) bool {
	rule, exists := schedule[dayKey(now.Weekday())]
	if !exists || rule.IsClosed {
		return false
	}

	cur := now.Hour()*60 + now.Minute()
	open := minutesOf(rule.Open)
	close := minutesOf(rule.Close)

	if close < open {
		return cur >= open || cur < close
	}
	return cur >= open && cur < close
}

// FormatToday 返回今天的营业时间文案
func FormatToday(schedule domain.WeeklySchedule, now time.Time) string {
	rule, exists := schedule[dayKey(now.Weekday())]
	if !exists || rule.IsClosed {
		return "今日休息"
	}
	return fmt.Sprintf("%s - %s", rule.Open, rule.Close)
}

// FormatWeek 返回整周的营业时间文案，固定周一到周日的顺序，每天一行
// 输出只取决于时间表本身，和 map 的遍历顺序、当前时间都无关
func FormatWeek(schedule domain.WeeklySchedule) string {
	lines := make([]string, 0, len(domain.DayKeys))
	for _, key := range domain.DayKeys {
		rule, exists := schedule[key]
		if !exists || rule.IsClosed {
			lines = append(lines, fmt.Sprintf("%s: 休息", domain.DayNames[key]))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s - %s", domain.DayNames[key], rule.Open, rule.Close))
	}
	return strings.Join(lines, "\n")
}

// openingOn 构造 day 这一天按 rule 开始营业的时刻
func openingOn(day time.Time, rule domain.DayRule) time.Time {
	open := minutesOf(rule.Open)
	return time.Date(day.Year(), day.Month(), day.Day(), open/60, open%60, 0, 0, day.Location())
}

// NextOpening 计算 now 之后下一次开始营业的时刻
// 如果今天营业且还没到开门时间，返回今天的开门时刻；
// 否则从明天起逐天向后找，最多探测 7 天；
// 整周都休息时返回 nil，表示按当前时间表永远不会营业，这不是错误
func NextOpening(schedule domain.WeeklySchedule, now time.Time) *time.Time {
	rule, exists := schedule[dayKey(now.Weekday())]
	if exists && !rule.IsClosed {
		cur := now.Hour()*60 + now.Minute()
		if cur < minutesOf(rule.Open) {
			opening := openingOn(now, rule)
			return &opening
		}
	}

	for i := 1; i <= 7; i++ {
		day := now.AddDate(0, 0, i)
		rule, exists := schedule[dayKey(day.Weekday())]
		if !exists || rule.IsClosed {
			continue
		}
		opening := openingOn(day, rule)
		return &opening
	}

	return nil
}

// ResolveStatus 综合手动开关和时间表，给出商家当前的营业状态
//
// 手动开关和时间表的优先级规则：
//  1. 手动开关显式设为 true 时，商家强制营业，不看时间表
//  2. 其余情况下，没有配置时间表的商家默认营业
//  3. 配置了时间表则由时间表决定，按时间表休息时顺便计算下一次开始营业的时刻
//
// 注意整个判断过程只使用同一个 now，避免在一次计算中观察到两个不同的时刻
func ResolveStatus(snapshot Snapshot, now time.Time) Status {
	if snapshot.IsOpenManual != nil && *snapshot.IsOpenManual {
		return Status{IsOpen: true, StatusText: "营业中"}
	}

	if snapshot.Schedule == nil {
		return Status{IsOpen: true, StatusText: "营业中"}
	}

	if IsOpenAt(snapshot.Schedule, now) {
		return Status{IsOpen: true, StatusText: "营业中"}
	}

	next := NextOpening(snapshot.Schedule, now)
	if next == nil {
		return Status{IsOpen: false, StatusText: "暂停营业"}
	}
	return Status{
		IsOpen:      false,
		StatusText:  fmt.Sprintf("休息中，%s 开始营业", next.Format("01-02 15:04")),
		NextOpening: next,
	}
}
