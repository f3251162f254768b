package availability

import (
	"strings"
	"testing"
	"time"

	"github.com/diancan-dev/waimai/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-06-02 是周一，下面的测试都以这一周为基准
func monday(hour int, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.Local)
}

func tuesday(hour int, minute int) time.Time {
	return time.Date(2025, 6, 3, hour, minute, 0, 0, time.Local)
}

func allClosedSchedule() domain.WeeklySchedule {
	schedule := make(domain.WeeklySchedule)
	for _, key := range domain.DayKeys {
		schedule[key] = domain.DayRule{Open: "09:00", Close: "18:00", IsClosed: true}
	}
	return schedule
}

func TestIsOpenAt_SameDayWindow(t *testing.T) {
	schedule := SetUniform("09:00", "22:00")

	assert.False(t, IsOpenAt(schedule, monday(8, 59)))
	assert.True(t, IsOpenAt(schedule, monday(9, 0)))
	assert.True(t, IsOpenAt(schedule, monday(21, 59)))
	// 半开区间，close 那一分钟算休息
	assert.False(t, IsOpenAt(schedule, monday(22, 0)))
}

func TestIsOpenAt_OvernightWindow(t *testing.T) {
	schedule := SetUniform("23:00", "02:00")

	assert.False(t, IsOpenAt(schedule, monday(22, 59)))
	assert.True(t, IsOpenAt(schedule, monday(23, 30)))
	assert.True(t, IsOpenAt(schedule, monday(1, 30)))
	assert.False(t, IsOpenAt(schedule, monday(2, 0)))
}

func TestIsOpenAt_ClosedDay(t *testing.T) {
	schedule := SetUniform("09:00", "22:00")
	rule := schedule["monday"]
	rule.IsClosed = true
	schedule["monday"] = rule

	assert.False(t, IsOpenAt(schedule, monday(12, 0)))
	assert.True(t, IsOpenAt(schedule, tuesday(12, 0)))
}

func TestIsOpenAt_AllClosed(t *testing.T) {
	schedule := allClosedSchedule()

	// 整周都休息时任何时刻都不营业
	for i := 0; i < 7; i++ {
		now := monday(12, 0).AddDate(0, 0, i)
		assert.False(t, IsOpenAt(schedule, now))
	}
}

func TestFormatToday(t *testing.T) {
	schedule := SetUniform("09:00", "22:00")
	assert.Equal(t, "09:00 - 22:00", FormatToday(schedule, monday(12, 0)))

	rule := schedule["monday"]
	rule.IsClosed = true
	schedule["monday"] = rule
	assert.Equal(t, "今日休息", FormatToday(schedule, monday(12, 0)))
}

func TestFormatWeek(t *testing.T) {
	schedule := SetUniform("10:00", "20:00")
	rule := schedule["wednesday"]
	rule.IsClosed = true
	schedule["wednesday"] = rule

	lines := strings.Split(FormatWeek(schedule), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "周一: 10:00 - 20:00", lines[0])
	assert.Equal(t, "周三: 休息", lines[2])
	assert.Equal(t, "周日: 10:00 - 20:00", lines[6])
}

func TestNextOpening_TodayBeforeOpen(t *testing.T) {
	schedule := SetUniform("09:00", "22:00")

	next := NextOpening(schedule, monday(8, 0))
	require.NotNil(t, next)
	// 今天还没开门，应当返回今天的开门时刻而不是明天的
	assert.Equal(t, monday(9, 0), *next)
}

func TestNextOpening_CurrentlyOpen(t *testing.T) {
	schedule := SetUniform("09:00", "22:00")

	// 正在营业时返回的是下一次未来的开门时刻，即明天的开门时刻
	next := NextOpening(schedule, monday(12, 0))
	require.NotNil(t, next)
	assert.Equal(t, tuesday(9, 0), *next)
}

func TestNextOpening_SkipsClosedDays(t *testing.T) {
	// 只有周一营业，其余六天都休息
	schedule := allClosedSchedule()
	schedule["monday"] = domain.DayRule{Open: "09:00", Close: "18:00"}

	assert.False(t, IsOpenAt(schedule, tuesday(10, 0)))

	next := NextOpening(schedule, tuesday(10, 0))
	require.NotNil(t, next)
	// 下一次开门应当是下周一 09:00
	assert.Equal(t, time.Date(2025, 6, 9, 9, 0, 0, 0, time.Local), *next)
}

func TestNextOpening_AllClosed(t *testing.T) {
	schedule := allClosedSchedule()

	// 整周休息时必须在探测 7 天后终止并返回 nil，而不是死循环
	for i := 0; i < 7; i++ {
		now := monday(12, 0).AddDate(0, 0, i)
		assert.Nil(t, NextOpening(schedule, now))
	}
}

func TestSetUniform_OpenEveryDayAtNoon(t *testing.T) {
	schedule := SetUniform("10:00", "20:00")
	require.Len(t, schedule, 7)

	for i := 0; i < 7; i++ {
		now := monday(15, 0).AddDate(0, 0, i)
		assert.True(t, IsOpenAt(schedule, now))
	}
}

func TestResolveStatus_ManualOpenWins(t *testing.T) {
	manual := true
	status := ResolveStatus(Snapshot{
		IsOpenManual: &manual,
		Schedule:     allClosedSchedule(),
	}, monday(12, 0))

	// 手动开关为 true 时无视时间表
	assert.True(t, status.IsOpen)
	assert.Equal(t, "营业中", status.StatusText)
	assert.Nil(t, status.NextOpening)
}

func TestResolveStatus_NoScheduleDefaultsOpen(t *testing.T) {
	status := ResolveStatus(Snapshot{}, monday(3, 0))

	assert.True(t, status.IsOpen)
}

func TestResolveStatus_HoursDecide(t *testing.T) {
	manual := false
	schedule := SetUniform("09:00", "22:00")

	status := ResolveStatus(Snapshot{IsOpenManual: &manual, Schedule: schedule}, monday(12, 0))
	assert.True(t, status.IsOpen)

	status = ResolveStatus(Snapshot{IsOpenManual: &manual, Schedule: schedule}, monday(7, 0))
	assert.False(t, status.IsOpen)
	require.NotNil(t, status.NextOpening)
	assert.Equal(t, monday(9, 0), *status.NextOpening)
	assert.Contains(t, status.StatusText, "休息中")
}

func TestResolveStatus_AllClosed(t *testing.T) {
	status := ResolveStatus(Snapshot{Schedule: allClosedSchedule()}, monday(12, 0))

	assert.False(t, status.IsOpen)
	assert.Equal(t, "暂停营业", status.StatusText)
	assert.Nil(t, status.NextOpening)
}
