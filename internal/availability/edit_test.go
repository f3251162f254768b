package availability

import (
	"testing"

	"github.com/diancan-dev/waimai/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyDayToAll(t *testing.T) {
	schedule := SetUniform("09:00", "22:00")
	schedule["sunday"] = domain.DayRule{Open: "11:00", Close: "15:00"}

	result := CopyDayToAll(schedule, "sunday")

	require.Len(t, result, 7)
	for _, key := range domain.DayKeys {
		assert.Equal(t, domain.DayRule{Open: "11:00", Close: "15:00"}, result[key])
	}
	// 原时间表不应被修改
	assert.Equal(t, domain.DayRule{Open: "09:00", Close: "22:00"}, schedule["monday"])
}

func TestSetWeekdays(t *testing.T) {
	schedule := SetUniform("09:00", "22:00")

	result := SetWeekdays(schedule, domain.DayRule{Open: "08:00", Close: "20:00"})

	for _, key := range domain.DayKeys[:5] {
		assert.Equal(t, domain.DayRule{Open: "08:00", Close: "20:00"}, result[key])
	}
	assert.Equal(t, domain.DayRule{Open: "09:00", Close: "22:00"}, result["saturday"])
	assert.Equal(t, domain.DayRule{Open: "09:00", Close: "22:00"}, result["sunday"])
}

func TestSetWeekend(t *testing.T) {
	schedule := SetUniform("09:00", "22:00")

	result := SetWeekend(schedule, domain.DayRule{IsClosed: true})

	assert.Equal(t, domain.DayRule{Open: "09:00", Close: "22:00"}, result["friday"])
	assert.True(t, result["saturday"].IsClosed)
	assert.True(t, result["sunday"].IsClosed)
}
