package domain

// DayRule 表示商家某一天的营业时间规则
// Open 和 Close 都是 "HH:MM" 格式的墙上时间
// 当 IsClosed 为 true 时 Open/Close 不参与营业状态判断，但仍然保留，
// 这样商家重新开放这一天时可以恢复之前设置的时间
// Close 小于 Open 表示跨夜营业（例如 23:00-02:00），这是合法的编码而不是错误
type DayRule struct {
	Open     string `json:"open"`
	Close    string `json:"close"`
	IsClosed bool   `json:"isClosed"`
}

// WeeklySchedule 的 key 必须是七个小写英文星期名
// 七个 key 全部存在时才算合法的周营业时间表
type WeeklySchedule map[string]DayRule

// 固定的星期顺序，周一开始
var DayKeys = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// 用于展示的中文星期名
var DayNames = map[string]string{
	"monday":    "周一",
	"tuesday":   "周二",
	"wednesday": "周三",
	"thursday":  "周四",
	"friday":    "周五",
	"saturday":  "周六",
	"sunday":    "周日",
}
