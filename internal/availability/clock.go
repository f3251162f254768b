package availability

import "time"

// Clock 抽象当前时间来源，方便在测试中注入固定时间
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
