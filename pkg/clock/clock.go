package clock

import "time"

// Clock 当前时间来源，截止日期计算统一经由它取"现在"
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System 返回墙上时钟
func System() Clock { return systemClock{} }

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// Fixed 返回始终停在 t 的时钟（测试、回放用）
func Fixed(t time.Time) Clock { return fixedClock{t: t} }
