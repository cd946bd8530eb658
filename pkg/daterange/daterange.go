package daterange

import (
	"fmt"
	"time"
)

// Layout 日期字符串格式（YYYY-MM-DD）
const Layout = "2006-01-02"

// Range 闭区间日期范围 [Start, End]，精度为天
type Range struct {
	Start time.Time
	End   time.Time
}

// New 构造日期范围，end 为 nil 时视为与 start 同一天
func New(start time.Time, end *time.Time) Range {
	r := Range{Start: Truncate(start), End: Truncate(start)}
	if end != nil {
		r.End = Truncate(*end)
	}
	return r
}

// Parse 解析 YYYY-MM-DD 格式的起止日期，end 为空字符串时视为单日
func Parse(start, end string) (Range, error) {
	s, err := time.Parse(Layout, start)
	if err != nil {
		return Range{}, fmt.Errorf("无效的开始日期 %q: %w", start, err)
	}
	if end == "" {
		return New(s, nil), nil
	}
	e, err := time.Parse(Layout, end)
	if err != nil {
		return Range{}, fmt.Errorf("无效的结束日期 %q: %w", end, err)
	}
	return New(s, &e), nil
}

// Truncate 去掉时分秒，统一到 UTC 零点
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Valid 开始日期不晚于结束日期
func (r Range) Valid() bool {
	return !r.Start.After(r.End)
}

// Overlaps 两个闭区间至少共享一天即视为重叠（边界日相接也算）
func (r Range) Overlaps(o Range) bool {
	return !r.Start.After(o.End) && !o.Start.After(r.End)
}

// Days 区间包含的天数
func (r Range) Days() int {
	if !r.Valid() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r Range) String() string {
	return r.Start.Format(Layout) + " ~ " + r.End.Format(Layout)
}
