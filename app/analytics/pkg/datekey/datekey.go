// Package datekey 把各数据源里格式不一的日期统一成 YYYY-MM-DD 形式的 Key。
//
// 下游组件只通过 Key 比较、遍历日期，不直接解析日期字符串。
package datekey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Key 规范化的日历日期，格式 YYYY-MM-DD，与时区和时刻无关
type Key string

// InvalidDateError 无法解析的日期值
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	if e.Value == "" {
		return "invalid date: empty value"
	}
	return fmt.Sprintf("invalid date: %q", e.Value)
}

var (
	// dd/mm[/yyyy]，分隔符允许 / . -
	dayFirstRe = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})(?:[/.\-](\d{2}|\d{4}))?$`)
	// "5 mar", "05 marzo 2024"
	dayMonthRe = regexp.MustCompile(`^(\d{1,2})\s+([[:alpha:]]+)\.?(?:\s+(\d{4}))?$`)
	// "Mar 5", "March 5, 2024"
	monthDayRe = regexp.MustCompile(`^([[:alpha:]]+)\.?\s+(\d{1,2})(?:,?\s+(\d{4}))?$`)
)

// 英文与意大利文月份前三个字母
var monthPrefixes = map[string]time.Month{
	"jan": time.January, "gen": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May, "mag": time.May,
	"jun": time.June, "giu": time.June,
	"jul": time.July, "lug": time.July,
	"aug": time.August, "ago": time.August,
	"sep": time.September, "set": time.September,
	"oct": time.October, "ott": time.October,
	"nov": time.November,
	"dec": time.December, "dic": time.December,
}

// Aligner 日期规范化器
//
// Reference 用于给没有年份的显示标签（如 "05/03"）补年份：取不晚于 Reference 的最近一年。
// 零值 Reference 表示使用当前时间。
type Aligner struct {
	Reference time.Time
}

// Canonicalize 使用当前时间作为参考日期规范化 raw
func Canonicalize(raw string) (Key, error) {
	return Aligner{}.Canonicalize(raw)
}

// Canonicalize 把 raw 规范化为 Key，失败时返回 *InvalidDateError
func (a Aligner) Canonicalize(raw string) (Key, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &InvalidDateError{Value: raw}
	}

	if k, ok := isoPrefix(s); ok {
		return k, nil
	}
	if k, ok := a.localized(s); ok {
		return k, nil
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	// dateparse 对部分无日期的文本返回 0 年而不报错
	if err != nil || t.Year() < 1 || t.Year() > 9999 {
		return "", &InvalidDateError{Value: raw}
	}
	return FromTime(t), nil
}

// isoPrefix 处理 ISO 日期以及带时间部分的 ISO 日期时间，直接取书写的日历日期
func isoPrefix(s string) (Key, bool) {
	if len(s) < 10 {
		return "", false
	}
	if len(s) > 10 && s[10] != 'T' && s[10] != 't' && s[10] != ' ' {
		return "", false
	}
	t, err := time.Parse(time.DateOnly, s[:10])
	if err != nil {
		return "", false
	}
	return FromTime(t), true
}

func (a Aligner) localized(s string) (Key, bool) {
	if m := dayFirstRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return a.resolve(m[3], time.Month(month), day)
	}
	if m := dayMonthRe.FindStringSubmatch(s); m != nil {
		month, ok := monthFromName(m[2])
		if !ok {
			return "", false
		}
		day, _ := strconv.Atoi(m[1])
		return a.resolve(m[3], month, day)
	}
	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		month, ok := monthFromName(m[1])
		if !ok {
			return "", false
		}
		day, _ := strconv.Atoi(m[2])
		return a.resolve(m[3], month, day)
	}
	return "", false
}

func monthFromName(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	if len(name) < 3 {
		return 0, false
	}
	m, ok := monthPrefixes[name[:3]]
	return m, ok
}

// resolve 校验年月日；yearStr 为空时按参考日期推断年份
func (a Aligner) resolve(yearStr string, month time.Month, day int) (Key, bool) {
	switch len(yearStr) {
	case 0:
	case 2:
		y, _ := strconv.Atoi(yearStr)
		return dateKey(2000+y, month, day)
	default:
		y, _ := strconv.Atoi(yearStr)
		return dateKey(y, month, day)
	}

	ref := a.Reference
	if ref.IsZero() {
		ref = time.Now()
	}
	// 取不晚于参考日期的最近一年；29/02 最多需要回退 8 年（跨越非闰的整百年）
	refKey := FromTime(ref)
	for y := ref.Year(); y >= ref.Year()-8; y-- {
		if k, ok := dateKey(y, month, day); ok && Compare(k, refKey) <= 0 {
			return k, true
		}
	}
	return "", false
}

func dateKey(year int, month time.Month, day int) (Key, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return "", false
	}
	return FromTime(t), true
}

// FromTime 取 t 在其自身时区下的日历日期
func FromTime(t time.Time) Key {
	return Key(t.Format(time.DateOnly))
}

// Compare 比较两个 Key，a<b 返回 -1，a==b 返回 0，a>b 返回 1
func Compare(a, b Key) int {
	return strings.Compare(string(a), string(b))
}

// IsZero 是否为空 Key
func (k Key) IsZero() bool { return k == "" }

// String 实现 fmt.Stringer
func (k Key) String() string { return string(k) }

// Time 返回 Key 对应日期 UTC 零点；非法 Key 返回零值
func (k Key) Time() time.Time {
	t, err := time.Parse(time.DateOnly, string(k))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays 返回偏移 n 天后的 Key
func (k Key) AddDays(n int) Key {
	return FromTime(k.Time().AddDate(0, 0, n))
}

// Weekday 返回星期，Sunday 为 0
func (k Key) Weekday() time.Weekday {
	return k.Time().Weekday()
}

// DaysUntil 返回从 k 到 other 相差的天数
func (k Key) DaysUntil(other Key) int {
	return int(other.Time().Sub(k.Time()).Hours() / 24)
}
