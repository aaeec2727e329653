// Package week 提供 ISO 周历运算，用于新品高亮窗口和版本周计算。
package week

import (
	"time"
)

// Current returns the ISO year and week of now.
func Current(now time.Time) (year, week int) {
	return now.ISOWeek()
}

// MondayOf returns the Monday of the given ISO week.
// January 4 is always inside ISO week 1.
func MondayOf(year, weekNo int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	wd := int(jan4.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	week1Monday := jan4.AddDate(0, 0, 1-wd)
	return week1Monday.AddDate(0, 0, (weekNo-1)*7)
}

// Diff returns how many calendar weeks lie between (year, weekNo) and
// (curYear, curWeek). Positive when the current week is later; handles
// year wrap (week 52 → week 2) correctly.
func Diff(year, weekNo, curYear, curWeek int) int {
	from := MondayOf(year, weekNo)
	to := MondayOf(curYear, curWeek)
	return int(to.Sub(from).Hours() / (24 * 7))
}

// Since returns the number of whole weeks elapsed since t, measured in
// ISO week boundaries relative to now.
func Since(t, now time.Time) int {
	y1, w1 := t.ISOWeek()
	y2, w2 := now.ISOWeek()
	return Diff(y1, w1, y2, w2)
}
