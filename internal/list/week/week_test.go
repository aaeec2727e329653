package week

import (
	"testing"
	"time"
)

func TestMondayOf(t *testing.T) {
	cases := []struct {
		year, week int
		want       string
	}{
		{2026, 1, "2025-12-29"},  // 2026 week 1 starts in December 2025
		{2026, 10, "2026-03-02"},
		{2024, 53, "2024-12-30"}, // 53-week year
		{2025, 1, "2024-12-30"},  // same Monday, counted as 2025 week 1
	}
	for _, c := range cases {
		got := MondayOf(c.year, c.week).Format("2006-01-02")
		if got != c.want {
			t.Errorf("MondayOf(%d, %d) = %s, want %s", c.year, c.week, got, c.want)
		}
	}
}

func TestMondayOfRoundTrips(t *testing.T) {
	for year := 2020; year <= 2030; year++ {
		m := MondayOf(year, 1)
		gotYear, gotWeek := m.ISOWeek()
		if gotYear != year || gotWeek != 1 {
			t.Errorf("MondayOf(%d, 1).ISOWeek() = %d, %d", year, gotYear, gotWeek)
		}
	}
}

func TestDiffAcrossYearWrap(t *testing.T) {
	// week 52 of 2025 (the last one, 2025 has 52 ISO weeks) to week 2
	// of 2026 is 2 weeks, not -50
	if got := Diff(2025, 52, 2026, 2); got != 2 {
		t.Errorf("Diff(2025w52, 2026w2) = %d, want 2", got)
	}
	// 2020 has 53 ISO weeks, so week 52 to next year's week 1 spans two
	if got := Diff(2020, 52, 2021, 1); got != 2 {
		t.Errorf("Diff(2020w52, 2021w1) = %d, want 2", got)
	}
	if got := Diff(2026, 10, 2026, 10); got != 0 {
		t.Errorf("Diff same week = %d, want 0", got)
	}
	if got := Diff(2026, 10, 2026, 8); got != -2 {
		t.Errorf("Diff backwards = %d, want -2", got)
	}
}

func TestSince(t *testing.T) {
	created := time.Date(2026, 8, 10, 15, 0, 0, 0, time.UTC) // week 33
	now := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)      // week 35
	if got := Since(created, now); got != 2 {
		t.Errorf("Since = %d, want 2", got)
	}
}
