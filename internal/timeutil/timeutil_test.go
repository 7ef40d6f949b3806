package timeutil

import (
	"testing"
	"time"
)

func TestCivilDate(t *testing.T) {
	// 2026-03-10 01:30 UTC is still 2026-03-09 in Brasília (UTC-3).
	utc := time.Date(2026, 3, 10, 1, 30, 0, 0, time.UTC)
	got := CivilDate(utc)
	if got.Year() != 2026 || got.Month() != 3 || got.Day() != 9 {
		t.Fatalf("expected 2026-03-09 got %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Fatalf("expected midnight got %v", got)
	}
}

func TestDaysBetween(t *testing.T) {
	loc := Location()
	cases := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{"same day", time.Date(2026, 1, 5, 8, 0, 0, 0, loc), time.Date(2026, 1, 5, 23, 0, 0, 0, loc), 0},
		{"next day", time.Date(2026, 1, 5, 23, 0, 0, 0, loc), time.Date(2026, 1, 6, 1, 0, 0, 0, loc), 1},
		{"past", time.Date(2026, 1, 5, 0, 0, 0, 0, loc), time.Date(2026, 1, 2, 12, 0, 0, 0, loc), -3},
		{"month boundary", time.Date(2026, 1, 31, 12, 0, 0, 0, loc), time.Date(2026, 2, 2, 0, 0, 0, 0, loc), 2},
		// Brazil observed DST until 2019; 2018-11-04 was a 23-hour day.
		// Calendar-field arithmetic must still count it as one day.
		{"dst start day", time.Date(2018, 11, 3, 12, 0, 0, 0, loc), time.Date(2018, 11, 4, 12, 0, 0, 0, loc), 1},
		{"dst end day", time.Date(2019, 2, 16, 12, 0, 0, 0, loc), time.Date(2019, 2, 17, 12, 0, 0, 0, loc), 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysBetween(tc.a, tc.b); got != tc.want {
				t.Fatalf("expected %d got %d", tc.want, got)
			}
		})
	}
}
