package loanterm

import (
	"testing"
	"time"

	"github.com/gheinze-sandbox/accounted4/pkg/datetime"
)

func TestAdjustmentDateKnownDates(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		expected string
	}{
		{name: "Late month rolls to next month", base: "2024-02-20", expected: "2024-03-01"},
		{name: "December rolls to next year", base: "2024-12-20", expected: "2025-01-01"},
		{name: "Early month snaps to mid month", base: "2024-02-10", expected: "2024-02-15"},
		{name: "First is a fixed point", base: "2024-07-01", expected: "2024-07-01"},
		{name: "Fifteenth is a fixed point", base: "2024-07-15", expected: "2024-07-15"},
		{name: "Sixteenth rolls forward", base: "2024-07-16", expected: "2024-08-01"},
		{name: "Second snaps to mid month", base: "2024-07-02", expected: "2024-07-15"},
		{name: "Fourteenth snaps to mid month", base: "2024-07-14", expected: "2024-07-15"},
		{name: "Leap day rolls to March", base: "2024-02-29", expected: "2024-03-01"},
		{name: "New Year's Eve", base: "1999-12-31", expected: "2000-01-01"},
	}

	now := time.Date(2030, time.June, 3, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := datetime.MustParseTime(datetime.DateLayout, tt.base)
			result := AdjustmentDateWithFixedTime(base, now)
			if got := datetime.FormatDate(result); got != tt.expected {
				t.Errorf("AdjustmentDate(%s) = %s, expected %s", tt.base, got, tt.expected)
			}
		})
	}
}

func TestAdjustmentDateEveryDay(t *testing.T) {
	for _, year := range []int{2023, 2024} {
		for month := time.January; month <= time.December; month++ {
			daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
			for day := 1; day <= daysInMonth; day++ {
				base := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
				result := AdjustmentDate(base)

				var expected time.Time
				switch {
				case day == 1 || day == 15:
					expected = base
				case day < 15:
					expected = time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
				default:
					nextYear, nextMonth := year, month+1
					if nextMonth > time.December {
						nextYear, nextMonth = year+1, time.January
					}
					expected = time.Date(nextYear, nextMonth, 1, 0, 0, 0, 0, time.UTC)
				}

				if !result.Equal(expected) {
					t.Fatalf("AdjustmentDate(%s) = %s, expected %s",
						datetime.FormatDate(base), datetime.FormatDate(result), datetime.FormatDate(expected))
				}
			}
		}
	}
}

func TestAdjustmentDateZeroUsesToday(t *testing.T) {
	now := time.Date(2026, time.October, 16, 14, 25, 0, 0, time.UTC)
	result := AdjustmentDateWithFixedTime(time.Time{}, now)
	if got := datetime.FormatDate(result); got != "2026-11-01" {
		t.Errorf("AdjustmentDate(zero) = %s, expected 2026-11-01", got)
	}
}

func TestAdjustmentDateKeepsLocalCalendar(t *testing.T) {
	// 23:30 on the 14th in UTC-5 is already the 15th in UTC; the local
	// calendar date must win.
	loc := time.FixedZone("EST", -5*60*60)
	base := time.Date(2024, time.March, 14, 23, 30, 0, 0, loc)

	result := AdjustmentDate(base)
	if result.Location() != loc {
		t.Errorf("expected location %v, got %v", loc, result.Location())
	}
	if got := datetime.FormatDate(result); got != "2024-03-15" {
		t.Errorf("AdjustmentDate() = %s, expected 2024-03-15", got)
	}
	if result.Hour() != 0 || result.Minute() != 0 {
		t.Errorf("expected midnight, got %v", result)
	}
}
