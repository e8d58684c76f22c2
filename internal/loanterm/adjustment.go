package loanterm

import (
	"time"

	"github.com/gheinze-sandbox/accounted4/pkg/constants"
)

// AdjustmentDate snaps base to the nearest 1st or 15th of a month on or
// after it. A zero base is replaced by today's date.
func AdjustmentDate(base time.Time) time.Time {
	return AdjustmentDateWithFixedTime(base, time.Now())
}

// AdjustmentDateWithFixedTime is AdjustmentDate with an injectable "today".
//
// Days after the 15th move to the 1st of the following month, days 2-14 move
// to the 15th, and the 1st and 15th are returned unchanged. Only the calendar
// components of base are used; the result is midnight in base's location.
func AdjustmentDateWithFixedTime(base, now time.Time) time.Time {
	if base.IsZero() {
		base = now
	}

	year, month, day := base.Date()
	switch {
	case day > constants.MidMonthDay:
		// time.Date normalizes month 13 into January of the next year.
		month++
		day = 1
	case day > 1 && day < constants.MidMonthDay:
		day = constants.MidMonthDay
	}

	return time.Date(year, month, day, 0, 0, 0, 0, base.Location())
}
