// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/gheinze-sandbox/accounted4/pkg/constants"
)

const (
	// DateLayout is the ISO calendar date format used on the wire.
	DateLayout = constants.DateLayout

	// PickerLayout is the format produced by the form's date picker, e.g. 2013-Jan-05.
	PickerLayout = "2006-Jan-02"
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses form input in either DateLayout or PickerLayout into a
// calendar date in loc. An empty string yields the zero time and no error.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}

	t, err := time.ParseInLocation(DateLayout, trimmed, loc)
	if err == nil {
		return t, nil
	}
	if t, pickerErr := time.ParseInLocation(PickerLayout, trimmed, loc); pickerErr == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
}

// FormatDate renders t as a zero-padded YYYY-MM-DD string. The zero time
// renders as an empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Midnight drops the time of day from t, keeping its location.
func Midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
