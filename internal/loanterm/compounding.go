package loanterm

import (
	"fmt"
	"strconv"
	"strings"
)

// CompoundingPeriod names how often interest is compounded each year.
type CompoundingPeriod string

// Selectable compounding periods.
const (
	Monthly      CompoundingPeriod = "monthly"
	SemiAnnually CompoundingPeriod = "semi-annually"
	Annually     CompoundingPeriod = "annually"
)

type compoundingInfo struct {
	periodsPerYear int
	comment        string
}

var compounding = map[CompoundingPeriod]compoundingInfo{
	Monthly:      {periodsPerYear: 12, comment: "American mortgage default"},
	SemiAnnually: {periodsPerYear: 2, comment: "Canadian mortgage default"},
	Annually:     {periodsPerYear: 1},
}

// CompoundingPeriods lists the selectable periods in display order.
func CompoundingPeriods() []CompoundingPeriod {
	return []CompoundingPeriod{Monthly, SemiAnnually, Annually}
}

// ParseCompoundingPeriod accepts a period name (case-insensitive) or its
// periods-per-year count ("12", "2", "1").
func ParseCompoundingPeriod(value string) (CompoundingPeriod, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if p := CompoundingPeriod(trimmed); p.Valid() {
		return p, nil
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		for _, p := range CompoundingPeriods() {
			if p.PeriodsPerYear() == n {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w: unknown compounding period %q", ErrInvalidInput, value)
}

// Valid reports whether p is one of the selectable periods.
func (p CompoundingPeriod) Valid() bool {
	_, ok := compounding[p]
	return ok
}

// PeriodsPerYear returns the number of compounding periods per year, or 0
// for an unknown period.
func (p CompoundingPeriod) PeriodsPerYear() int {
	return compounding[p].periodsPerYear
}

// Comment is the hint shown next to the option.
func (p CompoundingPeriod) Comment() string {
	return compounding[p].comment
}

func (p CompoundingPeriod) String() string {
	return string(p)
}
