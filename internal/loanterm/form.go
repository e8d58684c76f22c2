// Package loanterm holds the loan-term form state and its conversion into
// the request understood by the amortization service.
package loanterm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gheinze-sandbox/accounted4/pkg/constants"
)

// Amount is a decimal amount as typed into a form. It decodes from either a
// JSON string or a JSON number.
type Amount string

// AmountFromFloat renders f the way a form field would show it.
func AmountFromFloat(f float64) Amount {
	return Amount(strconv.FormatFloat(f, 'f', -1, 64))
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*a = ""
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("amount must be a string or number: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) String() string {
	return string(a)
}

// FormState is the editable loan-term form. It is a plain value: callers
// pass a copy into ToRequest at submission time.
type FormState struct {
	StartDate                time.Time
	AdjustmentDate           time.Time
	TermInMonths             int
	InterestOnly             bool
	AmortizationPeriodYears  int
	AmortizationPeriodMonths int
	CompoundingPeriod        CompoundingPeriod
	LoanAmount               Amount
	InterestRate             float64
	RegularPayment           string
}

// Defaults are the initial values of a new form, excluding dates.
type Defaults struct {
	TermInMonths       int
	InterestOnly       bool
	AmortizationYears  int
	AmortizationMonths int
	CompoundingPeriod  CompoundingPeriod
	LoanAmount         Amount
	InterestRate       float64
}

// StandardDefaults returns the stock form defaults: a one year interest-only
// term of $20000 at 10%, amortized over 20 years with semi-annual compounding.
func StandardDefaults() Defaults {
	return Defaults{
		TermInMonths:       constants.DefaultTermInMonths,
		InterestOnly:       constants.DefaultInterestOnly,
		AmortizationYears:  constants.DefaultAmortizationYears,
		AmortizationMonths: constants.DefaultAmortizationMonths,
		CompoundingPeriod:  CompoundingPeriod(constants.DefaultCompoundingPeriod),
		LoanAmount:         constants.DefaultLoanAmount,
		InterestRate:       constants.DefaultInterestRate,
	}
}

// NewFormState returns a form with the standard defaults starting today.
func NewFormState() FormState {
	return NewFormStateWithFixedTime(StandardDefaults(), time.Now())
}

// NewFormStateWithFixedTime returns a form populated from d, starting on the
// calendar date of now.
func NewFormStateWithFixedTime(d Defaults, now time.Time) FormState {
	state := FormState{
		TermInMonths:             d.TermInMonths,
		InterestOnly:             d.InterestOnly,
		AmortizationPeriodYears:  d.AmortizationYears,
		AmortizationPeriodMonths: d.AmortizationMonths,
		CompoundingPeriod:        d.CompoundingPeriod,
		LoanAmount:               d.LoanAmount,
		InterestRate:             d.InterestRate,
	}
	state.SetStartDateWithFixedTime(now, now)
	return state
}

// SetStartDate changes the start date and recomputes the adjustment date.
func (s *FormState) SetStartDate(start time.Time) {
	s.SetStartDateWithFixedTime(start, time.Now())
}

// SetStartDateWithFixedTime is SetStartDate with an injectable "today".
func (s *FormState) SetStartDateWithFixedTime(start, now time.Time) {
	if !start.IsZero() {
		year, month, day := start.Date()
		start = time.Date(year, month, day, 0, 0, 0, 0, start.Location())
	}
	s.StartDate = start
	s.AdjustmentDate = AdjustmentDateWithFixedTime(start, now)
}

// AmortizationMonths is the amortization period as a single month count.
func (s FormState) AmortizationMonths() int {
	return s.AmortizationPeriodYears*constants.MonthsPerYear + s.AmortizationPeriodMonths
}
