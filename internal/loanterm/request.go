package loanterm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gheinze-sandbox/accounted4/pkg/constants"
	"github.com/gheinze-sandbox/accounted4/pkg/datetime"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput marks a form state that breaks the request contract.
var ErrInvalidInput = errors.New("invalid loan term input")

// Request is the loan-term payload accepted by the amortization service.
// Every field is always populated.
type Request struct {
	StartDate                 string  `json:"startDate"`
	AdjustmentDate            string  `json:"adjustmentDate"`
	TermInMonths              int     `json:"termInMonths"`
	InterestOnly              bool    `json:"interestOnly"`
	AmortizationPeriodMonths  int     `json:"amortizationPeriodMonths"`
	CompoundingPeriodsPerYear int     `json:"compoundingPeriodsPerYear"`
	LoanAmount                string  `json:"loanAmount"`
	InterestRate              float64 `json:"interestRate"`
	RegularPayment            string  `json:"regularPayment"`
}

// ToRequest converts a form state into the service payload. It has no side
// effects and returns the same Request for the same state.
//
// Numeric content of the loan amount is not checked here; that belongs to
// the form layer. Structural problems return an error wrapping
// ErrInvalidInput.
func ToRequest(state FormState) (Request, error) {
	if state.StartDate.IsZero() {
		return Request{}, fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}
	if state.TermInMonths < 1 {
		return Request{}, fmt.Errorf("%w: term must be at least one month, got %d", ErrInvalidInput, state.TermInMonths)
	}
	if state.AmortizationPeriodYears < 0 {
		return Request{}, fmt.Errorf("%w: amortization years must not be negative, got %d",
			ErrInvalidInput, state.AmortizationPeriodYears)
	}
	if state.AmortizationPeriodMonths < 0 || state.AmortizationPeriodMonths >= constants.MonthsPerYear {
		return Request{}, fmt.Errorf("%w: amortization months must be within 0-11, got %d",
			ErrInvalidInput, state.AmortizationPeriodMonths)
	}
	if !state.CompoundingPeriod.Valid() {
		return Request{}, fmt.Errorf("%w: unknown compounding period %q", ErrInvalidInput, state.CompoundingPeriod)
	}

	adjustment := state.AdjustmentDate
	if adjustment.IsZero() {
		adjustment = AdjustmentDateWithFixedTime(state.StartDate, state.StartDate)
	}

	return Request{
		StartDate:                 datetime.FormatDate(state.StartDate),
		AdjustmentDate:            datetime.FormatDate(adjustment),
		TermInMonths:              state.TermInMonths,
		InterestOnly:              state.InterestOnly,
		AmortizationPeriodMonths:  state.AmortizationMonths(),
		CompoundingPeriodsPerYear: state.CompoundingPeriod.PeriodsPerYear(),
		LoanAmount:                state.LoanAmount.String(),
		InterestRate:              state.InterestRate,
		RegularPayment:            NormalizeRegularPayment(state.RegularPayment),
	}, nil
}

// NormalizeRegularPayment returns the trimmed payment when it holds a number
// and "0" otherwise.
func NormalizeRegularPayment(payment string) string {
	trimmed := strings.TrimSpace(payment)
	if trimmed == "" {
		return constants.UnsetRegularPayment
	}
	if _, err := decimal.NewFromString(trimmed); err != nil {
		return constants.UnsetRegularPayment
	}
	return trimmed
}
