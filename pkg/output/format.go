// Package output provides utilities for formatting and displaying amortization results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gheinze-sandbox/accounted4/internal/loanterm"
	"github.com/gheinze-sandbox/accounted4/internal/midtier"
	"github.com/gheinze-sandbox/accounted4/pkg/format"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettySchedule outputs a human-readable rather than machine-readable table.
func PrettySchedule(w io.Writer, rows []midtier.ScheduledPayment) {
	p := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "--- Amortization schedule (%d payments) ---\n", len(rows))
	_, _ = fmt.Fprintf(w, "#    | Date       | Payment      | Interest     | Principal    | Balance\n")
	_, _ = fmt.Fprintf(w, "____ | __________ | ____________ | ____________ | ____________ | _______\n")

	totalInterest := decimal.Zero
	totalPrincipal := decimal.Zero
	for _, row := range rows {
		_, _ = p.Fprintf(w, "%-4d | %s | %12s | %12s | %12s | %s\n",
			row.PaymentNumber,
			row.PaymentDate,
			format.Currency(row.Total()),
			format.Currency(row.Interest.Amount),
			format.Currency(row.Principal.Amount),
			format.Currency(row.Balance.Amount),
		)
		totalInterest = totalInterest.Add(row.Interest.Amount)
		totalPrincipal = totalPrincipal.Add(row.Principal.Amount)
	}

	if len(rows) > 0 {
		_, _ = fmt.Fprintf(w, "Total interest: %s, total principal: %s\n",
			format.Currency(totalInterest), format.Currency(totalPrincipal))
	}
}

// CsvSchedule outputs the schedule in comma-separated value format.
func CsvSchedule(w io.Writer, rows []midtier.ScheduledPayment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"payment number", "date", "payment", "interest", "principal", "balance"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			fmt.Sprintf("%d", row.PaymentNumber),
			row.PaymentDate.String(),
			row.Total().StringFixed(2),
			row.Interest.Amount.StringFixed(2),
			row.Principal.Amount.StringFixed(2),
			row.Balance.Amount.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// PrettyPayment outputs the regular payment for the submitted terms.
func PrettyPayment(w io.Writer, req loanterm.Request, amount decimal.Decimal) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "Loan of %s at %.2f%% from %s (adjusted %s), %d month term\n",
		format.Currency(decimal.RequireFromString(orZero(req.LoanAmount))),
		req.InterestRate, req.StartDate, req.AdjustmentDate, req.TermInMonths)
	_, _ = fmt.Fprintf(w, "Monthly payment: %s\n", format.Currency(amount))
}

// CsvPayment outputs the regular payment in comma-separated value format.
func CsvPayment(w io.Writer, amount decimal.Decimal) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"monthly payment"}); err != nil {
		return err
	}
	if err := writer.Write([]string{amount.StringFixed(2)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// PrettyRequest outputs the normalized request that would be submitted.
func PrettyRequest(w io.Writer, req loanterm.Request) {
	_, _ = fmt.Fprintf(w, "Start date:                   %s\n", req.StartDate)
	_, _ = fmt.Fprintf(w, "Adjustment date:              %s\n", req.AdjustmentDate)
	_, _ = fmt.Fprintf(w, "Term (months):                %d\n", req.TermInMonths)
	_, _ = fmt.Fprintf(w, "Interest only:                %t\n", req.InterestOnly)
	_, _ = fmt.Fprintf(w, "Amortization period (months): %d\n", req.AmortizationPeriodMonths)
	_, _ = fmt.Fprintf(w, "Compounding periods per year: %d\n", req.CompoundingPeriodsPerYear)
	_, _ = fmt.Fprintf(w, "Loan amount:                  %s\n", req.LoanAmount)
	_, _ = fmt.Fprintf(w, "Interest rate (%%):            %g\n", req.InterestRate)
	_, _ = fmt.Fprintf(w, "Regular payment:              %s\n", req.RegularPayment)
}

// CsvRequest outputs the normalized request as field,value rows.
func CsvRequest(w io.Writer, req loanterm.Request) error {
	writer := csv.NewWriter(w)
	records := [][]string{
		{"field", "value"},
		{"startDate", req.StartDate},
		{"adjustmentDate", req.AdjustmentDate},
		{"termInMonths", fmt.Sprintf("%d", req.TermInMonths)},
		{"interestOnly", fmt.Sprintf("%t", req.InterestOnly)},
		{"amortizationPeriodMonths", fmt.Sprintf("%d", req.AmortizationPeriodMonths)},
		{"compoundingPeriodsPerYear", fmt.Sprintf("%d", req.CompoundingPeriodsPerYear)},
		{"loanAmount", req.LoanAmount},
		{"interestRate", fmt.Sprintf("%g", req.InterestRate)},
		{"regularPayment", req.RegularPayment},
	}
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return writer.Error()
}

// PrettyDocument outputs where a prepared schedule document can be fetched.
func PrettyDocument(w io.Writer, id midtier.DocumentID, url string) {
	_, _ = fmt.Fprintf(w, "Schedule document %s is ready at %s\n", id, url)
}

func orZero(amount string) string {
	if _, err := decimal.NewFromString(amount); err != nil {
		return "0"
	}
	return amount
}
