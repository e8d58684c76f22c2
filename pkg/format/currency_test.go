package format

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		currency string
		numeric  string
	}{
		{"Zero", "0", "$0.00", "0.00"},
		{"Small", "5.5", "$5.50", "5.50"},
		{"Rounds half up", "166.665", "$166.67", "166.67"},
		{"Thousands", "20000", "$20,000.00", "20,000.00"},
		{"Millions", "1234567.891", "$1,234,567.89", "1,234,567.89"},
		{"Negative", "-1234.5", "-$1,234.50", "-1,234.50"},
		{"Negative rounds to zero", "-0.001", "$0.00", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.input)
			if got := Currency(amount); got != tt.currency {
				t.Errorf("Currency(%s) = %s, expected %s", tt.input, got, tt.currency)
			}
			if got := NumericCurrency(amount); got != tt.numeric {
				t.Errorf("NumericCurrency(%s) = %s, expected %s", tt.input, got, tt.numeric)
			}
		})
	}
}
