package midtier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gheinze-sandbox/accounted4/pkg/datetime"
	"github.com/shopspring/decimal"
)

// Money is a monetary amount as serialized by the calculation service.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency,omitempty"`
	RoundingMode string          `json:"roundingMode,omitempty"`
}

// UnmarshalJSON accepts the full money object or a bare amount.
func (m *Money) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var amount decimal.Decimal
		if err := amount.UnmarshalJSON(trimmed); err != nil {
			return fmt.Errorf("invalid money amount: %w", err)
		}
		*m = Money{Amount: amount}
		return nil
	}

	type plain Money
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*m = Money(p)
	return nil
}

// PaymentDate is a calendar date sent by the service as [year, month, day]
// with a 1-based month. ISO date strings are accepted as well.
type PaymentDate struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *PaymentDate) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		t, err := datetime.ParseDate(s, time.UTC)
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	}

	var parts []int
	if err := json.Unmarshal(trimmed, &parts); err != nil {
		return fmt.Errorf("payment date must be [year, month, day] or a date string: %w", err)
	}
	if len(parts) != 3 {
		return fmt.Errorf("payment date must have 3 components, got %d", len(parts))
	}
	year, month, day := parts[0], parts[1], parts[2]
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return fmt.Errorf("payment date out of range: %v", parts)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return fmt.Errorf("payment date out of range: %v", parts)
	}
	d.Time = t
	return nil
}

// MarshalJSON renders the date as YYYY-MM-DD.
func (d PaymentDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(datetime.FormatDate(d.Time))
}

func (d PaymentDate) String() string {
	return datetime.FormatDate(d.Time)
}

// ScheduledPayment is one line of an amortization schedule.
type ScheduledPayment struct {
	PaymentNumber int         `json:"paymentNumber"`
	PaymentDate   PaymentDate `json:"paymentDate"`
	Interest      Money       `json:"interest"`
	Principal     Money       `json:"principal"`
	Balance       Money       `json:"balance"`
	Payment       *Money      `json:"payment,omitempty"`
}

// Total is the full amount due for the line.
func (p ScheduledPayment) Total() decimal.Decimal {
	if p.Payment != nil {
		return p.Payment.Amount
	}
	return p.Interest.Amount.Add(p.Principal.Amount)
}

// DocumentID identifies a schedule document prepared by the service.
type DocumentID string

type documentResponse struct {
	ID DocumentID `json:"id"`
}
