package midtier

import (
	"errors"
	"fmt"
)

// ErrEmptyDocumentID is returned when a document is requested without an id.
var ErrEmptyDocumentID = errors.New("document id is required")

// Messages shown to the user when a call to the service fails.
const (
	MsgMonthlyPaymentFailed = "Amortization service failed to return a monthly payment amount."
	MsgScheduleFailed       = "Amortization service failed to return amortization schedule."
	MsgPrepareFailed        = "Amortization service failed to prepare a schedule document."
	MsgDocumentFailed       = "Amortization service failed to return the schedule document."
)

// ServiceError describes a failed call to the calculation service. Message
// is safe to show to the user; Err carries the transport or decoding cause.
type ServiceError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s (status %d): %v", e.Op, e.Message, e.Status, e.Err)
		}
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// UserMessage returns the notification to show for err. Errors that did not
// come from the service are reported with their own text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return err.Error()
}
