package broker

import (
	"errors"
	"fmt"

	"hoodlink/internal/models"
)

// ValidationError reports malformed or contradictory order parameters.
// Orders failing validation are never submitted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "order validation: " + e.Reason
}

// NotFoundError reports an unknown symbol or order id.
type NotFoundError struct {
	Kind string // "symbol" or "order"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// SubmissionError reports a venue rejection of an order. It carries the
// rejected specification's key fields so a failed submission is diagnosable
// from the error alone.
type SubmissionError struct {
	Symbol     string
	Side       models.Side
	Quantity   float64
	Type       models.OrderType
	StatusCode int
	Body       string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission rejected (%d): %s %s x%v %s: %s",
		e.StatusCode, e.Side, e.Symbol, e.Quantity, e.Type, e.Body)
}

// CancelError reports a failed or impossible cancellation.
type CancelError struct {
	OrderID    string
	StatusCode int
	Reason     string
}

func (e *CancelError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("cancel order %s (%d): %s", e.OrderID, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("cancel order %s: %s", e.OrderID, e.Reason)
}

// InvalidStateError reports an operation attempted on an order or side that
// does not support it.
type InvalidStateError struct {
	Op     string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Op + ": " + e.Reason
}

// IsNotFound reports whether err is a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
