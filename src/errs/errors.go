// Package errs holds the recoverable domain errors surfaced to API callers.
// Each error carries the offending symbol or id so handlers can build a
// user-facing message without extra lookups.
package errs

import "fmt"

// ValidationError reports a malformed placement request (non-positive
// quantity, missing limit price, unknown enum value, ...).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InstrumentNotFoundError reports an unknown or inactive symbol.
type InstrumentNotFoundError struct {
	Symbol string
}

func (e *InstrumentNotFoundError) Error() string {
	return fmt.Sprintf("instrument %q not found or not tradable", e.Symbol)
}

// OrderNotFoundError reports a lookup for an order id that does not exist.
type OrderNotFoundError struct {
	OrderID uint
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %d not found", e.OrderID)
}

// HoldingNotFoundError reports a symbol with no open position.
type HoldingNotFoundError struct {
	Symbol string
}

func (e *HoldingNotFoundError) Error() string {
	return fmt.Sprintf("no open holding for %q", e.Symbol)
}

// InvalidStateError reports an illegal order state transition, e.g.
// cancelling an order that is already EXECUTED.
type InvalidStateError struct {
	OrderID uint
	Status  string
	Message string
}

func (e *InvalidStateError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("order %d is in %s status and cannot transition", e.OrderID, e.Status)
}
