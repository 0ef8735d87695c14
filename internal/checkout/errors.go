package checkout

import (
	"errors"
	"strings"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNoCustomer     = errors.New("customer is required")
	ErrShippingStreet = errors.New("shipping street is required")
	ErrBillingStreet  = errors.New("billing street is required")
	ErrPaymentMethod  = errors.New("payment method is not supported")
	ErrInvalidLine    = errors.New("order line is invalid")
	ErrInvalidAmount  = errors.New("amount is invalid")
	ErrTotalsMismatch = errors.New("totals do not add up")
)

// Problem is one failed check, addressed to a form field.
type Problem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	err     error
}

// ValidationError carries every problem found in one pass so the customer
// can fix the whole form at once. errors.Is matches any of the sentinels
// above that contributed a problem.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return "checkout: validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	out := make([]error, 0, len(e.Problems))
	for _, p := range e.Problems {
		out = append(out, p.err)
	}
	return out
}

func (e *ValidationError) add(field string, err error, msg string) {
	if msg == "" {
		msg = err.Error()
	}
	e.Problems = append(e.Problems, Problem{Field: field, Message: msg, err: err})
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
