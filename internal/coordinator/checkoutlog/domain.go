// Package checkoutlog is the durable audit trail of checkout attempts. Each
// state transition of an attempt is appended as one Entry, tagged with the
// trace that was active so a row can be joined to its distributed trace.
package checkoutlog

import "time"

// Status is the lifecycle state of a checkout attempt.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// Entry is a single row in the checkout_logs table.
type Entry struct {
	// AttemptID identifies one checkout attempt.
	AttemptID string

	Status Status

	// CurrentStep is the step that was just executed or failed.
	CurrentStep string

	// Payload is the order payload as JSON. Written once, on STARTED.
	Payload string

	// ErrorMessages is a JSON array of failure details.
	ErrorMessages string

	TraceID string
	SpanID  string

	UpdatedAt time.Time
}
