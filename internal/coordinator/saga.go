package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/seat-storefront/internal/coordinator/checkoutlog"
)

// Step is a single unit of work in a checkout. Each step carries the
// action that undoes it.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// StepError reports which step failed. Unwrap yields the step's error.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("step %s: %v", e.Step, e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

// Orchestrator runs the steps of one checkout attempt.
type Orchestrator struct {
	attemptID string
	payload   string
	steps     []Step
	log       checkoutlog.Repository
}

// NewOrchestrator creates an orchestrator for one attempt. repo may be nil,
// in which case transitions are not persisted.
func NewOrchestrator(attemptID string, steps []Step, repo checkoutlog.Repository) *Orchestrator {
	return &Orchestrator{attemptID: attemptID, steps: steps, log: repo}
}

// WithPayload sets the JSON recorded with the STARTED entry.
func (o *Orchestrator) WithPayload(payload string) *Orchestrator {
	o.payload = payload
	return o
}

// Start runs the steps in order. When a step fails, every step that
// already succeeded is compensated in reverse order and the step's error
// is returned as a *StepError.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.record(ctx, checkoutlog.StatusStarted, "", o.payload, nil)

	var done []Step
	for _, step := range o.steps {
		slog.InfoContext(ctx, "executing checkout step", "attempt_id", o.attemptID, "step", step.Name())
		if err := step.Execute(ctx); err != nil {
			slog.ErrorContext(ctx, "checkout step failed, rolling back",
				"attempt_id", o.attemptID, "step", step.Name(), "error", err)
			failure := fmt.Sprintf("step %s failed: %v", step.Name(), err)
			o.record(ctx, checkoutlog.StatusCompensating, step.Name(), "", []string{failure})

			errs := append([]string{failure}, o.rollback(ctx, done)...)
			o.record(ctx, checkoutlog.StatusFailed, step.Name(), "", errs)
			return &StepError{Step: step.Name(), Err: err}
		}
		done = append(done, step)
		o.record(ctx, checkoutlog.StatusStepDone, step.Name(), "", nil)
	}

	o.record(ctx, checkoutlog.StatusCompleted, "", "", nil)
	slog.InfoContext(ctx, "checkout completed", "attempt_id", o.attemptID)
	return nil
}

func (o *Orchestrator) rollback(ctx context.Context, steps []Step) []string {
	var errs []string
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		slog.InfoContext(ctx, "compensating checkout step", "attempt_id", o.attemptID, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: compensation failed",
				"attempt_id", o.attemptID, "step", step.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("compensation of %s failed: %v", step.Name(), err))
		}
	}
	return errs
}

func (o *Orchestrator) record(ctx context.Context, status checkoutlog.Status, step, payload string, errs []string) {
	if o.log == nil {
		return
	}
	entry := checkoutlog.NewEntry(ctx, o.attemptID, status, step, payload, errs)
	if err := o.log.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "checkout log write failed", "attempt_id", o.attemptID, "status", status, "error", err)
	}
}
