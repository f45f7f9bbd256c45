// Package saga approximates a multi-resource transaction as an ordered list
// of steps, each paired with a compensating action. Actions run in order; on
// the first failure the completed steps are compensated in reverse order.
// Every outcome is recorded in a Report so best-effort cleanup stays
// observable instead of being swallowed.
package saga

import "context"

type StepStatus string

const (
	StatusSucceeded StepStatus = "succeeded"
	StatusFailed    StepStatus = "failed"
	StatusSkipped   StepStatus = "skipped"
)

// Step is one unit of work. Compensate may be nil when there is nothing to
// undo. Compensations must be independently safe: a failure in one must not
// prevent attempting the others.
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// StepResult records the outcome of a single action or compensation.
type StepResult struct {
	Name   string     `json:"name"`
	Status StepStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// Report is the structured outcome of a saga run.
type Report struct {
	FailedStep    string       `json:"failed_step,omitempty"`
	Steps         []StepResult `json:"steps"`
	Compensations []StepResult `json:"compensations,omitempty"`
}

// Succeeded reports whether every action completed.
func (r *Report) Succeeded() bool {
	return r.FailedStep == ""
}

// CompensationFailures returns the compensations that did not complete.
func (r *Report) CompensationFailures() []StepResult {
	var failed []StepResult
	for _, c := range r.Compensations {
		if c.Status == StatusFailed {
			failed = append(failed, c)
		}
	}
	return failed
}

// Execute runs the steps in order. On the first action failure it compensates
// all previously completed steps in reverse order and returns the causing
// error together with the report. Each compensation is guarded so one failing
// does not stop the rest; compensation failures are recorded in the report
// only, never returned.
func Execute(ctx context.Context, steps []Step) (*Report, error) {
	report := &Report{}

	completed := 0
	var cause error
	for _, step := range steps {
		if err := step.Action(ctx); err != nil {
			report.FailedStep = step.Name
			report.Steps = append(report.Steps, StepResult{Name: step.Name, Status: StatusFailed, Error: err.Error()})
			cause = err
			break
		}
		report.Steps = append(report.Steps, StepResult{Name: step.Name, Status: StatusSucceeded})
		completed++
	}

	if cause == nil {
		return report, nil
	}

	for i := completed - 1; i >= 0; i-- {
		step := steps[i]
		if step.Compensate == nil {
			report.Compensations = append(report.Compensations, StepResult{Name: step.Name, Status: StatusSkipped})
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			report.Compensations = append(report.Compensations, StepResult{Name: step.Name, Status: StatusFailed, Error: err.Error()})
			continue
		}
		report.Compensations = append(report.Compensations, StepResult{Name: step.Name, Status: StatusSucceeded})
	}

	return report, cause
}

// RunBestEffort runs every step regardless of failures and records each
// outcome. Used for teardown sequences where external cleanup is non-fatal
// and the caller performs the authoritative state change afterwards.
func RunBestEffort(ctx context.Context, steps []Step) *Report {
	report := &Report{}
	for _, step := range steps {
		if err := step.Action(ctx); err != nil {
			report.Steps = append(report.Steps, StepResult{Name: step.Name, Status: StatusFailed, Error: err.Error()})
			continue
		}
		report.Steps = append(report.Steps, StepResult{Name: step.Name, Status: StatusSucceeded})
	}
	return report
}
