package saga

import (
	"context"
	"errors"
	"testing"
)

func TestExecuteAllSucceed(t *testing.T) {
	var order []string
	steps := []Step{
		{Name: "first", Action: func(ctx context.Context) error { order = append(order, "first"); return nil }},
		{Name: "second", Action: func(ctx context.Context) error { order = append(order, "second"); return nil }},
	}

	report, err := Execute(context.Background(), steps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Succeeded() {
		t.Fatal("expected report to mark success")
	}
	if len(report.Steps) != 2 || len(report.Compensations) != 0 {
		t.Fatalf("unexpected report shape: %+v", report)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("actions ran out of order: %v", order)
	}
}

func TestExecuteCompensatesInReverseOrder(t *testing.T) {
	var compensated []string
	boom := errors.New("boom")

	steps := []Step{
		{
			Name:       "first",
			Action:     func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error { compensated = append(compensated, "first"); return nil },
		},
		{
			Name:       "second",
			Action:     func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error { compensated = append(compensated, "second"); return nil },
		},
		{
			Name:   "third",
			Action: func(ctx context.Context) error { return boom },
		},
	}

	report, err := Execute(context.Background(), steps)
	if !errors.Is(err, boom) {
		t.Fatalf("expected causing error, got %v", err)
	}
	if report.FailedStep != "third" {
		t.Fatalf("expected failed step third, got %q", report.FailedStep)
	}
	if len(compensated) != 2 || compensated[0] != "second" || compensated[1] != "first" {
		t.Fatalf("expected reverse-order compensation, got %v", compensated)
	}
}

func TestExecuteFirstStepFailureCompensatesNothing(t *testing.T) {
	called := false
	steps := []Step{
		{
			Name:       "only",
			Action:     func(ctx context.Context) error { return errors.New("nope") },
			Compensate: func(ctx context.Context) error { called = true; return nil },
		},
	}

	report, err := Execute(context.Background(), steps)
	if err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Fatal("compensation must not run for the failing step itself")
	}
	if len(report.Compensations) != 0 {
		t.Fatalf("unexpected compensations: %+v", report.Compensations)
	}
}

func TestExecuteCompensationFailureDoesNotStopOthers(t *testing.T) {
	var compensated []string
	steps := []Step{
		{
			Name:       "first",
			Action:     func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error { compensated = append(compensated, "first"); return nil },
		},
		{
			Name:       "second",
			Action:     func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error { return errors.New("undo failed") },
		},
		{
			Name:   "third",
			Action: func(ctx context.Context) error { return errors.New("boom") },
		},
	}

	report, err := Execute(context.Background(), steps)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(compensated) != 1 || compensated[0] != "first" {
		t.Fatalf("first compensation should still run, got %v", compensated)
	}
	failures := report.CompensationFailures()
	if len(failures) != 1 || failures[0].Name != "second" {
		t.Fatalf("expected one recorded compensation failure, got %+v", failures)
	}
}

func TestExecuteNilCompensateRecordedAsSkipped(t *testing.T) {
	steps := []Step{
		{Name: "first", Action: func(ctx context.Context) error { return nil }},
		{Name: "second", Action: func(ctx context.Context) error { return errors.New("boom") }},
	}

	report, _ := Execute(context.Background(), steps)
	if len(report.Compensations) != 1 || report.Compensations[0].Status != StatusSkipped {
		t.Fatalf("expected skipped compensation, got %+v", report.Compensations)
	}
}

func TestRunBestEffortRunsEverything(t *testing.T) {
	var ran []string
	steps := []Step{
		{Name: "first", Action: func(ctx context.Context) error { ran = append(ran, "first"); return errors.New("boom") }},
		{Name: "second", Action: func(ctx context.Context) error { ran = append(ran, "second"); return nil }},
	}

	report := RunBestEffort(context.Background(), steps)
	if len(ran) != 2 {
		t.Fatalf("expected every step to run, got %v", ran)
	}
	if report.Steps[0].Status != StatusFailed || report.Steps[1].Status != StatusSucceeded {
		t.Fatalf("unexpected statuses: %+v", report.Steps)
	}
}
