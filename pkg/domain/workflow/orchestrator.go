package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"project-provisioner/pkg/infrastructure/persistence/checkpoint"
)

// Orchestrator executes provisioning steps sequentially against one
// checkpoint store. It is single-threaded: each step blocks the run for the
// full duration of its control-plane calls.
type Orchestrator struct {
	steps  []Step
	store  checkpoint.Store
	logger *slog.Logger
}

// NewOrchestrator creates an orchestrator over an ordered, non-empty step
// list. Step names must be unique; order is significant and preserved.
func NewOrchestrator(steps []Step, store checkpoint.Store, logger *slog.Logger) (*Orchestrator, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("orchestrator requires at least one step")
	}
	seen := make(map[string]bool, len(steps))
	for _, step := range steps {
		if seen[step.Name()] {
			return nil, fmt.Errorf("duplicate step name %q", step.Name())
		}
		seen[step.Name()] = true
	}
	return &Orchestrator{
		steps:  steps,
		store:  store,
		logger: logger,
	}, nil
}

// Run drives the steps for one scope. Completed steps are skipped; the first
// failing step stops the run and its error is returned, so callers exit
// non-zero when steps remain. State is persisted immediately after each
// successful step, so a crash after persistence never re-runs that step.
func (o *Orchestrator) Run(ctx context.Context, scope string) error {
	state, err := o.store.Load()
	if err != nil {
		return fmt.Errorf("loading checkpoint state: %w", err)
	}

	runState := &RunState{
		RunID:  uuid.NewString(),
		Scope:  scope,
		Logger: o.logger,
	}

	o.logger.Info("Starting provisioning run",
		"run_id", runState.RunID,
		"scope", scope,
		"steps_count", len(o.steps),
		"already_completed", len(state.Completed(scope)),
	)

	startTime := time.Now()
	executed, skipped := 0, 0

	for _, step := range o.steps {
		if state.Done(scope, step.Name()) {
			skipped++
			o.logger.Info("Skipping step (already done)",
				"run_id", runState.RunID,
				"step", step.Name(),
			)
			continue
		}

		o.logger.Info("Running step",
			"run_id", runState.RunID,
			"step", step.Name(),
		)

		if err := step.Execute(ctx, runState); err != nil {
			o.logger.Error("Step failed, stopping run; re-run to resume",
				"run_id", runState.RunID,
				"step", step.Name(),
				"error", err,
			)
			return NewWorkflowError(step.Name(), err)
		}
		executed++

		state.MarkDone(scope, step.Name())
		if err := o.store.Save(state); err != nil {
			// The step's side effects are applied but not recorded; a
			// re-run repeats the step and relies on target-side idempotency.
			return fmt.Errorf("persisting checkpoint after step %s: %w", step.Name(), err)
		}

		o.logger.Info("Step completed",
			"run_id", runState.RunID,
			"step", step.Name(),
		)
	}

	o.logger.Info("Provisioning run completed",
		"run_id", runState.RunID,
		"scope", scope,
		"executed", executed,
		"skipped", skipped,
		"duration", time.Since(startTime),
	)
	return nil
}

// Steps returns the configured step names in execution order.
func (o *Orchestrator) Steps() []string {
	names := make([]string, 0, len(o.steps))
	for _, step := range o.steps {
		names = append(names, step.Name())
	}
	return names
}
