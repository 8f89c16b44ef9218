// Package workflow provides the resumable step runner for provisioning runs.
//
// The runner owns an ordered list of named steps and the persisted completion
// state for each scope. Steps already recorded as complete are skipped;
// everything else executes in order, and the first failure stops the run.
// Re-invoking the runner resumes at the first incomplete step.
package workflow

import (
	"context"
	"log/slog"
)

// Step name constants. The provisioning order is fixed at build time.
const (
	StepCreateProject        = "create_project"
	StepEnableAPIs           = "enable_apis"
	StepConfigureNetwork     = "configure_network"
	StepCreateServiceAccount = "create_service_account"
	StepDeployApp            = "deploy_app"
)

// Step defines the interface for individual provisioning steps.
type Step interface {
	Name() string
	Execute(ctx context.Context, state *RunState) error
}

// RunState holds the state that flows between steps of one run.
type RunState struct {
	// RunID identifies this invocation of the runner in logs.
	RunID string

	// Scope is the checkpoint scope the run is tracked under.
	Scope string

	// Step outputs later steps may depend on.
	ProjectID           string
	ServiceAccountEmail string

	// Metadata collects per-step details surfaced at the end of the run.
	Metadata map[string]any

	Logger *slog.Logger
}

// SetMetadata records a per-step detail, creating the map lazily.
func (rs *RunState) SetMetadata(key string, value any) {
	if rs.Metadata == nil {
		rs.Metadata = make(map[string]any)
	}
	rs.Metadata[key] = value
}
