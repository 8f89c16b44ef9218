package steps

import (
	"context"
	"log/slog"

	"project-provisioner/pkg/config"
	"project-provisioner/pkg/domain/errors"
	"project-provisioner/pkg/domain/workflow"
	"project-provisioner/pkg/infrastructure/gcp"
)

func init() { Register(workflow.StepEnableAPIs, newEnableAPIsStep) }

type apiEnabler interface {
	EnableAPIs(ctx context.Context, projectID string, apis []string, logger *slog.Logger) (*gcp.EnableReport, error)
}

type enableAPIsStep struct {
	services apiEnabler
	cfg      config.EnableAPIsConfig
}

func newEnableAPIsStep(deps Deps) (workflow.Step, error) {
	if deps.Config.EnableAPIs == nil {
		return nil, errors.New(errors.CodeMissingParameter, "steps", "enable_apis configuration is missing", nil)
	}
	return &enableAPIsStep{services: deps.Clients, cfg: *deps.Config.EnableAPIs}, nil
}

func (s *enableAPIsStep) Name() string { return workflow.StepEnableAPIs }

// Execute enables the configured APIs. Per-API failures are recorded in the
// run metadata but do not fail the step; only context cancellation does.
func (s *enableAPIsStep) Execute(ctx context.Context, state *workflow.RunState) error {
	report, err := s.services.EnableAPIs(ctx, s.cfg.ProjectID, s.cfg.APIs, state.Logger)
	if report != nil {
		state.SetMetadata("enable_apis_report", report)
	}
	return err
}
