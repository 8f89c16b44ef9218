package steps

import (
	"context"
	"log/slog"

	"project-provisioner/pkg/config"
	"project-provisioner/pkg/domain/errors"
	"project-provisioner/pkg/domain/workflow"
	"project-provisioner/pkg/infrastructure/gcp"
)

func init() { Register(workflow.StepDeployApp, newDeployAppStep) }

type appDeployer interface {
	DeployApp(ctx context.Context, projectID string, spec gcp.AppSpec, logger *slog.Logger) error
}

type deployAppStep struct {
	deployer appDeployer
	cfg      config.DeployConfig
}

func newDeployAppStep(deps Deps) (workflow.Step, error) {
	if deps.Config.DeployApp == nil {
		return nil, errors.New(errors.CodeMissingParameter, "steps", "deploy_app configuration is missing", nil)
	}
	return &deployAppStep{deployer: deps.Clients, cfg: *deps.Config.DeployApp}, nil
}

func (s *deployAppStep) Name() string { return workflow.StepDeployApp }

func (s *deployAppStep) Execute(ctx context.Context, state *workflow.RunState) error {
	spec := gcp.AppSpec{
		ServiceName: s.cfg.ServiceName,
		Image:       s.cfg.Image,
		Port:        s.cfg.Port,
		Env:         s.cfg.Env,
	}
	if err := s.deployer.DeployApp(ctx, s.cfg.ProjectID, spec, state.Logger); err != nil {
		return err
	}
	state.SetMetadata("deployed_service", s.cfg.ServiceName)
	return nil
}
