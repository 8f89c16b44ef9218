package steps

import (
	"context"
	"log/slog"

	"project-provisioner/pkg/config"
	"project-provisioner/pkg/domain/errors"
	"project-provisioner/pkg/domain/workflow"
)

func init() { Register(workflow.StepConfigureNetwork, newConfigureNetworkStep) }

type vpcAttacher interface {
	AttachSharedVPC(ctx context.Context, hostProject, vpcName, serviceProject string, logger *slog.Logger) error
}

type configureNetworkStep struct {
	network vpcAttacher
	cfg     config.NetworkConfig
}

func newConfigureNetworkStep(deps Deps) (workflow.Step, error) {
	if deps.Config.ConfigureNetwork == nil {
		return nil, errors.New(errors.CodeMissingParameter, "steps", "configure_network configuration is missing", nil)
	}
	return &configureNetworkStep{network: deps.Clients, cfg: *deps.Config.ConfigureNetwork}, nil
}

func (s *configureNetworkStep) Name() string { return workflow.StepConfigureNetwork }

func (s *configureNetworkStep) Execute(ctx context.Context, state *workflow.RunState) error {
	state.Logger.Info("Configuring network",
		"project_id", s.cfg.ProjectID,
		"env_type", s.cfg.EnvType,
		"vpc", s.cfg.VPCName,
	)
	return s.network.AttachSharedVPC(ctx, s.cfg.HostProject, s.cfg.VPCName, s.cfg.ProjectID, state.Logger)
}
