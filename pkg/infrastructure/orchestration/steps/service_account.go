package steps

import (
	"context"
	"fmt"
	"log/slog"

	"project-provisioner/pkg/config"
	"project-provisioner/pkg/domain/errors"
	"project-provisioner/pkg/domain/workflow"
)

func init() { Register(workflow.StepCreateServiceAccount, newServiceAccountStep) }

type accountProvisioner interface {
	EnsureServiceAccount(ctx context.Context, projectID, accountID, displayName string, logger *slog.Logger) (string, error)
	EnsureRoleBindings(ctx context.Context, saEmail, targetProjectID string, roles []string, logger *slog.Logger) error
}

type serviceAccountStep struct {
	accounts accountProvisioner
	cfg      config.ServiceAccountConfig
}

func newServiceAccountStep(deps Deps) (workflow.Step, error) {
	if deps.Config.CreateServiceAccount == nil {
		return nil, errors.New(errors.CodeMissingParameter, "steps", "create_service_account configuration is missing", nil)
	}
	return &serviceAccountStep{accounts: deps.Clients, cfg: *deps.Config.CreateServiceAccount}, nil
}

func (s *serviceAccountStep) Name() string { return workflow.StepCreateServiceAccount }

func (s *serviceAccountStep) Execute(ctx context.Context, state *workflow.RunState) error {
	displayName := s.cfg.DisplayName
	if displayName == "" {
		displayName = fmt.Sprintf("%s service account", s.cfg.ProjectID)
	}

	email, err := s.accounts.EnsureServiceAccount(ctx, s.cfg.ProjectID, s.cfg.AccountID, displayName, state.Logger)
	if err != nil {
		return err
	}
	state.ServiceAccountEmail = email

	return s.accounts.EnsureRoleBindings(ctx, email, s.cfg.TargetProjectID, s.cfg.Roles, state.Logger)
}
