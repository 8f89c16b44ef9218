package steps

import (
	"context"
	"fmt"
	"log/slog"

	"project-provisioner/pkg/config"
	"project-provisioner/pkg/domain/errors"
	"project-provisioner/pkg/domain/workflow"
	"project-provisioner/pkg/infrastructure/gcp"
)

func init() { Register(workflow.StepCreateProject, newCreateProjectStep) }

type projectCreator interface {
	CreateProject(ctx context.Context, spec gcp.ProjectSpec, logger *slog.Logger) error
}

type createProjectStep struct {
	projects projectCreator
	cfg      config.CreateProjectConfig
}

func newCreateProjectStep(deps Deps) (workflow.Step, error) {
	if deps.Config.CreateProject == nil {
		return nil, errors.New(errors.CodeMissingParameter, "steps", "create_project configuration is missing", nil)
	}
	return &createProjectStep{projects: deps.Clients, cfg: *deps.Config.CreateProject}, nil
}

func (s *createProjectStep) Name() string { return workflow.StepCreateProject }

func (s *createProjectStep) Execute(ctx context.Context, state *workflow.RunState) error {
	displayName := s.cfg.DisplayName
	if displayName == "" {
		displayName = fmt.Sprintf("%s %s", s.cfg.AppPostfix, s.cfg.Env)
	}

	spec := gcp.ProjectSpec{
		ProjectID: s.cfg.ProjectID,
		Name:      displayName,
		Labels: map[string]string{
			"region": s.cfg.Region,
			"env":    s.cfg.Env,
			"lob":    s.cfg.Lob,
			"app":    s.cfg.AppPostfix,
		},
	}
	if err := s.projects.CreateProject(ctx, spec, state.Logger); err != nil {
		return err
	}

	state.ProjectID = s.cfg.ProjectID
	return nil
}
