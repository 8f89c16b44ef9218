package gcp

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/cloudresourcemanager/v1"

	"project-provisioner/pkg/domain/errors"
)

// ProjectSpec describes the project a run provisions.
type ProjectSpec struct {
	ProjectID string
	Name      string
	Labels    map[string]string
}

// CreateProject creates the project and waits for the creation operation to
// finish. An already-existing project is success, not an error.
func (c *Clients) CreateProject(ctx context.Context, spec ProjectSpec, logger *slog.Logger) error {
	op, err := c.ResourceManager.Projects.Create(&cloudresourcemanager.Project{
		ProjectId: spec.ProjectID,
		Name:      spec.Name,
		Labels:    spec.Labels,
	}).Context(ctx).Do()
	if err != nil {
		if isAlreadyExists(err) {
			logger.Info("Project already exists", "project_id", spec.ProjectID)
			return nil
		}
		return errors.New(errors.CodeOperationFailed, "gcp",
			fmt.Sprintf("failed to create project %s", spec.ProjectID), err)
	}

	logger.Info("Creating project", "project_id", spec.ProjectID, "operation", op.Name)
	err = pollUntil(ctx, defaultPollInterval, func() (bool, error) {
		result, err := c.ResourceManager.Operations.Get(op.Name).Context(ctx).Do()
		if err != nil {
			return false, err
		}
		if result.Done && result.Error != nil {
			return false, fmt.Errorf("create operation failed: %s", result.Error.Message)
		}
		return result.Done, nil
	})
	if err != nil {
		return errors.New(errors.CodeOperationFailed, "gcp",
			fmt.Sprintf("waiting for project %s creation", spec.ProjectID), err)
	}

	logger.Info("Project created", "project_id", spec.ProjectID)
	return nil
}
