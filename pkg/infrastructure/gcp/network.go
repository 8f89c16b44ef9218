package gcp

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/compute/v1"

	"project-provisioner/pkg/domain/errors"
)

const computeOperationDone = "DONE"

// AttachSharedVPC verifies the shared VPC exists in the host project and
// attaches the service project to it. A project already attached is success.
func (c *Clients) AttachSharedVPC(ctx context.Context, hostProject, vpcName, serviceProject string, logger *slog.Logger) error {
	if _, err := c.Compute.Networks.Get(hostProject, vpcName).Context(ctx).Do(); err != nil {
		return errors.New(errors.CodeResourceNotFound, "gcp",
			fmt.Sprintf("shared VPC %s not found in host project %s", vpcName, hostProject), err)
	}

	attached, err := c.isServiceProject(ctx, hostProject, serviceProject)
	if err != nil {
		return err
	}
	if attached {
		logger.Info("Project already attached to shared VPC host",
			"project_id", serviceProject, "host_project", hostProject)
		return nil
	}

	op, err := c.Compute.Projects.EnableXpnResource(hostProject, &compute.ProjectsEnableXpnResourceRequest{
		XpnResource: &compute.XpnResourceId{
			Id:   serviceProject,
			Type: "PROJECT",
		},
	}).Context(ctx).Do()
	if err != nil {
		return errors.New(errors.CodeOperationFailed, "gcp",
			fmt.Sprintf("failed to attach %s to host %s", serviceProject, hostProject), err)
	}

	err = pollUntil(ctx, defaultPollInterval, func() (bool, error) {
		result, err := c.Compute.GlobalOperations.Get(hostProject, op.Name).Context(ctx).Do()
		if err != nil {
			return false, err
		}
		if result.Error != nil && len(result.Error.Errors) > 0 {
			return false, fmt.Errorf("attach operation failed: %s", result.Error.Errors[0].Message)
		}
		return result.Status == computeOperationDone, nil
	})
	if err != nil {
		return errors.New(errors.CodeOperationFailed, "gcp",
			fmt.Sprintf("waiting for %s shared VPC attachment", serviceProject), err)
	}

	logger.Info("Attached project to shared VPC host",
		"project_id", serviceProject, "host_project", hostProject, "vpc", vpcName)
	return nil
}

func (c *Clients) isServiceProject(ctx context.Context, hostProject, serviceProject string) (bool, error) {
	resources, err := c.Compute.Projects.GetXpnResources(hostProject).Context(ctx).Do()
	if err != nil {
		return false, errors.New(errors.CodeOperationFailed, "gcp",
			fmt.Sprintf("failed to list service projects of host %s", hostProject), err)
	}
	for _, res := range resources.Resources {
		if res.Id == serviceProject {
			return true, nil
		}
	}
	return false, nil
}
