package gcp

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/run/v1"

	"project-provisioner/pkg/domain/errors"
)

// AppSpec describes the Cloud Run service the deploy step manages.
type AppSpec struct {
	ServiceName string
	Image       string
	Port        int64
	Env         map[string]string
}

// DeployApp creates the Cloud Run service or replaces its template with the
// configured image, then waits until the service reports Ready.
func (c *Clients) DeployApp(ctx context.Context, projectID string, spec AppSpec, logger *slog.Logger) error {
	name := fmt.Sprintf("namespaces/%s/services/%s", projectID, spec.ServiceName)
	desired := buildRunService(projectID, spec)

	existing, err := c.Run.Namespaces.Services.Get(name).Context(ctx).Do()
	switch {
	case isNotFound(err):
		parent := fmt.Sprintf("namespaces/%s", projectID)
		if _, err := c.Run.Namespaces.Services.Create(parent, desired).Context(ctx).Do(); err != nil {
			return errors.New(errors.CodeOperationFailed, "gcp",
				fmt.Sprintf("failed to create service %s", spec.ServiceName), err)
		}
		logger.Info("Created Cloud Run service", "service", spec.ServiceName, "image", spec.Image)
	case err != nil:
		return errors.New(errors.CodeOperationFailed, "gcp",
			fmt.Sprintf("failed to query service %s", spec.ServiceName), err)
	default:
		// Keep the server-populated metadata so the replace is accepted.
		desired.Metadata.ResourceVersion = existing.Metadata.ResourceVersion
		if _, err := c.Run.Namespaces.Services.ReplaceService(name, desired).Context(ctx).Do(); err != nil {
			return errors.New(errors.CodeOperationFailed, "gcp",
				fmt.Sprintf("failed to replace service %s", spec.ServiceName), err)
		}
		logger.Info("Replaced Cloud Run service", "service", spec.ServiceName, "image", spec.Image)
	}

	err = pollUntil(ctx, defaultPollInterval, func() (bool, error) {
		svc, err := c.Run.Namespaces.Services.Get(name).Context(ctx).Do()
		if err != nil {
			return false, err
		}
		return serviceReady(svc)
	})
	if err != nil {
		return errors.New(errors.CodeOperationFailed, "gcp",
			fmt.Sprintf("waiting for service %s to become ready", spec.ServiceName), err)
	}

	logger.Info("Cloud Run service ready", "service", spec.ServiceName)
	return nil
}

// serviceReady interprets the knative Ready condition: True completes the
// wait, False fails it, anything else keeps polling.
func serviceReady(svc *run.Service) (bool, error) {
	if svc.Status == nil {
		return false, nil
	}
	for _, cond := range svc.Status.Conditions {
		if cond.Type != "Ready" {
			continue
		}
		switch cond.Status {
		case "True":
			return true, nil
		case "False":
			return false, fmt.Errorf("service not ready: %s", cond.Message)
		}
	}
	return false, nil
}

func buildRunService(projectID string, spec AppSpec) *run.Service {
	container := &run.Container{Image: spec.Image}
	if spec.Port != 0 {
		container.Ports = []*run.ContainerPort{{ContainerPort: spec.Port}}
	}
	for key, value := range spec.Env {
		container.Env = append(container.Env, &run.EnvVar{Name: key, Value: value})
	}

	return &run.Service{
		ApiVersion: "serving.knative.dev/v1",
		Kind:       "Service",
		Metadata: &run.ObjectMeta{
			Name:      spec.ServiceName,
			Namespace: projectID,
		},
		Spec: &run.ServiceSpec{
			Template: &run.RevisionTemplate{
				Spec: &run.RevisionSpec{
					Containers: []*run.Container{container},
				},
			},
		},
	}
}
