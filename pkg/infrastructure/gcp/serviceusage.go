package gcp

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/serviceusage/v1"
)

const serviceEnabled = "ENABLED"

// EnableReport summarizes one enable_apis pass.
type EnableReport struct {
	Enabled        []string `json:"enabled,omitempty"`
	AlreadyEnabled []string `json:"already_enabled,omitempty"`
	Failed         []string `json:"failed,omitempty"`
}

// EnableAPIs ensures each listed service is enabled on the project. Services
// already enabled are skipped; enable requests are polled at a fixed interval
// until the operation completes. Each service is handled independently; a
// failure is logged and recorded in the report without aborting the
// remaining services. Only context cancellation aborts the loop.
func (c *Clients) EnableAPIs(ctx context.Context, projectID string, apis []string, logger *slog.Logger) (*EnableReport, error) {
	if len(apis) == 0 {
		apis = RequiredAPIs
	}

	report := &EnableReport{}
	for _, api := range apis {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := fmt.Sprintf("projects/%s/services/%s", projectID, api)
		if err := c.enableAPI(ctx, name, api, logger, report); err != nil {
			logger.Error("Failed to enable API", "api", api, "error", err)
			report.Failed = append(report.Failed, api)
		}
	}
	return report, nil
}

func (c *Clients) enableAPI(ctx context.Context, name, api string, logger *slog.Logger, report *EnableReport) error {
	current, err := c.ServiceUsage.Services.Get(name).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("querying service state: %w", err)
	}
	if current.State == serviceEnabled {
		logger.Info("API already enabled", "api", api)
		report.AlreadyEnabled = append(report.AlreadyEnabled, api)
		return nil
	}

	logger.Info("Enabling API", "api", api)
	op, err := c.ServiceUsage.Services.Enable(name, &serviceusage.EnableServiceRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("requesting enable: %w", err)
	}

	if op.Name != "" && !op.Done {
		err = pollUntil(ctx, defaultPollInterval, func() (bool, error) {
			result, err := c.ServiceUsage.Operations.Get(op.Name).Context(ctx).Do()
			if err != nil {
				return false, err
			}
			if result.Done && result.Error != nil {
				return false, fmt.Errorf("enable operation failed: %s", result.Error.Message)
			}
			return result.Done, nil
		})
		if err != nil {
			return err
		}
	} else if op.Error != nil {
		return fmt.Errorf("enable operation failed: %s", op.Error.Message)
	}

	logger.Info("Successfully enabled API", "api", api)
	report.Enabled = append(report.Enabled, api)
	return nil
}

// ListEnabledAPIs returns the names of the services currently enabled on the
// project.
func (c *Clients) ListEnabledAPIs(ctx context.Context, projectID string) ([]string, error) {
	parent := fmt.Sprintf("projects/%s", projectID)
	var names []string
	err := c.ServiceUsage.Services.List(parent).
		Filter("state:ENABLED").
		PageSize(200).
		Pages(ctx, func(resp *serviceusage.ListServicesResponse) error {
			for _, svc := range resp.Services {
				if svc.Config != nil {
					names = append(names, svc.Config.Name)
				}
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("listing enabled services for %s: %w", projectID, err)
	}
	return names, nil
}
