package config

import (
	"fmt"
	"strings"

	"project-provisioner/pkg/domain/errors"
)

// Validate checks the configuration after defaults were applied. Every
// problem is collected so the operator sees the full list at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Store != StoreFile && c.Store != StoreBolt {
		problems = append(problems, fmt.Sprintf("store: unknown backend %q (want %q or %q)", c.Store, StoreFile, StoreBolt))
	}

	if c.CreateProject == nil {
		problems = append(problems, "create_project: block is required")
	} else {
		problems = append(problems, requireFields("create_project", map[string]string{
			"project_id":  c.CreateProject.ProjectID,
			"region":      c.CreateProject.Region,
			"env":         c.CreateProject.Env,
			"lob":         c.CreateProject.Lob,
			"app_postfix": c.CreateProject.AppPostfix,
		})...)
	}

	if c.EnableAPIs == nil {
		problems = append(problems, "enable_apis: block is required")
	} else if c.EnableAPIs.ProjectID == "" {
		problems = append(problems, "enable_apis: project_id is required when create_project is absent")
	}

	if c.ConfigureNetwork == nil {
		problems = append(problems, "configure_network: block is required")
	} else {
		problems = append(problems, requireFields("configure_network", map[string]string{
			"project_id":   c.ConfigureNetwork.ProjectID,
			"env_type":     c.ConfigureNetwork.EnvType,
			"host_project": c.ConfigureNetwork.HostProject,
			"vpc_name":     c.ConfigureNetwork.VPCName,
		})...)
	}

	if c.CreateServiceAccount == nil {
		problems = append(problems, "create_service_account: block is required")
	} else {
		problems = append(problems, requireFields("create_service_account", map[string]string{
			"project_id": c.CreateServiceAccount.ProjectID,
			"account_id": c.CreateServiceAccount.AccountID,
		})...)
		if len(c.CreateServiceAccount.Roles) == 0 {
			problems = append(problems, "create_service_account: roles must name at least one role")
		}
		for _, role := range c.CreateServiceAccount.Roles {
			if !strings.HasPrefix(role, "roles/") {
				problems = append(problems, fmt.Sprintf("create_service_account: role %q must start with roles/", role))
			}
		}
	}

	if c.DeployApp == nil {
		problems = append(problems, "deploy_app: block is required")
	} else {
		problems = append(problems, requireFields("deploy_app", map[string]string{
			"project_id":   c.DeployApp.ProjectID,
			"region":       c.DeployApp.Region,
			"service_name": c.DeployApp.ServiceName,
			"image":        c.DeployApp.Image,
		})...)
	}

	if len(problems) > 0 {
		return errors.New(errors.CodeConfigurationInvalid, "config", strings.Join(problems, "; "), nil)
	}
	return nil
}

func requireFields(block string, fields map[string]string) []string {
	var problems []string
	for name, value := range fields {
		if value == "" {
			problems = append(problems, fmt.Sprintf("%s: %s is required", block, name))
		}
	}
	return problems
}
