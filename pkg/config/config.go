// Package config loads and validates the provisioning run configuration.
//
// The configuration is a YAML document with one typed block per step kind.
// Validation happens before any client is built: unknown fields and unknown
// step names are rejected up front instead of failing deep inside a remote
// call.
package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"project-provisioner/pkg/domain/errors"
	"project-provisioner/pkg/infrastructure/persistence/checkpoint"
)

// Store kinds for the checkpoint state.
const (
	StoreFile = "file"
	StoreBolt = "bolt"
)

// Config is the full provisioning run configuration.
type Config struct {
	// Scope keys the completion record; several scopes can share one state
	// file. Defaults to the global scope.
	Scope string `json:"scope,omitempty"`

	// StatePath locates the checkpoint state (JSON file or Bolt database).
	StatePath string `json:"state_path,omitempty"`

	// Store selects the checkpoint backend, "file" (default) or "bolt".
	Store string `json:"store,omitempty"`

	CreateProject        *CreateProjectConfig  `json:"create_project,omitempty"`
	EnableAPIs           *EnableAPIsConfig     `json:"enable_apis,omitempty"`
	ConfigureNetwork     *NetworkConfig        `json:"configure_network,omitempty"`
	CreateServiceAccount *ServiceAccountConfig `json:"create_service_account,omitempty"`
	DeployApp            *DeployConfig         `json:"deploy_app,omitempty"`
}

// CreateProjectConfig drives the create_project step.
type CreateProjectConfig struct {
	ProjectID   string `json:"project_id"`
	DisplayName string `json:"display_name,omitempty"`
	Region      string `json:"region"`
	Env         string `json:"env"`
	Lob         string `json:"lob"`
	AppPostfix  string `json:"app_postfix"`
}

// EnableAPIsConfig drives the enable_apis step. An empty API list selects
// the built-in required set.
type EnableAPIsConfig struct {
	ProjectID string   `json:"project_id,omitempty"`
	APIs      []string `json:"apis,omitempty"`
}

// NetworkConfig drives the configure_network step.
type NetworkConfig struct {
	ProjectID   string `json:"project_id,omitempty"`
	EnvType     string `json:"env_type"`
	HostProject string `json:"host_project"`
	VPCName     string `json:"vpc_name"`
}

// ServiceAccountConfig drives the create_service_account step. Roles are
// bound on TargetProjectID, which defaults to the project the account lives
// in.
type ServiceAccountConfig struct {
	ProjectID       string   `json:"project_id,omitempty"`
	AccountID       string   `json:"account_id"`
	DisplayName     string   `json:"display_name,omitempty"`
	TargetProjectID string   `json:"target_project_id,omitempty"`
	Roles           []string `json:"roles"`
}

// DeployConfig drives the deploy_app step.
type DeployConfig struct {
	ProjectID   string            `json:"project_id,omitempty"`
	Region      string            `json:"region"`
	ServiceName string            `json:"service_name"`
	Image       string            `json:"image"`
	Port        int64             `json:"port,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
}

// Load reads, defaults, and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeIoError, "config", fmt.Sprintf("failed to read %s", path), err)
	}

	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, errors.New(errors.CodeConfigurationInvalid, "config", fmt.Sprintf("failed to parse %s", path), err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed for %s: %w", path, err)
	}
	return &cfg, nil
}

// applyDefaults fills derivable fields so step factories see a complete
// configuration.
func (c *Config) applyDefaults() {
	if c.Scope == "" {
		c.Scope = checkpoint.GlobalScope
	}
	if c.StatePath == "" {
		c.StatePath = checkpoint.DefaultStatePath
	}
	if c.Store == "" {
		c.Store = StoreFile
	}

	projectID := ""
	if c.CreateProject != nil {
		projectID = c.CreateProject.ProjectID
	}
	if c.EnableAPIs != nil && c.EnableAPIs.ProjectID == "" {
		c.EnableAPIs.ProjectID = projectID
	}
	if c.ConfigureNetwork != nil && c.ConfigureNetwork.ProjectID == "" {
		c.ConfigureNetwork.ProjectID = projectID
	}
	if c.CreateServiceAccount != nil {
		if c.CreateServiceAccount.ProjectID == "" {
			c.CreateServiceAccount.ProjectID = projectID
		}
		if c.CreateServiceAccount.TargetProjectID == "" {
			c.CreateServiceAccount.TargetProjectID = c.CreateServiceAccount.ProjectID
		}
	}
	if c.DeployApp != nil && c.DeployApp.ProjectID == "" {
		c.DeployApp.ProjectID = projectID
	}
}
