package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"project-provisioner/pkg/domain/errors"
)

const validConfig = `
scope: prj-us-adv-aiagnt-nav-uat
create_project:
  project_id: prj-us-adv-aiagnt-nav-uat
  region: us
  env: uat
  lob: adv
  app_postfix: aiagent-nav
enable_apis: {}
configure_network:
  env_type: uat
  host_project: prj-us-net-host
  vpc_name: uat-shared-vpc
create_service_account:
  account_id: sa-aiagent-nav
  roles:
    - roles/viewer
    - roles/run.admin
deploy_app:
  region: us-central1
  service_name: navigator
  image: us-docker.pkg.dev/prj-us-adv-aiagnt-nav-uat/apps/navigator:v1
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "provision.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Scope != "prj-us-adv-aiagnt-nav-uat" {
		t.Errorf("Scope = %q", cfg.Scope)
	}
	if cfg.Store != StoreFile {
		t.Errorf("Store should default to file, got %q", cfg.Store)
	}
	if cfg.StatePath == "" {
		t.Error("StatePath should default to the well-known path")
	}

	// Derived project ids flow from create_project into the later blocks.
	if got := cfg.EnableAPIs.ProjectID; got != "prj-us-adv-aiagnt-nav-uat" {
		t.Errorf("EnableAPIs.ProjectID = %q", got)
	}
	if got := cfg.CreateServiceAccount.TargetProjectID; got != "prj-us-adv-aiagnt-nav-uat" {
		t.Errorf("CreateServiceAccount.TargetProjectID = %q", got)
	}
	if got := cfg.DeployApp.ProjectID; got != "prj-us-adv-aiagnt-nav-uat" {
		t.Errorf("DeployApp.ProjectID = %q", got)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	bad := strings.Replace(validConfig, "scope:", "scoop:", 1)
	_, err := Load(writeConfig(t, bad))
	if err == nil {
		t.Fatal("unknown fields must be rejected")
	}
	if !errors.HasCode(err, errors.CodeConfigurationInvalid) {
		t.Errorf("want CONFIGURATION_INVALID, got %v", err)
	}
}

func TestLoadRejectsMissingBlocks(t *testing.T) {
	_, err := Load(writeConfig(t, "scope: x\n"))
	if err == nil {
		t.Fatal("missing step blocks must be rejected")
	}
	for _, block := range []string{"create_project", "enable_apis", "configure_network", "create_service_account", "deploy_app"} {
		if !strings.Contains(err.Error(), block) {
			t.Errorf("error should name the missing %s block, got %v", block, err)
		}
	}
}

func TestLoadRejectsMalformedRole(t *testing.T) {
	bad := strings.Replace(validConfig, "roles/viewer", "viewer", 1)
	_, err := Load(writeConfig(t, bad))
	if err == nil {
		t.Fatal("roles without the roles/ prefix must be rejected")
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	bad := "store: etcd\n" + validConfig
	_, err := Load(writeConfig(t, bad))
	if err == nil {
		t.Fatal("unknown store backend must be rejected")
	}
}

func TestScopeDefaultsToGlobal(t *testing.T) {
	noScope := strings.Replace(validConfig, "scope: prj-us-adv-aiagnt-nav-uat\n", "", 1)
	cfg, err := Load(writeConfig(t, noScope))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scope != "global" {
		t.Errorf("Scope should default to global, got %q", cfg.Scope)
	}
}
