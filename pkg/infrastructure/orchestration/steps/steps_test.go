package steps

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-provisioner/pkg/domain/workflow"
	"project-provisioner/pkg/infrastructure/gcp"
)

func newRunState() *workflow.RunState {
	return &workflow.RunState{
		RunID:  "run-test",
		Scope:  "prj-us-adv-aiagnt-nav-uat",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

type fakeProjectCreator struct {
	spec gcp.ProjectSpec
	err  error
}

func (f *fakeProjectCreator) CreateProject(ctx context.Context, spec gcp.ProjectSpec, logger *slog.Logger) error {
	f.spec = spec
	return f.err
}

func TestCreateProjectStepMapsConfig(t *testing.T) {
	fake := &fakeProjectCreator{}
	step := &createProjectStep{projects: fake, cfg: *testConfig().CreateProject}
	state := newRunState()

	require.NoError(t, step.Execute(context.Background(), state))

	assert.Equal(t, "prj-us-adv-aiagnt-nav-uat", fake.spec.ProjectID)
	assert.Equal(t, "aiagent-nav uat", fake.spec.Name)
	assert.Equal(t, "adv", fake.spec.Labels["lob"])
	assert.Equal(t, "prj-us-adv-aiagnt-nav-uat", state.ProjectID, "later steps read the project id from run state")
}

func TestCreateProjectStepPropagatesError(t *testing.T) {
	boom := fmt.Errorf("permission denied")
	step := &createProjectStep{projects: &fakeProjectCreator{err: boom}, cfg: *testConfig().CreateProject}

	err := step.Execute(context.Background(), newRunState())
	require.ErrorIs(t, err, boom)
}

type fakeEnabler struct {
	gotProject string
	gotAPIs    []string
	report     *gcp.EnableReport
}

func (f *fakeEnabler) EnableAPIs(ctx context.Context, projectID string, apis []string, logger *slog.Logger) (*gcp.EnableReport, error) {
	f.gotProject = projectID
	f.gotAPIs = apis
	return f.report, nil
}

func TestEnableAPIsStepRecordsReport(t *testing.T) {
	fake := &fakeEnabler{report: &gcp.EnableReport{
		Enabled: []string{"y.googleapis.com"},
		Failed:  []string{"x.googleapis.com"},
	}}
	step := &enableAPIsStep{services: fake, cfg: *testConfig().EnableAPIs}
	state := newRunState()

	// A report with failed items is still step success.
	require.NoError(t, step.Execute(context.Background(), state))
	assert.Equal(t, "prj-us-adv-aiagnt-nav-uat", fake.gotProject)
	assert.Equal(t, fake.report, state.Metadata["enable_apis_report"])
}

type fakeAccounts struct {
	email        string
	createErr    error
	bindErr      error
	boundEmail   string
	boundProject string
	boundRoles   []string
}

func (f *fakeAccounts) EnsureServiceAccount(ctx context.Context, projectID, accountID, displayName string, logger *slog.Logger) (string, error) {
	return f.email, f.createErr
}

func (f *fakeAccounts) EnsureRoleBindings(ctx context.Context, saEmail, targetProjectID string, roles []string, logger *slog.Logger) error {
	f.boundEmail = saEmail
	f.boundProject = targetProjectID
	f.boundRoles = roles
	return f.bindErr
}

func TestServiceAccountStepBindsRolesOnTarget(t *testing.T) {
	fake := &fakeAccounts{email: "sa-aiagent-nav@prj-us-adv-aiagnt-nav-uat.iam.gserviceaccount.com"}
	step := &serviceAccountStep{accounts: fake, cfg: *testConfig().CreateServiceAccount}
	state := newRunState()

	require.NoError(t, step.Execute(context.Background(), state))

	assert.Equal(t, fake.email, state.ServiceAccountEmail)
	assert.Equal(t, fake.email, fake.boundEmail)
	assert.Equal(t, "prj-us-adv-aiagnt-nav-uat", fake.boundProject)
	assert.Equal(t, []string{"roles/viewer"}, fake.boundRoles)
}

func TestServiceAccountStepStopsOnCreateFailure(t *testing.T) {
	boom := fmt.Errorf("iam unavailable")
	fake := &fakeAccounts{createErr: boom}
	step := &serviceAccountStep{accounts: fake, cfg: *testConfig().CreateServiceAccount}

	err := step.Execute(context.Background(), newRunState())
	require.ErrorIs(t, err, boom)
	assert.Empty(t, fake.boundRoles, "role binding must not run after create fails")
}

type fakeDeployer struct {
	gotProject string
	gotSpec    gcp.AppSpec
}

func (f *fakeDeployer) DeployApp(ctx context.Context, projectID string, spec gcp.AppSpec, logger *slog.Logger) error {
	f.gotProject = projectID
	f.gotSpec = spec
	return nil
}

func TestDeployAppStepMapsConfig(t *testing.T) {
	fake := &fakeDeployer{}
	step := &deployAppStep{deployer: fake, cfg: *testConfig().DeployApp}
	state := newRunState()

	require.NoError(t, step.Execute(context.Background(), state))
	assert.Equal(t, "prj-us-adv-aiagnt-nav-uat", fake.gotProject)
	assert.Equal(t, "navigator", fake.gotSpec.ServiceName)
	assert.Equal(t, "navigator", state.Metadata["deployed_service"])
}
