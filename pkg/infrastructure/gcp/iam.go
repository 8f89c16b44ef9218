package gcp

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/cloudresourcemanager/v1"
	"google.golang.org/api/iam/v1"

	"project-provisioner/pkg/domain/errors"
)

// EnsureServiceAccount creates a service account in the project. Creation is
// idempotent: an "already exists" answer yields the same derived email as a
// fresh create.
func (c *Clients) EnsureServiceAccount(ctx context.Context, projectID, accountID, displayName string, logger *slog.Logger) (string, error) {
	email := fmt.Sprintf("%s@%s.iam.gserviceaccount.com", accountID, projectID)

	resp, err := c.IAM.Projects.ServiceAccounts.Create("projects/"+projectID, &iam.CreateServiceAccountRequest{
		AccountId: accountID,
		ServiceAccount: &iam.ServiceAccount{
			DisplayName: displayName,
		},
	}).Context(ctx).Do()
	if err != nil {
		if isAlreadyExists(err) {
			logger.Info("Service account already exists", "email", email)
			return email, nil
		}
		return "", errors.New(errors.CodeOperationFailed, "gcp",
			fmt.Sprintf("failed to create service account %s", accountID), err)
	}

	if resp.Email != "" {
		email = resp.Email
	}
	logger.Info("Created service account", "email", email)
	return email, nil
}

// EnsureRoleBindings makes each role's policy binding on the target project
// include the service account. Every role is a separate read-modify-write of
// the project policy; when the member is already bound no update is issued.
// There is no transactional guarantee across roles.
func (c *Clients) EnsureRoleBindings(ctx context.Context, saEmail, targetProjectID string, roles []string, logger *slog.Logger) error {
	member := "serviceAccount:" + saEmail

	for _, role := range roles {
		policy, err := c.ResourceManager.Projects.GetIamPolicy(targetProjectID,
			&cloudresourcemanager.GetIamPolicyRequest{}).Context(ctx).Do()
		if err != nil {
			return errors.New(errors.CodeOperationFailed, "gcp",
				fmt.Sprintf("failed to read IAM policy of %s", targetProjectID), err)
		}

		if !bindMember(policy, role, member) {
			logger.Info("Role already bound", "role", role, "member", member, "project_id", targetProjectID)
			continue
		}

		_, err = c.ResourceManager.Projects.SetIamPolicy(targetProjectID,
			&cloudresourcemanager.SetIamPolicyRequest{Policy: policy}).Context(ctx).Do()
		if err != nil {
			return errors.New(errors.CodeOperationFailed, "gcp",
				fmt.Sprintf("failed to bind %s on %s", role, targetProjectID), err)
		}
		logger.Info("Assigned role", "role", role, "member", member, "project_id", targetProjectID)
	}
	return nil
}

// bindMember adds member to the role's binding, creating the binding when the
// role has none. It returns false when the member is already present and the
// policy is unchanged.
func bindMember(policy *cloudresourcemanager.Policy, role, member string) bool {
	for _, binding := range policy.Bindings {
		if binding.Role != role {
			continue
		}
		for _, m := range binding.Members {
			if m == member {
				return false
			}
		}
		binding.Members = append(binding.Members, member)
		return true
	}
	policy.Bindings = append(policy.Bindings, &cloudresourcemanager.Binding{
		Role:    role,
		Members: []string{member},
	})
	return true
}
