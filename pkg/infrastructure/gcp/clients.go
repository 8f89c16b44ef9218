// Package gcp wraps the Google Cloud control-plane services the provisioning
// steps drive. Clients are built once at startup and injected into each step,
// so steps carry no hidden dependency on process-wide setup order.
package gcp

import (
	"context"
	"fmt"

	"google.golang.org/api/cloudresourcemanager/v1"
	"google.golang.org/api/compute/v1"
	"google.golang.org/api/iam/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/run/v1"
	"google.golang.org/api/serviceusage/v1"
)

// Clients bundles the control-plane services used by the provisioning steps.
type Clients struct {
	ServiceUsage    *serviceusage.Service
	ResourceManager *cloudresourcemanager.Service
	IAM             *iam.Service
	Compute         *compute.Service
	Run             *run.APIService
}

// NewClients builds the client bundle with application-default credentials.
// region selects the Cloud Run regional endpoint; it may be empty when the
// deploy step is not used. Extra options are applied last so tests can
// override endpoints and authentication.
func NewClients(ctx context.Context, region string, opts ...option.ClientOption) (*Clients, error) {
	usage, err := serviceusage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating serviceusage client: %w", err)
	}
	crm, err := cloudresourcemanager.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating cloudresourcemanager client: %w", err)
	}
	iamSvc, err := iam.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating iam client: %w", err)
	}
	computeSvc, err := compute.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating compute client: %w", err)
	}

	runOpts := opts
	if region != "" {
		// The namespaces API only answers on regional endpoints.
		regional := option.WithEndpoint(fmt.Sprintf("https://%s-run.googleapis.com/", region))
		runOpts = append([]option.ClientOption{regional}, opts...)
	}
	runSvc, err := run.NewService(ctx, runOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating run client: %w", err)
	}

	return &Clients{
		ServiceUsage:    usage,
		ResourceManager: crm,
		IAM:             iamSvc,
		Compute:         computeSvc,
		Run:             runSvc,
	}, nil
}
