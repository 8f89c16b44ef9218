package gcp

// RequiredAPIs is the default set of services enabled for a new project
// environment when the step configuration does not name its own list.
var RequiredAPIs = []string{
	"certificatemanager.googleapis.com",
	"cloudresourcemanager.googleapis.com",
	"iam.googleapis.com",
	"iamcredentials.googleapis.com",
	"sts.googleapis.com",
	"serviceusage.googleapis.com",
	"cloudbilling.googleapis.com",
	"compute.googleapis.com",
	"dns.googleapis.com",
	"logging.googleapis.com",
	"monitoring.googleapis.com",
	"cloudkms.googleapis.com",
	"orgpolicy.googleapis.com",
	"servicenetworking.googleapis.com",
	"artifactregistry.googleapis.com",
	"run.googleapis.com",
	"storage.googleapis.com",
	"sqladmin.googleapis.com",
	"aiplatform.googleapis.com",
	"bigquery.googleapis.com",
	"cloudbuild.googleapis.com",
	"pubsub.googleapis.com",
	"spanner.googleapis.com",
	"secretmanager.googleapis.com",
	"vpcaccess.googleapis.com",
	"networkservices.googleapis.com",
	"eventarc.googleapis.com",
	"notebooks.googleapis.com",
}
