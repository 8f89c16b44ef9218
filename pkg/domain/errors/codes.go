package errors

// Code represents an error code
type Code string

// Error codes shared across the provisioning domains
const (
	CodeUnknown               Code = "UNKNOWN"                 // Unknown error occurred
	CodeInternalError         Code = "INTERNAL_ERROR"          // Internal system error
	CodeValidationFailed      Code = "VALIDATION_FAILED"       // Input validation failed
	CodeInvalidParameter      Code = "INVALID_PARAMETER"       // Invalid parameter provided
	CodeMissingParameter      Code = "MISSING_PARAMETER"       // Required parameter missing
	CodeConfigurationInvalid  Code = "CONFIGURATION_INVALID"   // Configuration invalid
	CodeIoError               Code = "IO_ERROR"                // Input/output operation failed
	CodeResourceNotFound      Code = "RESOURCE_NOT_FOUND"      // Resource not found
	CodeResourceAlreadyExists Code = "RESOURCE_ALREADY_EXISTS" // Resource already exists
	CodeOperationFailed       Code = "OPERATION_FAILED"        // Control-plane operation failed
	CodeNetworkError          Code = "NETWORK_ERROR"           // Network error
	CodeStepNotFound          Code = "STEP_NOT_FOUND"          // Workflow step not registered
	CodeWorkflowFailed        Code = "WORKFLOW_FAILED"         // Workflow execution failed
	CodeInvalidState          Code = "INVALID_STATE"           // Invalid state
)
