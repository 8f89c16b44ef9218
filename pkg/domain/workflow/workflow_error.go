package workflow

import "fmt"

// WorkflowError reports which step stopped a run.
type WorkflowError struct {
	Step string
	Err  error
}

func (w *WorkflowError) Error() string {
	return fmt.Sprintf("step '%s' failed: %v", w.Step, w.Err)
}

// Unwrap allows errors.Is() and errors.As() to reach the step's error.
func (w *WorkflowError) Unwrap() error {
	return w.Err
}

func NewWorkflowError(step string, err error) *WorkflowError {
	return &WorkflowError{
		Step: step,
		Err:  err,
	}
}
