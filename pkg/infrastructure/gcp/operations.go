package gcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/googleapi"
)

// defaultPollInterval is the fixed delay between operation-status polls.
const defaultPollInterval = 2 * time.Second

var errPending = errors.New("operation still running")

// pollUntil invokes check at a fixed interval until it reports done or fails.
// The context bounds the overall wait; a check error ends polling immediately.
func pollUntil(ctx context.Context, interval time.Duration, check func() (bool, error)) error {
	poll := func() error {
		done, err := check()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !done {
			return errPending
		}
		return nil
	}
	return backoff.Retry(poll, backoff.WithContext(backoff.NewConstantBackOff(interval), ctx))
}

// isAlreadyExists reports whether the API rejected a create because the
// resource is already there. Treated as success by the idempotent steps.
func isAlreadyExists(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict
}

// isNotFound reports whether the API answered 404.
func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
