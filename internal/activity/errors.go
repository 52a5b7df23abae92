// Package activity implements the Temporal activities behind tenant
// provisioning. Each provider gets its own activity struct so the worker can
// register them independently and tests can mock at the step boundary.
package activity

import (
	"errors"
	"net/http"

	"go.temporal.io/sdk/temporal"
)

// statusCoder is implemented by the provider API error types.
type statusCoder interface {
	StatusCode() int
}

// classify maps provider errors onto Temporal's retry semantics. A 4xx
// response (other than 408 and 429) will not heal on retry, so it becomes a
// non-retryable application error. Everything else stays retryable.
func classify(err error, errType string) error {
	if err == nil {
		return nil
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		code := sc.StatusCode()
		if code >= 400 && code < 500 &&
			code != http.StatusRequestTimeout && code != http.StatusTooManyRequests {
			return temporal.NewNonRetryableApplicationError(err.Error(), errType, err)
		}
	}
	return err
}
