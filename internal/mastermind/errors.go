// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mastermind

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ServiceError is a non-2xx response from the evidence service. It carries
// the endpoint, scrubbed parameters, status, and body so a failed run can
// be diagnosed without re-issuing the request.
type ServiceError struct {
	Endpoint string
	Params   url.Values
	Status   int
	Body     string
}

func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("evidence service returned HTTP %d for %s (params: %s)", e.Status, e.Endpoint, e.Params.Encode())
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Transient reports whether the failure is worth one retry. The service
// times out long queries with 408 and occasionally 500s under load.
func (e *ServiceError) Transient() bool {
	return e.Status == http.StatusRequestTimeout || e.Status == http.StatusInternalServerError
}

// IsTransient reports whether err is a retryable service failure.
func IsTransient(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Transient()
}

// IsNotFound reports whether err is an HTTP 404 from the service. Not found
// means "no evidence", a valid terminal state for count-style queries, and
// is never escalated as fatal.
func IsNotFound(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// UnresolvableError reports that a suggestion lookup returned no
// candidates. Caller policy decides skip-and-continue (batch mode) versus
// abort (interactive mode).
type UnresolvableError struct {
	Kind  string
	Input string
}

func (e *UnresolvableError) Error() string {
	return fmt.Sprintf("%s %q could not be resolved to a canonical identifier", e.Kind, e.Input)
}
