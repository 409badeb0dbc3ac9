// Package errs defines the error kinds the analytics core reports.
// Handlers match them with errors.As to pick a response status.
package errs

import "fmt"

// DataFormatError means the raw season payload was malformed or
// incomplete. Catalog construction fails outright; no partial catalog
// is ever returned.
type DataFormatError struct {
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bad season data: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("bad season data: %s", e.Reason)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// NotFoundError means an id did not resolve to a known player, team or
// gameweek record. Callers can recover by re-prompting.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for a numeric id.
func NotFound(resource string, id int) error {
	return &NotFoundError{Resource: resource, ID: fmt.Sprintf("%d", id)}
}

// InvalidArgumentError means a caller-supplied parameter was out of
// range (non-positive counts, inverted gameweek ranges).
type InvalidArgumentError struct {
	Param  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// InvalidArgument builds an InvalidArgumentError.
func InvalidArgument(param, reason string) error {
	return &InvalidArgumentError{Param: param, Reason: reason}
}

// SourceUnavailableError means an upstream fetch failed. The core
// propagates it unchanged and performs no retry of its own.
type SourceUnavailableError struct {
	Endpoint string
	Err      error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("upstream %s unavailable: %v", e.Endpoint, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }
