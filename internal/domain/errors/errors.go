package errors

import (
	"fmt"
)

type ErrMissingRequiredField struct {
	FieldName string
}

func (e *ErrMissingRequiredField) Error() string {
	return fmt.Sprintf("missing required field: %s", e.FieldName)
}

func (e *ErrMissingRequiredField) Is(target error) bool {
	_, ok := target.(*ErrMissingRequiredField)
	return ok
}

// ErrMissingToken is the configuration error for a GitHub repository
// given without an access token.
type ErrMissingToken struct{}

func (e *ErrMissingToken) Error() string {
	return "GitHub access token is required when a GitHub repository is configured"
}

func (e *ErrMissingToken) Is(target error) bool {
	_, ok := target.(*ErrMissingToken)
	return ok
}

type ErrInvalidValue struct {
	FieldName string
	Value     string
}

func (e *ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid value %q for field %q", e.Value, e.FieldName)
}

func (e *ErrInvalidValue) Is(target error) bool {
	_, ok := target.(*ErrInvalidValue)
	return ok
}

type ErrMailRelayUnavailable struct {
	Command string
	Cause   error
}

func (e *ErrMailRelayUnavailable) Error() string {
	return fmt.Sprintf("mail relay %q is not available: %v", e.Command, e.Cause)
}

func (e *ErrMailRelayUnavailable) Unwrap() error {
	return e.Cause
}

// ErrParseTitle is returned when a feed entry title does not match the
// "<package> <old> is outdated by <new>" format.
type ErrParseTitle struct {
	Title string
}

func (e *ErrParseTitle) Error() string {
	return fmt.Sprintf("could not parse entry title: %q", e.Title)
}

func (e *ErrParseTitle) Is(target error) bool {
	_, ok := target.(*ErrParseTitle)
	return ok
}

type ErrFeedFetch struct {
	URL   string
	Cause error
}

func (e *ErrFeedFetch) Error() string {
	return fmt.Sprintf("failed to fetch feed %s: %v", e.URL, e.Cause)
}

func (e *ErrFeedFetch) Unwrap() error {
	return e.Cause
}

func (e *ErrFeedFetch) Is(target error) bool {
	_, ok := target.(*ErrFeedFetch)
	return ok
}

// ErrBadCredentials maps the issue tracker's 401 response.
type ErrBadCredentials struct{}

func (e *ErrBadCredentials) Error() string {
	return "authentication failed: check your GitHub token"
}

func (e *ErrBadCredentials) Is(target error) bool {
	_, ok := target.(*ErrBadCredentials)
	return ok
}

// ErrRateLimited maps the issue tracker's 403 response.
type ErrRateLimited struct{}

func (e *ErrRateLimited) Error() string {
	return "rate limit exceeded: try again later"
}

func (e *ErrRateLimited) Is(target error) bool {
	_, ok := target.(*ErrRateLimited)
	return ok
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP error: %d", e.StatusCode)
	}

	return fmt.Sprintf("HTTP error: %d: %s", e.StatusCode, e.Body)
}
