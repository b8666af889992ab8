package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrServerOffline indicates the backend is unreachable
	ErrServerOffline = errors.New("backend is unreachable")

	// ErrUnauthorized indicates the session token was rejected
	ErrUnauthorized = errors.New("session is not authorized")

	// ErrForbidden indicates the current role may not perform the request
	ErrForbidden = errors.New("permission denied")

	// ErrValidation indicates the backend rejected the request payload
	ErrValidation = errors.New("request failed validation")

	// ErrMutationInFlight indicates a mutation on the same key has not finished
	ErrMutationInFlight = errors.New("action already in progress")

	// ErrRoleNotPermitted indicates a client-side role guard refused the action
	ErrRoleNotPermitted = errors.New("role not permitted")

	// ErrCompressionFailed indicates media could not be processed before upload
	ErrCompressionFailed = errors.New("media compression failed")

	// ErrNotLoggedIn indicates no session token is held
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrEmptyComment indicates a blank comment was submitted
	ErrEmptyComment = errors.New("comment cannot be empty")
)

// RoleError explains which roles an action requires. It matches
// ErrRoleNotPermitted with errors.Is.
type RoleError struct {
	Action string
	Reason string
}

func (e *RoleError) Error() string {
	return e.Reason
}

// Is reports whether target is ErrRoleNotPermitted
func (e *RoleError) Is(target error) bool {
	return target == ErrRoleNotPermitted
}
