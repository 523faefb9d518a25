package directory

import "errors"

// ErrTenantNotFound is returned when an update or delete targets a
// tenant with no node in the store.
var ErrTenantNotFound = errors.New("tenant not found")

// ErrDuplicateTenant is returned when a create targets a path that is
// already occupied.
var ErrDuplicateTenant = errors.New("tenant already exists")

// ErrInvalidRequest is returned when a create or update request fails
// validation before any store call is made.
var ErrInvalidRequest = errors.New("invalid tenant request")

// ErrDecodeFailure is returned when a stored tenant record cannot be
// parsed. It surfaces through get and list rather than being skipped.
var ErrDecodeFailure = errors.New("tenant record decode failed")
