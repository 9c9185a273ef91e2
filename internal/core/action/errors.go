package action

import "errors"

var (
	// ErrUnsupported is returned for an unknown action kind, verb, package
	// manager, database action or step type.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrNotFound is returned when a stop, close or unwatch names a resource
	// that is not in the registry.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalid is returned when an action is missing a required field.
	ErrInvalid = errors.New("invalid action")
)
