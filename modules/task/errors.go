package task

import "errors"

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrNameRequired is returned when a task is created without a name.
	ErrNameRequired = errors.New("task name is required")
	// ErrUserRequired is returned when a task is created without an owner.
	ErrUserRequired = errors.New("user ID is required")
	// ErrInvalidPriority is returned for an unknown priority value.
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrInvalidStatus is returned for an unknown status value.
	ErrInvalidStatus = errors.New("invalid status")
)
