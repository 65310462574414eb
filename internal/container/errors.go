package container

import "errors"

// Domain errors for the container package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, container.ErrContainerNotFound) {
//	    // handle not found case
//	}
var (
	// ErrContainerNotFound is returned when a container ID does not exist.
	ErrContainerNotFound = errors.New("container: not found")

	// ErrContainerInactive is returned when an operation requires an active container.
	ErrContainerInactive = errors.New("container: inactive")
)
