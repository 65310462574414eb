package alert

import "errors"

// Domain errors for the alert package.
var (
	// ErrAlertOpen is returned by Repository.Insert when the container
	// already has an open alert of the same kind. The engine treats it
	// as a successful dedup, not a failure.
	ErrAlertOpen = errors.New("alert: already open for container and kind")
)
