package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists is returned when an insert conflicts with an existing
	// device (duplicate ID, code, or hardware address).
	ErrDeviceExists = errors.New("device: already exists")

	// ErrInvalidHardwareAddress is returned when a hardware address does not
	// match the canonical six-octet colon-separated format.
	ErrInvalidHardwareAddress = errors.New("device: invalid hardware address")

	// ErrHardwareAddressTaken is returned when a hardware address is already
	// bound to a different device.
	ErrHardwareAddressTaken = errors.New("device: hardware address already registered")

	// ErrContainerNotFound is returned when a referenced container does not exist.
	ErrContainerNotFound = errors.New("device: container not found")

	// ErrContainerInactive is returned when the referenced container exists
	// but is not active.
	ErrContainerInactive = errors.New("device: container inactive")
)
