package device

import "time"

// Status is the lifecycle status of a device.
type Status string

// Device lifecycle statuses.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Device represents a physical sensor unit mounted on a container.
type Device struct {
	ID string `json:"id"`

	// Code is the human-readable unique identifier, generated from the
	// display name at registration time.
	Code string `json:"code"`

	// HardwareAddress is the normalized six-octet physical identifier.
	// Nil once a device with reading history has been deregistered.
	HardwareAddress *string `json:"hardware_address,omitempty"`

	ContainerID int64 `json:"container_id"`

	// CalibrationOffset is the fixed additive correction applied to the
	// device's raw weight measurements.
	CalibrationOffset float64 `json:"calibration_offset"`

	Status       Status    `json:"status"`
	Name         string    `json:"name"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Registration is the outcome of a hardware-address lookup.
// An unknown address yields Registered == false with zero-valued fields;
// it is a normal result, not an error.
type Registration struct {
	Registered        bool    `json:"registered"`
	DeviceID          string  `json:"device_id,omitempty"`
	DeviceCode        string  `json:"device_code,omitempty"`
	ContainerID       int64   `json:"container_id,omitempty"`
	ContainerCode     string  `json:"container_code,omitempty"`
	Location          string  `json:"location,omitempty"`
	CalibrationOffset float64 `json:"calibration_offset,omitempty"`
}

// RegisterRequest is one entry in a batch registration call.
type RegisterRequest struct {
	HardwareAddress   string  `json:"hardware_address"`
	Name              string  `json:"name"`
	ContainerID       int64   `json:"container_id"`
	CalibrationOffset float64 `json:"calibration_offset"`
}

// RegisterAction describes what a successful registration entry did.
type RegisterAction string

// Registration actions.
const (
	ActionCreated RegisterAction = "created"
	ActionUpdated RegisterAction = "updated"
)

// RegisterResult is the per-entry outcome of a batch registration.
// Exactly one of Action or Err is meaningful: Err != nil means the entry
// was rejected and the other entries were unaffected.
type RegisterResult struct {
	HardwareAddress string
	Action          RegisterAction
	DeviceID        string
	DeviceCode      string
	Err             error
}

// UpdateRequest carries the replacement field values for an update.
// All fields are applied atomically.
type UpdateRequest struct {
	HardwareAddress   string  `json:"hardware_address"`
	Name              string  `json:"name"`
	ContainerID       int64   `json:"container_id"`
	CalibrationOffset float64 `json:"calibration_offset"`
}

// DeregisterOutcome describes how a deregistration was applied.
type DeregisterOutcome string

// Deregistration outcomes.
const (
	// DeregisterCleared means the device had reading history, so only its
	// hardware address was cleared and the row was preserved.
	DeregisterCleared DeregisterOutcome = "hardware_address_cleared"

	// DeregisterRemoved means the device had no readings and its row was
	// deleted entirely.
	DeregisterRemoved DeregisterOutcome = "removed"
)
