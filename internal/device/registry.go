package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/wastewatch/wastewatch-core/internal/container"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ContainerDirectory provides the container reads the registry needs.
// Satisfied by container.Repository.
type ContainerDirectory interface {
	GetByID(ctx context.Context, id int64) (*container.Container, error)
}

// ReadingCounter reports how many readings a device has produced.
// Satisfied by reading.Repository. Deregistration uses the count to
// decide between clearing the hardware address and removing the row.
type ReadingCounter interface {
	CountByDevice(ctx context.Context, deviceID string) (int64, error)
}

// Registry provides device provisioning operations: lookup, batch
// registration, update, and deregistration.
//
// Registry methods query the repository directly on every call. The
// ingestion path resolves identity the same way, so there is no cache
// to fall out of sync with concurrent provisioning.
type Registry struct {
	repo       Repository
	containers ContainerDirectory
	readings   ReadingCounter
	logger     Logger
}

// NewRegistry creates a new device registry.
func NewRegistry(repo Repository, containers ContainerDirectory, readings ReadingCounter) *Registry {
	return &Registry{
		repo:       repo,
		containers: containers,
		readings:   readings,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Lookup resolves a hardware address to its registration, for devices
// self-configuring at boot.
//
// An unknown address is a normal outcome: the returned Registration has
// Registered == false and the error is nil. Only persistence failures
// produce an error.
func (r *Registry) Lookup(ctx context.Context, hardwareAddress string) (*Registration, error) {
	normalized := NormalizeHardwareAddress(hardwareAddress)

	d, err := r.repo.GetByHardwareAddress(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			return &Registration{Registered: false}, nil
		}
		return nil, err
	}

	reg := &Registration{
		Registered:        true,
		DeviceID:          d.ID,
		DeviceCode:        d.Code,
		ContainerID:       d.ContainerID,
		CalibrationOffset: d.CalibrationOffset,
	}

	c, err := r.containers.GetByID(ctx, d.ContainerID)
	if err != nil {
		return nil, fmt.Errorf("loading container for registration: %w", err)
	}
	reg.ContainerCode = c.Code
	reg.Location = c.Location

	return reg, nil
}

// Register processes a batch of registration requests. Each entry is
// handled independently: a malformed or unregisterable entry is rejected
// with a per-entry error and does not abort the rest of the batch.
//
// An entry whose hardware address is already registered updates the
// existing device's container, name, and calibration offset in place
// (Action == ActionUpdated). Otherwise a new device is created with a
// generated unique code (Action == ActionCreated).
func (r *Registry) Register(ctx context.Context, requests []RegisterRequest) []RegisterResult {
	results := make([]RegisterResult, 0, len(requests))
	for _, req := range requests {
		results = append(results, r.registerOne(ctx, req))
	}
	return results
}

// registerOne handles a single batch entry.
func (r *Registry) registerOne(ctx context.Context, req RegisterRequest) RegisterResult {
	result := RegisterResult{HardwareAddress: req.HardwareAddress}

	if err := ValidateHardwareAddress(req.HardwareAddress); err != nil {
		result.Err = err
		return result
	}
	normalized := NormalizeHardwareAddress(req.HardwareAddress)
	result.HardwareAddress = normalized

	if err := r.checkContainer(ctx, req.ContainerID); err != nil {
		result.Err = err
		return result
	}

	// Existing hardware address: update in place rather than duplicating.
	existing, err := r.repo.GetByHardwareAddress(ctx, normalized)
	switch {
	case err == nil:
		existing.ContainerID = req.ContainerID
		existing.Name = req.Name
		existing.CalibrationOffset = req.CalibrationOffset
		if err := r.repo.Update(ctx, existing); err != nil {
			result.Err = err
			return result
		}
		result.Action = ActionUpdated
		result.DeviceID = existing.ID
		result.DeviceCode = existing.Code
		r.logger.Info("device re-registered",
			"device_id", existing.ID,
			"hardware_address", normalized,
			"container_id", req.ContainerID)
		return result

	case !errors.Is(err, ErrDeviceNotFound):
		result.Err = err
		return result
	}

	// New device: generate a unique code and insert.
	code, err := GenerateCode(req.Name, normalized, func(candidate string) (bool, error) {
		return r.repo.CodeExists(ctx, candidate)
	})
	if err != nil {
		result.Err = err
		return result
	}

	d := &Device{
		ID:                GenerateID(),
		Code:              code,
		HardwareAddress:   &normalized,
		ContainerID:       req.ContainerID,
		CalibrationOffset: req.CalibrationOffset,
		Status:            StatusActive,
		Name:              req.Name,
	}

	if err := r.repo.Create(ctx, d); err != nil {
		// A concurrent registration of the same address or code lands
		// here as a storage-level conflict.
		result.Err = err
		return result
	}

	result.Action = ActionCreated
	result.DeviceID = d.ID
	result.DeviceCode = d.Code
	r.logger.Info("device registered",
		"device_id", d.ID,
		"device_code", d.Code,
		"hardware_address", normalized,
		"container_id", req.ContainerID)
	return result
}

// Update applies new hardware address, container, name, and calibration
// offset to an existing device. All fields are written atomically.
//
// Returns ErrDeviceNotFound if the device does not exist,
// ErrInvalidHardwareAddress for malformed input, and
// ErrHardwareAddressTaken when the address is owned by a different device.
func (r *Registry) Update(ctx context.Context, id string, req UpdateRequest) (*Device, error) {
	if err := ValidateHardwareAddress(req.HardwareAddress); err != nil {
		return nil, err
	}
	normalized := NormalizeHardwareAddress(req.HardwareAddress)

	d, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.checkContainer(ctx, req.ContainerID); err != nil {
		return nil, err
	}

	// The address must not belong to a different device. The unique index
	// backs this check up against concurrent updates.
	owner, err := r.repo.GetByHardwareAddress(ctx, normalized)
	if err == nil && owner.ID != id {
		return nil, ErrHardwareAddressTaken
	}
	if err != nil && !errors.Is(err, ErrDeviceNotFound) {
		return nil, err
	}

	d.HardwareAddress = &normalized
	d.ContainerID = req.ContainerID
	d.Name = req.Name
	d.CalibrationOffset = req.CalibrationOffset

	if err := r.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	r.logger.Info("device updated",
		"device_id", d.ID,
		"hardware_address", normalized,
		"container_id", req.ContainerID)
	return d, nil
}

// Deregister removes a device from service.
//
// A device with stored readings keeps its row (and the audit trail the
// readings reference); only its hardware address is cleared, leaving the
// device unassigned. A device with no readings is removed entirely.
func (r *Registry) Deregister(ctx context.Context, id string) (DeregisterOutcome, error) {
	d, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	count, err := r.readings.CountByDevice(ctx, id)
	if err != nil {
		return "", fmt.Errorf("counting readings: %w", err)
	}

	if count > 0 {
		if err := r.repo.ClearHardwareAddress(ctx, id); err != nil {
			return "", err
		}
		r.logger.Info("device deregistered, row preserved",
			"device_id", id,
			"device_code", d.Code,
			"readings", count)
		return DeregisterCleared, nil
	}

	if err := r.repo.Delete(ctx, id); err != nil {
		return "", err
	}
	r.logger.Info("device deregistered, row removed",
		"device_id", id,
		"device_code", d.Code)
	return DeregisterRemoved, nil
}

// checkContainer verifies the target container exists and is active.
func (r *Registry) checkContainer(ctx context.Context, containerID int64) error {
	c, err := r.containers.GetByID(ctx, containerID)
	if err != nil {
		if errors.Is(err, container.ErrContainerNotFound) {
			return fmt.Errorf("%w: id %d", ErrContainerNotFound, containerID)
		}
		return err
	}
	if !c.IsActive() {
		return fmt.Errorf("%w: id %d", ErrContainerInactive, containerID)
	}
	return nil
}
