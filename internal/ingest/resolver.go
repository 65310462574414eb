package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/wastewatch/wastewatch-core/internal/device"
)

// DeviceDirectory provides the registry lookups the resolver needs.
// Satisfied by device.Repository. The resolver queries it on every
// message; there is no in-process cache on the ingestion path.
type DeviceDirectory interface {
	GetByHardwareAddress(ctx context.Context, hardwareAddress string) (*device.Device, error)
	GetByCode(ctx context.Context, code string) (*device.Device, error)
}

// Resolution is the identity a reading is attributed to.
type Resolution struct {
	DeviceID          string
	ContainerID       int64
	CalibrationOffset float64
}

// Resolver determines which device and container an inbound payload
// belongs to.
type Resolver struct {
	devices DeviceDirectory
}

// NewResolver creates a new identity resolver.
func NewResolver(devices DeviceDirectory) *Resolver {
	return &Resolver{devices: devices}
}

// Resolve applies the registry precedence rules to a payload.
//
// A registered hardware address is the authoritative identity: its
// registration supplies both the container (discarding the payload's
// asserted bin_id entirely) and the calibration offset. A device-code
// match is a softer fallback that cannot independently verify the
// container, so the payload's asserted bin_id is trusted as-is.
//
// Returns ErrUnknownDevice when neither identity matches, and
// ErrMalformedPayload when a code-matched payload asserts no container.
func (r *Resolver) Resolve(ctx context.Context, p *Payload) (*Resolution, error) {
	if p.HardwareAddress != "" {
		normalized := device.NormalizeHardwareAddress(p.HardwareAddress)

		d, err := r.devices.GetByHardwareAddress(ctx, normalized)
		switch {
		case err == nil:
			return &Resolution{
				DeviceID:          d.ID,
				ContainerID:       d.ContainerID,
				CalibrationOffset: d.CalibrationOffset,
			}, nil
		case !errors.Is(err, device.ErrDeviceNotFound):
			return nil, fmt.Errorf("looking up hardware address: %w", err)
		}
		// Unregistered address: fall through to the device-code lookup.
	}

	if p.SensorCode != "" {
		d, err := r.devices.GetByCode(ctx, p.SensorCode)
		switch {
		case err == nil:
			if p.BinID == nil {
				return nil, fmt.Errorf("%w: code-matched payload missing bin_id", ErrMalformedPayload)
			}
			return &Resolution{
				DeviceID:          d.ID,
				ContainerID:       *p.BinID,
				CalibrationOffset: d.CalibrationOffset,
			}, nil
		case !errors.Is(err, device.ErrDeviceNotFound):
			return nil, fmt.Errorf("looking up device code: %w", err)
		}
	}

	return nil, fmt.Errorf("%w: mac=%q sensor_code=%q",
		ErrUnknownDevice, p.HardwareAddress, p.SensorCode)
}
