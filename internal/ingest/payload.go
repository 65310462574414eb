package ingest

import (
	"encoding/json"
	"fmt"
	"time"
)

// Payload is the JSON body published by field devices on
// waste/bins/<container-code>/sensors. Every field is optional; devices
// report only the sensors they carry.
type Payload struct {
	// HardwareAddress is the device's physical identifier ("mac" on the
	// wire for compatibility with deployed firmware).
	HardwareAddress string `json:"mac"`

	// SensorCode is the device's human-readable code, a softer identity
	// used by devices without hardware-address binding.
	SensorCode string `json:"sensor_code"`

	// BinID is the container the payload asserts it belongs to. A
	// registered hardware address overrides it.
	BinID *int64 `json:"bin_id"`

	FillPct      *float64 `json:"fill_level"`
	DistanceCm   *float64 `json:"distance_cm"`
	WeightKg     *float64 `json:"weight_kg"`
	TemperatureC *float64 `json:"temperature_c"`
	HumidityPct  *float64 `json:"humidity"`
	GasLevel     *float64 `json:"gas_level"`
	BatteryPct   *float64 `json:"battery_level"`
	SignalDbm    *int64   `json:"signal_strength"`

	// Timestamp is ISO-8601. Absent or unparseable timestamps fall back
	// to the time of processing.
	Timestamp string `json:"timestamp"`
}

// ParsePayload decodes a message body.
// Returns ErrMalformedPayload (wrapped with detail) on any decode failure.
func ParsePayload(body []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &p, nil
}

// RecordedAt parses the payload timestamp. The second return is false
// when a timestamp was sent but could not be parsed, so callers can
// surface the bad value. A zero time yields the processing-time default
// in the reading store either way.
func (p *Payload) RecordedAt() (time.Time, bool) {
	if p.Timestamp == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, p.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
