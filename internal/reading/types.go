package reading

import "time"

// Reading is one stored telemetry sample. Measurement fields are
// pointers because field devices report only the sensors they carry;
// absent values are stored as NULL, never as zero.
type Reading struct {
	ID          int64  `json:"id"`
	DeviceID    string `json:"device_id"`
	ContainerID int64  `json:"container_id"`

	FillPct      *float64 `json:"fill_pct,omitempty"`
	DistanceCm   *float64 `json:"distance_cm,omitempty"`
	WeightKg     *float64 `json:"weight_kg,omitempty"`
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	HumidityPct  *float64 `json:"humidity_pct,omitempty"`
	GasLevel     *float64 `json:"gas_level,omitempty"`
	BatteryPct   *float64 `json:"battery_pct,omitempty"`
	SignalDbm    *int64   `json:"signal_dbm,omitempty"`

	// RecordedAt carries an explicit timezone offset so downstream
	// consumers do not assume UTC. When the payload omits a timestamp,
	// Insert fills in the time of processing.
	RecordedAt time.Time `json:"recorded_at"`
}
