package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/wastewatch/wastewatch-core/internal/reading"
)

// readingMeasurement is the measurement name for mirrored bin readings.
const readingMeasurement = "bin_readings"

// MirrorReading mirrors a stored bin reading to InfluxDB.
//
// The write is non-blocking; points are batched and sent asynchronously.
// SQLite remains the system of record: mirror failures are reported via
// the error callback and never affect ingestion.
//
// Only fields present in the reading are written, so sparse payloads
// produce sparse points rather than zero-filled ones.
func (c *Client) MirrorReading(r *reading.Reading) {
	if !c.IsConnected() {
		return
	}

	fields := make(map[string]interface{}, 8)
	addFloat(fields, "fill_pct", r.FillPct)
	addFloat(fields, "distance_cm", r.DistanceCm)
	addFloat(fields, "weight_kg", r.WeightKg)
	addFloat(fields, "temperature_c", r.TemperatureC)
	addFloat(fields, "humidity_pct", r.HumidityPct)
	addFloat(fields, "gas_level", r.GasLevel)
	addFloat(fields, "battery_pct", r.BatteryPct)
	if r.SignalDbm != nil {
		fields["signal_dbm"] = *r.SignalDbm
	}
	if len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		readingMeasurement,
		map[string]string{
			"device_id":    r.DeviceID,
			"container_id": strconv.FormatInt(r.ContainerID, 10),
		},
		fields,
		r.RecordedAt,
	)

	c.writeAPI.WritePoint(point)
}

// addFloat adds a field only when the source value is present.
func addFloat(fields map[string]interface{}, name string, v *float64) {
	if v != nil {
		fields[name] = *v
	}
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the reading mirror, such as
// per-process operational stats.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("ingest_stats",
//	    map[string]string{"host": "core-01"},
//	    map[string]interface{}{"consumed": 1042, "dropped": 3})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
