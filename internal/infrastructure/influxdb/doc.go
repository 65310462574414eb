// Package influxdb provides InfluxDB connectivity for WasteWatch Core.
//
// It wraps the official influxdb-client-go v2 library with WasteWatch-specific
// patterns for connection management, reading mirroring, and health monitoring.
//
// # Purpose
//
// This package is the optional time-series mirror for bin telemetry.
// SQLite remains the system of record; InfluxDB exists for dashboards
// and long-range trend queries over fleet readings.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "wastewatch",
//	    Bucket:  "readings",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Mirror a stored reading
//	client.MirrorReading(r)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// This reduces network overhead for high-frequency telemetry data.
package influxdb
