package reading

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines the interface for reading persistence.
type Repository interface {
	// Insert stores a reading as one atomic unit. A zero RecordedAt is
	// replaced with the current time, carrying the local zone offset.
	// On failure nothing is stored and the error is scoped to this reading.
	Insert(ctx context.Context, r *Reading) error

	// CountByDevice returns how many readings a device has produced.
	CountByDevice(ctx context.Context, deviceID string) (int64, error)

	// ListRecentByContainer returns the most recent readings for a
	// container, newest first.
	ListRecentByContainer(ctx context.Context, containerID int64, limit int) ([]Reading, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert stores a reading as one atomic unit.
func (r *SQLiteRepository) Insert(ctx context.Context, reading *Reading) error {
	if reading.RecordedAt.IsZero() {
		reading.RecordedAt = time.Now()
	}

	query := `
		INSERT INTO readings (
			device_id, container_id, fill_pct, distance_cm, weight_kg,
			temperature_c, humidity_pct, gas_level, battery_pct,
			signal_dbm, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		reading.DeviceID,
		reading.ContainerID,
		nullableFloat(reading.FillPct),
		nullableFloat(reading.DistanceCm),
		nullableFloat(reading.WeightKg),
		nullableFloat(reading.TemperatureC),
		nullableFloat(reading.HumidityPct),
		nullableFloat(reading.GasLevel),
		nullableFloat(reading.BatteryPct),
		nullableInt(reading.SignalDbm),
		reading.RecordedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}

	reading.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading insert id: %w", err)
	}
	return nil
}

// CountByDevice returns how many readings a device has produced.
func (r *SQLiteRepository) CountByDevice(ctx context.Context, deviceID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM readings WHERE device_id = ?", deviceID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting readings: %w", err)
	}
	return count, nil
}

const readingColumns = `id, device_id, container_id, fill_pct, distance_cm, weight_kg,
		temperature_c, humidity_pct, gas_level, battery_pct, signal_dbm, recorded_at`

// ListRecentByContainer returns the most recent readings for a container.
func (r *SQLiteRepository) ListRecentByContainer(ctx context.Context, containerID int64, limit int) ([]Reading, error) {
	query := "SELECT " + readingColumns + `
		FROM readings
		WHERE container_id = ?
		ORDER BY recorded_at DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, containerID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}
		readings = append(readings, *reading)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating readings: %w", err)
	}
	return readings, nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanReading scans a row or rows result into a Reading.
func scanReading(scanner rowScanner) (*Reading, error) {
	var reading Reading
	var fill, distance, weight, temperature, humidity, gas, battery sql.NullFloat64
	var signal sql.NullInt64
	var recordedAt string

	err := scanner.Scan(
		&reading.ID,
		&reading.DeviceID,
		&reading.ContainerID,
		&fill,
		&distance,
		&weight,
		&temperature,
		&humidity,
		&gas,
		&battery,
		&signal,
		&recordedAt,
	)
	if err != nil {
		return nil, err
	}

	reading.FillPct = floatPtr(fill)
	reading.DistanceCm = floatPtr(distance)
	reading.WeightKg = floatPtr(weight)
	reading.TemperatureC = floatPtr(temperature)
	reading.HumidityPct = floatPtr(humidity)
	reading.GasLevel = floatPtr(gas)
	reading.BatteryPct = floatPtr(battery)
	if signal.Valid {
		reading.SignalDbm = &signal.Int64
	}

	reading.RecordedAt, err = time.Parse(time.RFC3339, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing recorded_at: %w", err)
	}
	return &reading, nil
}

// nullableFloat returns a sql.NullFloat64 for optional float pointers.
func nullableFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// nullableInt returns a sql.NullInt64 for optional int pointers.
func nullableInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// floatPtr converts a sql.NullFloat64 back to an optional pointer.
func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}
