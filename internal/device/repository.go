package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for device persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a device by its unique identifier.
	// Returns ErrDeviceNotFound if the device does not exist.
	GetByID(ctx context.Context, id string) (*Device, error)

	// GetByHardwareAddress retrieves a device by its normalized hardware address.
	// Returns ErrDeviceNotFound if no device owns the address.
	GetByHardwareAddress(ctx context.Context, hardwareAddress string) (*Device, error)

	// GetByCode retrieves a device by its unique code.
	// Returns ErrDeviceNotFound if the device does not exist.
	GetByCode(ctx context.Context, code string) (*Device, error)

	// List retrieves all devices ordered by code.
	List(ctx context.Context) ([]Device, error)

	// Create inserts a new device.
	// Returns ErrDeviceExists if the ID, code, or hardware address conflicts
	// with an existing row.
	Create(ctx context.Context, device *Device) error

	// Update modifies an existing device. All mutable fields are written
	// in a single statement.
	// Returns ErrDeviceNotFound if the device does not exist and
	// ErrHardwareAddressTaken if the new address conflicts with another row.
	Update(ctx context.Context, device *Device) error

	// ClearHardwareAddress sets a device's hardware address to NULL,
	// preserving the row and its reading history.
	// Returns ErrDeviceNotFound if the device does not exist.
	ClearHardwareAddress(ctx context.Context, id string) error

	// Delete removes a device row entirely.
	// Returns ErrDeviceNotFound if the device does not exist.
	Delete(ctx context.Context, id string) error

	// CodeExists reports whether a device code is already taken.
	CodeExists(ctx context.Context, code string) (bool, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const deviceColumns = `id, code, hardware_address, container_id, calibration_offset,
		status, name, manufacturer, created_at, updated_at`

// GetByID retrieves a device by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE id = ?"

	d, err := scanDevice(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return d, nil
}

// GetByHardwareAddress retrieves a device by its normalized hardware address.
func (r *SQLiteRepository) GetByHardwareAddress(ctx context.Context, hardwareAddress string) (*Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE hardware_address = ?"

	d, err := scanDevice(r.db.QueryRowContext(ctx, query, hardwareAddress))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by hardware address: %w", err)
	}
	return d, nil
}

// GetByCode retrieves a device by its unique code.
func (r *SQLiteRepository) GetByCode(ctx context.Context, code string) (*Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE code = ?"

	d, err := scanDevice(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by code: %w", err)
	}
	return d, nil
}

// List retrieves all devices ordered by code.
func (r *SQLiteRepository) List(ctx context.Context) ([]Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices ORDER BY code"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}

// Create inserts a new device.
func (r *SQLiteRepository) Create(ctx context.Context, device *Device) error {
	now := time.Now().UTC()
	if device.CreatedAt.IsZero() {
		device.CreatedAt = now
	}
	device.UpdatedAt = now

	query := `
		INSERT INTO devices (
			id, code, hardware_address, container_id, calibration_offset,
			status, name, manufacturer, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		device.ID,
		device.Code,
		nullableString(device.HardwareAddress),
		device.ContainerID,
		device.CalibrationOffset,
		string(device.Status),
		device.Name,
		device.Manufacturer,
		device.CreatedAt.Format(time.RFC3339),
		device.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDeviceExists
		}
		return fmt.Errorf("inserting device: %w", err)
	}

	return nil
}

// Update modifies an existing device.
func (r *SQLiteRepository) Update(ctx context.Context, device *Device) error {
	device.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE devices SET
			code = ?, hardware_address = ?, container_id = ?,
			calibration_offset = ?, status = ?, name = ?,
			manufacturer = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		device.Code,
		nullableString(device.HardwareAddress),
		device.ContainerID,
		device.CalibrationOffset,
		string(device.Status),
		device.Name,
		device.Manufacturer,
		device.UpdatedAt.Format(time.RFC3339),
		device.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrHardwareAddressTaken
		}
		return fmt.Errorf("updating device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// ClearHardwareAddress sets a device's hardware address to NULL.
func (r *SQLiteRepository) ClearHardwareAddress(ctx context.Context, id string) error {
	query := `
		UPDATE devices
		SET hardware_address = NULL, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("clearing hardware address: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// Delete removes a device row by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// CodeExists reports whether a device code is already taken.
func (r *SQLiteRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM devices WHERE code = ?", code).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking code exists: %w", err)
	}
	return count > 0, nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDevice scans a row or rows result into a Device.
func scanDevice(scanner rowScanner) (*Device, error) {
	var d Device
	var hardwareAddress sql.NullString
	var status, createdAt, updatedAt string

	err := scanner.Scan(
		&d.ID,
		&d.Code,
		&hardwareAddress,
		&d.ContainerID,
		&d.CalibrationOffset,
		&status,
		&d.Name,
		&d.Manufacturer,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Status = Status(status)
	if hardwareAddress.Valid {
		d.HardwareAddress = &hardwareAddress.String
	}

	var parseErr error
	d.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	d.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &d, nil
}

// nullableString returns a sql.NullString for optional string pointers.
func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
