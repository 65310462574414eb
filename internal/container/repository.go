package container

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository defines the interface for container read operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a container by its identifier.
	// Returns ErrContainerNotFound if the container does not exist.
	GetByID(ctx context.Context, id int64) (*Container, error)

	// GetByCode retrieves a container by its unique code.
	// Returns ErrContainerNotFound if the container does not exist.
	GetByCode(ctx context.Context, code string) (*Container, error)

	// List retrieves all containers ordered by code.
	List(ctx context.Context) ([]Container, error)
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

const containerColumns = "id, code, location, capacity_liters, bin_type, status, created_at"

// GetByID retrieves a container by its identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Container, error) {
	query := "SELECT " + containerColumns + " FROM containers WHERE id = ?"

	c, err := scanContainer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContainerNotFound
		}
		return nil, fmt.Errorf("querying container by id: %w", err)
	}
	return c, nil
}

// GetByCode retrieves a container by its unique code.
func (r *SQLiteRepository) GetByCode(ctx context.Context, code string) (*Container, error) {
	query := "SELECT " + containerColumns + " FROM containers WHERE code = ?"

	c, err := scanContainer(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContainerNotFound
		}
		return nil, fmt.Errorf("querying container by code: %w", err)
	}
	return c, nil
}

// List retrieves all containers ordered by code.
func (r *SQLiteRepository) List(ctx context.Context) ([]Container, error) {
	query := "SELECT " + containerColumns + " FROM containers ORDER BY code"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying containers: %w", err)
	}
	defer rows.Close()

	var containers []Container
	for rows.Next() {
		c, err := scanContainer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning container: %w", err)
		}
		containers = append(containers, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating containers: %w", err)
	}
	return containers, nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanContainer scans a row or rows result into a Container.
func scanContainer(scanner rowScanner) (*Container, error) {
	var c Container
	var status, createdAt string

	err := scanner.Scan(
		&c.ID,
		&c.Code,
		&c.Location,
		&c.CapacityLiters,
		&c.BinType,
		&status,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	c.Status = Status(status)
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &c, nil
}
