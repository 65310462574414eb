package alert

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for alert persistence.
type Repository interface {
	// HasOpen reports whether the container has an open alert of the
	// given kind.
	HasOpen(ctx context.Context, containerID int64, kind Kind) (bool, error)

	// Insert stores a new open alert. Returns ErrAlertOpen when the
	// open-alert unique index rejects a duplicate (container, kind) pair.
	Insert(ctx context.Context, a *Alert) error

	// ListByStatus returns alerts with the given status, newest first.
	ListByStatus(ctx context.Context, status Status) ([]Alert, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// HasOpen reports whether the container has an open alert of the given kind.
func (r *SQLiteRepository) HasOpen(ctx context.Context, containerID int64, kind Kind) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM alerts WHERE container_id = ? AND kind = ? AND status = 'open'",
		containerID, string(kind),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking open alert: %w", err)
	}
	return count > 0, nil
}

// Insert stores a new open alert.
func (r *SQLiteRepository) Insert(ctx context.Context, a *Alert) error {
	if a.Status == "" {
		a.Status = StatusOpen
	}
	if a.TriggeredAt.IsZero() {
		a.TriggeredAt = time.Now()
	}

	query := `
		INSERT INTO alerts (container_id, kind, severity, message, status, triggered_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		a.ContainerID,
		string(a.Kind),
		string(a.Severity),
		a.Message,
		string(a.Status),
		a.TriggeredAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlertOpen
		}
		return fmt.Errorf("inserting alert: %w", err)
	}

	a.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading insert id: %w", err)
	}
	return nil
}

// ListByStatus returns alerts with the given status, newest first.
func (r *SQLiteRepository) ListByStatus(ctx context.Context, status Status) ([]Alert, error) {
	query := `
		SELECT id, container_id, kind, severity, message, status, triggered_at
		FROM alerts
		WHERE status = ?
		ORDER BY triggered_at DESC`

	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		var kind, severity, alertStatus, triggeredAt string

		err := rows.Scan(&a.ID, &a.ContainerID, &kind, &severity, &a.Message, &alertStatus, &triggeredAt)
		if err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}

		a.Kind = Kind(kind)
		a.Severity = Severity(severity)
		a.Status = Status(alertStatus)
		a.TriggeredAt, err = time.Parse(time.RFC3339, triggeredAt)
		if err != nil {
			return nil, fmt.Errorf("parsing triggered_at: %w", err)
		}

		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alerts: %w", err)
	}
	return alerts, nil
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
