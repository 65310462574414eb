package reading

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the readings table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE readings (
			id INTEGER PRIMARY KEY,
			device_id TEXT NOT NULL,
			container_id INTEGER NOT NULL,
			fill_pct REAL,
			distance_cm REAL,
			weight_kg REAL,
			temperature_c REAL,
			humidity_pct REAL,
			gas_level REAL,
			battery_pct REAL,
			signal_dbm INTEGER,
			recorded_at TEXT NOT NULL
		) STRICT;
		CREATE INDEX idx_readings_container_time ON readings(container_id, recorded_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func f(v float64) *float64 { return &v }

func TestSQLiteRepository_Insert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	recorded := time.Date(2026, 3, 14, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	r := &Reading{
		DeviceID:     "dev-1",
		ContainerID:  7,
		FillPct:      f(91.5),
		WeightKg:     f(11.7),
		TemperatureC: f(21.0),
		RecordedAt:   recorded,
	}

	if err := repo.Insert(ctx, r); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if r.ID == 0 {
		t.Error("Insert() did not set ID")
	}

	got, err := repo.ListRecentByContainer(ctx, 7, 10)
	if err != nil {
		t.Fatalf("ListRecentByContainer() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d readings, want 1", len(got))
	}

	stored := got[0]
	if stored.FillPct == nil || *stored.FillPct != 91.5 {
		t.Errorf("FillPct = %v, want 91.5", stored.FillPct)
	}
	if stored.WeightKg == nil || *stored.WeightKg != 11.7 {
		t.Errorf("WeightKg = %v, want 11.7", stored.WeightKg)
	}
	// Absent fields stay absent, not zero
	if stored.HumidityPct != nil || stored.GasLevel != nil || stored.SignalDbm != nil {
		t.Errorf("absent fields should be nil: %+v", stored)
	}
	if !stored.RecordedAt.Equal(recorded) {
		t.Errorf("RecordedAt = %v, want %v", stored.RecordedAt, recorded)
	}
	// The stored timestamp keeps its original zone offset
	_, offset := stored.RecordedAt.Zone()
	if offset != 3600 {
		t.Errorf("zone offset = %d, want 3600", offset)
	}
}

func TestSQLiteRepository_Insert_DefaultsTimestamp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	r := &Reading{DeviceID: "dev-1", ContainerID: 7}

	if err := repo.Insert(ctx, r); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if r.RecordedAt.IsZero() {
		t.Fatal("RecordedAt not defaulted")
	}
	if r.RecordedAt.Before(before) || r.RecordedAt.After(time.Now().Add(time.Second)) {
		t.Errorf("RecordedAt = %v, outside processing window", r.RecordedAt)
	}
}

func TestSQLiteRepository_Insert_FailureStoresNothing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	// device_id is NOT NULL; an invalid reading must not leave a partial row
	bad := &Reading{ContainerID: 7, FillPct: f(50)}
	bad.DeviceID = "" // STRICT table accepts empty string, so force failure differently

	// Close the handle to force a persistence failure
	db.Close()

	if err := repo.Insert(ctx, bad); err == nil {
		t.Fatal("Insert() expected error on closed database")
	}
}

func TestSQLiteRepository_CountByDevice(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Insert(ctx, &Reading{DeviceID: "dev-1", ContainerID: 7}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	if err := repo.Insert(ctx, &Reading{DeviceID: "dev-2", ContainerID: 7}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	count, err := repo.CountByDevice(ctx, "dev-1")
	if err != nil {
		t.Fatalf("CountByDevice() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountByDevice(dev-1) = %d, want 3", count)
	}

	count, err = repo.CountByDevice(ctx, "ghost")
	if err != nil {
		t.Fatalf("CountByDevice() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountByDevice(ghost) = %d, want 0", count)
	}
}

func TestSQLiteRepository_ListRecentByContainer_Order(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		r := &Reading{
			DeviceID:    "dev-1",
			ContainerID: 7,
			FillPct:     f(float64(i * 10)),
			RecordedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Insert(ctx, r); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := repo.ListRecentByContainer(ctx, 7, 3)
	if err != nil {
		t.Fatalf("ListRecentByContainer() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d readings, want 3", len(got))
	}
	if *got[0].FillPct != 40 {
		t.Errorf("newest first: FillPct = %v, want 40", *got[0].FillPct)
	}
	if !got[0].RecordedAt.After(got[1].RecordedAt) {
		t.Error("readings not ordered newest first")
	}
}
