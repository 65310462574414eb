package api

import (
	"net/http"
	"testing"
)

func TestListBins(t *testing.T) {
	env := setupServer(t, nil)
	env.seedContainer(t, 7, "BIN007", "active")
	env.seedContainer(t, 8, "BIN008", "inactive")

	// Two readings for BIN007; the newer one should be surfaced.
	if _, err := env.db.Exec(
		`INSERT INTO readings (device_id, container_id, fill_pct, recorded_at) VALUES
			('dev-1', 7, 40, '2026-02-01T10:00:00Z'),
			('dev-1', 7, 55, '2026-02-01T11:00:00Z')`,
	); err != nil {
		t.Fatalf("seeding readings: %v", err)
	}

	rec, resp := env.doRequest(t, http.MethodGet, "/api/v1/bins", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["count"] != float64(2) {
		t.Fatalf("count = %v, want 2", resp["count"])
	}

	bins := resp["bins"].([]any)

	first := bins[0].(map[string]any)
	if first["code"] != "BIN007" {
		t.Errorf("bins[0].code = %v, want BIN007", first["code"])
	}
	latest, ok := first["latest_reading"].(map[string]any)
	if !ok {
		t.Fatalf("bins[0].latest_reading missing: %v", first)
	}
	if latest["fill_pct"] != float64(55) {
		t.Errorf("latest fill_pct = %v, want 55 (newest reading)", latest["fill_pct"])
	}

	second := bins[1].(map[string]any)
	if second["code"] != "BIN008" {
		t.Errorf("bins[1].code = %v, want BIN008", second["code"])
	}
	if _, present := second["latest_reading"]; present {
		t.Error("bins[1] should have no latest_reading")
	}
}

func TestListBins_Empty(t *testing.T) {
	env := setupServer(t, nil)

	rec, resp := env.doRequest(t, http.MethodGet, "/api/v1/bins", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["count"] != float64(0) {
		t.Errorf("count = %v, want 0", resp["count"])
	}
}
