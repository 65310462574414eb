package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/wastewatch/wastewatch-core/internal/device"
)

func strPtr(s string) *string { return &s }

func TestLookupDevice(t *testing.T) {
	env := setupServer(t, nil)
	env.seedContainer(t, 7, "BIN007", "active")
	env.seedDevice(t, &device.Device{
		ID:                "dev-1",
		Code:              "NORTH-GATE",
		HardwareAddress:   strPtr("AA:BB:CC:DD:EE:01"),
		ContainerID:       7,
		CalibrationOffset: -0.3,
		Status:            device.StatusActive,
		Name:              "North Gate",
	})

	t.Run("registered", func(t *testing.T) {
		rec, body := env.doRequest(t, http.MethodGet, "/api/v1/devices/lookup?mac=aa:bb:cc:dd:ee:01", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if body["registered"] != true {
			t.Errorf("registered = %v, want true", body["registered"])
		}
		if body["device_id"] != "dev-1" {
			t.Errorf("device_id = %v, want dev-1", body["device_id"])
		}
		if body["container_code"] != "BIN007" {
			t.Errorf("container_code = %v, want BIN007", body["container_code"])
		}
		if body["calibration_offset"] != -0.3 {
			t.Errorf("calibration_offset = %v, want -0.3", body["calibration_offset"])
		}
	})

	t.Run("unknown address is 200 not error", func(t *testing.T) {
		rec, body := env.doRequest(t, http.MethodGet, "/api/v1/devices/lookup?mac=FF:FF:FF:FF:FF:FF", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if body["registered"] != false {
			t.Errorf("registered = %v, want false", body["registered"])
		}
	})

	t.Run("missing mac", func(t *testing.T) {
		rec, _ := env.doRequest(t, http.MethodGet, "/api/v1/devices/lookup", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestRegisterDevices(t *testing.T) {
	env := setupServer(t, nil)
	env.seedContainer(t, 7, "BIN007", "active")
	env.seedContainer(t, 8, "BIN008", "inactive")

	body := []byte(`[
		{"hardware_address": "AA:BB:CC:DD:EE:01", "name": "North Gate", "container_id": 7},
		{"hardware_address": "not-a-mac", "name": "Broken", "container_id": 7},
		{"hardware_address": "AA:BB:CC:DD:EE:02", "name": "South Gate", "container_id": 8}
	]`)

	rec, resp := env.doRequest(t, http.MethodPost, "/api/v1/devices/register", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if resp["failed"] != float64(2) {
		t.Errorf("failed = %v, want 2", resp["failed"])
	}

	results, ok := resp["results"].([]any)
	if !ok || len(results) != 3 {
		t.Fatalf("results = %v, want 3 entries", resp["results"])
	}

	first := results[0].(map[string]any)
	if first["action"] != "created" {
		t.Errorf("entry 0 action = %v, want created", first["action"])
	}
	if first["device_code"] != "NORTH-GATE" {
		t.Errorf("entry 0 device_code = %v, want NORTH-GATE", first["device_code"])
	}

	second := results[1].(map[string]any)
	if second["error"] == "" || second["error"] == nil {
		t.Error("entry 1 should carry an error")
	}

	third := results[2].(map[string]any)
	if third["error"] == "" || third["error"] == nil {
		t.Error("entry 2 should be rejected for inactive container")
	}

	// The valid entry was persisted despite its neighbours failing.
	d, err := env.devices.GetByHardwareAddress(context.Background(), "AA:BB:CC:DD:EE:01")
	if err != nil {
		t.Fatalf("GetByHardwareAddress() error = %v", err)
	}
	if d.ContainerID != 7 {
		t.Errorf("ContainerID = %d, want 7", d.ContainerID)
	}
}

func TestRegisterDevices_BadBody(t *testing.T) {
	env := setupServer(t, nil)

	rec, _ := env.doRequest(t, http.MethodPost, "/api/v1/devices/register", []byte(`{"not": "an array"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-array body", rec.Code)
	}

	rec, _ = env.doRequest(t, http.MethodPost, "/api/v1/devices/register", []byte(`[]`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty batch", rec.Code)
	}
}

func TestUpdateDevice(t *testing.T) {
	env := setupServer(t, nil)
	env.seedContainer(t, 7, "BIN007", "active")
	env.seedContainer(t, 9, "BIN009", "active")
	env.seedDevice(t, &device.Device{
		ID:              "dev-1",
		Code:            "NORTH-GATE",
		HardwareAddress: strPtr("AA:BB:CC:DD:EE:01"),
		ContainerID:     7,
		Status:          device.StatusActive,
		Name:            "North Gate",
	})
	env.seedDevice(t, &device.Device{
		ID:              "dev-2",
		Code:            "SOUTH-GATE",
		HardwareAddress: strPtr("AA:BB:CC:DD:EE:02"),
		ContainerID:     7,
		Status:          device.StatusActive,
		Name:            "South Gate",
	})

	t.Run("moves device", func(t *testing.T) {
		body := []byte(`{"hardware_address": "AA:BB:CC:DD:EE:01", "name": "North Gate", "container_id": 9, "calibration_offset": 0.5}`)
		rec, resp := env.doRequest(t, http.MethodPut, "/api/v1/devices/dev-1", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %v", rec.Code, resp)
		}
		if resp["container_id"] != float64(9) {
			t.Errorf("container_id = %v, want 9", resp["container_id"])
		}
		if resp["calibration_offset"] != 0.5 {
			t.Errorf("calibration_offset = %v, want 0.5", resp["calibration_offset"])
		}
	})

	t.Run("address owned by another device", func(t *testing.T) {
		body := []byte(`{"hardware_address": "AA:BB:CC:DD:EE:02", "name": "North Gate", "container_id": 9}`)
		rec, _ := env.doRequest(t, http.MethodPut, "/api/v1/devices/dev-1", body)
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("unknown device", func(t *testing.T) {
		body := []byte(`{"hardware_address": "AA:BB:CC:DD:EE:09", "name": "Ghost", "container_id": 9}`)
		rec, _ := env.doRequest(t, http.MethodPut, "/api/v1/devices/no-such-id", body)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("malformed address", func(t *testing.T) {
		body := []byte(`{"hardware_address": "zz:zz", "name": "North Gate", "container_id": 9}`)
		rec, _ := env.doRequest(t, http.MethodPut, "/api/v1/devices/dev-1", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestDeregisterDevice(t *testing.T) {
	env := setupServer(t, nil)
	env.seedContainer(t, 7, "BIN007", "active")
	env.seedDevice(t, &device.Device{
		ID:              "dev-1",
		Code:            "NORTH-GATE",
		HardwareAddress: strPtr("AA:BB:CC:DD:EE:01"),
		ContainerID:     7,
		Status:          device.StatusActive,
		Name:            "North Gate",
	})
	env.seedDevice(t, &device.Device{
		ID:              "dev-2",
		Code:            "SOUTH-GATE",
		HardwareAddress: strPtr("AA:BB:CC:DD:EE:02"),
		ContainerID:     7,
		Status:          device.StatusActive,
		Name:            "South Gate",
	})

	// dev-1 has reading history; dev-2 does not.
	if _, err := env.db.Exec(
		`INSERT INTO readings (device_id, container_id, fill_pct, recorded_at)
		 VALUES ('dev-1', 7, 50, '2026-02-01T10:00:00Z')`,
	); err != nil {
		t.Fatalf("seeding reading: %v", err)
	}

	t.Run("device with readings keeps row", func(t *testing.T) {
		rec, resp := env.doRequest(t, http.MethodDelete, "/api/v1/devices/dev-1", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if resp["outcome"] != string(device.DeregisterCleared) {
			t.Errorf("outcome = %v, want %s", resp["outcome"], device.DeregisterCleared)
		}

		d, err := env.devices.GetByID(context.Background(), "dev-1")
		if err != nil {
			t.Fatalf("row should be preserved: %v", err)
		}
		if d.HardwareAddress != nil {
			t.Errorf("HardwareAddress = %v, want cleared", *d.HardwareAddress)
		}
	})

	t.Run("device without readings is removed", func(t *testing.T) {
		rec, resp := env.doRequest(t, http.MethodDelete, "/api/v1/devices/dev-2", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if resp["outcome"] != string(device.DeregisterRemoved) {
			t.Errorf("outcome = %v, want %s", resp["outcome"], device.DeregisterRemoved)
		}

		_, err := env.devices.GetByID(context.Background(), "dev-2")
		if !errors.Is(err, device.ErrDeviceNotFound) {
			t.Errorf("GetByID() error = %v, want ErrDeviceNotFound", err)
		}
	})

	t.Run("unknown device", func(t *testing.T) {
		rec, _ := env.doRequest(t, http.MethodDelete, "/api/v1/devices/no-such-id", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestMutationsGatedByAuthorizer(t *testing.T) {
	deny := AuthorizerFunc(func(r *http.Request) error {
		if r.Header.Get("Authorization") != "Bearer let-me-in" {
			return fmt.Errorf("missing credentials")
		}
		return nil
	})
	env := setupServer(t, deny)
	env.seedContainer(t, 7, "BIN007", "active")

	body := []byte(`[{"hardware_address": "AA:BB:CC:DD:EE:01", "name": "North Gate", "container_id": 7}]`)

	rec, _ := env.doRequest(t, http.MethodPost, "/api/v1/devices/register", body)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated register status = %d, want 401", rec.Code)
	}

	// Lookup stays open regardless of the authorizer.
	rec, _ = env.doRequest(t, http.MethodGet, "/api/v1/devices/lookup?mac=AA:BB:CC:DD:EE:01", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("lookup status = %d, want 200", rec.Code)
	}
}
