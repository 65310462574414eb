package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wastewatch/wastewatch-core/internal/device"
)

// registerEntry is the JSON form of one batch registration outcome.
type registerEntry struct {
	HardwareAddress string `json:"hardware_address"`
	Action          string `json:"action,omitempty"`
	DeviceID        string `json:"device_id,omitempty"`
	DeviceCode      string `json:"device_code,omitempty"`
	Error           string `json:"error,omitempty"`
}

// handleLookupDevice resolves a hardware address to its registration.
//
// Query parameters:
//   - mac: the device hardware address (required)
//
// An unknown address is not an error: the response has registered=false
// and status 200, so booting sensors can distinguish "not provisioned"
// from a failing core.
func (s *Server) handleLookupDevice(w http.ResponseWriter, r *http.Request) {
	mac := r.URL.Query().Get("mac")
	if mac == "" {
		writeBadRequest(w, "mac query parameter is required")
		return
	}

	reg, err := s.registry.Lookup(r.Context(), mac)
	if err != nil {
		writeInternalError(w, "failed to look up device")
		return
	}

	writeJSON(w, http.StatusOK, reg)
}

// handleRegisterDevices registers a batch of devices.
//
// The request body is a JSON array of registration entries. Entries are
// processed independently: the response carries a per-entry outcome and
// the overall status is 200 even when some entries failed.
func (s *Server) handleRegisterDevices(w http.ResponseWriter, r *http.Request) {
	var requests []device.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&requests); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(requests) == 0 {
		writeBadRequest(w, "at least one registration entry is required")
		return
	}

	results := s.registry.Register(r.Context(), requests)

	entries := make([]registerEntry, 0, len(results))
	failed := 0
	for _, res := range results {
		entry := registerEntry{
			HardwareAddress: res.HardwareAddress,
			DeviceID:        res.DeviceID,
			DeviceCode:      res.DeviceCode,
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
			failed++
		} else {
			entry.Action = string(res.Action)
		}
		entries = append(entries, entry)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": entries,
		"count":   len(entries),
		"failed":  failed,
	})
}

// handleUpdateDevice replaces a device's provisioning fields.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req device.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	updated, err := s.registry.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, device.ErrDeviceNotFound):
			writeNotFound(w, "device not found")
		case errors.Is(err, device.ErrInvalidHardwareAddress),
			errors.Is(err, device.ErrContainerNotFound),
			errors.Is(err, device.ErrContainerInactive):
			writeBadRequest(w, err.Error())
		case errors.Is(err, device.ErrHardwareAddressTaken):
			writeConflict(w, err.Error())
		default:
			writeInternalError(w, "failed to update device")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDeregisterDevice takes a device out of service.
//
// Devices with stored readings keep their row; only the hardware
// address is cleared. Devices without readings are removed entirely.
// The response reports which of the two happened.
func (s *Server) handleDeregisterDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	outcome, err := s.registry.Deregister(r.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		writeInternalError(w, "failed to deregister device")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device_id": id,
		"outcome":   outcome,
	})
}
