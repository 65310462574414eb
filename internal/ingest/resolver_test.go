package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/wastewatch/wastewatch-core/internal/device"
)

// stubDirectory is an in-memory DeviceDirectory.
type stubDirectory struct {
	byAddress map[string]*device.Device
	byCode    map[string]*device.Device
}

func (s *stubDirectory) GetByHardwareAddress(_ context.Context, addr string) (*device.Device, error) {
	if d, ok := s.byAddress[addr]; ok {
		return d, nil
	}
	return nil, device.ErrDeviceNotFound
}

func (s *stubDirectory) GetByCode(_ context.Context, code string) (*device.Device, error) {
	if d, ok := s.byCode[code]; ok {
		return d, nil
	}
	return nil, device.ErrDeviceNotFound
}

func i64(v int64) *int64 { return &v }

func testDirectory() *stubDirectory {
	registered := &device.Device{
		ID:                "dev-1",
		Code:              "SENSOR-1",
		ContainerID:       7,
		CalibrationOffset: -0.3,
	}
	byCodeOnly := &device.Device{
		ID:                "dev-2",
		Code:              "SENS002",
		ContainerID:       3,
		CalibrationOffset: 0.5,
	}
	return &stubDirectory{
		byAddress: map[string]*device.Device{"AA:BB:CC:DD:EE:01": registered},
		byCode:    map[string]*device.Device{"SENSOR-1": registered, "SENS002": byCodeOnly},
	}
}

func TestResolver_HardwareAddressWins(t *testing.T) {
	resolver := NewResolver(testDirectory())
	ctx := context.Background()

	// The payload asserts bin 99; the registration says container 7.
	res, err := resolver.Resolve(ctx, &Payload{
		HardwareAddress: "aa:bb:cc:dd:ee:01",
		BinID:           i64(99),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if res.DeviceID != "dev-1" {
		t.Errorf("DeviceID = %q, want dev-1", res.DeviceID)
	}
	if res.ContainerID != 7 {
		t.Errorf("ContainerID = %d, want 7 (registration overrides payload)", res.ContainerID)
	}
	if res.CalibrationOffset != -0.3 {
		t.Errorf("CalibrationOffset = %v, want -0.3", res.CalibrationOffset)
	}
}

func TestResolver_CodeFallbackTrustsPayloadContainer(t *testing.T) {
	resolver := NewResolver(testDirectory())
	ctx := context.Background()

	res, err := resolver.Resolve(ctx, &Payload{
		SensorCode: "SENS002",
		BinID:      i64(42),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if res.DeviceID != "dev-2" {
		t.Errorf("DeviceID = %q, want dev-2", res.DeviceID)
	}
	if res.ContainerID != 42 {
		t.Errorf("ContainerID = %d, want 42 (payload trusted on code match)", res.ContainerID)
	}
	if res.CalibrationOffset != 0.5 {
		t.Errorf("CalibrationOffset = %v, want 0.5", res.CalibrationOffset)
	}
}

func TestResolver_UnregisteredAddressFallsThroughToCode(t *testing.T) {
	resolver := NewResolver(testDirectory())
	ctx := context.Background()

	res, err := resolver.Resolve(ctx, &Payload{
		HardwareAddress: "FF:FF:FF:FF:FF:FF",
		SensorCode:      "SENS002",
		BinID:           i64(42),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.DeviceID != "dev-2" || res.ContainerID != 42 {
		t.Errorf("Resolve() = %+v, want code fallback", res)
	}
}

func TestResolver_UnknownDevice(t *testing.T) {
	resolver := NewResolver(testDirectory())
	ctx := context.Background()

	tests := []struct {
		name    string
		payload *Payload
	}{
		{"unknown address and code", &Payload{HardwareAddress: "FF:FF:FF:FF:FF:FF", SensorCode: "NOPE", BinID: i64(1)}},
		{"no identity at all", &Payload{BinID: i64(1)}},
		{"unknown address only", &Payload{HardwareAddress: "FF:FF:FF:FF:FF:FF"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(ctx, tt.payload)
			if !errors.Is(err, ErrUnknownDevice) {
				t.Errorf("Resolve() error = %v, want ErrUnknownDevice", err)
			}
		})
	}
}

func TestResolver_CodeMatchWithoutBinID(t *testing.T) {
	resolver := NewResolver(testDirectory())

	_, err := resolver.Resolve(context.Background(), &Payload{SensorCode: "SENS002"})
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("Resolve() error = %v, want ErrMalformedPayload", err)
	}
}

func TestParsePayload(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		body := []byte(`{
			"mac": "aa:bb:cc:dd:ee:01",
			"sensor_code": "SENS001",
			"bin_id": 7,
			"fill_level": 92.0,
			"weight_kg": 12.0,
			"battery_level": 85.5,
			"signal_strength": -67,
			"timestamp": "2026-03-14T09:30:00+01:00"
		}`)

		p, err := ParsePayload(body)
		if err != nil {
			t.Fatalf("ParsePayload() error = %v", err)
		}
		if p.HardwareAddress != "aa:bb:cc:dd:ee:01" {
			t.Errorf("HardwareAddress = %q", p.HardwareAddress)
		}
		if p.BinID == nil || *p.BinID != 7 {
			t.Errorf("BinID = %v, want 7", p.BinID)
		}
		if p.SignalDbm == nil || *p.SignalDbm != -67 {
			t.Errorf("SignalDbm = %v, want -67", p.SignalDbm)
		}
		if ts, ok := p.RecordedAt(); !ok || ts.IsZero() {
			t.Error("RecordedAt() should parse the timestamp")
		}
	})

	t.Run("empty object", func(t *testing.T) {
		p, err := ParsePayload([]byte(`{}`))
		if err != nil {
			t.Fatalf("ParsePayload() error = %v", err)
		}
		if p.BinID != nil || p.FillPct != nil {
			t.Error("absent fields should be nil")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := ParsePayload([]byte(`{not json`))
		if !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("ParsePayload() error = %v, want ErrMalformedPayload", err)
		}
	})

	t.Run("wrong field type", func(t *testing.T) {
		_, err := ParsePayload([]byte(`{"fill_level": "very full"}`))
		if !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("ParsePayload() error = %v, want ErrMalformedPayload", err)
		}
	})

	t.Run("unparseable timestamp falls back to zero", func(t *testing.T) {
		p, err := ParsePayload([]byte(`{"timestamp": "yesterday-ish"}`))
		if err != nil {
			t.Fatalf("ParsePayload() error = %v", err)
		}
		ts, ok := p.RecordedAt()
		if ok {
			t.Error("RecordedAt() should flag an unparseable timestamp")
		}
		if !ts.IsZero() {
			t.Error("RecordedAt() should be zero for unparseable timestamp")
		}
	})

	t.Run("absent timestamp is not flagged", func(t *testing.T) {
		p, err := ParsePayload([]byte(`{}`))
		if err != nil {
			t.Fatalf("ParsePayload() error = %v", err)
		}
		if _, ok := p.RecordedAt(); !ok {
			t.Error("RecordedAt() should not flag a missing timestamp")
		}
	})
}
