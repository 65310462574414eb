package device

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNormalizeHardwareAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "AA:BB:CC:DD:EE:01", "AA:BB:CC:DD:EE:01"},
		{"lowercase", "aa:bb:cc:dd:ee:01", "AA:BB:CC:DD:EE:01"},
		{"mixed case with whitespace", "  aA:bB:cC:dD:eE:01\n", "AA:BB:CC:DD:EE:01"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeHardwareAddress(tt.input); got != tt.want {
				t.Errorf("NormalizeHardwareAddress(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateHardwareAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid canonical", "AA:BB:CC:DD:EE:01", false},
		{"valid lowercase input", "aa:bb:cc:dd:ee:01", false},
		{"valid with whitespace", " AA:BB:CC:DD:EE:01 ", false},
		{"empty", "", true},
		{"too few octets", "AA:BB:CC:DD:EE", true},
		{"too many octets", "AA:BB:CC:DD:EE:01:02", true},
		{"non-hex characters", "GG:BB:CC:DD:EE:01", true},
		{"wrong separator", "AA-BB-CC-DD-EE-01", true},
		{"single-digit octet", "A:BB:CC:DD:EE:01", true},
		{"embedded whitespace", "AA :BB:CC:DD:EE:01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHardwareAddress(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHardwareAddress(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidHardwareAddress) {
				t.Errorf("error %v should wrap ErrInvalidHardwareAddress", err)
			}
		})
	}
}

func TestGenerateCode(t *testing.T) {
	noneTaken := func(string) (bool, error) { return false, nil }

	tests := []struct {
		name            string
		displayName     string
		hardwareAddress string
		exists          func(string) (bool, error)
		want            string
	}{
		{
			name:            "simple name",
			displayName:     "North Gate Sensor",
			hardwareAddress: "AA:BB:CC:DD:EE:01",
			exists:          noneTaken,
			want:            "NORTH-GATE-SENSOR",
		},
		{
			name:            "special characters collapsed",
			displayName:     "Löading dock / bay #3",
			hardwareAddress: "AA:BB:CC:DD:EE:01",
			exists:          noneTaken,
			want:            "L-ADING-DOCK-BAY-3",
		},
		{
			name:            "long name truncated",
			displayName:     "An Extremely Long Device Display Name",
			hardwareAddress: "AA:BB:CC:DD:EE:01",
			exists:          noneTaken,
			want:            "AN-EXTREMELY-LONG-DE",
		},
		{
			name:            "empty name falls back to address octets",
			displayName:     "",
			hardwareAddress: "AA:BB:CC:DD:EE:01",
			exists:          noneTaken,
			want:            "DEV-EE01",
		},
		{
			name:            "punctuation-only name falls back",
			displayName:     "!!! ???",
			hardwareAddress: "aa:bb:cc:dd:ee:ff",
			exists:          noneTaken,
			want:            "DEV-EEFF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateCode(tt.displayName, tt.hardwareAddress, tt.exists)
			if err != nil {
				t.Fatalf("GenerateCode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("GenerateCode() = %q, want %q", got, tt.want)
			}
			if len(got) > maxCodeLength+4 {
				t.Errorf("GenerateCode() = %q exceeds length bound", got)
			}
		})
	}
}

func TestGenerateCode_CollisionSuffix(t *testing.T) {
	taken := map[string]bool{
		"GATE":   true,
		"GATE-2": true,
	}
	exists := func(code string) (bool, error) { return taken[code], nil }

	got, err := GenerateCode("Gate", "AA:BB:CC:DD:EE:01", exists)
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if got != "GATE-3" {
		t.Errorf("GenerateCode() = %q, want %q", got, "GATE-3")
	}
}

func TestGenerateCode_ExistsError(t *testing.T) {
	exists := func(string) (bool, error) { return false, fmt.Errorf("db gone") }

	if _, err := GenerateCode("Gate", "AA:BB:CC:DD:EE:01", exists); err == nil {
		t.Error("GenerateCode() expected error when exists callback fails")
	}
}

func TestGenerateCode_SuffixExhausted(t *testing.T) {
	exists := func(string) (bool, error) { return true, nil }

	if _, err := GenerateCode("Gate", "AA:BB:CC:DD:EE:01", exists); err == nil {
		t.Error("GenerateCode() expected error when all suffixes are taken")
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("GenerateID() returned empty string")
	}
	if a == b {
		t.Error("GenerateID() returned duplicate IDs")
	}
	if !strings.Contains(a, "-") {
		t.Errorf("GenerateID() = %q, not UUID-shaped", a)
	}
}
