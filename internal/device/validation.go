package device

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Validation constants.
const (
	maxCodeLength = 20

	// maxCodeSuffix bounds the collision-suffix search during code
	// generation. Hitting it means the name space is pathologically
	// saturated; the entry is rejected rather than looping forever.
	maxCodeSuffix = 100

	hardwareAddressPattern = `^([0-9A-F]{2}:){5}[0-9A-F]{2}$`
)

var hardwareAddressRegex = regexp.MustCompile(hardwareAddressPattern)

// NormalizeHardwareAddress canonicalizes a hardware address for storage
// and comparison: surrounding whitespace is stripped and hex digits are
// uppercased. Devices in the field report addresses in mixed case.
func NormalizeHardwareAddress(addr string) string {
	return strings.ToUpper(strings.TrimSpace(addr))
}

// ValidateHardwareAddress checks that an address, after normalization,
// is six colon-separated uppercase hex octet pairs (e.g. "AA:BB:CC:DD:EE:01").
// Returns ErrInvalidHardwareAddress with detail on failure.
func ValidateHardwareAddress(addr string) error {
	normalized := NormalizeHardwareAddress(addr)
	if normalized == "" {
		return fmt.Errorf("%w: empty", ErrInvalidHardwareAddress)
	}
	if !hardwareAddressRegex.MatchString(normalized) {
		return fmt.Errorf("%w: %q", ErrInvalidHardwareAddress, normalized)
	}
	return nil
}

// GenerateCode produces a unique human-readable device code.
//
// The code is derived from the display name: non-alphanumeric runs are
// replaced with hyphens, uppercased, and the result capped at
// maxCodeLength. When the sanitized name is empty, a code is synthesized
// from the trailing octets of the hardware address instead. If the
// candidate collides with an existing code, a numeric suffix is appended
// until a free code is found.
//
// The exists callback reports whether a candidate code is already taken;
// any error it returns aborts generation.
func GenerateCode(name, hardwareAddress string, exists func(code string) (bool, error)) (string, error) {
	base := sanitizeCode(name)
	if base == "" {
		base = fallbackCode(hardwareAddress)
	}

	code := base
	for n := 2; n <= maxCodeSuffix; n++ {
		taken, err := exists(code)
		if err != nil {
			return "", fmt.Errorf("checking code availability: %w", err)
		}
		if !taken {
			return code, nil
		}
		code = fmt.Sprintf("%s-%d", base, n)
	}

	return "", fmt.Errorf("generating code: suffix space exhausted for %q", base)
}

// sanitizeCode converts free-text input into code form.
func sanitizeCode(name string) string {
	code := strings.ToUpper(name)

	// Replace any run of non-alphanumeric characters with a single hyphen
	var result strings.Builder
	lastHyphen := false
	for _, r := range code {
		switch {
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			result.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			result.WriteRune('-')
			lastHyphen = true
		}
	}
	code = strings.Trim(result.String(), "-")

	// Truncate if too long
	if len(code) > maxCodeLength {
		code = code[:maxCodeLength]
		// Don't end with a hyphen
		code = strings.TrimRight(code, "-")
	}

	return code
}

// fallbackCode synthesizes a code from the trailing octets of a hardware
// address, for registrations whose display name sanitizes to nothing.
// Example: "AA:BB:CC:DD:EE:01" -> "DEV-EE01"
func fallbackCode(hardwareAddress string) string {
	normalized := NormalizeHardwareAddress(hardwareAddress)
	octets := strings.Split(normalized, ":")
	if len(octets) >= 2 {
		return "DEV-" + octets[len(octets)-2] + octets[len(octets)-1]
	}
	return "DEV-" + normalized
}

// GenerateID creates a new UUID for a device.
func GenerateID() string {
	return uuid.New().String()
}
