// Package device implements the device registry: the mapping from sensor
// hardware addresses to logical devices and the containers they monitor.
//
// # Architecture
//
// The package follows a layered design:
//
//	┌─────────────────────────────────────┐
//	│            Registry                 │  Provisioning operations
//	│  (lookup, register, update,         │  (validation, code generation,
//	│   deregister)                       │   per-entry batch outcomes)
//	└──────────────┬──────────────────────┘
//	               │
//	┌──────────────▼──────────────────────┐
//	│           Repository                │  Persistence interface
//	│  (SQLiteRepository implementation)  │
//	└─────────────────────────────────────┘
//
// # Identity
//
// A device has three identifiers:
//
//   - ID: opaque UUID, stable for the life of the row
//   - Code: human-readable, unique, generated from the display name
//   - Hardware address: the physical six-octet identifier, unique among
//     devices that still have one; cleared (not deleted) on deregistration
//     when reading history exists
//
// The hardware address is the authoritative identity once provisioned:
// telemetry carrying a registered hardware address is attributed to the
// registered container even if the payload asserts a different one.
//
// # Concurrency
//
// Uniqueness of hardware address and code is enforced by the database
// schema in addition to application-level checks, so concurrent
// registrations of the same address surface as ErrDeviceExists /
// ErrHardwareAddressTaken rather than duplicate rows.
package device
