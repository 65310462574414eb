// Package reading persists resolved, calibrated telemetry samples.
//
// A reading is written as a single atomic insert and is immutable once
// stored: nothing in this system updates or deletes reading rows. A
// failed insert is reported to the caller and affects only the message
// that produced it.
package reading
