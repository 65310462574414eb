// Package alert derives operational alerts from stored readings.
//
// The engine evaluates independent threshold rules against a reading's
// fill level, battery level, and temperature, and opens at most one
// alert per (container, kind) pair. Deduplication is a check-then-insert
// backed by a partial unique index on open alerts, so two readings
// racing for the same pair collapse into one row instead of two.
//
// An existing open alert is never modified: a bin crossing from 80% to
// 95% fill keeps its high-severity alert rather than escalating to
// critical. Resolution workflows live outside this system; alerts are
// only ever opened here.
package alert
