package alert

import "time"

// Kind classifies what an alert is about.
type Kind string

// Alert kinds.
const (
	KindBinFull         Kind = "bin_full"
	KindSensorFault     Kind = "sensor_fault"
	KindUnusualActivity Kind = "unusual_activity"
)

// Severity ranks an alert's urgency.
type Severity string

// Alert severities.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// Status is the lifecycle status of an alert.
type Status string

// Alert statuses. Resolution happens outside this system.
const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
)

// Alert is a derived operational event for a container.
type Alert struct {
	ID          int64     `json:"id"`
	ContainerID int64     `json:"container_id"`
	Kind        Kind      `json:"kind"`
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	Status      Status    `json:"status"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// Sample carries the derived fields of a stored reading that the rules
// inspect. Absent measurements are nil and match no rule.
type Sample struct {
	ContainerID  int64
	FillPct      *float64
	BatteryPct   *float64
	TemperatureC *float64
}
