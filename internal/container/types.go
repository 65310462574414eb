package container

import "time"

// Status is the lifecycle status of a container.
type Status string

// Container lifecycle statuses.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Container represents a physical waste receptacle.
type Container struct {
	ID             int64     `json:"id"`
	Code           string    `json:"code"`
	Location       string    `json:"location"`
	CapacityLiters float64   `json:"capacity_liters"`
	BinType        string    `json:"bin_type"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsActive reports whether the container can accept device registrations.
func (c *Container) IsActive() bool {
	return c.Status == StatusActive
}
