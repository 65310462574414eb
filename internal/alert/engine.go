package alert

import (
	"context"
	"errors"
	"fmt"
)

// Alert rule thresholds.
const (
	fillCriticalPct  = 90
	fillHighPct      = 75
	batteryLowPct    = 20
	temperatureHighC = 45
)

// Logger defines the logging interface used by the Engine.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Engine evaluates threshold rules against stored readings and opens
// deduplicated alerts.
type Engine struct {
	repo   Repository
	logger Logger
}

// NewEngine creates a new alert engine.
func NewEngine(repo Repository) *Engine {
	return &Engine{
		repo:   repo,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the engine.
func (e *Engine) SetLogger(logger Logger) {
	e.logger = logger
}

// rule is one threshold check. match returns the triggered severity and
// message, or ok == false when the sample does not breach the threshold.
type rule struct {
	kind  Kind
	match func(s Sample) (severity Severity, message string, ok bool)
}

// rules are evaluated independently for every sample; they are not
// mutually exclusive across kinds.
var rules = []rule{
	{
		kind: KindBinFull,
		match: func(s Sample) (Severity, string, bool) {
			if s.FillPct == nil {
				return "", "", false
			}
			switch fill := *s.FillPct; {
			case fill >= fillCriticalPct:
				return SeverityCritical, fmt.Sprintf("bin %.1f%% full", fill), true
			case fill >= fillHighPct:
				return SeverityHigh, fmt.Sprintf("bin %.1f%% full", fill), true
			default:
				return "", "", false
			}
		},
	},
	{
		kind: KindSensorFault,
		match: func(s Sample) (Severity, string, bool) {
			if s.BatteryPct == nil || *s.BatteryPct >= batteryLowPct {
				return "", "", false
			}
			return SeverityMedium, fmt.Sprintf("sensor battery at %.1f%%", *s.BatteryPct), true
		},
	},
	{
		kind: KindUnusualActivity,
		match: func(s Sample) (Severity, string, bool) {
			if s.TemperatureC == nil || *s.TemperatureC <= temperatureHighC {
				return "", "", false
			}
			return SeverityHigh, fmt.Sprintf("temperature %.1f°C", *s.TemperatureC), true
		},
	},
}

// Evaluate runs every rule against the sample and opens an alert for
// each breached rule whose (container, kind) pair has no open alert yet.
//
// Rules are isolated from each other: a persistence failure on one rule
// is logged and does not stop the remaining rules. An existing open
// alert is left untouched even if the new sample would justify a higher
// severity.
func (e *Engine) Evaluate(ctx context.Context, s Sample) {
	for _, r := range rules {
		severity, message, ok := r.match(s)
		if !ok {
			continue
		}
		if err := e.open(ctx, s.ContainerID, r.kind, severity, message); err != nil {
			e.logger.Error("alert rule failed",
				"container_id", s.ContainerID,
				"kind", string(r.kind),
				"error", err)
		}
	}
}

// open creates the alert unless one is already open for the pair.
func (e *Engine) open(ctx context.Context, containerID int64, kind Kind, severity Severity, message string) error {
	exists, err := e.repo.HasOpen(ctx, containerID, kind)
	if err != nil {
		return err
	}
	if exists {
		// Deliberately no severity escalation on repeat breach.
		e.logger.Debug("alert already open",
			"container_id", containerID,
			"kind", string(kind))
		return nil
	}

	a := &Alert{
		ContainerID: containerID,
		Kind:        kind,
		Severity:    severity,
		Message:     message,
	}
	if err := e.repo.Insert(ctx, a); err != nil {
		if errors.Is(err, ErrAlertOpen) {
			// Lost the race to a concurrent reading; the pair is covered.
			return nil
		}
		return err
	}

	e.logger.Info("alert opened",
		"alert_id", a.ID,
		"container_id", containerID,
		"kind", string(kind),
		"severity", string(severity))
	return nil
}
