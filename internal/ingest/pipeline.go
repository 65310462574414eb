package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/wastewatch/wastewatch-core/internal/alert"
	"github.com/wastewatch/wastewatch-core/internal/reading"
)

// Logger defines the logging interface used by the ingest package.
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

// ReadingStore persists resolved readings. Satisfied by reading.Repository.
type ReadingStore interface {
	Insert(ctx context.Context, r *reading.Reading) error
}

// AlertEvaluator runs threshold rules against a stored reading.
// Satisfied by alert.Engine.
type AlertEvaluator interface {
	Evaluate(ctx context.Context, s alert.Sample)
}

// Mirror receives a copy of every stored reading, e.g. for time-series
// export. Mirror writes are fire-and-forget and must not block.
type Mirror interface {
	MirrorReading(r *reading.Reading)
}

// Pipeline processes one telemetry message end to end:
// parse, resolve identity, calibrate, store, evaluate alerts.
type Pipeline struct {
	resolver *Resolver
	readings ReadingStore
	alerts   AlertEvaluator
	mirror   Mirror
	logger   Logger
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(resolver *Resolver, readings ReadingStore, alerts AlertEvaluator) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		readings: readings,
		alerts:   alerts,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the pipeline.
func (p *Pipeline) SetLogger(logger Logger) {
	p.logger = logger
}

// SetMirror attaches an optional reading mirror.
func (p *Pipeline) SetMirror(mirror Mirror) {
	p.mirror = mirror
}

// Process handles one message. The returned error is informational for
// the caller's logging: every failure is already scoped to this message
// and the next message processes normally.
func (p *Pipeline) Process(ctx context.Context, topic string, body []byte) error {
	payload, err := ParsePayload(body)
	if err != nil {
		p.logger.Warn("dropping malformed message", "topic", topic, "error", err)
		return err
	}

	res, err := p.resolver.Resolve(ctx, payload)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownDevice):
			p.logger.Warn("dropping message from unknown device", "topic", topic, "error", err)
		case errors.Is(err, ErrMalformedPayload):
			p.logger.Warn("dropping malformed message", "topic", topic, "error", err)
		default:
			p.logger.Error("identity resolution failed", "topic", topic, "error", err)
		}
		return err
	}

	recordedAt, tsOK := payload.RecordedAt()
	if !tsOK {
		p.logger.Warn("unparseable timestamp, using processing time",
			"topic", topic,
			"timestamp", payload.Timestamp)
	}

	r := &reading.Reading{
		DeviceID:     res.DeviceID,
		ContainerID:  res.ContainerID,
		FillPct:      payload.FillPct,
		DistanceCm:   payload.DistanceCm,
		WeightKg:     ApplyCalibration(payload.WeightKg, res.CalibrationOffset),
		TemperatureC: payload.TemperatureC,
		HumidityPct:  payload.HumidityPct,
		GasLevel:     payload.GasLevel,
		BatteryPct:   payload.BatteryPct,
		SignalDbm:    payload.SignalDbm,
		RecordedAt:   recordedAt,
	}

	if err := p.readings.Insert(ctx, r); err != nil {
		p.logger.Error("storing reading failed",
			"topic", topic,
			"device_id", res.DeviceID,
			"container_id", res.ContainerID,
			"error", err)
		return fmt.Errorf("storing reading: %w", err)
	}

	p.logger.Debug("reading stored",
		"device_id", res.DeviceID,
		"container_id", res.ContainerID,
		"reading_id", r.ID)

	// Alert evaluation failures are logged inside the engine and never
	// affect the stored reading.
	p.alerts.Evaluate(ctx, alert.Sample{
		ContainerID:  r.ContainerID,
		FillPct:      r.FillPct,
		BatteryPct:   r.BatteryPct,
		TemperatureC: r.TemperatureC,
	})

	if p.mirror != nil {
		p.mirror.MirrorReading(r)
	}

	return nil
}
