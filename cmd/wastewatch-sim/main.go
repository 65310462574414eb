// WasteWatch Sim - Bin Sensor Simulator
//
// Publishes synthetic bin telemetry to an MQTT broker so the ingestion
// pipeline can be exercised without physical hardware. Each simulated
// bin fills up over time, drains its battery, and occasionally warms
// up enough to trip the temperature alert rule.
//
// Usage:
//
//	wastewatch-sim -broker localhost -port 1883 -bins 5 -interval 10s
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wastewatch/wastewatch-core/internal/infrastructure/config"
	"github.com/wastewatch/wastewatch-core/internal/infrastructure/logging"
	"github.com/wastewatch/wastewatch-core/internal/infrastructure/mqtt"
)

// simBin is the mutable state of one simulated sensor unit.
type simBin struct {
	code    string
	mac     string
	fill    float64
	battery float64
	temp    float64
}

// telemetry mirrors the wire format the ingestion pipeline accepts.
type telemetry struct {
	HardwareAddress string  `json:"mac"`
	FillPct         float64 `json:"fill_level"`
	WeightKg        float64 `json:"weight_kg"`
	TemperatureC    float64 `json:"temperature_c"`
	BatteryPct      float64 `json:"battery_level"`
	SignalDbm       int64   `json:"signal_strength"`
	Timestamp       string  `json:"timestamp"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		brokerHost = flag.String("broker", "localhost", "MQTT broker host")
		brokerPort = flag.Int("port", 1883, "MQTT broker port")
		binCount   = flag.Int("bins", 5, "number of simulated bins")
		interval   = flag.Duration("interval", 10*time.Second, "publish interval")
	)
	flag.Parse()

	log := logging.Default()

	client, err := mqtt.Connect(config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     *brokerHost,
			Port:     *brokerPort,
			ClientID: fmt.Sprintf("wastewatch-sim-%d", os.Getpid()),
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     30,
		},
	})
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer client.Close()
	client.SetLogger(log)
	log.Info("connected to broker",
		"host", *brokerHost,
		"port", *brokerPort,
		"bins", *binCount,
		"interval", interval.String(),
	)

	bins := makeBins(*binCount)
	topics := mqtt.Topics{}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		case <-ticker.C:
			for i := range bins {
				bins[i].step()
				payload, err := json.Marshal(bins[i].reading())
				if err != nil {
					return fmt.Errorf("encoding telemetry: %w", err)
				}
				topic := topics.BinSensors(bins[i].code)
				if err := client.Publish(topic, payload, 1, false); err != nil {
					log.Warn("publish failed", "topic", topic, "error", err)
					continue
				}
				log.Info("published",
					"bin", bins[i].code,
					"fill", fmt.Sprintf("%.1f", bins[i].fill),
					"battery", fmt.Sprintf("%.1f", bins[i].battery),
				)
			}
		}
	}
}

// makeBins seeds the simulated fleet. MAC addresses follow a fixed
// scheme so the same fleet can be registered once and reused across runs.
func makeBins(count int) []simBin {
	bins := make([]simBin, count)
	for i := range bins {
		bins[i] = simBin{
			code:    fmt.Sprintf("BIN%03d", i+1),
			mac:     fmt.Sprintf("DE:AD:BE:EF:00:%02X", i+1),
			fill:    rand.Float64() * 40,
			battery: 80 + rand.Float64()*20,
			temp:    15 + rand.Float64()*10,
		}
	}
	return bins
}

// step advances the bin one tick: fill creeps up, battery drains, and
// temperature wanders. A full bin resets as if a collection happened.
func (b *simBin) step() {
	b.fill += rand.Float64() * 4
	if b.fill > 100 {
		b.fill = rand.Float64() * 10
	}

	b.battery -= rand.Float64() * 0.5
	if b.battery < 5 {
		b.battery = 100
	}

	b.temp += (rand.Float64() - 0.5) * 2
	if b.temp < 5 {
		b.temp = 5
	}
	// Rare spike to exercise the unusual-activity rule.
	if rand.Intn(200) == 0 {
		b.temp = 50 + rand.Float64()*10
	}
}

func (b *simBin) reading() telemetry {
	return telemetry{
		HardwareAddress: b.mac,
		FillPct:         round1(b.fill),
		WeightKg:        round1(b.fill * 0.3),
		TemperatureC:    round1(b.temp),
		BatteryPct:      round1(b.battery),
		SignalDbm:       -40 - int64(rand.Intn(50)),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
}

func round1(v float64) float64 {
	return float64(int(v*10)) / 10
}
