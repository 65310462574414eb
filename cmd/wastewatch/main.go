// WasteWatch Core - Waste Bin Telemetry Platform
//
// This is the main entry point for the WasteWatch Core application.
// WasteWatch ingests telemetry from sensor units mounted on waste bins,
// resolves each message to a registered device, stores the readings,
// and derives operational alerts (full bins, failing sensors, unusual
// temperatures) for collection planning.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/wastewatch/wastewatch-core/migrations"

	"github.com/wastewatch/wastewatch-core/internal/alert"
	"github.com/wastewatch/wastewatch-core/internal/api"
	"github.com/wastewatch/wastewatch-core/internal/container"
	"github.com/wastewatch/wastewatch-core/internal/device"
	"github.com/wastewatch/wastewatch-core/internal/infrastructure/config"
	"github.com/wastewatch/wastewatch-core/internal/infrastructure/database"
	"github.com/wastewatch/wastewatch-core/internal/infrastructure/influxdb"
	"github.com/wastewatch/wastewatch-core/internal/infrastructure/logging"
	"github.com/wastewatch/wastewatch-core/internal/infrastructure/mqtt"
	"github.com/wastewatch/wastewatch-core/internal/ingest"
	"github.com/wastewatch/wastewatch-core/internal/reading"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting WasteWatch Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Repositories
	containerRepo := container.NewSQLiteRepository(db.DB)
	deviceRepo := device.NewSQLiteRepository(db.DB)
	readingRepo := reading.NewSQLiteRepository(db.DB)
	alertRepo := alert.NewSQLiteRepository(db.DB)

	// Device registry for provisioning operations
	registry := device.NewRegistry(deviceRepo, containerRepo, readingRepo)
	registry.SetLogger(log)

	// Alert engine
	engine := alert.NewEngine(alertRepo)
	engine.SetLogger(log)

	// Ingestion pipeline
	pipeline := ingest.NewPipeline(ingest.NewResolver(deviceRepo), readingRepo, engine)
	pipeline.SetLogger(log)

	// Connect to InfluxDB (optional readings mirror)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		pipeline.SetMirror(influxClient)
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Bounded work queue between the broker callback and the pipeline
	consumer := ingest.NewConsumer(cfg.Ingest.QueueSize, pipeline)
	consumer.SetLogger(log)
	consumer.Start(ctx)
	defer func() {
		log.Info("stopping telemetry consumer",
			"consumed", consumer.Consumed(),
			"dropped", consumer.Dropped(),
		)
		consumer.Close()
	}()

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Subscribe to bin telemetry. The handler only enqueues; processing
	// happens on the consumer's worker goroutine.
	err = mqttClient.Subscribe(cfg.Ingest.TopicPattern, byte(cfg.MQTT.QoS),
		telemetryHandler(consumer, log))
	if err != nil {
		return fmt.Errorf("subscribing to telemetry: %w", err)
	}
	log.Info("subscribed to telemetry", "pattern", cfg.Ingest.TopicPattern)

	// HTTP API
	components := map[string]api.HealthChecker{
		"database": db,
		"mqtt":     mqttClient,
	}
	if influxClient != nil {
		components["influxdb"] = influxClient
	}

	apiServer, err := api.New(api.Deps{
		Config:     cfg.API,
		Logger:     log,
		Registry:   registry,
		Containers: containerRepo,
		Readings:   readingRepo,
		Alerts:     alertRepo,
		Components: components,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. MQTT
	// 3. Consumer
	// 4. InfluxDB (if enabled)
	// 5. Database

	log.Info("WasteWatch Core stopped")
	return nil
}

// telemetryHandler returns the subscribe callback that feeds the
// consumer. Intake failures (queue full, shutdown) are logged here with
// the bin code from the topic, since the payload never gets parsed.
func telemetryHandler(consumer *ingest.Consumer, log *logging.Logger) mqtt.MessageHandler {
	return func(topic string, payload []byte) error {
		err := consumer.Enqueue(topic, payload)
		if err != nil {
			binCode, _ := mqtt.BinCodeFromTopic(topic)
			log.Warn("telemetry message not accepted",
				"topic", topic,
				"bin", binCode,
				"error", err,
			)
		}
		return err
	}
}

// getConfigPath returns the configuration file path.
// Uses WASTEWATCH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("WASTEWATCH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
