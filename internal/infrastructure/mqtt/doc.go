// Package mqtt provides MQTT client connectivity for WasteWatch Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// MQTT is the ingestion transport: sensor units mounted on waste bins
// publish telemetry to per-bin topics, and the core subscribes with a
// single wildcard filter. The broker decouples the fleet from the core;
// sensors keep publishing whether or not the core is up.
//
//	Bin Sensors → MQTT Broker → WasteWatch Core
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to telemetry from every bin
//	err = client.Subscribe(mqtt.Topics{}.AllBinSensors(), 1,
//	    func(topic string, payload []byte) error {
//	        return consumer.Enqueue(topic, payload)
//	    })
package mqtt
