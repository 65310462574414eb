package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the WasteWatch MQTT namespace.
//
// Sensor units publish telemetry on the per-bin scheme:
// waste/bins/{bin_code}/sensors. The core subscribes with a single-level
// wildcard and never publishes on bin topics.
const (
	// TopicPrefix is the base for all WasteWatch topics.
	TopicPrefix = "waste"

	// TopicPrefixBins is the base for per-bin sensor topics.
	TopicPrefixBins = "waste/bins"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "waste/system"
)

// Topics provides builders for WasteWatch MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	telemetry := topics.BinSensors("BIN007")
//	// Returns: "waste/bins/BIN007/sensors"
type Topics struct{}

// BinSensors returns the telemetry topic for a single bin.
//
// Example: waste/bins/BIN007/sensors
func (Topics) BinSensors(binCode string) string {
	return fmt.Sprintf("%s/%s/sensors", TopicPrefixBins, binCode)
}

// AllBinSensors returns a pattern matching telemetry from every bin.
//
// Pattern: waste/bins/+/sensors
func (Topics) AllBinSensors() string {
	return fmt.Sprintf("%s/+/sensors", TopicPrefixBins)
}

// SystemStatus returns the core status topic used for online/offline
// announcements and the Last Will message.
//
// Example: waste/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllTopics returns a pattern matching all WasteWatch topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: waste/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}

// BinCodeFromTopic extracts the bin code from a per-bin sensor topic.
//
// Returns false for topics outside the waste/bins/{code}/sensors scheme.
// The code is whatever the publisher put in the topic; it is advisory
// only and never overrides device registration.
func BinCodeFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "waste" || parts[1] != "bins" || parts[3] != "sensors" {
		return "", false
	}
	if parts[2] == "" || strings.ContainsAny(parts[2], "+#") {
		return "", false
	}
	return parts[2], true
}
