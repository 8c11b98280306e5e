// Package msgs defines the events published by the servo controller.
package msgs

// Events are wrapped in Typed envelopes, encoded with protobuf and
// published on the telemetry topics.
//
// Producer: servo controller
// Consumer: monitors (servomon)
