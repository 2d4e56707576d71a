// Package messaging provides a broker-agnostic API for publishing and
// consuming messages.
//
// Use cases depend on Publisher and Consumer only; NewFromDriver picks Kafka,
// NATS, NSQ, Google Pub/Sub or a no-op backend from configuration.
package messaging
