// Package publisher emits price-change events to external consumers.
package publisher

// Publisher defines the interface for publishing messages
type Publisher interface {
	// Publish publishes a message under the given key
	Publish(key string, message []byte) error

	// TrimStreams trims the underlying streams to their configured maximum length
	TrimStreams() error

	// Close closes the publisher
	Close() error
}

// NoopPublisher discards all messages. Used when no Redis is configured.
type NoopPublisher struct{}

// Publish discards the message
func (NoopPublisher) Publish(string, []byte) error { return nil }

// TrimStreams is a no-op
func (NoopPublisher) TrimStreams() error { return nil }

// Close is a no-op
func (NoopPublisher) Close() error { return nil }
