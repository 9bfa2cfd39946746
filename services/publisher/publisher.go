package publisher

// Publisher pushes normalized deals onto a stream for downstream
// cross-posting consumers
type Publisher interface {
	// Publish publishes a message under the given provider key
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
