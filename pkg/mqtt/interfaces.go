// Package mqtt wraps the Paho client behind a small interface so the
// pipeline can be tested with in-memory fakes.
package mqtt

import "context"

// Client is the broker connection used by the agent and tools
type Client interface {
	// Connect opens the session, honoring ctx while the handshake is
	// in flight
	Connect(ctx context.Context) error
	Disconnect()

	Subscribe(topic string, qos byte, handler MessageHandler) error
	Publish(topic string, qos byte, retained bool, payload []byte) error

	IsConnected() bool
}

// MessageHandler receives messages for a subscribed topic
type MessageHandler func(Message)

// Message is a single received broker message
type Message interface {
	Topic() string
	Payload() []byte
}
